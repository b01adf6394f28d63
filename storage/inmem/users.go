package inmemdb

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core/school"
)

type User struct {
	ID           int
	Name         string
	Username     string
	Email        string
	Role         string
	SchoolID     int
	TeacherID    int
	StudentID    int
	PasswordHash []byte
	CreatedAt    time.Time
	LastLogin    time.Time
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u User) Credential() school.Credential {
	return school.Credential{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// CreateUser registers a login. Username & email are unique, case-insensitive.
func (db *DB) CreateUser(nc school.NewCredential) (User, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	uname := strings.ToLower(nc.Username)
	email := strings.ToLower(nc.Email)
	for _, u := range db.users {
		if uname != "" && u.Username == uname {
			return User{}, ErrUsernameExists
		}
		if u.Email == email {
			return User{}, ErrEmailExists
		}
	}

	usr := &User{
		ID:        db.nextPK(),
		Name:      nc.Name,
		Username:  uname,
		Email:     email,
		Role:      nc.Role,
		SchoolID:  nc.SchoolID,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nc.Password); err != nil {
		return User{}, err
	}
	db.users[usr.ID] = usr
	return *usr, nil
}

func (db *DB) GetUser(id int) (User, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if u, ok := db.users[id]; ok {
		return *u, nil
	}
	return User{}, ErrNotFound
}

func (db *DB) DeleteUser(id int) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.users[id]; !ok {
		return ErrNotFound
	}
	delete(db.users, id)
	return nil
}

// Authenticate checks a username (or email) & password pair and records the login.
func (db *DB) Authenticate(username, pwd string) (User, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	for _, u := range db.users {
		if u.Username == username || u.Email == username {
			if err := u.CheckPassword(pwd); err != nil {
				return User{}, ErrBadCredentials
			}
			u.LastLogin = time.Now().UTC()
			return *u, nil
		}
	}
	return User{}, ErrBadCredentials
}
