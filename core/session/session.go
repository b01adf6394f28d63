package session

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/authz"
)

var (
	ErrNoToken      = errors.New("no session token")
	ErrTokenExpired = errors.New("session expired, please sign in again")
)

// Claims represents the authorization claims issued by the school API.
type Claims struct {
	jwt.StandardClaims
	UserID    int    `json:"user_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	SchoolID  int    `json:"school_id,omitempty"`
	TeacherID int    `json:"teacher_id,omitempty"` // staff only: the StaffItem of the user
	StudentID int    `json:"student_id,omitempty"` // student only
}

// Session is the identity of the viewer for one authenticated session.
type Session struct {
	Token     string
	UserID    int
	Name      string
	Email     string
	Role      authz.Role
	SchoolID  int
	TeacherID int
	StudentID int
	ExpiresAt time.Time
}

// IsTeacher reports whether the viewer is staff bound to a teacher record.
func (s Session) IsTeacher() bool {
	return s.Role == authz.RoleStaff && s.TeacherID != 0
}

// FromToken builds a Session from a bearer token.
// The signature is not verified: the school API enforces it on every request.
func FromToken(token string) (Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Session{}, ErrNoToken
	}

	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return Session{}, errors.Wrap(err, "parsing session token")
	}
	if err := claims.Valid(); err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return Session{}, ErrTokenExpired
		}
		return Session{}, errors.Wrap(err, "validating session token")
	}
	return FromClaims(token, claims)
}

func FromClaims(token string, claims *Claims) (Session, error) {
	role, err := authz.ParseRole(claims.Role)
	if err != nil {
		return Session{}, errors.Wrap(err, "reading session role")
	}
	sess := Session{
		Token:     token,
		UserID:    claims.UserID,
		Name:      claims.Name,
		Email:     claims.Email,
		Role:      role,
		SchoolID:  claims.SchoolID,
		TeacherID: claims.TeacherID,
		StudentID: claims.StudentID,
	}
	if claims.ExpiresAt != 0 {
		sess.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
	}
	return sess, nil
}

// NewToken signs claims with HS256. Used by the stub API and tests.
func NewToken(claims *Claims, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(secretKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}
