package inmemdb

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/school"
)

// Students

func (db *DB) QueryStudents(schoolID int) []school.StudentItem {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	res := make([]school.StudentItem, 0)
	for _, id := range sortedIDs(db.students) {
		if st := db.students[id]; st.SchoolID == schoolID {
			res = append(res, st.StudentItem)
		}
	}
	return res
}

func (db *DB) GetStudent(id int) (school.StudentItem, int, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if st, ok := db.students[id]; ok {
		return st.StudentItem, st.SchoolID, nil
	}
	return school.StudentItem{}, 0, ErrNotFound
}

// checkStudentClass must be called with the lock held.
func (db *DB) checkStudentClass(schoolID, classID int) error {
	if c, ok := db.classes[classID]; !ok || c.SchoolID != schoolID {
		return ErrUnknownClass
	}
	return nil
}

func (db *DB) CreateStudent(ns school.NewStudent) (school.StudentItem, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if err := db.checkStudentClass(ns.SchoolID, ns.ClassID); err != nil {
		return school.StudentItem{}, err
	}
	st := &studentRow{
		StudentItem: school.StudentItem{
			ID:            db.nextPK(),
			UserID:        ns.UserID,
			FullName:      ns.FullName,
			StudentEmail:  ns.StudentEmail,
			Gender:        ns.Gender,
			DOB:           ns.DOB,
			ClassID:       ns.ClassID,
			ParentName:    ns.ParentName,
			ParentContact: ns.ParentContact,
			AdmissionDate: ns.AdmissionDate,
			Status:        ns.Status,
			Address:       ns.Address,
		},
		SchoolID: ns.SchoolID,
	}
	db.students[st.ID] = st
	if usr, ok := db.users[ns.UserID]; ok {
		usr.StudentID = st.ID
	}
	return st.StudentItem, nil
}

func (db *DB) UpdateStudent(id int, us school.UpdateStudent) (school.StudentItem, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	st, ok := db.students[id]
	if !ok {
		return school.StudentItem{}, ErrNotFound
	}
	if err := db.checkStudentClass(st.SchoolID, us.ClassID); err != nil {
		return school.StudentItem{}, err
	}
	st.FullName = us.FullName
	st.StudentEmail = us.StudentEmail
	st.Gender = us.Gender
	st.DOB = us.DOB
	st.ClassID = us.ClassID
	st.ParentName = us.ParentName
	st.ParentContact = us.ParentContact
	st.Address = us.Address
	return st.StudentItem, nil
}

func (db *DB) SetStudentStatus(id int, status school.Status) (school.StudentItem, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	st, ok := db.students[id]
	if !ok {
		return school.StudentItem{}, ErrNotFound
	}
	st.Status = status
	return st.StudentItem, nil
}

func (db *DB) DeleteStudent(id int) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.students[id]; !ok {
		return ErrNotFound
	}
	delete(db.students, id)
	return nil
}

// Teachers

func (db *DB) QueryTeachers(schoolID int) []school.StaffItem {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	res := make([]school.StaffItem, 0)
	for _, id := range sortedIDs(db.teachers) {
		if t := db.teachers[id]; t.SchoolID == schoolID {
			res = append(res, t.StaffItem)
		}
	}
	return res
}

func (db *DB) GetTeacher(id int) (school.StaffItem, int, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if t, ok := db.teachers[id]; ok {
		return t.StaffItem, t.SchoolID, nil
	}
	return school.StaffItem{}, 0, ErrNotFound
}

func (db *DB) CreateTeacher(ns school.NewStaff) school.StaffItem {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	t := &staffRow{
		StaffItem: school.StaffItem{
			ID:                    db.nextPK(),
			UserID:                ns.UserID,
			FullName:              ns.FullName,
			Email:                 ns.Email,
			Gender:                ns.Gender,
			JoiningDate:           ns.JoiningDate,
			Status:                ns.Status,
			PhoneNumber:           ns.PhoneNumber,
			SubjectSpecialization: ns.SubjectSpecialization,
		},
		SchoolID: ns.SchoolID,
	}
	db.teachers[t.ID] = t
	if usr, ok := db.users[ns.UserID]; ok {
		usr.TeacherID = t.ID
	}
	return t.StaffItem
}

func (db *DB) UpdateTeacher(id int, us school.UpdateStaff) (school.StaffItem, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	t, ok := db.teachers[id]
	if !ok {
		return school.StaffItem{}, ErrNotFound
	}
	t.FullName = us.FullName
	t.Email = us.Email
	t.Gender = us.Gender
	t.PhoneNumber = us.PhoneNumber
	t.SubjectSpecialization = us.SubjectSpecialization
	return t.StaffItem, nil
}

func (db *DB) SetTeacherStatus(id int, status school.Status) (school.StaffItem, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	t, ok := db.teachers[id]
	if !ok {
		return school.StaffItem{}, ErrNotFound
	}
	t.Status = status
	return t.StaffItem, nil
}

// DeleteTeacher unassigns the teacher from classes and mapping rows.
func (db *DB) DeleteTeacher(id int) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.teachers[id]; !ok {
		return ErrNotFound
	}
	for _, c := range db.classes {
		if c.ClassTeacherID.Valid && c.ClassTeacherID.Int == id {
			c.ClassTeacherID = null.Int{}
		}
	}
	for _, m := range db.mappings {
		if m.TeacherID.Valid && m.TeacherID.Int == id {
			m.TeacherID = null.Int{}
		}
	}
	delete(db.teachers, id)
	return nil
}
