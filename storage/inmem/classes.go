package inmemdb

import (
	"strings"

	"github.com/trezcool/darasa/core/school"
)

// classItem must be called with the lock held.
func (db *DB) classItem(c *classRow) school.ClassItem {
	item := school.ClassItem{
		ID:             c.ID,
		Grade:          c.Grade,
		Section:        c.Section,
		ClassTeacherID: c.ClassTeacherID,
		Subjects:       make([]school.ClassSubject, 0),
	}
	for _, st := range db.students {
		if st.ClassID == c.ID {
			item.StudentCount++
		}
	}
	for _, id := range sortedIDs(db.mappings) {
		if m := db.mappings[id]; m.ClassID == c.ID {
			item.Subjects = append(item.Subjects, school.ClassSubject{ID: m.ID, SubjectID: m.SubjectID, TeacherID: m.TeacherID})
		}
	}
	return item
}

func (db *DB) QueryClasses(schoolID int) []school.ClassItem {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	res := make([]school.ClassItem, 0)
	for _, id := range sortedIDs(db.classes) {
		if c := db.classes[id]; c.SchoolID == schoolID {
			res = append(res, db.classItem(c))
		}
	}
	return res
}

func (db *DB) GetClass(id int) (school.ClassItem, int, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if c, ok := db.classes[id]; ok {
		return db.classItem(c), c.SchoolID, nil
	}
	return school.ClassItem{}, 0, ErrNotFound
}

// checkClass must be called with the lock held.
func (db *DB) checkClass(schoolID, excludeID int, form school.ClassForm) error {
	for _, c := range db.classes {
		if c.ID != excludeID && c.SchoolID == schoolID &&
			strings.EqualFold(c.Grade, form.Grade) && strings.EqualFold(c.Section, form.Section) {
			return ErrDuplicateClass
		}
	}
	if form.ClassTeacherID.Valid {
		t, ok := db.teachers[form.ClassTeacherID.Int]
		if !ok || t.SchoolID != schoolID {
			return ErrUnknownTeacher
		}
	}
	return nil
}

func (db *DB) CreateClass(schoolID int, form school.ClassForm) (school.ClassItem, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if err := db.checkClass(schoolID, 0, form); err != nil {
		return school.ClassItem{}, err
	}
	c := &classRow{
		ID:             db.nextPK(),
		SchoolID:       schoolID,
		Grade:          form.Grade,
		Section:        form.Section,
		ClassTeacherID: form.ClassTeacherID,
	}
	db.classes[c.ID] = c
	return db.classItem(c), nil
}

func (db *DB) UpdateClass(id int, form school.ClassForm) (school.ClassItem, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	c, ok := db.classes[id]
	if !ok {
		return school.ClassItem{}, ErrNotFound
	}
	if err := db.checkClass(c.SchoolID, id, form); err != nil {
		return school.ClassItem{}, err
	}
	c.Grade = form.Grade
	c.Section = form.Section
	c.ClassTeacherID = form.ClassTeacherID
	return db.classItem(c), nil
}

func (db *DB) DeleteClass(id int) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.classes[id]; !ok {
		return ErrNotFound
	}
	for _, st := range db.students {
		if st.ClassID == id {
			return ErrClassNotEmpty
		}
	}
	for mid, m := range db.mappings {
		if m.ClassID == id {
			delete(db.mappings, mid)
		}
	}
	delete(db.classes, id)
	return nil
}

// Subjects

func (db *DB) QuerySubjects(schoolID int) []school.SubjectItem {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	res := make([]school.SubjectItem, 0)
	for _, id := range sortedIDs(db.subjects) {
		if s := db.subjects[id]; s.SchoolID == schoolID {
			res = append(res, s.SubjectItem)
		}
	}
	return res
}

func (db *DB) CreateSubject(schoolID int, form school.SubjectForm) school.SubjectItem {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	s := &subjectRow{
		SubjectItem: school.SubjectItem{ID: db.nextPK(), SubjectName: form.SubjectName, SubjectDescription: form.SubjectDescription},
		SchoolID:    schoolID,
	}
	db.subjects[s.ID] = s
	return s.SubjectItem
}

func (db *DB) UpdateSubject(id int, form school.SubjectForm) (school.SubjectItem, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	s, ok := db.subjects[id]
	if !ok {
		return school.SubjectItem{}, ErrNotFound
	}
	s.SubjectName = form.SubjectName
	s.SubjectDescription = form.SubjectDescription
	return s.SubjectItem, nil
}

// DeleteSubject also removes the mapping rows of the subject.
func (db *DB) DeleteSubject(id int) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.subjects[id]; !ok {
		return ErrNotFound
	}
	for mid, m := range db.mappings {
		if m.SubjectID == id {
			delete(db.mappings, mid)
		}
	}
	delete(db.subjects, id)
	return nil
}

// Class-subject mappings

// checkMapping must be called with the lock held.
func (db *DB) checkMapping(excludeID int, form school.ClassSubjectForm) error {
	c, ok := db.classes[form.ClassID]
	if !ok {
		return ErrUnknownClass
	}
	if s, ok := db.subjects[form.SubjectID]; !ok || s.SchoolID != c.SchoolID {
		return ErrUnknownSubject
	}
	if form.TeacherID.Valid {
		if t, ok := db.teachers[form.TeacherID.Int]; !ok || t.SchoolID != c.SchoolID {
			return ErrUnknownTeacher
		}
	}
	for _, m := range db.mappings {
		if m.ID != excludeID && m.ClassID == form.ClassID && m.SubjectID == form.SubjectID {
			return ErrDuplicateMapping
		}
	}
	return nil
}

func (db *DB) CreateMapping(form school.ClassSubjectForm) (school.ClassSubject, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if err := db.checkMapping(0, form); err != nil {
		return school.ClassSubject{}, err
	}
	m := &school.ClassSubject{ID: db.nextPK(), ClassID: form.ClassID, SubjectID: form.SubjectID, TeacherID: form.TeacherID}
	db.mappings[m.ID] = m
	return *m, nil
}

func (db *DB) UpdateMapping(id int, form school.ClassSubjectForm) (school.ClassSubject, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	m, ok := db.mappings[id]
	if !ok {
		return school.ClassSubject{}, ErrNotFound
	}
	if err := db.checkMapping(id, form); err != nil {
		return school.ClassSubject{}, err
	}
	m.ClassID = form.ClassID
	m.SubjectID = form.SubjectID
	m.TeacherID = form.TeacherID
	return *m, nil
}

func (db *DB) DeleteMapping(id int) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.mappings[id]; !ok {
		return ErrNotFound
	}
	delete(db.mappings, id)
	return nil
}
