package inmemdb

import (
	"errors"
	"sort"
	"sync"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/school"
)

var (
	// errors
	ErrNotFound         = errors.New("not found")
	ErrDuplicateClass   = errors.New("a class with this grade and section already exists")
	ErrDuplicateMapping = errors.New("this subject is already assigned to the class")
	ErrUnknownTeacher   = errors.New("teacher does not exist in this school")
	ErrUnknownClass     = errors.New("class does not exist in this school")
	ErrUnknownSubject   = errors.New("subject does not exist in this school")
	ErrClassNotEmpty    = errors.New("class still has students")
	ErrEmailExists      = errors.New("a user with this email already exists")
	ErrUsernameExists   = errors.New("a user with this username already exists")
	ErrBadCredentials   = errors.New("invalid credentials")
)

type (
	classRow struct {
		ID             int
		SchoolID       int
		Grade          string
		Section        string
		ClassTeacherID null.Int
	}

	studentRow struct {
		school.StudentItem
		SchoolID int
	}

	staffRow struct {
		school.StaffItem
		SchoolID int
	}

	subjectRow struct {
		school.SubjectItem
		SchoolID int
	}

	examRow struct {
		school.Exam
		SchoolID int
	}

	// DB is a school API store kept in memory. Every method is safe for concurrent use.
	DB struct {
		mutex sync.RWMutex
		pk    int

		schools      map[int]*school.School
		classes      map[int]*classRow
		students     map[int]*studentRow
		teachers     map[int]*staffRow
		subjects     map[int]*subjectRow
		mappings     map[int]*school.ClassSubject
		users        map[int]*User
		exams        map[int]*examRow
		examSubjects map[int]*school.ExamSubject
	}
)

func Open() *DB {
	return &DB{
		schools:      make(map[int]*school.School),
		classes:      make(map[int]*classRow),
		students:     make(map[int]*studentRow),
		teachers:     make(map[int]*staffRow),
		subjects:     make(map[int]*subjectRow),
		mappings:     make(map[int]*school.ClassSubject),
		users:        make(map[int]*User),
		exams:        make(map[int]*examRow),
		examSubjects: make(map[int]*school.ExamSubject),
	}
}

// nextPK must be called with the write lock held.
func (db *DB) nextPK() int {
	db.pk++
	return db.pk
}

func sortedIDs[T any](table map[int]T) []int {
	ids := make([]int, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Schools

func (db *DB) CreateSchool(s school.School) school.School {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	s.ID = db.nextPK()
	db.schools[s.ID] = &s
	return s
}

func (db *DB) GetSchool(id int) (school.School, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if s, ok := db.schools[id]; ok {
		return *s, nil
	}
	return school.School{}, ErrNotFound
}

// Exams

func (db *DB) CreateExam(schoolID int, exam school.Exam) school.Exam {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	exam.ID = db.nextPK()
	db.exams[exam.ID] = &examRow{Exam: exam, SchoolID: schoolID}
	return exam
}

func (db *DB) GetExam(id int) (school.Exam, int, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if e, ok := db.exams[id]; ok {
		return e.Exam, e.SchoolID, nil
	}
	return school.Exam{}, 0, ErrNotFound
}

func (db *DB) CreateExamSubject(es school.ExamSubject) (school.ExamSubject, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	if _, ok := db.exams[es.ExamID]; !ok {
		return school.ExamSubject{}, ErrNotFound
	}
	es.ID = db.nextPK()
	db.examSubjects[es.ID] = &es
	return es, nil
}

func (db *DB) QueryExamSubjects(examID int) []school.ExamSubject {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	res := make([]school.ExamSubject, 0)
	for _, id := range sortedIDs(db.examSubjects) {
		if es := db.examSubjects[id]; es.ExamID == examID {
			res = append(res, *es)
		}
	}
	return res
}
