package inmemdb

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/school"
)

// SeedPassword is the password of every seeded user.
const SeedPassword = "Darasa#2024!"

// Fixture holds the ids of the records created by Seed.
type Fixture struct {
	SchoolID int

	TeacherJane int
	TeacherJohn int

	ClassFiveA int
	ClassSixB  int

	SubjectMath    int
	SubjectEnglish int
	SubjectScience int

	MappingFiveAMath    int
	MappingFiveAEnglish int
	MappingSixBScience  int
	MappingSixBMath     int

	Students []int
	Exam     int

	SuperAdmin  User
	SchoolAdmin User
	Staff       User // bound to TeacherJane
	Student     User // bound to Students[0]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Seed fills db with a small school used by local development & tests.
// Jane leads 5 A and teaches science in 6 B; John leads 6 B and teaches English in 5 A.
func Seed(db *DB) Fixture {
	var fx Fixture

	sch := db.CreateSchool(school.School{
		Name:         "Greenfield Academy",
		Address:      "12 Baobab Road, Lubumbashi",
		ContactEmail: "office@greenfield.test",
		ContactPhone: "+243990000000",
	})
	fx.SchoolID = sch.ID

	fx.TeacherJane = db.CreateTeacher(school.NewStaff{
		SchoolID: sch.ID, FullName: "Jane Doe", Email: "jane@greenfield.test", Gender: "Female",
		JoiningDate: "2019-09-02", PhoneNumber: "+243990000001", SubjectSpecialization: "Mathematics",
		Status: school.StatusActive,
	}).ID
	fx.TeacherJohn = db.CreateTeacher(school.NewStaff{
		SchoolID: sch.ID, FullName: "John Smith", Email: "john@greenfield.test", Gender: "Male",
		JoiningDate: "2021-01-11", PhoneNumber: "+243990000002", SubjectSpecialization: "Languages",
		Status: school.StatusActive,
	}).ID

	fx.ClassFiveA = must(db.CreateClass(sch.ID, school.ClassForm{Grade: "5", Section: "A", ClassTeacherID: null.IntFrom(fx.TeacherJane)})).ID
	fx.ClassSixB = must(db.CreateClass(sch.ID, school.ClassForm{Grade: "6", Section: "B", ClassTeacherID: null.IntFrom(fx.TeacherJohn)})).ID

	fx.SubjectMath = db.CreateSubject(sch.ID, school.SubjectForm{SubjectName: "Mathematics", SubjectDescription: null.StringFrom("Numbers & shapes")}).ID
	fx.SubjectEnglish = db.CreateSubject(sch.ID, school.SubjectForm{SubjectName: "English"}).ID
	fx.SubjectScience = db.CreateSubject(sch.ID, school.SubjectForm{SubjectName: "Science"}).ID

	fx.MappingFiveAMath = must(db.CreateMapping(school.ClassSubjectForm{ClassID: fx.ClassFiveA, SubjectID: fx.SubjectMath, TeacherID: null.IntFrom(fx.TeacherJane)})).ID
	fx.MappingFiveAEnglish = must(db.CreateMapping(school.ClassSubjectForm{ClassID: fx.ClassFiveA, SubjectID: fx.SubjectEnglish, TeacherID: null.IntFrom(fx.TeacherJohn)})).ID
	fx.MappingSixBScience = must(db.CreateMapping(school.ClassSubjectForm{ClassID: fx.ClassSixB, SubjectID: fx.SubjectScience, TeacherID: null.IntFrom(fx.TeacherJane)})).ID
	fx.MappingSixBMath = must(db.CreateMapping(school.ClassSubjectForm{ClassID: fx.ClassSixB, SubjectID: fx.SubjectMath})).ID

	students := []school.NewStudent{
		{FullName: "Amani Kabila", Gender: "Female", DOB: "2014-03-12", ClassID: fx.ClassFiveA, Status: school.StatusActive},
		{FullName: "Bienvenu Mutombo", Gender: "Male", DOB: "2014-07-30", ClassID: fx.ClassFiveA, Status: school.StatusActive},
		{FullName: "Chantal Ilunga", Gender: "Female", DOB: "2013-11-05", ClassID: fx.ClassFiveA, Status: school.StatusInactive},
		{FullName: "David Banza", Gender: "Male", DOB: "2012-01-21", ClassID: fx.ClassSixB, Status: school.StatusActive},
		{FullName: "Esther Mwamba", Gender: "Female", DOB: "2012-09-14", ClassID: fx.ClassSixB, Status: school.StatusActive},
	}
	for i, ns := range students {
		ns.SchoolID = sch.ID
		ns.StudentEmail = "student" + string(rune('a'+i)) + "@greenfield.test"
		ns.ParentName = "Parent of " + ns.FullName
		ns.ParentContact = "+24399100000" + string(rune('1'+i))
		ns.AdmissionDate = "2020-09-01"
		fx.Students = append(fx.Students, must(db.CreateStudent(ns)).ID)
	}

	exam := db.CreateExam(sch.ID, school.Exam{Name: "First Term Exams", Term: "Term 1", ClassID: fx.ClassFiveA, StartDate: "2024-11-18", EndDate: "2024-11-22"})
	fx.Exam = exam.ID
	must(db.CreateExamSubject(school.ExamSubject{ExamID: exam.ID, SubjectID: fx.SubjectMath, ExamDate: "2024-11-18", StartTime: "08:00", EndTime: "10:00", MaxMarks: 100}))
	must(db.CreateExamSubject(school.ExamSubject{ExamID: exam.ID, SubjectID: fx.SubjectEnglish, ExamDate: "2024-11-19", StartTime: "08:00", EndTime: "09:30", MaxMarks: 50}))

	newUser := func(name, username, role string) User {
		return must(db.CreateUser(school.NewCredential{
			Name: name, Username: username, Email: username + "@greenfield.test", Role: role,
			SchoolID: sch.ID, Password: SeedPassword, PasswordConfirm: SeedPassword,
		}))
	}
	fx.SuperAdmin = newUser("Platform Owner", "superadmin", "super_admin")
	fx.SuperAdmin.SchoolID = 0
	fx.SchoolAdmin = newUser("Grace Admin", "schooladmin", "school_admin")
	fx.Staff = newUser("Jane Doe", "jane", "staff")
	fx.Student = newUser("Amani Kabila", "amani", "student")

	db.mutex.Lock()
	db.users[fx.SuperAdmin.ID].SchoolID = 0
	db.users[fx.Staff.ID].TeacherID = fx.TeacherJane
	db.users[fx.Student.ID].StudentID = fx.Students[0]
	fx.Staff.TeacherID = fx.TeacherJane
	fx.Student.StudentID = fx.Students[0]
	db.mutex.Unlock()

	return fx
}
