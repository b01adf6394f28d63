package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/authz"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/session"
)

// viewSnapshot: Jane (10) leads 5A & teaches Math there, John (11) leads 6B; 7C has no teacher.
func viewSnapshot() school.Snapshot {
	return school.Snapshot{
		School: school.School{ID: 1, Name: "Hillside Primary"},
		Classes: []school.ClassItem{
			{ID: 2, Grade: "6", Section: "B", ClassTeacherID: null.IntFrom(11), Subjects: []school.ClassSubject{
				{ID: 3, SubjectID: 21, TeacherID: null.IntFrom(11)},
			}},
			{ID: 1, Grade: "5", Section: "A", ClassTeacherID: null.IntFrom(10), Subjects: []school.ClassSubject{
				{ID: 1, SubjectID: 20, TeacherID: null.IntFrom(10)},
				{ID: 2, SubjectID: 21},
			}},
			{ID: 3, Grade: "7", Section: "C", ClassTeacherID: null.IntFrom(99)},
		},
		Students: []school.StudentItem{
			{ID: 1, FullName: "zawadi Mensah", StudentEmail: "zawadi@darasa.test", Gender: "Female", ClassID: 1, ParentName: "Kofi Mensah", Status: school.StatusActive},
			{ID: 2, FullName: "Baraka Otieno", StudentEmail: "baraka@darasa.test", Gender: "Male", ClassID: 2, ParentName: "Ruth Otieno", Status: school.StatusInactive},
			{ID: 3, FullName: "Amani Okello", StudentEmail: "amani@darasa.test", Gender: "Female", ClassID: 1, ParentName: "Grace Okello", Status: school.StatusActive},
		},
		Teachers: []school.StaffItem{
			{ID: 11, FullName: "John Smith", Email: "john@darasa.test", SubjectSpecialization: "English", Status: school.StatusActive},
			{ID: 10, FullName: "Jane Doe", Email: "jane@darasa.test", SubjectSpecialization: "Mathematics", Status: school.StatusInactive},
		},
		Subjects: []school.SubjectItem{
			{ID: 21, SubjectName: "English"},
			{ID: 20, SubjectName: "Math"},
			{ID: 22, SubjectName: "Science"},
		},
	}
}

var (
	admin = session.Session{Role: authz.RoleSchoolAdmin, SchoolID: 1}
	jane  = session.Session{Role: authz.RoleStaff, SchoolID: 1, TeacherID: 10}
)

func studentNames(rows []StudentRow) []string {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.FullName)
	}
	return names
}

func TestStudentList(t *testing.T) {
	snap := viewSnapshot()

	tests := []struct {
		name   string
		sess   session.Session
		filter StudentFilter
		want   []string
	}{
		{name: "admin, sorted by name", sess: admin, want: []string{"Amani Okello", "Baraka Otieno", "zawadi Mensah"}},
		{name: "staff scope", sess: jane, want: []string{"Amani Okello", "zawadi Mensah"}},
		{name: "by class", sess: admin, filter: StudentFilter{ClassID: 2}, want: []string{"Baraka Otieno"}},
		{name: "by status", sess: admin, filter: StudentFilter{Status: school.StatusInactive}, want: []string{"Baraka Otieno"}},
		{name: "search parent name", sess: admin, filter: StudentFilter{Search: " MENSAH "}, want: []string{"zawadi Mensah"}},
		{name: "staff, other class", sess: jane, filter: StudentFilter{ClassID: 2}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, studentNames(StudentList(tt.sess, snap, tt.filter)))
		})
	}
}

func TestStudentList_rows(t *testing.T) {
	rows := StudentList(jane, viewSnapshot(), StudentFilter{Search: "amani"})
	if len(rows) != 1 {
		t.Fatalf("StudentList() len = %d, want 1", len(rows))
	}
	assert.Equal(t, "Grade 5 - A", rows[0].ClassLabel)
	assert.True(t, rows[0].CanEdit)
	assert.True(t, rows[0].CanToggle)
}

func TestClassList(t *testing.T) {
	snap := viewSnapshot()

	rows := ClassList(admin, snap)
	if len(rows) != 3 {
		t.Fatalf("ClassList() len = %d, want 3", len(rows))
	}
	assert.Equal(t, "Grade 5 - A", rows[0].Label)
	assert.Equal(t, "Jane Doe", rows[0].TeacherName)
	assert.Equal(t, 2, rows[0].StudentCount)
	assert.Equal(t, []string{"Math", "English"}, []string{rows[0].Subjects[0].SubjectName, rows[0].Subjects[1].SubjectName})
	assert.Equal(t, school.Unassigned, rows[0].Subjects[1].TeacherName)
	assert.Equal(t, school.Unassigned, rows[2].TeacherName, "dangling class teacher")
	assert.True(t, rows[2].CanDelete)

	// grades sort numerically
	snap.Classes = append(snap.Classes, school.ClassItem{ID: 4, Grade: "10", Section: "A"})
	labels := make([]string, 0, 4)
	for _, r := range ClassList(admin, snap) {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, []string{"Grade 5 - A", "Grade 6 - B", "Grade 7 - C", "Grade 10 - A"}, labels)
	snap.Classes = snap.Classes[:3]

	staffRows := ClassList(jane, snap)
	if len(staffRows) != 1 {
		t.Fatalf("ClassList(staff) len = %d, want 1", len(staffRows))
	}
	assert.True(t, staffRows[0].CanEdit)
	assert.False(t, staffRows[0].CanDelete)
}

func TestSubjectList(t *testing.T) {
	snap := viewSnapshot()

	rows := SubjectList(admin, snap)
	assert.Equal(t, []string{"English", "Math", "Science"}, []string{rows[0].SubjectName, rows[1].SubjectName, rows[2].SubjectName})
	assert.Equal(t, []string{"Grade 5 - A", "Grade 6 - B"}, rows[0].Classes)
	assert.Empty(t, rows[2].Classes)

	// Jane leads 5A: both of its subjects, only mapped into 5A
	rows = SubjectList(jane, snap)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, []string{"Grade 5 - A"}, rows[0].Classes)
	}
}

func TestStaffList(t *testing.T) {
	snap := viewSnapshot()

	rows := StaffList(admin, snap, StaffFilter{})
	if assert.Len(t, rows, 2) {
		assert.Equal(t, "Jane Doe", rows[0].FullName)
		assert.Equal(t, []string{"Grade 5 - A"}, rows[0].ClassTeacherOf)
		assert.True(t, rows[0].CanManage)
	}

	rows = StaffList(jane, snap, StaffFilter{Status: school.StatusActive})
	if assert.Len(t, rows, 1) {
		assert.Equal(t, "John Smith", rows[0].FullName)
		assert.False(t, rows[0].CanManage)
	}

	assert.Len(t, StaffList(admin, snap, StaffFilter{Search: "math"}), 1)
}

func TestDashboardOf(t *testing.T) {
	snap := viewSnapshot()

	d := DashboardOf(admin, snap)
	assert.Equal(t, Dashboard{
		SchoolName:       "Hillside Primary",
		Students:         3,
		ActiveStudents:   2,
		InactiveStudents: 1,
		Staff:            2,
		ActiveStaff:      1,
		Classes:          3,
		Subjects:         3,
		StudentsByGender: map[string]int{"Female": 2, "Male": 1},
	}, d)

	d = DashboardOf(jane, snap)
	assert.Equal(t, 2, d.Students)
	assert.Equal(t, 1, d.Classes)
	assert.Equal(t, 2, d.Subjects)

	student := DashboardOf(session.Session{Role: authz.RoleStudent}, snap)
	assert.Zero(t, student.Staff, "staff counters need the staff page")
}

func TestExamScheduleOf(t *testing.T) {
	exam := school.Exam{ID: 1, Name: "Midterm", ClassID: 1}
	subjects := []school.ExamSubject{
		{ID: 3, SubjectID: 21, ExamDate: "2024-03-12", StartTime: "09:00"},
		{ID: 2, SubjectID: 99, ExamDate: "2024-03-11", StartTime: "13:00"},
		{ID: 1, SubjectID: 20, ExamDate: "2024-03-11", StartTime: "09:00"},
	}

	es := ExamScheduleOf(exam, subjects, viewSnapshot())
	assert.Equal(t, "Grade 5 - A", es.ClassLabel)
	var got []string
	for _, r := range es.Rows {
		got = append(got, r.SubjectName)
	}
	assert.Equal(t, []string{"Math", school.UnknownSubject, "English"}, got)
}
