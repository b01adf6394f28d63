package view

import (
	"sort"
	"strings"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/authz"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/session"
)

type StudentFilter struct {
	ClassID int
	Status  school.Status
	Search  string // case-insensitive match on name, email or parent name
}

type StudentRow struct {
	school.StudentItem
	ClassLabel string
	CanEdit    bool
	CanToggle  bool
}

func StudentList(sess session.Session, snap school.Snapshot, filter StudentFilter) []StudentRow {
	scope := authz.NewScope(sess.Role, sess.TeacherID, snap)
	search := core.CleanString(filter.Search, true /* lower */)

	rows := make([]StudentRow, 0)
	for _, st := range scope.Students(snap.Students) {
		if filter.ClassID != 0 && st.ClassID != filter.ClassID {
			continue
		}
		if filter.Status != "" && st.Status != filter.Status {
			continue
		}
		if search != "" && !containsAny(search, st.FullName, st.StudentEmail, st.ParentName) {
			continue
		}
		rows = append(rows, StudentRow{
			StudentItem: st,
			ClassLabel:  snap.ClassLabel(st.ClassID),
			CanEdit:     scope.CanManageStudent(authz.ActionUpdate, st),
			CanToggle:   scope.CanManageStudent(authz.ActionToggleStatus, st),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].FullName) < strings.ToLower(rows[j].FullName)
	})
	return rows
}

type ClassRow struct {
	ID           int
	Label        string
	TeacherName  string
	StudentCount int
	Subjects     []school.SubjectAssignment
	CanEdit      bool
	CanDelete    bool
}

func ClassList(sess session.Session, snap school.Snapshot) []ClassRow {
	scope := authz.NewScope(sess.Role, sess.TeacherID, snap)
	classes := scope.Classes(snap.Classes)
	school.SortClasses(classes)

	rows := make([]ClassRow, 0, len(classes))
	for _, c := range classes {
		rows = append(rows, ClassRow{
			ID:           c.ID,
			Label:        school.ClassName(c),
			TeacherName:  snap.TeacherName(c.ClassTeacherID),
			StudentCount: len(snap.StudentsInClass(c.ID)),
			Subjects:     snap.SubjectsForClass(c.ID),
			CanEdit:      scope.CanManageClass(authz.ActionUpdate, c.ID),
			CanDelete:    scope.CanManageClass(authz.ActionDelete, c.ID),
		})
	}
	return rows
}

type SubjectRow struct {
	school.SubjectItem
	Classes []string // labels of the classes the subject is mapped into
}

func SubjectList(sess session.Session, snap school.Snapshot) []SubjectRow {
	scope := authz.NewScope(sess.Role, sess.TeacherID, snap)
	rows := make([]SubjectRow, 0, len(snap.Subjects))
	for _, sub := range scope.Subjects(snap.Subjects) {
		var mapped []school.ClassItem
		for _, c := range scope.Classes(snap.Classes) {
			for _, m := range c.Subjects {
				if m.SubjectID == sub.ID {
					mapped = append(mapped, c)
					break
				}
			}
		}
		school.SortClasses(mapped)

		row := SubjectRow{SubjectItem: sub, Classes: make([]string, 0, len(mapped))}
		for _, c := range mapped {
			row.Classes = append(row.Classes, school.ClassName(c))
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].SubjectName < rows[j].SubjectName })
	return rows
}

type StaffFilter struct {
	Status school.Status
	Search string
}

type StaffRow struct {
	school.StaffItem
	ClassTeacherOf []string
	CanManage      bool
}

func StaffList(sess session.Session, snap school.Snapshot, filter StaffFilter) []StaffRow {
	search := core.CleanString(filter.Search, true /* lower */)
	canManage := authz.Can(sess.Role, authz.ResourceStaff, authz.ActionUpdate)

	rows := make([]StaffRow, 0, len(snap.Teachers))
	for _, t := range snap.Teachers {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if search != "" && !containsAny(search, t.FullName, t.Email, t.SubjectSpecialization) {
			continue
		}
		var led []school.ClassItem
		for _, c := range snap.Classes {
			if c.ClassTeacherID.Valid && c.ClassTeacherID.Int == t.ID {
				led = append(led, c)
			}
		}
		school.SortClasses(led)

		row := StaffRow{StaffItem: t, ClassTeacherOf: make([]string, 0, len(led)), CanManage: canManage}
		for _, c := range led {
			row.ClassTeacherOf = append(row.ClassTeacherOf, school.ClassName(c))
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].FullName) < strings.ToLower(rows[j].FullName)
	})
	return rows
}

// Dashboard holds the counters of the landing page, computed within the viewer's scope.
type Dashboard struct {
	SchoolName       string
	Students         int
	ActiveStudents   int
	InactiveStudents int
	Staff            int
	ActiveStaff      int
	Classes          int
	Subjects         int
	StudentsByGender map[string]int
}

func DashboardOf(sess session.Session, snap school.Snapshot) Dashboard {
	scope := authz.NewScope(sess.Role, sess.TeacherID, snap)
	students := scope.Students(snap.Students)

	d := Dashboard{
		SchoolName:       snap.School.Name,
		Students:         len(students),
		Classes:          len(scope.Classes(snap.Classes)),
		Subjects:         len(scope.Subjects(snap.Subjects)),
		StudentsByGender: make(map[string]int),
	}
	for _, st := range students {
		if st.Status == school.StatusActive {
			d.ActiveStudents++
		} else {
			d.InactiveStudents++
		}
		d.StudentsByGender[st.Gender]++
	}
	if authz.Authorize(sess.Role, authz.ResourceStaff).Allowed {
		d.Staff = len(snap.Teachers)
		for _, t := range snap.Teachers {
			if t.Status == school.StatusActive {
				d.ActiveStaff++
			}
		}
	}
	return d
}

type ExamRow struct {
	school.ExamSubject
	SubjectName string
}

type ExamSchedule struct {
	Exam       school.Exam
	ClassLabel string
	Rows       []ExamRow
}

// ExamScheduleOf resolves the subjects of an exam, ordered by date then start time.
func ExamScheduleOf(exam school.Exam, subjects []school.ExamSubject, snap school.Snapshot) ExamSchedule {
	es := ExamSchedule{Exam: exam, ClassLabel: snap.ClassLabel(exam.ClassID), Rows: make([]ExamRow, 0, len(subjects))}
	for _, sub := range subjects {
		es.Rows = append(es.Rows, ExamRow{ExamSubject: sub, SubjectName: snap.SubjectName(sub.SubjectID)})
	}
	sort.SliceStable(es.Rows, func(i, j int) bool {
		if es.Rows[i].ExamDate != es.Rows[j].ExamDate {
			return es.Rows[i].ExamDate < es.Rows[j].ExamDate
		}
		return es.Rows[i].StartTime < es.Rows[j].StartTime
	})
	return es
}

func containsAny(needle string, haystacks ...string) bool {
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
