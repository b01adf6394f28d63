package school

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"
)

// Placeholders rendered for referential-integrity gaps.
const (
	UnknownSubject = "Unknown Subject"
	UnknownClass   = "Unknown Class"
	Unassigned     = "Unassigned"
)

// SubjectAssignment is a mapping row resolved to display names.
type SubjectAssignment struct {
	MappingID   int
	SubjectID   int
	SubjectName string
	TeacherID   null.Int
	TeacherName string
}

// ClassName formats a class as "Grade <grade> - <section>".
func ClassName(c ClassItem) string {
	return fmt.Sprintf("Grade %s - %s", c.Grade, c.Section)
}

// SortClasses orders classes by grade, numerically when grades are numbers, then by section.
// Numeric grades come before free-form ones.
func SortClasses(classes []ClassItem) {
	sort.SliceStable(classes, func(i, j int) bool {
		a, b := classes[i], classes[j]
		ga, errA := strconv.Atoi(strings.TrimSpace(a.Grade))
		gb, errB := strconv.Atoi(strings.TrimSpace(b.Grade))
		switch {
		case errA == nil && errB == nil:
			if ga != gb {
				return ga < gb
			}
		case errA == nil || errB == nil:
			return errA == nil
		case a.Grade != b.Grade:
			return a.Grade < b.Grade
		}
		return a.Section < b.Section
	})
}

func (s Snapshot) ResolveClass(id int) (ClassItem, bool) {
	for _, c := range s.Classes {
		if c.ID == id {
			return c, true
		}
	}
	return ClassItem{}, false
}

func (s Snapshot) ResolveSubject(id int) (SubjectItem, bool) {
	for _, sub := range s.Subjects {
		if sub.ID == id {
			return sub, true
		}
	}
	return SubjectItem{}, false
}

// ResolveTeacher resolves an optional teacher reference. ok is false for null or dangling references.
func (s Snapshot) ResolveTeacher(ref null.Int) (StaffItem, bool) {
	if !ref.Valid {
		return StaffItem{}, false
	}
	for _, t := range s.Teachers {
		if t.ID == ref.Int {
			return t, true
		}
	}
	return StaffItem{}, false
}

// TeacherName renders an optional teacher reference, "Unassigned" when it is null or does not resolve.
func (s Snapshot) TeacherName(ref null.Int) string {
	if t, ok := s.ResolveTeacher(ref); ok {
		return t.FullName
	}
	return Unassigned
}

// SubjectName renders a subject reference, "Unknown Subject" when it does not resolve.
func (s Snapshot) SubjectName(id int) string {
	if sub, ok := s.ResolveSubject(id); ok {
		return sub.SubjectName
	}
	return UnknownSubject
}

// ClassLabel renders a class reference, "Unknown Class" when it does not resolve.
func (s Snapshot) ClassLabel(id int) string {
	if c, ok := s.ResolveClass(id); ok {
		return ClassName(c)
	}
	return UnknownClass
}

// TeacherForClass returns the class teacher of classID, if the class exists and its teacher resolves.
func (s Snapshot) TeacherForClass(classID int) (StaffItem, bool) {
	c, ok := s.ResolveClass(classID)
	if !ok {
		return StaffItem{}, false
	}
	return s.ResolveTeacher(c.ClassTeacherID)
}

func (s Snapshot) StudentsInClass(classID int) []StudentItem {
	students := make([]StudentItem, 0)
	for _, st := range s.Students {
		if st.ClassID == classID {
			students = append(students, st)
		}
	}
	return students
}

// SubjectsForClass resolves the mapping rows of classID. Gaps degrade to placeholders, never errors.
func (s Snapshot) SubjectsForClass(classID int) []SubjectAssignment {
	c, ok := s.ResolveClass(classID)
	if !ok {
		return []SubjectAssignment{}
	}
	rows := make([]SubjectAssignment, 0, len(c.Subjects))
	for _, m := range c.Subjects {
		rows = append(rows, SubjectAssignment{
			MappingID:   m.ID,
			SubjectID:   m.SubjectID,
			SubjectName: s.SubjectName(m.SubjectID),
			TeacherID:   m.TeacherID,
			TeacherName: s.TeacherName(m.TeacherID),
		})
	}
	return rows
}

// Mappings flattens the mapping rows of every class, filling in ClassID.
func (s Snapshot) Mappings() []ClassSubject {
	var rows []ClassSubject
	for _, c := range s.Classes {
		for _, m := range c.Subjects {
			m.ClassID = c.ID
			rows = append(rows, m)
		}
	}
	return rows
}
