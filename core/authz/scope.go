package authz

import (
	"github.com/trezcool/darasa/core/school"
)

// Scope narrows the school collections to what a viewer may see.
// The API returns all school-scoped data; staff are narrowed client-side to the classes they teach:
// classes where they are the class teacher or appear as teacher on at least one mapping row.
type Scope struct {
	role      Role
	teacherID int
	classes   map[int]struct{}
	subjects  map[int]struct{}
}

// NewScope computes the scope of a viewer over snap.
func NewScope(role Role, teacherID int, snap school.Snapshot) Scope {
	sc := Scope{role: role, teacherID: teacherID}
	if role != RoleStaff {
		return sc
	}

	sc.classes = make(map[int]struct{})
	sc.subjects = make(map[int]struct{})
	if teacherID == 0 {
		return sc
	}
	for _, c := range snap.Classes {
		isClassTeacher := c.ClassTeacherID.Valid && c.ClassTeacherID.Int == teacherID
		if isClassTeacher {
			sc.classes[c.ID] = struct{}{}
		}
		for _, m := range c.Subjects {
			if m.TeacherID.Valid && m.TeacherID.Int == teacherID {
				sc.classes[c.ID] = struct{}{}
				sc.subjects[m.SubjectID] = struct{}{}
			}
		}
	}
	// subjects taught in a class they lead are visible too
	for _, c := range snap.Classes {
		if _, ok := sc.classes[c.ID]; !ok {
			continue
		}
		if c.ClassTeacherID.Valid && c.ClassTeacherID.Int == teacherID {
			for _, m := range c.Subjects {
				sc.subjects[m.SubjectID] = struct{}{}
			}
		}
	}
	return sc
}

// Narrowed reports whether the scope filters anything.
func (sc Scope) Narrowed() bool { return sc.role == RoleStaff }

func (sc Scope) HasClass(classID int) bool {
	if !sc.Narrowed() {
		return true
	}
	_, ok := sc.classes[classID]
	return ok
}

func (sc Scope) HasSubject(subjectID int) bool {
	if !sc.Narrowed() {
		return true
	}
	_, ok := sc.subjects[subjectID]
	return ok
}

func (sc Scope) HasStudent(st school.StudentItem) bool {
	return sc.HasClass(st.ClassID)
}

func (sc Scope) Classes(classes []school.ClassItem) []school.ClassItem {
	res := make([]school.ClassItem, 0, len(classes))
	for _, c := range classes {
		if sc.HasClass(c.ID) {
			res = append(res, c)
		}
	}
	return res
}

func (sc Scope) Students(students []school.StudentItem) []school.StudentItem {
	res := make([]school.StudentItem, 0, len(students))
	for _, st := range students {
		if sc.HasStudent(st) {
			res = append(res, st)
		}
	}
	return res
}

func (sc Scope) Subjects(subjects []school.SubjectItem) []school.SubjectItem {
	res := make([]school.SubjectItem, 0, len(subjects))
	for _, sub := range subjects {
		if sc.HasSubject(sub.ID) {
			res = append(res, sub)
		}
	}
	return res
}

// CanManageStudent combines the action grant with the viewer's scope.
func (sc Scope) CanManageStudent(action Action, st school.StudentItem) bool {
	return Can(sc.role, ResourceStudents, action) && sc.HasStudent(st)
}

// CanManageClass combines the action grant with the viewer's scope.
func (sc Scope) CanManageClass(action Action, classID int) bool {
	return Can(sc.role, ResourceClasses, action) && sc.HasClass(classID)
}
