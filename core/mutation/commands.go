package mutation

import (
	"fmt"
	"net/http"

	"github.com/trezcool/darasa/core/school"
)

// Resource is the collection path of a mutable entity.
type Resource string

const (
	Students      Resource = "/api/students"
	Teachers      Resource = "/api/teachers"
	Classes       Resource = "/api/classes"
	Subjects      Resource = "/api/subjects"
	ClassSubjects Resource = "/api/class-subjects"
	Users         Resource = "/api/users"

	registerPath = "/api/register/user"
)

var labels = map[Resource]string{
	Students:      "Student",
	Teachers:      "Staff member",
	Classes:       "Class",
	Subjects:      "Subject",
	ClassSubjects: "Subject assignment",
	Users:         "User",
}

func (r Resource) Item(id int) string { return fmt.Sprintf("%s/%d", r, id) }

func (r Resource) label() string {
	if l, ok := labels[r]; ok {
		return l
	}
	return "Record"
}

func Create(res Resource, body, out interface{}) Command {
	return Command{
		Method:         http.MethodPost,
		Path:           string(res),
		Body:           body,
		Out:            out,
		SuccessTitle:   res.label() + " created",
		SuccessMessage: res.label() + " was created successfully.",
	}
}

func Update(res Resource, id int, body, out interface{}) Command {
	return Command{
		Method:         http.MethodPut,
		Path:           res.Item(id),
		Body:           body,
		Out:            out,
		SuccessTitle:   res.label() + " updated",
		SuccessMessage: res.label() + " was updated successfully.",
	}
}

func Delete(res Resource, id int) Command {
	return Command{
		Method:         http.MethodDelete,
		Path:           res.Item(id),
		SuccessTitle:   res.label() + " deleted",
		SuccessMessage: res.label() + " was deleted successfully.",
	}
}

// ToggleStatus flips current: the body is always the other of Active/Inactive.
// Concurrent toggles of the same record from two clients are last-write-wins.
func ToggleStatus(res Resource, id int, current school.Status) Command {
	next := current.Toggle()
	return Command{
		Method:         http.MethodPut,
		Path:           res.Item(id) + "/status",
		Body:           &school.StatusUpdate{Status: next},
		SuccessTitle:   "Status updated",
		SuccessMessage: fmt.Sprintf("%s is now %s.", res.label(), next),
	}
}

// AssignClassTeacher sets (or clears, with a null teacherID) the class teacher.
func AssignClassTeacher(class school.ClassItem, form *school.ClassForm) Command {
	cmd := Update(Classes, class.ID, form, nil)
	cmd.SuccessTitle = "Class teacher assigned"
	return cmd
}

// AssignSubject creates a mapping row, or updates the existing one of the same (class, subject).
func AssignSubject(class school.ClassItem, form *school.ClassSubjectForm) Command {
	for _, m := range class.Subjects {
		if m.SubjectID == form.SubjectID {
			cmd := Update(ClassSubjects, m.ID, form, nil)
			cmd.SuccessTitle = "Subject teacher updated"
			return cmd
		}
	}
	cmd := Create(ClassSubjects, form, nil)
	cmd.SuccessTitle = "Subject assigned"
	return cmd
}
