package restapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trezcool/darasa/core/school"
)

// Endpoint is bound to exactly one school collection.
type Endpoint int

const (
	EndpointSchool Endpoint = iota
	EndpointClasses
	EndpointStudents
	EndpointTeachers
	EndpointSubjects
)

func (ep Endpoint) String() string {
	switch ep {
	case EndpointSchool:
		return "school"
	case EndpointClasses:
		return "classes"
	case EndpointStudents:
		return "students"
	case EndpointTeachers:
		return "teachers"
	case EndpointSubjects:
		return "subjects"
	default:
		return fmt.Sprintf("Endpoint(%d)", int(ep))
	}
}

func (ep Endpoint) Path(schoolID int) string {
	if ep == EndpointSchool {
		return fmt.Sprintf("/api/schools/%d", schoolID)
	}
	return fmt.Sprintf("/api/schools/%d/%s", schoolID, ep)
}

// FetchCollection loads one collection with a single GET.
func FetchCollection[T any](ctx context.Context, c *Client, ep Endpoint, schoolID int) ([]T, error) {
	var items []T
	if err := c.Do(ctx, http.MethodGet, ep.Path(schoolID), nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = make([]T, 0) // `null` body
	}
	return items, nil
}

func (c *Client) FetchSchool(ctx context.Context, schoolID int) (school.School, error) {
	var s school.School
	if err := c.Do(ctx, http.MethodGet, EndpointSchool.Path(schoolID), nil, &s); err != nil {
		return school.School{}, err
	}
	return s, nil
}

func (c *Client) FetchClasses(ctx context.Context, schoolID int) ([]school.ClassItem, error) {
	return FetchCollection[school.ClassItem](ctx, c, EndpointClasses, schoolID)
}

func (c *Client) FetchStudents(ctx context.Context, schoolID int) ([]school.StudentItem, error) {
	return FetchCollection[school.StudentItem](ctx, c, EndpointStudents, schoolID)
}

func (c *Client) FetchTeachers(ctx context.Context, schoolID int) ([]school.StaffItem, error) {
	return FetchCollection[school.StaffItem](ctx, c, EndpointTeachers, schoolID)
}

func (c *Client) FetchSubjects(ctx context.Context, schoolID int) ([]school.SubjectItem, error) {
	return FetchCollection[school.SubjectItem](ctx, c, EndpointSubjects, schoolID)
}

// GetExam & GetExamSubjects load read-only exam schedule data.
func (c *Client) GetExam(ctx context.Context, examID int) (school.Exam, error) {
	var exam school.Exam
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/exams/%d", examID), nil, &exam); err != nil {
		return school.Exam{}, err
	}
	return exam, nil
}

func (c *Client) GetExamSubjects(ctx context.Context, examID int) ([]school.ExamSubject, error) {
	var subjects []school.ExamSubject
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/api/exams/%d/subjects", examID), nil, &subjects); err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = make([]school.ExamSubject, 0)
	}
	return subjects, nil
}
