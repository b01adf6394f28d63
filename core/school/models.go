package school

import (
	"github.com/volatiletech/null/v8"
)

// Status of students and staff.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

func (s Status) Valid() bool { return s == StatusActive || s == StatusInactive }

// Toggle returns the other status. Anything that is not Active toggles to Active.
func (s Status) Toggle() Status {
	if s == StatusActive {
		return StatusInactive
	}
	return StatusActive
}

type School struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

// ClassSubject is a mapping row: a subject taught in a class, optionally by a teacher.
// At most one row exists per (ClassID, SubjectID).
type ClassSubject struct {
	ID        int      `json:"id"`
	ClassID   int      `json:"class_id,omitempty"`
	SubjectID int      `json:"subject_id"`
	TeacherID null.Int `json:"teacher_id"`
}

// ClassItem is unique per (Grade, Section) within a school.
type ClassItem struct {
	ID             int            `json:"id"`
	Grade          string         `json:"grade"`
	Section        string         `json:"section"`
	ClassTeacherID null.Int       `json:"class_teacher_id"`
	StudentCount   int            `json:"studentCount"`
	Subjects       []ClassSubject `json:"subjects"`
}

type StudentItem struct {
	ID            int    `json:"id"`
	UserID        int    `json:"user_id,omitempty"`
	FullName      string `json:"full_name"`
	StudentEmail  string `json:"student_email"`
	Gender        string `json:"gender"`
	DOB           string `json:"dob"`
	ClassID       int    `json:"class_id"`
	ParentName    string `json:"parent_name"`
	ParentContact string `json:"parent_contact"`
	AdmissionDate string `json:"admissionDate"`
	Status        Status `json:"status"`
	Address       string `json:"address"`
}

type StaffItem struct {
	ID                    int    `json:"id"`
	UserID                int    `json:"user_id,omitempty"`
	FullName              string `json:"full_name"`
	Email                 string `json:"email"`
	Gender                string `json:"gender"`
	JoiningDate           string `json:"joining_date"`
	Status                Status `json:"status"`
	PhoneNumber           string `json:"phone_number"`
	SubjectSpecialization string `json:"subject_specialization"`
}

type SubjectItem struct {
	ID                 int         `json:"id"`
	SubjectName        string      `json:"subject_name"`
	SubjectDescription null.String `json:"subject_description"`
}

// Exam & ExamSubject are read-only schedule data.
type Exam struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Term      string `json:"term"`
	ClassID   int    `json:"class_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type ExamSubject struct {
	ID        int    `json:"id"`
	ExamID    int    `json:"exam_id"`
	SubjectID int    `json:"subject_id"`
	ExamDate  string `json:"exam_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	MaxMarks  int    `json:"max_marks"`
}

// Credential is the login account created before a student or staff profile.
type Credential struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
