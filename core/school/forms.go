package school

import (
	"fmt"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// NewStudent contains the information needed to create a student profile.
// UserID is filled in by the account creation saga.
type NewStudent struct {
	UserID        int    `json:"user_id,omitempty"`
	SchoolID      int    `json:"school_id" validate:"required"`
	FullName      string `json:"full_name" validate:"required,notblank,max=120"`
	StudentEmail  string `json:"student_email" validate:"required,email"`
	Gender        string `json:"gender" validate:"required,gender"`
	DOB           string `json:"dob" validate:"required,datetime=2006-01-02"`
	ClassID       int    `json:"class_id" validate:"required,gt=0"`
	ParentName    string `json:"parent_name" validate:"required,notblank"`
	ParentContact string `json:"parent_contact" validate:"required,phone"`
	AdmissionDate string `json:"admissionDate" validate:"required,datetime=2006-01-02"`
	Status        Status `json:"status" validate:"required,status"`
	Address       string `json:"address" validate:"omitempty,max=255"`
}

func (ns *NewStudent) Validate() error {
	ns.FullName = core.CleanString(ns.FullName)
	ns.StudentEmail = core.CleanString(ns.StudentEmail, true /* lower */)
	ns.ParentName = core.CleanString(ns.ParentName)
	ns.ParentContact = core.CleanString(ns.ParentContact)
	ns.Address = core.CleanString(ns.Address)
	if ns.Status == "" {
		ns.Status = StatusActive
	}
	return core.ValidateStruct(ns)
}

// UpdateStudent defines what may be changed on an existing student.
type UpdateStudent struct {
	FullName      string `json:"full_name" validate:"required,notblank,max=120"`
	StudentEmail  string `json:"student_email" validate:"required,email"`
	Gender        string `json:"gender" validate:"required,gender"`
	DOB           string `json:"dob" validate:"required,datetime=2006-01-02"`
	ClassID       int    `json:"class_id" validate:"required,gt=0"`
	ParentName    string `json:"parent_name" validate:"required,notblank"`
	ParentContact string `json:"parent_contact" validate:"required,phone"`
	Address       string `json:"address" validate:"omitempty,max=255"`
}

func (us *UpdateStudent) Validate() error {
	us.FullName = core.CleanString(us.FullName)
	us.StudentEmail = core.CleanString(us.StudentEmail, true /* lower */)
	us.ParentName = core.CleanString(us.ParentName)
	us.ParentContact = core.CleanString(us.ParentContact)
	us.Address = core.CleanString(us.Address)
	return core.ValidateStruct(us)
}

// UpdateStudentFrom prefills an edit form with the student's current values.
func UpdateStudentFrom(s StudentItem) UpdateStudent {
	return UpdateStudent{
		FullName:      s.FullName,
		StudentEmail:  s.StudentEmail,
		Gender:        s.Gender,
		DOB:           s.DOB,
		ClassID:       s.ClassID,
		ParentName:    s.ParentName,
		ParentContact: s.ParentContact,
		Address:       s.Address,
	}
}

type NewStaff struct {
	UserID                int    `json:"user_id,omitempty"`
	SchoolID              int    `json:"school_id" validate:"required"`
	FullName              string `json:"full_name" validate:"required,notblank,max=120"`
	Email                 string `json:"email" validate:"required,email"`
	Gender                string `json:"gender" validate:"required,gender"`
	JoiningDate           string `json:"joining_date" validate:"required,datetime=2006-01-02"`
	PhoneNumber           string `json:"phone_number" validate:"required,phone"`
	SubjectSpecialization string `json:"subject_specialization" validate:"omitempty,max=120"`
	Status                Status `json:"status" validate:"required,status"`
}

func (ns *NewStaff) Validate() error {
	ns.FullName = core.CleanString(ns.FullName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.PhoneNumber = core.CleanString(ns.PhoneNumber)
	ns.SubjectSpecialization = core.CleanString(ns.SubjectSpecialization)
	if ns.Status == "" {
		ns.Status = StatusActive
	}
	return core.ValidateStruct(ns)
}

type UpdateStaff struct {
	FullName              string `json:"full_name" validate:"required,notblank,max=120"`
	Email                 string `json:"email" validate:"required,email"`
	Gender                string `json:"gender" validate:"required,gender"`
	PhoneNumber           string `json:"phone_number" validate:"required,phone"`
	SubjectSpecialization string `json:"subject_specialization" validate:"omitempty,max=120"`
}

func (us *UpdateStaff) Validate() error {
	us.FullName = core.CleanString(us.FullName)
	us.Email = core.CleanString(us.Email, true /* lower */)
	us.PhoneNumber = core.CleanString(us.PhoneNumber)
	us.SubjectSpecialization = core.CleanString(us.SubjectSpecialization)
	return core.ValidateStruct(us)
}

// ClassForm is used for both class creation and edition.
type ClassForm struct {
	SchoolID       int      `json:"school_id,omitempty"`
	Grade          string   `json:"grade" validate:"required,notblank,max=20"`
	Section        string   `json:"section" validate:"required,notblank,max=10"`
	ClassTeacherID null.Int `json:"class_teacher_id"`
}

func (cf *ClassForm) Validate() error {
	cf.Grade = core.CleanString(cf.Grade)
	cf.Section = strings.ToUpper(core.CleanString(cf.Section))
	return core.ValidateStruct(cf)
}

// CheckUnique reports a field error if another class already uses the same grade & section.
// The server remains authoritative; this only saves a round-trip on obvious duplicates.
func (cf *ClassForm) CheckUnique(classes []ClassItem, excludeID int) error {
	grade := core.CleanString(cf.Grade)
	section := strings.ToUpper(core.CleanString(cf.Section))
	for _, c := range classes {
		if c.ID == excludeID {
			continue
		}
		if strings.EqualFold(c.Grade, grade) && strings.EqualFold(c.Section, section) {
			msg := fmt.Sprintf("class %s already exists", ClassName(c))
			return core.NewValidationError(nil, core.FieldError{Field: "section", Error: msg})
		}
	}
	return nil
}

type SubjectForm struct {
	SchoolID           int         `json:"school_id,omitempty"`
	SubjectName        string      `json:"subject_name" validate:"required,notblank,max=80"`
	SubjectDescription null.String `json:"subject_description"`
}

func (sf *SubjectForm) Validate() error {
	sf.SubjectName = core.CleanString(sf.SubjectName)
	if sf.SubjectDescription.Valid {
		sf.SubjectDescription.String = core.CleanString(sf.SubjectDescription.String)
		sf.SubjectDescription.Valid = sf.SubjectDescription.String != ""
	}
	return core.ValidateStruct(sf)
}

// ClassSubjectForm creates or edits a mapping row.
type ClassSubjectForm struct {
	ClassID   int      `json:"class_id" validate:"required,gt=0"`
	SubjectID int      `json:"subject_id" validate:"required,gt=0"`
	TeacherID null.Int `json:"teacher_id"`
}

func (cf *ClassSubjectForm) Validate() error { return core.ValidateStruct(cf) }

// StatusUpdate is the body of every status toggle.
type StatusUpdate struct {
	Status Status `json:"status" validate:"required,status"`
}

func (su *StatusUpdate) Validate() error { return core.ValidateStruct(su) }

// NewCredential creates the login account of a student or staff member.
type NewCredential struct {
	Name            string `json:"name" validate:"required,notblank"`
	Username        string `json:"username" validate:"omitempty,min=4,alphanum_"`
	Email           string `json:"email" validate:"required,email"`
	Role            string `json:"role" validate:"required,oneof=student staff parent school_admin"`
	SchoolID        int    `json:"school_id" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nc *NewCredential) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Username = core.CleanString(nc.Username, true /* lower */)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	return core.ValidateStruct(nc)
}

// SetUserID binds a profile to the credential created by the account saga.
func (ns *NewStudent) SetUserID(id int) { ns.UserID = id }

// SetUserID binds a profile to the credential created by the account saga.
func (ns *NewStaff) SetUserID(id int) { ns.UserID = id }
