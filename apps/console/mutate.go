package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/authz"
	"github.com/trezcool/darasa/core/mutation"
	"github.com/trezcool/darasa/core/school"
)

var errNotAllowed = errors.New("action not allowed")

// dialog stands for the form a mutation was submitted from.
type dialog struct {
	closed bool
}

func (d *dialog) Close() { d.closed = true }

func (cli *commandLine) notAllowed(what string) error {
	cli.notifier.Failure("Not allowed", "You do not have permission to "+what+".")
	return errNotAllowed
}

func (cli *commandLine) mutate(ctx context.Context, cmd string, args []string) error {
	fs, token := cli.newFlagSet(cmd, true)
	id := fs.Int("id", 0, "The record id.")
	studentID := fs.Int("student", 0, "The student id.")
	teacherID := fs.Int("teacher", 0, "The teacher id.")
	classID := fs.Int("class", 0, "The class id.")
	subjectID := fs.Int("subject", 0, "The subject id.")
	grade := fs.String("grade", "", "The class grade.")
	section := fs.String("section", "", "The class section.")
	p := profileFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ws, err := cli.open(*token)
	if err != nil {
		return err
	}
	defer ws.close()

	if err := ws.agg.Initialize(ctx, ws.sess.SchoolID); err != nil {
		core.NotifyError(cli.notifier, err)
		return err
	}
	snap, _ := ws.agg.Snapshot()
	scope := authz.NewScope(ws.sess.Role, ws.sess.TeacherID, snap)
	ctrl := new(mutation.Control)
	dlg := new(dialog)

	switch cmd {
	case "toggle-status":
		switch {
		case *studentID != 0:
			st, ok := findStudent(snap, *studentID)
			if !ok || !scope.CanManageStudent(authz.ActionToggleStatus, st) {
				return cli.notAllowed("change the status of this student")
			}
			mc := mutation.ToggleStatus(mutation.Students, st.ID, st.Status)
			mc.Control = ctrl
			return ws.exec.Execute(ctx, mc)
		case *teacherID != 0:
			t, ok := findTeacher(snap, *teacherID)
			if !ok || !authz.Can(ws.sess.Role, authz.ResourceStaff, authz.ActionToggleStatus) {
				return cli.notAllowed("change the status of this staff member")
			}
			mc := mutation.ToggleStatus(mutation.Teachers, t.ID, t.Status)
			mc.Control = ctrl
			return ws.exec.Execute(ctx, mc)
		}

	case "assign-teacher":
		class, ok := snap.ResolveClass(*classID)
		if !ok {
			fs.Usage()
			return errHelp
		}
		if !scope.CanManageClass(authz.ActionAssignClassTeacher, class.ID) {
			return cli.notAllowed("assign class teachers")
		}
		form := &school.ClassForm{Grade: class.Grade, Section: class.Section}
		if *teacherID != 0 {
			form.ClassTeacherID = null.IntFrom(*teacherID)
		}
		mc := mutation.AssignClassTeacher(class, form)
		mc.Control, mc.Dialog = ctrl, dlg
		return ws.exec.Execute(ctx, mc)

	case "assign-subject":
		class, ok := snap.ResolveClass(*classID)
		if !ok || *subjectID == 0 {
			fs.Usage()
			return errHelp
		}
		if !scope.CanManageClass(authz.ActionAssignSubjectTeacher, class.ID) {
			return cli.notAllowed("assign subjects")
		}
		form := &school.ClassSubjectForm{ClassID: class.ID, SubjectID: *subjectID}
		if *teacherID != 0 {
			form.TeacherID = null.IntFrom(*teacherID)
		}
		mc := mutation.AssignSubject(class, form)
		mc.Control, mc.Dialog = ctrl, dlg
		return ws.exec.Execute(ctx, mc)

	case "add-class":
		if !authz.Can(ws.sess.Role, authz.ResourceClasses, authz.ActionCreate) {
			return cli.notAllowed("create classes")
		}
		form := &school.ClassForm{SchoolID: ws.sess.SchoolID, Grade: *grade, Section: *section}
		if *teacherID != 0 {
			form.ClassTeacherID = null.IntFrom(*teacherID)
		}
		if err := form.CheckUnique(snap.Classes, 0); err != nil {
			core.NotifyError(cli.notifier, err)
			return err
		}
		var created school.ClassItem
		mc := mutation.Create(mutation.Classes, form, &created)
		mc.Control, mc.Dialog = ctrl, dlg
		return ws.exec.Execute(ctx, mc)

	case "delete-class":
		if _, ok := snap.ResolveClass(*id); !ok {
			fs.Usage()
			return errHelp
		}
		if !scope.CanManageClass(authz.ActionDelete, *id) {
			return cli.notAllowed("delete this class")
		}
		mc := mutation.Delete(mutation.Classes, *id)
		mc.Control = ctrl
		return ws.exec.Execute(ctx, mc)

	case "add-student":
		if !authz.Can(ws.sess.Role, authz.ResourceStudents, authz.ActionCreate) || !scope.HasClass(*classID) {
			return cli.notAllowed("add students to this class")
		}
		pwd, err := cli.promptPassword(fs)
		if err != nil {
			return err
		}
		var created school.StudentItem
		_, err = ws.exec.CreateAccount(ctx, mutation.Account{
			Credential: p.credential(ws.sess.SchoolID, authz.RoleStudent, pwd),
			Resource:   mutation.Students,
			Profile: &school.NewStudent{
				SchoolID:      ws.sess.SchoolID,
				FullName:      p.name,
				StudentEmail:  p.email,
				Gender:        p.gender,
				DOB:           p.dob,
				ClassID:       *classID,
				ParentName:    p.parent,
				ParentContact: p.parentContact,
				AdmissionDate: time.Now().Format("2006-01-02"),
				Status:        school.StatusActive,
				Address:       p.address,
			},
			Out:     &created,
			Control: ctrl,
			Dialog:  dlg,
		})
		return err

	case "add-staff":
		if !authz.Can(ws.sess.Role, authz.ResourceStaff, authz.ActionCreate) {
			return cli.notAllowed("add staff members")
		}
		pwd, err := cli.promptPassword(fs)
		if err != nil {
			return err
		}
		var created school.StaffItem
		_, err = ws.exec.CreateAccount(ctx, mutation.Account{
			Credential: p.credential(ws.sess.SchoolID, authz.RoleStaff, pwd),
			Resource:   mutation.Teachers,
			Profile: &school.NewStaff{
				SchoolID:              ws.sess.SchoolID,
				FullName:              p.name,
				Email:                 p.email,
				Gender:                p.gender,
				JoiningDate:           time.Now().Format("2006-01-02"),
				PhoneNumber:           p.phone,
				SubjectSpecialization: p.specialization,
				Status:                school.StatusActive,
			},
			Out:     &created,
			Control: ctrl,
			Dialog:  dlg,
		})
		return err
	}

	fs.Usage()
	return errHelp
}

type profile struct {
	name, email, username, gender, dob string
	parent, parentContact, address     string
	phone, specialization              string
}

func profileFlags(fs *flag.FlagSet) *profile {
	p := new(profile)
	fs.StringVar(&p.name, "name", "", "Full name.")
	fs.StringVar(&p.email, "email", "", "Email address.")
	fs.StringVar(&p.username, "username", "", "Login username.")
	fs.StringVar(&p.gender, "gender", "", "Male|Female|Other.")
	fs.StringVar(&p.dob, "dob", "", "Date of birth (YYYY-MM-DD).")
	fs.StringVar(&p.parent, "parent", "", "Parent name.")
	fs.StringVar(&p.parentContact, "parent-contact", "", "Parent phone number.")
	fs.StringVar(&p.address, "address", "", "Home address.")
	fs.StringVar(&p.phone, "phone", "", "Phone number.")
	fs.StringVar(&p.specialization, "specialization", "", "Subject specialization.")
	return p
}

func (p *profile) credential(schoolID int, role authz.Role, pwd string) *school.NewCredential {
	return &school.NewCredential{
		Name:            p.name,
		Username:        p.username,
		Email:           p.email,
		Role:            role.String(),
		SchoolID:        schoolID,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
}

func findStudent(snap school.Snapshot, id int) (school.StudentItem, bool) {
	for _, st := range snap.Students {
		if st.ID == id {
			return st, true
		}
	}
	return school.StudentItem{}, false
}

func findTeacher(snap school.Snapshot, id int) (school.StaffItem, bool) {
	for _, t := range snap.Teachers {
		if t.ID == id {
			return t, true
		}
	}
	return school.StaffItem{}, false
}
