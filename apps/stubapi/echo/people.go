package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/authz"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/session"
	inmemdb "github.com/trezcool/darasa/storage/inmem"
)

type peopleApi struct {
	db *inmemdb.DB
}

func registerPeopleAPI(g *echo.Group, db *inmemdb.DB) {
	api := peopleApi{db: db}

	stg := g.Group("/students")
	stg.POST("", api.createStudent)
	stg.PUT("/:id", api.updateStudent)
	stg.PUT("/:id/status", api.setStudentStatus)
	stg.DELETE("/:id", api.deleteStudent)

	tg := g.Group("/teachers")
	tg.POST("", api.createTeacher)
	tg.PUT("/:id", api.updateTeacher)
	tg.PUT("/:id/status", api.setTeacherStatus)
	tg.DELETE("/:id", api.deleteTeacher)
}

// studentFor loads the student targeted by the request and checks the caller may run action on it.
// Staff are limited to students of the classes they are associated with.
func (api *peopleApi) studentFor(ctx echo.Context, action authz.Action) (school.StudentItem, error) {
	sess, err := requireGrant(ctx, authz.ResourceStudents, action)
	if err != nil {
		return school.StudentItem{}, err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return school.StudentItem{}, err
	}
	st, schoolID, err := api.db.GetStudent(id)
	if err != nil || !ownsSchool(sess, schoolID) {
		return school.StudentItem{}, errHttpNotFound
	}
	if err := api.checkStaffScope(sess, schoolID, st.ClassID); err != nil {
		return school.StudentItem{}, err
	}
	return st, nil
}

func (api *peopleApi) checkStaffScope(sess session.Session, schoolID, classID int) error {
	if sess.Role != authz.RoleStaff {
		return nil
	}
	snap := schoolSnapshot(api.db, schoolID)
	if !authz.NewScope(sess.Role, sess.TeacherID, snap).HasClass(classID) {
		return errHttpForbidden
	}
	return nil
}

func (api *peopleApi) createStudent(ctx echo.Context) error {
	sess, err := requireGrant(ctx, authz.ResourceStudents, authz.ActionCreate)
	if err != nil {
		return err
	}
	var data school.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if sess.Role != authz.RoleSuperAdmin {
		data.SchoolID = sess.SchoolID
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if err := api.checkStaffScope(sess, data.SchoolID, data.ClassID); err != nil {
		return err
	}

	st, err := api.db.CreateStudent(data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *peopleApi) updateStudent(ctx echo.Context) error {
	st, err := api.studentFor(ctx, authz.ActionUpdate)
	if err != nil {
		return err
	}
	var data school.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	st, err = api.db.UpdateStudent(st.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *peopleApi) setStudentStatus(ctx echo.Context) error {
	st, err := api.studentFor(ctx, authz.ActionToggleStatus)
	if err != nil {
		return err
	}
	var data school.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	st, err = api.db.SetStudentStatus(st.ID, data.Status)
	if err != nil {
		return errors.Wrap(err, "setting student status")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *peopleApi) deleteStudent(ctx echo.Context) error {
	st, err := api.studentFor(ctx, authz.ActionDelete)
	if err != nil {
		return err
	}
	if err := api.db.DeleteStudent(st.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *peopleApi) teacherFor(ctx echo.Context, action authz.Action) (school.StaffItem, error) {
	sess, err := requireGrant(ctx, authz.ResourceStaff, action)
	if err != nil {
		return school.StaffItem{}, err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return school.StaffItem{}, err
	}
	t, schoolID, err := api.db.GetTeacher(id)
	if err != nil || !ownsSchool(sess, schoolID) {
		return school.StaffItem{}, errHttpNotFound
	}
	return t, nil
}

func (api *peopleApi) createTeacher(ctx echo.Context) error {
	sess, err := requireGrant(ctx, authz.ResourceStaff, authz.ActionCreate)
	if err != nil {
		return err
	}
	var data school.NewStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStaff")
	}
	if sess.Role != authz.RoleSuperAdmin {
		data.SchoolID = sess.SchoolID
	}
	if err := data.Validate(); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, api.db.CreateTeacher(data))
}

func (api *peopleApi) updateTeacher(ctx echo.Context) error {
	t, err := api.teacherFor(ctx, authz.ActionUpdate)
	if err != nil {
		return err
	}
	var data school.UpdateStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStaff")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	t, err = api.db.UpdateTeacher(t.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *peopleApi) setTeacherStatus(ctx echo.Context) error {
	t, err := api.teacherFor(ctx, authz.ActionToggleStatus)
	if err != nil {
		return err
	}
	var data school.StatusUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdate")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	t, err = api.db.SetTeacherStatus(t.ID, data.Status)
	if err != nil {
		return errors.Wrap(err, "setting teacher status")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *peopleApi) deleteTeacher(ctx echo.Context) error {
	t, err := api.teacherFor(ctx, authz.ActionDelete)
	if err != nil {
		return err
	}
	if err := api.db.DeleteTeacher(t.ID); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// schoolSnapshot assembles the school's current collections for scope checks.
func schoolSnapshot(db *inmemdb.DB, schoolID int) school.Snapshot {
	return school.Snapshot{
		Classes:  db.QueryClasses(schoolID),
		Students: db.QueryStudents(schoolID),
		Teachers: db.QueryTeachers(schoolID),
		Subjects: db.QuerySubjects(schoolID),
	}
}
