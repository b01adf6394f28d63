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

type classApi struct {
	db *inmemdb.DB
}

func registerClassAPI(g *echo.Group, db *inmemdb.DB) {
	api := classApi{db: db}

	cg := g.Group("/classes")
	cg.POST("", api.createClass)
	cg.PUT("/:id", api.updateClass)
	cg.DELETE("/:id", api.deleteClass)

	sg := g.Group("/subjects")
	sg.POST("", api.createSubject)
	sg.PUT("/:id", api.updateSubject)
	sg.DELETE("/:id", api.deleteSubject)

	mg := g.Group("/class-subjects")
	mg.POST("", api.createMapping)
	mg.PUT("/:id", api.updateMapping)
	mg.DELETE("/:id", api.deleteMapping)
}

// schoolOf resolves the school a creation applies to.
func schoolOf(sess session.Session, requested int) int {
	if sess.Role == authz.RoleSuperAdmin && requested != 0 {
		return requested
	}
	return sess.SchoolID
}

func (api *classApi) createClass(ctx echo.Context) error {
	sess, err := requireGrant(ctx, authz.ResourceClasses, authz.ActionCreate)
	if err != nil {
		return err
	}
	var data school.ClassForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ClassForm")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	c, err := api.db.CreateClass(schoolOf(sess, data.SchoolID), data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *classApi) updateClass(ctx echo.Context) error {
	sess, err := requireGrant(ctx, authz.ResourceClasses, authz.ActionUpdate)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	current, schoolID, err := api.db.GetClass(id)
	if err != nil || !ownsSchool(sess, schoolID) {
		return errHttpNotFound
	}

	var data school.ClassForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ClassForm")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if data.ClassTeacherID != current.ClassTeacherID && !authz.Can(sess.Role, authz.ResourceClasses, authz.ActionAssignClassTeacher) {
		return errHttpForbidden
	}
	if sess.Role == authz.RoleStaff &&
		!authz.NewScope(sess.Role, sess.TeacherID, schoolSnapshot(api.db, schoolID)).HasClass(id) {
		return errHttpForbidden
	}

	c, err := api.db.UpdateClass(id, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *classApi) deleteClass(ctx echo.Context) error {
	sess, err := requireGrant(ctx, authz.ResourceClasses, authz.ActionDelete)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if _, schoolID, err := api.db.GetClass(id); err != nil || !ownsSchool(sess, schoolID) {
		return errHttpNotFound
	}
	if err := api.db.DeleteClass(id); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Subjects

func (api *classApi) subjectID(ctx echo.Context, sess session.Session) (int, error) {
	id, err := intParam(ctx, "id")
	if err != nil {
		return 0, err
	}
	for _, sub := range api.db.QuerySubjects(sess.SchoolID) {
		if sub.ID == id {
			return id, nil
		}
	}
	if sess.Role == authz.RoleSuperAdmin {
		return id, nil
	}
	return 0, errHttpNotFound
}

func (api *classApi) createSubject(ctx echo.Context) error {
	sess, err := requireGrant(ctx, authz.ResourceSubjects, authz.ActionCreate)
	if err != nil {
		return err
	}
	var data school.SubjectForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubjectForm")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, api.db.CreateSubject(schoolOf(sess, data.SchoolID), data))
}

func (api *classApi) updateSubject(ctx echo.Context) error {
	sess, err := requireGrant(ctx, authz.ResourceSubjects, authz.ActionUpdate)
	if err != nil {
		return err
	}
	id, err := api.subjectID(ctx, sess)
	if err != nil {
		return err
	}
	var data school.SubjectForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubjectForm")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.db.UpdateSubject(id, data)
	if err != nil {
		return errors.Wrap(err, "updating subject")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *classApi) deleteSubject(ctx echo.Context) error {
	sess, err := requireGrant(ctx, authz.ResourceSubjects, authz.ActionDelete)
	if err != nil {
		return err
	}
	id, err := api.subjectID(ctx, sess)
	if err != nil {
		return err
	}
	if err := api.db.DeleteSubject(id); err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Class-subject mappings

func (api *classApi) mappingForm(ctx echo.Context, sess session.Session) (school.ClassSubjectForm, error) {
	var data school.ClassSubjectForm
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrap(err, "binding to ClassSubjectForm")
	}
	if err := data.Validate(); err != nil {
		return data, err
	}
	if _, schoolID, err := api.db.GetClass(data.ClassID); err != nil || !ownsSchool(sess, schoolID) {
		return data, inmemdb.ErrUnknownClass
	}
	return data, nil
}

func (api *classApi) createMapping(ctx echo.Context) error {
	sess, err := requireGrant(ctx, authz.ResourceClasses, authz.ActionAssignSubjectTeacher)
	if err != nil {
		return err
	}
	data, err := api.mappingForm(ctx, sess)
	if err != nil {
		return err
	}

	m, err := api.db.CreateMapping(data)
	if err != nil {
		return errors.Wrap(err, "creating class subject")
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api *classApi) updateMapping(ctx echo.Context) error {
	sess, err := requireGrant(ctx, authz.ResourceClasses, authz.ActionAssignSubjectTeacher)
	if err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	data, err := api.mappingForm(ctx, sess)
	if err != nil {
		return err
	}

	m, err := api.db.UpdateMapping(id, data)
	if err != nil {
		return errors.Wrap(err, "updating class subject")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *classApi) deleteMapping(ctx echo.Context) error {
	if _, err := requireGrant(ctx, authz.ResourceClasses, authz.ActionAssignSubjectTeacher); err != nil {
		return err
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := api.db.DeleteMapping(id); err != nil {
		return errors.Wrap(err, "deleting class subject")
	}
	return ctx.NoContent(http.StatusNoContent)
}
