package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/authz"
	"github.com/trezcool/darasa/core/school"
	inmemdb "github.com/trezcool/darasa/storage/inmem"
)

const errNoPermsToSetRole = "not enough rights to set this role"

type userApi struct {
	db *inmemdb.DB
}

func registerUserAPI(g *echo.Group, db *inmemdb.DB) {
	api := userApi{db: db}

	g.POST("/register/user", api.register)
	g.DELETE("/users/:id", api.destroy)
}

// register creates the login of a new student, staff member, parent or school admin.
// Staff may only register students.
func (api *userApi) register(ctx echo.Context) error {
	sess, err := contextSession(ctx)
	if err != nil {
		return err
	}
	if !authz.Can(sess.Role, authz.ResourceStudents, authz.ActionCreate) &&
		!authz.Can(sess.Role, authz.ResourceStaff, authz.ActionCreate) {
		return errHttpForbidden
	}

	var data school.NewCredential
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCredential")
	}
	data.SchoolID = schoolOf(sess, data.SchoolID)
	if err := data.Validate(); err != nil {
		return err
	}
	if sess.Role == authz.RoleStaff && data.Role != authz.RoleStudent.String() {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: errNoPermsToSetRole})
	}

	usr, err := api.db.CreateUser(data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr.Credential())
}

func (api *userApi) destroy(ctx echo.Context) error {
	sess, err := contextSession(ctx)
	if err != nil {
		return err
	}
	if !authz.Can(sess.Role, authz.ResourceStudents, authz.ActionCreate) &&
		!authz.Can(sess.Role, authz.ResourceStaff, authz.ActionDelete) {
		return errHttpForbidden
	}
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	usr, err := api.db.GetUser(id)
	if err != nil || !ownsSchool(sess, usr.SchoolID) {
		return errHttpNotFound
	}
	// callers cannot delete themselves
	if usr.ID == sess.UserID {
		return errHttpForbidden
	}
	// staff may only roll back student logins they just registered
	if sess.Role == authz.RoleStaff && (usr.Role != authz.RoleStudent.String() || usr.StudentID != 0) {
		return errHttpForbidden
	}

	if err := api.db.DeleteUser(id); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}
