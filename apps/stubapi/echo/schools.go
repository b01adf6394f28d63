package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	inmemdb "github.com/trezcool/darasa/storage/inmem"
)

type schoolApi struct {
	db *inmemdb.DB
}

func registerSchoolAPI(g *echo.Group, db *inmemdb.DB) {
	api := schoolApi{db: db}

	sg := g.Group("/schools/:schoolID", api.memberMiddleware)
	sg.GET("", api.retrieve)
	sg.GET("/classes", api.classes)
	sg.GET("/students", api.students)
	sg.GET("/teachers", api.teachers)
	sg.GET("/subjects", api.subjects)
}

func intParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

// memberMiddleware lets through members of the school (and super admins).
// Finer read rules are applied client-side.
func (api *schoolApi) memberMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sess, err := contextSession(ctx)
		if err != nil {
			return err
		}
		id, err := intParam(ctx, "schoolID")
		if err != nil {
			return err
		}
		if !ownsSchool(sess, id) {
			return errHttpForbidden
		}
		ctx.Set("schoolID", id)
		return next(ctx)
	}
}

func (api *schoolApi) retrieve(ctx echo.Context) error {
	sch, err := api.db.GetSchool(ctx.Get("schoolID").(int))
	if err != nil {
		return errors.Wrap(err, "getting school")
	}
	return ctx.JSON(http.StatusOK, sch)
}

func (api *schoolApi) classes(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.db.QueryClasses(ctx.Get("schoolID").(int)))
}

func (api *schoolApi) students(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.db.QueryStudents(ctx.Get("schoolID").(int)))
}

func (api *schoolApi) teachers(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.db.QueryTeachers(ctx.Get("schoolID").(int)))
}

func (api *schoolApi) subjects(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.db.QuerySubjects(ctx.Get("schoolID").(int)))
}
