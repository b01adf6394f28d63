package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core/authz"
	inmemdb "github.com/trezcool/darasa/storage/inmem"
)

type examApi struct {
	db *inmemdb.DB
}

func registerExamAPI(g *echo.Group, db *inmemdb.DB) {
	api := examApi{db: db}

	eg := g.Group("/exams/:id", api.examMiddleware)
	eg.GET("", api.retrieve)
	eg.GET("/subjects", api.subjects)
}

func (api *examApi) examMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sess, err := requireGrant(ctx, authz.ResourceExams, authz.ActionView)
		if err != nil {
			return err
		}
		id, err := intParam(ctx, "id")
		if err != nil {
			return err
		}
		exam, schoolID, err := api.db.GetExam(id)
		if err != nil || !ownsSchool(sess, schoolID) {
			return errHttpNotFound
		}
		ctx.Set("object", exam)
		return next(ctx)
	}
}

func (api *examApi) retrieve(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, ctx.Get("object"))
}

func (api *examApi) subjects(ctx echo.Context) error {
	id, _ := intParam(ctx, "id")
	return ctx.JSON(http.StatusOK, api.db.QueryExamSubjects(id))
}
