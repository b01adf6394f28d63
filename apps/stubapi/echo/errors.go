package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	inmemdb "github.com/trezcool/darasa/storage/inmem"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "invalid username or password")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
	errBadID                = echo.NewHTTPError(http.StatusBadRequest, "invalid id")
)

// storeErrorCodes maps store errors to their HTTP status. The error text is the message.
var storeErrorCodes = map[error]int{
	inmemdb.ErrNotFound:         http.StatusNotFound,
	inmemdb.ErrDuplicateClass:   http.StatusConflict,
	inmemdb.ErrDuplicateMapping: http.StatusConflict,
	inmemdb.ErrUnknownTeacher:   http.StatusBadRequest,
	inmemdb.ErrUnknownClass:     http.StatusBadRequest,
	inmemdb.ErrUnknownSubject:   http.StatusBadRequest,
	inmemdb.ErrClassNotEmpty:    http.StatusConflict,
	inmemdb.ErrEmailExists:      http.StatusConflict,
	inmemdb.ErrUsernameExists:   http.StatusConflict,
	inmemdb.ErrBadCredentials:   http.StatusBadRequest,
}

// newAppHTTPErrorHandler returns an echo.HTTPErrorHandler replying with {"message": ...}
// or a map of field errors. Unexpected errors are logged and replied to as 500s.
func newAppHTTPErrorHandler(logger core.Logger, auth *authenticator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if sc, ok := storeErrorCodes[cause]; ok {
			code = sc
			message = cause.Error()
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr == middleware.ErrJWTMissing {
					code = http.StatusUnauthorized
					message = origErr.Message
					break
				}
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case validator.ValidationErrors:
				fldErrs := make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					fldErrs[vErr.Field()] = vErr.Translate(core.Translator)
				}
				code = http.StatusBadRequest
				message = fldErrs
			case *core.ValidationError:
				if origErr.Fields != nil {
					fldErrs := make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						fldErrs[fErr.Field] = fErr.Error
					}
					message = fldErrs
				} else {
					message = origErr.Error()
				}
				code = http.StatusBadRequest
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				var caller interface{}
				if claims, cErr := auth.contextClaims(ctx); cErr == nil {
					caller = map[string]interface{}{"id": claims.UserID, "email": claims.Email, "role": claims.Role}
				}
				logger.Error(msg, errors.Wrap(err, msg), caller)
			}
		}

		if m, ok := message.(string); ok {
			message = echo.Map{"message": m}
		}

		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
