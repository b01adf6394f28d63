package echoapi

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	inmemdb "github.com/trezcool/darasa/storage/inmem"
)

type errorLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (*errorLogger) Debug(string, ...interface{}) {}
func (*errorLogger) Info(string, ...interface{})  {}
func (*errorLogger) Warn(string, ...interface{})  {}
func (*errorLogger) Fatal(string, ...interface{}) {}

func (l *errorLogger) Error(msg string, _ ...interface{}) {
	l.mu.Lock()
	l.msgs = append(l.msgs, msg)
	l.mu.Unlock()
}

func Test_newAppHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
		wantLog  bool
	}{
		{
			name:     "store error",
			err:      errors.Wrap(inmemdb.ErrDuplicateClass, "adding class"),
			wantCode: http.StatusConflict,
			wantBody: `{"message":"` + inmemdb.ErrDuplicateClass.Error() + `"}`,
		},
		{
			name:     "http error",
			err:      errHttpForbidden,
			wantCode: http.StatusForbidden,
			wantBody: `{"message":"permission denied"}`,
		},
		{
			name:     "field errors",
			err:      core.NewValidationError(nil, core.FieldError{Field: "grade", Error: "this field is required"}),
			wantCode: http.StatusBadRequest,
			wantBody: `{"grade":"this field is required"}`,
		},
		{
			name:     "unexpected error",
			err:      errors.New("stop"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"Internal Server Error"}`,
			wantLog:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := new(errorLogger)
			handle := newAppHTTPErrorHandler(logger, newAuthenticator(&core.Config{SecretKey: "s3cret"}))

			e := echo.New()
			rec := httptest.NewRecorder()
			handle(tt.err, e.NewContext(httptest.NewRequest(http.MethodGet, "/api/classes", nil), rec))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			if tt.wantLog {
				assert.Equal(t, []string{"Internal Server Error"}, logger.msgs)
			} else {
				assert.Empty(t, logger.msgs)
			}
		})
	}
}
