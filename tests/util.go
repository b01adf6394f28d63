package testutil

import (
	"io"
	"log"
	"net/http/httptest"
	"testing"
	"time"

	echoapi "github.com/trezcool/darasa/apps/stubapi/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
	logsvc "github.com/trezcool/darasa/services/logger"
	inmemdb "github.com/trezcool/darasa/storage/inmem"
	"github.com/trezcool/darasa/storage/restapi"
)

// Config returns a TEST configuration that never reads the environment.
func Config() *core.Config {
	return &core.Config{
		Env:               "TEST",
		TestMode:          true,
		AppName:           "Darasa",
		WorkDir:           core.Getwd(),
		APIBaseURL:        "http://localhost",
		RequestTimeout:    5 * time.Second,
		CompensateOrphans: true,
		ContactEmail:      "contact@darasa.test",
		SecretKey:         "test-secret",
	}
}

// Logger returns a silent logger with remote reporting disabled.
func Logger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

// Stub is a running stub API seeded with inmemdb.Seed.
type Stub struct {
	Conf    *core.Config
	Logger  core.Logger
	DB      *inmemdb.DB
	Fixture inmemdb.Fixture
	Server  *httptest.Server
}

// StartStub starts a seeded stub API. It is stopped when the test ends.
func StartStub(t *testing.T) *Stub {
	t.Helper()

	conf := Config()
	logger := Logger(conf)
	db := inmemdb.Open()
	fx := inmemdb.Seed(db)

	srv := httptest.NewServer(echoapi.NewServer(conf, logger, db, echoapi.Options{DisableReqLogs: true}))
	t.Cleanup(srv.Close)
	conf.APIBaseURL = srv.URL

	return &Stub{Conf: conf, Logger: logger, DB: db, Fixture: fx, Server: srv}
}

// Token signs a session token for usr.
func (s *Stub) Token(t *testing.T, usr inmemdb.User) string {
	t.Helper()
	token, err := session.NewToken(echoapi.UserClaims(s.Conf.AppName, usr), []byte(s.Conf.SecretKey))
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}

// Session returns the session of usr.
func (s *Stub) Session(t *testing.T, usr inmemdb.User) session.Session {
	t.Helper()
	sess, err := session.FromToken(s.Token(t, usr))
	if err != nil {
		t.Fatalf("Session() failed: %v", err)
	}
	return sess
}

// Client returns an API client authenticated as usr.
func (s *Stub) Client(t *testing.T, usr inmemdb.User) *restapi.Client {
	return restapi.NewClient(s.Conf, s.Logger).WithToken(s.Token(t, usr))
}
