package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/darasa/core"
	inmemdb "github.com/trezcool/darasa/storage/inmem"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
	}

	// Server is a stub of the school REST API backed by an in-memory store.
	Server struct {
		opts     Options
		conf     *core.Config
		logger   core.Logger
		db       *inmemdb.DB
		auth     *authenticator
		app      *echo.Echo
		shutdown chan os.Signal
		errors   chan error
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(conf *core.Config, logger core.Logger, db *inmemdb.DB, opts Options) *Server {
	if opts.Address == "" {
		opts.Address = conf.StubAddress
	}
	s := &Server{
		opts:     opts,
		conf:     conf,
		logger:   logger,
		db:       db,
		auth:     newAuthenticator(conf),
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	if s.conf.Debug {
		s.app.Logger.SetLevel(log.DEBUG)
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, s.auth)
	s.app.Debug = false // error bodies keep the {"message": ...} shape

	s.app.GET("/", s.home)

	api := s.app.Group("/api")
	api.POST("/auth/login", s.login)

	authed := api.Group("", s.auth.middleware())
	registerSchoolAPI(authed, s.db)
	registerPeopleAPI(authed, s.db)
	registerClassAPI(authed, s.db)
	registerUserAPI(authed, s.db)
	registerExamAPI(authed, s.db)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.conf.AppName+" stub API!")
}

// Start serves until the listener fails. Errors are delivered on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Shutdown(ctx context.Context) error { return s.app.Shutdown(ctx) }

func (s *Server) Close() error { return s.app.Close() }

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
