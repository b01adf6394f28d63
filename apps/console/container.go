package main

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/contact"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	notifysvc "github.com/trezcool/darasa/services/notify"
	"github.com/trezcool/darasa/storage/restapi"
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stderr, "CONSOLE : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newOutput() io.Writer { return os.Stdout }

func newNotifier(out io.Writer) core.Notifier { return notifysvc.NewConsole(out) }

func newCommandLine(
	conf *core.Config,
	logger core.Logger,
	client *restapi.Client,
	notifier core.Notifier,
	contactSvc *contact.Service,
	out io.Writer,
) *commandLine {
	return &commandLine{
		conf:     conf,
		logger:   logger,
		client:   client,
		notifier: notifier,
		contact:  contactSvc,
		out:      out,
	}
}

// newContainer returns the dependency injection dig.Container of the console.
func newContainer() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newEmailService))
	must(c.Provide(newOutput))
	must(c.Provide(newNotifier))
	must(c.Provide(restapi.NewClient))
	must(c.Provide(contact.NewService))
	must(c.Provide(newCommandLine))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
