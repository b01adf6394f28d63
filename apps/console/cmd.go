package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/authz"
	"github.com/trezcool/darasa/core/contact"
	"github.com/trezcool/darasa/core/mutation"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/storage/restapi"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf     *core.Config
	logger   core.Logger
	client   *restapi.Client
	notifier core.Notifier
	contact  *contact.Service
	out      io.Writer
}

// workspace is the state of one authenticated session.
type workspace struct {
	sess   session.Session
	client *restapi.Client
	agg    *school.Aggregator
	exec   *mutation.Executor
	gate   *authz.Gate
}

func (ws *workspace) close() { ws.agg.Close() }

type navigator struct {
	out io.Writer
}

func (n navigator) Redirect(route string) {
	_, _ = fmt.Fprintf(n.out, "→ %s\n", route)
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprint(cli.out, `Usage:
  login -username USERNAME|EMAIL              - sign in; the password is prompted and the token printed
  dashboard                                   - school counters
  classes                                     - list classes
  students [-class ID] [-status S] [-search Q] - list students
  staff [-status S] [-search Q]               - list staff
  subjects                                    - list subjects
  exam -id ID                                 - show an exam schedule
  toggle-status -student ID | -teacher ID     - flip Active/Inactive
  assign-teacher -class ID [-teacher ID]      - set (or clear) the class teacher
  assign-subject -class ID -subject ID [-teacher ID]
  add-class -grade G -section S [-teacher ID]
  delete-class -id ID
  add-student -name N -email E -username U -gender G -dob D -class ID -parent P -parent-contact C
  add-staff -name N -email E -username U -gender G -phone P [-specialization S]
  export-students -out FILE.xlsx [-class ID]
  contact -name N -email E -subject S -message M

Every command but login & contact takes -token TOKEN (default: $<ENV>_APITOKEN).
`)
}

// newFlagSet returns a flag set bound to cli.out, with the -token flag when authed.
func (cli *commandLine) newFlagSet(name string, authed bool) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	if !authed {
		return fs, nil
	}
	return fs, fs.String("token", cli.conf.APIToken, "The session token.")
}

// open starts a session: the aggregator is bound to the viewer's school but not loaded yet.
func (cli *commandLine) open(token string) (*workspace, error) {
	sess, err := session.FromToken(token)
	if err != nil {
		return nil, err
	}
	if sess.SchoolID == 0 {
		sess.SchoolID = cli.conf.SchoolID // super admins pick a school
	}

	client := cli.client.WithToken(sess.Token)
	agg := school.NewAggregator(client, cli.logger)
	return &workspace{
		sess:   sess,
		client: client,
		agg:    agg,
		exec:   mutation.NewExecutor(client, cli.notifier, agg, cli.logger, mutation.Options{CompensateOrphans: cli.conf.CompensateOrphans}),
		gate:   authz.NewGate(cli.notifier, navigator{cli.out}),
	}, nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()
	if cli.conf.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*cli.conf.RequestTimeout)
		defer cancel()
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "login":
		return cli.login(ctx, rest)
	case "contact":
		return cli.sendContact(rest)
	case "dashboard", "classes", "students", "staff", "subjects", "exam", "export-students":
		return cli.read(ctx, cmd, rest)
	case "toggle-status", "assign-teacher", "assign-subject", "add-class", "delete-class", "add-student", "add-staff":
		return cli.mutate(ctx, cmd, rest)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs, _ := cli.newFlagSet("login", false)
	uname := fs.String("username", "", "The user's username or email. The password will be prompted next.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *uname == "" {
		fs.Usage()
		return errHelp
	}
	pwd, err := cli.promptPassword(fs)
	if err != nil {
		return err
	}

	token, err := cli.client.Login(ctx, *uname, pwd)
	if err != nil {
		core.NotifyError(cli.notifier, err)
		return err
	}
	_, _ = fmt.Fprintln(cli.out, token)
	return nil
}

func (cli *commandLine) promptPassword(fs *flag.FlagSet) (string, error) {
	_, _ = fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) sendContact(args []string) error {
	fs, _ := cli.newFlagSet("contact", false)
	var msg contact.Message
	fs.StringVar(&msg.Name, "name", "", "Your name.")
	fs.StringVar(&msg.Email, "email", "", "Your email address.")
	fs.StringVar(&msg.Subject, "subject", "", "The subject of your message.")
	fs.StringVar(&msg.Body, "message", "", "Your message.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return cli.contact.Submit(msg)
}
