package mutation

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var ErrPending = errors.New("a request is already pending for this control")

type (
	// Transport sends one JSON request to the school API. body and out may be nil.
	// Non-2xx responses are returned as *core.HTTPError, transport failures as *core.NetworkError.
	Transport interface {
		Do(ctx context.Context, method, path string, body, out interface{}) error
	}

	// Refetcher is the school data aggregator.
	Refetcher interface {
		Refetch(ctx context.Context) error
	}

	// Dialog is an open modal or form closed on success only.
	Dialog interface {
		Close()
	}

	Validatable interface {
		Validate() error
	}
)

// Control is the pending flag of a submitting control (button).
type Control struct {
	mu      sync.Mutex
	pending bool
}

func (c *Control) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Control) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return false
	}
	c.pending = true
	return true
}

func (c *Control) release() {
	c.mu.Lock()
	c.pending = false
	c.mu.Unlock()
}

// Command is one mutation request plus its UI wiring.
type Command struct {
	Method string
	Path   string
	Body   interface{}
	Out    interface{}

	SuccessTitle   string
	SuccessMessage string

	Control *Control
	Dialog  Dialog
}

type Options struct {
	// CompensateOrphans deletes the credential of a half-created account.
	CompensateOrphans bool
}

// Executor runs create/update/delete/toggle-status requests:
// pending flag, exactly one request, then notification + dialog close + refetch on success,
// or a failure notification leaving dialogs and forms untouched.
type Executor struct {
	transport Transport
	notifier  core.Notifier
	refetcher Refetcher
	logger    core.Logger
	opts      Options
}

func NewExecutor(transport Transport, notifier core.Notifier, refetcher Refetcher, logger core.Logger, opts Options) *Executor {
	return &Executor{
		transport: transport,
		notifier:  notifier,
		refetcher: refetcher,
		logger:    logger,
		opts:      opts,
	}
}

func (e *Executor) Execute(ctx context.Context, cmd Command) error {
	if cmd.Control != nil {
		if !cmd.Control.acquire() {
			return ErrPending
		}
		defer cmd.Control.release()
	}

	if v, ok := cmd.Body.(Validatable); ok {
		if err := v.Validate(); err != nil {
			e.fail(ctx, err)
			return err
		}
	}

	if err := e.transport.Do(ctx, cmd.Method, cmd.Path, cmd.Body, cmd.Out); err != nil {
		e.fail(ctx, err)
		return errors.Wrapf(err, "%s %s", cmd.Method, cmd.Path)
	}
	e.succeed(ctx, cmd.SuccessTitle, cmd.SuccessMessage, cmd.Dialog)
	return nil
}

// fail notifies the user unless the caller lost interest (ctx done).
func (e *Executor) fail(ctx context.Context, err error) {
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		e.logger.Warn(fmt.Sprintf("mutation failed: %v", err), err)
	}
	if ctx.Err() != nil {
		return
	}
	core.NotifyError(e.notifier, err)
}

func (e *Executor) succeed(ctx context.Context, title, msg string, dialog Dialog) {
	if ctx.Err() == nil {
		if title == "" {
			title = "Success"
		}
		if msg == "" {
			msg = "Changes saved."
		}
		e.notifier.Success(title, msg)
		if dialog != nil {
			dialog.Close()
		}
	}

	// the server state changed even if the caller is gone
	if err := e.refetcher.Refetch(context.WithoutCancel(ctx)); err != nil {
		e.logger.Error(fmt.Sprintf("refetching after mutation: %v", err), err)
	}
}
