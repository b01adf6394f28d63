package mutation

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/school"
)

// Profile is the domain record created after its credential.
type Profile interface {
	Validatable
	SetUserID(id int)
}

// Account is a two-step creation: the login credential, then the profile referencing it.
type Account struct {
	Credential *school.NewCredential
	Resource   Resource // Students or Teachers
	Profile    Profile
	Out        interface{}

	Control *Control
	Dialog  Dialog
}

// CreateAccount runs the account saga. Both forms are validated before any request.
// The steps are not transactional: when the profile step fails the credential is deleted
// if CompensateOrphans is set, and a *core.PartialCreationError reports the outcome either way.
func (e *Executor) CreateAccount(ctx context.Context, acc Account) (school.Credential, error) {
	var cred school.Credential

	if acc.Control != nil {
		if !acc.Control.acquire() {
			return cred, ErrPending
		}
		defer acc.Control.release()
	}

	if err := acc.Credential.Validate(); err != nil {
		e.fail(ctx, err)
		return cred, err
	}
	if err := acc.Profile.Validate(); err != nil {
		e.fail(ctx, err)
		return cred, err
	}

	// step 1: credential
	if err := e.transport.Do(ctx, http.MethodPost, registerPath, acc.Credential, &cred); err != nil {
		e.fail(ctx, err)
		return cred, errors.Wrap(err, "registering user")
	}

	// step 2: profile
	acc.Profile.SetUserID(cred.ID)
	if err := e.transport.Do(ctx, http.MethodPost, string(acc.Resource), acc.Profile, acc.Out); err != nil {
		perr := &core.PartialCreationError{CredentialID: cred.ID, Err: err}
		if e.opts.CompensateOrphans {
			perr.Compensated = e.compensate(ctx, cred.ID)
		}
		e.logger.Error(perr.Error(), perr)
		if ctx.Err() == nil {
			core.NotifyError(e.notifier, perr)
		}
		return cred, perr
	}

	e.succeed(ctx, acc.Resource.label()+" created", fmt.Sprintf("%s account for %s was created.", acc.Resource.label(), acc.Credential.Name), acc.Dialog)
	return cred, nil
}

func (e *Executor) compensate(ctx context.Context, credentialID int) bool {
	if err := e.transport.Do(context.WithoutCancel(ctx), http.MethodDelete, Users.Item(credentialID), nil, nil); err != nil {
		e.logger.Error(fmt.Sprintf("deleting orphaned user %d: %v", credentialID, err), err)
		return false
	}
	return true
}
