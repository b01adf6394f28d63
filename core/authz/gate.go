package authz

import (
	"github.com/trezcool/darasa/core"
)

// Navigator performs route changes.
type Navigator interface {
	Redirect(route string)
}

// Gate guards page rendering. A denied viewer is notified then redirected, and never rendered.
type Gate struct {
	notifier  core.Notifier
	navigator Navigator
}

func NewGate(notifier core.Notifier, navigator Navigator) *Gate {
	return &Gate{notifier: notifier, navigator: navigator}
}

// Check authorizes role on resource, running the deny side effects when access is refused.
func (g *Gate) Check(role Role, resource Resource) error {
	d := Authorize(role, resource)
	if d.Allowed {
		return nil
	}
	redirect := DefaultRoute(role)
	g.notifier.Failure("Access denied", d.Reason)
	g.navigator.Redirect(redirect)
	return &DenyError{Resource: resource, Reason: d.Reason, Redirect: redirect}
}

// Guard calls render only if role may view resource.
func (g *Gate) Guard(role Role, resource Resource, render func()) error {
	if err := g.Check(role, resource); err != nil {
		return err
	}
	render()
	return nil
}
