package view

import (
	"sync"

	"github.com/trezcool/darasa/core/authz"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/session"
)

// Page describes one screen: the resource it shows, how it derives its view model and how it renders.
type Page[VM any] struct {
	Resource authz.Resource
	Derive   func(sess session.Session, snap school.Snapshot) VM
	Render   func(vm VM)
	// Placeholder renders the blocking loading/error screen. err is nil while loading.
	Placeholder func(state school.State, err error)
}

// Controller binds a Page to the session's aggregator for as long as it is mounted.
type Controller[VM any] struct {
	page Page[VM]
	sess session.Session
	gate *authz.Gate
	agg  *school.Aggregator

	mu          sync.Mutex
	mounted     bool
	rendering   bool
	dirty       bool
	unsubscribe func()
}

// Mount authorizes the viewer, renders the current aggregator state and re-renders on every change.
// A denied viewer gets the gate's notification & redirect and nothing is ever rendered.
func Mount[VM any](page Page[VM], sess session.Session, gate *authz.Gate, agg *school.Aggregator) (*Controller[VM], error) {
	if err := gate.Check(sess.Role, page.Resource); err != nil {
		return nil, err
	}
	c := &Controller[VM]{page: page, sess: sess, gate: gate, agg: agg, mounted: true}

	c.mu.Lock()
	c.unsubscribe = agg.Subscribe(func(school.State) { c.refresh() })
	c.mu.Unlock()
	c.refresh()
	return c, nil
}

// Unmount stops rendering. Updates arriving afterwards are ignored; a render already running completes.
func (c *Controller[VM]) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	c.mounted = false
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

func (c *Controller[VM]) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// refresh renders the aggregator's current state. Renders are serialized: a refresh arriving
// while one is running (a retry from Placeholder, say) is folded into it as one more pass.
func (c *Controller[VM]) refresh() {
	c.mu.Lock()
	if c.rendering {
		c.dirty = true
		c.mu.Unlock()
		return
	}
	c.rendering = true
	for {
		c.dirty = false
		if !c.mounted {
			break
		}
		c.mu.Unlock()
		c.render()

		c.mu.Lock()
		if !c.dirty {
			break
		}
	}
	c.rendering = false
	c.mu.Unlock()
}

func (c *Controller[VM]) render() {
	// re-checked on every render: data arriving late never bypasses the gate
	if !authz.Authorize(c.sess.Role, c.page.Resource).Allowed {
		return
	}

	state := c.agg.State()
	snap, ok := c.agg.Snapshot()
	switch {
	case state == school.StateError:
		c.placeholder(state, c.agg.Err())
	case !ok:
		c.placeholder(state, nil)
	default:
		c.page.Render(c.page.Derive(c.sess, snap))
	}
}

func (c *Controller[VM]) placeholder(state school.State, err error) {
	if c.page.Placeholder != nil {
		c.page.Placeholder(state, err)
	}
}
