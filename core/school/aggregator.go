package school

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/darasa/core"
)

var (
	ErrNotInitialized     = errors.New("school data not initialized")
	ErrAlreadyInitialized = errors.New("school data already initialized")
	ErrClosed             = errors.New("school data session closed")
)

// Fetcher loads the five collections of a school. Each call issues one request, without retries.
// Implemented by storage/restapi.
type Fetcher interface {
	FetchSchool(ctx context.Context, schoolID int) (School, error)
	FetchClasses(ctx context.Context, schoolID int) ([]ClassItem, error)
	FetchStudents(ctx context.Context, schoolID int) ([]StudentItem, error)
	FetchTeachers(ctx context.Context, schoolID int) ([]StaffItem, error)
	FetchSubjects(ctx context.Context, schoolID int) ([]SubjectItem, error)
}

// State of the Aggregator: Idle -> Loading -> Ready | Error; Error -> Loading on the next refetch.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is one committed set of the five collections. Version increases on every commit.
type Snapshot struct {
	Version  int
	School   School
	Classes  []ClassItem
	Students []StudentItem
	Teachers []StaffItem
	Subjects []SubjectItem
}

func (s Snapshot) clone() Snapshot {
	c := s
	c.Classes = make([]ClassItem, len(s.Classes))
	for i, cls := range s.Classes {
		cls.Subjects = append([]ClassSubject(nil), cls.Subjects...)
		c.Classes[i] = cls
	}
	c.Students = append([]StudentItem(nil), s.Students...)
	c.Teachers = append([]StaffItem(nil), s.Teachers...)
	c.Subjects = append([]SubjectItem(nil), s.Subjects...)
	return c
}

// round is one refetch shared by every caller that joined it.
// done closes once the outcome is settled, delivered once listeners have seen it.
type round struct {
	done      chan struct{}
	delivered chan struct{}
	err       error
}

// Aggregator owns the in-memory school collections of one authenticated session.
// Collections are only ever replaced wholesale; a failed load commits nothing.
type Aggregator struct {
	fetcher Fetcher
	logger  core.Logger

	ctx    context.Context // session lifetime
	cancel context.CancelFunc

	mu        sync.Mutex
	schoolID  int
	state     State
	err       error
	snap      Snapshot
	committed bool
	inflight  *round
	rerun     bool
	listeners map[int]func(State)
	nextLsnID int
	notifying int
}

func NewAggregator(fetcher Fetcher, logger core.Logger) *Aggregator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Aggregator{
		fetcher:   fetcher,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		listeners: make(map[int]func(State)),
	}
}

// Initialize binds the aggregator to schoolID and runs the first load.
func (a *Aggregator) Initialize(ctx context.Context, schoolID int) error {
	a.mu.Lock()
	if a.ctx.Err() != nil {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.schoolID != 0 {
		a.mu.Unlock()
		return ErrAlreadyInitialized
	}
	a.schoolID = schoolID
	a.mu.Unlock()
	return a.Refetch(ctx)
}

// Refetch re-pulls all five collections and swaps them in atomically.
// Calls made while a round is in flight join it and schedule a single re-run;
// every joined caller returns with the outcome of the last round.
// ctx only bounds the wait: giving up never cancels the shared round.
// Outside of a listener, Refetch returns once listeners have been told the outcome.
func (a *Aggregator) Refetch(ctx context.Context) error {
	a.mu.Lock()
	if a.ctx.Err() != nil {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.schoolID == 0 {
		a.mu.Unlock()
		return ErrNotInitialized
	}
	r := a.inflight
	if r != nil {
		a.rerun = true
	} else {
		r = &round{done: make(chan struct{}), delivered: make(chan struct{})}
		a.inflight = r
		go a.run(r)
	}
	// a listener may be the caller: waiting for delivery would wait on itself
	wait := r.delivered
	if a.notifying > 0 {
		wait = r.done
	}
	a.mu.Unlock()

	select {
	case <-wait:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Aggregator) run(r *round) {
	var err error
	for {
		a.mu.Lock()
		if a.ctx.Err() == nil {
			a.state = StateLoading
			a.err = nil
		}
		a.mu.Unlock()

		err = a.load()

		a.mu.Lock()
		if a.rerun && a.ctx.Err() == nil {
			a.rerun = false
			a.mu.Unlock()
			continue
		}
		a.rerun = false
		a.inflight = nil
		closed := a.ctx.Err() != nil
		a.mu.Unlock()

		r.err = err
		close(r.done)
		// Close already told listeners about Idle
		if !closed {
			a.notify()
		}
		close(r.delivered)
		return
	}
}

// load fetches the five collections in parallel and commits them only if all succeed.
func (a *Aggregator) load() error {
	a.mu.Lock()
	schoolID := a.schoolID
	a.mu.Unlock()

	var next Snapshot
	g, ctx := errgroup.WithContext(a.ctx)
	g.Go(func() (err error) {
		next.School, err = a.fetcher.FetchSchool(ctx, schoolID)
		return errors.Wrap(err, "fetching school")
	})
	g.Go(func() (err error) {
		next.Classes, err = a.fetcher.FetchClasses(ctx, schoolID)
		return errors.Wrap(err, "fetching classes")
	})
	g.Go(func() (err error) {
		next.Students, err = a.fetcher.FetchStudents(ctx, schoolID)
		return errors.Wrap(err, "fetching students")
	})
	g.Go(func() (err error) {
		next.Teachers, err = a.fetcher.FetchTeachers(ctx, schoolID)
		return errors.Wrap(err, "fetching teachers")
	})
	g.Go(func() (err error) {
		next.Subjects, err = a.fetcher.FetchSubjects(ctx, schoolID)
		return errors.Wrap(err, "fetching subjects")
	})

	if err := g.Wait(); err != nil {
		if a.ctx.Err() != nil {
			return ErrClosed
		}
		a.logger.Error(fmt.Sprintf("loading school %d: %v", schoolID, err), err)
		a.mu.Lock()
		if a.ctx.Err() == nil {
			a.state = StateError
			a.err = err
		}
		a.mu.Unlock()
		return err
	}

	a.mu.Lock()
	if a.ctx.Err() != nil {
		a.mu.Unlock()
		return ErrClosed
	}
	next.Version = a.snap.Version + 1
	a.snap = next
	a.committed = true
	a.state = StateReady
	a.err = nil
	a.mu.Unlock()
	return nil
}

// notify runs the listeners with the current state, outside of any round.
func (a *Aggregator) notify() {
	a.mu.Lock()
	state := a.state
	listeners := make([]func(State), 0, len(a.listeners))
	for _, fn := range a.listeners {
		listeners = append(listeners, fn)
	}
	a.notifying++
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.notifying--
		a.mu.Unlock()
	}()
	for _, fn := range listeners {
		fn(state)
	}
}

// Subscribe registers fn to run once per settled round (Ready or Error) and on Close (Idle).
// Loading is only observable through State. fn may call Refetch.
// Call the returned func to unsubscribe.
func (a *Aggregator) Subscribe(fn func(State)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextLsnID
	a.nextLsnID++
	a.listeners[id] = fn
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.listeners, id)
			a.mu.Unlock()
		})
	}
}

func (a *Aggregator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Err is the error of the last failed load while in StateError.
func (a *Aggregator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

func (a *Aggregator) SchoolID() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.schoolID
}

// Snapshot returns a copy of the last committed collections. ok is false until the first successful load.
func (a *Aggregator) Snapshot() (snap Snapshot, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap.clone(), a.committed
}

// Close ends the session: in-flight loads are abandoned and all collections are discarded.
func (a *Aggregator) Close() {
	a.cancel()
	a.mu.Lock()
	a.snap = Snapshot{}
	a.committed = false
	a.state = StateIdle
	a.err = nil
	a.mu.Unlock()
	a.notify()
}
