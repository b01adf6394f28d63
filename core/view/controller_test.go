package view

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/authz"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/core/session"
	notifysvc "github.com/trezcool/darasa/services/notify"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// snapshotFetcher serves snap, or err when set.
type snapshotFetcher struct {
	mu   sync.Mutex
	snap school.Snapshot
	err  error
}

func (f *snapshotFetcher) get() (school.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, f.err
}

func (f *snapshotFetcher) FetchSchool(context.Context, int) (school.School, error) {
	snap, err := f.get()
	return snap.School, err
}

func (f *snapshotFetcher) FetchClasses(context.Context, int) ([]school.ClassItem, error) {
	snap, err := f.get()
	return snap.Classes, err
}

func (f *snapshotFetcher) FetchStudents(context.Context, int) ([]school.StudentItem, error) {
	snap, err := f.get()
	return snap.Students, err
}

func (f *snapshotFetcher) FetchTeachers(context.Context, int) ([]school.StaffItem, error) {
	snap, err := f.get()
	return snap.Teachers, err
}

func (f *snapshotFetcher) FetchSubjects(context.Context, int) ([]school.SubjectItem, error) {
	snap, err := f.get()
	return snap.Subjects, err
}

type navigatorStub struct{ routes []string }

func (n *navigatorStub) Redirect(route string) { n.routes = append(n.routes, route) }

// pageRecorder records what a page rendered.
type pageRecorder struct {
	mu           sync.Mutex
	renders      [][]StudentRow
	placeholders []error
}

func (p *pageRecorder) page() Page[[]StudentRow] {
	return Page[[]StudentRow]{
		Resource: authz.ResourceStudents,
		Derive: func(sess session.Session, snap school.Snapshot) []StudentRow {
			return StudentList(sess, snap, StudentFilter{})
		},
		Render: func(rows []StudentRow) {
			p.mu.Lock()
			p.renders = append(p.renders, rows)
			p.mu.Unlock()
		},
		Placeholder: func(_ school.State, err error) {
			p.mu.Lock()
			p.placeholders = append(p.placeholders, err)
			p.mu.Unlock()
		},
	}
}

func (p *pageRecorder) counts() (renders, placeholders int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.renders), len(p.placeholders)
}

func setup(t *testing.T) (*snapshotFetcher, *school.Aggregator, *authz.Gate, *notifysvc.Recorder, *navigatorStub) {
	f := &snapshotFetcher{snap: viewSnapshot()}
	agg := school.NewAggregator(f, nopLogger{})
	t.Cleanup(agg.Close)
	rec := new(notifysvc.Recorder)
	nav := new(navigatorStub)
	return f, agg, authz.NewGate(rec, nav), rec, nav
}

func TestMount_denied(t *testing.T) {
	_, agg, gate, rec, nav := setup(t)
	p := new(pageRecorder)

	ctrl, err := Mount(p.page(), session.Session{Role: authz.RoleStudent}, gate, agg)
	var denied *authz.DenyError
	if !errors.As(err, &denied) {
		t.Fatalf("Mount() error = %v, want *authz.DenyError", err)
	}
	assert.Nil(t, ctrl)

	// data arriving afterwards never renders the denied page
	if err := agg.Initialize(context.Background(), 1); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	renders, placeholders := p.counts()
	assert.Zero(t, renders)
	assert.Zero(t, placeholders)
	assert.Equal(t, []string{"/student/dashboard"}, nav.routes)
	assert.Equal(t, 1, rec.Count(notifysvc.KindFailure))
}

func TestMount_loadThenRender(t *testing.T) {
	f, agg, gate, rec, _ := setup(t)
	p := new(pageRecorder)

	ctrl, err := Mount(p.page(), session.Session{Role: authz.RoleSchoolAdmin}, gate, agg)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer ctrl.Unmount()

	// idle, nothing committed yet: blocking placeholder
	renders, placeholders := p.counts()
	assert.Equal(t, 0, renders)
	assert.Equal(t, 1, placeholders)

	if err := agg.Initialize(context.Background(), 1); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	p.mu.Lock()
	if assert.NotEmpty(t, p.renders) {
		assert.Len(t, p.renders[len(p.renders)-1], 3)
	}
	p.mu.Unlock()

	// a refetch re-renders with the new data
	f.mu.Lock()
	f.snap.Students = f.snap.Students[:1]
	f.mu.Unlock()
	if err := agg.Refetch(context.Background()); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}
	p.mu.Lock()
	assert.Len(t, p.renders[len(p.renders)-1], 1)
	p.mu.Unlock()
	assert.Empty(t, rec.All())
}

func TestMount_errorPlaceholder(t *testing.T) {
	f, agg, gate, _, _ := setup(t)
	f.err = errors.New("offline")
	p := new(pageRecorder)

	ctrl, err := Mount(p.page(), session.Session{Role: authz.RoleSchoolAdmin}, gate, agg)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	defer ctrl.Unmount()

	assert.Error(t, agg.Initialize(context.Background(), 1))
	renders, _ := p.counts()
	assert.Zero(t, renders)

	p.mu.Lock()
	last := p.placeholders[len(p.placeholders)-1]
	p.mu.Unlock()
	assert.ErrorContains(t, last, "offline")
}

func TestController_Unmount(t *testing.T) {
	_, agg, gate, _, _ := setup(t)
	p := new(pageRecorder)

	ctrl, err := Mount(p.page(), session.Session{Role: authz.RoleSchoolAdmin}, gate, agg)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	ctrl.Unmount()
	ctrl.Unmount() // idempotent
	assert.False(t, ctrl.Mounted())

	if err := agg.Initialize(context.Background(), 1); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	renders, placeholders := p.counts()
	assert.Zero(t, renders, "no render after unmount")
	assert.Equal(t, 1, placeholders, "only the initial placeholder")
}

func TestMount_placeholderRetries(t *testing.T) {
	tests := []struct {
		name       string
		failBefore bool // the first load fails before the page is mounted
	}{
		{name: "retry on failed load"},
		{name: "retry on mount", failBefore: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, agg, gate, _, _ := setup(t)
			f.err = errors.New("offline")
			if tt.failBefore {
				assert.Error(t, agg.Initialize(context.Background(), 1))
			}

			p := new(pageRecorder)
			page := p.page()
			record := page.Placeholder
			var retried bool
			page.Placeholder = func(state school.State, err error) {
				record(state, err)
				if state != school.StateError || retried {
					return
				}
				retried = true
				f.mu.Lock()
				f.err = nil
				f.mu.Unlock()
				assert.NoError(t, agg.Refetch(context.Background()))
			}

			done := make(chan struct{})
			go func() {
				defer close(done)
				ctrl, err := Mount(page, session.Session{Role: authz.RoleSchoolAdmin}, gate, agg)
				if !assert.NoError(t, err) {
					return
				}
				defer ctrl.Unmount()
				if !tt.failBefore {
					assert.Error(t, agg.Initialize(context.Background(), 1))
				}
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("a retry from the placeholder blocked the page")
			}

			assert.True(t, retried)
			assert.Equal(t, school.StateReady, agg.State())
			p.mu.Lock()
			defer p.mu.Unlock()
			if assert.NotEmpty(t, p.renders) {
				assert.Len(t, p.renders[len(p.renders)-1], 3)
			}
		})
	}
}
