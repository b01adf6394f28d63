package notifysvc

import (
	"fmt"
	"io"
	"sync"

	"github.com/labstack/gommon/color"

	"github.com/trezcool/darasa/core"
)

// Console prints notifications as colored one-liners.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

var _ core.Notifier = (*Console)(nil)

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Success(title, message string) {
	c.print(color.Green("✔ "+title, color.B), message)
}

func (c *Console) Failure(title, message string) {
	c.print(color.Red("✘ "+title, color.B), message)
}

func (c *Console) print(title, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, "%s: %s\n", title, message)
}

type Kind int

const (
	KindSuccess Kind = iota
	KindFailure
)

type Notification struct {
	Kind    Kind
	Title   string
	Message string
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

var _ core.Notifier = (*Recorder)(nil)

func (r *Recorder) Success(title, message string) { r.add(KindSuccess, title, message) }

func (r *Recorder) Failure(title, message string) { r.add(KindFailure, title, message) }

func (r *Recorder) add(kind Kind, title, message string) {
	r.mu.Lock()
	r.items = append(r.items, Notification{Kind: kind, Title: title, Message: message})
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the latest notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	for _, it := range r.items {
		if it.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}
