package notifysvc

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/gommon/color"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	rec := new(Recorder)
	_, ok := rec.Last()
	assert.False(t, ok)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				rec.Success("Saved", "ok")
			} else {
				rec.Failure("Request failed", "nope")
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, rec.All(), 10)
	assert.Equal(t, 5, rec.Count(KindSuccess))
	assert.Equal(t, 5, rec.Count(KindFailure))

	rec.Success("Class created", "Class was created successfully.")
	last, ok := rec.Last()
	assert.True(t, ok)
	assert.Equal(t, Notification{Kind: KindSuccess, Title: "Class created", Message: "Class was created successfully."}, last)

	all := rec.All()
	all[0].Title = "changed"
	assert.NotEqual(t, "changed", rec.All()[0].Title, "All returns a copy")

	rec.Reset()
	assert.Empty(t, rec.All())
}

func TestConsole(t *testing.T) {
	color.Disable()
	defer color.Enable()

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Success("Student created", "Student account for Amani Kabila was created.")
	c.Failure("Access denied", "You do not have permission to view staff.")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"✔ Student created: Student account for Amani Kabila was created.",
		"✘ Access denied: You do not have permission to view staff.",
	}, lines)
}
