package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videoqc/internal/domain"
	"videoqc/internal/service"
)

func TestWriteStatusEventDone(t *testing.T) {
	m := domain.NewMedia("clip.mov", "/data/uploads/clip.mov", 42)
	m.Status = domain.MediaStatusDone

	rec := httptest.NewRecorder()
	err := writeStatusEvent(context.Background(), rec, "status", m)
	require.NoError(t, err)

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "event: status\n"))
	assert.Contains(t, body, "Conversion completed.")
	assert.Contains(t, body, "/media/"+m.ID+"/download")
	assert.True(t, strings.HasSuffix(body, "\n\n"))

	// Multi-line fragments must stay one SSE message.
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n")[1:] {
		assert.True(t, strings.HasPrefix(line, "data: "), "line %q", line)
	}
}

func TestWriteStatusEventFailed(t *testing.T) {
	m := domain.NewMedia("clip.mov", "/data/uploads/clip.mov", 42)
	m.Status = domain.MediaStatusFailed
	m.ErrorMessage = "codec unsupported"

	rec := httptest.NewRecorder()
	err := writeStatusEvent(context.Background(), rec, "status", m)
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "event: status\n")
	assert.Contains(t, body, "Conversion failed: codec unsupported")
}

func TestSSEHandlerClosesOnTerminalStatus(t *testing.T) {
	svc := newFakeMediaSvc()
	m := addMedia(svc, domain.MediaStatusDone)

	bus := service.NewEventBus()
	handler := NewHandlers(svc, 500).SSEHandler(bus)

	req := httptest.NewRequest(http.MethodGet, "/events/"+m.ID, nil)
	req.SetPathValue("id", m.ID)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler(rec, req)
		close(done)
	}()

	// The subscription only exists once the handler is running, so
	// publish until the terminal event lands and the stream ends.
	deadline := time.After(5 * time.Second)
	for {
		bus.Publish(m.ID, service.Event{Type: "status", Status: "done"})
		select {
		case <-done:
		case <-deadline:
			t.Fatal("stream did not close on terminal status")
		case <-time.After(10 * time.Millisecond):
			continue
		}
		break
	}

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "event: status\n")
	assert.Contains(t, body, "Conversion completed.")
}

func TestSSEHandlerUnknownMedia(t *testing.T) {
	svc := newFakeMediaSvc()
	bus := service.NewEventBus()
	handler := NewHandlers(svc, 500).SSEHandler(bus)

	req := httptest.NewRequest(http.MethodGet, "/events/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
