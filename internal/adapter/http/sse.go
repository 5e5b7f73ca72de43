package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"videoqc/internal/adapter/http/views"
	"videoqc/internal/domain"
	"videoqc/internal/infrastructure/logger"
	"videoqc/internal/service"
)

// SSEHandler streams conversion status updates for a single media
// entry. Each event carries the rendered status fragment so the page
// can swap it in place.
func (h *Handlers) SSEHandler(bus *service.EventBus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, ok := h.fetchMedia(w, r)
		if !ok {
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		events := bus.Subscribe(media.ID)
		defer bus.Unsubscribe(media.ID, events)

		logger.Debug.Printf("SSE client connected for media %s", media.ID)

		keepAlive := time.NewTicker(15 * time.Second)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				logger.Debug.Printf("SSE client disconnected for media %s", media.ID)
				return
			case <-keepAlive.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()
			case event, open := <-events:
				if !open {
					return
				}
				current, err := h.mediaSvc.Get(media.ID)
				if err != nil {
					logger.Error.Printf("SSE reload of media %s failed: %v", media.ID, err)
					return
				}
				if err := writeStatusEvent(r.Context(), w, event.Type, current); err != nil {
					logger.Error.Printf("SSE render for media %s failed: %v", media.ID, err)
					return
				}
				flusher.Flush()

				// Terminal states end the stream; the page stops
				// reconnecting once the fragment is final.
				if event.Status == "done" || event.Status == "failed" {
					return
				}
			}
		}
	}
}

// writeStatusEvent renders the status fragment for m and emits it as a
// single SSE event.
func writeStatusEvent(ctx context.Context, w http.ResponseWriter, event string, m *domain.Media) error {
	var buf bytes.Buffer
	if err := views.Status(m).Render(ctx, &buf); err != nil {
		return err
	}
	sseWrite(w, event, buf.String())
	return nil
}

// sseWrite emits one event, splitting the payload so multi-line HTML
// stays a single SSE message.
func sseWrite(w http.ResponseWriter, event, data string) {
	fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}
