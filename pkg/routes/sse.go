package routes

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// heartbeatInterval keeps idle SSE connections open through proxies.
var heartbeatInterval = 30 * time.Second

// SSE endpoint for setup created/deleted events
func (wr *WebRouter) setupsSSE(w http.ResponseWriter, r *http.Request) {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	if wr.Notifier == nil {
		slog.Warn("SSE endpoint called but Notifier is nil")
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	eventCh := wr.Notifier.Subscribe()
	defer wr.Notifier.Unsubscribe(eventCh)

	ctx := r.Context()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	// Announce the stream so clients know the subscription is live
	if _, err := fmt.Fprintf(w, ": connected\n\n"); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case e, open := <-eventCh:
			if !open {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				slog.Error("error encoding SSE event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Kind, data); err != nil {
				slog.Error("error sending SSE update", "error", err)
				return
			}
			flusher.Flush()
		case <-ticker.C:
			// Send heartbeat comment to keep connection alive
			if _, err := fmt.Fprintf(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
