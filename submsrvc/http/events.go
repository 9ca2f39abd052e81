package http

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/royal-judge/backend/httpjson"
	"github.com/royal-judge/backend/subm"
)

// StreamSubmUpdates sends the submission as a server-sent event after
// every verdict change and ends the stream at the terminal verdict.
func (h *SubmHttpHandler) StreamSubmUpdates(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	updates, err := h.submSrvc.Subscribe.Handle(r.Context(), chi.URLParam(r, "submID"))
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}
	if updates == nil {
		httpjson.HandleError(h.logger, w, subm.ErrSubmNotFound())
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	var writeMutex sync.Mutex
	finished := false
	safeWrite := func(data string) {
		writeMutex.Lock()
		defer writeMutex.Unlock()
		if finished {
			return
		}
		io.WriteString(w, data)
		flusher.Flush()
	}

	keepAliveTicker := time.NewTicker(h.keepAlive)
	done := make(chan struct{})
	defer func() {
		keepAliveTicker.Stop()
		close(done)
		// the keep-alive writer must not touch w once we return
		writeMutex.Lock()
		finished = true
		writeMutex.Unlock()
	}()

	go func() {
		for {
			select {
			case <-done:
				return
			case <-keepAliveTicker.C:
				safeWrite(": keep-alive\n\n")
			}
		}
	}()

	for update := range updates {
		marshalled, err := json.Marshal(update)
		if err != nil {
			h.logger.Error("failed to marshal submission update", "error", err)
			return
		}
		safeWrite("event: verdict\ndata: " + string(marshalled) + "\n\n")
	}
}
