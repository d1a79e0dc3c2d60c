package handle

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"math-tutor/api/internal/ai"
	"math-tutor/api/internal/ai/types"
)

// chat relays the engine stream as chunked text/plain: one {"text": ...}
// JSON record per line, until the upstream stream ends. Errors before the
// first frame are HTTP errors; after that the stream just closes.
func (h *Handle) chat(w http.ResponseWriter, r *http.Request, engine ai.Engine, payload json.RawMessage, rid string) {
	var in types.ChatRequest
	if err := json.Unmarshal(payload, &in); err != nil {
		http.Error(w, "bad payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := in.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if in.Language == "" {
		in.Language = types.LangEN
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestDeadline(r, 300*time.Second))
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	enc := json.NewEncoder(w)
	wrote := false
	err := engine.Chat(ctx, in, func(delta string) error {
		// Encode appends the newline that frames each record
		if err := enc.Encode(types.ChatChunk{Text: delta}); err != nil {
			return err
		}
		flusher.Flush()
		wrote = true
		return nil
	})
	if err != nil {
		if !wrote {
			http.Error(w, "chat error: "+err.Error(), http.StatusBadGateway)
			return
		}
		// Headers are gone; terminate the stream and log
		log.Printf("[%s] chat stream aborted: %v", rid, err)
	}
}
