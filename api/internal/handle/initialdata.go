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

// seedMaxAge is how long cached seed content stays fresh.
const seedMaxAge = 24 * time.Hour

func (h *Handle) generateInitialData(w http.ResponseWriter, r *http.Request, engine ai.Engine, payload json.RawMessage, rid string) {
	var in types.InitialDataRequest
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &in); err != nil {
			http.Error(w, "bad payload: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if in.Language == "" {
		in.Language = types.LangEN
	}
	if !in.Language.Valid() {
		http.Error(w, "language must be \"en\" or \"ar\"", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestDeadline(r, 60*time.Second))
	defer cancel()

	if h.seedRepo != nil {
		if cached, err := h.seedRepo.Find(ctx, in.Language, engine.Name(), engine.GetModel(), seedMaxAge); err == nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	out, err := engine.GenerateInitialData(ctx, in)
	if err != nil {
		http.Error(w, "initial data error: "+err.Error(), http.StatusBadGateway)
		return
	}

	if h.seedRepo != nil {
		if err := h.seedRepo.Upsert(ctx, in.Language, engine.Name(), engine.GetModel(), out); err != nil {
			log.Printf("[%s] seed cache upsert: %v", rid, err)
		}
	}
	writeJSON(w, http.StatusOK, out)
}
