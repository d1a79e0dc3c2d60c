package handle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"math-tutor/api/internal/ai"
	"math-tutor/api/internal/ai/types"
	"math-tutor/api/internal/store"
	"math-tutor/api/internal/util"
)

// solveMaxAge is how long a cached solution stays fresh.
const solveMaxAge = 30 * 24 * time.Hour

func (h *Handle) solveProblem(w http.ResponseWriter, r *http.Request, engine ai.Engine, payload json.RawMessage, rid string) {
	var in types.SolveRequest
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

	ctx, cancel := context.WithTimeout(r.Context(), requestDeadline(r, 180*time.Second))
	defer cancel()

	key := solveKey(in)
	if h.solveRepo != nil {
		if cached, err := h.solveRepo.Find(ctx, key, engine.Name(), engine.GetModel(), in.Language, solveMaxAge); err == nil {
			writeJSON(w, http.StatusOK, cached)
			return
		} else if err != store.ErrNotFound {
			log.Printf("[%s] solve cache find: %v", rid, err)
		}
	}

	out, err := engine.SolveProblem(ctx, in)
	if err != nil {
		http.Error(w, "solve error: "+err.Error(), http.StatusBadGateway)
		return
	}

	if h.solveRepo != nil {
		if err := h.solveRepo.Upsert(ctx, key, engine.Name(), engine.GetModel(), in.Language, out); err != nil {
			log.Printf("[%s] solve cache upsert: %v", rid, err)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// solveKey hashes the problem content: image bytes when present, otherwise
// the whitespace-trimmed text.
func solveKey(in types.SolveRequest) string {
	hsh := sha256.New()
	if in.Image != "" {
		if b, _, err := util.DecodeBase64MaybeDataURL(in.Image); err == nil {
			hsh.Write(b)
		} else {
			hsh.Write([]byte(in.Image))
		}
	}
	hsh.Write([]byte(strings.TrimSpace(in.Problem)))
	return hex.EncodeToString(hsh.Sum(nil))
}
