// Package handle is the backend action dispatcher: one POST endpoint takes
// {action, payload} and routes to the engine operation, answering with a
// JSON body or, for chat, a newline-delimited JSON stream.
package handle

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"math-tutor/api/internal/ai"
	"math-tutor/api/internal/store"
)

const (
	ActionGenerateInitialData = "generateInitialData"
	ActionSolveProblem        = "solveProblem"
	ActionChat                = "chat"
)

type Handle struct {
	engs      *ai.Engines
	solveRepo *store.SolveRepo
	seedRepo  *store.SeedRepo
	apiKey    string
}

// New builds the dispatcher. Repos may be nil; caching is then skipped.
// apiKey empty disables the shared-secret check.
func New(engs *ai.Engines, solveRepo *store.SolveRepo, seedRepo *store.SeedRepo, apiKey string) *Handle {
	return &Handle{
		engs:      engs,
		solveRepo: solveRepo,
		seedRepo:  seedRepo,
		apiKey:    apiKey,
	}
}

type actionRequest struct {
	Action  string          `json:"action"`
	LLMName string          `json:"llm_name,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch validates method and credentials, then routes by action name.
func (h *Handle) Dispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	if h.apiKey != "" {
		got := r.Header.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.apiKey)) != 1 {
			http.Error(w, "invalid api key", http.StatusUnauthorized)
			return
		}
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
		return
	}

	engine, err := h.engs.GetEngine(req.LLMName)
	if err != nil {
		http.Error(w, "engine error: "+err.Error(), http.StatusBadGateway)
		return
	}

	rid := uuid.NewString()
	log.Printf("[%s] action=%s engine=%s model=%s", rid, req.Action, engine.Name(), engine.GetModel())

	switch req.Action {
	case ActionGenerateInitialData:
		h.generateInitialData(w, r, engine, req.Payload, rid)
	case ActionSolveProblem:
		h.solveProblem(w, r, engine, req.Payload, rid)
	case ActionChat:
		h.chat(w, r, engine, req.Payload, rid)
	default:
		http.Error(w, "unknown action: "+req.Action, http.StatusBadRequest)
	}
}

// requestDeadline honors X-Request-Timeout (seconds) or ?timeoutSec,
// falling back to def.
func requestDeadline(r *http.Request, def time.Duration) time.Duration {
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			return time.Duration(v) * time.Second
		}
	}
	if ts := r.URL.Query().Get("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			return time.Duration(v) * time.Second
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
