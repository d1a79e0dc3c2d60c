package ai

import (
	"context"
	"errors"

	"math-tutor/api/internal/ai/types"
)

// Engine is one generative-AI backend able to run the three tutor
// operations. Chat pushes model text deltas through emit in arrival order;
// a non-nil error from emit aborts the stream.
type Engine interface {
	Name() string
	GetModel() string
	GenerateInitialData(ctx context.Context, in types.InitialDataRequest) (types.InitialDataResponse, error)
	SolveProblem(ctx context.Context, in types.SolveRequest) (types.SolveResponse, error)
	Chat(ctx context.Context, in types.ChatRequest, emit func(delta string) error) error
}

type Engines struct {
	Gemini Engine
	OpenAI Engine
}

// GetEngine resolves an engine by request name. Empty name means the
// default (gemini).
func (e *Engines) GetEngine(llmName string) (Engine, error) {
	switch llmName {
	case "", "gemini":
		if e.Gemini == nil {
			return nil, errors.New("gemini engine is not configured")
		}
		return e.Gemini, nil
	case "gpt", "openai":
		if e.OpenAI == nil {
			return nil, errors.New("openai engine is not configured")
		}
		return e.OpenAI, nil
	default:
		return nil, errors.New("unknown llm_name; use 'gemini' or 'gpt'")
	}
}
