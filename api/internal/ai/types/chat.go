package types

import (
	"errors"
	"fmt"
)

// ChatTurn is one entry of the conversation history.
type ChatTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ChatRequest is a follow-up question about a solution. History is the
// ordered prior conversation; Message is the new user turn.
type ChatRequest struct {
	History  []ChatTurn `json:"history"`
	Message  string     `json:"message"`
	Language Language   `json:"language"`
}

func (r *ChatRequest) Validate() error {
	if r.Message == "" {
		return errors.New("message is required")
	}
	if r.Language != "" && !r.Language.Valid() {
		return errors.New("language must be \"en\" or \"ar\"")
	}
	for i, t := range r.History {
		if !t.Role.Valid() {
			return fmt.Errorf("history[%d].role must be \"user\" or \"model\"", i)
		}
	}
	return nil
}

// ChatChunk is one record of the newline-delimited chat stream.
type ChatChunk struct {
	Text string `json:"text"`
}
