package gpt

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"math-tutor/api/internal/ai/prompt"
	"math-tutor/api/internal/ai/types"
)

// Chat streams the model reply over SSE and forwards content deltas through
// emit in arrival order.
func (e *Engine) Chat(ctx context.Context, in types.ChatRequest, emit func(delta string) error) error {
	if e.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is empty")
	}

	lang := in.Language
	if lang == "" {
		lang = types.LangEN
	}

	msgs := []chatMessage{
		{Role: "system", Content: prompt.ChatSystem + prompt.LanguageLine(lang)},
	}
	for _, t := range in.History {
		role := "user"
		if t.Role == types.RoleModel {
			role = "assistant"
		}
		msgs = append(msgs, chatMessage{Role: role, Content: t.Text})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: in.Message})

	body := map[string]any{
		"model":    e.Model,
		"messages": msgs,
		"stream":   true,
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gpt chat: status %d: %s", resp.StatusCode, truncateBytes(raw, 512))
	}

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return nil
		}
		var ev struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			// Skip keep-alives and unknown event shapes
			continue
		}
		for _, c := range ev.Choices {
			if c.Delta.Content == "" {
				continue
			}
			if err := emit(c.Delta.Content); err != nil {
				return err
			}
		}
	}
	return sc.Err()
}
