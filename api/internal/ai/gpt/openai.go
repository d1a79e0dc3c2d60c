// Package gpt is an engine for OpenAI-compatible chat-completions APIs.
package gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"math-tutor/api/internal/util"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Engine struct {
	APIKey  string
	Model   string
	BaseURL string
	httpc   *http.Client
}

func New(key, model, baseURL string) *Engine {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second, // TCP connect
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		// First headers can take a while on long generations (TTFB)
		ResponseHeaderTimeout: 120 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
	}

	return &Engine{
		APIKey:  strings.TrimSpace(key),
		Model:   strings.TrimSpace(model),
		BaseURL: strings.TrimRight(baseURL, "/"),
		// Timeout=0 so long body reads (especially streaming) are not cut;
		// deadlines come from the request context.
		httpc: &http.Client{
			Timeout:   0,
			Transport: tr,
		},
	}
}

// WithHTTPClient overrides the internal HTTP client (e.g. for tests).
func (e *Engine) WithHTTPClient(c *http.Client) *Engine {
	if c != nil {
		e.httpc = c
	}
	return e
}

func (e *Engine) Name() string     { return "gpt" }
func (e *Engine) GetModel() string { return e.Model }

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// completeJSON runs one structured chat-completions call; the schema is
// passed as strict response_format json_schema.
func (e *Engine) completeJSON(ctx context.Context, system string, user any, schemaName, schemaJSON string, temp float64) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is empty")
	}

	var schema map[string]any
	if err := json.Unmarshal([]byte(schemaJSON), &schema); err != nil {
		return "", fmt.Errorf("gpt: bad %s schema: %w", schemaName, err)
	}
	util.FixJSONSchemaStrict(schema)

	body := map[string]any{
		"model":       e.Model,
		"temperature": temp,
		"messages": []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   schemaName,
				"strict": true,
				"schema": schema,
			},
		},
	}
	payload, _ := json.Marshal(body)

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+e.APIKey)

		resp, err := e.httpc.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
			continue
		}
		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("gpt %s: status %d: %s", schemaName, resp.StatusCode, truncateBytes(raw, 512))
			if resp.StatusCode >= 500 {
				time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
				continue
			}
			return "", lastErr
		}
		txt := extractChatText(raw)
		if txt == "" {
			return "", fmt.Errorf("gpt %s: empty response", schemaName)
		}
		return util.StripCodeFences(strings.TrimSpace(txt)), nil
	}
	return "", lastErr
}

// extractChatText pulls the assistant text out of a chat-completions
// envelope.
func extractChatText(raw []byte) string {
	var env struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	for _, c := range env.Choices {
		if s := strings.TrimSpace(c.Message.Content); s != "" {
			return s
		}
	}
	return ""
}

func truncateBytes(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

func textPart(s string) map[string]any {
	return map[string]any{"type": "text", "text": s}
}

func imagePart(dataURL string) map[string]any {
	return map[string]any{"type": "image_url", "image_url": map[string]any{"url": dataURL}}
}
