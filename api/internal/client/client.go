// Package client is the Go-side service client for the tutor backend: it
// POSTs {action, payload} bodies, decodes JSON responses, and exposes the
// chat reply as a line-oriented stream.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"math-tutor/api/internal/ai/types"
)

type Client struct {
	BaseURL string
	APIKey  string
	httpc   *http.Client
}

func New(baseURL, apiKey string) *Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 120 * time.Second,
		IdleConnTimeout:       90 * time.Second,
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		// Timeout=0: the chat body is read for as long as the model talks
		httpc: &http.Client{Timeout: 0, Transport: tr},
	}
}

// WithHTTPClient overrides the internal HTTP client (e.g. for tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpc = hc
	}
	return c
}

type actionBody struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

func (c *Client) postAction(ctx context.Context, action string, payload any) (*http.Response, error) {
	body, err := json.Marshal(actionBody{Action: action, Payload: payload})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/tutor", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("%s: status %d: %s", action, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return resp, nil
}

// GenerateInitialData fetches seed content. On any failure it returns the
// deterministic offline fallback for the language instead of an error, so
// a UI always has something to show.
func (c *Client) GenerateInitialData(ctx context.Context, lang types.Language) types.InitialDataResponse {
	resp, err := c.postAction(ctx, "generateInitialData", types.InitialDataRequest{Language: lang})
	if err != nil {
		log.Printf("initial data: falling back to offline content: %v", err)
		return FallbackInitialData(lang)
	}
	defer resp.Body.Close()

	var out types.InitialDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || len(out.Examples) == 0 {
		log.Printf("initial data: bad response, falling back: %v", err)
		return FallbackInitialData(lang)
	}
	return out
}

// SolveProblem runs the single-shot solve action.
func (c *Client) SolveProblem(ctx context.Context, in types.SolveRequest) (types.SolveResponse, error) {
	resp, err := c.postAction(ctx, "solveProblem", in)
	if err != nil {
		return types.SolveResponse{}, err
	}
	defer resp.Body.Close()

	var out types.SolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.SolveResponse{}, fmt.Errorf("solveProblem: bad response: %w", err)
	}
	return out, nil
}

// Chat opens the streaming chat action. The caller must Close the stream.
func (c *Client) Chat(ctx context.Context, in types.ChatRequest) (*ChatStream, error) {
	resp, err := c.postAction(ctx, "chat", in)
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &ChatStream{body: resp.Body, sc: sc}, nil
}

// ChatStream reads newline-delimited {"text": ...} records. Deltas are
// reassembled by concatenation in arrival order.
type ChatStream struct {
	body io.ReadCloser
	sc   *bufio.Scanner
}

// Recv returns the next text delta, or io.EOF when the stream ends.
func (s *ChatStream) Recv() (string, error) {
	for s.sc.Scan() {
		line := strings.TrimSpace(s.sc.Text())
		if line == "" {
			continue
		}
		var chunk types.ChatChunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			return "", fmt.Errorf("chat: bad stream record: %w", err)
		}
		return chunk.Text, nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// ReadAll drains the stream and returns the concatenated reply.
func (s *ChatStream) ReadAll() (string, error) {
	var b strings.Builder
	for {
		delta, err := s.Recv()
		if err == io.EOF {
			return b.String(), nil
		}
		if err != nil {
			return b.String(), err
		}
		b.WriteString(delta)
	}
}

func (s *ChatStream) Close() error { return s.body.Close() }
