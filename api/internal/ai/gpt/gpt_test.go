package gpt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"math-tutor/api/internal/ai/types"
)

func TestSolveProblemStructured(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("Failed to parse request body: %v", err)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got %q", got)
		}
		resp := map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{
						"content": "```json\n" + `{"problem_type":"algebra","restated_problem":"Solve 3x-7=14","steps":[{"title":"Add 7","explanation":"Add 7 to both sides.","expression":"3x = 21"},{"title":"Divide by 3","explanation":"Divide both sides by 3.","expression":null}],"final_answer":"x = 7","summary":"Isolate x."}` + "\n```",
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := New("test-key", "gpt-4o-mini", srv.URL)
	out, err := e.SolveProblem(context.Background(), types.SolveRequest{Problem: "3x-7=14", Language: types.LangEN})
	if err != nil {
		t.Fatalf("SolveProblem failed: %v", err)
	}

	if out.ProblemType != types.TypeAlgebra {
		t.Errorf("Expected algebra, got %q", out.ProblemType)
	}
	if len(out.Steps) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(out.Steps))
	}
	if out.Steps[0].Expression == nil || *out.Steps[0].Expression != "3x = 21" {
		t.Errorf("Expected first step expression '3x = 21', got %v", out.Steps[0].Expression)
	}
	if out.Steps[1].Expression != nil {
		t.Errorf("Expected null expression on verbal step, got %v", *out.Steps[1].Expression)
	}
	if out.FinalAnswer != "x = 7" {
		t.Errorf("Expected final answer 'x = 7', got %q", out.FinalAnswer)
	}

	// The request must carry a strict json_schema response_format
	rf, ok := gotBody["response_format"].(map[string]any)
	if !ok {
		t.Fatal("Request missing response_format")
	}
	if rf["type"] != "json_schema" {
		t.Errorf("Expected response_format type json_schema, got %v", rf["type"])
	}
	js := rf["json_schema"].(map[string]any)
	if js["strict"] != true {
		t.Errorf("Expected strict schema, got %v", js["strict"])
	}
	if js["name"] != "solve" {
		t.Errorf("Expected schema name solve, got %v", js["name"])
	}
}

func TestGenerateInitialDataParallelCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var content string
		if strings.Contains(string(body), "math fact") {
			content = `{"fact":"Zero has no Roman numeral."}`
		} else {
			content = `{"examples":[{"problem":"1+1","topic":"addition","difficulty":"easy"},{"problem":"2x=4","topic":"algebra","difficulty":"medium"},{"problem":"area","topic":"geometry","difficulty":"medium"},{"problem":"train","topic":"rates","difficulty":"hard"}]}`
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, content)
	}))
	defer srv.Close()

	e := New("test-key", "gpt-4o-mini", srv.URL)
	out, err := e.GenerateInitialData(context.Background(), types.InitialDataRequest{Language: types.LangEN})
	if err != nil {
		t.Fatalf("GenerateInitialData failed: %v", err)
	}
	if len(out.Examples) != 4 {
		t.Errorf("Expected 4 examples, got %d", len(out.Examples))
	}
	if out.Fact != "Zero has no Roman numeral." {
		t.Errorf("Unexpected fact %q", out.Fact)
	}
}

func TestGenerateInitialDataUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e := New("test-key", "gpt-4o-mini", srv.URL)
	if _, err := e.GenerateInitialData(context.Background(), types.InitialDataRequest{}); err == nil {
		t.Error("Expected error when upstream fails")
	}
}

func TestSolveProblemMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"not json at all"}}]}`)
	}))
	defer srv.Close()

	e := New("test-key", "gpt-4o-mini", srv.URL)
	_, err := e.SolveProblem(context.Background(), types.SolveRequest{Problem: "2+2"})
	if err == nil {
		t.Fatal("Expected hard failure on malformed model output")
	}
	if !strings.Contains(err.Error(), "bad JSON") {
		t.Errorf("Expected bad JSON error, got %v", err)
	}
}

func TestChatStreamsDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &req)
		if req["stream"] != true {
			t.Errorf("Expected stream:true, got %v", req["stream"])
		}
		msgs := req["messages"].([]any)
		// system + 2 history turns + new message
		if len(msgs) != 4 {
			t.Errorf("Expected 4 messages, got %d", len(msgs))
		}
		second := msgs[2].(map[string]any)
		if second["role"] != "assistant" {
			t.Errorf("Expected model turn mapped to assistant, got %v", second["role"])
		}

		flusher, _ := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range []string{"Hel", "lo ", "there"} {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", chunk)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer srv.Close()

	e := New("test-key", "gpt-4o-mini", srv.URL)
	var got strings.Builder
	err := e.Chat(context.Background(), types.ChatRequest{
		History: []types.ChatTurn{
			{Role: types.RoleUser, Text: "solve 2+2"},
			{Role: types.RoleModel, Text: "4"},
		},
		Message: "why?",
	}, func(delta string) error {
		got.WriteString(delta)
		return nil
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if got.String() != "Hello there" {
		t.Errorf("Expected 'Hello there', got %q", got.String())
	}
}

func TestChatEmitErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, _ := w.(http.Flusher)
		for i := 0; i < 10; i++ {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n\n")
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	e := New("test-key", "gpt-4o-mini", srv.URL)
	calls := 0
	err := e.Chat(context.Background(), types.ChatRequest{Message: "hi"}, func(delta string) error {
		calls++
		return fmt.Errorf("client went away")
	})
	if err == nil || !strings.Contains(err.Error(), "client went away") {
		t.Errorf("Expected emit error to propagate, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected stream to stop after first emit error, got %d calls", calls)
	}
}
