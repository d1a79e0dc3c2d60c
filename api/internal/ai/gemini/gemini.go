package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"math-tutor/api/internal/ai/prompt"
	"math-tutor/api/internal/ai/types"
	"math-tutor/api/internal/util"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type Engine struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Engine {
	return &Engine{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (e *Engine) Name() string     { return "gemini" }
func (e *Engine) GetModel() string { return e.Model }

// Native response schemas matching the draft-07 contracts in the prompt
// package. Gemini enforces these server-side via GenerationConfig.

var solveSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"problem_type":     {Type: genai.TypeString, Enum: problemTypeEnum()},
		"restated_problem": {Type: genai.TypeString},
		"steps": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":       {Type: genai.TypeString},
					"explanation": {Type: genai.TypeString},
					"expression":  {Type: genai.TypeString, Nullable: true},
				},
				Required: []string{"title", "explanation", "expression"},
			},
		},
		"final_answer": {Type: genai.TypeString},
		"summary":      {Type: genai.TypeString},
	},
	Required: []string{"problem_type", "restated_problem", "steps", "final_answer", "summary"},
}

var examplesSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"examples": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"problem": {Type: genai.TypeString},
					"topic":   {Type: genai.TypeString},
					"difficulty": {
						Type: genai.TypeString,
						Enum: []string{"easy", "medium", "hard"},
					},
				},
				Required: []string{"problem", "topic", "difficulty"},
			},
		},
	},
	Required: []string{"examples"},
}

var factSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"fact": {Type: genai.TypeString},
	},
	Required: []string{"fact"},
}

func problemTypeEnum() []string {
	out := make([]string, 0, len(types.ProblemTypes))
	for _, t := range types.ProblemTypes {
		out = append(out, string(t))
	}
	return out
}

// --------------------------- INITIAL DATA ---------------------------

// GenerateInitialData runs the examples and fact generations in parallel
// and waits for both; the first error wins.
func (e *Engine) GenerateInitialData(ctx context.Context, in types.InitialDataRequest) (types.InitialDataResponse, error) {
	if e.APIKey == "" {
		return types.InitialDataResponse{}, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return types.InitialDataResponse{}, err
	}
	defer cl.Close()

	lang := in.Language
	if lang == "" {
		lang = types.LangEN
	}

	var (
		examples []types.ExampleProblem
		fact     string
		exErr    error
		factErr  error
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		examples, exErr = e.generateExamples(ctx, cl, lang)
	}()
	go func() {
		defer wg.Done()
		fact, factErr = e.generateFact(ctx, cl, lang)
	}()
	wg.Wait()

	if exErr != nil {
		return types.InitialDataResponse{}, exErr
	}
	if factErr != nil {
		return types.InitialDataResponse{}, factErr
	}
	return types.InitialDataResponse{Examples: examples, Fact: fact}, nil
}

func (e *Engine) generateExamples(ctx context.Context, cl *genai.Client, lang types.Language) ([]types.ExampleProblem, error) {
	m := e.structuredModel(cl, examplesSchema, 0.8)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompt.ExamplesSystem + prompt.LanguageLine(lang))},
	}

	raw, err := e.generateJSON(ctx, m, genai.Text("Generate the 4 example problems."))
	if err != nil {
		return nil, fmt.Errorf("gemini examples: %w", err)
	}
	var out struct {
		Examples []types.ExampleProblem `json:"examples"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("gemini examples: bad JSON: %w", err)
	}
	if len(out.Examples) == 0 {
		return nil, fmt.Errorf("gemini examples: empty list")
	}
	return out.Examples, nil
}

func (e *Engine) generateFact(ctx context.Context, cl *genai.Client, lang types.Language) (string, error) {
	m := e.structuredModel(cl, factSchema, 0.8)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompt.FactSystem + prompt.LanguageLine(lang))},
	}

	raw, err := e.generateJSON(ctx, m, genai.Text("Generate one math fact."))
	if err != nil {
		return "", fmt.Errorf("gemini fact: %w", err)
	}
	var out struct {
		Fact string `json:"fact"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", fmt.Errorf("gemini fact: bad JSON: %w", err)
	}
	if strings.TrimSpace(out.Fact) == "" {
		return "", fmt.Errorf("gemini fact: empty fact")
	}
	return out.Fact, nil
}

// --------------------------- SOLVE ---------------------------

// SolveProblem classifies, solves and explains a problem given as text
// and/or an image. Returns JSON per the SOLVE schema.
func (e *Engine) SolveProblem(ctx context.Context, in types.SolveRequest) (types.SolveResponse, error) {
	if e.APIKey == "" {
		return types.SolveResponse{}, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return types.SolveResponse{}, err
	}
	defer cl.Close()

	lang := in.Language
	if lang == "" {
		lang = types.LangEN
	}

	m := e.structuredModel(cl, solveSchema, 0)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompt.SolveSystem + prompt.LanguageLine(lang))},
	}

	parts := []genai.Part{}
	if strings.TrimSpace(in.Problem) != "" {
		parts = append(parts, genai.Text("Problem:\n"+in.Problem))
	} else {
		parts = append(parts, genai.Text("Solve the problem shown in the image."))
	}
	if in.Image != "" {
		imgBytes, mimeFromDataURL, err := util.DecodeBase64MaybeDataURL(in.Image)
		if err != nil {
			return types.SolveResponse{}, fmt.Errorf("gemini solve: bad base64: %w", err)
		}
		finalMIME := util.PickMIME(in.MIMEType, mimeFromDataURL, imgBytes)
		parts = append(parts, &genai.Blob{MIMEType: finalMIME, Data: imgBytes})
	}

	raw, err := e.generateJSON(ctx, m, parts...)
	if err != nil {
		return types.SolveResponse{}, fmt.Errorf("gemini solve: %w", err)
	}
	var out types.SolveResponse
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return types.SolveResponse{}, fmt.Errorf("gemini solve: bad JSON: %w", err)
	}
	return out, nil
}

// --------------------------- CHAT ---------------------------

// Chat relays a multi-turn conversation. History becomes the chat session
// history; text deltas are pushed through emit as they arrive.
func (e *Engine) Chat(ctx context.Context, in types.ChatRequest, emit func(delta string) error) error {
	if e.APIKey == "" {
		return errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return err
	}
	defer cl.Close()

	lang := in.Language
	if lang == "" {
		lang = types.LangEN
	}

	m := cl.GenerativeModel(e.Model)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompt.ChatSystem + prompt.LanguageLine(lang))},
	}

	cs := m.StartChat()
	cs.History = convertHistory(in.History)

	iter := cs.SendMessageStream(ctx, genai.Text(in.Message))
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("gemini chat: %w", err)
		}
		for _, c := range resp.Candidates {
			if c.Content == nil {
				continue
			}
			for _, p := range c.Content.Parts {
				t, ok := p.(genai.Text)
				if !ok || len(t) == 0 {
					continue
				}
				if err := emit(string(t)); err != nil {
					return err
				}
			}
		}
	}
}

// convertHistory maps wire turns to provider-native content, keeping order.
func convertHistory(turns []types.ChatTurn) []*genai.Content {
	out := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		out = append(out, &genai.Content{
			Role:  string(t.Role),
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}
	return out
}

// --------------------------- helpers ---------------------------

func (e *Engine) structuredModel(cl *genai.Client, schema *genai.Schema, temp float32) *genai.GenerativeModel {
	m := cl.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(temp),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	return m
}

// generateJSON runs the model with retries on transient failures and
// returns the fence-stripped text of the first candidate. Malformed JSON is
// the caller's hard failure; only transport errors are retried.
func (e *Engine) generateJSON(ctx context.Context, m *genai.GenerativeModel, parts ...genai.Part) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt) * 300 * time.Millisecond)
			continue
		}
		txt := firstText(resp)
		if txt == "" {
			return "", fmt.Errorf("empty response")
		}
		return util.StripCodeFences(strings.TrimSpace(txt)), nil
	}
	return "", lastErr
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
