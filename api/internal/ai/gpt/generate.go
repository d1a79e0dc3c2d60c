package gpt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"math-tutor/api/internal/ai/prompt"
	"math-tutor/api/internal/ai/types"
	"math-tutor/api/internal/util"
)

// GenerateInitialData runs the examples and fact calls in parallel; both
// must succeed.
func (e *Engine) GenerateInitialData(ctx context.Context, in types.InitialDataRequest) (types.InitialDataResponse, error) {
	lang := in.Language
	if lang == "" {
		lang = types.LangEN
	}

	var (
		examplesRaw string
		factRaw     string
		exErr       error
		factErr     error
		wg          sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		examplesRaw, exErr = e.completeJSON(ctx,
			prompt.ExamplesSystem+prompt.LanguageLine(lang),
			"Generate the 4 example problems.",
			"examples", prompt.ExamplesSchema, 0.8)
	}()
	go func() {
		defer wg.Done()
		factRaw, factErr = e.completeJSON(ctx,
			prompt.FactSystem+prompt.LanguageLine(lang),
			"Generate one math fact.",
			"fact", prompt.FactSchema, 0.8)
	}()
	wg.Wait()

	if exErr != nil {
		return types.InitialDataResponse{}, exErr
	}
	if factErr != nil {
		return types.InitialDataResponse{}, factErr
	}

	var out types.InitialDataResponse
	if err := json.Unmarshal([]byte(examplesRaw), &out); err != nil {
		return types.InitialDataResponse{}, fmt.Errorf("gpt examples: bad JSON: %w", err)
	}
	var f struct {
		Fact string `json:"fact"`
	}
	if err := json.Unmarshal([]byte(factRaw), &f); err != nil {
		return types.InitialDataResponse{}, fmt.Errorf("gpt fact: bad JSON: %w", err)
	}
	if len(out.Examples) == 0 || strings.TrimSpace(f.Fact) == "" {
		return types.InitialDataResponse{}, fmt.Errorf("gpt initial data: empty content")
	}
	out.Fact = f.Fact
	return out, nil
}

// SolveProblem returns JSON per the SOLVE schema for a text and/or image
// problem.
func (e *Engine) SolveProblem(ctx context.Context, in types.SolveRequest) (types.SolveResponse, error) {
	lang := in.Language
	if lang == "" {
		lang = types.LangEN
	}

	user := []any{}
	if strings.TrimSpace(in.Problem) != "" {
		user = append(user, textPart("Problem:\n"+in.Problem))
	} else {
		user = append(user, textPart("Solve the problem shown in the image."))
	}
	if in.Image != "" {
		imgBytes, mimeFromDataURL, err := util.DecodeBase64MaybeDataURL(in.Image)
		if err != nil {
			return types.SolveResponse{}, fmt.Errorf("gpt solve: bad base64: %w", err)
		}
		finalMIME := util.PickMIME(in.MIMEType, mimeFromDataURL, imgBytes)
		if !isOpenAIImageMIME(finalMIME) {
			return types.SolveResponse{}, fmt.Errorf("gpt solve: unsupported image MIME %q", finalMIME)
		}
		dataURL := util.MakeDataURL(finalMIME, base64.StdEncoding.EncodeToString(imgBytes))
		user = append(user, imagePart(dataURL))
	}

	raw, err := e.completeJSON(ctx,
		prompt.SolveSystem+prompt.LanguageLine(lang),
		user, "solve", prompt.SolveSchema, 0)
	if err != nil {
		return types.SolveResponse{}, err
	}
	var out types.SolveResponse
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return types.SolveResponse{}, fmt.Errorf("gpt solve: bad JSON: %w", err)
	}
	return out, nil
}

func isOpenAIImageMIME(m string) bool {
	m = strings.ToLower(strings.TrimSpace(m))
	switch m {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	}
	return false
}
