package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"

	"math-tutor/api/internal/ai/types"
)

func TestConvertHistory(t *testing.T) {
	turns := []types.ChatTurn{
		{Role: types.RoleUser, Text: "solve 2+2"},
		{Role: types.RoleModel, Text: "4"},
		{Role: types.RoleUser, Text: "why?"},
	}
	got := convertHistory(turns)
	if len(got) != 3 {
		t.Fatalf("Expected 3 contents, got %d", len(got))
	}
	wantRoles := []string{"user", "model", "user"}
	for i, c := range got {
		if c.Role != wantRoles[i] {
			t.Errorf("History[%d].Role = %q, want %q", i, c.Role, wantRoles[i])
		}
		txt, ok := c.Parts[0].(genai.Text)
		if !ok || string(txt) != turns[i].Text {
			t.Errorf("History[%d] text = %v, want %q", i, c.Parts[0], turns[i].Text)
		}
	}
}

func TestFirstText(t *testing.T) {
	if got := firstText(nil); got != "" {
		t.Errorf("Expected empty text for nil response, got %q", got)
	}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("{\"ok\":true}")}}},
		},
	}
	if got := firstText(resp); got != "{\"ok\":true}" {
		t.Errorf("Expected candidate text, got %q", got)
	}
}

func TestProblemTypeEnum(t *testing.T) {
	enum := problemTypeEnum()
	if len(enum) != len(types.ProblemTypes) {
		t.Fatalf("Expected %d entries, got %d", len(types.ProblemTypes), len(enum))
	}
	if enum[0] != "arithmetic" || enum[len(enum)-1] != "other" {
		t.Errorf("Unexpected enum order: %v", enum)
	}
}

func TestSolveSchemaRequiredFields(t *testing.T) {
	want := []string{"problem_type", "restated_problem", "steps", "final_answer", "summary"}
	if len(solveSchema.Required) != len(want) {
		t.Fatalf("Expected %d required fields, got %d", len(want), len(solveSchema.Required))
	}
	for i, f := range want {
		if solveSchema.Required[i] != f {
			t.Errorf("Required[%d] = %q, want %q", i, solveSchema.Required[i], f)
		}
	}
	expr := solveSchema.Properties["steps"].Items.Properties["expression"]
	if !expr.Nullable {
		t.Error("Expected steps.expression to be nullable")
	}
}
