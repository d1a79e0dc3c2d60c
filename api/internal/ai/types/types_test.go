package types

import "testing"

func TestLanguage(t *testing.T) {
	if !LangEN.Valid() || !LangAR.Valid() {
		t.Error("Expected en and ar to be valid")
	}
	if Language("fr").Valid() {
		t.Error("Expected 'fr' to be invalid")
	}
	if LangEN.Human() != "English" {
		t.Errorf("Expected English, got %q", LangEN.Human())
	}
	if LangAR.Human() != "Arabic" {
		t.Errorf("Expected Arabic, got %q", LangAR.Human())
	}
}

func TestSolveRequestValidate(t *testing.T) {
	r := SolveRequest{}
	if err := r.Validate(); err == nil {
		t.Error("Expected error when both problem and image are empty")
	}

	r = SolveRequest{Problem: "2+2"}
	if err := r.Validate(); err != nil {
		t.Errorf("Expected text-only request to validate, got %v", err)
	}

	r = SolveRequest{Image: "QUJD"}
	if err := r.Validate(); err != nil {
		t.Errorf("Expected image-only request to validate, got %v", err)
	}

	r = SolveRequest{Problem: "2+2", Language: "de"}
	if err := r.Validate(); err == nil {
		t.Error("Expected error for unknown language")
	}
}

func TestChatRequestValidate(t *testing.T) {
	r := ChatRequest{}
	if err := r.Validate(); err == nil {
		t.Error("Expected error for empty message")
	}

	r = ChatRequest{
		Message: "why step 2?",
		History: []ChatTurn{
			{Role: RoleUser, Text: "solve 2+2"},
			{Role: RoleModel, Text: "4"},
		},
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Expected valid request, got %v", err)
	}

	r.History = append(r.History, ChatTurn{Role: "assistant", Text: "nope"})
	if err := r.Validate(); err == nil {
		t.Error("Expected error for role outside {user, model}")
	}
}
