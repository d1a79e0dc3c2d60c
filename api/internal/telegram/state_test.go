package telegram

import (
	"testing"

	"math-tutor/api/internal/ai/types"
)

func TestStateLangToggle(t *testing.T) {
	s := NewStateStore()
	if got := s.Lang(1); got != types.LangEN {
		t.Errorf("Expected default en, got %q", got)
	}
	if got := s.ToggleLang(1); got != types.LangAR {
		t.Errorf("Expected ar after toggle, got %q", got)
	}
	if got := s.ToggleLang(1); got != types.LangEN {
		t.Errorf("Expected en after second toggle, got %q", got)
	}
	// Other chats are unaffected
	if got := s.Lang(2); got != types.LangEN {
		t.Errorf("Expected en for a fresh chat, got %q", got)
	}
}

func TestStateConversation(t *testing.T) {
	s := NewStateStore()
	if s.HasConversation(7) {
		t.Error("Expected no conversation for a fresh chat")
	}

	s.AppendTurns(7,
		types.ChatTurn{Role: types.RoleUser, Text: "2+2?"},
		types.ChatTurn{Role: types.RoleModel, Text: "4"},
	)
	if !s.HasConversation(7) {
		t.Error("Expected conversation after appending turns")
	}

	h := s.History(7)
	if len(h) != 2 || h[1].Text != "4" {
		t.Errorf("Unexpected history %+v", h)
	}

	// History returns a copy; mutating it must not leak back
	h[0].Text = "mutated"
	if s.History(7)[0].Text != "2+2?" {
		t.Error("Expected history copy to be isolated")
	}

	s.ResetConversation(7)
	if s.HasConversation(7) {
		t.Error("Expected reset to clear the conversation")
	}
}
