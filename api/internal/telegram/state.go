package telegram

import (
	"sync"

	"math-tutor/api/internal/ai/types"
)

// chatState is what the bot remembers per Telegram chat: the UI language
// and the running conversation about the last solved problem.
type chatState struct {
	Lang    types.Language
	History []types.ChatTurn
}

type StateStore struct {
	mu sync.Mutex
	m  map[int64]*chatState
}

func NewStateStore() *StateStore {
	return &StateStore{m: make(map[int64]*chatState)}
}

func (s *StateStore) state(chatID int64) *chatState {
	st, ok := s.m[chatID]
	if !ok {
		st = &chatState{Lang: types.LangEN}
		s.m[chatID] = st
	}
	return st
}

func (s *StateStore) Lang(chatID int64) types.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(chatID).Lang
}

// ToggleLang flips en <-> ar and returns the new language.
func (s *StateStore) ToggleLang(chatID int64) types.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(chatID)
	if st.Lang == types.LangEN {
		st.Lang = types.LangAR
	} else {
		st.Lang = types.LangEN
	}
	return st.Lang
}

// History returns a copy of the conversation so far.
func (s *StateStore) History(chatID int64) []types.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(chatID)
	out := make([]types.ChatTurn, len(st.History))
	copy(out, st.History)
	return out
}

func (s *StateStore) HasConversation(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state(chatID).History) > 0
}

// AppendTurns records a user/model exchange.
func (s *StateStore) AppendTurns(chatID int64, turns ...types.ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(chatID)
	st.History = append(st.History, turns...)
}

// ResetConversation drops the history but keeps the language.
func (s *StateStore) ResetConversation(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state(chatID).History = nil
}
