package types

// Language is the two-value UI language selector.
type Language string

const (
	LangEN Language = "en"
	LangAR Language = "ar"
)

func (l Language) Valid() bool {
	return l == LangEN || l == LangAR
}

// Human returns the language name used inside prompts.
func (l Language) Human() string {
	if l == LangAR {
		return "Arabic"
	}
	return "English"
}

// Role of a chat turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}
