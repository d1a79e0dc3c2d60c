package types

// Difficulty of an example problem.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// InitialDataRequest asks for the seed content a fresh client session shows.
type InitialDataRequest struct {
	Language Language `json:"language"`
}

// ExampleProblem is one ready-to-try problem for the start screen.
type ExampleProblem struct {
	Problem    string     `json:"problem"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
}

// InitialDataResponse is the seed content: example problems plus one fun
// math fact. Fallback is set by the client when the backend was unreachable
// and the content is the built-in offline set.
type InitialDataResponse struct {
	Examples []ExampleProblem `json:"examples"`
	Fact     string           `json:"fact"`
	Fallback bool             `json:"fallback,omitempty"`
}
