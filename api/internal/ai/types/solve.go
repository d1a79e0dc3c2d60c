package types

import "errors"

// ProblemType is the classification the model assigns to a problem.
type ProblemType string

const (
	TypeArithmetic   ProblemType = "arithmetic"
	TypeAlgebra      ProblemType = "algebra"
	TypeGeometry     ProblemType = "geometry"
	TypeTrigonometry ProblemType = "trigonometry"
	TypeCalculus     ProblemType = "calculus"
	TypeStatistics   ProblemType = "statistics"
	TypeWordProblem  ProblemType = "word_problem"
	TypeOther        ProblemType = "other"
)

// ProblemTypes lists every allowed classification, in schema order.
var ProblemTypes = []ProblemType{
	TypeArithmetic, TypeAlgebra, TypeGeometry, TypeTrigonometry,
	TypeCalculus, TypeStatistics, TypeWordProblem, TypeOther,
}

// SolveRequest carries the problem as text, as an image (base64 or data:
// URI), or both. MIMEType is optional; when empty it is taken from the data:
// prefix or sniffed from the bytes.
type SolveRequest struct {
	Problem  string   `json:"problem,omitempty"`
	Image    string   `json:"image,omitempty"`
	MIMEType string   `json:"mime_type,omitempty"`
	Language Language `json:"language"`
}

func (r *SolveRequest) Validate() error {
	if r.Problem == "" && r.Image == "" {
		return errors.New("either problem or image is required")
	}
	if r.Language != "" && !r.Language.Valid() {
		return errors.New("language must be \"en\" or \"ar\"")
	}
	return nil
}

// SolveStep is one step of the worked solution. Expression is null for
// purely verbal steps.
type SolveStep struct {
	Title       string  `json:"title"`
	Explanation string  `json:"explanation"`
	Expression  *string `json:"expression"`
}

// SolveResponse is the full worked solution (SOLVE schema).
type SolveResponse struct {
	ProblemType     ProblemType `json:"problem_type"`
	RestatedProblem string      `json:"restated_problem"`
	Steps           []SolveStep `json:"steps"`
	FinalAnswer     string      `json:"final_answer"`
	Summary         string      `json:"summary"`
}
