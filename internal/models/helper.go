package models

// Mode is the screen a viewer opens on.
type Mode string

const (
	ModeCreate   Mode = "create"
	ModeQuiz     Mode = "quiz"
	ModeProposal Mode = "proposal"
)

// QuestionSummary is a quiz question as shown to a viewer: no expected answer.
type QuestionSummary struct {
	Index   int    `json:"index"`
	Prompt  string `json:"prompt"`
	HasHint bool   `json:"has_hint"`
}

// Summaries strips the answers and hints from a quiz.
func Summaries(quiz []QuizQuestion) []QuestionSummary {
	out := make([]QuestionSummary, len(quiz))
	for i, q := range quiz {
		out[i] = QuestionSummary{Index: i, Prompt: q.Prompt, HasHint: q.HasHint()}
	}
	return out
}
