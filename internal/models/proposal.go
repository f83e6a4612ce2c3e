package models

import (
	"strings"
	"unicode/utf8"
)

// Field limits, counted in runes after trimming.
const (
	MaxNameLength   = 30
	MaxPromptLength = 80
	MaxAnswerLength = 40
	MaxHintLength   = 60

	MaxQuizQuestions = 5
)

// Defaults used by the viewer when a link carries no name.
const (
	DefaultFromName = "Someone"
	DefaultToName   = "you"
)

type Proposal struct {
	FromName string `json:"from" validate:"required,max=30,single_line"`
	ToName   string `json:"to" validate:"required,max=30,single_line"`
}

type QuizQuestion struct {
	Prompt         string `json:"q" validate:"required,max=80,single_line"`
	ExpectedAnswer string `json:"a" validate:"required,max=40,single_line"`
	Hint           string `json:"h,omitempty" validate:"max=60,single_line"`
}

// HasHint reports whether the question offers a hint control.
func (q QuizQuestion) HasHint() bool {
	return q.Hint != ""
}

// Payload is everything a shareable link carries.
type Payload struct {
	Proposal
	Quiz []QuizQuestion `json:"quiz" validate:"max=5,dive"`
}

// HasQuiz reports whether the viewer must pass the quiz before the proposal.
func (p Payload) HasQuiz() bool {
	return len(p.Quiz) > 0
}

// Sanitized returns a copy clipped to the field limits. Questions beyond the
// cap and questions without a prompt or answer are dropped.
func (p Payload) Sanitized() Payload {
	out := Payload{
		Proposal: Proposal{
			FromName: SafeName(p.FromName),
			ToName:   SafeName(p.ToName),
		},
	}
	if p.Quiz == nil {
		return out
	}

	out.Quiz = make([]QuizQuestion, 0, min(len(p.Quiz), MaxQuizQuestions))
	for _, q := range p.Quiz {
		if len(out.Quiz) == MaxQuizQuestions {
			break
		}
		q = q.Clipped()
		if q.Prompt == "" || q.ExpectedAnswer == "" {
			continue
		}
		out.Quiz = append(out.Quiz, q)
	}
	return out
}

// Clipped trims every field and cuts it to its limit.
func (q QuizQuestion) Clipped() QuizQuestion {
	return QuizQuestion{
		Prompt:         Clip(q.Prompt, MaxPromptLength),
		ExpectedAnswer: Clip(q.ExpectedAnswer, MaxAnswerLength),
		Hint:           Clip(q.Hint, MaxHintLength),
	}
}

// SafeName trims a name and cuts it to MaxNameLength runes.
func SafeName(s string) string {
	return Clip(s, MaxNameLength)
}

// Clip trims surrounding whitespace and keeps at most limit runes.
func Clip(s string, limit int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
