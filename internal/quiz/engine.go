// Package quiz sequences a viewer through the questions a link carries.
package quiz

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"

	"github.com/SAP-F-2025/valentine-service/internal/models"
)

var (
	ErrNoQuestions    = errors.New("quiz has no questions")
	ErrNotAdvanceable = errors.New("quiz can only advance after a correct answer")
	ErrQuestionIndex  = errors.New("question index out of range")
)

type State int

const (
	AwaitingAnswer State = iota
	Correct
	Incorrect
	Finished
)

func (s State) String() string {
	switch s {
	case AwaitingAnswer:
		return "awaiting_answer"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

type Result int

const (
	// ResultIgnored means the submission changed nothing and deserves no feedback.
	ResultIgnored Result = iota
	ResultCorrect
	ResultIncorrect
)

func (r Result) String() string {
	switch r {
	case ResultCorrect:
		return "correct"
	case ResultIncorrect:
		return "incorrect"
	default:
		return "ignored"
	}
}

// Normalize folds case and collapses whitespace runs to single spaces, dropping
// leading and trailing space.
func Normalize(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// Check compares a raw answer against a question. Empty answers are ignored.
func Check(q models.QuizQuestion, raw string) Result {
	answer := Normalize(raw)
	if answer == "" {
		return ResultIgnored
	}
	if answer == Normalize(q.ExpectedAnswer) {
		return ResultCorrect
	}
	return ResultIncorrect
}

// Engine is the viewer-side quiz session. It is not safe for concurrent use.
type Engine struct {
	questions []models.QuizQuestion
	index     int
	state     State
	hintUsed  []bool
}

func NewEngine(questions []models.QuizQuestion) (*Engine, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	qs := make([]models.QuizQuestion, len(questions))
	copy(qs, questions)
	return &Engine{
		questions: qs,
		hintUsed:  make([]bool, len(qs)),
	}, nil
}

func (e *Engine) State() State { return e.state }
func (e *Engine) Index() int   { return e.index }
func (e *Engine) Total() int   { return len(e.questions) }

// Current returns the question being asked. After Finished it keeps returning the last one.
func (e *Engine) Current() models.QuizQuestion {
	return e.questions[e.index]
}

// IsLast reports whether the current question is the final one.
func (e *Engine) IsLast() bool {
	return e.index == len(e.questions)-1
}

// Submit judges an answer for the current question. While a correct answer is
// being shown, and once finished, every submission is ignored.
func (e *Engine) Submit(raw string) Result {
	if e.state != AwaitingAnswer && e.state != Incorrect {
		return ResultIgnored
	}

	res := Check(e.Current(), raw)
	switch res {
	case ResultCorrect:
		e.state = Correct
	case ResultIncorrect:
		e.state = Incorrect
	}
	return res
}

// Advance moves past a correctly answered question, either to the next one or
// to Finished. It fails unless the last submission was correct, so Finished is
// reached exactly once.
func (e *Engine) Advance() (State, error) {
	if e.state != Correct {
		return e.state, ErrNotAdvanceable
	}
	if e.IsLast() {
		e.state = Finished
		return e.state, nil
	}
	e.index++
	e.state = AwaitingAnswer
	return e.state, nil
}

// HintAvailable reports whether the hint control should be offered.
func (e *Engine) HintAvailable() bool {
	return e.state != Finished && e.Current().HasHint() && !e.hintUsed[e.index]
}

// Hint reveals the current question's hint. Each hint can be revealed once.
func (e *Engine) Hint() (string, bool) {
	if !e.HintAvailable() {
		return "", false
	}
	e.hintUsed[e.index] = true
	return e.Current().Hint, true
}

// Progress is a 1-based "n of total" pair for display.
func (e *Engine) Progress() (int, int) {
	return e.index + 1, len(e.questions)
}

// QuestionAt returns the question at index i.
func QuestionAt(questions []models.QuizQuestion, i int) (models.QuizQuestion, error) {
	if i < 0 || i >= len(questions) {
		return models.QuizQuestion{}, ErrQuestionIndex
	}
	return questions[i], nil
}
