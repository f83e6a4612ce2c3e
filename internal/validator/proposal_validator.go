package validator

import (
	"fmt"

	"github.com/SAP-F-2025/valentine-service/internal/models"
)

// ProposalValidator holds the rules a link request must satisfy beyond its struct tags.
type ProposalValidator struct{}

func NewProposalValidator() *ProposalValidator {
	return &ProposalValidator{}
}

// IsBlankQuestion reports whether a draft question row was left entirely empty.
// Blank rows are skipped rather than rejected.
func (v *ProposalValidator) IsBlankQuestion(q models.QuizQuestion) bool {
	return q.Prompt == "" && q.ExpectedAnswer == "" && q.Hint == ""
}

// ValidateNames reports a ValidationError for each missing name.
func (v *ProposalValidator) ValidateNames(p models.Proposal) ValidationErrors {
	var errs ValidationErrors
	if p.FromName == "" {
		errs = append(errs, ValidationError{Field: "from", Message: "is required", Rule: "required"})
	}
	if p.ToName == "" {
		errs = append(errs, ValidationError{Field: "to", Message: "is required", Rule: "required"})
	}
	return errs
}

// ValidateQuiz checks that every question has a prompt and an answer and that
// the quiz fits the question cap.
func (v *ProposalValidator) ValidateQuiz(quiz []models.QuizQuestion) ValidationErrors {
	var errs ValidationErrors
	if len(quiz) > models.MaxQuizQuestions {
		errs = append(errs, ValidationError{
			Field:   "quiz",
			Message: fmt.Sprintf("must have at most %d entries", models.MaxQuizQuestions),
			Rule:    "max",
			Value:   len(quiz),
		})
	}
	for i, q := range quiz {
		if q.Prompt == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("quiz[%d].q", i), Message: "is required", Rule: "required"})
		}
		if q.ExpectedAnswer == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("quiz[%d].a", i), Message: "is required", Rule: "required"})
		}
	}
	return errs
}
