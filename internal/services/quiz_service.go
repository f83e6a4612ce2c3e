package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/valentine-service/internal/events"
	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/SAP-F-2025/valentine-service/internal/payload"
	"github.com/SAP-F-2025/valentine-service/internal/quiz"
	"github.com/SAP-F-2025/valentine-service/internal/validator"
)

// QuizService checks quiz answers without keeping any session: every request
// carries the link token.
type QuizService interface {
	Answer(ctx context.Context, req *AnswerRequest) (*AnswerResponse, error)
	Hint(ctx context.Context, req *HintRequest) (*HintResponse, error)
}

type AnswerRequest struct {
	Data   string `json:"data" validate:"required"`
	Index  int    `json:"index" validate:"min=0"`
	Answer string `json:"answer"`
}

type AnswerResponse struct {
	Result    string `json:"result"`
	Finished  bool   `json:"finished"`
	NextIndex int    `json:"next_index"`
}

type HintRequest struct {
	Data  string `json:"data" validate:"required"`
	Index int    `json:"index" validate:"min=0"`
}

type HintResponse struct {
	Hint string `json:"hint"`
}

type quizService struct {
	publisher events.EventPublisher
	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator
}

func NewQuizService(publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) QuizService {
	return &quizService{
		publisher: publisher,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, LogConfig{Service: "valentine", Component: "quiz"}),
		validator: validator,
	}
}

func (s *quizService) Answer(ctx context.Context, req *AnswerRequest) (*AnswerResponse, error) {
	op := s.opLogger.WithOperation(ctx, "answer_question")

	q, last, err := s.question(req.Data, req.Index, req)
	if err != nil {
		op.LogResult("quiz", err)
		return nil, err
	}

	res := quiz.Check(q, req.Answer)
	resp := &AnswerResponse{Result: res.String(), NextIndex: req.Index}
	if res == quiz.ResultCorrect {
		if req.Index == last {
			resp.Finished = true
		} else {
			resp.NextIndex = req.Index + 1
		}
	}
	op.LogResult("quiz", nil)

	if res != quiz.ResultIgnored && s.publisher != nil {
		event := events.NewQuizAnsweredEvent(req.Index, resp.Result, resp.Finished)
		if err := s.publisher.PublishLinkEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish quiz event", "error", err)
		}
	}
	return resp, nil
}

func (s *quizService) Hint(ctx context.Context, req *HintRequest) (*HintResponse, error) {
	op := s.opLogger.WithOperation(ctx, "reveal_hint")

	q, _, err := s.question(req.Data, req.Index, req)
	if err == nil && !q.HasHint() {
		err = fmt.Errorf("question %d: %w", req.Index, ErrNoHint)
	}
	op.LogResult("quiz", err)
	if err != nil {
		return nil, err
	}
	return &HintResponse{Hint: q.Hint}, nil
}

// question validates the request and returns the indexed question of the
// token's quiz together with the index of the last question.
func (s *quizService) question(data string, index int, req interface{}) (models.QuizQuestion, int, error) {
	if err := s.validator.Validate(req); err != nil {
		return models.QuizQuestion{}, 0, err
	}

	p, err := payload.Decode(data)
	if err != nil {
		return models.QuizQuestion{}, 0, err
	}
	p = p.Sanitized()
	if !p.HasQuiz() {
		return models.QuizQuestion{}, 0, ErrNoQuiz
	}

	q, err := quiz.QuestionAt(p.Quiz, index)
	if err != nil {
		return models.QuizQuestion{}, 0, fmt.Errorf("question %d of %d: %w", index, len(p.Quiz), ErrQuestionOutOfRange)
	}
	return q, len(p.Quiz) - 1, nil
}
