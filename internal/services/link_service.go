package services

import (
	"context"
	"log/slog"
	"math"
	"net/url"
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/events"
	"github.com/SAP-F-2025/valentine-service/internal/link"
	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/SAP-F-2025/valentine-service/internal/ratelimit"
)

// LinkService generates shareable links and resolves opened ones
type LinkService interface {
	Generate(ctx context.Context, req *link.Request, clientKey string) (*link.Link, error)
	Resolve(ctx context.Context, query url.Values) (*ResolveResponse, error)
}

// ResolveResponse tells a front-end which screen to open. Expected answers
// and hints are not included.
type ResolveResponse struct {
	Mode      models.Mode              `json:"mode"`
	From      string                   `json:"from,omitempty"`
	To        string                   `json:"to,omitempty"`
	Questions []models.QuestionSummary `json:"questions"`
	Invalid   bool                     `json:"invalid,omitempty"`
}

type linkService struct {
	builder   *link.Builder
	limiter   ratelimit.Limiter
	publisher events.EventPublisher
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

func NewLinkService(builder *link.Builder, limiter ratelimit.Limiter, publisher events.EventPublisher, logger *slog.Logger) LinkService {
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}
	return &linkService{
		builder:   builder,
		limiter:   limiter,
		publisher: publisher,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, LogConfig{Service: "valentine", Component: "link"}),
	}
}

func (s *linkService) Generate(ctx context.Context, req *link.Request, clientKey string) (*link.Link, error) {
	op := s.opLogger.WithOperation(ctx, "generate_link")

	if err := s.checkRateLimit(ctx, op, clientKey); err != nil {
		op.LogResult("link", err)
		return nil, err
	}

	l, err := s.builder.Generate(*req)
	op.LogResult("link", err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewLinkGeneratedEvent(l.Mode, len(l.Payload.Quiz), len(l.URL)))
	return l, nil
}

// checkRateLimit fails open when the limiter itself errors.
func (s *linkService) checkRateLimit(ctx context.Context, op *ContextualLogger, clientKey string) error {
	d, err := s.limiter.Allow(ctx, clientKey)
	if err != nil {
		s.logger.Warn("Rate limiter unavailable, allowing request", "error", err)
		return nil
	}
	if d.Allowed {
		return nil
	}

	retry := int64(math.Ceil(time.Until(d.ResetAt).Seconds()))
	op.LogSecurity(SecurityEventRateLimitExceeded, "link generation rate limit exceeded", clientKey,
		map[string]interface{}{"limit": d.Limit})
	return &RateLimitError{Limit: d.Limit, RetryAfter: max(retry, 1)}
}

func (s *linkService) Resolve(ctx context.Context, query url.Values) (*ResolveResponse, error) {
	op := s.opLogger.WithOperation(ctx, "resolve_link")

	res := link.Resolve(query)
	if res.Invalid {
		op.LogSecurity(SecurityEventInvalidToken, "link payload failed to decode", "", nil)
		op.LogResult("link", res.Err)
		s.publish(ctx, events.NewLinkRejectedEvent(res.Err.Error()))
		return &ResolveResponse{
			Mode:      models.ModeCreate,
			Questions: []models.QuestionSummary{},
			Invalid:   true,
		}, nil
	}
	op.LogResult("link", nil)

	resp := &ResolveResponse{
		Mode:      res.Mode,
		Questions: models.Summaries(res.Payload.Quiz),
	}
	if res.Mode != models.ModeCreate {
		resp.From = res.Payload.FromName
		resp.To = res.Payload.ToName
		s.publish(ctx, events.NewLinkResolvedEvent(res.Mode, len(res.Payload.Quiz)))
	}
	return resp, nil
}

// publish never fails the request; events are best effort.
func (s *linkService) publish(ctx context.Context, event *events.LinkEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLinkEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish link event", "event_type", event.Type, "error", err)
	}
}
