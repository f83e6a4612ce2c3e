// Package link builds shareable proposal links and resolves an opened link
// into the screen the viewer should start on.
package link

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/SAP-F-2025/valentine-service/internal/payload"
	"github.com/SAP-F-2025/valentine-service/internal/validator"
)

var (
	ErrMissingField             = errors.New("missing field")
	ErrIncompleteQuizDefinition = errors.New("incomplete quiz definition")
)

// Query parameter names.
const (
	ParamFrom = "from"
	ParamTo   = "to"
	ParamData = "data"
)

// Request is what the creator typed. Quiz rows left completely empty are ignored.
type Request struct {
	From string                `json:"from"`
	To   string                `json:"to"`
	Quiz []models.QuizQuestion `json:"quiz"`
}

// Link is a generated shareable link.
type Link struct {
	URL     string         `json:"link"`
	Token   string         `json:"token,omitempty"`
	Mode    models.Mode    `json:"mode"`
	Payload models.Payload `json:"-"`
}

type Builder struct {
	origin    string
	path      string
	validator *validator.Validator
}

// NewBuilder returns a Builder producing links of the form origin+path+"?...".
func NewBuilder(origin, path string, v *validator.Validator) *Builder {
	if v == nil {
		v = validator.New()
	}
	if path == "" {
		path = "/"
	}
	return &Builder{
		origin:    strings.TrimRight(origin, "/"),
		path:      path,
		validator: v,
	}
}

// Generate validates a request and builds its link. Failures wrap
// ErrMissingField or ErrIncompleteQuizDefinition together with the
// validator.ValidationErrors describing the offending fields.
func (b *Builder) Generate(req Request) (*Link, error) {
	p, err := b.Prepare(req)
	if err != nil {
		return nil, err
	}

	if !p.HasQuiz() {
		return &Link{
			URL:     b.SimpleURL(p.Proposal),
			Mode:    models.ModeProposal,
			Payload: p,
		}, nil
	}

	token, err := payload.Encode(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return &Link{
		URL:     b.DataURL(token),
		Token:   token,
		Mode:    models.ModeQuiz,
		Payload: p,
	}, nil
}

// Prepare clips the request to the field limits, drops blank quiz rows and
// validates what remains.
func (b *Builder) Prepare(req Request) (models.Payload, error) {
	pv := b.validator.Proposal()

	p := models.Payload{
		Proposal: models.Proposal{
			FromName: models.SafeName(req.From),
			ToName:   models.SafeName(req.To),
		},
	}
	for _, q := range req.Quiz {
		q = q.Clipped()
		if pv.IsBlankQuestion(q) {
			continue
		}
		p.Quiz = append(p.Quiz, q)
	}

	if errs := pv.ValidateNames(p.Proposal); len(errs) > 0 {
		return p, fmt.Errorf("%w: %w", ErrMissingField, errs)
	}
	if errs := pv.ValidateQuiz(p.Quiz); len(errs) > 0 {
		return p, fmt.Errorf("%w: %w", ErrIncompleteQuizDefinition, errs)
	}

	if err := b.validator.Validate(p); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && !onlyQuizFields(errs) {
			return p, fmt.Errorf("%w: %w", ErrMissingField, err)
		}
		return p, fmt.Errorf("%w: %w", ErrIncompleteQuizDefinition, err)
	}
	return p, nil
}

func onlyQuizFields(errs validator.ValidationErrors) bool {
	for _, e := range errs {
		if !strings.HasPrefix(e.Field, "quiz") {
			return false
		}
	}
	return true
}

// SimpleURL builds the name-only link.
func (b *Builder) SimpleURL(p models.Proposal) string {
	return b.base() + "?" + ParamFrom + "=" + EscapeComponent(p.FromName) +
		"&" + ParamTo + "=" + EscapeComponent(p.ToName)
}

// DataURL builds the link carrying an encoded payload.
func (b *Builder) DataURL(token string) string {
	return b.base() + "?" + ParamData + "=" + token
}

func (b *Builder) base() string {
	return b.origin + b.path
}

// Resolution is the outcome of opening a link.
type Resolution struct {
	Mode    models.Mode
	Payload models.Payload
	// Invalid is set when the link carried a data token that failed to decode.
	Invalid bool
	Err     error
}

// Resolve decides the start screen from a link's query. A data token takes
// precedence over plain names. Names are clipped and defaulted.
func Resolve(q url.Values) Resolution {
	if data := q.Get(ParamData); data != "" {
		p, err := payload.Decode(data)
		if err != nil {
			return Resolution{Mode: models.ModeCreate, Invalid: true, Err: err}
		}
		p = withDefaults(p.Sanitized())
		if p.HasQuiz() {
			return Resolution{Mode: models.ModeQuiz, Payload: p}
		}
		return Resolution{Mode: models.ModeProposal, Payload: p}
	}

	from, to := q.Get(ParamFrom), q.Get(ParamTo)
	if from == "" && to == "" {
		return Resolution{Mode: models.ModeCreate}
	}
	return Resolution{
		Mode: models.ModeProposal,
		Payload: withDefaults(models.Payload{
			Proposal: models.Proposal{
				FromName: models.SafeName(from),
				ToName:   models.SafeName(to),
			},
		}),
	}
}

// ResolveQuery parses a raw query string (with or without the leading "?").
func ResolveQuery(raw string) Resolution {
	q, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil && len(q) == 0 {
		return Resolution{Mode: models.ModeCreate, Err: err}
	}
	return Resolve(q)
}

// ResolveURL resolves a full link.
func ResolveURL(raw string) Resolution {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Resolution{Mode: models.ModeCreate, Err: err}
	}
	return ResolveQuery(u.RawQuery)
}

func withDefaults(p models.Payload) models.Payload {
	if p.FromName == "" {
		p.FromName = models.DefaultFromName
	}
	if p.ToName == "" {
		p.ToName = models.DefaultToName
	}
	return p
}
