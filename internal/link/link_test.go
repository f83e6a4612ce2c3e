package link

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/SAP-F-2025/valentine-service/internal/payload"
	"github.com/SAP-F-2025/valentine-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuilder() *Builder {
	return NewBuilder("https://valentine.example", "/", nil)
}

func TestGenerate_Simple(t *testing.T) {
	l, err := newBuilder().Generate(Request{From: "Sam", To: "Ari"})
	require.NoError(t, err)

	assert.Equal(t, "https://valentine.example/?from=Sam&to=Ari", l.URL)
	assert.Contains(t, l.URL, "from=Sam&to=Ari")
	assert.Equal(t, models.ModeProposal, l.Mode)
	assert.Empty(t, l.Token)
}

func TestGenerate_Deterministic(t *testing.T) {
	req := Request{
		From: "Zoë",
		To:   "Ari & Co",
		Quiz: []models.QuizQuestion{{Prompt: "City?", ExpectedAnswer: "Paris", Hint: "Eiffel"}},
	}
	a, err := newBuilder().Generate(req)
	require.NoError(t, err)
	b, err := newBuilder().Generate(req)
	require.NoError(t, err)
	assert.Equal(t, a.URL, b.URL)
}

func TestGenerate_EncodesNames(t *testing.T) {
	l, err := NewBuilder("http://localhost:8080/", "/v/", nil).Generate(Request{From: "Jo Anne", To: "Zoë!"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/v/?from=Jo%20Anne&to=Zo%C3%AB!", l.URL)
}

func TestGenerate_ClipsNames(t *testing.T) {
	long := strings.Repeat("abcdefghij", 4)
	l, err := newBuilder().Generate(Request{From: "  " + long + "  ", To: "Ari"})
	require.NoError(t, err)
	assert.Len(t, l.Payload.FromName, 30)
	assert.Equal(t, long[:30], l.Payload.FromName)
}

func TestGenerate_Quiz(t *testing.T) {
	l, err := newBuilder().Generate(Request{
		From: "Sam",
		To:   "Ari",
		Quiz: []models.QuizQuestion{
			{Prompt: "City?", ExpectedAnswer: "Paris", Hint: "Eiffel"},
			{},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.ModeQuiz, l.Mode)
	assert.Equal(t, "https://valentine.example/?data="+l.Token, l.URL)

	p, err := payload.Decode(l.Token)
	require.NoError(t, err)
	assert.Equal(t, []models.QuizQuestion{{Prompt: "City?", ExpectedAnswer: "Paris", Hint: "Eiffel"}}, p.Quiz)
}

func TestGenerate_OnlyBlankQuizRowsMakesSimpleLink(t *testing.T) {
	l, err := newBuilder().Generate(Request{From: "Sam", To: "Ari", Quiz: []models.QuizQuestion{{Prompt: "  "}}})
	require.NoError(t, err)
	assert.Equal(t, models.ModeProposal, l.Mode)
}

func TestGenerate_Errors(t *testing.T) {
	five := make([]models.QuizQuestion, 6)
	for i := range five {
		five[i] = models.QuizQuestion{Prompt: "q", ExpectedAnswer: "a"}
	}

	tests := []struct {
		name   string
		req    Request
		want   error
		fields []string
	}{
		{"missing from", Request{To: "Ari"}, ErrMissingField, []string{"from"}},
		{"blank names", Request{From: "  ", To: "\t"}, ErrMissingField, []string{"from", "to"}},
		{"multiline name", Request{From: "Sam\nX", To: "Ari"}, ErrMissingField, []string{"from"}},
		{"question without answer", Request{From: "Sam", To: "Ari", Quiz: []models.QuizQuestion{
			{Prompt: "City?", ExpectedAnswer: "Paris"},
			{Prompt: "Colour?", Hint: "sky"},
		}}, ErrIncompleteQuizDefinition, []string{"quiz[1].a"}},
		{"answer without question", Request{From: "Sam", To: "Ari", Quiz: []models.QuizQuestion{
			{ExpectedAnswer: "Paris"},
		}}, ErrIncompleteQuizDefinition, []string{"quiz[0].q"}},
		{"too many questions", Request{From: "Sam", To: "Ari", Quiz: five}, ErrIncompleteQuizDefinition, []string{"quiz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := newBuilder().Generate(tt.req)
			assert.Nil(t, l)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var errs validator.ValidationErrors
			require.True(t, errors.As(err, &errs))
			assert.Equal(t, tt.fields, errs.Fields())
		})
	}
}

func TestResolve(t *testing.T) {
	token, err := payload.Encode(models.Payload{
		Proposal: models.Proposal{FromName: "Sam", ToName: "Ari"},
		Quiz:     []models.QuizQuestion{{Prompt: "City?", ExpectedAnswer: "Paris"}},
	})
	require.NoError(t, err)
	noQuiz, err := payload.Encode(models.Payload{Proposal: models.Proposal{FromName: "Sam"}})
	require.NoError(t, err)

	tests := []struct {
		name    string
		query   string
		mode    models.Mode
		from    string
		to      string
		invalid bool
	}{
		{"empty", "", models.ModeCreate, "", "", false},
		{"empty names", "from=&to=", models.ModeCreate, "", "", false},
		{"names", "from=Sam&to=Ari", models.ModeProposal, "Sam", "Ari", false},
		{"from only", "from=Sam", models.ModeProposal, "Sam", "you", false},
		{"to only", "?to=Ari", models.ModeProposal, "Someone", "Ari", false},
		{"whitespace name", "from=%20%20&to=Ari", models.ModeProposal, "Someone", "Ari", false},
		{"encoded", "from=Jo%20Anne&to=Zo%C3%AB", models.ModeProposal, "Jo Anne", "Zoë", false},
		{"quiz", "data=" + token, models.ModeQuiz, "Sam", "Ari", false},
		{"data wins", "from=X&to=Y&data=" + token, models.ModeQuiz, "Sam", "Ari", false},
		{"data without quiz", "data=" + noQuiz, models.ModeProposal, "Sam", "you", false},
		{"invalid data", "data=%%%", models.ModeCreate, "", "", false},
		{"garbage data", "from=Sam&data=bm90IGpzb24", models.ModeCreate, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ResolveQuery(tt.query)
			assert.Equal(t, tt.mode, r.Mode)
			assert.Equal(t, tt.from, r.Payload.FromName)
			assert.Equal(t, tt.to, r.Payload.ToName)
			assert.Equal(t, tt.invalid, r.Invalid)
		})
	}
}

func TestResolve_ClipsLongNames(t *testing.T) {
	q := url.Values{ParamFrom: {strings.Repeat("x", 40)}, ParamTo: {"Ari"}}
	r := Resolve(q)
	assert.Equal(t, strings.Repeat("x", 30), r.Payload.FromName)
}

func TestResolve_InvalidTokenCarriesError(t *testing.T) {
	r := Resolve(url.Values{ParamData: {"not*a*token"}})
	assert.Equal(t, models.ModeCreate, r.Mode)
	assert.True(t, r.Invalid)
	assert.ErrorIs(t, r.Err, payload.ErrInvalidPayload)
}

func TestResolveURL_RoundTrip(t *testing.T) {
	l, err := newBuilder().Generate(Request{From: "Sam", To: "Ari"})
	require.NoError(t, err)

	r := ResolveURL(l.URL)
	assert.Equal(t, models.ModeProposal, r.Mode)
	assert.Equal(t, models.Proposal{FromName: "Sam", ToName: "Ari"}, r.Payload.Proposal)
}

func TestEscapeComponent(t *testing.T) {
	assert.Equal(t, "Sam", EscapeComponent("Sam"))
	assert.Equal(t, "a%20b%26c%3Dd%2Be", EscapeComponent("a b&c=d+e"))
	assert.Equal(t, "-_.!~*'()", EscapeComponent("-_.!~*'()"))
	assert.Equal(t, "%F0%9F%92%96", EscapeComponent("💖"))
}
