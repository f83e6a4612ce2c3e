package viewer

import (
	"math/rand/v2"
	"net/url"
	"testing"
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/dodge"
	"github.com/SAP-F-2025/valentine-service/internal/link"
	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/SAP-F-2025/valentine-service/internal/utils"
	"github.com/SAP-F-2025/valentine-service/internal/view"
	"github.com/SAP-F-2025/valentine-service/internal/view/viewtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, hover bool) (*App, *viewtest.View) {
	t.Helper()
	v := viewtest.New()
	v.Hover = hover

	opts := DefaultOptions()
	opts.Builder = link.NewBuilder("https://valentine.example", "/", nil)
	opts.Rand = rand.New(rand.NewPCG(42, 42))
	opts.Logger = utils.NewDiscardLogger()
	return New(v, opts), v
}

func queryOf(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.RawQuery
}

func TestScenario_SimpleLink(t *testing.T) {
	creator, cv := newApp(t, true)
	require.Equal(t, models.ModeCreate, creator.Start(""))
	assert.Equal(t, view.ScreenCreate, cv.Screen)
	assert.False(t, cv.Visible[view.LinkBox])

	cv.Type(view.FromInput, "Sam")
	cv.Type(view.ToInput, "Ari")
	require.True(t, cv.Fire(view.Action{Name: view.ActionGenerate}))

	shared := cv.Texts[view.ShareLink]
	assert.Contains(t, shared, "from=Sam&to=Ari")
	assert.True(t, cv.Visible[view.LinkBox])

	viewer, vv := newApp(t, true)
	require.Equal(t, models.ModeProposal, viewer.Start(queryOf(t, shared)))
	assert.Equal(t, view.ScreenProposal, vv.Screen)
	assert.Equal(t, "Sam is asking: Will you be my Valentine?", vv.Texts[view.Subtitle])
	assert.Equal(t, "Hey Ari 👀", vv.Texts[view.Title])
}

func TestScenario_SingleQuestionQuiz(t *testing.T) {
	creator, cv := newApp(t, true)
	creator.Start("")
	cv.Type(view.FromInput, "Sam")
	cv.Type(view.ToInput, "Ari")
	cv.Type(view.QuizDraftField("q", 0), "City?")
	cv.Type(view.QuizDraftField("a", 0), "Paris")
	cv.Type(view.QuizDraftField("h", 0), "Eiffel")
	cv.Fire(view.Action{Name: view.ActionGenerate})

	shared := cv.Texts[view.ShareLink]
	require.Contains(t, shared, "?data=")

	viewer, vv := newApp(t, true)
	require.Equal(t, models.ModeQuiz, viewer.Start(queryOf(t, shared)))
	assert.Equal(t, view.ScreenQuiz, vv.Screen)
	assert.Equal(t, "City?", vv.Texts[view.QuizPrompt])
	assert.Equal(t, "Question 1 of 1", vv.Texts[view.QuizProgress])
	assert.True(t, vv.Visible[view.HintButton])

	vv.Type(view.QuizAnswer, "paris ")
	vv.Fire(view.Action{Name: view.ActionSubmitAnswer})
	assert.Equal(t, CorrectText, vv.Texts[view.QuizFeedback])
	assert.Equal(t, view.ScreenQuiz, vv.Screen, "feedback pause before advancing")

	vv.Fire(view.Action{Name: view.ActionSubmitAnswer})
	vv.Advance(1199 * time.Millisecond)
	assert.Equal(t, view.ScreenQuiz, vv.Screen)

	vv.Advance(time.Millisecond)
	assert.Equal(t, view.ScreenProposal, vv.Screen)
	assert.Equal(t, []view.Screen{view.ScreenQuiz, view.ScreenProposal}, vv.Screens, "finished exactly once")
	assert.Equal(t, "Sam is asking: Will you be my Valentine?", vv.Texts[view.Subtitle])
	assert.False(t, vv.Listening(view.ActionSubmitAnswer))
	assert.Equal(t, models.ModeProposal, viewer.Mode())
}

func TestCreate_MissingName(t *testing.T) {
	app, v := newApp(t, true)
	app.Start("")

	v.Type(view.ToInput, "Ari")
	v.Fire(view.Action{Name: view.ActionGenerate})

	assert.True(t, v.HasFlag(view.FromInput, view.FlagInvalid))
	assert.False(t, v.HasFlag(view.ToInput, view.FlagInvalid))
	assert.False(t, v.Visible[view.LinkBox])
	assert.Empty(t, v.Texts[view.ShareLink])

	v.Advance(500 * time.Millisecond)
	assert.False(t, v.HasFlag(view.FromInput, view.FlagInvalid))
}

func TestCreate_IncompleteQuiz(t *testing.T) {
	app, v := newApp(t, true)
	app.Start("")

	v.Type(view.FromInput, "Sam")
	v.Type(view.ToInput, "Ari")
	v.Type(view.QuizDraftField("q", 1), "Colour?")
	v.Fire(view.Action{Name: view.ActionGenerate})

	assert.True(t, v.Visible[view.CreateError])
	assert.Equal(t, IncompleteText, v.Texts[view.CreateError])
	assert.False(t, v.Visible[view.LinkBox])

	v.Type(view.QuizDraftField("a", 1), "Red")
	v.Fire(view.Action{Name: view.ActionGenerate})
	assert.False(t, v.Visible[view.CreateError])
	assert.True(t, v.Visible[view.LinkBox])
}

func TestCreate_Copy(t *testing.T) {
	app, v := newApp(t, true)
	app.Start("")

	v.Fire(view.Action{Name: view.ActionCopy})
	assert.Empty(t, v.Clipboard, "nothing to copy yet")

	v.Type(view.FromInput, "Sam")
	v.Type(view.ToInput, "Ari")
	v.Fire(view.Action{Name: view.ActionGenerate})
	v.Fire(view.Action{Name: view.ActionCopy})

	assert.Equal(t, "https://valentine.example/?from=Sam&to=Ari", v.Clipboard)
	assert.Equal(t, CopiedLabel, v.Texts[view.CopyButton])
	assert.True(t, v.HasFlag(view.CopyButton, view.FlagCopied))

	v.Advance(time.Second)
	v.Fire(view.Action{Name: view.ActionCopy})
	v.Advance(1500 * time.Millisecond)
	assert.Equal(t, CopiedLabel, v.Texts[view.CopyButton], "second copy restarts the countdown")

	v.Advance(500 * time.Millisecond)
	assert.Equal(t, CopyLabel, v.Texts[view.CopyButton])
	assert.False(t, v.HasFlag(view.CopyButton, view.FlagCopied))
}

func TestCreate_ClipboardUnavailable(t *testing.T) {
	app, v := newApp(t, true)
	app.Start("")
	v.ClipboardErr = view.ErrClipboardUnavailable

	v.Type(view.FromInput, "Sam")
	v.Type(view.ToInput, "Ari")
	v.Fire(view.Action{Name: view.ActionGenerate})
	v.Fire(view.Action{Name: view.ActionCopy})

	assert.Equal(t, []string{"https://valentine.example/?from=Sam&to=Ari"}, v.ManualCopies)
	assert.Equal(t, CopyLabel, v.Texts[view.CopyButton])
}

func TestStart_InvalidDataFallsBackToCreate(t *testing.T) {
	app, v := newApp(t, true)
	assert.Equal(t, models.ModeCreate, app.Start("data=bm90IGpzb24&from=Sam"))
	assert.Equal(t, view.ScreenCreate, v.Screen)
	assert.True(t, v.Listening(view.ActionGenerate))
}

func quizQuery(t *testing.T, qs ...models.QuizQuestion) string {
	t.Helper()
	l, err := link.NewBuilder("", "/", nil).Generate(link.Request{From: "Sam", To: "Ari", Quiz: qs})
	require.NoError(t, err)
	return queryOf(t, l.URL)
}

func TestQuiz_RetryHintAndProgress(t *testing.T) {
	app, v := newApp(t, true)
	app.Start(quizQuery(t,
		models.QuizQuestion{Prompt: "City?", ExpectedAnswer: "Paris", Hint: "Eiffel"},
		models.QuizQuestion{Prompt: "Drink?", ExpectedAnswer: "Coffee Shop"},
	))

	v.Type(view.QuizAnswer, "   ")
	v.Fire(view.Action{Name: view.ActionSubmitAnswer})
	assert.Empty(t, v.Texts[view.QuizFeedback], "empty answers are ignored")

	v.Type(view.QuizAnswer, "London")
	v.Fire(view.Action{Name: view.ActionSubmitAnswer})
	assert.Equal(t, IncorrectText, v.Texts[view.QuizFeedback])
	assert.True(t, v.HasFlag(view.QuizAnswer, view.FlagShaking))

	v.Fire(view.Action{Name: view.ActionRevealHint})
	assert.Equal(t, "💡 Eiffel", v.Texts[view.HintText])
	assert.True(t, v.Visible[view.HintText])
	assert.False(t, v.Visible[view.HintButton])

	v.Type(view.QuizAnswer, "PARIS")
	v.Fire(view.Action{Name: view.ActionSubmitAnswer})
	v.Advance(1200 * time.Millisecond)

	assert.Equal(t, view.ScreenQuiz, v.Screen)
	assert.Equal(t, "Question 2 of 2", v.Texts[view.QuizProgress])
	assert.Equal(t, "Drink?", v.Texts[view.QuizPrompt])
	assert.Empty(t, v.Texts[view.QuizFeedback])
	assert.Empty(t, v.Value(view.QuizAnswer))
	assert.False(t, v.Visible[view.HintButton])
	assert.False(t, v.Visible[view.HintText])

	v.Type(view.QuizAnswer, "coffee shop!")
	v.Fire(view.Action{Name: view.ActionSubmitAnswer})
	assert.Equal(t, IncorrectText, v.Texts[view.QuizFeedback])

	v.Type(view.QuizAnswer, "  Coffee   Shop ")
	v.Fire(view.Action{Name: view.ActionSubmitAnswer})
	v.Advance(1200 * time.Millisecond)
	assert.Equal(t, view.ScreenProposal, v.Screen)
}

func TestProposal_DesktopDodge(t *testing.T) {
	app, v := newApp(t, true)
	app.Start("from=Sam&to=Ari")

	require.True(t, v.Listening(view.ActionPointerMove))
	assert.False(t, v.Listening(view.ActionNoTap))

	far := view.Action{Name: view.ActionPointerMove, X: 0, Y: 0}
	v.Fire(far)
	_, moved := v.Positions[view.NoButton]
	assert.False(t, moved)

	c := v.Bounds(view.NoButton).Center()
	v.Fire(view.Action{Name: view.ActionPointerMove, X: c.X, Y: c.Y})
	first, moved := v.Positions[view.NoButton]
	require.True(t, moved)
	assert.True(t, v.HasFlag(view.NoButton, view.FlagDodging))
	assert.InDelta(t, 1.05, v.Scales[view.YesButton], 1e-9)

	c = v.Bounds(view.NoButton).Center()
	v.Fire(view.Action{Name: view.ActionPointerMove, X: c.X, Y: c.Y})
	assert.Equal(t, first, v.Positions[view.NoButton], "debounced")

	v.Advance(200 * time.Millisecond)
	assert.False(t, v.HasFlag(view.NoButton, view.FlagDodging))

	cfg := dodge.DefaultConfig()
	area := view.Rect{W: v.Bounds(view.Card).W, H: v.Bounds(view.ButtonRow).H}
	for range 300 {
		v.Fire(view.Action{Name: view.ActionNoClick})
		v.Fire(view.Action{Name: view.ActionNoFocus})
		pos := v.Positions[view.NoButton]
		require.True(t, dodge.InBounds(cfg, area, v.Bounds(view.NoButton), pos), "%+v", pos)
	}
	assert.Equal(t, 1.4, v.Scales[view.YesButton])
}

func TestProposal_TeaseExpires(t *testing.T) {
	app, v := newApp(t, false)
	app.Start("from=Sam&to=Ari")

	v.Fire(view.Action{Name: view.ActionNoTap})
	require.True(t, v.Visible[view.TeaseText])
	assert.Contains(t, dodge.TeaseMessages("Ari"), v.Texts[view.TeaseText])

	v.Advance(2 * time.Second)
	v.Fire(view.Action{Name: view.ActionNoTap})
	v.Advance(time.Second)
	assert.True(t, v.Visible[view.TeaseText], "newer tease keeps its full duration")

	v.Advance(1500 * time.Millisecond)
	assert.False(t, v.Visible[view.TeaseText])
}

func TestProposal_MobileTaps(t *testing.T) {
	app, v := newApp(t, false)
	app.Start("from=Sam&to=Ari")

	assert.False(t, v.Listening(view.ActionPointerMove))
	assert.Equal(t, "No", v.Texts[view.NoButton])

	v.Fire(view.Action{Name: view.ActionNoTap})
	assert.Equal(t, "Are you sure?", v.Texts[view.NoButton])
	assert.InDelta(t, 0.9, v.Scales[view.NoButton], 1e-9)
	assert.True(t, v.HasFlag(view.NoButton, view.FlagShaking))
	v.Advance(500 * time.Millisecond)
	assert.False(t, v.HasFlag(view.NoButton, view.FlagShaking))

	for range len(dodge.TapMessages) - 2 {
		v.Fire(view.Action{Name: view.ActionNoClick})
	}
	assert.False(t, v.Visible[view.NoButton])
	assert.Equal(t, "👀", v.Texts[view.NoButton])

	v.Fire(view.Action{Name: view.ActionNoTap})
	v.Advance(1499 * time.Millisecond)
	assert.False(t, v.Visible[view.NoButton])

	v.Advance(time.Millisecond)
	assert.True(t, v.Visible[view.NoButton])
	assert.Equal(t, "No", v.Texts[view.NoButton])
	assert.Equal(t, 1.0, v.Scales[view.NoButton])
}

func TestProposal_Accept(t *testing.T) {
	v := viewtest.New()
	v.Hover = true
	accepted := 0
	opts := DefaultOptions()
	opts.Rand = rand.New(rand.NewPCG(1, 2))
	opts.Logger = utils.NewDiscardLogger()
	opts.OnAccept = func(p models.Proposal) {
		accepted++
		assert.Equal(t, "Sam", p.FromName)
	}
	app := New(v, opts)
	app.Start("from=Sam&to=Ari")

	v.Fire(view.Action{Name: view.ActionYes})
	assert.True(t, app.Accepted())
	assert.Equal(t, view.ScreenCelebration, v.Screen)
	assert.False(t, v.Visible[view.ButtonRow])
	assert.False(t, v.Visible[view.TeaseText])
	assert.Equal(t, "YAAAY!! 💖", v.Texts[view.YayText])
	assert.Equal(t, "Ari said YES to Sam! 🥰", v.Texts[view.CelebrateSub])
	assert.Equal(t, "You just made someone very happy 💖", v.Texts[view.LoveMessage])

	assert.False(t, v.Listening(view.ActionPointerMove))
	assert.False(t, v.Fire(view.Action{Name: view.ActionYes}))
	assert.Equal(t, 1, accepted)

	v.Advance(time.Second)
	assert.NotEmpty(t, v.Particles)

	v.Advance(30 * time.Second)
	assert.Empty(t, v.Particles)
	assert.GreaterOrEqual(t, v.Spawned, 60)
	assert.Zero(t, v.Pending())
}
