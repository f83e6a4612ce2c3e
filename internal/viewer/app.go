// Package viewer drives the create, quiz and proposal screens through a
// view.View. One App owns all state of one opened link.
package viewer

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/celebration"
	"github.com/SAP-F-2025/valentine-service/internal/dodge"
	"github.com/SAP-F-2025/valentine-service/internal/link"
	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/SAP-F-2025/valentine-service/internal/payload"
	"github.com/SAP-F-2025/valentine-service/internal/quiz"
	"github.com/SAP-F-2025/valentine-service/internal/utils"
	"github.com/SAP-F-2025/valentine-service/internal/view"
)

// Fixed labels and messages shown by the viewer.
const (
	CopyLabel      = "Copy Link 📋"
	CopiedLabel    = "Copied! ✅"
	CorrectText    = "Correct! 💖"
	IncorrectText  = "Not quite, try again! 🤔"
	HintPrefix     = "💡 "
	IncompleteText = "Please fill in both the question and the answer for every quiz question."
)

type Options struct {
	Builder     *link.Builder
	Dodge       dodge.Config
	Celebration celebration.Config
	Rand        *rand.Rand
	Logger      utils.Logger

	FeedbackPause time.Duration
	InvalidFlag   time.Duration
	CopiedFor     time.Duration

	// OnAccept runs once when the proposal is accepted.
	OnAccept func(models.Proposal)
}

func DefaultOptions() Options {
	return Options{
		Dodge:         dodge.DefaultConfig(),
		Celebration:   celebration.DefaultConfig(),
		FeedbackPause: 1200 * time.Millisecond,
		InvalidFlag:   500 * time.Millisecond,
		CopiedFor:     2 * time.Second,
	}
}

type App struct {
	view view.View
	opts Options
	log  utils.Logger

	mode    models.Mode
	payload models.Payload

	// create
	link       string
	copyTimer  view.Timer
	flagTimers map[view.Element]view.Timer

	// quiz
	engine *quiz.Engine

	// proposal
	desktop    *dodge.Desktop
	mobile     *dodge.Mobile
	teaseTimer view.Timer
	spawner    *celebration.Spawner
	accepted   bool
}

func New(v view.View, opts Options) *App {
	if opts.Builder == nil {
		opts.Builder = link.NewBuilder("", "/", nil)
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewDefaultLogger()
	}
	return &App{
		view:       v,
		opts:       opts,
		log:        opts.Logger.With("component", "viewer"),
		flagTimers: make(map[view.Element]view.Timer),
	}
}

// Start resolves the link query and opens the matching screen.
func (a *App) Start(rawQuery string) models.Mode {
	res := link.ResolveQuery(rawQuery)
	if res.Invalid {
		a.log.Warn("Invalid link payload, falling back to create mode", "error", res.Err)
	}

	a.mode = res.Mode
	a.payload = res.Payload
	a.log.Info("Viewer mode resolved", "mode", a.mode, "from", a.payload.FromName, "to", a.payload.ToName, "questions", len(a.payload.Quiz))

	switch a.mode {
	case models.ModeQuiz:
		a.enterQuiz()
	case models.ModeProposal:
		a.enterProposal()
	default:
		a.enterCreate()
	}
	return a.mode
}

func (a *App) Mode() models.Mode {
	return a.mode
}

func (a *App) Payload() models.Payload {
	return a.payload
}

// Link is the last link generated on the create screen.
func (a *App) Link() string {
	return a.link
}

// ===== CREATE =====

func (a *App) enterCreate() {
	a.view.ShowScreen(view.ScreenCreate)
	a.view.SetVisible(view.LinkBox, false)
	a.view.SetVisible(view.CreateError, false)
	a.view.SetText(view.CopyButton, CopyLabel)

	a.view.OnUserAction(view.ActionGenerate, func(view.Action) { a.generate() })
	a.view.OnUserAction(view.ActionCopy, func(view.Action) { a.copyLink() })
}

func (a *App) generate() {
	req := link.Request{
		From: a.view.Value(view.FromInput),
		To:   a.view.Value(view.ToInput),
	}
	for i := range models.MaxQuizQuestions {
		req.Quiz = append(req.Quiz, models.QuizQuestion{
			Prompt:         a.view.Value(view.QuizDraftField("q", i)),
			ExpectedAnswer: a.view.Value(view.QuizDraftField("a", i)),
			Hint:           a.view.Value(view.QuizDraftField("h", i)),
		})
	}

	l, err := a.opts.Builder.Generate(req)
	if err != nil {
		a.showCreateError(err)
		return
	}

	a.link = l.URL
	a.view.SetVisible(view.CreateError, false)
	a.view.SetText(view.ShareLink, l.URL)
	a.view.SetVisible(view.LinkBox, true)

	if len(l.URL) > payload.RecommendedMaxURLLength {
		a.log.Warn("Generated link is longer than most browsers accept", "length", len(l.URL))
	}
	a.log.Info("Link generated", "mode", l.Mode, "length", len(l.URL))
}

func (a *App) showCreateError(err error) {
	switch {
	case errors.Is(err, link.ErrMissingField):
		a.view.SetVisible(view.CreateError, false)
		if models.SafeName(a.view.Value(view.FromInput)) == "" {
			a.flash(view.FromInput, view.FlagInvalid, a.opts.InvalidFlag)
		}
		if models.SafeName(a.view.Value(view.ToInput)) == "" {
			a.flash(view.ToInput, view.FlagInvalid, a.opts.InvalidFlag)
		}
	case errors.Is(err, link.ErrIncompleteQuizDefinition):
		a.view.SetText(view.CreateError, IncompleteText)
		a.view.SetVisible(view.CreateError, true)
	default:
		a.log.LogError(err, "Link generation failed")
	}
}

func (a *App) copyLink() {
	if a.link == "" {
		return
	}
	if err := a.view.CopyToClipboard(a.link); err != nil {
		a.log.Info("Clipboard unavailable, prompting manual copy", "error", err)
		a.view.PromptManualCopy(a.link)
		return
	}

	a.view.SetText(view.CopyButton, CopiedLabel)
	a.view.SetFlag(view.CopyButton, view.FlagCopied, true)
	if a.copyTimer != nil {
		a.copyTimer.Stop()
	}
	a.copyTimer = a.view.ScheduleAfter(a.opts.CopiedFor, func() {
		a.view.SetText(view.CopyButton, CopyLabel)
		a.view.SetFlag(view.CopyButton, view.FlagCopied, false)
	})
}

// flash sets a flag on an element and clears it after d. Flashing again
// restarts the countdown.
func (a *App) flash(e view.Element, f view.Flag, d time.Duration) {
	a.view.SetFlag(e, f, true)
	key := e + "/" + view.Element(f)
	if t := a.flagTimers[key]; t != nil {
		t.Stop()
	}
	a.flagTimers[key] = a.view.ScheduleAfter(d, func() {
		a.view.SetFlag(e, f, false)
		delete(a.flagTimers, key)
	})
}

// ===== QUIZ =====

func (a *App) enterQuiz() {
	engine, err := quiz.NewEngine(a.payload.Quiz)
	if err != nil {
		a.log.LogError(err, "Quiz could not start, skipping to proposal")
		a.enterProposal()
		return
	}
	a.engine = engine

	a.view.ShowScreen(view.ScreenQuiz)
	a.renderQuestion()

	a.view.OnUserAction(view.ActionSubmitAnswer, func(view.Action) { a.submitAnswer() })
	a.view.OnUserAction(view.ActionRevealHint, func(view.Action) { a.revealHint() })
}

func (a *App) renderQuestion() {
	n, total := a.engine.Progress()
	a.view.SetText(view.QuizProgress, fmt.Sprintf("Question %d of %d", n, total))
	a.view.SetText(view.QuizPrompt, a.engine.Current().Prompt)
	a.view.SetText(view.QuizAnswer, "")
	a.view.SetText(view.QuizFeedback, "")
	a.view.SetText(view.HintText, "")
	a.view.SetVisible(view.HintText, false)
	a.view.SetVisible(view.HintButton, a.engine.HintAvailable())
}

func (a *App) submitAnswer() {
	switch a.engine.Submit(a.view.Value(view.QuizAnswer)) {
	case quiz.ResultIgnored:
		return
	case quiz.ResultIncorrect:
		a.view.SetText(view.QuizFeedback, IncorrectText)
		a.flash(view.QuizAnswer, view.FlagShaking, a.opts.Dodge.ShakeFlag)
	case quiz.ResultCorrect:
		a.view.SetText(view.QuizFeedback, CorrectText)
		a.view.SetVisible(view.HintButton, false)
		a.view.ScheduleAfter(a.opts.FeedbackPause, a.advanceQuiz)
	}
}

func (a *App) advanceQuiz() {
	state, err := a.engine.Advance()
	if err != nil {
		a.log.Warn("Quiz advance rejected", "state", state, "error", err)
		return
	}
	if state == quiz.Finished {
		a.log.Info("Quiz finished", "questions", a.engine.Total())
		a.view.OffUserAction(view.ActionSubmitAnswer)
		a.view.OffUserAction(view.ActionRevealHint)
		a.enterProposal()
		return
	}
	a.renderQuestion()
}

func (a *App) revealHint() {
	hint, ok := a.engine.Hint()
	if !ok {
		return
	}
	a.view.SetText(view.HintText, HintPrefix+hint)
	a.view.SetVisible(view.HintText, true)
	a.view.SetVisible(view.HintButton, false)
}

// ===== PROPOSAL =====

func (a *App) enterProposal() {
	a.mode = models.ModeProposal
	p := a.payload.Proposal

	a.view.ShowScreen(view.ScreenProposal)
	a.view.SetText(view.Title, "Hey "+p.ToName+" 👀")
	a.view.SetText(view.Subtitle, p.FromName+" is asking: Will you be my Valentine?")
	a.view.SetText(view.NoButton, dodge.TapMessages[0])
	a.view.SetVisible(view.ButtonRow, true)
	a.view.SetVisible(view.NoButton, true)
	a.view.SetVisible(view.TeaseText, false)

	hover := a.view.HoverCapable()
	if hover {
		a.desktop = dodge.NewDesktop(a.opts.Dodge, p.ToName, a.opts.Rand)
		a.view.OnUserAction(view.ActionPointerMove, a.pointerMoved)
		a.view.OnUserAction(view.ActionNoClick, func(view.Action) { a.dodge() })
		a.view.OnUserAction(view.ActionNoFocus, func(view.Action) { a.dodge() })
	} else {
		a.mobile = dodge.NewMobile(a.opts.Dodge, p.ToName, a.opts.Rand)
		a.view.OnUserAction(view.ActionNoTap, func(view.Action) { a.tap() })
		a.view.OnUserAction(view.ActionNoClick, func(view.Action) { a.tap() })
	}
	a.view.OnUserAction(view.ActionYes, func(view.Action) { a.accept() })

	a.log.Info("Proposal shown", "from", p.FromName, "to", p.ToName, "hover", hover)
}

func (a *App) pointerMoved(act view.Action) {
	if a.accepted {
		return
	}
	no := a.view.Bounds(view.NoButton)
	if a.desktop.ShouldDodge(a.view.Now(), view.Point{X: act.X, Y: act.Y}, no) {
		a.dodge()
	}
}

// dodgeArea is the card's width by the button row's height.
func (a *App) dodgeArea() view.Rect {
	return view.Rect{
		W: a.view.Bounds(view.Card).W,
		H: a.view.Bounds(view.ButtonRow).H,
	}
}

func (a *App) dodge() {
	if a.accepted {
		return
	}
	out := a.desktop.Dodge(a.dodgeArea(), a.view.Bounds(view.NoButton))
	a.view.MoveTo(view.NoButton, out.Position.X, out.Position.Y)
	a.flash(view.NoButton, view.FlagDodging, a.opts.Dodge.DodgeFlag)
	a.view.SetScale(view.YesButton, out.YesScale)
	if out.Tease != "" {
		a.showTease(out.Tease)
	}
}

func (a *App) tap() {
	if a.accepted {
		return
	}
	out, ok := a.mobile.Tap()
	if !ok {
		return
	}

	a.flash(view.NoButton, view.FlagShaking, a.opts.Dodge.ShakeFlag)
	if out.Label != "" {
		a.view.SetText(view.NoButton, out.Label)
	}
	a.view.SetScale(view.NoButton, out.Scale)
	if out.Hide {
		a.view.SetVisible(view.NoButton, false)
		a.view.ScheduleAfter(a.opts.Dodge.HideDuration, func() {
			a.view.SetText(view.NoButton, a.mobile.Reset())
			a.view.SetScale(view.NoButton, 1)
			a.view.SetVisible(view.NoButton, !a.accepted)
		})
	}
	a.view.SetScale(view.YesButton, out.YesScale)
	a.showTease(out.Tease)
}

func (a *App) showTease(msg string) {
	a.view.SetText(view.TeaseText, msg)
	a.view.SetVisible(view.TeaseText, true)
	if a.teaseTimer != nil {
		a.teaseTimer.Stop()
	}
	a.teaseTimer = a.view.ScheduleAfter(a.opts.Dodge.TeaseDuration, func() {
		a.view.SetVisible(view.TeaseText, false)
	})
}

func (a *App) accept() {
	if a.accepted {
		return
	}
	a.accepted = true

	a.view.OffUserAction(view.ActionPointerMove)
	a.view.OffUserAction(view.ActionNoClick)
	a.view.OffUserAction(view.ActionNoFocus)
	a.view.OffUserAction(view.ActionNoTap)
	a.view.OffUserAction(view.ActionYes)
	if a.teaseTimer != nil {
		a.teaseTimer.Stop()
	}

	a.view.SetVisible(view.ButtonRow, false)
	a.view.SetVisible(view.TeaseText, false)

	texts := celebration.TextsFor(a.payload.Proposal)
	a.view.SetText(view.YayText, texts.Yay)
	a.view.SetText(view.CelebrateSub, texts.Sub)
	a.view.SetText(view.LoveMessage, texts.Love)
	a.view.ShowScreen(view.ScreenCelebration)

	a.spawner = celebration.NewSpawner(a.opts.Celebration, a.view, a.opts.Rand)
	a.spawner.Start()

	a.log.Info("Proposal accepted", "from", a.payload.FromName, "to", a.payload.ToName)
	if a.opts.OnAccept != nil {
		a.opts.OnAccept(a.payload.Proposal)
	}
}

// Accepted reports whether the proposal has been accepted.
func (a *App) Accepted() bool {
	return a.accepted
}
