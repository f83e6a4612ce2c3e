// Package view defines the collaborator the viewer core drives. The core never
// draws anything itself; it only emits instructions through View and reacts to
// the actions the view reports.
package view

import (
	"errors"
	"strconv"
	"time"
)

// ErrClipboardUnavailable is returned by CopyToClipboard when the platform has no clipboard.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

type Screen string

const (
	ScreenCreate      Screen = "create"
	ScreenQuiz        Screen = "quiz"
	ScreenProposal    Screen = "proposal"
	ScreenCelebration Screen = "celebration"
)

// Element identifies a control or text field.
type Element string

const (
	// create screen
	FromInput   Element = "fromInput"
	ToInput     Element = "toInput"
	LinkBox     Element = "linkBox"
	ShareLink   Element = "shareLink"
	CopyButton  Element = "copyBtn"
	CreateError Element = "createError"

	// quiz screen
	QuizProgress Element = "quizProgress"
	QuizPrompt   Element = "quizPrompt"
	QuizAnswer   Element = "quizAnswer"
	QuizFeedback Element = "quizFeedback"
	HintButton   Element = "hintBtn"
	HintText     Element = "hintText"

	// proposal screen
	Card      Element = "viewerScreen"
	Title     Element = "titleText"
	Subtitle  Element = "subText"
	ButtonRow Element = "buttonRow"
	YesButton Element = "yesBtn"
	NoButton  Element = "noBtn"
	TeaseText Element = "teaseText"

	// celebration
	YayText      Element = "yayText"
	CelebrateSub Element = "celebrateSub"
	LoveMessage  Element = "loveMessage"
	FallArea     Element = "fallArea"
)

// QuizDraftField returns the create-screen input for one field of question i.
// kind is one of "q", "a", "h".
func QuizDraftField(kind string, i int) Element {
	return Element("quiz_" + kind + "_" + strconv.Itoa(i))
}

// Flag is a transient visual state toggled on an element.
type Flag string

const (
	FlagInvalid Flag = "invalid"
	FlagDodging Flag = "dodging"
	FlagShaking Flag = "shaking"
	FlagCopied  Flag = "copied"
)

type ActionName string

const (
	ActionGenerate     ActionName = "generate"
	ActionCopy         ActionName = "copy"
	ActionSubmitAnswer ActionName = "submitAnswer"
	ActionRevealHint   ActionName = "revealHint"
	ActionPointerMove  ActionName = "pointerMove"
	ActionNoClick      ActionName = "noClick"
	ActionNoFocus      ActionName = "noFocus"
	ActionNoTap        ActionName = "noTap"
	ActionYes          ActionName = "yes"
)

// Action is a user interaction reported by the view. X and Y are set for
// pointer actions, in the same coordinate space as Bounds.
type Action struct {
	Name ActionName
	X, Y float64
}

type Handler func(Action)

type Point struct {
	X, Y float64
}

// Rect is an element's box. X and Y are relative to its container.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Particle is one falling decoration of the celebration.
type Particle struct {
	ID       int
	Glyph    string
	X        float64
	Size     float64
	Duration time.Duration
	Rotation float64
}

// Timer is a pending deferred callback.
type Timer interface {
	Stop() bool
}

// Scheduler defers work. Callbacks must run on the same logical thread as
// action handlers, never concurrently with them.
type Scheduler interface {
	ScheduleAfter(d time.Duration, fn func()) Timer
	Now() time.Time
}

type View interface {
	Scheduler

	ShowScreen(s Screen)
	SetText(e Element, text string)
	SetVisible(e Element, visible bool)
	SetFlag(e Element, f Flag, on bool)
	Value(e Element) string

	// Bounds of the element relative to its container; Bounds(Card) gives the container size.
	Bounds(e Element) Rect
	MoveTo(e Element, x, y float64)
	SetScale(e Element, scale float64)

	OnUserAction(name ActionName, h Handler)
	OffUserAction(name ActionName)

	CopyToClipboard(text string) error
	PromptManualCopy(text string)

	// HoverCapable reports whether the device has hover and a fine pointer.
	HoverCapable() bool

	SpawnParticle(p Particle)
	RemoveParticle(id int)
}
