// Package terminal renders the viewer in a terminal with tcell. Layout is in
// character cells, so pointer coordinates and Bounds are cells too.
package terminal

import (
	"sync/atomic"
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/dodge"
	"github.com/SAP-F-2025/valentine-service/internal/view"
	"github.com/gdamore/tcell/v2"
)

// Controls that only exist in the terminal rendering.
const (
	generateButton view.Element = "generateBtn"
	submitButton   view.Element = "submitBtn"
)

const maxInputRunes = 80

type Options struct {
	// Touch makes the view report a device without hover, so the refusal
	// control reacts to taps instead of dodging the pointer.
	Touch bool
	// NoClipboard makes CopyToClipboard fail, for terminals without OSC 52.
	NoClipboard bool
}

// DodgeConfig scales the dodge distances from pixels to cells.
func DodgeConfig() dodge.Config {
	cfg := dodge.DefaultConfig()
	cfg.Threshold = 6
	cfg.Padding = 1
	return cfg
}

type particle struct {
	view.Particle
	born time.Time
}

// View implements view.View on a tcell screen. All methods except
// ScheduleAfter's timer goroutines run on the event loop started by Run.
type View struct {
	screen tcell.Screen
	opts   Options

	current  view.Screen
	texts    map[view.Element]string
	hidden   map[view.Element]bool
	flags    map[view.Element]map[view.Flag]bool
	moved    map[view.Element]view.Point
	scales   map[view.Element]float64
	handlers map[view.ActionName]view.Handler

	particles map[int]particle
	manual    string

	focus   int
	buttons tcell.ButtonMask
	hits    map[view.Element]rect
	layout  layout

	calls chan func()
	done  chan struct{}
}

var _ view.View = (*View)(nil)

// New wraps an initialised screen.
func New(screen tcell.Screen, opts Options) *View {
	v := &View{
		screen:    screen,
		opts:      opts,
		texts:     make(map[view.Element]string),
		hidden:    make(map[view.Element]bool),
		flags:     make(map[view.Element]map[view.Flag]bool),
		moved:     make(map[view.Element]view.Point),
		scales:    make(map[view.Element]float64),
		handlers:  make(map[view.ActionName]view.Handler),
		particles: make(map[int]particle),
		hits:      make(map[view.Element]rect),
		calls:     make(chan func(), 64),
		done:      make(chan struct{}),
	}
	v.texts[view.YesButton] = "Yes 💖"
	v.texts[view.NoButton] = "No"
	v.texts[generateButton] = "Generate link 💌"
	v.texts[submitButton] = "Submit"
	v.texts[view.HintButton] = "Hint 💡"
	v.relayout()
	return v
}

// ===== SCHEDULER =====

type timer struct {
	t       *time.Timer
	stopped atomic.Bool
}

func (t *timer) Stop() bool {
	wasPending := !t.stopped.Swap(true)
	t.t.Stop()
	return wasPending
}

// ScheduleAfter runs fn on the event loop after d. A timer stopped after it
// fired but before the loop ran fn still suppresses fn.
func (v *View) ScheduleAfter(d time.Duration, fn func()) view.Timer {
	tm := &timer{}
	tm.t = time.AfterFunc(d, func() {
		call := func() {
			if tm.stopped.Swap(true) {
				return
			}
			fn()
		}
		select {
		case v.calls <- call:
		case <-v.done:
		}
	})
	return tm
}

func (v *View) Now() time.Time {
	return time.Now()
}

// ===== VIEW STATE =====

func (v *View) ShowScreen(s view.Screen) {
	v.current = s
	v.focus = 0
	v.relayout()
}

func (v *View) SetText(e view.Element, text string) {
	v.texts[e] = text
}

func (v *View) SetVisible(e view.Element, visible bool) {
	v.hidden[e] = !visible
}

func (v *View) visible(e view.Element) bool {
	return !v.hidden[e]
}

func (v *View) SetFlag(e view.Element, f view.Flag, on bool) {
	if v.flags[e] == nil {
		v.flags[e] = make(map[view.Flag]bool)
	}
	v.flags[e][f] = on
}

func (v *View) hasFlag(e view.Element, f view.Flag) bool {
	return v.flags[e][f]
}

func (v *View) Value(e view.Element) string {
	return v.texts[e]
}

func (v *View) Bounds(e view.Element) view.Rect {
	switch e {
	case view.Card:
		return view.Rect{W: float64(v.layout.card.w), H: float64(v.layout.card.h)}
	case view.ButtonRow:
		return view.Rect{Y: float64(v.layout.row.y - v.layout.card.y), W: float64(v.layout.row.w), H: float64(v.layout.row.h)}
	case view.FallArea:
		w, h := v.screen.Size()
		return view.Rect{W: float64(w), H: float64(h)}
	case view.NoButton, view.YesButton:
		r := v.buttonRect(e)
		return view.Rect{
			X: float64(r.x - v.layout.row.x),
			Y: float64(r.y - v.layout.row.y),
			W: float64(r.w),
			H: float64(r.h),
		}
	}
	if r, ok := v.hits[e]; ok {
		return view.Rect{X: float64(r.x - v.layout.card.x), Y: float64(r.y - v.layout.card.y), W: float64(r.w), H: float64(r.h)}
	}
	return view.Rect{}
}

func (v *View) MoveTo(e view.Element, x, y float64) {
	v.moved[e] = view.Point{X: x, Y: y}
}

func (v *View) SetScale(e view.Element, scale float64) {
	v.scales[e] = scale
}

func (v *View) scale(e view.Element) float64 {
	if s, ok := v.scales[e]; ok {
		return s
	}
	return 1
}

func (v *View) OnUserAction(name view.ActionName, h view.Handler) {
	v.handlers[name] = h
}

func (v *View) OffUserAction(name view.ActionName) {
	delete(v.handlers, name)
}

func (v *View) fire(name view.ActionName, x, y float64) bool {
	h, ok := v.handlers[name]
	if !ok {
		return false
	}
	h(view.Action{Name: name, X: x, Y: y})
	return true
}

// CopyToClipboard asks the terminal to set the system clipboard (OSC 52).
// Terminals give no acknowledgement, so only NoClipboard produces an error.
func (v *View) CopyToClipboard(text string) error {
	if v.opts.NoClipboard {
		return view.ErrClipboardUnavailable
	}
	v.screen.SetClipboard([]byte(text))
	return nil
}

// PromptManualCopy prints the full text below the card so it can be
// selected with the terminal's own selection.
func (v *View) PromptManualCopy(text string) {
	v.manual = text
}

// ManualCopy returns the last text offered for manual copying.
func (v *View) ManualCopy() string {
	return v.manual
}

func (v *View) HoverCapable() bool {
	return !v.opts.Touch
}

func (v *View) SpawnParticle(p view.Particle) {
	v.particles[p.ID] = particle{Particle: p, born: time.Now()}
}

func (v *View) RemoveParticle(id int) {
	delete(v.particles, id)
}
