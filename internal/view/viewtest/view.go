// Package viewtest provides an in-memory view.View with a virtual clock.
package viewtest

import (
	"sort"
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/view"
)

type timer struct {
	id      int
	due     time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *timer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// View records every instruction it receives. Deferred callbacks only run
// when the test calls Advance.
type View struct {
	Screen    view.Screen
	Screens   []view.Screen
	Texts     map[view.Element]string
	Values    map[view.Element]string
	Visible   map[view.Element]bool
	Flags     map[view.Element]map[view.Flag]bool
	Positions map[view.Element]view.Point
	Scales    map[view.Element]float64
	// Sizes holds element boxes; MoveTo overrides the position.
	Sizes     map[view.Element]view.Rect
	Particles map[int]view.Particle
	Spawned   int

	Clipboard    string
	ClipboardErr error
	ManualCopies []string
	Hover        bool

	handlers map[view.ActionName]view.Handler
	now      time.Time
	timers   []*timer
	seq      int
}

func New() *View {
	return &View{
		Texts:     make(map[view.Element]string),
		Values:    make(map[view.Element]string),
		Visible:   make(map[view.Element]bool),
		Flags:     make(map[view.Element]map[view.Flag]bool),
		Positions: make(map[view.Element]view.Point),
		Scales:    make(map[view.Element]float64),
		Sizes: map[view.Element]view.Rect{
			view.Card:      {W: 400, H: 300},
			view.ButtonRow: {W: 400, H: 200},
			view.NoButton:  {X: 300, Y: 80, W: 80, H: 40},
			view.FallArea:  {W: 1280, H: 720},
		},
		Particles: make(map[int]view.Particle),
		handlers:  make(map[view.ActionName]view.Handler),
		now:       time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC),
	}
}

func (v *View) ShowScreen(s view.Screen) {
	v.Screen = s
	v.Screens = append(v.Screens, s)
}

// SetText also replaces the value of an input the test has typed into.
func (v *View) SetText(e view.Element, text string) {
	v.Texts[e] = text
	if _, ok := v.Values[e]; ok {
		v.Values[e] = text
	}
}

func (v *View) SetVisible(e view.Element, visible bool) { v.Visible[e] = visible }
func (v *View) Value(e view.Element) string             { return v.Values[e] }
func (v *View) SetScale(e view.Element, scale float64)  { v.Scales[e] = scale }
func (v *View) HoverCapable() bool                      { return v.Hover }

func (v *View) SetFlag(e view.Element, f view.Flag, on bool) {
	if v.Flags[e] == nil {
		v.Flags[e] = make(map[view.Flag]bool)
	}
	v.Flags[e][f] = on
}

// HasFlag reports whether flag f is currently set on e.
func (v *View) HasFlag(e view.Element, f view.Flag) bool {
	return v.Flags[e][f]
}

func (v *View) Bounds(e view.Element) view.Rect {
	r := v.Sizes[e]
	if p, ok := v.Positions[e]; ok {
		r.X, r.Y = p.X, p.Y
	}
	return r
}

func (v *View) MoveTo(e view.Element, x, y float64) {
	v.Positions[e] = view.Point{X: x, Y: y}
}

func (v *View) OnUserAction(name view.ActionName, h view.Handler) { v.handlers[name] = h }
func (v *View) OffUserAction(name view.ActionName)                { delete(v.handlers, name) }

// Listening reports whether a handler is attached for name.
func (v *View) Listening(name view.ActionName) bool {
	_, ok := v.handlers[name]
	return ok
}

// Fire dispatches an action the way a user interaction would. It reports
// whether a handler was attached.
func (v *View) Fire(a view.Action) bool {
	h, ok := v.handlers[a.Name]
	if !ok {
		return false
	}
	h(a)
	return true
}

// Type sets an input's value, as if the user typed it.
func (v *View) Type(e view.Element, text string) {
	v.Values[e] = text
}

func (v *View) CopyToClipboard(text string) error {
	if v.ClipboardErr != nil {
		return v.ClipboardErr
	}
	v.Clipboard = text
	return nil
}

func (v *View) PromptManualCopy(text string) {
	v.ManualCopies = append(v.ManualCopies, text)
}

func (v *View) SpawnParticle(p view.Particle) {
	v.Particles[p.ID] = p
	v.Spawned++
}

func (v *View) RemoveParticle(id int) {
	delete(v.Particles, id)
}

func (v *View) Now() time.Time {
	return v.now
}

func (v *View) ScheduleAfter(d time.Duration, fn func()) view.Timer {
	v.seq++
	t := &timer{id: v.seq, due: v.now.Add(d), fn: fn}
	v.timers = append(v.timers, t)
	return t
}

// Pending returns the number of callbacks still waiting to run.
func (v *View) Pending() int {
	n := 0
	for _, t := range v.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running due callbacks in order of
// their due time. Callbacks scheduled while advancing run too if they fall due.
func (v *View) Advance(d time.Duration) {
	end := v.now.Add(d)
	for {
		next := v.nextDue(end)
		if next == nil {
			break
		}
		v.now = next.due
		next.fired = true
		next.fn()
	}
	v.now = end
	v.compact()
}

func (v *View) nextDue(end time.Time) *timer {
	var due []*timer
	for _, t := range v.timers {
		if !t.stopped && !t.fired && !t.due.After(end) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})
	return due[0]
}

func (v *View) compact() {
	live := v.timers[:0]
	for _, t := range v.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	v.timers = live
}

var _ view.View = (*View)(nil)
