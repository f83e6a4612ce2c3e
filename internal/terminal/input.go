package terminal

import (
	"context"
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/SAP-F-2025/valentine-service/internal/view"
	"github.com/gdamore/tcell/v2"
)

const frameInterval = 50 * time.Millisecond

// focusables lists the controls Tab cycles through on the current screen.
func (v *View) focusables() []view.Element {
	var out []view.Element
	switch v.current {
	case view.ScreenCreate:
		out = append(out, view.FromInput, view.ToInput)
		for i := range models.MaxQuizQuestions {
			out = append(out, view.QuizDraftField("q", i), view.QuizDraftField("a", i), view.QuizDraftField("h", i))
		}
		out = append(out, generateButton)
		if v.visible(view.LinkBox) {
			out = append(out, view.CopyButton)
		}
	case view.ScreenQuiz:
		out = append(out, view.QuizAnswer, submitButton)
		if v.visible(view.HintButton) {
			out = append(out, view.HintButton)
		}
	case view.ScreenProposal:
		if v.visible(view.ButtonRow) {
			out = append(out, view.YesButton)
			if v.visible(view.NoButton) {
				out = append(out, view.NoButton)
			}
		}
	}
	return out
}

func (v *View) focused() view.Element {
	list := v.focusables()
	if len(list) == 0 {
		return ""
	}
	return list[v.focus%len(list)]
}

func (v *View) moveFocus(delta int) {
	list := v.focusables()
	if len(list) == 0 {
		return
	}
	v.focus = ((v.focus+delta)%len(list) + len(list)) % len(list)
	if v.focused() == view.NoButton {
		v.fire(view.ActionNoFocus, 0, 0)
	}
}

func (v *View) focusOn(e view.Element) {
	for i, f := range v.focusables() {
		if f == e {
			v.focus = i
			return
		}
	}
}

func isInput(e view.Element) bool {
	switch e {
	case view.FromInput, view.ToInput, view.QuizAnswer:
		return true
	}
	for i := range models.MaxQuizQuestions {
		if e == view.QuizDraftField("q", i) || e == view.QuizDraftField("a", i) || e == view.QuizDraftField("h", i) {
			return true
		}
	}
	return false
}

// activate is Enter on a control, or a click on it.
func (v *View) activate(e view.Element) {
	switch {
	case e == view.QuizAnswer || e == submitButton:
		v.fire(view.ActionSubmitAnswer, 0, 0)
	case e == view.HintButton:
		v.fire(view.ActionRevealHint, 0, 0)
	case e == view.CopyButton:
		v.fire(view.ActionCopy, 0, 0)
	case e == generateButton || isInput(e):
		v.fire(view.ActionGenerate, 0, 0)
	case e == view.YesButton:
		v.fire(view.ActionYes, 0, 0)
	case e == view.NoButton:
		if v.HoverCapable() {
			v.fire(view.ActionNoClick, 0, 0)
		} else {
			v.fire(view.ActionNoTap, 0, 0)
		}
	}
}

// handleEvent applies one tcell event. It reports false when the user quits.
func (v *View) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventResize:
		v.relayout()
		v.screen.Sync()
	}
	return true
}

func (v *View) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return false
	case tcell.KeyTab, tcell.KeyDown:
		v.moveFocus(1)
	case tcell.KeyBacktab, tcell.KeyUp:
		v.moveFocus(-1)
	case tcell.KeyEnter:
		v.activate(v.focused())
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e := v.focused(); isInput(e) {
			if r := []rune(v.texts[e]); len(r) > 0 {
				v.texts[e] = string(r[:len(r)-1])
			}
		}
	case tcell.KeyRune:
		e := v.focused()
		if isInput(e) {
			if len([]rune(v.texts[e])) < maxInputRunes {
				v.texts[e] += string(ev.Rune())
			}
			return true
		}
		if v.current == view.ScreenCelebration && ev.Rune() == 'q' {
			return false
		}
		if ev.Rune() == ' ' {
			v.activate(e)
		}
	}
	return true
}

func (v *View) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && v.buttons&tcell.Button1 == 0
	v.buttons = buttons

	if v.current == view.ScreenProposal && v.HoverCapable() {
		row := v.layout.row
		v.fire(view.ActionPointerMove, float64(x-row.x), float64(y-row.y))
	}
	if !pressed {
		return
	}

	for e, r := range v.hits {
		if !r.contains(x, y) {
			continue
		}
		v.focusOn(e)
		if !isInput(e) {
			v.activate(e)
		}
		return
	}
}

// Run draws and dispatches events until the user quits or ctx ends.
func (v *View) Run(ctx context.Context) {
	defer close(v.done)

	v.screen.EnableMouse(tcell.MouseMotionEvents)
	v.relayout()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-v.done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	v.draw()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !v.handleEvent(ev) {
				return
			}
		case call := <-v.calls:
			call()
		case <-ticker.C:
		}
		v.draw()
	}
}
