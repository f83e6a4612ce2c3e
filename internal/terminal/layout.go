package terminal

import (
	"strings"
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/SAP-F-2025/valentine-service/internal/view"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout holds the absolute screen positions of the card and, on the
// proposal screen, the button row the refusal control moves in.
type layout struct {
	card rect
	row  rect
}

// Card heights per screen, in rows.
var cardHeights = map[view.Screen]int{
	view.ScreenCreate:      21,
	view.ScreenQuiz:        15,
	view.ScreenProposal:    16,
	view.ScreenCelebration: 9,
}

const (
	maxCardWidth = 68
	rowOffset    = 8
	rowHeight    = 7
)

var (
	styleBase     = tcell.StyleDefault
	styleDim      = styleBase.Dim(true)
	styleBold     = styleBase.Bold(true)
	styleInput    = styleBase.Underline(true)
	styleFocus    = styleBase.Reverse(true)
	styleError    = styleBase.Foreground(tcell.ColorRed)
	styleInvalid  = styleBase.Background(tcell.ColorDarkRed)
	styleOK       = styleBase.Foreground(tcell.ColorGreen)
	styleTease    = styleBase.Foreground(tcell.ColorHotPink).Italic(true)
	styleYes      = styleBase.Foreground(tcell.ColorWhite).Background(tcell.ColorDeepPink).Bold(true)
	styleDodging  = styleBase.Foreground(tcell.ColorYellow)
	styleParticle = styleBase.Foreground(tcell.ColorPink)
)

func (v *View) relayout() {
	sw, sh := v.screen.Size()
	h := cardHeights[v.current]
	if h == 0 {
		h = cardHeights[view.ScreenCreate]
	}
	w := max(min(maxCardWidth, sw-2), 20)
	h = max(min(h, sh-2), 5)

	v.layout.card = rect{x: max((sw-w)/2, 0), y: max((sh-h)/2, 0), w: w, h: h}
	v.layout.row = rect{x: v.layout.card.x, y: v.layout.card.y + rowOffset, w: w, h: rowHeight}
}

// ===== BUTTONS =====

func (v *View) buttonLabel(e view.Element) string {
	text := v.texts[e]
	switch e {
	case view.YesButton:
		pad := strings.Repeat(" ", int((v.scale(e)-1)*10+0.5))
		return "[ " + pad + text + pad + " ]"
	case view.NoButton:
		if v.scale(e) < 0.75 {
			return "[" + text + "]"
		}
	}
	return "[ " + text + " ]"
}

// buttonRect places the proposal buttons inside the row. Yes sits in the left
// quarter; No starts in the right quarter until MoveTo places it.
func (v *View) buttonRect(e view.Element) rect {
	row := v.layout.row
	w := runewidth.StringWidth(v.buttonLabel(e))
	x, y := row.w/4-w/2, row.h/2
	if e == view.NoButton {
		x = 3*row.w/4 - w/2
		if p, ok := v.moved[e]; ok {
			x, y = int(p.X), int(p.Y)
		}
	}
	x = max(min(x, row.w-w), 0)
	y = max(min(y, row.h-1), 0)
	return rect{x: row.x + x, y: row.y + y, w: w, h: 1}
}

// ===== DRAWING =====

func (v *View) draw() {
	v.screen.Clear()
	v.screen.HideCursor()
	clear(v.hits)

	if v.current == view.ScreenCelebration {
		v.drawParticles()
	}

	card := v.layout.card
	v.drawBox(card)

	switch v.current {
	case view.ScreenCreate:
		v.drawCreate()
	case view.ScreenQuiz:
		v.drawQuiz()
	case view.ScreenProposal:
		v.drawProposal()
	case view.ScreenCelebration:
		v.drawCelebration()
	}

	if v.manual != "" {
		y := card.y + card.h + 1
		v.drawText(card.x, y, card.w, styleBold, "Copy this link manually:")
		sw, _ := v.screen.Size()
		for i, line := range chunk(v.manual, sw) {
			v.drawText(0, y+1+i, sw, styleBase, line)
		}
	}

	v.screen.Show()
}

func (v *View) drawCreate() {
	c := v.layout.card
	x, y := c.x+2, c.y+1
	inner := c.w - 4

	v.centered(y, styleBold, "Create your Valentine link 💌")

	v.drawText(x, y+2, 6, styleBase, "From")
	v.drawInput(view.FromInput, x+6, y+2, 24)
	v.drawText(x, y+3, 6, styleBase, "To")
	v.drawInput(view.ToInput, x+6, y+3, 24)

	v.drawText(x, y+5, inner, styleDim, "Quiz (optional, up to 5 questions)")
	hintW := max(inner-3-24-1-14-1, 4)
	v.drawText(x+3, y+6, 24, styleDim, "Question")
	v.drawText(x+28, y+6, 14, styleDim, "Answer")
	v.drawText(x+43, y+6, hintW, styleDim, "Hint")
	for i := range models.MaxQuizQuestions {
		row := y + 7 + i
		v.drawText(x, row, 3, styleDim, string(rune('1'+i))+".")
		v.drawInput(view.QuizDraftField("q", i), x+3, row, 24)
		v.drawInput(view.QuizDraftField("a", i), x+28, row, 14)
		v.drawInput(view.QuizDraftField("h", i), x+43, row, hintW)
	}

	v.drawButton(generateButton, x, y+13, styleBold)
	if v.visible(view.CreateError) {
		v.drawText(x, y+14, inner, styleError, v.texts[view.CreateError])
	}

	if v.visible(view.LinkBox) {
		v.drawText(x, y+16, inner, styleOK, v.texts[view.ShareLink])
		style := styleBase
		if v.hasFlag(view.CopyButton, view.FlagCopied) {
			style = styleOK
		}
		v.drawButton(view.CopyButton, x, y+17, style)
	}
}

func (v *View) drawQuiz() {
	c := v.layout.card
	x, y := c.x+2, c.y+1
	inner := c.w - 4

	v.drawText(x, y, inner, styleDim, v.texts[view.QuizProgress])
	for i, line := range wrap(v.texts[view.QuizPrompt], inner) {
		if i == 2 {
			break
		}
		v.drawText(x, y+2+i, inner, styleBold, line)
	}

	v.drawText(x, y+5, 8, styleBase, "Answer")
	v.drawInput(view.QuizAnswer, x+8, y+5, min(30, inner-8))

	bx := x + v.drawButton(submitButton, x, y+7, styleBold) + 2
	if v.visible(view.HintButton) {
		v.drawButton(view.HintButton, bx, y+7, styleBase)
	}

	feedback := styleOK
	if v.hasFlag(view.QuizAnswer, view.FlagShaking) {
		feedback = styleError
	}
	v.drawText(x, y+9, inner, feedback, v.texts[view.QuizFeedback])

	if v.visible(view.HintText) {
		v.drawText(x, y+11, inner, styleTease, v.texts[view.HintText])
	}
}

func (v *View) drawProposal() {
	c := v.layout.card
	v.centered(c.y+2, styleBold, v.texts[view.Title])
	v.centered(c.y+4, styleBase, v.texts[view.Subtitle])
	if v.visible(view.TeaseText) {
		v.centered(c.y+6, styleTease, v.texts[view.TeaseText])
	}

	if !v.visible(view.ButtonRow) {
		return
	}
	v.placeButton(view.YesButton, styleYes)
	if v.visible(view.NoButton) {
		style := styleBase
		switch {
		case v.hasFlag(view.NoButton, view.FlagShaking):
			style = styleError
		case v.hasFlag(view.NoButton, view.FlagDodging):
			style = styleDodging
		}
		v.placeButton(view.NoButton, style)
	}
}

func (v *View) drawCelebration() {
	c := v.layout.card
	v.centered(c.y+2, styleBold.Foreground(tcell.ColorRed), v.texts[view.YayText])
	v.centered(c.y+4, styleBase, v.texts[view.CelebrateSub])
	v.centered(c.y+6, styleTease, v.texts[view.LoveMessage])
}

func (v *View) drawParticles() {
	_, sh := v.screen.Size()
	now := time.Now()
	for _, p := range v.particles {
		frac := float64(now.Sub(p.born)) / float64(p.Duration)
		if frac < 0 || frac > 1 {
			continue
		}
		v.drawText(int(p.X), int(frac*float64(sh)), 2, styleParticle, p.Glyph)
	}
}

// ===== PRIMITIVES =====

func (v *View) drawInput(e view.Element, x, y, w int) {
	style := styleInput
	switch {
	case v.focused() == e:
		style = styleFocus
	case v.hasFlag(e, view.FlagInvalid):
		style = styleInvalid
	case v.hasFlag(e, view.FlagShaking):
		style = styleInput.Foreground(tcell.ColorRed)
	}

	for i := range w {
		v.screen.SetContent(x+i, y, ' ', nil, style)
	}
	text := tail(v.texts[e], w-1)
	used := v.drawText(x, y, w, style, text)
	v.hits[e] = rect{x: x, y: y, w: w, h: 1}
	if v.focused() == e {
		v.screen.ShowCursor(x+used, y)
	}
}

// drawButton draws a bracketed label and returns its width.
func (v *View) drawButton(e view.Element, x, y int, style tcell.Style) int {
	if v.focused() == e {
		style = styleFocus
	}
	label := "[ " + v.texts[e] + " ]"
	w := v.drawText(x, y, v.layout.card.w, style, label)
	v.hits[e] = rect{x: x, y: y, w: w, h: 1}
	return w
}

func (v *View) placeButton(e view.Element, style tcell.Style) {
	if v.focused() == e {
		style = styleFocus
	}
	r := v.buttonRect(e)
	v.drawText(r.x, r.y, r.w, style, v.buttonLabel(e))
	v.hits[e] = r
}

func (v *View) centered(y int, style tcell.Style, s string) {
	c := v.layout.card
	w := min(runewidth.StringWidth(s), c.w-2)
	v.drawText(c.x+(c.w-w)/2, y, c.w-2, style, s)
}

// drawText writes s from (x, y), cutting it with an ellipsis past maxW
// cells, and returns the number of cells used.
func (v *View) drawText(x, y, maxW int, style tcell.Style, s string) int {
	if runewidth.StringWidth(s) > maxW {
		s = runewidth.Truncate(s, maxW, "…")
	}
	col := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		v.screen.SetContent(x+col, y, r, nil, style)
		col += rw
	}
	return col
}

func (v *View) drawBox(r rect) {
	style := styleDim
	for i := 1; i < r.w-1; i++ {
		v.screen.SetContent(r.x+i, r.y, tcell.RuneHLine, nil, style)
		v.screen.SetContent(r.x+i, r.y+r.h-1, tcell.RuneHLine, nil, style)
	}
	for j := 1; j < r.h-1; j++ {
		v.screen.SetContent(r.x, r.y+j, tcell.RuneVLine, nil, style)
		v.screen.SetContent(r.x+r.w-1, r.y+j, tcell.RuneVLine, nil, style)
	}
	v.screen.SetContent(r.x, r.y, tcell.RuneULCorner, nil, style)
	v.screen.SetContent(r.x+r.w-1, r.y, tcell.RuneURCorner, nil, style)
	v.screen.SetContent(r.x, r.y+r.h-1, tcell.RuneLLCorner, nil, style)
	v.screen.SetContent(r.x+r.w-1, r.y+r.h-1, tcell.RuneLRCorner, nil, style)
}

// tail keeps the last w cells of s so the caret end of an input stays visible.
func tail(s string, w int) string {
	if runewidth.StringWidth(s) <= w {
		return s
	}
	runes := []rune(s)
	width := 0
	for i := len(runes) - 1; i >= 0; i-- {
		width += runewidth.RuneWidth(runes[i])
		if width > w {
			return string(runes[i+1:])
		}
	}
	return s
}

// wrap breaks s into lines of at most w cells on word boundaries.
func wrap(s string, w int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		switch {
		case line == "":
			line = word
		case runewidth.StringWidth(line+" "+word) <= w:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// chunk splits s into pieces of w cells, keeping every character.
func chunk(s string, w int) []string {
	var out []string
	for s != "" {
		cut := runewidth.Truncate(s, w, "")
		if cut == "" {
			cut = string([]rune(s)[:1])
		}
		out = append(out, cut)
		s = s[len(cut):]
	}
	return out
}
