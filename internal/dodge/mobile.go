package dodge

import "math/rand/v2"

// TapOutcome is the result of one tap on the refusal control.
type TapOutcome struct {
	Outcome
	// Label is the new control text, empty when unchanged.
	Label string
	Scale float64
	// Hide is set when the messages are used up; the caller hides the
	// control and calls Reset after HideDuration.
	Hide bool
}

// Mobile counts taps on the refusal control.
type Mobile struct {
	cfg      Config
	messages []string
	growth   *Growth
	teaser   *Teaser
	count    int
	hidden   bool
}

func NewMobile(cfg Config, toName string, rng *rand.Rand) *Mobile {
	return &Mobile{
		cfg:      cfg,
		messages: TapMessages,
		growth:   NewGrowth(cfg),
		teaser:   NewTeaser(toName, rng),
	}
}

// Tap registers a tap. Taps while the control is hidden are ignored and
// reported with ok false.
func (m *Mobile) Tap() (out TapOutcome, ok bool) {
	if m.hidden {
		return TapOutcome{}, false
	}
	m.count++

	if m.count < len(m.messages) {
		out.Label = m.messages[m.count]
	}
	out.Scale = max(m.cfg.MinScale, 1-float64(m.count)*m.cfg.ShrinkStep)
	if m.count >= len(m.messages)-1 {
		out.Hide = true
		m.hidden = true
	}
	out.YesScale = m.growth.Grow()
	out.Tease = m.teaser.Pick()
	return out, true
}

// Reset brings the control back after it hid itself and returns its label.
func (m *Mobile) Reset() string {
	m.count = 0
	m.hidden = false
	return m.messages[0]
}

func (m *Mobile) Count() int {
	return m.count
}

func (m *Mobile) Hidden() bool {
	return m.hidden
}

func (m *Mobile) YesScale() float64 {
	return m.growth.Scale()
}
