// Package dodge holds the state machines behind the refusal control: the
// pointer dodge on hover devices, the tap counter on touch devices, the tease
// messages and the growing acceptance control.
package dodge

import (
	"math/rand/v2"
	"time"
)

type Config struct {
	// Threshold is the pointer distance below which the control dodges.
	Threshold float64
	// Padding keeps the control away from the container edges.
	Padding  float64
	Debounce time.Duration

	TeaseChance   float64
	TeaseDuration time.Duration
	DodgeFlag     time.Duration

	ShakeFlag    time.Duration
	HideDuration time.Duration
	ShrinkStep   float64
	MinScale     float64

	YesGrowth   float64
	YesMaxScale float64
}

func DefaultConfig() Config {
	return Config{
		Threshold:     120,
		Padding:       20,
		Debounce:      100 * time.Millisecond,
		TeaseChance:   0.5,
		TeaseDuration: 2500 * time.Millisecond,
		DodgeFlag:     200 * time.Millisecond,
		ShakeFlag:     500 * time.Millisecond,
		HideDuration:  1500 * time.Millisecond,
		ShrinkStep:    0.1,
		MinScale:      0.5,
		YesGrowth:     1.05,
		YesMaxScale:   1.4,
	}
}

// TapMessages are the successive labels of the refusal control on touch devices.
var TapMessages = []string{
	"No",
	"Are you sure?",
	"Really? 🤔",
	"Come on! 😅",
	"Nope! 😂",
	"Nice try 😏",
	"Not happening 🙅",
	"Think again 💭",
	"Wrong answer! ❌",
	"Try the other button 👆",
	"Still no? 🥺",
	"Please? 🥹",
	"Pretty please? 💕",
	"👀",
}

// TeaseMessages returns the tease lines addressed to the recipient.
func TeaseMessages(toName string) []string {
	return []string{
		"Hey… you can't say no 😂",
		"The NO button is broken 🙃",
		"Just say YES already! 💕",
		"Nice try! 😏",
		"That's not how this works 😄",
		"You know you want to! 💖",
		"The universe wants you to say YES ✨",
		"Come on, " + toName + "! 😊",
	}
}

// Teaser picks tease messages.
type Teaser struct {
	messages []string
	rng      *rand.Rand
}

func NewTeaser(toName string, rng *rand.Rand) *Teaser {
	return &Teaser{messages: TeaseMessages(toName), rng: rng}
}

func (t *Teaser) Pick() string {
	return t.messages[t.rng.IntN(len(t.messages))]
}

// Growth tracks the scale of the acceptance control.
type Growth struct {
	scale  float64
	factor float64
	max    float64
}

func NewGrowth(cfg Config) *Growth {
	return &Growth{scale: 1, factor: cfg.YesGrowth, max: cfg.YesMaxScale}
}

// Grow applies one growth step and returns the new scale.
func (g *Growth) Grow() float64 {
	g.scale = min(g.scale*g.factor, g.max)
	return g.scale
}

func (g *Growth) Scale() float64 {
	return g.scale
}
