package dodge

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/view"
)

// Outcome is what a single dodge or tap asks the view to show.
type Outcome struct {
	Position view.Point
	YesScale float64
	// Tease is empty when no tease message should be shown.
	Tease string
}

// Desktop moves the refusal control away from the pointer.
type Desktop struct {
	cfg       Config
	rng       *rand.Rand
	growth    *Growth
	teaser    *Teaser
	lastDodge time.Time
}

func NewDesktop(cfg Config, toName string, rng *rand.Rand) *Desktop {
	return &Desktop{
		cfg:    cfg,
		rng:    rng,
		growth: NewGrowth(cfg),
		teaser: NewTeaser(toName, rng),
	}
}

// ShouldDodge reports whether a pointer at p warrants a dodge of a control
// occupying no. A positive answer starts the debounce window.
func (d *Desktop) ShouldDodge(now time.Time, p view.Point, no view.Rect) bool {
	if !d.lastDodge.IsZero() && now.Sub(d.lastDodge) < d.cfg.Debounce {
		return false
	}
	c := no.Center()
	if math.Hypot(p.X-c.X, p.Y-c.Y) >= d.cfg.Threshold {
		return false
	}
	d.lastDodge = now
	return true
}

// Dodge relocates a control of no's size inside area, grows the acceptance
// control and maybe picks a tease message.
func (d *Desktop) Dodge(area, no view.Rect) Outcome {
	out := Outcome{
		Position: d.Relocate(area, no),
		YesScale: d.growth.Grow(),
	}
	if d.rng.Float64() < d.cfg.TeaseChance {
		out.Tease = d.teaser.Pick()
	}
	return out
}

// Relocate draws a position uniformly from the padded bounds of area.
func (d *Desktop) Relocate(area, no view.Rect) view.Point {
	lo, hiX, hiY := d.cfg.Padding, area.W-no.W-d.cfg.Padding, area.H-no.H-d.cfg.Padding
	return view.Point{
		X: d.draw(lo, hiX),
		Y: d.draw(lo, hiY),
	}
}

func (d *Desktop) draw(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return min(lo+d.rng.Float64()*(hi-lo), hi)
}

func (d *Desktop) YesScale() float64 {
	return d.growth.Scale()
}

// InBounds reports whether pos keeps a control of no's size inside area's padding.
func InBounds(cfg Config, area, no view.Rect, pos view.Point) bool {
	hiX := max(cfg.Padding, area.W-no.W-cfg.Padding)
	hiY := max(cfg.Padding, area.H-no.H-cfg.Padding)
	return pos.X >= cfg.Padding && pos.X <= hiX && pos.Y >= cfg.Padding && pos.Y <= hiY
}
