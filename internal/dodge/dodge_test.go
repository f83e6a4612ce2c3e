package dodge

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

var (
	area = view.Rect{W: 400, H: 200}
	noR  = view.Rect{X: 300, Y: 80, W: 80, H: 40}
)

func TestGrowth_CapsAtMax(t *testing.T) {
	g := NewGrowth(DefaultConfig())
	assert.Equal(t, 1.0, g.Scale())
	assert.InDelta(t, 1.05, g.Grow(), 1e-9)

	for range 20 {
		g.Grow()
	}
	assert.Equal(t, 1.4, g.Scale())
}

func TestTeaser_UsesRecipientName(t *testing.T) {
	msgs := TeaseMessages("Ari")
	assert.Equal(t, "Come on, Ari! 😊", msgs[len(msgs)-1])

	teaser := NewTeaser("Ari", seeded(1))
	for range 50 {
		assert.Contains(t, msgs, teaser.Pick())
	}
}

func TestDesktop_ShouldDodge(t *testing.T) {
	d := NewDesktop(DefaultConfig(), "Ari", seeded(2))
	t0 := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	centre := noR.Center()

	assert.False(t, d.ShouldDodge(t0, view.Point{X: centre.X - 120, Y: centre.Y}, noR), "exactly at threshold")
	assert.True(t, d.ShouldDodge(t0, view.Point{X: centre.X - 119, Y: centre.Y}, noR))
	assert.False(t, d.ShouldDodge(t0.Add(99*time.Millisecond), centre, noR), "within debounce")
	assert.True(t, d.ShouldDodge(t0.Add(100*time.Millisecond), centre, noR))
}

func TestDesktop_DodgeStaysInBounds(t *testing.T) {
	cfg := DefaultConfig()
	d := NewDesktop(cfg, "Ari", seeded(3))

	teased := 0
	for i := range 1000 {
		out := d.Dodge(area, noR)
		require.True(t, InBounds(cfg, area, noR, out.Position), "dodge %d at %+v", i, out.Position)
		assert.GreaterOrEqual(t, out.Position.X, 20.0)
		assert.LessOrEqual(t, out.Position.X, 400.0-80-20)
		assert.GreaterOrEqual(t, out.Position.Y, 20.0)
		assert.LessOrEqual(t, out.Position.Y, 200.0-40-20)
		if out.Tease != "" {
			teased++
		}
	}
	assert.Equal(t, 1.4, d.YesScale())
	assert.InDelta(t, 500, teased, 100)
}

func TestDesktop_DegenerateArea(t *testing.T) {
	cfg := DefaultConfig()
	d := NewDesktop(cfg, "Ari", seeded(4))

	tiny := view.Rect{W: 90, H: 50}
	for range 10 {
		p := d.Relocate(tiny, noR)
		assert.Equal(t, view.Point{X: 20, Y: 20}, p)
		assert.True(t, InBounds(cfg, tiny, noR, p))
	}
}

func TestMobile_TapSequence(t *testing.T) {
	m := NewMobile(DefaultConfig(), "Ari", seeded(5))

	out, ok := m.Tap()
	require.True(t, ok)
	assert.Equal(t, "Are you sure?", out.Label)
	assert.InDelta(t, 0.9, out.Scale, 1e-9)
	assert.InDelta(t, 1.05, out.YesScale, 1e-9)
	assert.NotEmpty(t, out.Tease)
	assert.False(t, out.Hide)

	for i := 2; i <= 5; i++ {
		out, _ = m.Tap()
	}
	assert.Equal(t, TapMessages[5], out.Label)
	assert.InDelta(t, 0.5, out.Scale, 1e-9)

	for i := 6; i < len(TapMessages)-1; i++ {
		out, _ = m.Tap()
		assert.False(t, out.Hide)
		assert.Equal(t, 0.5, out.Scale)
	}

	out, ok = m.Tap()
	require.True(t, ok)
	assert.Equal(t, "👀", out.Label)
	assert.True(t, out.Hide)
	assert.True(t, m.Hidden())

	_, ok = m.Tap()
	assert.False(t, ok, "hidden control ignores taps")
	assert.Equal(t, len(TapMessages)-1, m.Count())

	assert.Equal(t, "No", m.Reset())
	assert.Equal(t, 0, m.Count())
	assert.False(t, m.Hidden())

	out, ok = m.Tap()
	require.True(t, ok)
	assert.Equal(t, "Are you sure?", out.Label)
	assert.Equal(t, 1.4, m.YesScale())
}
