// Package celebration runs the falling-particle animation shown once the
// proposal is accepted.
package celebration

import (
	"math/rand/v2"
	"time"

	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/SAP-F-2025/valentine-service/internal/view"
)

var Glyphs = []string{"💖", "🌹", "😘", "💘", "🌸", "❤️", "💕", "💗", "💝", "✨"}

type Config struct {
	Interval  time.Duration
	MaxSpawns int
	MaxAlive  int
	MaxBatch  int

	MinDuration time.Duration
	MaxDuration time.Duration
	MinSize     float64
	MaxSize     float64
}

func DefaultConfig() Config {
	return Config{
		Interval:    100 * time.Millisecond,
		MaxSpawns:   60,
		MaxAlive:    80,
		MaxBatch:    3,
		MinDuration: 3 * time.Second,
		MaxDuration: 6 * time.Second,
		MinSize:     1,
		MaxSize:     2.5,
	}
}

// Texts are the acceptance messages.
type Texts struct {
	Yay  string
	Sub  string
	Love string
}

func TextsFor(p models.Proposal) Texts {
	return Texts{
		Yay:  "YAAAY!! 💖",
		Sub:  p.ToName + " said YES to " + p.FromName + "! 🥰",
		Love: "You just made someone very happy 💖",
	}
}

// Surface is the part of the view the spawner draws on.
type Surface interface {
	view.Scheduler
	Bounds(e view.Element) view.Rect
	SpawnParticle(p view.Particle)
	RemoveParticle(id int)
}

// Spawner spawns particles in batches until it has made MaxSpawns attempts or
// MaxAlive particles are on screen. Every particle removes itself after its
// fall duration.
type Spawner struct {
	cfg     Config
	rng     *rand.Rand
	surface Surface

	attempts int
	alive    int
	nextID   int
	running  bool
}

func NewSpawner(cfg Config, surface Surface, rng *rand.Rand) *Spawner {
	return &Spawner{cfg: cfg, rng: rng, surface: surface}
}

// Start begins ticking. Calling it again while running does nothing.
func (s *Spawner) Start() {
	if s.running {
		return
	}
	s.running = true
	s.surface.ScheduleAfter(s.cfg.Interval, s.tick)
}

func (s *Spawner) tick() {
	if s.attempts >= s.cfg.MaxSpawns || s.alive >= s.cfg.MaxAlive {
		s.running = false
		return
	}

	batch := 1 + s.rng.IntN(s.cfg.MaxBatch)
	for range batch {
		s.spawn()
		s.attempts++
	}
	s.surface.ScheduleAfter(s.cfg.Interval, s.tick)
}

func (s *Spawner) spawn() {
	if s.alive >= s.cfg.MaxAlive {
		return
	}

	width := s.surface.Bounds(view.FallArea).W
	span := s.cfg.MaxDuration - s.cfg.MinDuration
	p := view.Particle{
		ID:       s.nextID,
		Glyph:    Glyphs[s.rng.IntN(len(Glyphs))],
		X:        s.rng.Float64() * width,
		Size:     s.cfg.MinSize + s.rng.Float64()*(s.cfg.MaxSize-s.cfg.MinSize),
		Duration: s.cfg.MinDuration + time.Duration(s.rng.Float64()*float64(span)),
		Rotation: s.rng.Float64() * 360,
	}
	s.nextID++
	s.alive++
	s.surface.SpawnParticle(p)

	s.surface.ScheduleAfter(p.Duration, func() {
		s.surface.RemoveParticle(p.ID)
		s.alive--
	})
}

// Running reports whether the spawner will tick again.
func (s *Spawner) Running() bool {
	return s.running
}

func (s *Spawner) Alive() int {
	return s.alive
}

func (s *Spawner) Attempts() int {
	return s.attempts
}
