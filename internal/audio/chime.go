// Package audio plays the celebration chime of the terminal viewer.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Chime notes: C6 E6 G6 C7.
var chimeNotes = []float64{1046.50, 1318.51, 1567.98, 2093.00}

const noteLength = 120 * time.Millisecond

// tone is a sine note with a linear fade-out so notes do not click.
type tone struct {
	freq     float64
	phase    float64
	position int
	length   int
	rate     beep.SampleRate
}

func newTone(freq float64, d time.Duration, rate beep.SampleRate) *tone {
	return &tone{freq: freq, length: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.length {
			return i, i > 0
		}
		envelope := 1 - float64(t.position)/float64(t.length)
		val := math.Sin(2*math.Pi*t.phase) * envelope

		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Chime returns the rising arpeggio played on acceptance.
func Chime(rate beep.SampleRate) beep.Streamer {
	notes := make([]beep.Streamer, len(chimeNotes))
	for i, f := range chimeNotes {
		notes[i] = newTone(f, noteLength, rate)
	}
	return &effects.Gain{Streamer: beep.Seq(notes...), Gain: -0.5}
}

// Player owns the speaker. The zero value is silent until Init succeeds.
type Player struct {
	mu          sync.Mutex
	initialized bool
}

// Init opens the audio device. Callers treat an error as "no sound".
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	p.initialized = true
	return nil
}

// PlayChime queues the chime and returns immediately.
func (p *Player) PlayChime() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Play(Chime(sampleRate))
}

func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}
