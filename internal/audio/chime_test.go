package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
)

func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			if v := max(smp[0], -smp[0]); v > peak {
				peak = v
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestToneLengthAndRange(t *testing.T) {
	rate := beep.SampleRate(8000)
	n, peak := drain(newTone(440, 100*time.Millisecond, rate))

	assert.Equal(t, rate.N(100*time.Millisecond), n)
	assert.LessOrEqual(t, peak, 1.0)
	assert.Greater(t, peak, 0.5)
}

func TestChimePlaysEveryNote(t *testing.T) {
	rate := beep.SampleRate(8000)
	n, peak := drain(Chime(rate))

	assert.Equal(t, len(chimeNotes)*rate.N(noteLength), n)
	assert.Less(t, peak, 1.0, "chime is attenuated")
}

func TestPlayerSilentWithoutInit(t *testing.T) {
	var p Player
	p.PlayChime()
	p.Close()
}
