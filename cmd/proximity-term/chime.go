package main

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// tone is a sine oscillator with a linear fade-out so notes end without a click.
type tone struct {
	freq     float64
	phase    float64
	total    int
	position int
}

func newTone(freq float64, d time.Duration) *tone {
	return &tone{freq: freq, total: sampleRate.N(d)}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		fade := 1 - float64(t.position)/float64(t.total)
		v := math.Sin(2*math.Pi*t.phase) * fade
		samples[i][0], samples[i][1] = v, v

		t.phase += t.freq / float64(sampleRate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// chime plays a short rising two-note cue when a word is solved.
// A chime whose speaker failed to initialise stays silent.
type chime struct {
	enabled bool
}

func newChime(mute bool) *chime {
	if mute {
		return &chime{}
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return &chime{}
	}
	return &chime{enabled: true}
}

// solved plays E5 then A5.
func (c *chime) solved() {
	if !c.enabled {
		return
	}
	seq := beep.Seq(newTone(659.25, 120*time.Millisecond), newTone(880, 220*time.Millisecond))
	speaker.Play(&effects.Volume{Streamer: seq, Base: 2, Volume: -2})
}

func (c *chime) close() {
	if c.enabled {
		speaker.Close()
	}
}
