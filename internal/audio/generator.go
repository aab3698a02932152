package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/pixelcart/pixelcart/internal/core"
)

// Waveforms a voice can use.
const (
	waveSine = iota
	waveSquare
	waveTriangle
)

// Voice describes one sound effect: waveform, pitch, length, and the
// envelope's attack and release.
type Voice struct {
	Wave     int
	Freq     float64
	Duration time.Duration
	Attack   time.Duration
	Release  time.Duration
}

// namedVoices is the built-in palette. Sound ids outside it fall back to
// a hash-derived voice in SfxVoice.
var namedVoices = map[string]Voice{
	"blip":    {Wave: waveSquare, Freq: 880, Duration: 60 * time.Millisecond, Attack: 2 * time.Millisecond, Release: 30 * time.Millisecond},
	"confirm": {Wave: waveSine, Freq: 660, Duration: 120 * time.Millisecond, Attack: 5 * time.Millisecond, Release: 60 * time.Millisecond},
	"error":   {Wave: waveSquare, Freq: 110, Duration: 180 * time.Millisecond, Attack: 2 * time.Millisecond, Release: 90 * time.Millisecond},
	"pickup":  {Wave: waveTriangle, Freq: 1320, Duration: 90 * time.Millisecond, Attack: 2 * time.Millisecond, Release: 45 * time.Millisecond},
	"explode": {Wave: waveTriangle, Freq: 70, Duration: 300 * time.Millisecond, Attack: 1 * time.Millisecond, Release: 250 * time.Millisecond},
}

// SfxVoice resolves a sound id to a voice. Unknown ids map through a
// hash so the same id always sounds the same.
func SfxVoice(id string) Voice {
	if v, ok := namedVoices[id]; ok {
		return v
	}
	h := hashID(id)
	dur := time.Duration(60+h%180) * time.Millisecond
	return Voice{
		Wave:     int(h % 3),
		Freq:     220 + float64(h%12)*110,
		Duration: dur,
		Attack:   3 * time.Millisecond,
		Release:  dur / 2,
	}
}

// toneGenerator streams one enveloped waveform at a fixed frequency.
type toneGenerator struct {
	sr     beep.SampleRate
	voice  Voice
	volume float64
	pos    int
}

func newToneGenerator(sr beep.SampleRate, v Voice, volume float64) *toneGenerator {
	return &toneGenerator{sr: sr, voice: v, volume: core.ClampF(volume, 0, 1)}
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	total := g.sr.N(g.voice.Duration)
	attack := g.sr.N(g.voice.Attack)
	release := g.sr.N(g.voice.Release)
	releaseStart := total - release
	if releaseStart < attack {
		releaseStart = attack
	}

	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		phase := math.Mod(g.voice.Freq*t, 1)

		var sample float64
		switch g.voice.Wave {
		case waveSquare:
			if phase < 0.5 {
				sample = 1
			} else {
				sample = -1
			}
			sample *= 0.4 // Square waves read much louder than sines
		case waveTriangle:
			sample = 4*math.Abs(phase-0.5) - 1
		default:
			sample = math.Sin(2 * math.Pi * phase)
		}

		env := 1.0
		if g.pos < attack && attack > 0 {
			env = float64(g.pos) / float64(attack)
		} else if g.pos >= releaseStart && release > 0 {
			env = float64(total-g.pos) / float64(release)
			if env < 0 {
				env = 0
			}
		}
		sample *= env * g.volume

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *toneGenerator) Err() error { return nil }

// minorPentatonic is the degree table pattern steps are drawn from, in
// semitones above the root.
var minorPentatonic = []int{0, 3, 5, 7, 10, 12}

// patternGenerator streams a simple seeded chiptune: a bass drone plus a
// melody stepping through a pentatonic scale. The same seed always
// produces the same pattern.
type patternGenerator struct {
	sr     beep.SampleRate
	seed   uint32
	volume float64
	pos    int

	root  float64
	steps []float64
	step  time.Duration
}

func newPatternGenerator(sr beep.SampleRate, seed uint32, volume float64) *patternGenerator {
	g := &patternGenerator{
		sr:     sr,
		seed:   seed,
		volume: core.ClampF(volume, 0, 1),
		root:   110 * math.Pow(2, float64(seed%12)/12),
		step:   time.Duration(220+seed%120) * time.Millisecond,
	}

	// Eight melody steps drawn deterministically from the seed.
	state := seed
	for i := 0; i < 8; i++ {
		state = state*1664525 + 1013904223
		degree := minorPentatonic[state%uint32(len(minorPentatonic))]
		g.steps = append(g.steps, g.root*2*math.Pow(2, float64(degree)/12))
	}
	return g
}

// cycle returns the length of one full pattern pass.
func (g *patternGenerator) cycle() time.Duration {
	return g.step * time.Duration(len(g.steps))
}

func (g *patternGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	stepSamples := g.sr.N(g.step)
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		bass := 0.12 * math.Sin(2*math.Pi*g.root*t)

		idx := (g.pos / stepSamples) % len(g.steps)
		stepPos := g.pos % stepSamples
		env := math.Exp(-3 * float64(stepPos) / float64(stepSamples))
		melody := 0.18 * env * math.Sin(2*math.Pi*g.steps[idx]*t)

		sample := (bass + melody) * g.volume
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *patternGenerator) Err() error { return nil }
