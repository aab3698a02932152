// Package audio implements the runtime's sound collaborator on a small
// software synthesizer. Cartridges name sounds and tracks by id; the
// synth derives tone parameters from the id, so every cartridge gets
// audio without shipping sample assets. Initialization failure degrades
// to silence, never to an error the caller must handle.
package audio

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pixelcart/pixelcart/internal/core"
)

const sampleRate = beep.SampleRate(48000)

// Synth is a beep-backed synthesizer satisfying the script engine's
// AudioManager contract.
type Synth struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	music       *beep.Ctrl
	initialized bool
	master      float64
}

// NewSynth creates a synth with the given master volume in [0, 1].
func NewSynth(master float64) *Synth {
	return &Synth{
		mixer:  &beep.Mixer{},
		master: core.ClampF(master, 0, 1),
	}
}

// Initialize opens the speaker and starts the mixer. Safe to call twice.
func (s *Synth) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Cleanup silences everything. The speaker itself has no close; clearing
// the mixer is the clean shutdown beep offers.
func (s *Synth) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	if s.music != nil {
		s.music.Paused = true
		s.music = nil
	}
	s.mixer.Clear()
	s.initialized = false
}

// PlaySfx plays a one-shot effect. The sound id picks the tone; unknown
// ids get a deterministic hash-derived voice, so authored cartridges can
// invent names freely.
func (s *Synth) PlaySfx(id string, volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	v := SfxVoice(id)
	gen := newToneGenerator(sampleRate, v, volume*s.master)
	s.mixer.Add(beep.Take(sampleRate.N(v.Duration), gen))
}

// PlayMusic starts a track, replacing the current one. The track id
// seeds a generated chiptune pattern.
func (s *Synth) PlayMusic(track string, loop bool, volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	if s.music != nil {
		s.music.Paused = true
	}

	// The generator streams endlessly, so looping means playing it as
	// is; a one-shot takes a single pattern pass.
	gen := newPatternGenerator(sampleRate, hashID(track), volume*s.master)
	var streamer beep.Streamer = gen
	if !loop {
		streamer = beep.Take(sampleRate.N(gen.cycle()), gen)
	}
	ctrl := &beep.Ctrl{Streamer: streamer}
	s.music = ctrl
	s.mixer.Add(ctrl)
}

// StopMusic pauses the current track, if any.
func (s *Synth) StopMusic() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.music != nil {
		s.music.Paused = true
		s.music = nil
	}
}

// hashID maps a sound or track id to a stable 32-bit seed.
func hashID(id string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return h.Sum32()
}

// Nop is the silent audio manager, used when audio is disabled or the
// host is headless.
type Nop struct{}

// PlaySfx does nothing.
func (Nop) PlaySfx(string, float64) {}

// PlayMusic does nothing.
func (Nop) PlayMusic(string, bool, float64) {}

// StopMusic does nothing.
func (Nop) StopMusic() {}
