// Package audio plays the short tone that marks the easter egg activation.
// Audio is optional: a speaker that fails to initialize degrades to silence.
package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the rate every tone is generated at.
const SampleRate = beep.SampleRate(44100)

// Player plays activation tones.
type Player interface {
	Activate()
}

// Silent discards every tone.
type Silent struct{}

func (Silent) Activate() {}

// Speaker plays tones on the default output device. The device is opened
// on first use.
type Speaker struct {
	once sync.Once
	err  error
}

// NewSpeaker returns a Speaker; the device is not touched until Activate.
func NewSpeaker() *Speaker { return &Speaker{} }

func (s *Speaker) init() error {
	s.once.Do(func() {
		s.err = speaker.Init(SampleRate, SampleRate.N(time.Second/10))
		if s.err != nil {
			slog.Warn("audio initialization failed, continuing without sound", "error", s.err)
		}
	})
	return s.err
}

// Activate plays the activation arpeggio without blocking.
func (s *Speaker) Activate() {
	if s.init() != nil {
		return
	}
	tone, err := ActivationTone(SampleRate)
	if err != nil {
		slog.Warn("failed to build activation tone", "error", err)
		return
	}
	speaker.Play(tone)
}

// Notes of the activation arpeggio, in Hz.
var activationNotes = []float64{440, 660, 880}

// NoteDuration is the length of each arpeggio note.
const NoteDuration = 80 * time.Millisecond

// ActivationTone builds a rising three note arpeggio at half volume.
func ActivationTone(rate beep.SampleRate) (beep.Streamer, error) {
	notes := make([]beep.Streamer, 0, len(activationNotes))
	for _, freq := range activationNotes {
		sine, err := generators.SineTone(rate, freq)
		if err != nil {
			return nil, fmt.Errorf("sine tone %.0fHz: %w", freq, err)
		}
		notes = append(notes, beep.Take(rate.N(NoteDuration), sine))
	}
	return &effects.Volume{Streamer: beep.Seq(notes...), Base: 2, Volume: -1}, nil
}
