package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate    = beep.SampleRate(44100)
	bellFrequency = 880
	bellDuration  = 80 * time.Millisecond
)

// Bell plays a short tone for the console bell; silent when audio is unavailable
type Bell struct {
	mu          sync.Mutex
	initialized bool
	rings       uint64
}

// NewBell creates an uninitialized bell
func NewBell() *Bell {
	return &Bell{}
}

// Initialize opens the speaker
func (b *Bell) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	b.initialized = true
	return nil
}

// Ring plays the bell tone without blocking
func (b *Bell) Ring() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rings++
	if !b.initialized {
		return
	}
	tone, err := Tone(sampleRate, bellDuration)
	if err != nil {
		return
	}
	speaker.Play(tone)
}

// Rings returns how many times Ring was called
func (b *Bell) Rings() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rings
}

// Cleanup closes the speaker
func (b *Bell) Cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	b.initialized = false
}

// Tone returns a sine streamer of the bell frequency lasting d
func Tone(sr beep.SampleRate, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sr, bellFrequency)
	if err != nil {
		return nil, err
	}
	return beep.Take(sr.N(d), sine), nil
}
