package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
)

var (
	mu          sync.Mutex
	initialized bool
)

// Init initializes the audio system
func Init() error {
	mu.Lock()
	defer mu.Unlock()
	if initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(time.Second/30))
	if err != nil {
		return err
	}

	initialized = true
	return nil
}

// Close shuts down the audio system
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if initialized {
		speaker.Close()
		initialized = false
	}
}

func enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return initialized
}

// squareWave generates a square wave tone (more retro/8-bit feel)
func squareWave(freq float64, duration time.Duration) beep.Streamer {
	numSamples := sampleRate.N(duration)
	phase := 0.0
	phaseStep := freq / float64(sampleRate)

	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			if numSamples <= 0 {
				return i, false
			}
			val := 0.2 // volume
			if math.Mod(phase, 1.0) > 0.5 {
				val = -val
			}
			samples[i][0] = val
			samples[i][1] = val
			phase += phaseStep
			numSamples--
		}
		return len(samples), true
	})
}

// note is one step of a cue
type note struct {
	freq     float64
	duration time.Duration
}

func (c Cue) notes() []note {
	switch c {
	case CuePaddleHit:
		return []note{{880, 50 * time.Millisecond}}
	case CueWallBounce:
		return []note{{440, 30 * time.Millisecond}}
	case CueScore:
		return []note{{660, 100 * time.Millisecond}, {440, 100 * time.Millisecond}, {330, 150 * time.Millisecond}}
	case CueMatchWon:
		return []note{{523, 120 * time.Millisecond}, {659, 120 * time.Millisecond}, {784, 120 * time.Millisecond}, {1047, 250 * time.Millisecond}}
	}
	return nil
}

// sequence chains the cue's notes into one streamer
func (c Cue) sequence() beep.Streamer {
	notes := c.notes()
	if len(notes) == 0 {
		return nil
	}
	streamers := make([]beep.Streamer, len(notes))
	for i, n := range notes {
		streamers[i] = squareWave(n.freq, n.duration)
	}
	return beep.Seq(streamers...)
}

// Play plays the cue. It is a no-op when audio is not initialized.
func Play(c Cue) {
	if !enabled() {
		return
	}
	if s := c.sequence(); s != nil {
		speaker.Play(s)
	}
}

// PlayAll plays every cue in order of importance, skipping minor cues when a
// score or win sound is present.
func PlayAll(cues []Cue) {
	major := false
	for _, c := range cues {
		if c == CueScore || c == CueMatchWon {
			major = true
		}
	}
	for _, c := range cues {
		if major && (c == CuePaddleHit || c == CueWallBounce) {
			continue
		}
		Play(c)
	}
}
