// Package audio measures the input level of the default microphone, so a
// user can confirm that a muted device really delivers silence.
package audio

import (
	"context"
	"fmt"
	"math"
	"time"
)

// DefaultDuration is how long a microphone check records
const DefaultDuration = time.Second

// SilenceThreshold is the peak below which input counts as silent (about -60 dBFS)
const SilenceThreshold = 0.001

// LatencyMode defines the latency priority
type LatencyMode int

const (
	// LowLatency prioritizes low latency (real-time)
	LowLatency LatencyMode = iota
	// HighStability prioritizes stability (larger buffer)
	HighStability
)

// Config holds capture configuration
type Config struct {
	SampleRate int
	Channels   int
	Latency    LatencyMode
}

// DefaultConfig returns 16kHz mono with the stable latency setting
func DefaultConfig() Config {
	return Config{
		SampleRate: 16000,
		Channels:   1,
		Latency:    HighStability,
	}
}

// Recorder captures raw samples from the default input device
type Recorder interface {
	// Record captures for d or until ctx is done and returns the samples
	// plus the name of the device they came from.
	Record(ctx context.Context, d time.Duration) ([]int16, string, error)
}

// Level summarises a capture
type Level struct {
	Device  string
	Samples int
	Peak    float64 // 0..1 of full scale
	RMS     float64 // 0..1 of full scale
}

// Silent reports whether the capture carried no signal
func (l Level) Silent() bool {
	return l.Peak < SilenceThreshold
}

// Percent returns the peak as a whole percentage of full scale
func (l Level) Percent() int {
	return int(math.Round(l.Peak * 100))
}

// DBFS returns the peak in decibels relative to full scale
func (l Level) DBFS() float64 {
	if l.Peak <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(l.Peak)
}

// Measure computes peak and RMS of samples
func Measure(samples []int16) Level {
	lvl := Level{Samples: len(samples)}
	if len(samples) == 0 {
		return lvl
	}

	var peak int
	var sum float64
	for _, s := range samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
		sum += float64(s) * float64(s)
	}

	// -32768 would exceed full scale by one step
	lvl.Peak = math.Min(float64(peak)/math.MaxInt16, 1)
	lvl.RMS = math.Min(math.Sqrt(sum/float64(len(samples)))/math.MaxInt16, 1)
	return lvl
}

// Probe runs microphone checks
type Probe struct {
	recorder Recorder
	duration time.Duration
}

// NewProbe creates a probe recording for d (DefaultDuration if zero)
func NewProbe(recorder Recorder, d time.Duration) *Probe {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Probe{recorder: recorder, duration: d}
}

// Check records once and returns the measured level
func (p *Probe) Check(ctx context.Context) (Level, error) {
	samples, device, err := p.recorder.Record(ctx, p.duration)
	if err != nil {
		return Level{}, fmt.Errorf("microphone check: %w", err)
	}
	if len(samples) == 0 {
		return Level{}, fmt.Errorf("microphone check: no samples captured from %q", device)
	}

	lvl := Measure(samples)
	lvl.Device = device
	return lvl, nil
}
