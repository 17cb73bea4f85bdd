package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// PortAudioRecorder implements Recorder using PortAudio.
// PortAudio is initialized per recording so an idle app holds no stream.
type PortAudioRecorder struct {
	config Config
	mu     sync.Mutex // serialises recordings
}

// NewPortAudioRecorder creates a recorder with the given configuration
func NewPortAudioRecorder(config Config) *PortAudioRecorder {
	return &PortAudioRecorder{config: config}
}

// Record captures from the default input device
func (r *PortAudioRecorder) Record(ctx context.Context, d time.Duration) (samples []int16, name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		return nil, "", fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer func() {
		if termErr := portaudio.Terminate(); termErr != nil && err == nil {
			err = fmt.Errorf("failed to terminate PortAudio: %w", termErr)
		}
	}()

	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get default input device: %w", err)
	}

	// Validate device has input channels
	if device.MaxInputChannels <= 0 {
		return nil, device.Name, fmt.Errorf("device '%s' has no input channels", device.Name)
	}

	var latency time.Duration
	switch r.config.Latency {
	case LowLatency:
		latency = device.DefaultLowInputLatency
	default:
		latency = device.DefaultHighInputLatency
	}

	streamParams := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: r.config.Channels,
			Latency:  latency,
		},
		SampleRate:      float64(r.config.SampleRate),
		FramesPerBuffer: 1024,
	}

	var bufMu sync.Mutex
	buffer := make([]int16, 0, int(float64(r.config.SampleRate*r.config.Channels)*d.Seconds()))
	callback := func(in []int16) {
		bufMu.Lock()
		buffer = append(buffer, in...)
		bufMu.Unlock()
	}

	stream, err := portaudio.OpenStream(streamParams, callback)
	if err != nil {
		return nil, device.Name, fmt.Errorf("failed to open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, device.Name, fmt.Errorf("failed to start stream: %w", err)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	if err := stream.Stop(); err != nil {
		return nil, device.Name, fmt.Errorf("failed to stop stream: %w", err)
	}
	if ctx.Err() != nil {
		return nil, device.Name, ctx.Err()
	}

	bufMu.Lock()
	defer bufMu.Unlock()
	return append([]int16(nil), buffer...), device.Name, nil
}
