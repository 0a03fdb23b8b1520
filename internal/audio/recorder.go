package audio

import (
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

// SampleRate is the capture rate for all microphone input, mono.
const SampleRate = 16000

type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// RecordAuto captures from the default input until the speaker goes quiet:
// recording starts on the first frame above the silence threshold and stops
// after 600ms of silence, capped at 30s.
func (r *Recorder) RecordAuto() ([]float32, error) {
	const (
		frameSize        = 320 // 20ms
		silenceThreshRMS = 0.015
		silenceDuration  = 600 * float32(time.Millisecond)
		maxLengthSeconds = 30
	)

	buf := make([]float32, frameSize)
	out := make([]float32, 0, SampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking      bool
		silenceFrames int
	)

	maxFrames := maxLengthSeconds * SampleRate / frameSize

	for i := 0; i < maxFrames; i++ {
		if err := stream.Read(); err != nil {
			return nil, err
		}

		rms := frameRMS(buf)

		if rms > silenceThreshRMS {
			speaking = true
			silenceFrames = 0
			out = append(out, buf...)
		} else if speaking {
			silenceFrames++
			if float32(silenceFrames)*20 >= silenceDuration {
				break
			}
			out = append(out, buf...)
		}
	}

	return out, nil
}

// RecordUntil captures until stop fires or maxDur elapses. Used by
// push-to-talk style triggers where a second trigger ends the recording.
func (r *Recorder) RecordUntil(stop <-chan struct{}, maxDur time.Duration) ([]float32, error) {
	if maxDur <= 0 {
		maxDur = 15 * time.Second
	}

	const frameSize = 1024

	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(SampleRate), len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	deadline := time.Now().Add(maxDur)
	out := make([]float32, 0, int(float64(SampleRate)*maxDur.Seconds()))

	for {
		if time.Now().After(deadline) {
			break
		}

		select {
		case <-stop:
			return out, nil
		default:
		}

		if err := stream.Read(); err != nil {
			return nil, err
		}

		out = append(out, buf...)
	}

	if len(out) == 0 {
		return nil, errors.New("no audio recorded")
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
