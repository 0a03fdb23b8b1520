package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Local transcribes on-device through whisper.cpp. Used when no network (or
// no API key) should be involved in speech-to-text.
type Local struct {
	model whisper.Model
}

func NewLocal(modelPath string) (*Local, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &Local{model: m}, nil
}

func (l *Local) Transcribe(ctx context.Context, pcm []float32, language string) (string, error) {
	if l.model == nil {
		return "", errors.New("nil model")
	}
	if len(pcm) == 0 {
		return "", errors.New("no audio samples provided")
	}

	wctx, err := l.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("new context: %w", err)
	}

	if language == "" {
		language = "auto"
	}
	if err := wctx.SetLanguage(language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	wctx.SetThreads(uint(runtime.NumCPU()))

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process: %w", err)
	}

	var parts []string
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}
		parts = append(parts, seg.Text)
	}

	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

func (l *Local) Close() error {
	if l.model == nil {
		return nil
	}
	return l.model.Close()
}
