package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go/v3"

	"aura/pkg/audioconv"
)

// Remote transcribes audio through the hosted whisper-1 model.
type Remote struct {
	client openai.Client
}

func NewRemote(client openai.Client) *Remote {
	return &Remote{client: client}
}

func (r *Remote) Transcribe(ctx context.Context, pcm []float32, language string) (string, error) {
	if len(pcm) == 0 {
		return "", errors.New("no audio samples provided")
	}

	blob, err := audioconv.EncodeWAV16k(pcm)
	if err != nil {
		return "", fmt.Errorf("encode wav: %w", err)
	}

	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  openai.File(bytes.NewReader(blob), "audio.wav", "audio/wav"),
	}
	if language != "" && language != "auto" {
		params.Language = openai.String(language)
	}

	res, err := r.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription unavailable: %w", err)
	}
	return res.Text, nil
}

func (r *Remote) Close() error { return nil }
