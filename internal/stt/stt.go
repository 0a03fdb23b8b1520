package stt

import "context"

// Transcriber turns mono 16 kHz PCM into text. language is a hint such as
// "en"; "auto" or "" lets the backend decide where it can.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []float32, language string) (string, error)
	Close() error
}
