package tts

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"aura/internal/audio"
)

// Speaker vocalizes replies on a background goroutine. Say never blocks and
// never reports back: at-most-once, no join, no cancellation. Failures are
// logged and swallowed. Utterances are serialized because espeak-ng owns the
// audio device globally.
type Speaker struct {
	mu     sync.Mutex
	opt    Options
	ducker *audio.Ducker
}

// NewSpeaker builds a speaker. ducker may be nil; when set, other playback
// streams are faded down while an utterance is in progress.
func NewSpeaker(opt Options, ducker *audio.Ducker) *Speaker {
	return &Speaker{opt: opt, ducker: ducker}
}

func (s *Speaker) Say(text string) {
	if text == "" {
		return
	}

	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		ctx := context.Background()

		if s.ducker != nil {
			if err := s.ducker.DuckOthers(ctx, 0.3, 200*time.Millisecond); err != nil {
				log.Warn("Failed to duck other streams", "err", err)
			}
			defer func() {
				if err := s.ducker.UnduckOthers(ctx, 300*time.Millisecond); err != nil {
					log.Warn("Failed to restore other streams", "err", err)
				}
			}()
		}

		if err := Speak(text, s.opt); err != nil {
			log.Error("Failed to voice out", "err", err)
		}
	}()
}
