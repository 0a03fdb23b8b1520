package web

import (
	"context"
	"encoding/json"
	log "log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"aura/internal/stt"
	"aura/pkg/audioconv"
)

// Frame is one message exchanged with a browser client. Data carries a
// base64-encoded audio blob (wav, mp3 or ogg) on "audio" frames.
type Frame struct {
	Kind    string `json:"kind"` // audio | text | transcript | reply | error
	Content string `json:"content,omitempty"`
	Data    []byte `json:"data,omitempty"`
}

// Responder resolves one user turn into a reply.
type Responder interface {
	Respond(ctx context.Context, input string) string
}

// Server drives the browser-based capture variant of the assistant: each
// websocket connection gets its own session, audio blobs are decoded and
// transcribed server-side, and replies go back as text frames.
type Server struct {
	upgrader    websocket.Upgrader
	newSession  func() Responder
	transcriber stt.Transcriber
	language    string
	maxSamples  int
}

func NewServer(newSession func() Responder, transcriber stt.Transcriber, language string) *Server {
	return &Server{
		newSession:  newSession,
		transcriber: transcriber,
		language:    language,
		maxSamples:  30 * audioconv.TargetRate, // same 30s cap as the microphone path
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade connection", "err", err)
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	responder := s.newSession()
	log.Info("Client connected", "session", session)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				log.Error("Failed to read frame", "session", session, "err", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.writeError(conn, "malformed frame")
			continue
		}

		var text string
		switch frame.Kind {
		case "text":
			text = frame.Content
		case "audio":
			text, err = s.transcribe(r.Context(), frame.Data)
			if err != nil {
				log.Warn("Failed to transcribe upload", "session", session, "err", err)
				s.writeError(conn, "transcription unavailable")
				continue
			}
			// Let the client display what was heard.
			if err := conn.WriteJSON(Frame{Kind: "transcript", Content: text}); err != nil {
				return
			}
		default:
			s.writeError(conn, "unknown frame kind")
			continue
		}

		reply := responder.Respond(r.Context(), text)
		if err := conn.WriteJSON(Frame{Kind: "reply", Content: reply}); err != nil {
			return
		}
	}
}

func (s *Server) transcribe(ctx context.Context, blob []byte) (string, error) {
	pcm, err := audioconv.DecodeToPCM16k(blob, audioconv.Options{MaxSamples: s.maxSamples})
	if err != nil {
		return "", err
	}
	return s.transcriber.Transcribe(ctx, pcm, s.language)
}

func (s *Server) writeError(conn *websocket.Conn, reason string) {
	if err := conn.WriteJSON(Frame{Kind: "error", Content: reason}); err != nil {
		log.Error("Failed to write error frame", "err", err)
	}
}
