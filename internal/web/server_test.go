package web

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/pkg/audioconv"
)

type echoResponder struct {
	inputs []string
}

func (r *echoResponder) Respond(_ context.Context, input string) string {
	r.inputs = append(r.inputs, input)
	return "you said: " + input
}

type fakeTranscriber struct {
	text    string
	err     error
	samples int
	lang    string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, pcm []float32, language string) (string, error) {
	f.samples = len(pcm)
	f.lang = language
	return f.text, f.err
}

func (f *fakeTranscriber) Close() error { return nil }

func dialTestServer(t *testing.T, responder Responder, transcriber *fakeTranscriber) *websocket.Conn {
	t.Helper()
	srv := NewServer(func() Responder { return responder }, transcriber, "en")
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestTextFrameRoundTrip(t *testing.T) {
	responder := &echoResponder{}
	conn := dialTestServer(t, responder, &fakeTranscriber{})

	require.NoError(t, conn.WriteJSON(Frame{Kind: "text", Content: "what time is it"}))

	reply := readFrame(t, conn)
	assert.Equal(t, "reply", reply.Kind)
	assert.Equal(t, "you said: what time is it", reply.Content)
	assert.Equal(t, []string{"what time is it"}, responder.inputs)
}

func TestAudioFrameIsTranscribedFirst(t *testing.T) {
	responder := &echoResponder{}
	transcriber := &fakeTranscriber{text: "schedule a meeting"}
	conn := dialTestServer(t, responder, transcriber)

	pcm := make([]float32, audioconv.TargetRate/2) // half a second of silence
	blob, err := audioconv.EncodeWAV16k(pcm)
	require.NoError(t, err)

	require.NoError(t, conn.WriteJSON(Frame{Kind: "audio", Data: blob}))

	transcript := readFrame(t, conn)
	assert.Equal(t, "transcript", transcript.Kind)
	assert.Equal(t, "schedule a meeting", transcript.Content)

	reply := readFrame(t, conn)
	assert.Equal(t, "reply", reply.Kind)
	assert.Equal(t, "you said: schedule a meeting", reply.Content)

	assert.Equal(t, len(pcm), transcriber.samples)
	assert.Equal(t, "en", transcriber.lang)
}

func TestTranscriptionFailureReportsError(t *testing.T) {
	responder := &echoResponder{}
	transcriber := &fakeTranscriber{err: fmt.Errorf("upstream down")}
	conn := dialTestServer(t, responder, transcriber)

	blob, err := audioconv.EncodeWAV16k(make([]float32, 160))
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Frame{Kind: "audio", Data: blob}))

	frame := readFrame(t, conn)
	assert.Equal(t, "error", frame.Kind)
	assert.Equal(t, "transcription unavailable", frame.Content)
	assert.Empty(t, responder.inputs, "a failed upload must not reach the session")
}

func TestUndecodableAudioReportsError(t *testing.T) {
	conn := dialTestServer(t, &echoResponder{}, &fakeTranscriber{})

	require.NoError(t, conn.WriteJSON(Frame{Kind: "audio", Data: []byte("not audio at all")}))

	frame := readFrame(t, conn)
	assert.Equal(t, "error", frame.Kind)
}

func TestUnknownFrameKindReportsError(t *testing.T) {
	conn := dialTestServer(t, &echoResponder{}, &fakeTranscriber{})

	require.NoError(t, conn.WriteJSON(Frame{Kind: "video"}))

	frame := readFrame(t, conn)
	assert.Equal(t, "error", frame.Kind)
	assert.Equal(t, "unknown frame kind", frame.Content)
}

func TestMalformedFrameReportsError(t *testing.T) {
	conn := dialTestServer(t, &echoResponder{}, &fakeTranscriber{})

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	frame := readFrame(t, conn)
	assert.Equal(t, "error", frame.Kind)
	assert.Equal(t, "malformed frame", frame.Content)
}
