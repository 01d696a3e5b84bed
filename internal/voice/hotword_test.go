package voice

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStarter records session start requests.
type mockStarter struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (s *mockStarter) StartSession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

func (s *mockStarter) startCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestHotwordListener_DetectsActivationPhrase(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      bool
	}{
		{name: "canonical phrase", utterance: "hey luzi", want: true},
		{name: "phrase inside an utterance", utterance: "bueno hey luzi anotá esto", want: true},
		{name: "misrecognized variant lusi", utterance: "Hey Lusi", want: true},
		{name: "misrecognized variant lucy", utterance: "hey lucy", want: true},
		{name: "accented transcript", utterance: "HEY LUZÍ", want: true},
		{name: "unrelated speech", utterance: "qué hora es", want: false},
		{name: "empty utterance", utterance: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture := &MockCapture{}
			starter := &mockStarter{}
			listener := NewHotwordListener(capture, starter)
			require.NoError(t, listener.Start(context.Background()))

			capture.Emit(CaptureEvent{Alternatives: []string{tt.utterance}})

			if tt.want {
				assert.Equal(t, 1, starter.startCalls())
				// Detection paused itself before starting the session.
				assert.Equal(t, 1, capture.StopCalls)
			} else {
				assert.Zero(t, starter.startCalls())
				assert.Zero(t, capture.StopCalls)
			}
		})
	}
}

func TestHotwordListener_RestartsOnNaturalEnd(t *testing.T) {
	capture := &MockCapture{}
	listener := NewHotwordListener(capture, &mockStarter{})
	require.NoError(t, listener.Start(context.Background()))
	require.Equal(t, 1, capture.StartCalls)

	capture.Emit(CaptureEvent{End: true})

	assert.Equal(t, 2, capture.StartCalls)
}

func TestHotwordListener_PauseStopsRestarting(t *testing.T) {
	capture := &MockCapture{}
	listener := NewHotwordListener(capture, &mockStarter{})
	require.NoError(t, listener.Start(context.Background()))

	listener.Pause()
	capture.Emit(CaptureEvent{End: true})

	assert.Equal(t, 1, capture.StartCalls)

	listener.Resume()
	assert.Equal(t, 2, capture.StartCalls)
}

func TestHotwordListener_ResumeBeforeStartIsNoop(t *testing.T) {
	capture := &MockCapture{}
	listener := NewHotwordListener(capture, &mockStarter{})

	listener.Resume()

	assert.Zero(t, capture.StartCalls)
}

func TestHotwordListener_FailedSessionStartResumesDetection(t *testing.T) {
	capture := &MockCapture{}
	starter := &mockStarter{err: assert.AnError}
	listener := NewHotwordListener(capture, starter)
	require.NoError(t, listener.Start(context.Background()))

	capture.Emit(CaptureEvent{Alternatives: []string{"hey luzi"}})

	assert.Equal(t, 1, starter.startCalls())
	// Pause then Resume: the capture was started twice in total.
	assert.Equal(t, 2, capture.StartCalls)
}

func TestHotwordListener_IgnoresNoSpeechErrors(t *testing.T) {
	capture := &MockCapture{}
	listener := NewHotwordListener(capture, &mockStarter{})
	require.NoError(t, listener.Start(context.Background()))

	capture.Emit(CaptureEvent{Err: &CaptureError{Code: CaptureErrNoSpeech}})

	assert.Equal(t, 1, capture.StartCalls)
	assert.Zero(t, capture.StopCalls)
}
