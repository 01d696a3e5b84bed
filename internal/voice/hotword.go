package voice

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/luzi-app/luzi/internal/normalize"
)

// Hotword phrase variants the listener accepts, covering the common
// misrecognitions of the activation phrase.
var defaultHotwords = []string{"hey luzi", "hey lusi", "hey lucy"}

// SessionStarter starts an expense capture session. Implemented by the
// session controller.
type SessionStarter interface {
	StartSession(ctx context.Context) error
}

// HotwordListener runs a continuous low-power capture that watches for the
// activation phrase. On a match it pauses itself and starts a controller
// session; it resumes once the controller returns to idle. The listener and
// the session capture never hold the microphone at the same time.
type HotwordListener struct {
	capture   Capture
	starter   SessionStarter
	ctx       context.Context
	phrases   []string
	language  string
	listening bool
	mu        sync.Mutex
}

// NewHotwordListener creates a listener over its own capture instance.
func NewHotwordListener(capture Capture, starter SessionStarter) *HotwordListener {
	return &HotwordListener{
		capture:  capture,
		starter:  starter,
		phrases:  defaultHotwords,
		language: "es-ES",
	}
}

// Start begins continuous hotword detection.
func (h *HotwordListener) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.listening {
		h.mu.Unlock()
		return nil
	}
	h.listening = true
	h.ctx = ctx
	h.mu.Unlock()

	slog.Info("hotword detection started")
	return h.capture.Start(ctx, h.captureConfig(), h)
}

// Pause stops the capture while remembering that detection should not
// restart until Resume is called.
func (h *HotwordListener) Pause() {
	h.mu.Lock()
	if !h.listening {
		h.mu.Unlock()
		return
	}
	h.listening = false
	h.mu.Unlock()

	slog.Debug("hotword detection paused")
	h.capture.Stop()
}

// Resume restarts detection after a session released the microphone.
func (h *HotwordListener) Resume() {
	h.mu.Lock()
	if h.listening || h.ctx == nil {
		h.mu.Unlock()
		return
	}
	h.listening = true
	ctx := h.ctx
	h.mu.Unlock()

	slog.Debug("hotword detection resumed")
	if err := h.capture.Start(ctx, h.captureConfig(), h); err != nil {
		slog.Error("failed to resume hotword capture", "error", err)
	}
}

// Stop ends detection for good.
func (h *HotwordListener) Stop() {
	h.mu.Lock()
	h.listening = false
	h.mu.Unlock()
	h.capture.Stop()
}

// HandleResult checks the latest utterance against the activation phrases.
func (h *HotwordListener) HandleResult(alternatives []string) {
	if len(alternatives) == 0 {
		return
	}
	utterance := normalize.Fold(strings.TrimSpace(alternatives[0]))

	for _, phrase := range h.phrases {
		if !strings.Contains(utterance, phrase) {
			continue
		}
		slog.Info("hotword detected", "utterance", utterance)

		h.mu.Lock()
		ctx := h.ctx
		h.mu.Unlock()

		h.Pause()
		if err := h.starter.StartSession(ctx); err != nil {
			slog.Error("failed to start session from hotword", "error", err)
			h.Resume()
		}
		return
	}
}

// HandleError ignores the routine no-speech condition; anything else is
// logged and the end-of-capture restart takes care of recovery.
func (h *HotwordListener) HandleError(capErr *CaptureError) {
	if capErr.Code == CaptureErrNoSpeech {
		return
	}
	slog.Warn("hotword capture error", "code", capErr.Code)
}

// HandleEnd restarts the capture as long as detection is active.
func (h *HotwordListener) HandleEnd() {
	h.mu.Lock()
	restart := h.listening
	ctx := h.ctx
	h.mu.Unlock()

	if !restart {
		return
	}
	if err := h.capture.Start(ctx, h.captureConfig(), h); err != nil {
		slog.Error("failed to restart hotword capture", "error", err)
	}
}

func (h *HotwordListener) captureConfig() CaptureConfig {
	return CaptureConfig{
		Language:   h.language,
		Continuous: true,
	}
}
