package voice

import (
	"context"
	"sync"
)

// CaptureEvent is one scripted event a MockCapture delivers.
type CaptureEvent struct {
	Err          *CaptureError
	Alternatives []string
	End          bool
}

// MockCapture is a scriptable Capture for tests. Events queued in Script are
// delivered synchronously when Start is called; when EndOnStop is set, Stop
// delivers the end-of-capture signal, mimicking an engine that reacts to an
// explicit stop request.
type MockCapture struct {
	handler     CaptureHandler
	MicErr      error
	Script      []CaptureEvent
	StartCalls  int
	StopCalls   int
	Unsupported bool
	MicDenied   bool
	EndOnStop   bool
	mu          sync.Mutex
}

// Supported implements Capture.
func (m *MockCapture) Supported() bool {
	return !m.Unsupported
}

// RequestMicrophone implements Capture.
func (m *MockCapture) RequestMicrophone(_ context.Context) (bool, error) {
	if m.MicErr != nil {
		return false, m.MicErr
	}
	return !m.MicDenied, nil
}

// Start implements Capture, replaying the script into the handler.
func (m *MockCapture) Start(_ context.Context, _ CaptureConfig, h CaptureHandler) error {
	m.mu.Lock()
	m.StartCalls++
	m.handler = h
	script := m.Script
	m.Script = nil
	m.mu.Unlock()

	for _, ev := range script {
		switch {
		case ev.Err != nil:
			h.HandleError(ev.Err)
		case ev.End:
			h.HandleEnd()
		default:
			h.HandleResult(ev.Alternatives)
		}
	}
	return nil
}

// Stop implements Capture.
func (m *MockCapture) Stop() {
	m.mu.Lock()
	m.StopCalls++
	h := m.handler
	endOnStop := m.EndOnStop
	if endOnStop {
		m.handler = nil
	}
	m.mu.Unlock()

	if endOnStop && h != nil {
		h.HandleEnd()
	}
}

// Emit delivers an ad-hoc event to the current handler, for tests that drive
// a continuous capture after Start returned.
func (m *MockCapture) Emit(ev CaptureEvent) {
	m.mu.Lock()
	h := m.handler
	m.mu.Unlock()
	if h == nil {
		return
	}
	switch {
	case ev.Err != nil:
		h.HandleError(ev.Err)
	case ev.End:
		h.HandleEnd()
	default:
		h.HandleResult(ev.Alternatives)
	}
}
