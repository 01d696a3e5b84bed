// Package voice implements the voice-to-expense session pipeline: speech
// capture orchestration, the pending-expense state machine, and hotword
// activation.
package voice

import "context"

// CaptureErrorCode identifies a capture-level failure reported by the speech
// capability.
type CaptureErrorCode string

// Capture error codes, mirroring the conditions speech engines report.
const (
	CaptureErrNoSpeech             CaptureErrorCode = "no-speech"
	CaptureErrAborted              CaptureErrorCode = "aborted"
	CaptureErrAudioCapture         CaptureErrorCode = "audio-capture"
	CaptureErrNetwork              CaptureErrorCode = "network"
	CaptureErrNotAllowed           CaptureErrorCode = "not-allowed"
	CaptureErrServiceNotAllowed    CaptureErrorCode = "service-not-allowed"
	CaptureErrBadGrammar           CaptureErrorCode = "bad-grammar"
	CaptureErrLanguageNotSupported CaptureErrorCode = "language-not-supported"
)

// CaptureError is a named error condition delivered by a Capture.
type CaptureError struct {
	Code    CaptureErrorCode
	Message string
}

func (e *CaptureError) Error() string {
	if e.Message != "" {
		return string(e.Code) + ": " + e.Message
	}
	return string(e.Code)
}

// UserMessage returns the Spanish human-readable text for the error code.
func (e *CaptureError) UserMessage() string {
	switch e.Code {
	case CaptureErrNoSpeech:
		return "No se detectó ninguna voz"
	case CaptureErrAborted:
		return "Reconocimiento cancelado"
	case CaptureErrAudioCapture:
		return "No se pudo acceder al micrófono"
	case CaptureErrNetwork:
		return "Error de red al procesar la voz"
	case CaptureErrNotAllowed:
		return "Permiso de micrófono denegado"
	case CaptureErrServiceNotAllowed:
		return "Servicio de reconocimiento no disponible"
	case CaptureErrBadGrammar:
		return "Problema con la gramática de reconocimiento"
	case CaptureErrLanguageNotSupported:
		return "Idioma no soportado"
	default:
		return "Error desconocido"
	}
}

// CaptureConfig configures a capture run.
type CaptureConfig struct {
	// Language is the BCP 47 recognition language tag.
	Language string
	// MaxAlternatives is how many transcript interpretations to request.
	MaxAlternatives int
	// Continuous keeps the capture open across utterances instead of ending
	// after the first one. Hotword detection uses continuous mode; expense
	// sessions are one-shot.
	Continuous bool
}

// CaptureHandler receives the events of a capture run. For a one-shot capture
// the sequence is at most one HandleResult or HandleError, always followed by
// HandleEnd. Continuous captures may deliver many results before ending.
type CaptureHandler interface {
	// HandleResult delivers ranked transcript alternatives, best first.
	HandleResult(alternatives []string)
	// HandleError delivers a named capture failure.
	HandleError(err *CaptureError)
	// HandleEnd signals end of capture, natural or requested.
	HandleEnd()
}

// Capture is the abstract microphone and speech-to-text capability. The
// microphone is an exclusive resource: callers must never run two captures at
// the same time.
type Capture interface {
	// Supported reports whether speech capture is available at all.
	Supported() bool
	// RequestMicrophone asks for microphone permission.
	RequestMicrophone(ctx context.Context) (bool, error)
	// Start begins a capture run delivering events to the handler.
	Start(ctx context.Context, cfg CaptureConfig, h CaptureHandler) error
	// Stop requests an early end of the current capture run.
	Stop()
}
