package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/luzi-app/luzi/internal/voice"
)

// TerminalCapture implements voice.Capture over typed input: each line stands
// in for a recognized utterance. It lets the whole session pipeline run in a
// terminal without a speech engine.
//
// A single reader loop owns the input stream; Start and Stop swap the active
// handler instead of spawning a reader per capture run. That keeps the
// hotword-to-session handoff safe: the hotword listener stops its capture and
// starts the session capture from inside its own result callback. While no
// handler is active the loop does not read, so the stream can be shared with
// the Prompter.
type TerminalCapture struct {
	writer io.Writer
	reader *NonBlockingReader
	active chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	handler voice.CaptureHandler
	cfg     voice.CaptureConfig
	closed  bool

	loopOnce sync.Once
}

// NewTerminalCapture creates a capture that reads utterances from reader.
func NewTerminalCapture(reader io.Reader, writer io.Writer) *TerminalCapture {
	if reader == nil {
		reader = os.Stdin
	}
	return NewTerminalCaptureWithReader(NewNonBlockingReader(reader), writer)
}

// NewTerminalCaptureWithReader creates a capture over an existing reader so
// the input stream can be shared with other consumers.
func NewTerminalCaptureWithReader(reader *NonBlockingReader, writer io.Writer) *TerminalCapture {
	if writer == nil {
		writer = os.Stdout
	}

	return &TerminalCapture{
		reader: reader,
		writer: writer,
		active: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Supported always reports true: a terminal can always take typed input.
func (c *TerminalCapture) Supported() bool { return true }

// RequestMicrophone always grants: there is no real microphone to ask for.
func (c *TerminalCapture) RequestMicrophone(_ context.Context) (bool, error) {
	return true, nil
}

// Done is closed when the input stream ends.
func (c *TerminalCapture) Done() <-chan struct{} {
	return c.done
}

// Start activates a capture run delivering typed lines to the handler.
// One-shot runs end after the first line; continuous runs keep going until
// Stop or end of input.
func (c *TerminalCapture) Start(ctx context.Context, cfg voice.CaptureConfig, h voice.CaptureHandler) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.New("input stream closed")
	}
	if c.handler != nil {
		c.mu.Unlock()
		return errors.New("capture already running")
	}
	c.handler = h
	c.cfg = cfg
	c.mu.Unlock()

	fmt.Fprintln(c.writer, FormatInfo(MicIcon+" Escuchando (escribí el gasto y Enter)..."))

	c.loopOnce.Do(func() {
		go c.loop(ctx)
	})

	// Wake the reader loop.
	select {
	case c.active <- struct{}{}:
	default:
	}
	return nil
}

// Stop deactivates the current run and delivers its end-of-capture signal.
// The underlying reader stays usable for the next Start.
func (c *TerminalCapture) Stop() {
	c.mu.Lock()
	h := c.handler
	c.handler = nil
	c.mu.Unlock()

	if h != nil {
		h.HandleEnd()
	}
}

func (c *TerminalCapture) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.close()
			return
		case <-c.active:
		}

		for c.hasHandler() {
			line, err := c.reader.ReadLine(ctx)
			if err != nil {
				c.close()
				return
			}
			c.dispatch(line)
		}
	}
}

func (c *TerminalCapture) hasHandler() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler != nil
}

// dispatch routes one typed line to the active handler, honoring one-shot
// semantics.
func (c *TerminalCapture) dispatch(line string) {
	c.mu.Lock()
	h := c.handler
	oneShot := h != nil && !c.cfg.Continuous
	if oneShot {
		// Detach before the callback so the next capture can start from
		// inside it: idle handlers resume the hotword listener.
		c.handler = nil
	}
	c.mu.Unlock()

	if h == nil {
		return
	}

	if line == "" {
		h.HandleError(&voice.CaptureError{Code: voice.CaptureErrNoSpeech})
	} else {
		h.HandleResult([]string{line})
	}

	if oneShot {
		h.HandleEnd()
	}
}

// close marks end of input and ends the active run, if any.
func (c *TerminalCapture) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	h := c.handler
	c.handler = nil
	c.mu.Unlock()

	close(c.done)
	if h != nil {
		h.HandleEnd()
	}
}
