package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// InterruptHandler tells the user what happened when a long-running
// command is canceled from outside.
type InterruptHandler struct {
	writer      io.Writer
	cancelFunc  context.CancelFunc
	done        chan struct{}
	task        string
	resumeHint  string
	interrupted bool
	stopOnce    sync.Once
	mu          sync.Mutex
}

// NewInterruptHandler creates a new interrupt handler for task.
func NewInterruptHandler(writer io.Writer, task string) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{
		writer: writer,
		task:   task,
		done:   make(chan struct{}),
	}
}

// HandleInterrupts returns a context derived from ctx. When ctx is canceled
// before Stop is called, a friendly message naming resumeHint (if any) is
// written once.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, resumeHint string) context.Context {
	child, cancel := context.WithCancel(ctx)
	h.cancelFunc = cancel
	h.resumeHint = resumeHint

	go func() {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			if !h.interrupted {
				h.interrupted = true
				h.showInterruptMessage()
			}
			h.mu.Unlock()
			cancel()
		case <-h.done:
		}
	}()

	return child
}

// Stop releases the handler once the task has finished.
func (h *InterruptHandler) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		if h.cancelFunc != nil {
			h.cancelFunc()
		}
	})
}

// showInterruptMessage displays a friendly interrupt message.
func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n\n" + FormatWarning(h.task+" interrupted!")

	if h.resumeHint != "" {
		msg += "\n" + FormatInfo("Progress has been saved. Resume with: "+h.resumeHint)
	}

	msg += "\n" + FormatInfo("See you later! "+CoffeeIcon) + "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		// Best effort - we're shutting down anyway
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the task was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
