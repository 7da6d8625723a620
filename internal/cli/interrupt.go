package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels a context on SIGINT or SIGTERM and tells the
// user that routing stops after the file in progress.
type InterruptHandler struct {
	writer      io.Writer
	cancel      context.CancelFunc
	interrupted bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stderr
	}
	return &InterruptHandler{writer: writer}
}

// HandleInterrupts returns a context that is cancelled on the first
// interrupt signal. The returned stop function releases the signal handler.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			h.trigger()
		case <-ctx.Done():
		}
	}()

	stop := func() {
		signal.Stop(sigChan)
		cancel()
	}
	return ctx, stop
}

// trigger marks the handler interrupted, prints the notice once and cancels.
func (h *InterruptHandler) trigger() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.interrupted {
		return
	}
	h.interrupted = true
	msg := "\n" + FormatWarning("Interrupted, stopping after the current file.") +
		"\n" + FormatInfo("Files not yet routed stay in place for the next run.") + "\n"
	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// WasInterrupted returns true if a signal arrived.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
