package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler_DefaultsWriter(t *testing.T) {
	handler := NewInterruptHandler(nil)
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestInterruptHandler_TriggerCancels(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	ctx, stop := handler.HandleInterrupts(context.Background())
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled before any signal")
	default:
	}

	handler.trigger()

	<-ctx.Done()
	assert.True(t, handler.WasInterrupted())
	assert.Contains(t, output.String(), "stopping after the current file")
}

func TestInterruptHandler_MessageShownOnce(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)
	_, stop := handler.HandleInterrupts(context.Background())
	defer stop()

	handler.trigger()
	handler.trigger()

	assert.Equal(t, 1, strings.Count(output.String(), "Interrupted"))
}

func TestInterruptHandler_ParentCancelIsNotInterrupt(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := handler.HandleInterrupts(parent)
	defer stop()

	cancel()
	<-ctx.Done()

	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}
