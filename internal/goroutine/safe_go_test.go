package goroutine

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
	done chan struct{}
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	l.msgs = append(l.msgs, fmt.Sprintf(format, args...))
	l.mu.Unlock()
	close(l.done)
}

func TestRecoveryHandler_SafeGo_RecoversPanic(t *testing.T) {
	rec := &recordingLogger{done: make(chan struct{})}
	h := NewRecoveryHandler(rec)

	h.SafeGo(func() { panic("boom") })
	<-rec.done

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Len(t, rec.msgs, 1)
	assert.Contains(t, rec.msgs[0], "boom")
}

func TestRecoveryHandler_SafeGo_RunsFunction(t *testing.T) {
	h := NewRecoveryHandler(&recordingLogger{done: make(chan struct{})})

	ran := make(chan struct{})
	h.SafeGo(func() { close(ran) })
	<-ran
}
