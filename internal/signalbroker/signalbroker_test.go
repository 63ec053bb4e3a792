// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// newTestBroker returns a broker and a function that stops its goroutine.
func newTestBroker() (*Broker, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	b := New(ctx)

	return b, func() {
		cancel()
		<-b.Done()
	}
}

type recorder struct {
	mu   sync.Mutex
	sigs []os.Signal
}

func (r *recorder) handle(sig os.Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sigs = append(r.sigs, sig)
}

func (r *recorder) got() []os.Signal {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]os.Signal(nil), r.sigs...)
}

func TestBroker_InnermostHandlerOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	b, stop := newTestBroker()
	defer stop()

	var outer, inner recorder

	restoreOuter := b.Push(outer.handle)
	defer restoreOuter()

	restoreInner := b.Push(inner.handle)
	b.Notify(os.Interrupt)

	assert.Eventually(t, func() bool { return len(inner.got()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, outer.got())

	restoreInner()
	b.Notify(syscall.SIGTERM)

	assert.Eventually(t, func() bool { return len(outer.got()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []os.Signal{syscall.SIGTERM}, outer.got())
	assert.Len(t, inner.got(), 1)
}

func TestBroker_RestoreIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	b, stop := newTestBroker()
	defer stop()

	var outer, inner recorder

	restoreOuter := b.Push(outer.handle)
	restoreInner := b.Push(inner.handle)

	restoreInner()
	restoreInner()

	b.mu.Lock()
	require.Len(t, b.handlers, 1)
	b.mu.Unlock()

	restoreOuter()

	b.mu.Lock()
	assert.Empty(t, b.handlers)
	assert.False(t, b.notified)
	b.mu.Unlock()
}

func TestBroker_NoHandlerIgnoresSignal(t *testing.T) {
	defer goleak.VerifyNone(t)

	exited := make(chan int, 1)
	stubs := gostub.Stub(&osExit, func(code int) { exited <- code })
	defer stubs.Reset()

	b, stop := newTestBroker()
	defer stop()
	b.Notify(os.Interrupt)

	select {
	case code := <-exited:
		t.Fatalf("unexpected exit with code %d", code)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroker_SecondSignalForcesExit(t *testing.T) {
	defer goleak.VerifyNone(t)

	exited := make(chan int, 1)
	stubs := gostub.Stub(&osExit, func(code int) { exited <- code })
	defer stubs.Reset()

	b, stop := newTestBroker()
	defer stop()

	var r recorder

	restore := b.Push(r.handle)
	defer restore()

	b.Notify(os.Interrupt)
	b.Notify(os.Interrupt)

	select {
	case code := <-exited:
		assert.Equal(t, ForcedExitCode, code)
	case <-time.After(time.Second):
		t.Fatal("second signal should force an exit")
	}

	assert.Len(t, r.got(), 1)
}

func TestBroker_DifferentSignalsDoNotExit(t *testing.T) {
	defer goleak.VerifyNone(t)

	exited := make(chan int, 1)
	stubs := gostub.Stub(&osExit, func(code int) { exited <- code })
	defer stubs.Reset()

	b, stop := newTestBroker()
	defer stop()

	var r recorder

	restore := b.Push(r.handle)
	defer restore()

	b.Notify(os.Interrupt)
	b.Notify(syscall.SIGTERM)

	assert.Eventually(t, func() bool { return len(r.got()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, exited)
}

func TestBroker_HandlerPushedAfterSignalReceivesRepeat(t *testing.T) {
	defer goleak.VerifyNone(t)

	exited := make(chan int, 1)
	stubs := gostub.Stub(&osExit, func(code int) { exited <- code })
	defer stubs.Reset()

	b, stop := newTestBroker()
	defer stop()

	var (
		outer, inner recorder
		mu           sync.Mutex
		restoreInner func()
	)

	restoreOuter := b.Push(func(sig os.Signal) {
		outer.handle(sig)

		mu.Lock()
		restoreInner = b.Push(inner.handle)
		mu.Unlock()
	})
	defer restoreOuter()

	b.Notify(os.Interrupt)
	b.Notify(os.Interrupt)

	assert.Eventually(t, func() bool { return len(inner.got()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Len(t, outer.got(), 1)
	assert.Empty(t, exited)

	b.Notify(os.Interrupt)

	select {
	case code := <-exited:
		assert.Equal(t, ForcedExitCode, code)
	case <-time.After(time.Second):
		t.Fatal("a signal the innermost handler already received should force an exit")
	}

	mu.Lock()
	restoreInner()
	mu.Unlock()
}

func TestBroker_FreshHandlerAfterRestore(t *testing.T) {
	defer goleak.VerifyNone(t)

	exited := make(chan int, 1)
	stubs := gostub.Stub(&osExit, func(code int) { exited <- code })
	defer stubs.Reset()

	b, stop := newTestBroker()
	defer stop()

	var first, second recorder

	restore := b.Push(first.handle)
	b.Notify(os.Interrupt)
	assert.Eventually(t, func() bool { return len(first.got()) == 1 }, time.Second, 5*time.Millisecond)
	restore()

	restore = b.Push(second.handle)
	defer restore()

	b.Notify(os.Interrupt)
	assert.Eventually(t, func() bool { return len(second.got()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, exited)
}

func TestNilBroker(t *testing.T) {
	var b *Broker

	restore := b.Push(func(os.Signal) {})
	restore()
	b.Notify(os.Interrupt)
}

func TestContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	assert.Nil(t, FromContext(context.Background()))

	b, stop := newTestBroker()
	defer stop()
	ctx := WithBroker(context.Background(), b)
	assert.Same(t, b, FromContext(ctx))
}
