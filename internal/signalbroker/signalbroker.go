// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker delivers OS termination signals to a stack of scoped handlers.
// By default it listens for os.Interrupt and syscall.SIGTERM.
//
// Only the innermost handler receives a signal. Pushing a handler returns a function
// that restores the previous one, so a scope can install a handler and defer its removal.
// A signal of a type the innermost handler has already received terminates the process
// with exit status 130. A handler pushed after the first signal, for example by a scope
// that is tearing down child processes, receives the next signal instead.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/matt-FFFFFF/localci/internal/ctxlog"
)

// ForcedExitCode is the exit status used when a second signal forces termination.
const ForcedExitCode = 130

var termSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
}

// osExit is replaced in tests.
var osExit = os.Exit

// Handler is called on the broker goroutine when a signal arrives.
// It must only do bounded work, such as cancelling a context.
type Handler func(sig os.Signal)

type entry struct {
	h    Handler
	seen map[os.Signal]struct{}
}

// Broker owns the signal channel and the handler stack.
type Broker struct {
	mu       sync.Mutex
	sigs     []os.Signal
	ch       chan os.Signal
	done     chan struct{}
	handlers []*entry
	notified bool
}

// New creates a new signal broker and starts its dispatch goroutine.
// The goroutine exits when ctx is done; use Done to wait for it.
func New(ctx context.Context, sigs ...os.Signal) *Broker {
	if len(sigs) == 0 {
		sigs = termSignals
	}

	b := &Broker{
		sigs: sigs,
		ch:   make(chan os.Signal, 2),
		done: make(chan struct{}),
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "creating signal broker", "signals", sigs)

	go b.watch(ctx)

	return b
}

// Done is closed once the dispatch goroutine has exited.
func (b *Broker) Done() <-chan struct{} {
	return b.done
}

// Push installs h as the innermost handler.
// The returned function removes it again and is safe to call more than once.
// Push may be called from within a Handler.
// Push on a nil Broker is a no-op.
func (b *Broker) Push(h Handler) (restore func()) {
	if b == nil {
		return func() {}
	}

	e := &entry{h: h, seen: make(map[os.Signal]struct{})}

	b.mu.Lock()
	b.handlers = append(b.handlers, e)

	if !b.notified {
		signal.Notify(b.ch, b.sigs...)
		b.notified = true
	}
	b.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() { b.remove(e) })
	}
}

// Notify delivers sig as if it had been received from the OS.
func (b *Broker) Notify(sig os.Signal) {
	if b == nil {
		return
	}

	select {
	case b.ch <- sig:
	default:
	}
}

func (b *Broker) remove(e *entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := len(b.handlers) - 1; i >= 0; i-- {
		if b.handlers[i] == e {
			b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
			break
		}
	}

	if len(b.handlers) > 0 {
		return
	}

	if b.notified {
		signal.Stop(b.ch)
		b.notified = false
	}
}

// top returns the innermost handler and whether it has already received sig.
func (b *Broker) top(sig os.Signal) (Handler, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.handlers) == 0 {
		return nil, false
	}

	e := b.handlers[len(b.handlers)-1]

	_, again := e.seen[sig]
	e.seen[sig] = struct{}{}

	return e.h, again
}

func (b *Broker) watch(ctx context.Context) {
	defer close(b.done)

	defer func() {
		b.mu.Lock()
		if b.notified {
			signal.Stop(b.ch)
			b.notified = false
		}
		b.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-b.ch:
			h, again := b.top(sig)
			if h == nil {
				ctxlog.Debug(ctx, "signalbroker", "detail", "no handler installed, ignoring", "signal", sig.String())
				continue
			}

			if again {
				ctxlog.Info(ctx, "signalbroker", "detail", "received second signal of type, forcefully terminating", "signal", sig.String())
				osExit(ForcedExitCode)

				continue
			}

			ctxlog.Debug(ctx, "signalbroker", "detail", "dispatching signal", "signal", sig.String())
			h(sig)
		}
	}
}
