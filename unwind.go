// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond

import (
	"fmt"
	"sync/atomic"
)

// Unwinding is realized as panics carrying *unwind records. Every scoped
// construct recovers, tears down its own frame, and either delivers (when it
// is the target) or re-raises, so cleanup actions run in strict
// innermost-to-outermost order as the record propagates.

type unwindKind uint8

const (
	unwindHandler unwindKind = iota
	unwindRestart
	unwindFatal
)

// unwind is a one-shot transfer record. Entry data is copied in at raise
// time: the frames it came from are torn down (and their pooled records
// zeroed) before delivery.
type unwind struct {
	ctx       *Context
	kind      unwindKind
	target    uint64
	cond      *Condition
	entry     HandlerEntry
	restart   RestartEntry
	args      []any
	fatal     error
	delivered atomic.Uintptr
}

// claim enforces at-most-once delivery.
func (u *unwind) claim() {
	if u.delivered.Add(1) != 1 {
		panic("cond: unwind record delivered twice")
	}
}

// reason describes the transfer for causal chaining when a cleanup action
// fails while this unwind is suspended.
func (u *unwind) reason() error {
	switch u.kind {
	case unwindHandler:
		return fmt.Errorf("cond: unwind to handler frame %d for %s", u.target, u.cond)
	case unwindRestart:
		return fmt.Errorf("cond: unwind to restart %q at frame %d", u.restart.Name, u.target)
	default:
		return u.fatal
	}
}

// coerce applies the nil completion convention: a nil delivery value stands
// for the zero value of the result type.
func coerce[R any](v any) R {
	if v == nil {
		var zero R
		return zero
	}
	return v.(R)
}

// WithCleanup runs body with a registered cleanup action. The cleanup runs
// exactly once on every exit path: after a normal return, or mid-unwind in
// innermost-to-outermost order with the cleanups of other intervening scopes.
//
// A cleanup that itself signals a condition during an unwind suspends that
// unwind: the condition dispatches from the cleanup's position (the frames
// being torn down are already gone). If the new condition resolves in place
// the original unwind resumes; if it is unhandled and fatal, both failures
// surface at the boundary as a *CleanupError.
func WithCleanup[R any](ctx *Context, body func() R, cleanup func()) (result R) {
	tok := ctx.pushCleanup(cleanup)
	defer func() {
		r := recover()
		switch u := r.(type) {
		case nil:
			ctx.pop(tok, frameCleanup)
			cleanup()
		case *unwind:
			ctx.dropTo(tok.id)
			if u.ctx == ctx {
				ctx.runCleanup(cleanup, u)
			} else {
				cleanup()
			}
			panic(r)
		default:
			ctx.dropTo(tok.id)
			cleanup()
			panic(r)
		}
	}()
	return body()
}

// runCleanup runs one cleanup action while original is suspended, keeping
// the unwind-in-progress marker current and chaining a fatal failure raised
// by the cleanup to the suspended transfer.
func (ctx *Context) runCleanup(cleanup func(), original *unwind) {
	prev := ctx.unwinding
	ctx.unwinding = original
	defer func() {
		ctx.unwinding = prev
		r := recover()
		if r == nil {
			return
		}
		if u, ok := r.(*unwind); ok && u.ctx == ctx && u.kind == unwindFatal {
			u.fatal = &CleanupError{Err: u.fatal, Original: original.reason()}
		}
		panic(r)
	}()
	cleanup()
}
