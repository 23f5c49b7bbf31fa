// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond

// Protect runs body with handler entries registered under the exiting
// discipline. When a condition signaled inside body matches one of the
// entries, the stack unwinds to this construct (running intervening
// cleanups), the handler callback runs, and its return value becomes
// Protect's result. Code in body after the signal point never executes.
//
// The handler frame is released on every exit path: normal return,
// propagated transfer, or foreign panic. A nil handler result stands for the
// zero value of R.
func Protect[R any](ctx *Context, body func() R, entries ...HandlerEntry) R {
	return runHandlers(ctx, body, Exiting, entries)
}

// WithCallingHandlers runs body with handler entries registered under the
// calling discipline. A matched handler runs in place at the signal point
// without unwinding; body resumes right after the signal unless the handler
// transfers out via InvokeRestart targeting this or an outer scope.
func WithCallingHandlers[R any](ctx *Context, body func() R, entries ...HandlerEntry) R {
	return runHandlers(ctx, body, Calling, entries)
}

func runHandlers[R any](ctx *Context, body func() R, d Discipline, entries []HandlerEntry) (result R) {
	own := make([]HandlerEntry, len(entries))
	copy(own, entries)
	for i := range own {
		own[i].Discipline = d
	}
	tok := ctx.PushHandlers(own...)
	defer func() {
		r := recover()
		switch u := r.(type) {
		case nil:
			ctx.pop(tok, frameHandlers)
		case *unwind:
			if u.ctx == ctx && u.target == tok.id {
				if u.kind != unwindHandler {
					corrupt("transfer kind %d targeting handler frame %d", u.kind, tok.id)
				}
				u.claim()
				ctx.dropTo(tok.id)
				result = coerce[R](u.entry.Handle(ctx, u.cond))
				return
			}
			ctx.dropTo(tok.id)
			panic(r)
		default:
			ctx.dropTo(tok.id)
			panic(r)
		}
	}()
	return body()
}
