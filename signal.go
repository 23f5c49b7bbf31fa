// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond

// Signal raises a condition: the sole entry point for dispatch.
//
// Search order is innermost frame first, then registration order within a
// frame; the first matching entry wins regardless of discipline. On a calling
// match the handler runs in place and its normal return value becomes
// Signal's return value at the call site. On an exiting match the stack
// unwinds to (and including tear-down of) the registering frame, intervening
// cleanups run innermost-to-outermost, and control never returns here.
//
// With no match, warning and informational conditions are a no-op returning
// nil; error-severity conditions are fatal to the execution context — they
// propagate to the Run boundary as *UnhandledError (or panic with it when
// there is no boundary).
//
// While a calling handler runs, its own frame and every frame inside it are
// hidden from handler search, so conditions signaled (or re-signaled) from
// the callback dispatch outward only. Restart search is not affected.
func (ctx *Context) Signal(c *Condition) any {
	if c == nil {
		panic("cond: signal of nil condition")
	}
	ctx.observer.OnSignal(c)
	entry, frameID, ok := ctx.findHandler(c)
	if !ok {
		if c.severity != SeverityError {
			return nil
		}
		snap := ctx.snapshotFor(c)
		ctx.observer.OnFatal(c, snap)
		ferr := &UnhandledError{Condition: c, Snapshot: snap}
		if ctx.boundary == 0 {
			panic(ferr)
		}
		ctx.observer.OnUnwind(ctx.depthFrom(ctx.boundary))
		panic(&unwind{ctx: ctx, kind: unwindFatal, target: ctx.boundary, cond: c, fatal: ferr})
	}
	if entry.Discipline == Exiting {
		ctx.observer.OnHandled(c, Exiting)
		ctx.observer.OnUnwind(ctx.depthFrom(frameID))
		panic(&unwind{ctx: ctx, kind: unwindHandler, target: frameID, cond: c, entry: *entry})
	}
	ctx.observer.OnHandled(c, Calling)
	ctx.pushMask(frameID)
	defer ctx.popMask()
	return entry.Handle(ctx, c)
}

// Resignal re-raises a previously caught condition by reference. The
// condition is immutable: its origin and payload are those captured when it
// was first created. Dispatch restarts from the current point, subject to
// the handler masking described at Signal.
func (ctx *Context) Resignal(c *Condition) any {
	return ctx.Signal(c)
}
