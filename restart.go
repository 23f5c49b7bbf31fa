// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond

import "fmt"

// AbortName is the name of the built-in restart every Run boundary
// implicitly registers. Invoking it unwinds the whole execution context;
// Run then returns ErrAborted.
const AbortName = "abort"

// Restartable runs body with restart entries registered for its dynamic
// extent. When a handler inside body invokes one of the entries by name, the
// stack unwinds to this construct (running intervening cleanups exactly
// once each), the restart callback runs with the invocation arguments, and
// its return value becomes Restartable's result.
func Restartable[R any](ctx *Context, body func() R, entries ...RestartEntry) (result R) {
	tok := ctx.PushRestarts(entries...)
	defer func() {
		r := recover()
		switch u := r.(type) {
		case nil:
			ctx.pop(tok, frameRestarts)
		case *unwind:
			if u.ctx == ctx && u.target == tok.id {
				if u.kind != unwindRestart {
					corrupt("transfer kind %d targeting restart frame %d", u.kind, tok.id)
				}
				u.claim()
				ctx.dropTo(tok.id)
				result = coerce[R](u.restart.Restart(u.args...))
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

// InvokeRestart transfers control to the innermost restart registered under
// name. On success it never returns: the stack unwinds to the restart's
// registration scope, intervening cleanups run, and the restart callback's
// return value becomes the result of the Restartable that registered it.
// If no restart is registered under name, InvokeRestart returns an error
// wrapping ErrRestartNotFound and the caller proceeds normally.
func (ctx *Context) InvokeRestart(name string, args ...any) error {
	entry, frameID, ok := ctx.findRestart(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrRestartNotFound, name)
	}
	ctx.observer.OnRestart(name)
	ctx.observer.OnUnwind(ctx.depthFrom(frameID))
	panic(&unwind{ctx: ctx, kind: unwindRestart, target: frameID, restart: *entry, args: args})
}

// Abort invokes the built-in abort restart. Inside Run it never returns;
// outside any boundary it panics, since the abort restart is registered by
// Run itself.
func (ctx *Context) Abort() {
	err := ctx.InvokeRestart(AbortName)
	panic(fmt.Errorf("cond: abort outside an execution-context boundary: %w", err))
}
