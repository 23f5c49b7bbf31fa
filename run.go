// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond

// Run establishes an execution-context boundary: it creates a fresh Context
// owned by the calling goroutine, installs the boundary frame and the
// implicit abort restart, and runs body.
//
// Run returns (result, nil) on a normal return. It returns ErrAborted when
// the abort restart was invoked, a *UnhandledError when an error-severity
// condition found no handler, and a *CleanupError when a cleanup action
// failed fatally during an unwind. Contract violations (*ContractViolation)
// and foreign panics are not caught — they propagate as panics.
//
// The Context must not escape to other goroutines; each concurrent thread of
// control calls Run for its own. Hand-off is permitted only between the
// owning goroutine's suspension and the next owner's first use.
func Run[R any](body func(*Context) R, opts ...Option) (result R, err error) {
	ctx := NewContext(opts...)
	btok := ctx.push(frameBoundary)
	ctx.boundary = btok.id
	rtok := ctx.PushRestarts(RestartEntry{
		Name:    AbortName,
		Restart: func(...any) any { return nil },
	})
	defer func() {
		r := recover()
		switch u := r.(type) {
		case nil:
			ctx.pop(rtok, frameRestarts)
			ctx.pop(btok, frameBoundary)
		case *unwind:
			if u.ctx != ctx {
				panic(r)
			}
			switch {
			case u.kind == unwindRestart && u.target == rtok.id:
				u.claim()
				ctx.dropTo(btok.id)
				var zero R
				result = zero
				err = ErrAborted
			case u.kind == unwindFatal && u.target == btok.id:
				u.claim()
				ctx.dropTo(btok.id)
				var zero R
				result = zero
				err = u.fatal
			default:
				corrupt("transfer targeting frame %d escaped to the boundary", u.target)
			}
		default:
			panic(r)
		}
	}()
	result = body(ctx)
	return
}
