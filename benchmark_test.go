// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond_test

import (
	"testing"

	"code.hybscloud.com/cond"
)

// BenchmarkIsSubkind measures the ancestor-or-equal classification test.
func BenchmarkIsSubkind(b *testing.B) {
	for b.Loop() {
		_ = cond.IsSubkind("error.io.not_found", "error.io")
	}
}

// BenchmarkSignalUnhandledWarning measures the no-op path: handler search
// over an empty stack with nothing to do.
func BenchmarkSignalUnhandledWarning(b *testing.B) {
	ctx := cond.NewContext()
	c := cond.MustNew(cond.SeverityWarning, "warning.noise", "", nil)
	for b.Loop() {
		_ = ctx.Signal(c)
	}
}

// BenchmarkSignalCallingHandler measures in-place dispatch to the innermost
// calling handler.
func BenchmarkSignalCallingHandler(b *testing.B) {
	ctx := cond.NewContext()
	tok := ctx.PushHandlers(cond.HandlerEntry{
		Classes:    []string{"warning"},
		Discipline: cond.Calling,
		Handle:     func(*cond.Context, *cond.Condition) any { return 1 },
	})
	defer ctx.PopHandlers(tok)
	c := cond.MustNew(cond.SeverityWarning, "warning.noise", "", nil)
	for b.Loop() {
		_ = ctx.Signal(c)
	}
}

// BenchmarkProtectNormalReturn measures frame push/pop around a body that
// signals nothing.
func BenchmarkProtectNormalReturn(b *testing.B) {
	ctx := cond.NewContext()
	entry := cond.HandlerEntry{
		Classes: []string{"error"},
		Handle:  func(*cond.Context, *cond.Condition) any { return nil },
	}
	for b.Loop() {
		_ = cond.Protect(ctx, func() int { return 1 }, entry)
	}
}

// BenchmarkExitingUnwind measures the full unwind round trip: signal,
// teardown of one intervening cleanup scope, handler delivery.
func BenchmarkExitingUnwind(b *testing.B) {
	c := cond.MustNew(cond.SeverityError, "error.bench", "", nil)
	for b.Loop() {
		_, _ = cond.Run(func(ctx *cond.Context) int {
			return cond.Protect(ctx, func() int {
				return cond.WithCleanup(ctx, func() int {
					ctx.Signal(c)
					return 0
				}, func() {})
			}, cond.HandlerEntry{
				Classes: []string{"error"},
				Handle:  func(*cond.Context, *cond.Condition) any { return 1 },
			})
		})
	}
}

// BenchmarkRestartRoundTrip measures restart invocation across one handler
// frame and one cleanup scope.
func BenchmarkRestartRoundTrip(b *testing.B) {
	c := cond.MustNew(cond.SeverityError, "error.bench", "", nil)
	for b.Loop() {
		_, _ = cond.Run(func(ctx *cond.Context) int {
			return cond.Restartable(ctx, func() int {
				return cond.WithCallingHandlers(ctx, func() int {
					ctx.Signal(c)
					return 0
				}, cond.HandlerEntry{
					Classes: []string{"error"},
					Handle: func(ctx *cond.Context, _ *cond.Condition) any {
						_ = ctx.InvokeRestart("retry")
						return nil
					},
				})
			}, cond.RestartEntry{Name: "retry", Restart: func(...any) any { return 2 }})
		})
	}
}
