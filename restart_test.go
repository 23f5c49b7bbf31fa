// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond_test

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"code.hybscloud.com/cond"
)

func TestRestartRoundTrip(t *testing.T) {
	cleanups := 0
	result, err := cond.Run(func(ctx *cond.Context) string {
		return cond.Restartable(ctx, func() string {
			return cond.WithCleanup(ctx, func() string {
				return cond.WithCallingHandlers(ctx, func() string {
					ctx.Signal(errorCondition(t, "error.parse"))
					return "resumed past signal"
				}, cond.HandlerEntry{
					Classes: []string{"error.parse"},
					Handle: func(ctx *cond.Context, _ *cond.Condition) any {
						if err := ctx.InvokeRestart("retry", 3); err != nil {
							t.Errorf("InvokeRestart returned: %v", err)
						}
						return nil
					},
				})
			}, func() { cleanups++ })
		}, cond.RestartEntry{
			Name: "retry",
			Restart: func(args ...any) any {
				return fmt.Sprintf("retried with %d", args[0])
			},
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	if result != "retried with 3" {
		t.Fatalf("result = %q; want restart callback value", result)
	}
	if cleanups != 1 {
		t.Fatalf("cleanup ran %d times; want exactly once", cleanups)
	}
}

func TestInnermostRestartWinsByName(t *testing.T) {
	result, err := cond.Run(func(ctx *cond.Context) string {
		return cond.Restartable(ctx, func() string {
			return cond.Restartable(ctx, func() string {
				return cond.WithCallingHandlers(ctx, func() string {
					ctx.Signal(errorCondition(t, "error.x"))
					return "unreachable"
				}, cond.HandlerEntry{
					Classes: []string{"error"},
					Handle: func(ctx *cond.Context, _ *cond.Condition) any {
						_ = ctx.InvokeRestart("use-value")
						return nil
					},
				})
			}, cond.RestartEntry{
				Name:    "use-value",
				Restart: func(...any) any { return "inner" },
			})
		}, cond.RestartEntry{
			Name:    "use-value",
			Restart: func(...any) any { return "outer" },
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	if result != "inner" {
		t.Fatalf("result = %q; innermost restart with the name must win", result)
	}
}

func TestInvokeRestartNotFound(t *testing.T) {
	_, err := cond.Run(func(ctx *cond.Context) any {
		ierr := ctx.InvokeRestart("no-such-restart")
		if !errors.Is(ierr, cond.ErrRestartNotFound) {
			t.Fatalf("got %v; want ErrRestartNotFound", ierr)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestAbortRestartAlwaysAvailable(t *testing.T) {
	result, err := cond.Run(func(ctx *cond.Context) int {
		return cond.Protect(ctx, func() int {
			return cond.WithCallingHandlers(ctx, func() int {
				ctx.Signal(errorCondition(t, "error.fatal"))
				return 1
			}, cond.HandlerEntry{
				Classes: []string{"error"},
				Handle: func(ctx *cond.Context, _ *cond.Condition) any {
					_ = ctx.InvokeRestart(cond.AbortName)
					return nil
				},
			})
		})
	})
	if !errors.Is(err, cond.ErrAborted) {
		t.Fatalf("err = %v; want ErrAborted", err)
	}
	if result != 0 {
		t.Fatalf("result = %d; want zero on abort", result)
	}
}

func TestInterruptTypicallyAborts(t *testing.T) {
	_, err := cond.Run(func(ctx *cond.Context) any {
		return cond.WithCallingHandlers(ctx, func() any {
			c, cerr := cond.NewInterrupt("user", "cancel requested")
			if cerr != nil {
				t.Fatal(cerr)
			}
			ctx.Signal(c)
			return "unreachable"
		}, cond.HandlerEntry{
			Classes: []string{cond.KindInterrupt},
			Handle: func(ctx *cond.Context, _ *cond.Condition) any {
				ctx.Abort()
				return nil
			},
		})
	})
	if !errors.Is(err, cond.ErrAborted) {
		t.Fatalf("err = %v; want ErrAborted", err)
	}
}

func TestRestartsIteration(t *testing.T) {
	_, err := cond.Run(func(ctx *cond.Context) any {
		return cond.Restartable(ctx, func() any {
			return cond.Restartable(ctx, func() any {
				var names []string
				for info := range ctx.Restarts() {
					names = append(names, info.Name)
				}
				want := []string{"retry", "skip", "use-default", cond.AbortName}
				if !slices.Equal(names, want) {
					t.Errorf("restarts = %v; want %v (innermost first)", names, want)
				}
				return nil
			}, cond.RestartEntry{Name: "retry", Restart: func(...any) any { return nil }},
				cond.RestartEntry{Name: "skip", Restart: func(...any) any { return nil }})
		}, cond.RestartEntry{Name: "use-default", Restart: func(...any) any { return nil }})
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRestartsIterationEarlyStop(t *testing.T) {
	_, err := cond.Run(func(ctx *cond.Context) any {
		return cond.Restartable(ctx, func() any {
			n := 0
			for range ctx.Restarts() {
				n++
				break
			}
			if n != 1 {
				t.Errorf("early stop yielded %d entries", n)
			}
			return nil
		}, cond.RestartEntry{Name: "retry", Restart: func(...any) any { return nil }})
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRestartFromExitingHandler(t *testing.T) {
	// An exiting handler runs after its frame is torn down, but restarts
	// registered outside that frame are still invocable.
	result, err := cond.Run(func(ctx *cond.Context) string {
		return cond.Restartable(ctx, func() string {
			return cond.Protect(ctx, func() string {
				ctx.Signal(errorCondition(t, "error.x"))
				return "unreachable"
			}, cond.HandlerEntry{
				Classes: []string{"error"},
				Handle: func(ctx *cond.Context, _ *cond.Condition) any {
					_ = ctx.InvokeRestart("fallback")
					return "handler return unused"
				},
			})
		}, cond.RestartEntry{
			Name:    "fallback",
			Restart: func(...any) any { return "from restart" },
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	if result != "from restart" {
		t.Fatalf("result = %q", result)
	}
}
