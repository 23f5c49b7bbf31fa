// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cond provides a structured condition-signaling runtime in Go:
// conditions as first-class signaled values, dynamically scoped handler and
// restart stacks, and controlled unwinding with cleanup actions.
//
// Unlike error returns, a signaled condition separates the decision of WHAT
// went wrong (the signal point), WHETHER to take control (handlers,
// established anywhere up the dynamic scope), and WHERE to resume (restarts,
// resumable recovery points chosen by the handler). Handlers come in two
// disciplines: exiting handlers unwind to their establishment point; calling
// handlers run in place and let the signaling code resume.
//
// # Design Philosophy
//
// cond provides:
//   - A minimal but complete surface for signaling, handling, and restarting
//   - Dynamically scoped stacks via explicit execution contexts, never
//     ambient globals
//   - Strict LIFO bracketing with corruption checks on every pop
//
// # Condition Model
//
// A [Condition] is immutable: a dotted classification kind (e.g.
// "error.io.not_found"), a [Severity], a message, an open payload mapping,
// and the call [Origin] captured at construction. Kinds form an ancestor
// relation by dotted prefix: [IsSubkind]("error.io", "error") holds.
//
//   - [New], [MustNew], [NewError], [NewWarning], [NewInfo], [NewInterrupt]
//   - [KindIsValid]: kind grammar check, [ErrInvalidKind] on construction
//   - [IsSubkind]: ancestor-or-equal classification test
//
// # Execution Contexts
//
// A [Context] is one logical thread of control owning a handler stack and a
// restart registry. Contexts are created by [Run] (which installs the
// boundary and the implicit abort restart) or [NewContext], and are never
// shared across goroutines. Signaling is synchronous: handler callbacks run
// on the signaling goroutine.
//
//   - [Run]: execution-context boundary; catches [*UnhandledError],
//     [ErrAborted], [*CleanupError]
//   - [Context.Signal]: raise a condition; the sole dispatch entry point
//   - [Context.Resignal]: re-raise a caught condition by reference
//
// # Handlers
//
// Handler frames are established for a dynamic extent and torn down on every
// exit path. Search is innermost frame first, then registration order within
// a frame; the first match wins — never a "more specific elsewhere" match.
//
//   - [Protect]: exiting-discipline construct
//   - [WithCallingHandlers]: calling-discipline construct
//   - [Context.PushHandlers] / [Context.PopHandlers]: low-level scoped
//     bracketing; mismatched pops panic with [*ContractViolation]
//
// # Restarts
//
// Restarts are named recovery points. A handler (typically a calling
// handler) invokes one by name to transfer control to its registration
// scope instead of unwinding further.
//
//   - [Restartable]: establish restarts for a dynamic extent
//   - [Context.InvokeRestart]: transfer to the innermost restart by name;
//     returns [ErrRestartNotFound] if nothing is registered
//   - [Context.Restarts]: read-only iteration for debugging consoles
//   - [AbortName], [Context.Abort]: the built-in abort restart every [Run]
//     registers; aborting yields [ErrAborted] at the boundary
//
// # Unwinding and Cleanup
//
// [WithCleanup] registers a cleanup action for a scope. During any unwind,
// cleanups of intervening scopes run in strict innermost-to-outermost order,
// each exactly once. A cleanup that itself signals suspends the unwind in
// progress; a fatal failure during cleanup surfaces as [*CleanupError]
// chaining both failures.
//
// # Introspection
//
// [Snapshot] is the serializable view consumed by crash-dump tooling:
// condition kind, message, payload, active frame ids, and active restart
// names. [Observer] receives dispatch events ([WithObserver]); the report
// subpackage provides zap- and prometheus-backed observers, and the dump
// subpackage encodes snapshots for persistence.
//
// # Example
//
//	result, err := cond.Run(func(ctx *cond.Context) string {
//		return cond.Restartable(ctx, func() string {
//			return cond.WithCallingHandlers(ctx, func() string {
//				v := ctx.Signal(cond.MustNew(
//					cond.SeverityError, "error.io.not_found", "missing chunk", nil,
//				))
//				return v.(string)
//			}, cond.HandlerEntry{
//				Classes: []string{"error.io"},
//				Handle: func(ctx *cond.Context, c *cond.Condition) any {
//					_ = ctx.InvokeRestart("use-value", "fallback")
//					return nil
//				},
//			})
//		}, cond.RestartEntry{
//			Name:    "use-value",
//			Restart: func(args ...any) any { return args[0].(string) },
//		})
//	})
//	// result == "fallback", err == nil
package cond
