// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors of the runtime. ErrInvalidKind and ErrStackCorruption are
// programming-contract violations: they bypass condition dispatch entirely
// (ErrInvalidKind surfaces as a constructor error, ErrStackCorruption as a
// *ContractViolation panic). ErrRestartNotFound is returned by InvokeRestart
// and recoverable at the call site. ErrAborted is the sentinel result of the
// implicit abort restart at an execution-context boundary. ErrUnhandled is
// the errors.Is target of *UnhandledError.
var (
	ErrInvalidKind     = errors.New("cond: invalid condition kind")
	ErrStackCorruption = errors.New("cond: stack corruption")
	ErrRestartNotFound = errors.New("cond: restart not found")
	ErrAborted         = errors.New("cond: aborted")
	ErrUnhandled       = errors.New("cond: unhandled condition")
)

// UnhandledError reports an error-severity condition that reached the
// execution-context boundary with no matching handler. It carries the
// condition and the stack snapshot taken at the moment of the failure.
type UnhandledError struct {
	Condition *Condition
	Snapshot  Snapshot
}

// Error implements error.
func (e *UnhandledError) Error() string {
	var b strings.Builder
	b.WriteString("cond: unhandled ")
	b.WriteString(e.Condition.String())
	if o := e.Condition.Origin(); o != nil {
		b.WriteString(" at ")
		b.WriteString(o.String())
	}
	return b.String()
}

// Is reports ErrUnhandled as a match target for errors.Is.
func (e *UnhandledError) Is(target error) bool { return target == ErrUnhandled }

// CleanupError reports a failure raised by a cleanup action while an unwind
// was already in progress. Err is the new failure; Original describes the
// transfer whose cleanup was running ("caused during cleanup for").
type CleanupError struct {
	Err      error
	Original error
}

// Error implements error.
func (e *CleanupError) Error() string {
	return fmt.Sprintf("%v (caused during cleanup for: %v)", e.Err, e.Original)
}

// Unwrap exposes both failures to errors.Is and errors.As.
func (e *CleanupError) Unwrap() []error { return []error{e.Err, e.Original} }

// ContractViolation is the panic payload for scope-discipline violations.
// It wraps ErrStackCorruption and is never caught by the handler mechanism:
// it propagates past Run as a panic and terminates the operation that
// triggered it.
type ContractViolation struct {
	Err error
}

// Error implements error.
func (v *ContractViolation) Error() string { return v.Err.Error() }

// Unwrap returns the wrapped sentinel.
func (v *ContractViolation) Unwrap() error { return v.Err }

// corrupt panics with a *ContractViolation wrapping ErrStackCorruption.
//
//go:noinline
func corrupt(format string, args ...any) {
	detail := fmt.Sprintf(format, args...)
	panic(&ContractViolation{Err: fmt.Errorf("%w: %s", ErrStackCorruption, detail)})
}
