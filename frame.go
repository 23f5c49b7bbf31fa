// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond

// Discipline selects how a matched handler takes control.
type Discipline uint8

const (
	// Exiting handlers unwind the stack to their registration frame before
	// running; their result becomes the result of the registering construct.
	Exiting Discipline = iota
	// Calling handlers run in place at the signal point; their result becomes
	// the return value of Signal and execution resumes where signaling
	// occurred, unless the handler transfers out via InvokeRestart.
	Calling
)

// String returns the lowercase name of the discipline.
func (d Discipline) String() string {
	if d == Calling {
		return "calling"
	}
	return "exiting"
}

// HandlerFunc is a handler callback. It receives the execution context
// (for re-signaling or invoking restarts) and the matched condition.
type HandlerFunc func(ctx *Context, c *Condition) any

// HandlerEntry associates a set of kind patterns with a handler callback.
// An entry matches a condition when ANY of its classes is an ancestor-or-equal
// of the condition's kind (see IsSubkind). Within one frame, entries are tried
// in registration order; the first match wins.
type HandlerEntry struct {
	Classes    []string
	Discipline Discipline
	Handle     HandlerFunc
}

func (e *HandlerEntry) matches(kind string) bool {
	for _, class := range e.Classes {
		if IsSubkind(kind, class) {
			return true
		}
	}
	return false
}

// RestartFunc is a restart callback. Its return value becomes the result of
// the Restartable construct that registered it.
type RestartFunc func(args ...any) any

// RestartEntry is a named recovery strategy. Multiple entries may share a
// name; the innermost one wins.
type RestartEntry struct {
	Name    string
	Restart RestartFunc
}

// RestartInfo describes an active restart for read-only introspection.
type RestartInfo struct {
	Name    string
	FrameID uint64
}

// Token identifies a pushed frame for scoped release. Tokens are single-use
// and bound to the context that issued them.
type Token struct {
	id  uint64
	ctx *Context
}

// FrameID returns the identifier of the frame this token releases.
func (t Token) FrameID() uint64 { return t.id }

type frameKind uint8

const (
	frameHandlers frameKind = iota
	frameRestarts
	frameCleanup
	frameBoundary
)

func (k frameKind) String() string {
	switch k {
	case frameHandlers:
		return "handlers"
	case frameRestarts:
		return "restarts"
	case frameCleanup:
		return "cleanup"
	case frameBoundary:
		return "boundary"
	default:
		return "unknown"
	}
}

// frame is one record in a context's dynamically scoped stack. A frame holds
// handler entries, restart entries, a cleanup action, or marks the context
// boundary. Records are pooled; release zeroes all fields.
type frame struct {
	id       uint64
	kind     frameKind
	handlers []HandlerEntry
	restarts []RestartEntry
	cleanup  func()
}
