// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond

import (
	"fmt"
	"maps"
	"runtime"
	"strings"
)

// Severity classifies how an unhandled condition is treated.
// Unhandled error conditions are fatal to the enclosing execution context;
// unhandled warnings and informational conditions are silently absorbed.
type Severity uint8

const (
	// SeverityInfo marks informational conditions.
	SeverityInfo Severity = iota
	// SeverityWarning marks warning conditions.
	SeverityWarning
	// SeverityError marks conditions that are fatal when unhandled.
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Payload is the open structured-data mapping attached to a condition.
type Payload = map[string]any

// KindInterrupt is the classification root for cancellation conditions.
// Interrupts carry error severity; a typical handler invokes the abort restart.
const KindInterrupt = "interrupt"

// Condition is an immutable record describing a signaled situation.
// It carries a dotted classification kind (e.g. "error.io.not_found"),
// a severity, a human-readable message, an open payload mapping, and the
// call origin captured at construction time. Conditions are created once
// at the point they are signaled and never mutated; re-signaling the same
// Condition by reference preserves origin and payload unchanged.
type Condition struct {
	kind     string
	severity Severity
	message  string
	payload  Payload
	origin   *Origin
}

// New constructs a Condition with the given severity, kind, message, and
// payload. The payload is copied; later mutation of the argument does not
// affect the condition. Returns ErrInvalidKind if kind is empty or malformed.
func New(sev Severity, kind, message string, payload Payload) (*Condition, error) {
	return newCondition(3, sev, kind, message, payload)
}

// MustNew is like New but panics on a malformed kind.
func MustNew(sev Severity, kind, message string, payload Payload) *Condition {
	c, err := newCondition(3, sev, kind, message, payload)
	if err != nil {
		panic(err)
	}
	return c
}

// NewError constructs an error-severity condition.
func NewError(kind, message string, payload Payload) (*Condition, error) {
	return newCondition(3, SeverityError, kind, message, payload)
}

// NewWarning constructs a warning-severity condition.
func NewWarning(kind, message string, payload Payload) (*Condition, error) {
	return newCondition(3, SeverityWarning, kind, message, payload)
}

// NewInfo constructs an informational condition.
func NewInfo(kind, message string, payload Payload) (*Condition, error) {
	return newCondition(3, SeverityInfo, kind, message, payload)
}

// NewInterrupt constructs a cancellation condition rooted at KindInterrupt.
// The sub argument refines the classification ("interrupt.<sub>") and may be
// empty for the bare "interrupt" kind.
func NewInterrupt(sub, message string) (*Condition, error) {
	kind := KindInterrupt
	if sub != "" {
		kind = KindInterrupt + "." + sub
	}
	return newCondition(3, SeverityError, kind, message, nil)
}

func newCondition(skip int, sev Severity, kind, message string, payload Payload) (*Condition, error) {
	if !KindIsValid(kind) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return &Condition{
		kind:     kind,
		severity: sev,
		message:  message,
		payload:  maps.Clone(payload),
		origin:   captureOrigin(skip + 1),
	}, nil
}

// Kind returns the condition's classification kind.
func (c *Condition) Kind() string { return c.kind }

// Severity returns the condition's severity.
func (c *Condition) Severity() Severity { return c.severity }

// Message returns the condition's human-readable message.
func (c *Condition) Message() string { return c.message }

// Payload returns a copy of the condition's payload mapping.
func (c *Condition) Payload() Payload { return maps.Clone(c.payload) }

// PayloadValue returns the payload value for key and whether it is present.
func (c *Condition) PayloadValue(key string) (any, bool) {
	v, ok := c.payload[key]
	return v, ok
}

// Origin returns the call origin captured when the condition was created,
// or nil if capture was unavailable.
func (c *Condition) Origin() *Origin { return c.origin }

// String formats the condition as "severity kind: message".
func (c *Condition) String() string {
	if c.message == "" {
		return c.severity.String() + " " + c.kind
	}
	return c.severity.String() + " " + c.kind + ": " + c.message
}

// KindIsValid reports whether kind is a well-formed classification string:
// one or more dot-separated segments of [a-z0-9_-], none empty.
func KindIsValid(kind string) bool {
	if kind == "" {
		return false
	}
	segStart := true
	for i := 0; i < len(kind); i++ {
		ch := kind[i]
		if ch == '.' {
			if segStart {
				return false // empty segment
			}
			segStart = true
			continue
		}
		if !kindByte(ch) {
			return false
		}
		segStart = false
	}
	return !segStart
}

func kindByte(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9' || ch == '_' || ch == '-'
}

// IsSubkind reports whether candidate equals ancestor or ancestor is a
// dotted-prefix ancestor of candidate. "error" covers "error.io.not_found";
// "err" does not cover "error".
func IsSubkind(candidate, ancestor string) bool {
	if candidate == ancestor {
		return true
	}
	return len(candidate) > len(ancestor) &&
		candidate[len(ancestor)] == '.' &&
		strings.HasPrefix(candidate, ancestor)
}

// originDepth bounds the number of program counters captured per condition.
const originDepth = 32

// Origin is the call context captured when a condition was created.
type Origin struct {
	pcs []uintptr
}

// captureOrigin records the call stack above the exported constructor. skip
// already counts runtime.Callers, this function, newCondition, and the
// constructor, so the innermost captured frame is the construction site.
//
//go:noinline
func captureOrigin(skip int) *Origin {
	var pcs [originDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return nil
	}
	return &Origin{pcs: append([]uintptr(nil), pcs[:n]...)}
}

// Frames resolves and returns the captured call frames, innermost first.
func (o *Origin) Frames() []runtime.Frame {
	if o == nil || len(o.pcs) == 0 {
		return nil
	}
	out := make([]runtime.Frame, 0, len(o.pcs))
	it := runtime.CallersFrames(o.pcs)
	for {
		fr, more := it.Next()
		out = append(out, fr)
		if !more {
			break
		}
	}
	return out
}

// String formats the innermost origin frame as "function (file:line)".
func (o *Origin) String() string {
	frames := o.Frames()
	if len(frames) == 0 {
		return "<unknown origin>"
	}
	f := frames[0]
	return fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line)
}
