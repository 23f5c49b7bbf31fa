// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond

import "iter"

// Context is one logical thread of control: it owns a handler stack and a
// restart registry, realized as a single chain of dynamically scoped frames.
// A Context must not be shared across goroutines; each concurrent thread of
// control needs its own (see Run). No internal locking is performed —
// correctness relies on the strict LIFO push/pop discipline enforced by
// ContractViolation checks.
type Context struct {
	frames   []*frame
	masks    []mask
	nextID   uint64
	boundary uint64 // frame id of the Run boundary, 0 outside Run
	observer Observer
	// unwinding marks an unwind whose cleanup actions are currently running.
	unwinding *unwind
}

// mask hides the frame id range [lo, hi] from handler search while a handler
// callback for a frame in that range is running. Frames pushed after the
// dispatch began (id > hi) stay visible.
type mask struct {
	lo, hi uint64
}

// NewContext creates a standalone execution context. Contexts created this
// way have no boundary frame: an unhandled error-severity condition panics
// with *UnhandledError instead of being caught. Prefer Run, which installs
// the boundary and the implicit abort restart.
func NewContext(opts ...Option) *Context {
	ctx := &Context{observer: NopObserver{}}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// Option configures a Context at creation time.
type Option func(*Context)

// WithObserver installs an observer receiving signal, dispatch, restart,
// unwind, and fatal events for diagnostic tooling.
func WithObserver(o Observer) Option {
	return func(ctx *Context) {
		if o != nil {
			ctx.observer = o
		}
	}
}

// Unwinding reports whether a cleanup action is currently running as part of
// an in-flight control transfer. A handler matching a condition signaled from
// a cleanup can use this to tell a mid-unwind signal from an ordinary one.
func (ctx *Context) Unwinding() bool { return ctx.unwinding != nil }

func (ctx *Context) push(kind frameKind) Token {
	ctx.nextID++
	f := acquireFrame(ctx.nextID, kind)
	ctx.frames = append(ctx.frames, f)
	return Token{id: f.id, ctx: ctx}
}

// PushHandlers registers entries as the new innermost handler frame and
// returns the token for scoped release. Prefer Protect and
// WithCallingHandlers, which guarantee the pop on every exit path.
func (ctx *Context) PushHandlers(entries ...HandlerEntry) Token {
	tok := ctx.push(frameHandlers)
	f := ctx.frames[len(ctx.frames)-1]
	f.handlers = append(f.handlers, entries...)
	return tok
}

// PopHandlers removes exactly the handler frame identified by tok. Popping a
// token that is not the current innermost frame is a scope-discipline
// violation and panics with a *ContractViolation wrapping ErrStackCorruption.
func (ctx *Context) PopHandlers(tok Token) {
	ctx.pop(tok, frameHandlers)
}

// PushRestarts registers entries as the new innermost restart frame.
// Prefer Restartable, which guarantees the pop on every exit path.
func (ctx *Context) PushRestarts(entries ...RestartEntry) Token {
	tok := ctx.push(frameRestarts)
	f := ctx.frames[len(ctx.frames)-1]
	f.restarts = append(f.restarts, entries...)
	return tok
}

// PopRestarts removes exactly the restart frame identified by tok, with the
// same discipline as PopHandlers.
func (ctx *Context) PopRestarts(tok Token) {
	ctx.pop(tok, frameRestarts)
}

func (ctx *Context) pushCleanup(action func()) Token {
	tok := ctx.push(frameCleanup)
	ctx.frames[len(ctx.frames)-1].cleanup = action
	return tok
}

func (ctx *Context) pop(tok Token, kind frameKind) {
	if tok.ctx != ctx {
		corrupt("token for foreign context")
	}
	n := len(ctx.frames)
	if n == 0 {
		corrupt("pop on empty stack (token %d)", tok.id)
	}
	top := ctx.frames[n-1]
	if top.id != tok.id {
		corrupt("pop token %d is not the innermost frame %d", tok.id, top.id)
	}
	if top.kind != kind {
		corrupt("pop token %d kind mismatch: have %s, want %s", tok.id, top.kind, kind)
	}
	ctx.frames = ctx.frames[:n-1]
	releaseFrame(top)
}

// dropTo pops frame records innermost-first, up to and including id, without
// running cleanup actions (those run via the scoped constructs as the unwind
// propagates). Used during unwind teardown.
func (ctx *Context) dropTo(id uint64) {
	for n := len(ctx.frames); n > 0; n = len(ctx.frames) {
		top := ctx.frames[n-1]
		if top.id < id {
			return
		}
		ctx.frames = ctx.frames[:n-1]
		releaseFrame(top)
	}
}

// depthFrom counts active frames with id >= target, i.e. how many frames an
// unwind to target will tear down.
func (ctx *Context) depthFrom(target uint64) int {
	n := 0
	for i := len(ctx.frames) - 1; i >= 0; i-- {
		if ctx.frames[i].id < target {
			break
		}
		n++
	}
	return n
}

func (ctx *Context) pushMask(lo uint64) {
	ctx.masks = append(ctx.masks, mask{lo: lo, hi: ctx.nextID})
}

func (ctx *Context) popMask() {
	ctx.masks = ctx.masks[:len(ctx.masks)-1]
}

func (ctx *Context) maskedFrom(id uint64) bool {
	for _, m := range ctx.masks {
		if id >= m.lo && id <= m.hi {
			return true
		}
	}
	return false
}

// findHandler scans frames innermost-to-outermost and entries in registration
// order; the first entry whose class set matches wins. Frames masked by an
// in-flight dispatch are skipped, so a condition signaled from within a
// handler callback is seen only by handlers outside that callback's frame.
func (ctx *Context) findHandler(c *Condition) (*HandlerEntry, uint64, bool) {
	for i := len(ctx.frames) - 1; i >= 0; i-- {
		f := ctx.frames[i]
		if f.kind != frameHandlers || ctx.maskedFrom(f.id) {
			continue
		}
		for j := range f.handlers {
			if f.handlers[j].matches(c.kind) {
				return &f.handlers[j], f.id, true
			}
		}
	}
	return nil, 0, false
}

// findRestart scans frames innermost-to-outermost for the named restart.
// Restart search is never masked: a handler may invoke restarts registered
// between its own establishment point and the signal point.
func (ctx *Context) findRestart(name string) (*RestartEntry, uint64, bool) {
	for i := len(ctx.frames) - 1; i >= 0; i-- {
		f := ctx.frames[i]
		if f.kind != frameRestarts {
			continue
		}
		for j := range f.restarts {
			if f.restarts[j].Name == name {
				return &f.restarts[j], f.id, true
			}
		}
	}
	return nil, 0, false
}

// Restarts iterates over currently active restarts, innermost first. The
// sequence is a read-only view for debugging consoles presenting recovery
// choices.
func (ctx *Context) Restarts() iter.Seq[RestartInfo] {
	return func(yield func(RestartInfo) bool) {
		for i := len(ctx.frames) - 1; i >= 0; i-- {
			f := ctx.frames[i]
			if f.kind != frameRestarts {
				continue
			}
			for j := range f.restarts {
				if !yield(RestartInfo{Name: f.restarts[j].Name, FrameID: f.id}) {
					return
				}
			}
		}
	}
}

// Snapshot is the serializable view of an execution context at a moment in
// time, as consumed by crash-dump and introspection tooling. Kind, Message,
// and Payload are filled when the snapshot was taken for a condition.
type Snapshot struct {
	Kind               string
	Message            string
	Payload            Payload
	FrameIDs           []uint64
	ActiveRestartNames []string
}

// Snapshot captures the current frame chain and active restart names,
// innermost first.
func (ctx *Context) Snapshot() Snapshot {
	return ctx.snapshotFor(nil)
}

func (ctx *Context) snapshotFor(c *Condition) Snapshot {
	var snap Snapshot
	if c != nil {
		snap.Kind = c.kind
		snap.Message = c.message
		snap.Payload = c.Payload()
	}
	for i := len(ctx.frames) - 1; i >= 0; i-- {
		f := ctx.frames[i]
		snap.FrameIDs = append(snap.FrameIDs, f.id)
		if f.kind != frameRestarts {
			continue
		}
		for j := range f.restarts {
			snap.ActiveRestartNames = append(snap.ActiveRestartNames, f.restarts[j].Name)
		}
	}
	return snap
}
