// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond

// Observer receives dispatch events for diagnostic tooling: tracing
// consoles, structured loggers, metric recorders. Callbacks run
// synchronously on the signaling goroutine and must not signal on the same
// context. The zero observer is NopObserver.
//
// Implementations live with their consumers; this package ships none (see
// the report subpackage for zap- and prometheus-backed observers).
type Observer interface {
	// OnSignal fires at every Signal entry, before handler search.
	OnSignal(c *Condition)
	// OnHandled fires when a matching handler was found, before it runs.
	OnHandled(c *Condition, d Discipline)
	// OnRestart fires when a restart invocation begins its transfer.
	OnRestart(name string)
	// OnUnwind fires before an unwind, with the number of frames it will
	// tear down.
	OnUnwind(frames int)
	// OnFatal fires when an error-severity condition found no handler,
	// with the snapshot that will accompany the *UnhandledError.
	OnFatal(c *Condition, snap Snapshot)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) OnSignal(*Condition)              {}
func (NopObserver) OnHandled(*Condition, Discipline) {}
func (NopObserver) OnRestart(string)                 {}
func (NopObserver) OnUnwind(int)                     {}
func (NopObserver) OnFatal(*Condition, Snapshot)     {}
