// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cond

import "sync"

// Frame records are pooled across push/pop cycles. Release zeroes all
// fields; a released frame must not be referenced again. The entry slices
// are kept (capacity reuse) but truncated to length zero.

var framePool = sync.Pool{
	New: func() any { return new(frame) },
}

func acquireFrame(id uint64, kind frameKind) *frame {
	f := framePool.Get().(*frame)
	f.id = id
	f.kind = kind
	return f
}

func releaseFrame(f *frame) {
	f.id = 0
	f.kind = frameHandlers
	clear(f.handlers)
	f.handlers = f.handlers[:0]
	clear(f.restarts)
	f.restarts = f.restarts[:0]
	f.cleanup = nil
	framePool.Put(f)
}
