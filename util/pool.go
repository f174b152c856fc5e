package util

import "sync"

// FramePool provides reusable read buffers for message frames so that
// back-to-back sessions do not allocate a fresh buffer each time.
var FramePool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 0, 512)
		return &buf
	},
}

// GetBuf returns a buffer of exactly size bytes.  Callers must return
// it with [PutBuf] when finished.
func GetBuf(size int) *[]byte {
	buf := FramePool.Get().(*[]byte)
	if cap(*buf) < size {
		*buf = make([]byte, size)
	}
	*buf = (*buf)[:size]
	return buf
}

// PutBuf returns a buffer to the pool for reuse.
func PutBuf(buf *[]byte) {
	if buf == nil {
		return
	}
	FramePool.Put(buf)
}
