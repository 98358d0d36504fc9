package tensor

import "sync/atomic"

// storage is a reference-counted flat float32 buffer shared by views.
//
// Any view that wants to write first checks isUnique and clones the buffer
// when other holders exist (copy-on-write). The count is conservative: a view
// that is garbage collected without Release keeps it raised, which only costs
// an extra copy on the next write.
type storage struct {
	data     []float32
	refCount atomic.Int32
}

// newStorage wraps data (not copied) with refCount = 1.
func newStorage(data []float32) *storage {
	s := &storage{data: data}
	s.refCount.Store(1)
	return s
}

// addRef increments the reference count (for views and clones).
func (s *storage) addRef() {
	s.refCount.Add(1)
}

// release decrements the reference count and drops the buffer at zero.
func (s *storage) release() {
	if s.refCount.Add(-1) == 0 {
		s.data = nil
	}
}

// isUnique returns true if this buffer has a single holder.
func (s *storage) isUnique() bool {
	return s.refCount.Load() == 1
}

// clone returns a private copy of the buffer with refCount = 1.
func (s *storage) clone() *storage {
	data := make([]float32, len(s.data))
	copy(data, s.data)
	return newStorage(data)
}
