// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// block is one link of the queue's ring: a fixed-capacity circular buffer.
//
// The buffer wastes exactly one slot, so front == tail always means empty
// and a full block has tail one step behind front. Indices are stored
// masked and stay in [0, len(slots)).
//
// The consumer owns front and localTail, the producer owns tail and
// localFront. Each side only reads the other's atomic index, and only
// when its cached copy says the block is exhausted.
type block[T any] struct {
	_          pad
	front      atomix.Uint64 // Consumer reads from here
	localTail  uint64        // Consumer's cached view of tail
	_          pad
	tail       atomix.Uint64 // Producer writes here
	localFront uint64        // Producer's cached view of front
	_          pad
	next       atomic.Pointer[block[T]] // Set by the producer only
	slots      []T
	mask       uint64
}

// newBlock allocates an empty block of size slots.
// size must be a power of 2 >= 2.
func newBlock[T any](size uint64) *block[T] {
	return &block[T]{
		slots: make([]T, size),
		mask:  size - 1,
	}
}

// size returns the number of physical slots.
func (b *block[T]) size() uint64 {
	return b.mask + 1
}

// usable returns the number of elements the block can hold.
func (b *block[T]) usable() uint64 {
	return b.mask
}

// count returns the number of live elements as seen by the caller.
// The two indices are loaded one after the other with acquire ordering,
// so while either side is active the result is only an estimate.
func (b *block[T]) count() uint64 {
	front := b.front.LoadAcquire()
	tail := b.tail.LoadAcquire()
	return (tail - front) & b.mask
}

// drop zeroes every live slot between front and tail, calling release on
// each element first when release is non-nil. Used by teardown only.
func (b *block[T]) drop(release func(*T)) {
	var zero T
	tail := b.tail.LoadAcquire()
	for i := b.front.LoadAcquire(); i != tail; i = (i + 1) & b.mask {
		if release != nil {
			release(&b.slots[i])
		}
		b.slots[i] = zero
	}
	b.front.StoreRelease(tail)
	b.localTail = tail
	b.localFront = tail
}
