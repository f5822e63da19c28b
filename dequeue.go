// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

// TryDequeue removes and returns the front element (consumer only).
// The slot is zeroed to allow garbage collection of referenced objects.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Queue[T]) TryDequeue() (T, error) {
	fb := q.frontBlock.Load()
	if fb == nil {
		panic(closedMsg)
	}
	q.consumer.enter()

	var zero T
	b, i, ok := q.locate(fb, true)
	if !ok {
		q.consumer.exit()
		return zero, ErrWouldBlock
	}
	elem := b.slots[i]
	b.slots[i] = zero
	b.front.StoreRelease((i + 1) & b.mask)
	q.consumer.exit()
	return elem, nil
}

// Peek returns a pointer to the front element, the one the next TryDequeue
// or Pop would remove, or nil if the queue appears empty (consumer only).
//
// The pointer is valid until the next consumer operation. Peek never
// changes queue state.
func (q *Queue[T]) Peek() *T {
	fb := q.frontBlock.Load()
	if fb == nil {
		panic(closedMsg)
	}
	q.consumer.enter()

	b, i, ok := q.locate(fb, false)
	q.consumer.exit()
	if !ok {
		return nil
	}
	return &b.slots[i]
}

// Pop removes the front element without returning it (consumer only).
// The element is passed to the release hook, if any, before its slot is
// zeroed. Returns ErrWouldBlock if the queue is empty.
func (q *Queue[T]) Pop() error {
	fb := q.frontBlock.Load()
	if fb == nil {
		panic(closedMsg)
	}
	q.consumer.enter()
	defer q.consumer.exit()

	b, i, ok := q.locate(fb, true)
	if !ok {
		return ErrWouldBlock
	}
	if q.release != nil {
		q.release(&b.slots[i])
	}
	var zero T
	b.slots[i] = zero
	b.front.StoreRelease((i + 1) & b.mask)
	return nil
}

// locate finds the block and slot index of the front element, starting
// from the consumer's block fb. It reports false if the queue is empty.
// With advance set, locate moves frontBlock onto the block it returns.
func (q *Queue[T]) locate(fb *block[T], advance bool) (*block[T], uint64, bool) {
	// Fast path: data in the front block. The cached tail is refreshed
	// only when it says the block is empty.
	front := fb.front.LoadRelaxed()
	if front == fb.localTail {
		fb.localTail = fb.tail.LoadAcquire()
	}
	if front != fb.localTail {
		return fb, front, true
	}

	// Only a block other than the tail block can be drained while the
	// queue still holds elements. The tail block must be read before
	// fb is checked again: between the first check and this load the
	// producer may have filled fb and moved on, and fb still has to be
	// drained before the consumer can advance.
	if fb == q.tailBlock.Load() {
		return nil, 0, false
	}
	fb.localTail = fb.tail.LoadAcquire()
	if front != fb.localTail {
		return fb, front, true
	}

	// fb is drained and the producer has moved past it, so the next block
	// was written before tailBlock advanced and is not empty.
	nb := fb.next.Load()
	nb.localTail = nb.tail.LoadAcquire()
	front = nb.front.LoadRelaxed()
	if advance {
		// fb is handed back to the producer for reuse.
		q.frontBlock.Store(nb)
	}
	return nb, front, true
}
