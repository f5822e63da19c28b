// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

// TryEnqueue adds a copy of *elem to the queue if there is room in the
// ring (producer only). It never allocates.
//
// Returns ErrWouldBlock if every block is full. The queue is unchanged in
// that case and the caller may retry later or fall back to Enqueue.
func (q *Queue[T]) TryEnqueue(elem *T) error {
	return q.enqueue(elem, false)
}

// Enqueue adds a copy of *elem to the queue (producer only), allocating a
// new block if the ring is full.
//
// Returns ErrCapacityLimit if the ring is full and the new block would
// exceed the configured capacity limit. The queue is unchanged in that case.
func (q *Queue[T]) Enqueue(elem *T) error {
	return q.enqueue(elem, true)
}

func (q *Queue[T]) enqueue(elem *T, grow bool) error {
	tb := q.tailBlock.Load()
	if tb == nil {
		panic(closedMsg)
	}
	q.producer.enter()

	// Fast path: room in the tail block. The cached front is refreshed
	// only when it says the block is full.
	tail := tb.tail.LoadRelaxed()
	next := (tail + 1) & tb.mask
	if next == tb.localFront {
		tb.localFront = tb.front.LoadAcquire()
	}
	if next != tb.localFront {
		tb.slots[tail] = *elem
		tb.tail.StoreRelease(next)
		q.producer.exit()
		return nil
	}

	// The tail block is full. The block after it is free unless it is the
	// consumer's block: the producer may never enter the front block, or it
	// would append behind elements that were enqueued later.
	nb := tb.next.Load()
	if nb != q.frontBlock.Load() {
		// The consumer left nb behind, so it is empty.
		nb.localFront = nb.front.LoadAcquire()
		tail = nb.tail.LoadRelaxed()
		nb.slots[tail] = *elem
		nb.tail.StoreRelease((tail + 1) & nb.mask)
		q.tailBlock.Store(nb)
		q.producer.exit()
		return nil
	}

	if !grow {
		q.producer.exit()
		return ErrWouldBlock
	}

	size := growSize(q.largest, q.maxBlock)
	if q.limit != 0 && q.slots+size > q.limit {
		q.producer.exit()
		return ErrCapacityLimit
	}
	b := newBlock[T](size)
	b.slots[0] = *elem
	b.tail.StoreRelaxed(1)
	b.localTail = 1

	// Link b behind the tail block. The consumer can see tb.next change
	// before tailBlock does, but it only follows next out of a block that
	// is not the tail block, so it cannot reach b before tailBlock is b.
	b.next.Store(nb)
	tb.next.Store(b)
	q.largest = size
	q.slots += size
	q.usable += size - 1
	q.tailBlock.Store(b)
	q.producer.exit()
	return nil
}
