// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

import "sync/atomic"

// Queue is a growable single-producer single-consumer FIFO queue.
//
// The queue is a circular linked list of blocks, each a Lamport ring
// buffer with cached index optimization. The producer fills the tail block
// and moves on to the next block once it is full; the consumer drains the
// front block and follows. When the producer catches up with the consumer's
// block, Enqueue splices a new block into the ring behind the tail block.
// Blocks are never freed while the queue is open, so vacated blocks are
// reused by the producer without a reclamation scheme.
//
// Enqueue and TryDequeue are wait-free while the current block has room or
// data. The slow path advances to the next block or allocates at most one
// new block and never spins.
//
// Exactly one goroutine may act as producer (Enqueue, TryEnqueue, Cap)
// and one as consumer (TryDequeue, Peek, Pop). SizeApprox may be called
// from either. Use [Queue.Split] to hand each side only its own methods.
//
// Memory: O(maxSize) up front, grows by whole blocks and never shrinks.
type Queue[T any] struct {
	_          pad
	frontBlock atomic.Pointer[block[T]] // Consumer advances
	consumer   guard
	_          pad
	tailBlock  atomic.Pointer[block[T]] // Producer advances
	largest    uint64                   // Producer's largest block size so far
	slots      uint64                   // Producer's total physical slots
	usable     uint64                   // Producer's total element capacity
	producer   guard
	_          pad
	maxBlock   uint64
	limit      uint64 // 0 = unbounded
	release    func(*T)
}

const closedMsg = "rwq: use of closed queue"

// NewQueue creates a queue that can hold maxSize elements without
// allocating, using [DefaultMaxBlockSize] and no capacity limit.
//
// Panics if maxSize < 1 or maxSize is too large to index.
func NewQueue[T any](maxSize int) *Queue[T] {
	q, err := Build[T](New(maxSize))
	if err != nil {
		panic(err)
	}
	return q
}

func newQueue[T any](opts Options, release func(*T)) (*Queue[T], error) {
	size, count, ok := layout(opts)
	if !ok {
		return nil, ErrCapacityLimit
	}
	limit := uint64(opts.capacityLimit)
	if limit != 0 && size*count > limit {
		return nil, ErrCapacityLimit
	}

	q := &Queue[T]{
		largest:  size,
		slots:    size * count,
		usable:   (size - 1) * count,
		maxBlock: uint64(opts.maxBlockSize),
		limit:    limit,
		release:  release,
	}

	first := newBlock[T](size)
	last := first
	for range count - 1 {
		b := newBlock[T](size)
		last.next.Store(b)
		last = b
	}
	last.next.Store(first)

	// Sequentially consistent stores: a goroutine that receives q through
	// a channel or go statement observes the whole ring.
	q.frontBlock.Store(first)
	q.tailBlock.Store(first)
	return q, nil
}

// SizeApprox returns the approximate number of elements in the queue.
//
// Safe to call from both the producer and the consumer. The result is not
// a snapshot: each block is sampled separately while the other side keeps
// moving, so it may be stale in either direction. It is exact only when
// neither side is active. Never use it to predict whether a following
// TryDequeue will succeed.
func (q *Queue[T]) SizeApprox() int {
	first := q.frontBlock.Load()
	if first == nil {
		return 0
	}
	var n uint64
	b := first
	for {
		n += b.count()
		b = b.next.Load()
		if b == first {
			break
		}
	}
	return int(n)
}

// Cap returns the number of elements the ring can hold across all of its
// blocks, excluding the slot each block reserves.
//
// Because the block holding the consumer may be partially drained, the
// number of elements that fit without allocating at any moment can be
// smaller. Cap grows as Enqueue adds blocks. Producer only.
func (q *Queue[T]) Cap() int {
	return int(q.usable)
}

// Close releases the ring. Every element still queued is passed to the
// release hook, if any, and the slots are zeroed.
//
// Close must not run concurrently with any other operation; quiesce both
// the producer and the consumer first. Close is idempotent and always
// returns nil. Any enqueue or dequeue after Close panics.
func (q *Queue[T]) Close() error {
	first := q.frontBlock.Load()
	if first == nil {
		return nil
	}
	q.producer.enter()
	defer q.producer.exit()
	q.consumer.enter()
	defer q.consumer.exit()

	b := first
	for {
		b.drop(q.release)
		b = b.next.Load()
		if b == first {
			break
		}
	}
	q.frontBlock.Store(nil)
	q.tailBlock.Store(nil)
	return nil
}

// Split returns the producer and consumer views of q.
//
// Hand the Writer to the producer goroutine and the Reader to the consumer
// goroutine; each view exposes only the operations its side may perform.
func (q *Queue[T]) Split() (Writer[T], Reader[T]) {
	return Writer[T]{q: q}, Reader[T]{q: q}
}
