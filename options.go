// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

import "golang.org/x/sys/cpu"

// DefaultMaxBlockSize is the block size used by [NewQueue] and by builders
// that do not call [Builder.MaxBlockSize].
const DefaultMaxBlockSize = 512

// DefaultMaxSize is a reasonable initial element count for callers that
// have no estimate. It fills exactly one 16-slot block.
const DefaultMaxSize = 15

// maxIndex bounds the requested element count so that maxSize+1 can be
// rounded up to a power of 2 without overflowing.
const maxIndex = 1 << 62

// Options configures queue creation.
type Options struct {
	// Elements the initial ring must hold without allocating
	maxSize int

	// Upper size of preallocated blocks (power of 2)
	maxBlockSize int

	// Ceiling on total physical slots across the ring, 0 = unbounded
	capacityLimit int
}

// Builder creates queues with fluent configuration.
//
// Example:
//
//	// Room for 10k events up front, blocks of 1024 slots
//	q, err := rwq.Build[Event](rwq.New(10_000).MaxBlockSize(1024))
//
//	// Never grow past 64k slots; Enqueue reports ErrCapacityLimit instead
//	q, err := rwq.Build[Event](rwq.New(1024).CapacityLimit(1 << 16))
type Builder struct {
	opts Options
}

// New creates a queue builder for a queue that can hold maxSize elements
// without further allocation.
//
// Panics if maxSize < 1.
func New(maxSize int) *Builder {
	if maxSize < 1 {
		panic("rwq: maxSize must be >= 1")
	}
	return &Builder{opts: Options{maxSize: maxSize, maxBlockSize: DefaultMaxBlockSize}}
}

// MaxBlockSize sets the size of preallocated blocks when maxSize does not
// fit in a single block, and the size at which block growth levels off.
//
// Panics if n is not a power of 2 or n < 2.
func (b *Builder) MaxBlockSize(n int) *Builder {
	if n < 2 || n&(n-1) != 0 {
		panic("rwq: MaxBlockSize must be a power of 2 >= 2")
	}
	b.opts.maxBlockSize = n
	return b
}

// CapacityLimit caps the total number of physical slots the ring may ever
// hold. Growth that would cross the limit is refused with
// [ErrCapacityLimit]. Zero means unbounded.
//
// Panics if n < 0.
func (b *Builder) CapacityLimit(n int) *Builder {
	if n < 0 {
		panic("rwq: CapacityLimit must be >= 0")
	}
	b.opts.capacityLimit = n
	return b
}

// Build creates a Queue[T] from the builder configuration.
//
// Returns [ErrCapacityLimit] if the initial ring does not fit within the
// configured capacity limit.
func Build[T any](b *Builder) (*Queue[T], error) {
	return newQueue[T](b.opts, nil)
}

// BuildWithRelease is like [Build] and installs release as the queue's
// release hook.
//
// The hook runs on an element that is destroyed in place: by [Queue.Pop]
// on the consumer side, and by [Queue.Close] for every element still queued.
// It does not run for [Queue.TryDequeue], which hands ownership of the
// element to the caller. The hook must not call back into the queue.
func BuildWithRelease[T any](b *Builder, release func(*T)) (*Queue[T], error) {
	return newQueue(b.opts, release)
}

// layout computes the initial ring shape for opts: the size of each
// block, the number of blocks, and whether the request is representable.
func layout(opts Options) (size, count uint64, ok bool) {
	if uint64(opts.maxSize) >= maxIndex {
		return 0, 0, false
	}
	maxSize := uint64(opts.maxSize)
	maxBlock := uint64(opts.maxBlockSize)

	// One spare slot so maxSize elements fit in the block.
	size = roundToPow2(maxSize + 1)
	if size <= maxBlock*2 {
		return size, 1, true
	}

	// Each block holds maxBlock-1 elements, and one whole block may be
	// lost while producer and consumer sit in different blocks. Solving
	// (maxBlock-1)*(count-1) >= maxSize with a ceiling gives count.
	count = (maxSize + maxBlock*2 - 3) / (maxBlock - 1)
	return maxBlock, count, true
}

// growSize returns the size of the next block to allocate, given the
// largest block allocated so far. Sizes double until maxBlock and then
// stay at the largest size reached.
func growSize(largest, maxBlock uint64) uint64 {
	return min(max(largest, maxBlock), largest*2)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n uint64) uint64 {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad = cpu.CacheLinePad
