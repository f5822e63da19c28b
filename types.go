// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

import "io"

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer to avoid copying large structs. The
// queue stores a copy of the pointed-to value, so the original can be
// modified after the call returns.
//
// A Producer must be driven by a single goroutine.
type Producer[T any] interface {
	// Enqueue adds an element, allocating storage if needed.
	// Fails only with ErrCapacityLimit.
	Enqueue(elem *T) error

	// TryEnqueue adds an element without allocating.
	// Returns ErrWouldBlock if there is no free slot.
	TryEnqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
//
// The element is returned by value (copied from the queue's internal
// buffer). The original slot is cleared to allow garbage collection of
// referenced objects.
//
// A Consumer must be driven by a single goroutine.
type Consumer[T any] interface {
	// TryDequeue removes and returns the front element.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	TryDequeue() (T, error)

	// Peek returns a pointer to the front element, or nil if the queue
	// is empty. The pointer is valid until the next consumer call.
	Peek() *T

	// Pop removes the front element without returning it.
	// Returns ErrWouldBlock if the queue is empty.
	Pop() error
}

var (
	_ Producer[int] = (*Queue[int])(nil)
	_ Consumer[int] = (*Queue[int])(nil)
	_ Producer[int] = Writer[int]{}
	_ Consumer[int] = Reader[int]{}
	_ io.Closer     = (*Queue[int])(nil)
)
