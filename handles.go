// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq

// Writer is the producer view of a [Queue].
//
// A Writer is a small value; copies refer to the same queue. Only one
// goroutine at a time may use the Writers of a queue.
type Writer[T any] struct {
	q *Queue[T]
}

// Enqueue adds a copy of *elem, growing the ring if needed.
// See [Queue.Enqueue].
func (w Writer[T]) Enqueue(elem *T) error {
	return w.q.Enqueue(elem)
}

// TryEnqueue adds a copy of *elem without allocating.
// See [Queue.TryEnqueue].
func (w Writer[T]) TryEnqueue(elem *T) error {
	return w.q.TryEnqueue(elem)
}

// Cap returns the element capacity of the ring. See [Queue.Cap].
func (w Writer[T]) Cap() int {
	return w.q.Cap()
}

// SizeApprox returns the approximate number of queued elements.
func (w Writer[T]) SizeApprox() int {
	return w.q.SizeApprox()
}

// Reader is the consumer view of a [Queue].
//
// A Reader is a small value; copies refer to the same queue. Only one
// goroutine at a time may use the Readers of a queue.
type Reader[T any] struct {
	q *Queue[T]
}

// TryDequeue removes and returns the front element.
// See [Queue.TryDequeue].
func (r Reader[T]) TryDequeue() (T, error) {
	return r.q.TryDequeue()
}

// Peek returns a pointer to the front element or nil. See [Queue.Peek].
func (r Reader[T]) Peek() *T {
	return r.q.Peek()
}

// Pop removes the front element. See [Queue.Pop].
func (r Reader[T]) Pop() error {
	return r.q.Pop()
}

// SizeApprox returns the approximate number of queued elements.
func (r Reader[T]) SizeApprox() int {
	return r.q.SizeApprox()
}
