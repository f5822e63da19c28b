// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rwq provides a growable single-producer single-consumer FIFO
// queue for handing work items or events from one goroutine to another.
//
// The queue is wait-free on the common path and allocates sparingly: only
// when the producer runs into the consumer, O(lg n) times amortized, and
// never if the initial size estimate is not exceeded.
//
// # Quick Start
//
//	q := rwq.NewQueue[Event](1024)
//	w, r := q.Split()
//
//	go func() { // Producer
//	    for ev := range source {
//	        w.Enqueue(&ev) // grows the ring if needed
//	    }
//	}()
//
//	go func() { // Consumer
//	    sw := spin.Wait{}
//	    for {
//	        ev, err := r.TryDequeue()
//	        if err != nil {
//	            sw.Once()
//	            continue
//	        }
//	        sw.Reset()
//	        handle(ev)
//	    }
//	}()
//
// # Design
//
// The queue is a circular linked list of blocks. Each block is a bounded
// circular buffer that reserves one slot, so front == tail means empty.
// The producer owns every tail index and the tail block pointer; the
// consumer owns every front index and the front block pointer. Each side
// only reads the other's indices, and keeps a shadow copy that is refreshed
// only when the block looks full (producer) or empty (consumer).
//
// When the tail block is full the producer moves to the next block, unless
// that is the consumer's block. Then Enqueue splices a new block in after
// the tail block; TryEnqueue reports [ErrWouldBlock] instead. Blocks are
// never freed while the queue is open.
//
// # Sizing
//
// A queue built for maxSize elements holds at least maxSize elements
// without allocating:
//
//	NewQueue[int](15)    // one block of 16 slots, 15 usable
//	NewQueue[int](1000)  // one block of 1024 slots, 1023 usable
//	NewQueue[int](5000)  // 11 blocks of 512 slots
//
// When maxSize+1 rounded up to a power of 2 exceeds twice the maximum
// block size, the ring is preallocated as blocks of MaxBlockSize, with one
// extra block so that the guarantee holds while producer and consumer sit
// in different blocks.
//
// Grown blocks double in size up to the maximum block size and then keep
// the largest size reached. Without a limit the ring grows for as long as
// memory lasts. Set [Builder.CapacityLimit] to turn runaway growth into
// [ErrCapacityLimit]:
//
//	q, err := rwq.Build[Event](rwq.New(1024).MaxBlockSize(256).CapacityLimit(1 << 20))
//
// # Error Handling
//
// Queues return [ErrWouldBlock] when an operation cannot proceed without
// waiting. This error is sourced from [code.hybscloud.com/iox].
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.TryEnqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !rwq.IsWouldBlock(err) {
//	        return err
//	    }
//	    backoff.Wait()
//	}
//
// Enqueue returns [ErrCapacityLimit] when growth is refused. Calling into
// the same side of the queue from a release hook panics with
// [ErrReentrant].
//
// # Thread Safety
//
// One goroutine enqueues, one goroutine dequeues. Switching roles or
// using more than one goroutine per role without external synchronization
// causes undefined behavior. [Queue.SizeApprox] is safe from either side
// and returns an estimate only. [Queue.Close] requires both sides to be
// quiescent.
//
// There is no blocking or timeout support. Poll with [iox.Backoff] or
// [code.hybscloud.com/spin], or pair the queue with your own wakeup signal.
//
// # Race Detection
//
// Slot contents are published through acquire-release operations on the
// block indices, which the race detector cannot observe. Concurrent tests
// are skipped when [RaceEnabled] is set.
package rwq
