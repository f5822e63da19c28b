// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rwq_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/rwq"
	"code.hybscloud.com/spin"
)

// =============================================================================
// Stress Test Helper
// =============================================================================

// transferTest runs one producer goroutine sending 0..n-1 and one consumer
// goroutine receiving with TryDequeue in a spin loop, then verifies the
// received sequence is exactly 0..n-1.
type transferTest struct {
	t       *testing.T
	n       int
	try     bool // producer uses TryEnqueue with backoff instead of Enqueue
	timeout time.Duration
}

func (tt *transferTest) run(q *rwq.Queue[int]) {
	t := tt.t
	w, r := q.Split()

	var wg sync.WaitGroup
	var timedOut atomix.Bool
	var received atomix.Int64
	deadline := time.Now().Add(tt.timeout)

	// Producer
	wg.Add(1)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for i := range tt.n {
			v := i
			if !tt.try {
				if err := w.Enqueue(&v); err != nil {
					t.Errorf("Enqueue(%d): %v", i, err)
					return
				}
				continue
			}
			for w.TryEnqueue(&v) != nil {
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				backoff.Wait()
			}
			backoff.Reset()
		}
	}()

	// Consumer
	var mismatch, first int
	wg.Add(1)
	go func() {
		defer wg.Done()
		sw := spin.Wait{}
		for want := 0; want < tt.n; {
			v, err := r.TryDequeue()
			if err != nil {
				if time.Now().After(deadline) {
					timedOut.Store(true)
					return
				}
				sw.Once()
				continue
			}
			sw.Reset()
			if v != want {
				if mismatch == 0 {
					first = want
				}
				mismatch++
				want = v
			}
			want++
			received.Add(1)
		}
	}()

	wg.Wait()

	if timedOut.Load() {
		t.Fatalf("timeout after %v: received %d of %d", tt.timeout, received.Load(), tt.n)
	}
	if mismatch != 0 {
		t.Fatalf("sequence broken %d times, first at %d", mismatch, first)
	}
	if got := received.Load(); got != int64(tt.n) {
		t.Fatalf("received: got %d, want %d", got, tt.n)
	}
	if _, err := r.TryDequeue(); err == nil {
		t.Fatal("queue not empty after transfer")
	}
}

// =============================================================================
// Concurrency Stress
// =============================================================================

// TestConcurrentTransfer tests strict FIFO delivery across goroutines for
// several ring shapes, transfer sizes, and repeated runs.
func TestConcurrentTransfer(t *testing.T) {
	if rwq.RaceEnabled {
		t.Skip("skip: concurrent transfer relies on atomix ordering")
	}

	shapes := []struct {
		name string
		b    func() *rwq.Builder
	}{
		{"Default", func() *rwq.Builder { return rwq.New(rwq.DefaultMaxSize) }},
		{"TinyBlocks", func() *rwq.Builder { return rwq.New(1).MaxBlockSize(8) }},
		{"Preallocated", func() *rwq.Builder { return rwq.New(4096).MaxBlockSize(64) }},
	}
	counts := []int{0, 1, 1000, 1_000_000}

	for _, shape := range shapes {
		for _, n := range counts {
			t.Run(fmt.Sprintf("%s/n=%d", shape.name, n), func(t *testing.T) {
				if n >= 1_000_000 && testing.Short() {
					t.Skip("skip: large transfer in short mode")
				}
				for run := range 3 {
					q, err := rwq.Build[int](shape.b())
					if err != nil {
						t.Fatalf("run %d: Build: %v", run, err)
					}
					tt := &transferTest{t: t, n: n, timeout: 30 * time.Second}
					tt.run(q)
				}
			})
		}
	}
}

// TestConcurrentTransferBounded tests delivery when the producer never
// grows the ring and must wait for the consumer to free blocks.
func TestConcurrentTransferBounded(t *testing.T) {
	if rwq.RaceEnabled {
		t.Skip("skip: concurrent transfer relies on atomix ordering")
	}

	for _, n := range []int{1000, 100_000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			q, err := rwq.Build[int](rwq.New(20).MaxBlockSize(4))
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			capacity := q.Cap()

			tt := &transferTest{t: t, n: n, try: true, timeout: 30 * time.Second}
			tt.run(q)

			if q.Cap() != capacity {
				t.Fatalf("Cap: got %d, want %d", q.Cap(), capacity)
			}
		})
	}
}

// TestConcurrentSizeApprox tests that SizeApprox stays within bounds while
// both sides are active, and is exact once they stop.
func TestConcurrentSizeApprox(t *testing.T) {
	if rwq.RaceEnabled {
		t.Skip("skip: concurrent transfer relies on atomix ordering")
	}

	const n = 100_000
	q, err := rwq.Build[int](rwq.New(64).MaxBlockSize(16))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var wg sync.WaitGroup
	var done atomix.Bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range n {
			v := i
			q.Enqueue(&v)
		}
		done.Store(true)
	}()

	sw := spin.Wait{}
	for got := 0; got < n/2; {
		if size := q.SizeApprox(); size < 0 || size > n {
			t.Fatalf("SizeApprox out of range: %d", size)
		}
		if _, err := q.TryDequeue(); err != nil {
			sw.Once()
			continue
		}
		sw.Reset()
		got++
	}
	wg.Wait()

	if !done.Load() {
		t.Fatal("producer did not finish")
	}
	if size := q.SizeApprox(); size != n-n/2 {
		t.Fatalf("SizeApprox after quiesce: got %d, want %d", size, n-n/2)
	}
}
