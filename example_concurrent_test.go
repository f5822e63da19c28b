// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// This file contains examples with a producer and a consumer goroutine.
// Slot contents are ordered by atomix acquire-release operations, which
// the race detector cannot see; the examples are excluded from race runs.

package rwq_test

import (
	"fmt"
	"sync"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/rwq"
	"code.hybscloud.com/spin"
)

// ExampleQueue_Split demonstrates an event handoff between two goroutines.
func ExampleQueue_Split() {
	type Event struct {
		Kind string
		N    int
	}

	q := rwq.NewQueue[Event](4)
	w, r := q.Split()

	var wg sync.WaitGroup

	// Producer: never waits, the ring grows while the consumer lags.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 6 {
			ev := Event{Kind: "key", N: i}
			w.Enqueue(&ev)
		}
	}()

	// Consumer: polls with a spin wait.
	sum := 0
	wg.Add(1)
	go func() {
		defer wg.Done()
		sw := spin.Wait{}
		for got := 0; got < 6; {
			ev, err := r.TryDequeue()
			if err != nil {
				sw.Once()
				continue
			}
			sw.Reset()
			sum += ev.N
			got++
		}
	}()

	wg.Wait()
	fmt.Println("sum:", sum)

	// Output:
	// sum: 15
}

// Example_bounded demonstrates a fixed ring with producer backpressure.
func Example_bounded() {
	q := rwq.NewQueue[int](3)

	var wg sync.WaitGroup
	results := make([]int, 0, 10)

	wg.Add(1)
	go func() {
		defer wg.Done()
		backoff := iox.Backoff{}
		for i := range 10 {
			v := i * i
			for q.TryEnqueue(&v) != nil {
				backoff.Wait()
			}
			backoff.Reset()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		sw := spin.Wait{}
		for len(results) < 10 {
			v, err := q.TryDequeue()
			if err != nil {
				sw.Once()
				continue
			}
			sw.Reset()
			results = append(results, v)
		}
	}()

	wg.Wait()
	fmt.Println(results, q.Cap())

	// Output:
	// [0 1 4 9 16 25 36 49 64 81] 3
}
