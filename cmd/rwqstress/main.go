// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command rwqstress soaks an rwq queue with one producer and one consumer
// goroutine and verifies that every value arrives exactly once, in order.
//
// Usage:
//
//	go run ./cmd/rwqstress -n 1000000 -runs 5 -size 15 -block 512
//	go run ./cmd/rwqstress -n 1000000 -try -limit 4096
//
// The exit status is 1 if any run reorders, drops or duplicates a value,
// or does not finish before the timeout.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/rwq"
	"code.hybscloud.com/spin"
)

// config holds one stress run's parameters.
type config struct {
	n       int           // values per run
	size    int           // initial maxSize
	block   int           // MaxBlockSize
	limit   int           // CapacityLimit, 0 = unbounded
	try     bool          // producer uses TryEnqueue with backoff
	timeout time.Duration // per run
}

// stats describes a finished run.
type stats struct {
	elapsed  time.Duration
	capStart int
	capEnd   int
	retries  int64 // producer attempts that found the ring full
}

var errTimeout = errors.New("rwqstress: timeout")

// sequenceError reports the first value that broke the 0..n-1 sequence.
type sequenceError struct {
	index int
	got   int
}

func (e *sequenceError) Error() string {
	return fmt.Sprintf("rwqstress: value %d received at position %d", e.got, e.index)
}

func main() {
	var cfg config
	runs := flag.Int("runs", 3, "number of runs")
	flag.IntVar(&cfg.n, "n", 1_000_000, "values per run")
	flag.IntVar(&cfg.size, "size", rwq.DefaultMaxSize, "initial queue size")
	flag.IntVar(&cfg.block, "block", rwq.DefaultMaxBlockSize, "maximum block size (power of 2)")
	flag.IntVar(&cfg.limit, "limit", 0, "capacity limit in slots (0 = unbounded)")
	flag.BoolVar(&cfg.try, "try", false, "producer uses TryEnqueue with backoff")
	flag.DurationVar(&cfg.timeout, "timeout", 30*time.Second, "timeout per run")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := cfg.validate(); err != nil {
		logger.Error("invalid flags", "error", err)
		os.Exit(2)
	}

	failed := 0
	for i := range *runs {
		st, err := run(cfg)
		if err != nil {
			failed++
			logger.Error("run failed", "run", i, "error", err)
			continue
		}
		perOp := time.Duration(0)
		if cfg.n > 0 {
			perOp = st.elapsed / time.Duration(cfg.n)
		}
		logger.Info("run ok",
			"run", i,
			"n", cfg.n,
			"elapsed", st.elapsed,
			"per_op", perOp,
			"cap_start", st.capStart,
			"cap_end", st.capEnd,
			"retries", st.retries,
		)
	}

	if failed > 0 {
		logger.Error("stress failed", "failed", failed, "runs", *runs)
		os.Exit(1)
	}
	logger.Debug("stress passed", "runs", *runs)
}

func (c config) validate() error {
	switch {
	case c.n < 0:
		return errors.New("n must be >= 0")
	case c.size < 1:
		return errors.New("size must be >= 1")
	case c.block < 2 || c.block&(c.block-1) != 0:
		return errors.New("block must be a power of 2 >= 2")
	case c.limit < 0:
		return errors.New("limit must be >= 0")
	case c.timeout <= 0:
		return errors.New("timeout must be > 0")
	}
	return nil
}

// run transfers 0..n-1 from a producer goroutine to a consumer goroutine
// through a fresh queue and verifies the received sequence.
func run(cfg config) (stats, error) {
	q, err := rwq.Build[int](rwq.New(cfg.size).MaxBlockSize(cfg.block).CapacityLimit(cfg.limit))
	if err != nil {
		return stats{}, err
	}
	defer q.Close()

	w, r := q.Split()
	st := stats{capStart: w.Cap()}
	deadline := time.Now().Add(cfg.timeout)

	var wg sync.WaitGroup
	var stop atomix.Bool
	var prodErr, consErr error

	start := time.Now()

	wg.Add(1)
	go func() {
		defer wg.Done()
		prodErr = produce(cfg, w, &stop, deadline, &st.retries)
		st.capEnd = w.Cap()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		consErr = consume(cfg.n, r, &stop, deadline)
	}()

	wg.Wait()
	st.elapsed = time.Since(start)

	if err := errors.Join(prodErr, consErr); err != nil {
		return st, err
	}
	if _, err := r.TryDequeue(); err == nil {
		return st, errors.New("rwqstress: queue not empty after transfer")
	}
	return st, nil
}

func produce(cfg config, w rwq.Writer[int], stop *atomix.Bool, deadline time.Time, retries *int64) error {
	backoff := iox.Backoff{}
	for i := range cfg.n {
		v := i
		for {
			var err error
			if cfg.try {
				err = w.TryEnqueue(&v)
			} else {
				err = w.Enqueue(&v)
			}
			if err == nil {
				backoff.Reset()
				break
			}
			// ErrCapacityLimit is backpressure here too: the consumer frees
			// blocks and a later attempt reuses them.
			if !rwq.IsWouldBlock(err) && !errors.Is(err, rwq.ErrCapacityLimit) {
				stop.Store(true)
				return err
			}
			if stop.Load() {
				return nil
			}
			if time.Now().After(deadline) {
				stop.Store(true)
				return fmt.Errorf("%w: producer at %d", errTimeout, i)
			}
			*retries++
			backoff.Wait()
		}
	}
	return nil
}

func consume(n int, r rwq.Reader[int], stop *atomix.Bool, deadline time.Time) error {
	sw := spin.Wait{}
	for want := 0; want < n; {
		v, err := r.TryDequeue()
		if err != nil {
			if stop.Load() {
				return nil
			}
			if time.Now().After(deadline) {
				stop.Store(true)
				return fmt.Errorf("%w: consumer at %d of %d", errTimeout, want, n)
			}
			sw.Once()
			continue
		}
		sw.Reset()
		if v != want {
			stop.Store(true)
			return &sequenceError{index: want, got: v}
		}
		want++
	}
	return nil
}
