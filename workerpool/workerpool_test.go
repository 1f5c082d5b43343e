// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()
	assert.Equal(t, 4, pool.NumWorkers())
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()
	assert.Equal(t, runtime.GOMAXPROCS(0), pool.NumWorkers())
}

func TestParallelForAtomic(t *testing.T) {
	for _, n := range []int{0, 1, 3, 100, 1000} {
		pool := New(4)
		results := make([]int, n)
		var calls atomic.Int32
		pool.ParallelForAtomic(n, func(i int) {
			calls.Add(1)
			results[i] = i * 2
		})
		pool.Close()

		assert.Equal(t, int32(n), calls.Load(), "n=%d", n)
		for i := range n {
			assert.Equal(t, i*2, results[i], "results[%d]", i)
		}
	}
}

func TestPoolReuse(t *testing.T) {
	pool := New(3)
	defer pool.Close()

	var total atomic.Int64
	for range 50 {
		pool.ParallelForAtomic(20, func(i int) { total.Add(int64(i)) })
	}
	assert.Equal(t, int64(50*190), total.Load())
}

func TestForEachKeepsErrorsInIndexOrder(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	errOdd := errors.New("odd")
	errs := pool.ForEach(context.Background(), 9, func(_ context.Context, i int) error {
		if i%2 == 1 {
			return errOdd
		}
		return nil
	})
	require.Len(t, errs, 9)
	for i, err := range errs {
		if i%2 == 1 {
			assert.ErrorIs(t, err, errOdd, "index %d", i)
		} else {
			assert.NoError(t, err, "index %d", i)
		}
	}
}

func TestForEachCanceled(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ran atomic.Int32
	errs := pool.ForEach(ctx, 10, func(context.Context, int) error {
		ran.Add(1)
		return nil
	})
	assert.Zero(t, ran.Load())
	for _, err := range errs {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestCloseIdempotent(t *testing.T) {
	pool := New(2)
	pool.Close()
	pool.Close()

	// A closed pool still runs work, sequentially.
	sum := 0
	pool.ParallelForAtomic(5, func(i int) { sum += i })
	assert.Equal(t, 10, sum)
}

func BenchmarkParallelForAtomic(b *testing.B) {
	pool := New(0)
	defer pool.Close()
	var sink atomic.Int64
	for b.Loop() {
		pool.ParallelForAtomic(256, func(i int) { sink.Add(int64(i)) })
	}
}
