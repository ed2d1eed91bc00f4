// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParallel(t *testing.T) {
	results := make([]int, 100)
	err := Parallel(context.Background(), len(results), func(_ context.Context, i int) error {
		results[i] = i * i
		return nil
	})
	assert.NoError(t, err)
	for i, r := range results {
		assert.Equal(t, i*i, r)
	}
}

func TestParallelError(t *testing.T) {
	errBoom := errors.New("boom")
	var calls atomic.Int32
	err := Parallel(context.Background(), 10, func(_ context.Context, i int) error {
		calls.Add(1)
		if i == 3 {
			return errBoom
		}
		return nil
	})
	assert.Equal(t, errBoom, err)
	assert.LessOrEqual(t, calls.Load(), int32(10))
}

func TestParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Parallel(ctx, 5, func(context.Context, int) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
