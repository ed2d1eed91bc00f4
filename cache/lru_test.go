// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUGetOrLoad(t *testing.T) {
	c, err := NewLRU[int, string](2)
	require.NoError(t, err)

	loads := 0
	load := func(s string) func() (string, error) {
		return func() (string, error) {
			loads++
			return s, nil
		}
	}

	v, err := c.GetOrLoad(1, load("one"))
	require.NoError(t, err)
	assert.Equal(t, "one", v)

	v, err = c.GetOrLoad(1, load("uno"))
	require.NoError(t, err)
	assert.Equal(t, "one", v)
	assert.Equal(t, 1, loads)

	hit, miss := c.Stats().Counts()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	_, err = c.GetOrLoad(2, func() (string, error) { return "", errors.New("boom") })
	assert.Error(t, err)
	assert.False(t, c.Contains(2))
}

func TestLRUEviction(t *testing.T) {
	c := MustNewLRU[string, int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a")
	c.Add("c", 3)

	assert.Equal(t, 2, c.Len())
	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))

	_, ok := c.Get("b")
	assert.False(t, ok)
	c.Remove("a")
	assert.False(t, c.Contains("a"))
}

func TestNewLRUInvalidSize(t *testing.T) {
	_, err := NewLRU[int, int](0)
	assert.Error(t, err)
	assert.Panics(t, func() { MustNewLRU[int, int](-1) })
}
