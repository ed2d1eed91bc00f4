// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import lru "github.com/hashicorp/golang-lru"

// LRU is a typed view over golang-lru which counts the hits and misses of GetOrLoad.
type LRU[K comparable, V any] struct {
	c     *lru.Cache
	stats Stats
}

// NewLRU returns an LRU holding at most size entries. size must be positive.
func NewLRU[K comparable, V any](size int) (*LRU[K, V], error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{c: c}, nil
}

// MustNewLRU panics where NewLRU would fail.
func MustNewLRU[K comparable, V any](size int) *LRU[K, V] {
	l, err := NewLRU[K, V](size)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *LRU[K, V]) Get(key K) (v V, ok bool) {
	if raw, found := l.c.Get(key); found {
		return raw.(V), true
	}
	return
}

func (l *LRU[K, V]) Add(key K, v V)      { l.c.Add(key, v) }
func (l *LRU[K, V]) Contains(key K) bool { return l.c.Contains(key) }
func (l *LRU[K, V]) Len() int            { return l.c.Len() }
func (l *LRU[K, V]) Remove(key K)        { l.c.Remove(key) }
func (l *LRU[K, V]) Stats() *Stats       { return &l.stats }

// GetOrLoad returns the cached value of key, calling load on a miss.
// Failed loads are not cached.
func (l *LRU[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		l.stats.Hit()
		return v, nil
	}
	l.stats.Miss()

	v, err := load()
	if err != nil {
		return v, err
	}
	l.Add(key, v)
	return v, nil
}
