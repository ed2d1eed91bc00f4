// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/qianbin/directcache"

	"github.com/vechain/meter/cache"
	"github.com/vechain/meter/kv"
	"github.com/vechain/meter/meter"
)

var (
	// ErrNothingToPop is returned by Pop when no retained layer is left.
	ErrNothingToPop = errors.New("snapshot: nothing to pop")
	// ErrSessionOpen is returned when an operation requires all sessions closed.
	ErrSessionOpen = errors.New("snapshot: session open")
	// ErrUnknownTag is returned by FlushTo when no retained layer has the tag.
	ErrUnknownTag = errors.New("snapshot: unknown tag")

	flushedKey = []byte("snapshot.flushed")
)

// entry is the recorded value of a key. A deleted entry shadows lower levels.
type entry struct {
	val     []byte
	deleted bool
}

type layer struct {
	tag meter.Bytes32
	kvs map[string]entry
}

// Chain is the revoking store.
//
// Sessions must be driven by one goroutine at a time. Get is safe for concurrent use.
type Chain struct {
	db          kv.Store
	maxRetained int

	rw       sync.RWMutex
	layers   []*layer // retained layers, oldest first
	sessions []*Session

	durable      *directcache.Cache // values read from or flushed into db, nil if disabled
	durableStats cache.Stats
}

// New creates a revoking store over db, retaining at most maxRetained committed layers.
func New(db kv.Store, maxRetained int) *Chain {
	if maxRetained < 1 {
		maxRetained = 1
	}
	return &Chain{
		db:          db,
		maxRetained: maxRetained,
	}
}

// EnableCache caches durable values in sizeMB megabytes. Absent keys are not cached.
// Must be called before the chain is used.
func (c *Chain) EnableCache(sizeMB int) {
	if sizeMB > 0 {
		c.durable = directcache.New(sizeMB * 1024 * 1024)
	}
}

// NewSession opens a root session. The tag identifies the retained layer it becomes on commit.
// It panics if another session is open.
func (c *Chain) NewSession(tag meter.Bytes32) *Session {
	if len(c.sessions) != 0 {
		panic("snapshot: root session already open")
	}
	s := &Session{
		chain: c,
		tag:   tag,
		kvs:   make(map[string]entry),
	}
	c.sessions = append(c.sessions, s)
	return s
}

// Depth returns the count of open sessions.
func (c *Chain) Depth() int {
	return len(c.sessions)
}

// Retained returns tags of retained layers, oldest first.
func (c *Chain) Retained() []meter.Bytes32 {
	c.rw.RLock()
	defer c.rw.RUnlock()

	tags := make([]meter.Bytes32, 0, len(c.layers))
	for _, l := range c.layers {
		tags = append(tags, l.tag)
	}
	return tags
}

// Get reads the committed value of key, skipping open sessions.
// The returned slice must not be modified.
func (c *Chain) Get(key []byte) ([]byte, bool, error) {
	c.rw.RLock()
	defer c.rw.RUnlock()

	return c.getCommitted(key)
}

func (c *Chain) getCommitted(key []byte) ([]byte, bool, error) {
	for i := len(c.layers) - 1; i >= 0; i-- {
		if e, ok := c.layers[i].kvs[string(key)]; ok {
			if e.deleted {
				return nil, false, nil
			}
			return e.val, true, nil
		}
	}
	if c.durable != nil {
		if val, ok := c.durable.Get(key); ok {
			c.durableStats.Hit()
			return val, true, nil
		}
		c.durableStats.Miss()
		c.durableStats.Report("durable", metricCacheHitMiss())
	}

	val, err := c.db.Get(key)
	if err != nil {
		if c.db.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if c.durable != nil {
		c.durable.Set(key, val)
	}
	return val, true, nil
}

// Pop undoes the newest retained layer and returns its tag.
func (c *Chain) Pop() (meter.Bytes32, error) {
	if len(c.sessions) != 0 {
		return meter.Bytes32{}, ErrSessionOpen
	}

	c.rw.Lock()
	defer c.rw.Unlock()

	n := len(c.layers)
	if n == 0 {
		return meter.Bytes32{}, ErrNothingToPop
	}
	top := c.layers[n-1]
	c.layers[n-1] = nil
	c.layers = c.layers[:n-1]
	metricRetainedLayers().Set(int64(len(c.layers)))
	return top.tag, nil
}

// MaxRetained returns the retention bound.
func (c *Chain) MaxRetained() int {
	c.rw.RLock()
	defer c.rw.RUnlock()
	return c.maxRetained
}

// SetMaxRetained changes the retention bound, flushing excess layers at once.
func (c *Chain) SetMaxRetained(n int) error {
	if n < 1 {
		n = 1
	}
	c.rw.Lock()
	defer c.rw.Unlock()

	c.maxRetained = n
	if excess := len(c.layers) - c.maxRetained; excess > 0 {
		return c.flush(excess)
	}
	return nil
}

// FlushTo flushes retained layers up to and including the one tagged with tag.
func (c *Chain) FlushTo(tag meter.Bytes32) error {
	c.rw.Lock()
	defer c.rw.Unlock()

	for i, l := range c.layers {
		if l.tag == tag {
			return c.flush(i + 1)
		}
	}
	return ErrUnknownTag
}

// Flushed returns the tag of the last layer flushed into the durable store.
func (c *Chain) Flushed() (meter.Bytes32, bool, error) {
	val, err := c.db.Get(flushedKey)
	if err != nil {
		if c.db.IsNotFound(err) {
			return meter.Bytes32{}, false, nil
		}
		return meter.Bytes32{}, false, err
	}
	return meter.BytesToBytes32(val), true, nil
}

// flush writes the oldest n layers into the durable store in one atomic bulk.
func (c *Chain) flush(n int) error {
	if n <= 0 {
		return nil
	}
	bulk := c.db.Bulk()
	for _, l := range c.layers[:n] {
		for k, e := range l.kvs {
			var err error
			if e.deleted {
				err = bulk.Delete([]byte(k))
			} else {
				err = bulk.Put([]byte(k), e.val)
			}
			if err != nil {
				return err
			}
		}
	}
	if err := bulk.Put(flushedKey, c.layers[n-1].tag.Bytes()); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "flush layers")
	}
	if c.durable != nil {
		for _, l := range c.layers[:n] {
			for k, e := range l.kvs {
				if e.deleted {
					c.durable.Del([]byte(k))
				} else {
					c.durable.Set([]byte(k), e.val)
				}
			}
		}
	}

	for i := range n {
		c.layers[i] = nil
	}
	c.layers = c.layers[n:]
	metricFlushedLayers().Add(int64(n))
	metricRetainedLayers().Set(int64(len(c.layers)))
	return nil
}

func (c *Chain) retain(l *layer) error {
	c.rw.Lock()
	defer c.rw.Unlock()

	c.layers = append(c.layers, l)
	metricRetainedLayers().Set(int64(len(c.layers)))
	if excess := len(c.layers) - c.maxRetained; excess > 0 {
		return c.flush(excess)
	}
	return nil
}
