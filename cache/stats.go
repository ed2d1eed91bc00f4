// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// reportEvery is the lookup count between two reports.
const reportEvery = 64

// Stats counts cache lookups. Safe for concurrent use.
type Stats struct {
	hit, miss atomic.Int64
	reported  atomic.Int64 // lookups at the last report
}

// Hit records a hit and returns the hit count.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

// Miss records a miss and returns the miss count.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Counts returns hits and misses so far.
func (cs *Stats) Counts() (hit, miss int64) {
	return cs.hit.Load(), cs.miss.Load()
}

// Gauge receives the counts of Report.
type Gauge interface {
	SetWithLabel(int64, map[string]string)
}

// Report publishes the counts to g under the cache name.
// The first lookup is published at once, later ones every reportEvery lookups.
func (cs *Stats) Report(name string, g Gauge) {
	hit, miss := cs.Counts()
	lookups := hit + miss
	last := cs.reported.Load()
	if lookups == last || (last != 0 && lookups-last < reportEvery) {
		return
	}
	if !cs.reported.CompareAndSwap(last, lookups) {
		// another caller is reporting
		return
	}
	g.SetWithLabel(hit, map[string]string{"type": name, "event": "hit"})
	g.SetWithLabel(miss, map[string]string{"type": name, "event": "miss"})
}
