// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import "github.com/vechain/meter/metrics"

var (
	metricRetainedLayers = metrics.LazyLoadGauge("snapshot_retained_layers")
	metricFlushedLayers  = metrics.LazyLoadCounter("snapshot_flushed_layers_count")
	metricCacheHitMiss   = metrics.LazyLoadGaugeVec("snapshot_cache_hit_miss_count", []string{"type", "event"})
)
