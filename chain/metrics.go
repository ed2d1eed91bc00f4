// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import "github.com/vechain/meter/metrics"

var (
	metricCacheHitMiss = metrics.LazyLoadGaugeVec("repo_cache_hit_miss_count", []string{"type", "event"})
	metricBlockCount   = metrics.LazyLoadCounterVec("block_repository_count", []string{"type"})
	metricReorgDepth   = metrics.LazyLoadHistogram("repo_canonical_reorg_depth", []int64{1, 2, 3, 5, 8, 13, 21})
)
