// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/meter/metrics"

var (
	metricTxResults = metrics.LazyLoadCounterVec("runtime_tx_results_count", []string{"result"})
	metricRetries   = metrics.LazyLoadCounter("runtime_out_of_time_retries_count")
)
