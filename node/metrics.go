// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "github.com/vechain/meter/metrics"

var (
	metricBlockProposedCount = metrics.LazyLoadCounterVec("block_proposed_count", []string{"status"})
	metricBlockProposedTxs   = metrics.LazyLoadCounter("block_proposed_tx_count")
	metricBlockReceivedCount = metrics.LazyLoadCounterVec("block_received_count", []string{"status"})
	metricChainForkCount     = metrics.LazyLoadCounter("chain_fork_count")
	metricChainForkSize      = metrics.LazyLoadGauge("chain_fork_size")
	metricSolidBlockNumber   = metrics.LazyLoadGauge("chain_solid_block_number")
)
