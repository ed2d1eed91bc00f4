// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import "github.com/vechain/meter/metrics"

var metricTxAdopted = metrics.LazyLoadCounterVec("packer_tx_adopted_count", []string{"result"})
