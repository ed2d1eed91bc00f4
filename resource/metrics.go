// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package resource

import (
	"math"
	"math/big"

	"github.com/vechain/meter/metrics"
)

var (
	metricBurned      = metrics.LazyLoadCounterVec("resource_burned_count", []string{"kind"})
	metricEnergyLimit = metrics.LazyLoadGauge("resource_energy_current_limit")
)

func recordBurned(kind string, fee *big.Int) {
	metricBurned().AddWithLabel(burnedValue(fee), map[string]string{"kind": kind})
}

// burnedValue saturates fee to fit a counter increment.
func burnedValue(fee *big.Int) int64 {
	switch {
	case fee.Sign() <= 0:
		return 0
	case !fee.IsInt64():
		return math.MaxInt64
	default:
		return fee.Int64()
	}
}
