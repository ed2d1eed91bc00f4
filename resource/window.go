// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package resource

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/meter/meter"
)

// Increase folds usage at nowSlot into the window (lastUsage, lastSlot) and returns the decayed total.
func Increase(lastUsage, usage, lastSlot, nowSlot, window uint64) uint64 {
	if window == 0 {
		window = 1
	}
	var (
		p = uint256.NewInt(meter.UsagePrecision)
		w = uint256.NewInt(window)
	)
	avgLast := divCeil(new(uint256.Int).Mul(uint256.NewInt(lastUsage), p), w)
	avgNew := divCeil(new(uint256.Int).Mul(uint256.NewInt(usage), p), w)

	if lastSlot < nowSlot {
		if delta := nowSlot - lastSlot; delta < window {
			// round(avgLast * (window - delta) / window)
			x := new(uint256.Int).Mul(avgLast, uint256.NewInt(window-delta))
			x.Add(x, uint256.NewInt(window/2))
			avgLast = x.Div(x, w)
		} else {
			avgLast.Clear()
		}
	}

	sum := new(uint256.Int).Add(avgLast, avgNew)
	sum.Mul(sum, w)
	sum.Div(sum, p)
	if !sum.IsUint64() {
		return math.MaxUint64
	}
	return sum.Uint64()
}

// Recover returns the decayed usage of the window at nowSlot.
func Recover(lastUsage, lastSlot, nowSlot, window uint64) uint64 {
	return Increase(lastUsage, 0, lastSlot, nowSlot, window)
}

func divCeil(x, y *uint256.Int) *uint256.Int {
	q, r := new(uint256.Int).DivMod(x, y, new(uint256.Int))
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}
	return q
}

// Entitlement returns the share of totalLimit the frozen weight is entitled to.
// frozen counts in whole weight units, matching how the network totals add up.
func Entitlement(frozen *big.Int, totalLimit, totalWeight uint64) uint64 {
	if totalWeight == 0 || frozen.Sign() <= 0 {
		return 0
	}
	return mulDiv(WeightOf(frozen), totalLimit, totalWeight)
}

// WeightOf converts a frozen amount into network weight.
func WeightOf(amount *big.Int) uint64 {
	w := new(big.Int).Div(amount, new(big.Int).SetUint64(meter.WeightPrecision))
	if !w.IsUint64() {
		return math.MaxUint64
	}
	return w.Uint64()
}

// admit checks amount against limit on the window and returns the new usage.
// The stored usage never exceeds limit.
func admit(usage, latestSlot, limit, amount, slot uint64) (uint64, bool) {
	window := meter.ResourceWindow()
	decayed := Recover(usage, latestSlot, slot, window)
	if decayed > limit || amount > limit-decayed {
		return 0, false
	}
	return min(Increase(usage, amount, latestSlot, slot, window), limit), true
}

func mulDiv(x, y, z uint64) uint64 {
	r := new(uint256.Int).Mul(uint256.NewInt(x), uint256.NewInt(y))
	r.Div(r, uint256.NewInt(z))
	if !r.IsUint64() {
		return math.MaxUint64
	}
	return r.Uint64()
}
