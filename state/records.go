// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/tx"
)

// Account is the ledger representation of an account.
type Account struct {
	Balance    *big.Int
	CreateTime uint64
	Permission tx.Permission

	// free tier bandwidth window
	FreeNetUsage uint64
	FreeNetSlot  uint64
}

// OwnerPermission returns the effective owner permission of the account at addr.
func (a *Account) OwnerPermission(addr meter.Address) tx.Permission {
	if a.Permission.IsZero() {
		return tx.DefaultPermission(addr)
	}
	return a.Permission
}

// Resource is the per account record of one metered resource.
type Resource struct {
	Frozen       *big.Int // frozen by the account for itself
	Expiry       uint64   // unix time the frozen amount can be released
	DelegatedOut *big.Int // frozen by the account for others
	Acquired     *big.Int // frozen by others for the account

	// usage window
	Usage      uint64
	LatestSlot uint64
}

// Weight returns the frozen amount counted for the entitlement of the account.
func (r *Resource) Weight() *big.Int {
	return new(big.Int).Add(r.Frozen, r.Acquired)
}

// Delegation is the frozen amount an account delegated to another.
type Delegation struct {
	Amount *big.Int
	Expiry uint64
}

// Dynamic holds network wide totals mutated by blocks.
type Dynamic struct {
	TotalNetWeight          uint64 // sum of bandwidth weight in units of meter.WeightPrecision
	TotalEnergyWeight       uint64 // sum of energy weight in units of meter.WeightPrecision
	TotalEnergyCurrentLimit uint64 // adaptive energy limit

	EnergyAverageUsage uint64
	EnergyAverageSlot  uint64

	// free tier pool
	PublicNetUsage uint64
	PublicNetSlot  uint64

	// totals of the latest block
	BlockNetUsage    uint64
	BlockEnergyUsage uint64

	Burned *big.Int
}

// Producer is the statistics of a block producer.
type Producer struct {
	Blocks       uint64
	LatestNumber uint32
	Fees         *big.Int
}

// Pool is a fund managed by its owner. Its reserve pays the multi-sign fee of pool transfers.
type Pool struct {
	Owner   meter.Address
	Balance *big.Int
	Reserve *big.Int
}

// Contract is the record of a deployed contract.
type Contract struct {
	Origin             meter.Address
	ConsumeUserPercent uint64 // share of energy paid by callers
	OriginEnergyLimit  uint64 // max energy the origin pays per call
	Code               []byte
}

func normalize(vals ...**big.Int) {
	for _, v := range vals {
		if *v == nil {
			*v = new(big.Int)
		}
	}
}
