// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/vechain/meter/meter"
)

// Log is an event emitted by a contract.
type Log struct {
	Address meter.Address
	Topics  []meter.Bytes32
	Data    []byte
}

// Receipt represents the results of a transaction.
type Receipt struct {
	// bandwidth charged from entitlement or free tier
	NetUsage uint64
	// bandwidth paid from balance, burned
	NetFee *big.Int
	// energy charged from the caller's entitlement
	EnergyUsage uint64
	// energy paid from balance, burned
	EnergyFee *big.Int
	// energy charged to the contract origin
	OriginEnergyUsage uint64
	// energy used by the execution in total
	EnergyUsageTotal uint64
	MultiSignFee     *big.Int

	Result          ResultCode
	ContractAddress meter.Address
	ReturnData      []byte
	Logs            []*Log
}

// Fee returns the sum of fees paid from balance.
func (r *Receipt) Fee() *big.Int {
	fee := new(big.Int)
	for _, f := range []*big.Int{r.NetFee, r.EnergyFee, r.MultiSignFee} {
		if f != nil {
			fee.Add(fee, f)
		}
	}
	return fee
}

// Receipts slice of receipts.
type Receipts []*Receipt
