// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

// Constants of the ledger.
const (
	UsagePrecision  uint64 = 1_000_000  // fixed-point precision of averaged resource usage.
	WeightPrecision uint64 = 10_000_000 // frozen amount per unit of resource weight.

	MaxTxSize       uint64 = 64 * 1024       // max encoded size of a tx.
	MaxBlockSize    uint64 = 2 * 1024 * 1024 // max total encoded size of txs in a block.
	MaxResultSize   uint64 = 64              // size reserved for the result of a tx that runs the vm.
	MaxTxExpiration uint64 = 24 * 60 * 60    // (unit: second) max distance between block time and tx expiration.

	TaposWindow uint32 = 65536 // txs must refer to one of the latest blocks within this window.

	MaxConsumeUserPercent uint64 = 100
)
