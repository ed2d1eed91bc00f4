// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"bytes"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"

	"github.com/vechain/meter/meter"
)

// Transactions a slice of transactions.
type Transactions []*Transaction

// Len implements types.DerivableList.
func (txs Transactions) Len() int {
	return len(txs)
}

// EncodeIndex implements types.DerivableList. Results are included.
func (txs Transactions) EncodeIndex(i int, w *bytes.Buffer) {
	if err := rlp.Encode(w, txs[i]); err != nil {
		panic(err)
	}
}

// RootHash computes merkle root hash of transactions.
func (txs Transactions) RootHash() meter.Bytes32 {
	if len(txs) == 0 {
		return EmptyRoot
	}
	return meter.Bytes32(types.DeriveSha(txs, trie.NewStackTrie(nil)))
}

// Size returns the sum of encoded sizes of the txs.
func (txs Transactions) Size() uint64 {
	var size uint64
	for _, t := range txs {
		size += t.Size()
	}
	return size
}

// EmptyRoot is the root hash of an empty tx list.
var EmptyRoot = meter.Bytes32(types.EmptyRootHash)
