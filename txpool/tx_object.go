// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"time"

	"github.com/vechain/meter/tx"
)

// txObject is a pooled tx with its pool bookkeeping.
type txObject struct {
	*tx.Transaction
	timeAdded      int64  // unix nano, for lifetime
	seq            uint64 // set by txObjectMap.Add
	localSubmitted bool
}

// resolveTx checks that trx is signed. Results a tx carried on a retired branch are stripped.
func resolveTx(trx *tx.Transaction, verifier tx.Verifier, localSubmitted bool) (*txObject, error) {
	signers, err := trx.Signers(verifier)
	if err != nil {
		return nil, err
	}
	if len(signers) == 0 {
		return nil, badTx("unsigned")
	}
	return &txObject{
		Transaction:    trx.WithoutResults(),
		timeAdded:      time.Now().UnixNano(),
		localSubmitted: localSubmitted,
	}, nil
}
