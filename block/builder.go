// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/tx"
)

// Builder assembles an unsigned block. The txs root is derived on Build.
type Builder struct {
	body headerBody
	txs  tx.Transactions
}

func (b *Builder) set(f func(*headerBody)) *Builder {
	f(&b.body)
	return b
}

func (b *Builder) ParentID(id meter.Bytes32) *Builder {
	return b.set(func(h *headerBody) { h.ParentID = id })
}

func (b *Builder) Timestamp(ts uint64) *Builder {
	return b.set(func(h *headerBody) { h.Timestamp = ts })
}

func (b *Builder) Version(v uint32) *Builder {
	return b.set(func(h *headerBody) { h.Version = v })
}

func (b *Builder) Producer(addr meter.Address) *Builder {
	return b.set(func(h *headerBody) { h.Producer = addr })
}

// Transaction appends trx to the body.
func (b *Builder) Transaction(trx *tx.Transaction) *Builder {
	b.txs = append(b.txs, trx)
	return b
}

func (b *Builder) Build() *Block {
	h := &Header{body: b.body}
	h.body.TxsRoot = b.txs.RootHash()
	return &Block{header: h, txs: b.txs}
}

// Sign returns blk signed by key, which should belong to the producer.
func Sign(blk *Block, key *ecdsa.PrivateKey) (*Block, error) {
	sig, err := crypto.Sign(blk.Header().SigningHash().Bytes(), key)
	if err != nil {
		return nil, err
	}
	return blk.WithSignature(sig), nil
}
