// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package block defines blocks, their headers and the id scheme that embeds the number.
package block

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/tx"
)

// Block is a header and the ordered txs it commits to. It is immutable.
type Block struct {
	header *Header
	txs    tx.Transactions
}

// rlpBlock is the wire layout of a block.
type rlpBlock struct {
	Header *Header
	Txs    tx.Transactions
}

// Compose joins a stored header and body. The txs root is not checked, use a Builder to make new blocks.
func Compose(header *Header, txs tx.Transactions) *Block {
	return &Block{header: header, txs: append(tx.Transactions(nil), txs...)}
}

// WithSignature returns a copy of the block carrying sig.
func (b *Block) WithSignature(sig []byte) *Block {
	return &Block{header: b.header.withSignature(sig), txs: b.txs}
}

func (b *Block) Header() *Header   { return b.header }
func (b *Block) ID() meter.Bytes32 { return b.header.ID() }

// Transactions returns a copy of the tx list.
func (b *Block) Transactions() tx.Transactions {
	return append(tx.Transactions(nil), b.txs...)
}

// Size is the encoded size of the txs, which the block size limit applies to.
func (b *Block) Size() uint64 {
	return b.txs.Size()
}

// EncodeRLP implements rlp.Encoder.
func (b *Block) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &rlpBlock{b.header, b.txs})
}

// DecodeRLP implements rlp.Decoder.
func (b *Block) DecodeRLP(s *rlp.Stream) error {
	var raw rlpBlock
	if err := s.Decode(&raw); err != nil {
		return err
	}
	b.header, b.txs = raw.Header, raw.Txs
	return nil
}

func (b *Block) String() string {
	return fmt.Sprintf("Block(%v txs, %v bytes) %v", len(b.txs), b.Size(), b.header)
}
