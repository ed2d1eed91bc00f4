// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/consensus"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/tx"
	"github.com/vechain/meter/vm"
)

// Flow the flow of packing a new block.
type Flow struct {
	packer       *Packer
	parentHeader *block.Header
	blk          vm.BlockContext
	applier      *consensus.Applier
}

func newFlow(packer *Packer, parentHeader *block.Header, blk vm.BlockContext, applier *consensus.Applier) *Flow {
	return &Flow{
		packer:       packer,
		parentHeader: parentHeader,
		blk:          blk,
		applier:      applier,
	}
}

// ParentHeader returns parent block header.
func (f *Flow) ParentHeader() *block.Header {
	return f.parentHeader
}

// When the target time to do packing.
func (f *Flow) When() uint64 {
	return f.blk.Time
}

// Number returns the number of the block being packed.
func (f *Flow) Number() uint32 {
	return f.blk.Number
}

// Adopt try to execute the given transaction.
// If the tx is valid and can be executed on current state (regardless of VM error),
// it will be adopted by the new block.
func (f *Flow) Adopt(ctx context.Context, trx *tx.Transaction) error {
	if err := f.adopt(ctx, trx); err != nil {
		result := "bad"
		switch {
		case IsBlockFull(err), IsTxNotAdoptableNow(err):
			result = "deferred"
		case IsDeadline(err):
			result = "deadline"
		case IsKnownTx(err):
			result = "known"
		}
		metricTxAdopted().AddWithLabel(1, map[string]string{"result": result})
		return err
	}
	metricTxAdopted().AddWithLabel(1, map[string]string{"result": "adopted"})
	return nil
}

func (f *Flow) adopt(ctx context.Context, trx *tx.Transaction) error {
	if ctx.Err() != nil {
		return errDeadline
	}
	switch {
	case trx.ChainTag() != f.packer.repo.ChainTag():
		return badTx("chain tag mismatch")
	case trx.BlockRef().Number() > f.parentHeader.Number():
		return errTxNotAdoptableNow
	case trx.IsExpired(f.blk.Time):
		return badTx("expired")
	case f.applier.Size()+trx.Size() > meter.MaxBlockSize:
		// try to find a smaller tx while less than 90% full
		if f.applier.Size() < meter.MaxBlockSize/10*9 {
			return errTxNotAdoptableNow
		}
		return errBlockFull
	}

	signers, err := trx.Signers(f.packer.cons.Verifier())
	if err != nil {
		return badTx("signer unavailable: " + err.Error())
	}

	// the packing deadline is checked between txs only
	if _, err := f.applier.Apply(context.WithoutCancel(ctx), trx, signers, nil); err != nil {
		switch {
		case errors.Is(err, consensus.ErrDup):
			return errKnownTx
		case consensus.IsRejectedTx(err):
			return badTx(err.Error())
		}
		return err
	}
	return nil
}

// Pack build and sign the new block.
func (f *Flow) Pack(privateKey *ecdsa.PrivateKey) (*block.Block, tx.Receipts, error) {
	if f.packer.producer != meter.Address(crypto.PubkeyToAddress(privateKey.PublicKey)) {
		return nil, nil, errors.New("private key mismatch")
	}

	receipts, err := f.applier.Finish()
	if err != nil {
		return nil, nil, err
	}

	builder := new(block.Builder).
		ParentID(f.parentHeader.ID()).
		Timestamp(f.blk.Time).
		Version(f.blk.Version).
		Producer(f.blk.Producer)
	for _, trx := range f.applier.Transactions() {
		builder.Transaction(trx)
	}

	blk, err := block.Sign(builder.Build(), privateKey)
	if err != nil {
		return nil, nil, err
	}
	return blk, receipts, nil
}
