// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package consensus applies transactions and blocks on top of a parent state.
package consensus

import (
	"context"
	"time"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/cache"
	"github.com/vechain/meter/chain"
	"github.com/vechain/meter/co"
	"github.com/vechain/meter/log"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/tx"
	"github.com/vechain/meter/vm"
)

var logger = log.WithContext("pkg", "consensus")

const recentTxsCacheSize = 16384

// Consensus checks blocks and txs and applies them.
type Consensus struct {
	repo     *chain.Repository
	fork     meter.ForkConfig
	executor vm.Executor
	verifier tx.Verifier

	// tx id => id of the block including it
	recent *cache.LRU[meter.Bytes32, meter.Bytes32]
}

// New create a Consensus instance.
func New(repo *chain.Repository, fork meter.ForkConfig, executor vm.Executor, verifier tx.Verifier) *Consensus {
	return &Consensus{
		repo:     repo,
		fork:     fork,
		executor: executor,
		verifier: verifier,
		recent:   cache.MustNewLRU[meter.Bytes32, meter.Bytes32](recentTxsCacheSize),
	}
}

// Verifier returns the signature verifier.
func (c *Consensus) Verifier() tx.Verifier {
	return c.verifier
}

// Process applies a received block on sess, which holds the state of parent.
// Every failure is fatal for the block since its tx set is fixed. On success the receipts are
// returned and the caller commits sess.
func (c *Consensus) Process(ctx context.Context, sess *snapshot.Session, parent *block.Header, blk *block.Block, nowTimestamp uint64) (tx.Receipts, error) {
	startTime := time.Now()
	header := blk.Header()

	if err := c.validateBlockHeader(header, parent, nowTimestamp); err != nil {
		return nil, err
	}
	if err := c.validateBlockBody(blk); err != nil {
		return nil, err
	}

	txs := blk.Transactions()
	signers, err := c.recoverSigners(ctx, txs)
	if err != nil {
		return nil, err
	}

	applier, err := c.NewApplier(sess, parent, BlockContext(header))
	if err != nil {
		return nil, err
	}
	for i, trx := range txs {
		expected, ok := trx.Result()
		if !ok {
			return nil, newConsensusError("tx %v: result missing", trx.ID())
		}
		if _, err := applier.Apply(ctx, trx, signers[i], &expected); err != nil {
			if IsRejectedTx(err) {
				return nil, &consensusError{msg: "block tx " + trx.ID().String(), cause: err}
			}
			return nil, err
		}
	}
	receipts, err := applier.Finish()
	if err != nil {
		return nil, err
	}

	id := blk.ID()
	for _, trx := range txs {
		c.recent.Add(trx.ID(), id)
	}
	metricBlockProcessedDuration().Observe(time.Since(startTime).Milliseconds())
	logger.Debug("block processed", "id", id, "txs", len(txs), "elapsed", time.Since(startTime))
	return receipts, nil
}

// BlockContext returns the execution context of the block.
func BlockContext(header *block.Header) vm.BlockContext {
	return vm.BlockContext{
		Number:   header.Number(),
		Time:     header.Timestamp(),
		Producer: header.Producer(),
		Version:  header.Version(),
	}
}

func (c *Consensus) validateBlockHeader(header *block.Header, parent *block.Header, nowTimestamp uint64) error {
	if header.ParentID() != parent.ID() {
		return newConsensusError("block parent mismatch: want %v, have %v", parent.ID(), header.ParentID())
	}
	if header.Timestamp() <= parent.Timestamp() {
		return newConsensusError("block timestamp behind parents: parent %v, current %v", parent.Timestamp(), header.Timestamp())
	}
	if (header.Timestamp()-parent.Timestamp())%meter.BlockInterval() != 0 {
		return newConsensusError("block interval not rounded: parent %v, current %v", parent.Timestamp(), header.Timestamp())
	}
	if header.Timestamp() > nowTimestamp+meter.BlockInterval() {
		return errFutureBlock
	}
	if !meter.SupportsVersion(header.Version()) {
		return newConsensusError("block version unsupported: %v", header.Version())
	}
	if header.Version() < parent.Version() {
		return newConsensusError("block version behind parents: parent %v, current %v", parent.Version(), header.Version())
	}

	signer, err := header.Signer()
	if err != nil {
		return newConsensusError("block signer unavailable: %v", err)
	}
	if signer != header.Producer() {
		return newConsensusError("block signer invalid: want %v, have %v", header.Producer(), signer)
	}
	return nil
}

func (c *Consensus) validateBlockBody(blk *block.Block) error {
	header := blk.Header()
	txs := blk.Transactions()
	if root := txs.RootHash(); header.TxsRoot() != root {
		return newConsensusError("block txs root mismatch: want %v, have %v", header.TxsRoot(), root)
	}
	if size := blk.Size(); size > meter.MaxBlockSize {
		return newConsensusError("block size exceeds limit: %v > %v", size, meter.MaxBlockSize)
	}
	return nil
}

// recoverSigners recovers the signers of all txs in parallel.
func (c *Consensus) recoverSigners(ctx context.Context, txs tx.Transactions) ([][]meter.Address, error) {
	signers := make([][]meter.Address, len(txs))
	err := co.Parallel(ctx, len(txs), func(_ context.Context, i int) error {
		s, err := txs[i].Signers(c.verifier)
		if err != nil {
			return newConsensusError("tx %v signer unavailable: %v", txs[i].ID(), err)
		}
		signers[i] = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return signers, nil
}
