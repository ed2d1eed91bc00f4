// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node manages the chain: it accepts blocks, chooses the best branch and switches to it.
package node

import (
	"context"
	"crypto/ecdsa"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/chain"
	"github.com/vechain/meter/co"
	"github.com/vechain/meter/consensus"
	"github.com/vechain/meter/log"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/packer"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/txpool"
)

var logger = log.WithContext("pkg", "node")

// Node is the chain manager.
//
// The state in snap is always the state after the best block of repo.
// The retained layers of snap are the canonical blocks above the solid block.
type Node struct {
	lock       sync.Mutex
	repo       *chain.Repository
	snap       *snapshot.Chain
	cons       *consensus.Consensus
	txPool     *txpool.TxPool
	packer     *packer.Packer
	candidates *chain.Candidates
	solid      *block.Header

	bestBlockFeed event.Feed
	scope         event.SubscriptionScope
	goes          co.Goes

	now func() uint64
}

// RetainedLayers is the number of state layers the node needs in memory:
// every candidate plus the unconfirmed part of the best branch.
func RetainedLayers() int {
	return chain.DefaultCandidatesCapacity + int(meter.ConfirmDepth()) + 1
}

// New creates the chain manager. txPool can be nil.
// Recover must be called before any block is pushed.
func New(repo *chain.Repository, snap *snapshot.Chain, cons *consensus.Consensus, txPool *txpool.TxPool) *Node {
	n := &Node{
		repo:   repo,
		snap:   snap,
		cons:   cons,
		txPool: txPool,
		solid:  repo.GenesisBlock().Header(),
		now:    func() uint64 { return uint64(time.Now().Unix()) },
	}
	n.candidates = chain.NewCandidates(chain.DefaultCandidatesCapacity, repo.GetBlock)
	return n
}

// SetPacker enables block production.
func (n *Node) SetPacker(p *packer.Packer) {
	n.packer = p
}

// SolidBlock returns the header of the solid block. Its state is durable and it can never be reverted.
func (n *Node) SolidBlock() *block.Header {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.solid
}

// BestBlock returns the header of the head block.
func (n *Node) BestBlock() *block.Header {
	return n.repo.BestHeader()
}

// SubscribeBestBlock receivers will receive the new head after every head change.
func (n *Node) SubscribeBestBlock(ch chan *block.Header) event.Subscription {
	return n.scope.Track(n.bestBlockFeed.Subscribe(ch))
}

// Close waits for background routines and closes subscriptions.
func (n *Node) Close() {
	n.goes.Wait()
	n.scope.Close()
}

// PushBlock accepts a block received or loaded from elsewhere.
func (n *Node) PushBlock(ctx context.Context, blk *block.Block) error {
	n.lock.Lock()
	defer n.lock.Unlock()

	err := n.pushBlock(ctx, blk)
	status := "accepted"
	switch {
	case err == nil:
	case IsKnownBlock(err):
		status = "known"
	case IsParentMissing(err), consensus.IsFutureBlock(err):
		status = "queued"
	default:
		status = "rejected"
		logger.Debug("block rejected", "id", blk.ID(), "err", err)
	}
	metricBlockReceivedCount().AddWithLabel(1, map[string]string{"status": status})
	return err
}

func (n *Node) pushBlock(ctx context.Context, blk *block.Block) error {
	header := blk.Header()
	id := header.ID()

	if n.candidates.Has(id) {
		return ErrKnownBlock
	}
	if ok, err := n.repo.HasBlock(id); err != nil {
		return err
	} else if ok {
		return ErrKnownBlock
	}

	if header.Number() <= n.solid.Number() {
		return ErrForkBelowSolid
	}
	if !n.candidates.Has(header.ParentID()) {
		if ok, err := n.repo.HasBlock(header.ParentID()); err != nil {
			return err
		} else if !ok {
			return ErrParentMissing
		}
	}

	best := n.repo.BestHeader()
	switch {
	case header.ParentID() == best.ID():
		if err := n.applyBlock(ctx, blk); err != nil {
			return err
		}
		n.candidates.Add(blk)
	case header.Number() > best.Number():
		n.candidates.Add(blk)
		if err := n.switchBranch(ctx, best, blk); err != nil {
			return err
		}
	default:
		// not taller than the head, keep it for a later switch
		n.candidates.Add(blk)
		return nil
	}

	return n.afterHeadChanged()
}

func (n *Node) afterHeadChanged() error {
	best := n.repo.BestHeader()
	if err := n.solidify(best); err != nil {
		return err
	}
	n.candidates.Prune(best.Number())
	n.bestBlockFeed.Send(best)
	return nil
}

// solidify flushes the state of blocks deeper than the confirm depth.
func (n *Node) solidify(best *block.Header) error {
	depth := meter.ConfirmDepth()
	if best.Number() <= depth || best.Number()-depth <= n.solid.Number() {
		return nil
	}
	id, err := n.repo.GetCanonicalID(best.Number() - depth)
	if err != nil {
		return err
	}
	header, err := n.repo.GetHeader(id)
	if err != nil {
		return err
	}
	if err := n.snap.FlushTo(id); err != nil {
		return errors.Wrap(err, "flush state")
	}
	n.solid = header
	metricSolidBlockNumber().Set(int64(header.Number()))
	logger.Trace("block solidified", "number", header.Number(), "id", id)
	return nil
}

// BuildBlock packs pending txs into a new block at timestamp and pushes it.
// Packing stops when ctx is done. Skipped txs stay in the pool.
func (n *Node) BuildBlock(ctx context.Context, key *ecdsa.PrivateKey, timestamp uint64) (*block.Block, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	blk, err := n.buildBlock(ctx, key, timestamp)
	if err != nil {
		metricBlockProposedCount().AddWithLabel(1, map[string]string{"status": "failed"})
		return nil, err
	}
	metricBlockProposedCount().AddWithLabel(1, map[string]string{"status": "proposed"})
	metricBlockProposedTxs().Add(int64(len(blk.Transactions())))
	return blk, nil
}

func (n *Node) buildBlock(ctx context.Context, key *ecdsa.PrivateKey, timestamp uint64) (*block.Block, error) {
	if n.packer == nil {
		return nil, errNoPacker
	}
	best := n.repo.BestHeader()

	blk, err := func() (*block.Block, error) {
		sess := n.snap.NewSession(meter.Bytes32{})
		defer sess.Discard()

		flow, err := n.packer.Prepare(sess, best, timestamp)
		if err != nil {
			return nil, err
		}
		if n.txPool != nil {
			if err := n.adoptPending(ctx, flow); err != nil {
				return nil, err
			}
		}
		blk, _, err := flow.Pack(key)
		return blk, err
	}()
	if err != nil {
		return nil, err
	}

	// the block is processed as any other one
	if err := n.pushBlock(context.WithoutCancel(ctx), blk); err != nil {
		return nil, errors.WithMessage(err, "push packed block")
	}
	logger.Debug("block packed", "number", blk.Header().Number(), "id", blk.ID(), "txs", len(blk.Transactions()))
	return blk, nil
}

func (n *Node) adoptPending(ctx context.Context, flow *packer.Flow) error {
	for _, trx := range n.txPool.Executables() {
		err := flow.Adopt(ctx, trx)
		switch {
		case err == nil:
		case packer.IsBlockFull(err), packer.IsDeadline(err):
			return nil
		case packer.IsTxNotAdoptableNow(err):
		case packer.IsBadTx(err), packer.IsKnownTx(err):
			logger.Trace("tx dropped", "id", trx.ID(), "err", err)
			n.txPool.Remove(trx.ID())
		default:
			return err
		}
	}
	return nil
}
