// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/meter"
)

// applyBlock processes blk on top of the head and makes it the new head.
func (n *Node) applyBlock(ctx context.Context, blk *block.Block) error {
	parent := n.repo.BestHeader()
	if blk.Header().ParentID() != parent.ID() {
		return errors.Errorf("block %v not on head %v", blk.ID(), parent.ID())
	}

	sess := n.snap.NewSession(blk.ID())
	receipts, err := n.cons.Process(ctx, sess, parent, blk, n.now())
	if err != nil {
		sess.Discard()
		return err
	}
	if err := sess.Commit(); err != nil {
		return errors.Wrap(err, "commit state")
	}

	if err := n.repo.AddBlock(blk, receipts); err != nil {
		n.mustPop(blk.ID())
		return errors.Wrap(err, "add block")
	}
	if err := n.repo.SetBestBlockID(blk.ID()); err != nil {
		n.mustPop(blk.ID())
		return errors.Wrap(err, "set best block")
	}
	return nil
}

// switchBranch makes the branch ending at blk the canonical one.
//
// The old branch is popped down to the common ancestor, then the new branch is applied.
// When any block of the new branch fails, the applied part is popped, the bad block is
// dropped with its descendants, and the old branch is applied again.
func (n *Node) switchBranch(ctx context.Context, best *block.Header, blk *block.Block) error {
	ancestor, oldBranch, newBranch, err := n.candidates.Branches(best.ID(), blk.ID())
	if err != nil {
		return err
	}
	if block.Number(ancestor) < n.solid.Number() {
		n.candidates.Remove(newBranch[0].ID())
		return ErrForkBelowSolid
	}

	n.popTo(ancestor, oldBranch)

	for i, b := range newBranch {
		if err := n.applyBlock(ctx, b); err != nil {
			n.popTo(ancestor, newBranch[:i])
			dropped := n.candidates.Remove(b.ID())
			logger.Warn("branch switch failed, restoring",
				"bad", b.ID(), "dropped", dropped, "head", best.ID(), "err", err)

			for _, ob := range oldBranch {
				if err := n.applyBlock(context.WithoutCancel(ctx), ob); err != nil {
					panic(fmt.Sprintf("restore block %v: %v", ob.ID(), err))
				}
			}
			return err
		}
	}

	metricChainForkCount().Add(1)
	metricChainForkSize().Set(int64(len(oldBranch)))
	if len(oldBranch) > 0 {
		logger.Info("branch switched",
			"ancestor", ancestor, "retired", len(oldBranch), "new", len(newBranch), "head", blk.ID())
	}

	if n.txPool != nil {
		for _, ob := range oldBranch {
			n.txPool.Fill(ob.Transactions())
		}
	}
	return nil
}

// popTo pops the layers of branch, newest first, and moves the head back to ancestor.
func (n *Node) popTo(ancestor meter.Bytes32, branch []*block.Block) {
	for i := len(branch) - 1; i >= 0; i-- {
		n.mustPop(branch[i].ID())
	}
	if err := n.repo.SetBestBlockID(ancestor); err != nil {
		panic(fmt.Sprintf("reset head to %v: %v", ancestor, err))
	}
}

// mustPop pops the newest state layer, which must be the one of id.
func (n *Node) mustPop(id meter.Bytes32) {
	tag, err := n.snap.Pop()
	if err != nil {
		panic(fmt.Sprintf("pop state of %v: %v", id, err))
	}
	if tag != id {
		panic(fmt.Sprintf("pop state of %v: got %v", id, tag))
	}
}
