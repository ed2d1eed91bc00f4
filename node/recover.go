// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vechain/meter/block"
)

// Recover rebuilds the state layers above the durable state, by replaying canonical blocks
// above the last flushed one. It must be called before the node serves.
func (n *Node) Recover(ctx context.Context) error {
	n.lock.Lock()
	defer n.lock.Unlock()

	if want := RetainedLayers(); n.snap.MaxRetained() < want {
		if err := n.snap.SetMaxRetained(want); err != nil {
			return errors.Wrap(err, "set state retention")
		}
	}

	flushed, ok, err := n.snap.Flushed()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("state not initialized")
	}
	solid, err := n.repo.GetHeader(flushed)
	if err != nil {
		return errors.Wrap(err, "get flushed block")
	}
	if ok, err := n.repo.IsCanonical(flushed); err != nil {
		return err
	} else if !ok {
		return errors.Errorf("flushed block %v not canonical", flushed)
	}

	best := n.repo.BestHeader()
	blks := make([]*block.Block, 0, best.Number()-solid.Number())
	for num := solid.Number() + 1; num <= best.Number(); num++ {
		id, err := n.repo.GetCanonicalID(num)
		if err != nil {
			return err
		}
		blk, err := n.repo.GetBlock(id)
		if err != nil {
			return err
		}
		blks = append(blks, blk)
	}

	n.solid = solid
	if err := n.repo.SetBestBlockID(flushed); err != nil {
		return err
	}
	for _, blk := range blks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := n.applyBlock(ctx, blk); err != nil {
			return errors.WithMessagef(err, "replay block %v", blk.ID())
		}
		n.candidates.Add(blk)
	}
	if len(blks) > 0 {
		logger.Info("state recovered", "from", solid.Number(), "to", best.Number())
	}
	return n.afterHeadChanged()
}
