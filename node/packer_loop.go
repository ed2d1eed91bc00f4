// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"crypto/ecdsa"
	"time"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/packer"
)

// Run produces a block every block interval until ctx is done. It requires a packer.
func (n *Node) Run(ctx context.Context, key *ecdsa.PrivateKey) error {
	if n.packer == nil {
		return errNoPacker
	}
	n.goes.Go(func() { n.packerLoop(ctx, key) })
	<-ctx.Done()
	return nil
}

func (n *Node) packerLoop(ctx context.Context, key *ecdsa.PrivateKey) {
	logger.Debug("enter packer loop")
	defer logger.Debug("leave packer loop")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		now := n.now()
		when := packer.Schedule(n.repo.BestHeader(), now)
		if when > now {
			timer.Reset(time.Duration(when-now) * time.Second)
			continue
		}

		// leave half an interval for packing
		packCtx, cancel := context.WithTimeout(ctx, time.Duration(meter.BlockInterval())*time.Second/2)
		blk, err := n.BuildBlock(packCtx, key, when)
		cancel()
		if err != nil {
			logger.Warn("failed to build block", "err", err)
		} else {
			logger.Info("📦 new block packed",
				"txs", len(blk.Transactions()),
				"id", blk.ID().AbbrevString())
		}
		timer.Reset(time.Duration(meter.BlockInterval()) * time.Second / 2)
	}
}
