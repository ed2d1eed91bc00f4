// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package packer produces blocks out of pending txs.
package packer

import (
	"github.com/pkg/errors"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/chain"
	"github.com/vechain/meter/consensus"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/vm"
)

// Packer to pack txs and build new blocks.
type Packer struct {
	repo     *chain.Repository
	cons     *consensus.Consensus
	producer meter.Address
	version  uint32
}

// New create a new Packer instance.
func New(repo *chain.Repository, cons *consensus.Consensus, producer meter.Address) *Packer {
	return &Packer{
		repo:     repo,
		cons:     cons,
		producer: producer,
		version:  meter.BlockVersion,
	}
}

// SetVersion sets the version of packed blocks. It is never lower than the parent's.
func (p *Packer) SetVersion(v uint32) {
	p.version = v
}

// Schedule returns the earliest valid block time after parent not before nowTimestamp.
func Schedule(parent *block.Header, nowTimestamp uint64) uint64 {
	interval := meter.BlockInterval()
	next := parent.Timestamp() + interval
	if nowTimestamp > next {
		next += (nowTimestamp - next + interval - 1) / interval * interval
	}
	return next
}

// Prepare starts a flow packing a block at timestamp on top of parent.
// sess must hold the state of parent. It is written by the flow and should be discarded after packing.
func (p *Packer) Prepare(sess *snapshot.Session, parent *block.Header, timestamp uint64) (*Flow, error) {
	if timestamp <= parent.Timestamp() || (timestamp-parent.Timestamp())%meter.BlockInterval() != 0 {
		return nil, errors.Errorf("invalid block time %v on parent time %v", timestamp, parent.Timestamp())
	}
	version := max(p.version, parent.Version())
	if !meter.SupportsVersion(version) {
		return nil, errors.Errorf("unsupported block version %v", version)
	}

	blkCtx := vm.BlockContext{
		Number:   parent.Number() + 1,
		Time:     timestamp,
		Producer: p.producer,
		Version:  version,
	}
	applier, err := p.cons.NewApplier(sess, parent, blkCtx)
	if err != nil {
		return nil, errors.WithMessage(err, "applier")
	}
	return newFlow(p, parent, blkCtx, applier), nil
}
