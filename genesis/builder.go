// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/lvldb"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/state"
)

// Builder describes a genesis: its time, the network extra data and the steps that write the initial state.
type Builder struct {
	timestamp uint64
	extra     [28]byte
	steps     []func(*state.State) error
}

func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State appends a step run against the initial state, in order.
func (b *Builder) State(step func(*state.State) error) *Builder {
	b.steps = append(b.steps, step)
	return b
}

// ExtraData fills the last 28 bytes of the genesis parent id, so different networks get different ids.
func (b *Builder) ExtraData(extra [28]byte) *Builder {
	b.extra = extra
	return b
}

// ComputeID builds the genesis against a throwaway store and returns its id.
func (b *Builder) ComputeID() (meter.Bytes32, error) {
	blk, err := b.Build(snapshot.New(lvldb.NewMem(), 1))
	if err != nil {
		return meter.Bytes32{}, err
	}
	return blk.ID(), nil
}

// Build returns the genesis block. Its state is written to snap and flushed as the durable base.
func (b *Builder) Build(snap *snapshot.Chain) (*block.Block, error) {
	// a parent number of 0xffffffff makes the genesis number 0
	var parentID meter.Bytes32
	copy(parentID[:4], []byte{0xff, 0xff, 0xff, 0xff})
	copy(parentID[4:], b.extra[:])

	blk := new(block.Builder).
		ParentID(parentID).
		Timestamp(b.timestamp).
		Version(1).
		Build()
	id := blk.ID()

	sess := snap.NewSession(id)
	st := state.New(sess)
	for i, step := range b.steps {
		if err := step(st); err != nil {
			sess.Discard()
			return nil, errors.Wrapf(err, "genesis state step %d", i)
		}
	}
	if err := sess.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit genesis state")
	}
	if err := snap.FlushTo(id); err != nil {
		return nil, errors.Wrap(err, "flush genesis state")
	}
	return blk, nil
}
