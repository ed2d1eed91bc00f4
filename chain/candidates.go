// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"github.com/pkg/errors"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/meter"
)

// DefaultCandidatesCapacity is the default height span the candidates tree keeps below the head.
const DefaultCandidatesCapacity = 1024

// Candidates is the tree of recently known blocks, keyed by id and linked by parent.
// Blocks missing from the tree are looked up in the source, when one is set.
//
// It's not thread-safe.
type Candidates struct {
	capacity uint32
	source   func(id meter.Bytes32) (*block.Block, error)
	blocks   map[meter.Bytes32]*block.Block
	children map[meter.Bytes32]map[meter.Bytes32]struct{}
}

// NewCandidates creates a tree keeping blocks within capacity heights below the head.
func NewCandidates(capacity uint32, source func(id meter.Bytes32) (*block.Block, error)) *Candidates {
	return &Candidates{
		capacity: capacity,
		source:   source,
		blocks:   make(map[meter.Bytes32]*block.Block),
		children: make(map[meter.Bytes32]map[meter.Bytes32]struct{}),
	}
}

// Len returns the count of blocks in the tree.
func (c *Candidates) Len() int {
	return len(c.blocks)
}

// Add puts the block into the tree.
func (c *Candidates) Add(blk *block.Block) {
	id := blk.ID()
	if _, ok := c.blocks[id]; ok {
		return
	}
	c.blocks[id] = blk
	parentID := blk.Header().ParentID()
	kids := c.children[parentID]
	if kids == nil {
		kids = make(map[meter.Bytes32]struct{})
		c.children[parentID] = kids
	}
	kids[id] = struct{}{}
}

// Has returns whether the block is in the tree.
func (c *Candidates) Has(id meter.Bytes32) bool {
	_, ok := c.blocks[id]
	return ok
}

// Get returns the block from the tree, or from the source.
func (c *Candidates) Get(id meter.Bytes32) (*block.Block, error) {
	if blk, ok := c.blocks[id]; ok {
		return blk, nil
	}
	if c.source == nil {
		return nil, errors.WithMessagef(errNotFound, "candidate %v", id)
	}
	return c.source(id)
}

// Remove drops the block and all its descendants. Returns the count of dropped blocks.
func (c *Candidates) Remove(id meter.Bytes32) int {
	n := 0
	queue := []meter.Bytes32{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if blk, ok := c.blocks[cur]; ok {
			delete(c.blocks, cur)
			if kids := c.children[blk.Header().ParentID()]; kids != nil {
				delete(kids, cur)
				if len(kids) == 0 {
					delete(c.children, blk.Header().ParentID())
				}
			}
			n++
		}
		for kid := range c.children[cur] {
			queue = append(queue, kid)
		}
		delete(c.children, cur)
	}
	return n
}

// Prune drops blocks lower than capacity heights below head.
func (c *Candidates) Prune(head uint32) {
	if head < c.capacity {
		return
	}
	floor := head - c.capacity
	for id, blk := range c.blocks {
		if blk.Header().Number() < floor {
			delete(c.blocks, id)
			parentID := blk.Header().ParentID()
			if kids := c.children[parentID]; kids != nil {
				delete(kids, id)
				if len(kids) == 0 {
					delete(c.children, parentID)
				}
			}
		}
	}
}

// Branches returns the blocks of both branches above their lowest common ancestor, oldest first,
// along with the ancestor id.
func (c *Candidates) Branches(a, b meter.Bytes32) (ancestor meter.Bytes32, branchA, branchB []*block.Block, err error) {
	step := func(id meter.Bytes32, branch *[]*block.Block) (meter.Bytes32, error) {
		blk, err := c.Get(id)
		if err != nil {
			return meter.Bytes32{}, err
		}
		*branch = append(*branch, blk)
		return blk.Header().ParentID(), nil
	}

	for a != b {
		na, nb := block.Number(a), block.Number(b)
		if na >= nb {
			if a, err = step(a, &branchA); err != nil {
				return
			}
		}
		if nb >= na {
			if b, err = step(b, &branchB); err != nil {
				return
			}
		}
	}
	reverse(branchA)
	reverse(branchB)
	return a, branchA, branchB, nil
}

func reverse(blks []*block.Block) {
	for i, j := 0, len(blks)-1; i < j; i, j = i+1, j-1 {
		blks[i], blks[j] = blks[j], blks[i]
	}
}
