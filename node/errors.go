// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "github.com/pkg/errors"

var (
	// ErrParentMissing is returned for a block whose parent is unknown.
	ErrParentMissing = errors.New("parent missing")
	// ErrKnownBlock is returned for a block already known.
	ErrKnownBlock = errors.New("block already known")
	// ErrForkBelowSolid is returned for a block forking at or below the solid block.
	ErrForkBelowSolid = errors.New("fork below solid block")

	errNoPacker = errors.New("no packer")
)

// IsParentMissing returns whether the block can be pushed once its parent arrives.
func IsParentMissing(err error) bool {
	return errors.Is(err, ErrParentMissing)
}

// IsKnownBlock returns whether the block was pushed before.
func IsKnownBlock(err error) bool {
	return errors.Is(err, ErrKnownBlock)
}
