// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/binary"

	"github.com/vechain/meter/meter"
)

// BlockRef is the TAPOS reference of a tx: block number followed by 4 bytes of the block id.
type BlockRef [8]byte

// Number extracts block number.
func (br BlockRef) Number() uint32 {
	return binary.BigEndian.Uint32(br[:])
}

// Matches returns whether the reference points to the block with the given id.
func (br BlockRef) Matches(blockID meter.Bytes32) bool {
	return br == NewBlockRefFromID(blockID)
}

// NewBlockRef create block reference with block number only.
func NewBlockRef(blockNum uint32) (br BlockRef) {
	binary.BigEndian.PutUint32(br[:], blockNum)
	return
}

// NewBlockRefFromUint64 create block reference from its integer form.
func NewBlockRefFromUint64(v uint64) (br BlockRef) {
	binary.BigEndian.PutUint64(br[:], v)
	return
}

// Uint64 returns the integer form of the reference.
func (br BlockRef) Uint64() uint64 {
	return binary.BigEndian.Uint64(br[:])
}

// NewBlockRefFromID create block reference from block id.
func NewBlockRefFromID(blockID meter.Bytes32) (br BlockRef) {
	copy(br[:], blockID[:])
	return
}
