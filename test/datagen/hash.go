// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random values for tests.
package datagen

import (
	"crypto/rand"

	"github.com/vechain/meter/meter"
)

func RandomHash() meter.Bytes32 {
	var b32 meter.Bytes32

	rand.Read(b32[:])
	return b32
}

func RandAddress() meter.Address {
	var addr meter.Address

	rand.Read(addr[:])
	return addr
}
