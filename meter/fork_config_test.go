// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForkConfigString(t *testing.T) {
	fc := NoFork
	fc.DirectEnergyFee = 4
	assert.Equal(t, "DIRECTFEE: v4", fc.String())

	assert.Equal(t, "MULTISIGN: v2, ADAPTIVE: v2, DELEGATE: v3, DIRECTFEE: v4", DefaultForkConfig.String())
}

func TestSupportsVersion(t *testing.T) {
	assert.False(t, SupportsVersion(0))
	assert.True(t, SupportsVersion(1))
	assert.True(t, SupportsVersion(BlockVersion))
	assert.False(t, SupportsVersion(BlockVersion+1))
}

func TestSlot(t *testing.T) {
	assert.Equal(t, uint64(0), Slot(2))
	assert.Equal(t, uint64(1), Slot(3))
	assert.Equal(t, uint64(100), Slot(301))
}
