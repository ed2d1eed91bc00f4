// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/meter/lvldb"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/params"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/state"
)

func TestLoadStore(t *testing.T) {
	st := state.New(snapshot.New(lvldb.NewMem(), 1).NewSession(meter.Bytes32{}))

	loaded, err := params.Load(st)
	require.NoError(t, err)
	assert.Equal(t, params.Default(), loaded)

	v := params.Default()
	require.NoError(t, v.Set(params.KeyEnergyFee, 420))
	require.NoError(t, v.Store(st))

	loaded, err = params.Load(st)
	require.NoError(t, err)
	assert.Equal(t, uint64(420), loaded.EnergyFee)

	raw, ok, err := st.GetParam(params.KeyFreeNetLimit)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, params.Default().FreeNetLimit, raw)
}

func TestGetSet(t *testing.T) {
	v := params.Default()
	for _, key := range params.Keys {
		require.NoError(t, v.Set(key, 7), key)
		got, ok := v.Get(key)
		assert.True(t, ok)
		assert.Equal(t, uint64(7), got, key)
	}
	assert.Error(t, v.Set("nope", 1))
	_, ok := v.Get("nope")
	assert.False(t, ok)
}
