// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/genesis"
	"github.com/vechain/meter/lvldb"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/params"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/state"
)

func TestDevnet(t *testing.T) {
	g := genesis.NewDevnet()
	assert.Equal(t, "devnet", g.Name())

	snap := snapshot.New(lvldb.NewMem(), 4)
	blk, err := g.Build(snap)
	require.NoError(t, err)
	assert.Equal(t, g.ID(), blk.ID())
	assert.Equal(t, uint32(0), blk.Header().Number())
	assert.Equal(t, g.ID(), genesis.NewDevnet().ID())

	flushed, ok, err := snap.Flushed()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, g.ID(), flushed)
	assert.Empty(t, snap.Retained())

	sess := snap.NewSession(meter.Bytes32{})
	defer sess.Discard()
	st := state.New(sess)

	acc := genesis.DevAccounts()[0]
	balance, err := st.GetBalance(acc.Address)
	require.NoError(t, err)
	assert.Equal(t, 1, balance.Sign())

	d, err := st.GetDynamic()
	require.NoError(t, err)
	assert.Equal(t, uint64(len(genesis.DevAccounts())*10_000), d.TotalEnergyWeight)
	assert.Equal(t, d.TotalEnergyWeight, d.TotalNetWeight)

	p, err := params.Load(st)
	require.NoError(t, err)
	assert.Equal(t, params.Default(), p)
}

const customYAML = `
launchTime: 1700000000
extraData: my net
params:
  energyFee: 280
config:
  blockInterval: 6
accounts:
  - address: "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
    balance: "1000000000"
    frozenEnergy: "0x989680"
`

func TestCustomNet(t *testing.T) {
	gen, err := genesis.LoadCustomGenesis(strings.NewReader(customYAML))
	require.NoError(t, err)
	assert.Equal(t, uint64(6), gen.Config.BlockInterval)

	g, err := genesis.NewCustomNet(gen)
	require.NoError(t, err)
	assert.NotEqual(t, genesis.NewDevnet().ID(), g.ID())

	snap := snapshot.New(lvldb.NewMem(), 4)
	_, err = g.Build(snap)
	require.NoError(t, err)

	sess := snap.NewSession(meter.Bytes32{})
	defer sess.Discard()
	st := state.New(sess)

	addr := meter.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	balance, err := st.GetBalance(addr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_000_000_000), balance)

	r, err := st.GetResource(addr, meter.Energy)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10_000_000), r.Frozen)

	p, err := params.Load(st)
	require.NoError(t, err)
	assert.Equal(t, uint64(280), p.EnergyFee)
}

func TestCustomNetInvalid(t *testing.T) {
	_, err := genesis.LoadCustomGenesis(strings.NewReader("launchTime: 1\nunknown: 2\n"))
	assert.Error(t, err)

	tests := []struct {
		name string
		gen  genesis.CustomGenesis
	}{
		{"no launch time", genesis.CustomGenesis{}},
		{"long extra data", genesis.CustomGenesis{LaunchTime: 1, ExtraData: strings.Repeat("x", 29)}},
		{"missing balance", genesis.CustomGenesis{LaunchTime: 1, Accounts: []genesis.Account{{}}}},
		{"unknown param", genesis.CustomGenesis{LaunchTime: 1, Params: map[string]uint64{"nope": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := genesis.NewCustomNet(&tt.gen)
			assert.Error(t, err)
		})
	}
}

func TestBuilderComputeID(t *testing.T) {
	build := func(extra string) *genesis.Builder {
		var data [28]byte
		copy(data[:], extra)
		return new(genesis.Builder).
			Timestamp(1000).
			ExtraData(data).
			State(func(st *state.State) error {
				return st.CreateAccount(meter.Address{1}, 1000)
			})
	}

	id1, err := build("a").ComputeID()
	require.NoError(t, err)
	id2, err := build("b").ComputeID()
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, uint32(0), block.Number(id1))

	snap := snapshot.New(lvldb.NewMem(), 1)
	blk, err := build("a").Build(snap)
	require.NoError(t, err)
	assert.Equal(t, id1, blk.ID())
	assert.Equal(t, genesis.NewDevnet().Block().ID(), genesis.NewDevnet().ID())
}
