// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/meter/lvldb"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/state"
	"github.com/vechain/meter/test/datagen"
	"github.com/vechain/meter/tx"
)

func newState(t *testing.T) (*state.State, *snapshot.Session) {
	t.Helper()
	sess := snapshot.New(lvldb.NewMem(), 8).NewSession(meter.Bytes32{1})
	return state.New(sess), sess
}

func TestAccount(t *testing.T) {
	st, _ := newState(t)
	addr := meter.BytesToAddress([]byte("acc"))

	acc, ok, err := st.GetAccount(addr)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, acc.Balance.Sign())

	require.NoError(t, st.CreateAccount(addr, 100))
	ok, err = st.Exists(addr)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, st.SetBalance(addr, big.NewInt(42)))
	balance, err := st.GetBalance(addr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), balance)

	acc, _, err = st.GetAccount(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), acc.CreateTime)
	assert.Equal(t, tx.DefaultPermission(addr), acc.OwnerPermission(addr))

	other := meter.BytesToAddress([]byte("other"))
	acc.Permission = tx.DefaultPermission(other)
	require.NoError(t, st.SetAccount(addr, acc))
	acc, _, _ = st.GetAccount(addr)
	assert.Equal(t, tx.DefaultPermission(other), acc.OwnerPermission(addr))
}

func TestResourceAndDelegation(t *testing.T) {
	st, _ := newState(t)
	a := meter.BytesToAddress([]byte("a"))
	b := meter.BytesToAddress([]byte("b"))

	r, err := st.GetResource(a, meter.Energy)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Weight().Sign())

	r.Frozen = big.NewInt(10)
	r.Acquired = big.NewInt(5)
	r.Usage, r.LatestSlot = 3, 4
	require.NoError(t, st.SetResource(a, meter.Energy, r))

	got, err := st.GetResource(a, meter.Energy)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(15), got.Weight())
	assert.Equal(t, uint64(3), got.Usage)

	bw, err := st.GetResource(a, meter.Bandwidth)
	require.NoError(t, err)
	assert.Equal(t, 0, bw.Frozen.Sign(), "kinds are separate records")

	require.NoError(t, st.SetDelegation(a, b, meter.Energy, state.Delegation{Amount: big.NewInt(7), Expiry: 9}))
	d, err := st.GetDelegation(a, b, meter.Energy)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), d.Amount)

	require.NoError(t, st.SetDelegation(a, b, meter.Energy, state.Delegation{}))
	d, err = st.GetDelegation(a, b, meter.Energy)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Amount.Sign())
}

func TestDynamicAndBurn(t *testing.T) {
	st, _ := newState(t)

	require.NoError(t, st.Burn(big.NewInt(5)))
	require.NoError(t, st.Burn(big.NewInt(6)))
	require.NoError(t, st.Burn(new(big.Int)))

	d, err := st.GetDynamic()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(11), d.Burned)

	d.TotalNetWeight = 10
	require.NoError(t, st.SetDynamic(d))
	d, _ = st.GetDynamic()
	assert.Equal(t, uint64(10), d.TotalNetWeight)
}

func TestParamsStorageContracts(t *testing.T) {
	st, _ := newState(t)
	addr := meter.BytesToAddress([]byte("c"))

	_, ok, err := st.GetParam("energyFee")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, st.SetParam("energyFee", 100))
	v, ok, err := st.GetParam("energyFee")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(100), v)

	key, want := datagen.RandomHash(), datagen.RandomHash()
	require.NoError(t, st.SetStorage(addr, key, want))
	val, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, want, val)
	require.NoError(t, st.SetStorage(addr, key, meter.Bytes32{}))
	val, _ = st.GetStorage(addr, key)
	assert.True(t, val.IsZero())

	require.NoError(t, st.SetContract(addr, state.Contract{Origin: addr, ConsumeUserPercent: 30, Code: []byte{1}}))
	c, ok, err := st.GetContract(addr)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(30), c.ConsumeUserPercent)

	require.NoError(t, st.SetPool(addr, state.Pool{Owner: addr}))
	p, ok, err := st.GetPool(addr)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, p.Reserve.Sign())

	prod, err := st.GetProducer(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), prod.Blocks)
}

func TestCorruptRecord(t *testing.T) {
	st, sess := newState(t)
	addr := meter.BytesToAddress([]byte("x"))

	sess.Put(append([]byte("a|"), addr[:]...), []byte{0xff, 0x01})
	_, _, err := st.GetAccount(addr)
	require.Error(t, err)

	var stateErr *state.Error
	assert.True(t, errors.As(err, &stateErr))
}

func TestWritesFollowSession(t *testing.T) {
	st, sess := newState(t)
	addr := meter.BytesToAddress([]byte("a"))
	require.NoError(t, st.SetBalance(addr, big.NewInt(1)))

	child := sess.NewChild()
	childState := state.New(child)
	require.NoError(t, childState.SetBalance(addr, big.NewInt(2)))
	child.Discard()

	balance, err := st.GetBalance(addr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), balance)
}
