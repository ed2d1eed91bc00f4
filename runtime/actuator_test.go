// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/resource"
	"github.com/vechain/meter/runtime"
	"github.com/vechain/meter/tx"
)

func TestTransferCreatesAccount(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 1_000_000)
	to := meter.BytesToAddress([]byte("new"))

	receipt, err := c.execute(c.runtime(1, nil), newTx(caller, &tx.Transfer{To: to, Amount: big.NewInt(100)}), nil)
	require.NoError(t, err)

	// no entitlement, so creation is paid from balance
	assert.Equal(t, new(big.Int).SetUint64(c.params.CreateAccountFee), receipt.NetFee)
	assert.Equal(t, big.NewInt(100), balance(t, c.st, to))
	assert.Equal(t, new(big.Int).SetUint64(1_000_000-100-c.params.CreateAccountFee), balance(t, c.st, caller))

	acc, ok, err := c.st.GetAccount(to)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(30), acc.CreateTime)
}

func TestFreezeUnfreeze(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 100_000_000)
	rt := c.runtime(1, nil)

	_, err := c.execute(rt, newTx(caller, &tx.Freeze{Resource: meter.Energy, Amount: big.NewInt(30_000_000)}), nil)
	require.NoError(t, err)

	r, err := c.st.GetResource(caller, meter.Energy)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(30_000_000), r.Frozen)
	assert.Equal(t, 30+c.params.MinFreezeDuration, r.Expiry)
	d, err := c.st.GetDynamic()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), d.TotalEnergyWeight)
	assert.Equal(t, big.NewInt(70_000_000), balance(t, c.st, caller))

	_, err = c.execute(rt, newTx(caller, &tx.Unfreeze{Resource: meter.Energy}), nil)
	assert.True(t, runtime.IsValidationError(err))

	later := runtime.New(&c.params, meter.DefaultForkConfig, nil, vmBlock(30+c.params.MinFreezeDuration, 1))
	_, err = c.execute(later, newTx(caller, &tx.Unfreeze{Resource: meter.Energy}), nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100_000_000), balance(t, c.st, caller))
	d, err = c.st.GetDynamic()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), d.TotalEnergyWeight)
}

func TestFreezeWeightCountsWholeUnits(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 100_000_000)
	c.fund(origin, 100_000_000)
	rt := c.runtime(1, nil)
	half := big.NewInt(15_000_000)

	for _, who := range []meter.Address{caller, caller, origin} {
		_, err := c.execute(rt, newTx(who, &tx.Freeze{Resource: meter.Bandwidth, Amount: half}), nil)
		require.NoError(t, err)
	}
	d, err := c.st.GetDynamic()
	require.NoError(t, err)
	// caller holds 3 whole units, origin 1
	assert.Equal(t, uint64(4), d.TotalNetWeight)

	bw := resource.NewBandwidth(&c.params)
	var sum uint64
	for _, who := range []meter.Address{caller, origin} {
		limit, err := bw.Limit(c.st, who)
		require.NoError(t, err)
		sum += limit
	}
	assert.LessOrEqual(t, sum, c.params.TotalNetLimit)

	later := runtime.New(&c.params, meter.DefaultForkConfig, nil, vmBlock(30+c.params.MinFreezeDuration, 1))
	_, err = c.execute(later, newTx(caller, &tx.Unfreeze{Resource: meter.Bandwidth}), nil)
	require.NoError(t, err)
	d, err = c.st.GetDynamic()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), d.TotalNetWeight)
}

func TestFreezeBelowMinimum(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 100_000_000)
	_, err := c.execute(c.runtime(1, nil), newTx(caller, &tx.Freeze{Resource: meter.Bandwidth, Amount: big.NewInt(1)}), nil)
	assert.True(t, runtime.IsValidationError(err))
}

func TestDelegate(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 100_000_000)
	c.fund(origin, 0)
	p := &tx.DelegateResource{Resource: meter.Bandwidth, Receiver: origin, Amount: big.NewInt(20_000_000)}

	_, err := c.execute(c.runtime(meter.DefaultForkConfig.DelegateResource-1, nil), newTx(caller, p), nil)
	assert.True(t, runtime.IsValidationError(err), "not activated")

	rt := c.runtime(meter.DefaultForkConfig.DelegateResource, nil)
	_, err = c.execute(rt, newTx(caller, p), nil)
	require.NoError(t, err)

	from, err := c.st.GetResource(caller, meter.Bandwidth)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20_000_000), from.DelegatedOut)
	to, err := c.st.GetResource(origin, meter.Bandwidth)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20_000_000), to.Acquired)

	undo := newTx(caller, &tx.UndelegateResource{Resource: meter.Bandwidth, Receiver: origin})
	_, err = c.execute(rt, undo, nil)
	assert.True(t, runtime.IsValidationError(err), "not expired")

	later := runtime.New(&c.params, meter.DefaultForkConfig, nil,
		vmBlock(30+c.params.MinFreezeDuration, meter.DefaultForkConfig.DelegateResource))
	_, err = c.execute(later, undo, nil)
	require.NoError(t, err)

	to, err = c.st.GetResource(origin, meter.Bandwidth)
	require.NoError(t, err)
	assert.Equal(t, 0, to.Acquired.Sign())
	dl, err := c.st.GetDelegation(caller, origin, meter.Bandwidth)
	require.NoError(t, err)
	assert.Equal(t, 0, dl.Amount.Sign())
}

func TestUpdateSetting(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 100_000_000)
	c.fund(origin, 100_000_000)
	c.deploy(30)
	rt := c.runtime(1, nil)

	_, err := c.execute(rt, newTx(caller, &tx.UpdateSetting{Contract: contract, ConsumeUserPercent: 50}), nil)
	assert.True(t, runtime.IsValidationError(err), "not origin")

	_, err = c.execute(rt, newTx(origin, &tx.UpdateSetting{Contract: contract, ConsumeUserPercent: 101}), nil)
	assert.True(t, runtime.IsValidationError(err), "percent out of range")

	_, err = c.execute(rt, newTx(origin, &tx.UpdateSetting{Contract: contract, ConsumeUserPercent: 50}), nil)
	require.NoError(t, err)
	ct, _, err := c.st.GetContract(contract)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), ct.ConsumeUserPercent)
}

func TestUpdatePermission(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 1_000_000_000)
	perm := tx.Permission{
		Threshold: 2,
		Keys: []tx.PermissionKey{
			{Address: caller, Weight: 1},
			{Address: origin, Weight: 1},
		},
	}

	_, err := c.execute(c.runtime(meter.DefaultForkConfig.MultiSign, nil), newTx(caller, &tx.UpdatePermission{Permission: perm}), nil)
	require.NoError(t, err)

	acc, _, err := c.st.GetAccount(caller)
	require.NoError(t, err)
	assert.Equal(t, perm, acc.OwnerPermission(caller))
	assert.Equal(t, new(big.Int).SetUint64(1_000_000_000-c.params.UpdatePermissionFee), acc.Balance)
}
