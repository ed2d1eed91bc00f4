// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/meter/lvldb"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/params"
	"github.com/vechain/meter/resource"
	"github.com/vechain/meter/runtime"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/state"
	"github.com/vechain/meter/tx"
	"github.com/vechain/meter/vm"
)

var (
	caller   = meter.BytesToAddress([]byte("caller"))
	origin   = meter.BytesToAddress([]byte("origin"))
	contract = meter.BytesToAddress([]byte("contract"))
)

type testChain struct {
	t      *testing.T
	params params.Values
	blk    *snapshot.Session
	st     *state.State
}

func newTestChain(t *testing.T) *testChain {
	blk := snapshot.New(lvldb.NewMem(), 4).NewSession(meter.Bytes32{1})
	return &testChain{t: t, params: params.Default(), blk: blk, st: state.New(blk)}
}

func (c *testChain) fund(addr meter.Address, amount int64) {
	require.NoError(c.t, c.st.CreateAccount(addr, 0))
	require.NoError(c.t, c.st.SetBalance(addr, big.NewInt(amount)))
}

func (c *testChain) freezeEnergy(addr meter.Address, amount int64) {
	r, err := c.st.GetResource(addr, meter.Energy)
	require.NoError(c.t, err)
	r.Frozen = big.NewInt(amount)
	require.NoError(c.t, c.st.SetResource(addr, meter.Energy, r))

	d, err := c.st.GetDynamic()
	require.NoError(c.t, err)
	d.TotalEnergyWeight += resource.WeightOf(r.Frozen)
	require.NoError(c.t, c.st.SetDynamic(d))
}

func (c *testChain) deploy(pct uint64) {
	require.NoError(c.t, c.st.CreateAccount(contract, 0))
	require.NoError(c.t, c.st.SetContract(contract, state.Contract{
		Origin:             origin,
		ConsumeUserPercent: pct,
		OriginEnergyLimit:  10_000_000,
		Code:               []byte{0x60},
	}))
}

func (c *testChain) runtime(version uint32, exec vm.Executor) *runtime.Runtime {
	return runtime.New(&c.params, meter.DefaultForkConfig, exec, vm.BlockContext{Number: 1, Time: 30, Version: version})
}

// execute runs trx in a tx session the way block processing does.
func (c *testChain) execute(rt *runtime.Runtime, trx *tx.Transaction, expected *tx.ResultCode) (*tx.Receipt, error) {
	sess := c.blk.NewChild()
	receipt, err := rt.ExecuteTransaction(context.Background(), sess, trx, expected)
	if err != nil {
		sess.Discard()
		return nil, err
	}
	require.NoError(c.t, sess.Commit())
	return receipt, nil
}

func newTx(owner meter.Address, p tx.Payload) *tx.Transaction {
	return new(tx.Builder).
		ChainTag(1).
		Expiration(1000).
		FeeLimit(100_000_000).
		Payload(owner, p).
		Build()
}

func useEnergy(n uint64) vm.Executor {
	return vm.ExecutorFunc(func(context.Context, vm.Storage, *vm.Message, *vm.BlockContext) (*vm.Output, error) {
		return &vm.Output{EnergyUsed: n}, nil
	})
}

func balance(t *testing.T, st *state.State, addr meter.Address) *big.Int {
	b, err := st.GetBalance(addr)
	require.NoError(t, err)
	return b
}

func TestEnergySharedWithOrigin(t *testing.T) {
	tests := []struct {
		name        string
		energyLimit uint64
		originUsage uint64
	}{
		{"origin pays its share", 50_000_000_000, 7000},
		{"origin capped by entitlement", 5000, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChain(t)
			c.params.TotalEnergyLimit = tt.energyLimit
			c.fund(caller, 1_000_000_000)
			c.fund(origin, 0)
			c.freezeEnergy(origin, 10_000_000)
			c.deploy(30)

			rt := c.runtime(1, useEnergy(10_000))
			receipt, err := c.execute(rt, newTx(caller, &tx.TriggerContract{Contract: contract}), nil)
			require.NoError(t, err)

			assert.Equal(t, tx.ResultSuccess, receipt.Result)
			assert.Equal(t, uint64(10_000), receipt.EnergyUsageTotal)
			assert.Equal(t, tt.originUsage, receipt.OriginEnergyUsage)
			assert.Equal(t, uint64(0), receipt.EnergyUsage)

			callerUnits := 10_000 - tt.originUsage
			wantFee := new(big.Int).SetUint64(callerUnits * c.params.EnergyFee)
			assert.Equal(t, wantFee, receipt.EnergyFee)
			assert.Equal(t, new(big.Int).Sub(big.NewInt(1_000_000_000), wantFee), balance(t, c.st, caller))

			r, err := c.st.GetResource(origin, meter.Energy)
			require.NoError(t, err)
			assert.Equal(t, tt.originUsage, r.Usage)
		})
	}
}

func TestDirectEnergyFee(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 1_000_000_000)
	c.fund(origin, 1_000_000_000)
	c.freezeEnergy(caller, 10_000_000)
	c.deploy(30)

	rt := c.runtime(meter.DefaultForkConfig.DirectEnergyFee, useEnergy(10_000))
	receipt, err := c.execute(rt, newTx(caller, &tx.TriggerContract{Contract: contract}), nil)
	require.NoError(t, err)

	// entitlement is skipped, both shares come from balance
	assert.Equal(t, uint64(0), receipt.EnergyUsage)
	assert.Equal(t, uint64(7000), receipt.OriginEnergyUsage)
	assert.Equal(t, big.NewInt(10_000*100), receipt.EnergyFee)
	assert.Equal(t, big.NewInt(1_000_000_000-3000*100), balance(t, c.st, caller))
	assert.Equal(t, big.NewInt(1_000_000_000-7000*100), balance(t, c.st, origin))
}

func TestResultFromFault(t *testing.T) {
	tests := []struct {
		fault    vm.Fault
		reverted bool
		want     tx.ResultCode
	}{
		{vm.FaultNone, false, tx.ResultSuccess},
		{vm.FaultNone, true, tx.ResultRevert},
		{vm.FaultOutOfEnergy, false, tx.ResultOutOfEnergy},
		{vm.FaultOutOfTime, true, tx.ResultOutOfTime},
		{vm.FaultBadJump, false, tx.ResultBadJump},
		{vm.FaultStackUnderflow, false, tx.ResultStackTooSmall},
		{vm.FaultStackOverflow, false, tx.ResultStackTooLarge},
		{vm.FaultPrecompiled, false, tx.ResultPrecompiledError},
		{vm.FaultTransfer, false, tx.ResultTransferFailed},
		{vm.FaultIllegalOperation, false, tx.ResultIllegalOperation},
		{vm.FaultUnknown, false, tx.ResultUnknown},
		{vm.Fault(200), false, tx.ResultUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, runtime.ResultFromFault(tt.fault, tt.reverted), "%v", tt.fault)
	}
}

func TestRetryOutOfTime(t *testing.T) {
	newExecutor := func(calls *int) vm.Executor {
		return vm.ExecutorFunc(func(_ context.Context, st vm.Storage, msg *vm.Message, _ *vm.BlockContext) (*vm.Output, error) {
			*calls++
			if *calls == 1 {
				return &vm.Output{Fault: vm.FaultOutOfTime}, nil
			}
			if err := st.SetStorage(msg.Contract, meter.Bytes32{1}, meter.Bytes32{2}); err != nil {
				return nil, err
			}
			return &vm.Output{EnergyUsed: 500}, nil
		})
	}
	setup := func(t *testing.T) *testChain {
		c := newTestChain(t)
		c.fund(caller, 1_000_000_000)
		c.fund(origin, 0)
		c.deploy(100)
		return c
	}
	trx := newTx(caller, &tx.TriggerContract{Contract: contract})

	t.Run("embedded success", func(t *testing.T) {
		c := setup(t)
		calls := 0
		expected := tx.ResultSuccess
		receipt, err := c.execute(c.runtime(1, newExecutor(&calls)), trx, &expected)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, tx.ResultSuccess, receipt.Result)
		assert.Equal(t, uint64(500), receipt.EnergyUsageTotal)

		v, err := c.st.GetStorage(contract, meter.Bytes32{1})
		require.NoError(t, err)
		assert.Equal(t, meter.Bytes32{2}, v)
	})

	t.Run("embedded out of time", func(t *testing.T) {
		c := setup(t)
		calls := 0
		expected := tx.ResultOutOfTime
		receipt, err := c.execute(c.runtime(1, newExecutor(&calls)), trx, &expected)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, tx.ResultOutOfTime, receipt.Result)
	})

	t.Run("producing", func(t *testing.T) {
		c := setup(t)
		calls := 0
		receipt, err := c.execute(c.runtime(1, newExecutor(&calls)), trx, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Equal(t, tx.ResultOutOfTime, receipt.Result)
	})
}

func TestReceiptMismatch(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 1_000_000_000)
	c.fund(origin, 0)
	c.deploy(100)

	exec := vm.ExecutorFunc(func(context.Context, vm.Storage, *vm.Message, *vm.BlockContext) (*vm.Output, error) {
		return &vm.Output{EnergyUsed: 100, Reverted: true}, nil
	})
	expected := tx.ResultSuccess
	_, err := c.execute(c.runtime(1, exec), newTx(caller, &tx.TriggerContract{Contract: contract}), &expected)
	assert.True(t, errors.Is(err, runtime.ErrReceiptMismatch))
	assert.Equal(t, big.NewInt(1_000_000_000), balance(t, c.st, caller))
}

func TestRevertDiscardsVMChanges(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 1_000_000_000)
	c.fund(origin, 0)
	c.deploy(100)

	rt := c.runtime(1, vm.KVExecutor{})
	data := append([]byte{vm.OpRevert}, make([]byte, 8)...)
	trx := newTx(caller, &tx.TriggerContract{Contract: contract, Value: big.NewInt(1000), Data: data})
	receipt, err := c.execute(rt, trx, nil)
	require.NoError(t, err)
	assert.Equal(t, tx.ResultRevert, receipt.Result)

	// value went back, energy was still paid
	assert.Equal(t, 0, balance(t, c.st, contract).Sign())
	assert.Equal(t, new(big.Int).Sub(big.NewInt(1_000_000_000), receipt.Fee()), balance(t, c.st, caller))
}

func TestCreateContract(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 1_000_000_000)

	trx := newTx(caller, &tx.CreateContract{Code: []byte{1, 2, 3}, ConsumeUserPercent: 40})
	receipt, err := c.execute(c.runtime(1, vm.KVExecutor{}), trx, nil)
	require.NoError(t, err)
	require.Equal(t, tx.ResultSuccess, receipt.Result)

	addr := meter.CreateContractAddress(trx.ID(), caller)
	assert.Equal(t, addr, receipt.ContractAddress)
	ct, ok, err := c.st.GetContract(addr)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, caller, ct.Origin)
	assert.Equal(t, uint64(40), ct.ConsumeUserPercent)
	assert.Equal(t, c.params.DefaultOriginEnergyLimit, ct.OriginEnergyLimit)
}

func TestRejected(t *testing.T) {
	t.Run("owner missing", func(t *testing.T) {
		c := newTestChain(t)
		_, err := c.execute(c.runtime(1, nil), newTx(caller, &tx.Transfer{To: origin, Amount: big.NewInt(1)}), nil)
		assert.True(t, errors.Is(err, runtime.ErrOwnerNotFound))
	})

	t.Run("no bandwidth", func(t *testing.T) {
		c := newTestChain(t)
		c.params.FreeNetLimit = 0
		c.fund(caller, 10)
		c.fund(origin, 0)
		_, err := c.execute(c.runtime(1, nil), newTx(caller, &tx.Transfer{To: origin, Amount: big.NewInt(1)}), nil)
		assert.True(t, errors.Is(err, resource.ErrInsufficientBandwidth))
		assert.Equal(t, big.NewInt(10), balance(t, c.st, caller))
	})

	t.Run("transfer exceeding balance", func(t *testing.T) {
		c := newTestChain(t)
		c.fund(caller, 10)
		c.fund(origin, 0)
		_, err := c.execute(c.runtime(1, nil), newTx(caller, &tx.Transfer{To: origin, Amount: big.NewInt(11)}), nil)
		assert.True(t, runtime.IsValidationError(err))

		// the free tier charge went away with the session
		acc, _, err := c.st.GetAccount(caller)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), acc.FreeNetUsage)
	})
}

func TestTraceOrder(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 1_000_000_000)
	rt := c.runtime(1, nil)

	trace := rt.NewTrace(c.blk.NewChild(), newTx(caller, &tx.Transfer{To: origin, Amount: big.NewInt(1)}))
	assert.Error(t, trace.Exec(context.Background()))
	assert.Error(t, trace.Finalize())
	assert.Nil(t, trace.Receipt())

	require.NoError(t, trace.Init())
	assert.Error(t, trace.Init())
	require.NoError(t, trace.Exec(context.Background()))
	require.NoError(t, trace.SetResult())
	require.NoError(t, trace.Finalize())
	assert.Equal(t, tx.ResultSuccess, trace.Receipt().Result)
}

func TestMultiSignFee(t *testing.T) {
	c := newTestChain(t)
	c.fund(caller, 1_000_000_000)
	c.fund(origin, 0)
	trx := newTx(caller, &tx.Transfer{To: origin, Amount: big.NewInt(1)}).
		WithSignatures([]byte{1}, []byte{2}, []byte{3})

	receipt, err := c.execute(c.runtime(meter.DefaultForkConfig.MultiSign, nil), trx, nil)
	require.NoError(t, err)
	want := new(big.Int).SetUint64(2 * c.params.MultiSignFee)
	assert.Equal(t, want, receipt.MultiSignFee)

	d, err := c.st.GetDynamic()
	require.NoError(t, err)
	assert.Equal(t, want, d.Burned)
}

func TestPoolTransferMultiSignFromReserve(t *testing.T) {
	c := newTestChain(t)
	pool := meter.BytesToAddress([]byte("pool"))
	c.fund(caller, 0)
	require.NoError(t, c.st.SetPool(pool, state.Pool{
		Owner:   caller,
		Balance: big.NewInt(5000),
		Reserve: big.NewInt(10_000_000),
	}))
	c.fund(origin, 0)

	trx := newTx(caller, &tx.PoolTransfer{Pool: pool, To: origin, Amount: big.NewInt(2000)}).
		WithSignatures([]byte{1}, []byte{2})
	receipt, err := c.execute(c.runtime(meter.DefaultForkConfig.MultiSign, nil), trx, nil)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).SetUint64(c.params.MultiSignFee), receipt.MultiSignFee)

	p, _, err := c.st.GetPool(pool)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3000), p.Balance)
	assert.Equal(t, big.NewInt(9_000_000), p.Reserve)
	assert.Equal(t, big.NewInt(2000), balance(t, c.st, origin))
}

func vmBlock(time uint64, version uint32) vm.BlockContext {
	return vm.BlockContext{Number: 2, Time: time, Version: version}
}
