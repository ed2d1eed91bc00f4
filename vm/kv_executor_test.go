// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/vm"
)

type memStorage map[meter.Address]map[meter.Bytes32]meter.Bytes32

func (m memStorage) GetStorage(addr meter.Address, key meter.Bytes32) (meter.Bytes32, error) {
	return m[addr][key], nil
}

func (m memStorage) SetStorage(addr meter.Address, key, value meter.Bytes32) error {
	if m[addr] == nil {
		m[addr] = make(map[meter.Bytes32]meter.Bytes32)
	}
	m[addr][key] = value
	return nil
}

func TestKVExecutor(t *testing.T) {
	var (
		exec     vm.KVExecutor
		st       = memStorage{}
		contract = meter.BytesToAddress([]byte("contract"))
		ctx      = context.Background()
		blk      = &vm.BlockContext{Number: 1}
	)

	out, err := exec.Execute(ctx, st, &vm.Message{Create: true, Contract: contract, Code: []byte{1, 2}, EnergyLimit: 1000}, blk)
	require.NoError(t, err)
	assert.Equal(t, contract, out.CreatedAddress)
	assert.Equal(t, vm.EnergyBase+2*vm.EnergyCodeByte, out.EnergyUsed)

	key, val := meter.Bytes32{1}, meter.Bytes32{2}
	data := append(append([]byte{vm.OpStore}, key[:]...), val[:]...)
	out, err = exec.Execute(ctx, st, &vm.Message{Contract: contract, Data: data, EnergyLimit: 100_000}, blk)
	require.NoError(t, err)
	assert.Equal(t, vm.FaultNone, out.Fault)
	assert.Equal(t, val, st[contract][key])

	out, err = exec.Execute(ctx, st, &vm.Message{Contract: contract, Data: append([]byte{vm.OpLoad}, key[:]...), EnergyLimit: 100_000}, blk)
	require.NoError(t, err)
	assert.Equal(t, val[:], out.ReturnData)

	out, _ = exec.Execute(ctx, st, &vm.Message{Contract: contract, Data: data, EnergyLimit: 1000}, blk)
	assert.Equal(t, vm.FaultOutOfEnergy, out.Fault)
	assert.Equal(t, uint64(1000), out.EnergyUsed)

	out, _ = exec.Execute(ctx, st, &vm.Message{Contract: contract, Data: []byte{vm.OpRevert}, EnergyLimit: 1000}, blk)
	assert.True(t, out.Reverted)

	out, _ = exec.Execute(ctx, st, &vm.Message{Contract: contract, Data: []byte{vm.OpIllegal}, EnergyLimit: 1000}, blk)
	assert.Equal(t, vm.FaultIllegalOperation, out.Fault)

	out, _ = exec.Execute(ctx, st, &vm.Message{Contract: contract, Data: []byte{vm.OpLog, 7}, EnergyLimit: 1000}, blk)
	require.Len(t, out.Logs, 1)
	assert.Equal(t, []byte{7}, out.Logs[0].Data)
}

func TestKVExecutorDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	out, err := vm.KVExecutor{}.Execute(ctx, memStorage{}, &vm.Message{Data: []byte{vm.OpSpin}, EnergyLimit: 1000}, &vm.BlockContext{})
	require.NoError(t, err)
	assert.Equal(t, vm.FaultOutOfTime, out.Fault)
}
