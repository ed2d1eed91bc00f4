// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import (
	"context"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/tx"
)

// Energy schedule of KVExecutor.
const (
	EnergyBase       uint64 = 100
	EnergyPerByte    uint64 = 10
	EnergyCodeByte   uint64 = 200
	EnergyStorageSet uint64 = 5000
)

// Opcodes understood by KVExecutor, carried in the first byte of call data.
const (
	OpStore   byte = 0x00 // store data[1:33] => data[33:65]
	OpRevert  byte = 0x01 // revert
	OpLoad    byte = 0x02 // return storage at data[1:33]
	OpLog     byte = 0x03 // emit data[1:] as a log
	OpSpin    byte = 0x04 // run until the energy limit or the deadline
	OpIllegal byte = 0xfe
)

// KVExecutor is a minimal key/value contract executor used by single node networks and tests.
type KVExecutor struct{}

// Execute implements Executor.
func (KVExecutor) Execute(ctx context.Context, st Storage, msg *Message, _ *BlockContext) (*Output, error) {
	if msg.Create {
		cost := EnergyBase + EnergyCodeByte*uint64(len(msg.Code))
		if cost > msg.EnergyLimit {
			return &Output{EnergyUsed: msg.EnergyLimit, Fault: FaultOutOfEnergy}, nil
		}
		return &Output{EnergyUsed: cost, CreatedAddress: msg.Contract}, nil
	}

	cost := EnergyBase + EnergyPerByte*uint64(len(msg.Data))
	if cost > msg.EnergyLimit {
		return &Output{EnergyUsed: msg.EnergyLimit, Fault: FaultOutOfEnergy}, nil
	}
	if len(msg.Data) == 0 {
		return &Output{EnergyUsed: cost}, nil
	}

	out := &Output{EnergyUsed: cost}
	args := msg.Data[1:]
	switch msg.Data[0] {
	case OpStore:
		if len(args) < 64 {
			out.Fault = FaultStackUnderflow
			return out, nil
		}
		if cost+EnergyStorageSet > msg.EnergyLimit {
			return &Output{EnergyUsed: msg.EnergyLimit, Fault: FaultOutOfEnergy}, nil
		}
		if err := st.SetStorage(msg.Contract, meter.BytesToBytes32(args[:32]), meter.BytesToBytes32(args[32:64])); err != nil {
			return nil, err
		}
		out.EnergyUsed += EnergyStorageSet
	case OpRevert:
		out.Reverted = true
		out.ReturnData = append([]byte(nil), args...)
	case OpLoad:
		if len(args) < 32 {
			out.Fault = FaultStackUnderflow
			return out, nil
		}
		val, err := st.GetStorage(msg.Contract, meter.BytesToBytes32(args[:32]))
		if err != nil {
			return nil, err
		}
		out.ReturnData = val.Bytes()
	case OpLog:
		out.Logs = []*tx.Log{{Address: msg.Contract, Data: append([]byte(nil), args...)}}
	case OpSpin:
		<-ctx.Done()
		return &Output{EnergyUsed: msg.EnergyLimit, Fault: FaultOutOfTime}, nil
	case OpIllegal:
		out.Fault = FaultIllegalOperation
	default:
		out.Fault = FaultBadJump
	}
	return out, nil
}
