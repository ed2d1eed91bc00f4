// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vm defines the contract executor consumed by the runtime.
// The instruction set is owned by the executor implementation.
package vm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/tx"
)

// Fault is the exception an execution ended with.
type Fault uint8

// Faults reported by executors.
const (
	FaultNone Fault = iota
	FaultOutOfEnergy
	FaultOutOfTime
	FaultBadJump
	FaultStackUnderflow
	FaultStackOverflow
	FaultPrecompiled
	FaultTransfer
	FaultIllegalOperation
	FaultUnknown
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultOutOfEnergy:
		return "out of energy"
	case FaultOutOfTime:
		return "out of time"
	case FaultBadJump:
		return "bad jump destination"
	case FaultStackUnderflow:
		return "stack underflow"
	case FaultStackOverflow:
		return "stack overflow"
	case FaultPrecompiled:
		return "precompiled contract failed"
	case FaultTransfer:
		return "transfer failed"
	case FaultIllegalOperation:
		return "illegal operation"
	default:
		return fmt.Sprintf("fault(%d)", uint8(f))
	}
}

// Storage is the contract storage an executor reads and writes.
// Writes land in the session of the execution and vanish if it faults.
type Storage interface {
	GetStorage(addr meter.Address, key meter.Bytes32) (meter.Bytes32, error)
	SetStorage(addr meter.Address, key, value meter.Bytes32) error
}

// Message is the input of an execution.
type Message struct {
	Caller      meter.Address
	Origin      meter.Address // origin of the contract
	Contract    meter.Address // target, or address of the contract being created
	Create      bool
	Code        []byte
	Value       *big.Int
	Data        []byte
	EnergyLimit uint64
	TxID        meter.Bytes32
}

// BlockContext is the block an execution runs in.
type BlockContext struct {
	Number   uint32
	Time     uint64
	Producer meter.Address
	Version  uint32
}

// Output is the result of an execution.
type Output struct {
	ReturnData     []byte
	Logs           []*tx.Log
	EnergyUsed     uint64
	Fault          Fault
	Reverted       bool
	CreatedAddress meter.Address
}

// Executor runs contract code. It must be deterministic for identical inputs, except
// that an execution exceeding the deadline of ctx ends with FaultOutOfTime.
// A returned error is a failure of the executor itself, not of the contract.
type Executor interface {
	Execute(ctx context.Context, st Storage, msg *Message, blk *BlockContext) (*Output, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, st Storage, msg *Message, blk *BlockContext) (*Output, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, st Storage, msg *Message, blk *BlockContext) (*Output, error) {
	return f(ctx, st, msg, blk)
}
