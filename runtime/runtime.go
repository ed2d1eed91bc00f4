// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes transactions: bandwidth pre-charge, action execution and fee settlement.
package runtime

import (
	"context"

	"github.com/vechain/meter/log"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/params"
	"github.com/vechain/meter/resource"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/tx"
	"github.com/vechain/meter/vm"
)

var logger = log.WithContext("pkg", "runtime")

// Runtime is to support transaction execution within one block.
type Runtime struct {
	params    *params.Values
	fork      meter.ForkConfig
	executor  vm.Executor
	blk       vm.BlockContext
	actuators map[tx.ActionKind]Actuator

	bandwidth *resource.Bandwidth
	energy    *resource.Energy
}

// New create a Runtime object.
func New(p *params.Values, fork meter.ForkConfig, executor vm.Executor, blk vm.BlockContext) *Runtime {
	return &Runtime{
		params:    p,
		fork:      fork,
		executor:  executor,
		blk:       blk,
		actuators: builtinActuators(),
		bandwidth: resource.NewBandwidth(p),
		energy:    resource.NewEnergy(p),
	}
}

func (rt *Runtime) Params() *params.Values         { return rt.params }
func (rt *Runtime) BlockContext() vm.BlockContext  { return rt.blk }
func (rt *Runtime) Energy() *resource.Energy       { return rt.energy }
func (rt *Runtime) Bandwidth() *resource.Bandwidth { return rt.bandwidth }
func (rt *Runtime) Slot() uint64                   { return meter.Slot(rt.blk.Time) }

// SetActuator replaces the actuator of an action kind.
// Returns this runtime.
func (rt *Runtime) SetActuator(kind tx.ActionKind, a Actuator) *Runtime {
	rt.actuators[kind] = a
	return rt
}

// directEnergyFee returns whether energy is always paid from balance in this block.
func (rt *Runtime) directEnergyFee() bool {
	return rt.blk.Version >= rt.fork.DirectEnergyFee
}

// ExecuteTransaction runs trx to completion inside sess, which the caller commits or discards.
// expected is the result embedded in a received block, or nil when the block is being produced.
func (rt *Runtime) ExecuteTransaction(ctx context.Context, sess *snapshot.Session, trx *tx.Transaction, expected *tx.ResultCode) (*tx.Receipt, error) {
	trace := rt.NewTrace(sess, trx)
	if err := trace.Init(); err != nil {
		return nil, err
	}
	if err := trace.Exec(ctx); err != nil {
		return nil, err
	}
	if err := trace.SetResult(); err != nil {
		return nil, err
	}
	if expected != nil {
		if trace.NeedRetry(*expected) {
			logger.Debug("retry out of time tx", "id", trx.ID(), "expected", *expected)
			metricRetries().Add(1)
			if err := trace.Retry(ctx); err != nil {
				return nil, err
			}
		}
		if err := trace.Check(*expected); err != nil {
			return nil, err
		}
	}
	if err := trace.Finalize(); err != nil {
		return nil, err
	}
	receipt := trace.Receipt()
	metricTxResults().AddWithLabel(1, map[string]string{"result": receipt.Result.String()})
	return receipt, nil
}
