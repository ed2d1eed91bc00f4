// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"math"
	"math/big"
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/resource"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/state"
	"github.com/vechain/meter/tx"
	"github.com/vechain/meter/vm"
)

type stage uint8

const (
	stageCreated stage = iota
	stageInitialized
	stageExecuted
	stageResulted
	stageFinalized
)

var stageNames = [...]string{"created", "initialized", "executed", "resulted", "finalized"}

func (s stage) String() string {
	return stageNames[s]
}

// Trace follows one transaction through its execution stages.
// Every stage method must be called in order; any error leaves the session to be discarded.
type Trace struct {
	rt      *Runtime
	trx     *tx.Transaction
	sess    *snapshot.Session
	st      *state.State
	owner   meter.Address
	payload tx.Payload
	stage   stage
	retried bool

	// set for actions running the vm
	contract     state.Contract
	contractAddr meter.Address
	output       *vm.Output

	receipt tx.Receipt
}

// NewTrace creates the trace of trx executing in sess.
func (rt *Runtime) NewTrace(sess *snapshot.Session, trx *tx.Transaction) *Trace {
	return &Trace{
		rt:    rt,
		trx:   trx,
		sess:  sess,
		st:    state.New(sess),
		owner: trx.Owner(),
		receipt: tx.Receipt{
			NetFee:       new(big.Int),
			EnergyFee:    new(big.Int),
			MultiSignFee: new(big.Int),
		},
	}
}

func (t *Trace) expect(s stage) error {
	if t.stage != s {
		return errors.WithMessagef(errBadTraceState, "want %v, at %v", s, t.stage)
	}
	return nil
}

// Init checks the owner and charges the multi-sign fee and bandwidth.
func (t *Trace) Init() error {
	if err := t.expect(stageCreated); err != nil {
		return err
	}
	p, err := t.trx.Action().Decode()
	if err != nil {
		return validationErrorf("%v", err)
	}
	t.payload = p

	ok, err := t.st.Exists(t.owner)
	if err != nil {
		return err
	}
	if !ok {
		return errors.WithMessagef(ErrOwnerNotFound, "%v", t.owner)
	}

	if err := t.chargeMultiSign(); err != nil {
		return err
	}

	creates, err := createsAccount(t.st, p)
	if err != nil {
		return err
	}
	size := t.trx.Size()
	if p.Kind().RunsVM() {
		size += meter.MaxResultSize
	}
	charge, err := t.rt.bandwidth.Consume(t.st, t.owner, size, creates, t.rt.Slot())
	if err != nil {
		return err
	}
	t.receipt.NetUsage = charge.Usage
	if charge.Fee != nil {
		t.receipt.NetFee = charge.Fee
	}
	t.stage = stageInitialized
	return nil
}

func (t *Trace) chargeMultiSign() error {
	n := len(t.trx.Signatures())
	if n <= 1 || t.rt.blk.Version < t.rt.fork.MultiSign {
		return nil
	}
	fee := new(big.Int).Mul(
		new(big.Int).SetUint64(t.rt.params.MultiSignFee),
		big.NewInt(int64(n-1)))

	if pt, ok := t.payload.(*tx.PoolTransfer); ok {
		pool, exists, err := t.st.GetPool(pt.Pool)
		if err != nil {
			return err
		}
		if exists {
			if pool.Reserve.Cmp(fee) < 0 {
				return errors.WithMessagef(ErrInsufficientBalance, "pool reserve %v, multi-sign fee %v", pool.Reserve, fee)
			}
			pool.Reserve = new(big.Int).Sub(pool.Reserve, fee)
			if err := t.st.SetPool(pt.Pool, pool); err != nil {
				return err
			}
			if err := t.st.Burn(fee); err != nil {
				return err
			}
			t.receipt.MultiSignFee = fee
			return nil
		}
	}
	if err := resource.PayFee(t.st, t.owner, fee); err != nil {
		return err
	}
	t.receipt.MultiSignFee = fee
	return nil
}

func (t *Trace) env() *Env {
	return &Env{
		State:  t.st,
		Params: t.rt.params,
		Fork:   t.rt.fork,
		Block:  &t.rt.blk,
		TxID:   t.trx.ID(),
	}
}

// Exec executes the action. System actions go through their actuator, contract actions
// run in the vm inside a nested session that is discarded when the execution fails.
func (t *Trace) Exec(ctx context.Context) error {
	if err := t.expect(stageInitialized); err != nil {
		return err
	}
	kind := t.payload.Kind()
	if kind.RunsVM() {
		return t.execVM(ctx)
	}

	a, ok := t.rt.actuators[kind]
	if !ok {
		return validationErrorf("unsupported action %v", kind)
	}
	env := t.env()
	if err := a.Validate(env, t.owner, t.payload); err != nil {
		return err
	}
	if err := a.Execute(env, t.owner, t.payload); err != nil {
		return err
	}
	t.stage = stageExecuted
	return nil
}

func (t *Trace) prepareMessage() (*vm.Message, error) {
	msg := &vm.Message{Caller: t.owner, TxID: t.trx.ID()}
	switch p := t.payload.(type) {
	case *tx.CreateContract:
		if p.ConsumeUserPercent > meter.MaxConsumeUserPercent {
			return nil, validationErrorf("consume user percent exceeds %v", meter.MaxConsumeUserPercent)
		}
		addr := meter.CreateContractAddress(t.trx.ID(), t.owner)
		ok, err := t.st.Exists(addr)
		if err != nil {
			return nil, err
		}
		if ok {
			return nil, validationErrorf("contract address %v taken", addr)
		}
		oel := p.OriginEnergyLimit
		if oel == 0 {
			oel = t.rt.params.DefaultOriginEnergyLimit
		}
		t.contract = state.Contract{
			Origin:             t.owner,
			ConsumeUserPercent: p.ConsumeUserPercent,
			OriginEnergyLimit:  oel,
			Code:               p.Code,
		}
		msg.Create, msg.Code, msg.Value = true, p.Code, p.Value
		t.contractAddr = addr
	case *tx.TriggerContract:
		c, ok, err := t.st.GetContract(p.Contract)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, validationErrorf("contract %v does not exist", p.Contract)
		}
		t.contract = c
		msg.Code, msg.Value, msg.Data = c.Code, p.Value, p.Data
		t.contractAddr = p.Contract
	default:
		return nil, validationErrorf("unsupported action %v", t.payload.Kind())
	}
	msg.Contract = t.contractAddr
	msg.Origin = t.contract.Origin
	if msg.Value == nil {
		msg.Value = new(big.Int)
	}
	if msg.Value.Sign() < 0 {
		return nil, validationErrorf("negative value")
	}
	if err := requireBalance(t.st, t.owner, msg.Value); err != nil {
		return nil, err
	}
	return msg, nil
}

func (t *Trace) execVM(ctx context.Context) error {
	msg, err := t.prepareMessage()
	if err != nil {
		return err
	}
	if msg.EnergyLimit, err = t.energyLimit(msg.Value); err != nil {
		return err
	}

	child := t.sess.NewChild()
	out, err := t.run(ctx, child, msg)
	if err != nil {
		child.Discard()
		return err
	}
	if out.Fault != vm.FaultNone || out.Reverted {
		child.Discard()
	} else if err := child.Commit(); err != nil {
		return err
	}
	t.output = out
	t.stage = stageExecuted
	return nil
}

func (t *Trace) run(ctx context.Context, child *snapshot.Session, msg *vm.Message) (*vm.Output, error) {
	vst := state.New(child)
	if msg.Create {
		if err := vst.CreateAccount(msg.Contract, t.rt.blk.Time); err != nil {
			return nil, err
		}
		if err := vst.SetContract(msg.Contract, t.contract); err != nil {
			return nil, err
		}
	}
	if msg.Value.Sign() > 0 {
		if err := addBalance(vst, t.owner, new(big.Int).Neg(msg.Value)); err != nil {
			return nil, err
		}
		if err := addBalance(vst, msg.Contract, msg.Value); err != nil {
			return nil, err
		}
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(meter.ExecutionTimeout())*time.Millisecond)
	defer cancel()
	out, err := t.rt.executor.Execute(execCtx, vst, msg, &t.rt.blk)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if out.Fault == vm.FaultNone && errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		out.Fault = vm.FaultOutOfTime
	}
	if out.Fault != vm.FaultNone {
		// faults consume the whole limit
		out.EnergyUsed = msg.EnergyLimit
	}
	out.EnergyUsed = min(out.EnergyUsed, msg.EnergyLimit)
	return out, nil
}

// energyLimit returns the energy the execution may use, given what the caller
// can afford after value and what the contract origin shares.
func (t *Trace) energyLimit(value *big.Int) (uint64, error) {
	rt := t.rt
	price := max(rt.params.EnergyFee, 1)

	balance, err := t.st.GetBalance(t.owner)
	if err != nil {
		return 0, err
	}
	spendable := new(big.Int).Sub(balance, value)
	if spendable.Sign() < 0 {
		spendable.SetInt64(0)
	}
	fromBalance := units(spendable, price)

	var left uint64
	if !rt.directEnergyFee() {
		if left, err = rt.energy.LeftFromFreeze(t.st, t.owner, rt.Slot()); err != nil {
			return 0, err
		}
	}
	callerLimit := min(addSat(left, fromBalance), min(t.trx.FeeLimit(), rt.params.MaxFeeLimit)/price)

	pct := t.contract.ConsumeUserPercent
	if t.contract.Origin == t.owner || pct >= meter.MaxConsumeUserPercent {
		return callerLimit, nil
	}
	originLimit, err := t.originAvailable()
	if err != nil {
		return 0, err
	}
	originLimit = min(originLimit, t.contract.OriginEnergyLimit)
	if pct == 0 {
		return addSat(callerLimit, originLimit), nil
	}
	return min(mulDiv(callerLimit, meter.MaxConsumeUserPercent, pct), addSat(callerLimit, originLimit)), nil
}

// originAvailable returns the energy the contract origin can pay under the current policy.
func (t *Trace) originAvailable() (uint64, error) {
	origin := t.contract.Origin
	if t.rt.directEnergyFee() {
		balance, err := t.st.GetBalance(origin)
		if err != nil {
			return 0, err
		}
		return units(balance, max(t.rt.params.EnergyFee, 1)), nil
	}
	return t.rt.energy.LeftFromFreeze(t.st, origin, t.rt.Slot())
}

// originShare returns the part of total the contract origin pays.
func (t *Trace) originShare(total uint64) (uint64, error) {
	pct := t.contract.ConsumeUserPercent
	if t.contract.Origin == t.owner || pct >= meter.MaxConsumeUserPercent {
		return 0, nil
	}
	share := mulDiv(total, meter.MaxConsumeUserPercent-pct, meter.MaxConsumeUserPercent)
	avail, err := t.originAvailable()
	if err != nil {
		return 0, err
	}
	return min(share, t.contract.OriginEnergyLimit, avail), nil
}

// SetResult records the outcome of the execution.
func (t *Trace) SetResult() error {
	if err := t.expect(stageExecuted); err != nil {
		return err
	}
	t.receipt.Result = tx.ResultSuccess
	t.receipt.Logs = nil
	t.receipt.ContractAddress = meter.Address{}
	if out := t.output; out != nil {
		t.receipt.Result = ResultFromFault(out.Fault, out.Reverted)
		t.receipt.EnergyUsageTotal = out.EnergyUsed
		t.receipt.ReturnData = out.ReturnData
		if t.receipt.Result == tx.ResultSuccess {
			t.receipt.Logs = out.Logs
			if _, ok := t.payload.(*tx.CreateContract); ok {
				t.receipt.ContractAddress = t.contractAddr
			}
		}
	}
	t.stage = stageResulted
	return nil
}

// Result returns the recorded result code.
func (t *Trace) Result() tx.ResultCode {
	return t.receipt.Result
}

// NeedRetry returns whether the local execution ran out of time while the
// embedded result says it did not. Only one retry is allowed.
func (t *Trace) NeedRetry(expected tx.ResultCode) bool {
	return t.stage == stageResulted &&
		!t.retried &&
		t.receipt.Result == tx.ResultOutOfTime &&
		expected != tx.ResultOutOfTime
}

// Retry executes the action again and records the new outcome.
func (t *Trace) Retry(ctx context.Context) error {
	if err := t.expect(stageResulted); err != nil {
		return err
	}
	t.retried = true
	t.output = nil
	t.stage = stageInitialized
	if err := t.Exec(ctx); err != nil {
		return err
	}
	return t.SetResult()
}

// Check compares the recorded result with the one embedded in a received block.
func (t *Trace) Check(expected tx.ResultCode) error {
	if err := t.expect(stageResulted); err != nil {
		return err
	}
	if t.receipt.Result != expected {
		return errors.WithMessagef(ErrReceiptMismatch, "tx %v: got %v, want %v", t.trx.ID(), t.receipt.Result, expected)
	}
	return nil
}

// Finalize settles energy between the caller and the contract origin.
func (t *Trace) Finalize() error {
	if err := t.expect(stageResulted); err != nil {
		return err
	}
	if t.output != nil {
		if err := t.settleEnergy(t.output.EnergyUsed); err != nil {
			return err
		}
	}
	t.stage = stageFinalized
	return nil
}

func (t *Trace) settleEnergy(total uint64) error {
	rt := t.rt
	originUsage, err := t.originShare(total)
	if err != nil {
		return err
	}
	callerUsage := total - originUsage
	fee := new(big.Int)

	if rt.directEnergyFee() {
		originFee, err := rt.energy.Burn(t.st, t.contract.Origin, originUsage)
		if err != nil {
			return err
		}
		callerFee, err := rt.energy.Burn(t.st, t.owner, callerUsage)
		if err != nil {
			return err
		}
		fee.Add(originFee, callerFee)
	} else {
		if err := rt.energy.TryCharge(t.st, t.contract.Origin, originUsage, rt.Slot()); err != nil {
			return err
		}
		fromFreeze, callerFee, err := rt.energy.Charge(t.st, t.owner, callerUsage, rt.Slot())
		if err != nil {
			return err
		}
		t.receipt.EnergyUsage = fromFreeze
		fee.Set(callerFee)
	}
	t.receipt.OriginEnergyUsage = originUsage
	t.receipt.EnergyFee = fee
	return nil
}

// Receipt returns the receipt of a finalized trace, nil before that.
func (t *Trace) Receipt() *tx.Receipt {
	if t.stage != stageFinalized {
		return nil
	}
	r := t.receipt
	return &r
}

// units returns how many units of the given price amount buys, saturated at MaxUint64.
func units(amount *big.Int, price uint64) uint64 {
	n := new(big.Int).Div(amount, new(big.Int).SetUint64(price))
	if !n.IsUint64() {
		return math.MaxUint64
	}
	return n.Uint64()
}

func addSat(x, y uint64) uint64 {
	if s := x + y; s >= x {
		return s
	}
	return math.MaxUint64
}

// mulDiv returns x*y/z, saturated at MaxUint64.
func mulDiv(x, y, z uint64) uint64 {
	r := new(uint256.Int).Mul(uint256.NewInt(x), uint256.NewInt(y))
	r.Div(r, uint256.NewInt(z))
	if !r.IsUint64() {
		return math.MaxUint64
	}
	return r.Uint64()
}
