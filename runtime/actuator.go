// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/params"
	"github.com/vechain/meter/resource"
	"github.com/vechain/meter/state"
	"github.com/vechain/meter/tx"
	"github.com/vechain/meter/vm"
)

// Env is what an actuator works on.
type Env struct {
	State  *state.State
	Params *params.Values
	Fork   meter.ForkConfig
	Block  *vm.BlockContext
	TxID   meter.Bytes32
}

// Actuator executes one kind of system action.
// Validate must not change state. Execute assumes a successful Validate.
type Actuator interface {
	Validate(env *Env, owner meter.Address, p tx.Payload) error
	Execute(env *Env, owner meter.Address, p tx.Payload) error
}

func builtinActuators() map[tx.ActionKind]Actuator {
	return map[tx.ActionKind]Actuator{
		tx.ActionTransfer:           transferActuator{},
		tx.ActionCreateAccount:      createAccountActuator{},
		tx.ActionFreeze:             freezeActuator{},
		tx.ActionUnfreeze:           unfreezeActuator{},
		tx.ActionDelegateResource:   delegateActuator{},
		tx.ActionUndelegateResource: undelegateActuator{},
		tx.ActionUpdateSetting:      updateSettingActuator{},
		tx.ActionUpdatePermission:   updatePermissionActuator{},
		tx.ActionPoolTransfer:       poolTransferActuator{},
	}
}

// createsAccount returns whether executing p would create a new account.
func createsAccount(st *state.State, p tx.Payload) (bool, error) {
	switch p := p.(type) {
	case *tx.Transfer:
		ok, err := st.Exists(p.To)
		return !ok, err
	case *tx.PoolTransfer:
		ok, err := st.Exists(p.To)
		return !ok, err
	case *tx.CreateAccount:
		return true, nil
	}
	return false, nil
}

func requireBalance(st *state.State, addr meter.Address, amount *big.Int) error {
	balance, err := st.GetBalance(addr)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return validationErrorf("insufficient balance: has %v, needs %v", balance, amount)
	}
	return nil
}

func addBalance(st *state.State, addr meter.Address, delta *big.Int) error {
	balance, err := st.GetBalance(addr)
	if err != nil {
		return err
	}
	return st.SetBalance(addr, new(big.Int).Add(balance, delta))
}

// credit adds amount to the balance of addr, creating the account at block time when absent.
func credit(env *Env, addr meter.Address, amount *big.Int) error {
	ok, err := env.State.Exists(addr)
	if err != nil {
		return err
	}
	if !ok {
		if err := env.State.CreateAccount(addr, env.Block.Time); err != nil {
			return err
		}
	}
	return addBalance(env.State, addr, amount)
}

func validAmount(amount *big.Int, minimum uint64) error {
	if amount == nil || amount.Cmp(new(big.Int).SetUint64(minimum)) < 0 {
		return validationErrorf("amount must be at least %v", minimum)
	}
	return nil
}

// reweigh moves the network total weight of kind after the weight of one
// account changed from before to after. Totals add whole units per account,
// the same truncation Entitlement applies to each account.
func reweigh(st *state.State, kind meter.ResourceKind, before, after *big.Int) error {
	d, err := st.GetDynamic()
	if err != nil {
		return err
	}
	total := &d.TotalNetWeight
	if kind == meter.Energy {
		total = &d.TotalEnergyWeight
	}
	*total -= min(resource.WeightOf(before), *total)
	*total += resource.WeightOf(after)
	return st.SetDynamic(d)
}

type transferActuator struct{}

func (transferActuator) Validate(env *Env, owner meter.Address, p tx.Payload) error {
	t := p.(*tx.Transfer)
	if err := validAmount(t.Amount, 1); err != nil {
		return err
	}
	if t.To == owner {
		return validationErrorf("cannot transfer to self")
	}
	return requireBalance(env.State, owner, t.Amount)
}

func (transferActuator) Execute(env *Env, owner meter.Address, p tx.Payload) error {
	t := p.(*tx.Transfer)
	if err := addBalance(env.State, owner, new(big.Int).Neg(t.Amount)); err != nil {
		return err
	}
	return credit(env, t.To, t.Amount)
}

type createAccountActuator struct{}

func (createAccountActuator) Validate(env *Env, _ meter.Address, p tx.Payload) error {
	ok, err := env.State.Exists(p.(*tx.CreateAccount).Account)
	if err != nil {
		return err
	}
	if ok {
		return validationErrorf("account already exists")
	}
	return nil
}

func (createAccountActuator) Execute(env *Env, _ meter.Address, p tx.Payload) error {
	return env.State.CreateAccount(p.(*tx.CreateAccount).Account, env.Block.Time)
}

type freezeActuator struct{}

func (freezeActuator) Validate(env *Env, owner meter.Address, p tx.Payload) error {
	f := p.(*tx.Freeze)
	if !f.Resource.IsValid() {
		return validationErrorf("unknown resource %v", f.Resource)
	}
	if err := validAmount(f.Amount, meter.WeightPrecision); err != nil {
		return err
	}
	return requireBalance(env.State, owner, f.Amount)
}

func (freezeActuator) Execute(env *Env, owner meter.Address, p tx.Payload) error {
	f := p.(*tx.Freeze)
	if err := addBalance(env.State, owner, new(big.Int).Neg(f.Amount)); err != nil {
		return err
	}
	r, err := env.State.GetResource(owner, f.Resource)
	if err != nil {
		return err
	}
	before := r.Weight()
	r.Frozen = new(big.Int).Add(r.Frozen, f.Amount)
	r.Expiry = env.Block.Time + env.Params.MinFreezeDuration
	if err := env.State.SetResource(owner, f.Resource, r); err != nil {
		return err
	}
	return reweigh(env.State, f.Resource, before, r.Weight())
}

type unfreezeActuator struct{}

func (unfreezeActuator) Validate(env *Env, owner meter.Address, p tx.Payload) error {
	u := p.(*tx.Unfreeze)
	if !u.Resource.IsValid() {
		return validationErrorf("unknown resource %v", u.Resource)
	}
	r, err := env.State.GetResource(owner, u.Resource)
	if err != nil {
		return err
	}
	if r.Frozen.Sign() == 0 {
		return validationErrorf("nothing frozen")
	}
	if r.Expiry > env.Block.Time {
		return validationErrorf("frozen until %v", r.Expiry)
	}
	return nil
}

func (unfreezeActuator) Execute(env *Env, owner meter.Address, p tx.Payload) error {
	u := p.(*tx.Unfreeze)
	r, err := env.State.GetResource(owner, u.Resource)
	if err != nil {
		return err
	}
	before, amount := r.Weight(), r.Frozen
	r.Frozen, r.Expiry = new(big.Int), 0
	if err := env.State.SetResource(owner, u.Resource, r); err != nil {
		return err
	}
	if err := addBalance(env.State, owner, amount); err != nil {
		return err
	}
	return reweigh(env.State, u.Resource, before, r.Weight())
}

type delegateActuator struct{}

func (delegateActuator) Validate(env *Env, owner meter.Address, p tx.Payload) error {
	if env.Block.Version < env.Fork.DelegateResource {
		return validationErrorf("resource delegation not activated")
	}
	d := p.(*tx.DelegateResource)
	if !d.Resource.IsValid() {
		return validationErrorf("unknown resource %v", d.Resource)
	}
	if d.Receiver == owner {
		return validationErrorf("cannot delegate to self")
	}
	ok, err := env.State.Exists(d.Receiver)
	if err != nil {
		return err
	}
	if !ok {
		return validationErrorf("receiver does not exist")
	}
	if err := validAmount(d.Amount, meter.WeightPrecision); err != nil {
		return err
	}
	return requireBalance(env.State, owner, d.Amount)
}

func (delegateActuator) Execute(env *Env, owner meter.Address, p tx.Payload) error {
	d := p.(*tx.DelegateResource)
	st := env.State
	if err := addBalance(st, owner, new(big.Int).Neg(d.Amount)); err != nil {
		return err
	}

	from, err := st.GetResource(owner, d.Resource)
	if err != nil {
		return err
	}
	from.DelegatedOut = new(big.Int).Add(from.DelegatedOut, d.Amount)
	if err := st.SetResource(owner, d.Resource, from); err != nil {
		return err
	}

	to, err := st.GetResource(d.Receiver, d.Resource)
	if err != nil {
		return err
	}
	before := to.Weight()
	to.Acquired = new(big.Int).Add(to.Acquired, d.Amount)
	if err := st.SetResource(d.Receiver, d.Resource, to); err != nil {
		return err
	}

	dl, err := st.GetDelegation(owner, d.Receiver, d.Resource)
	if err != nil {
		return err
	}
	dl.Amount = new(big.Int).Add(dl.Amount, d.Amount)
	dl.Expiry = env.Block.Time + env.Params.MinFreezeDuration
	if err := st.SetDelegation(owner, d.Receiver, d.Resource, dl); err != nil {
		return err
	}
	return reweigh(st, d.Resource, before, to.Weight())
}

type undelegateActuator struct{}

func (undelegateActuator) Validate(env *Env, owner meter.Address, p tx.Payload) error {
	if env.Block.Version < env.Fork.DelegateResource {
		return validationErrorf("resource delegation not activated")
	}
	u := p.(*tx.UndelegateResource)
	if !u.Resource.IsValid() {
		return validationErrorf("unknown resource %v", u.Resource)
	}
	dl, err := env.State.GetDelegation(owner, u.Receiver, u.Resource)
	if err != nil {
		return err
	}
	if dl.Amount.Sign() == 0 {
		return validationErrorf("no delegation to %v", u.Receiver)
	}
	if dl.Expiry > env.Block.Time {
		return validationErrorf("delegated until %v", dl.Expiry)
	}
	return nil
}

func (undelegateActuator) Execute(env *Env, owner meter.Address, p tx.Payload) error {
	u := p.(*tx.UndelegateResource)
	st := env.State
	dl, err := st.GetDelegation(owner, u.Receiver, u.Resource)
	if err != nil {
		return err
	}
	amount := dl.Amount

	from, err := st.GetResource(owner, u.Resource)
	if err != nil {
		return err
	}
	from.DelegatedOut = new(big.Int).Sub(from.DelegatedOut, amount)
	if err := st.SetResource(owner, u.Resource, from); err != nil {
		return err
	}

	to, err := st.GetResource(u.Receiver, u.Resource)
	if err != nil {
		return err
	}
	before := to.Weight()
	to.Acquired = new(big.Int).Sub(to.Acquired, amount)
	if err := st.SetResource(u.Receiver, u.Resource, to); err != nil {
		return err
	}

	if err := st.SetDelegation(owner, u.Receiver, u.Resource, state.Delegation{}); err != nil {
		return err
	}
	if err := addBalance(st, owner, amount); err != nil {
		return err
	}
	return reweigh(st, u.Resource, before, to.Weight())
}

type updateSettingActuator struct{}

func (updateSettingActuator) Validate(env *Env, owner meter.Address, p tx.Payload) error {
	u := p.(*tx.UpdateSetting)
	c, ok, err := env.State.GetContract(u.Contract)
	if err != nil {
		return err
	}
	if !ok {
		return validationErrorf("contract %v does not exist", u.Contract)
	}
	if c.Origin != owner {
		return validationErrorf("not the origin of the contract")
	}
	if u.ConsumeUserPercent > meter.MaxConsumeUserPercent {
		return validationErrorf("consume user percent exceeds %v", meter.MaxConsumeUserPercent)
	}
	return nil
}

func (updateSettingActuator) Execute(env *Env, _ meter.Address, p tx.Payload) error {
	u := p.(*tx.UpdateSetting)
	c, _, err := env.State.GetContract(u.Contract)
	if err != nil {
		return err
	}
	c.ConsumeUserPercent = u.ConsumeUserPercent
	if u.OriginEnergyLimit != 0 {
		c.OriginEnergyLimit = u.OriginEnergyLimit
	}
	return env.State.SetContract(u.Contract, c)
}

type updatePermissionActuator struct{}

func (updatePermissionActuator) Validate(env *Env, owner meter.Address, p tx.Payload) error {
	if env.Block.Version < env.Fork.MultiSign {
		return validationErrorf("multi-signature permission not activated")
	}
	u := p.(*tx.UpdatePermission)
	if err := u.Permission.Validate(); err != nil {
		return validationErrorf("%v", err)
	}
	return requireBalance(env.State, owner, new(big.Int).SetUint64(env.Params.UpdatePermissionFee))
}

func (updatePermissionActuator) Execute(env *Env, owner meter.Address, p tx.Payload) error {
	if err := resource.PayFee(env.State, owner, new(big.Int).SetUint64(env.Params.UpdatePermissionFee)); err != nil {
		return err
	}
	acc, _, err := env.State.GetAccount(owner)
	if err != nil {
		return err
	}
	acc.Permission = p.(*tx.UpdatePermission).Permission
	return env.State.SetAccount(owner, acc)
}

type poolTransferActuator struct{}

func (poolTransferActuator) Validate(env *Env, owner meter.Address, p tx.Payload) error {
	t := p.(*tx.PoolTransfer)
	pool, ok, err := env.State.GetPool(t.Pool)
	if err != nil {
		return err
	}
	if !ok {
		return validationErrorf("pool %v does not exist", t.Pool)
	}
	if pool.Owner != owner {
		return validationErrorf("not the owner of the pool")
	}
	if err := validAmount(t.Amount, 1); err != nil {
		return err
	}
	if pool.Balance.Cmp(t.Amount) < 0 {
		return validationErrorf("insufficient pool balance: has %v, needs %v", pool.Balance, t.Amount)
	}
	return nil
}

func (poolTransferActuator) Execute(env *Env, _ meter.Address, p tx.Payload) error {
	t := p.(*tx.PoolTransfer)
	pool, _, err := env.State.GetPool(t.Pool)
	if err != nil {
		return err
	}
	pool.Balance = new(big.Int).Sub(pool.Balance, t.Amount)
	if err := env.State.SetPool(t.Pool, pool); err != nil {
		return err
	}
	return credit(env, t.To, t.Amount)
}
