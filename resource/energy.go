// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package resource

import (
	"math/big"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/params"
	"github.com/vechain/meter/state"
)

// Energy meters energy.
type Energy struct {
	params *params.Values
}

// NewEnergy creates the energy meter under the given parameters.
func NewEnergy(p *params.Values) *Energy {
	return &Energy{params: p}
}

// Limit returns the energy entitlement of addr under the current adaptive limit.
func (e *Energy) Limit(st *state.State, addr meter.Address) (uint64, error) {
	r, err := st.GetResource(addr, meter.Energy)
	if err != nil {
		return 0, err
	}
	d, err := st.GetDynamic()
	if err != nil {
		return 0, err
	}
	return Entitlement(r.Weight(), e.currentLimit(d), d.TotalEnergyWeight), nil
}

func (e *Energy) currentLimit(d state.Dynamic) uint64 {
	if d.TotalEnergyCurrentLimit == 0 {
		return e.params.TotalEnergyLimit
	}
	return d.TotalEnergyCurrentLimit
}

// LeftFromFreeze returns the energy addr may still use from its entitlement.
func (e *Energy) LeftFromFreeze(st *state.State, addr meter.Address, slot uint64) (uint64, error) {
	limit, err := e.Limit(st, addr)
	if err != nil {
		return 0, err
	}
	r, err := st.GetResource(addr, meter.Energy)
	if err != nil {
		return 0, err
	}
	used := Recover(r.Usage, r.LatestSlot, slot, meter.ResourceWindow())
	if used >= limit {
		return 0, nil
	}
	return limit - used, nil
}

// TryCharge charges amount from the entitlement of addr.
func (e *Energy) TryCharge(st *state.State, addr meter.Address, amount, slot uint64) error {
	if amount == 0 {
		return nil
	}
	limit, err := e.Limit(st, addr)
	if err != nil {
		return err
	}
	r, err := st.GetResource(addr, meter.Energy)
	if err != nil {
		return err
	}
	usage, ok := admit(r.Usage, r.LatestSlot, limit, amount, slot)
	if !ok {
		return ErrInsufficientEntitlement
	}
	r.Usage, r.LatestSlot = usage, slot
	return st.SetResource(addr, meter.Energy, r)
}

// Fee returns the balance price of units of energy.
func (e *Energy) Fee(units uint64) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(units), new(big.Int).SetUint64(e.params.EnergyFee))
}

// Burn pays units of energy from the balance of addr.
func (e *Energy) Burn(st *state.State, addr meter.Address, units uint64) (*big.Int, error) {
	fee := e.Fee(units)
	if err := PayFee(st, addr, fee); err != nil {
		return nil, err
	}
	recordBurned("energy", fee)
	return fee, nil
}

// Charge pays units of energy from the entitlement of addr first, then from its balance.
func (e *Energy) Charge(st *state.State, addr meter.Address, units, slot uint64) (fromFreeze uint64, fee *big.Int, err error) {
	left, err := e.LeftFromFreeze(st, addr, slot)
	if err != nil {
		return 0, nil, err
	}
	fromFreeze = min(units, left)
	if err := e.TryCharge(st, addr, fromFreeze, slot); err != nil {
		return 0, nil, err
	}
	fee, err = e.Burn(st, addr, units-fromFreeze)
	if err != nil {
		return 0, nil, err
	}
	return fromFreeze, fee, nil
}

// UpdateAdaptiveLimit folds the energy used by a block into the network average and
// moves the current limit toward the target.
func (e *Energy) UpdateAdaptiveLimit(st *state.State, blockUsage, slot uint64) error {
	d, err := st.GetDynamic()
	if err != nil {
		return err
	}
	d.EnergyAverageUsage = Increase(d.EnergyAverageUsage, blockUsage, d.EnergyAverageSlot, slot, meter.AdaptiveWindow())
	d.EnergyAverageSlot = slot

	current := e.currentLimit(d)
	if d.EnergyAverageUsage > e.params.TotalEnergyTargetLimit {
		current = mulDiv(current, 99, 100)
	} else {
		current = mulDiv(current, 1000, 999)
	}

	floor := e.params.TotalEnergyLimit
	ceiling := mulDiv(floor, max(e.params.AdaptiveMultiplier, 1), 1)
	d.TotalEnergyCurrentLimit = min(max(current, floor), ceiling)

	metricEnergyLimit().Set(int64(d.TotalEnergyCurrentLimit))
	return st.SetDynamic(d)
}
