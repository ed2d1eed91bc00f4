// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package resource

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/params"
	"github.com/vechain/meter/state"
)

// NetCharge is what the bandwidth ladder charged for a tx.
type NetCharge struct {
	Usage uint64   // charged from entitlement or free tier
	Fee   *big.Int // paid from balance and burned
}

// Bandwidth meters bandwidth.
type Bandwidth struct {
	params *params.Values
}

// NewBandwidth creates the bandwidth meter under the given parameters.
func NewBandwidth(p *params.Values) *Bandwidth {
	return &Bandwidth{params: p}
}

// Limit returns the bandwidth entitlement of addr.
func (b *Bandwidth) Limit(st *state.State, addr meter.Address) (uint64, error) {
	r, err := st.GetResource(addr, meter.Bandwidth)
	if err != nil {
		return 0, err
	}
	d, err := st.GetDynamic()
	if err != nil {
		return 0, err
	}
	return Entitlement(r.Weight(), b.params.TotalNetLimit, d.TotalNetWeight), nil
}

// TryCharge charges amount from the entitlement of addr.
func (b *Bandwidth) TryCharge(st *state.State, addr meter.Address, amount, slot uint64) error {
	limit, err := b.Limit(st, addr)
	if err != nil {
		return err
	}
	r, err := st.GetResource(addr, meter.Bandwidth)
	if err != nil {
		return err
	}
	usage, ok := admit(r.Usage, r.LatestSlot, limit, amount, slot)
	if !ok {
		return ErrInsufficientEntitlement
	}
	r.Usage, r.LatestSlot = usage, slot
	return st.SetResource(addr, meter.Bandwidth, r)
}

// Consume charges size bytes of a tx to payer walking the ladder:
// account creation, own entitlement, free tier, then fee from balance.
func (b *Bandwidth) Consume(st *state.State, payer meter.Address, size uint64, createsAccount bool, slot uint64) (NetCharge, error) {
	if createsAccount {
		return b.consumeForCreateAccount(st, payer, size, slot)
	}

	switch err := b.TryCharge(st, payer, size, slot); {
	case err == nil:
		return NetCharge{Usage: size, Fee: new(big.Int)}, nil
	case !errors.Is(err, ErrInsufficientEntitlement):
		return NetCharge{}, err
	}

	ok, err := b.useFree(st, payer, size, slot)
	if err != nil {
		return NetCharge{}, err
	}
	if ok {
		return NetCharge{Usage: size, Fee: new(big.Int)}, nil
	}

	fee := new(big.Int).Mul(new(big.Int).SetUint64(size), new(big.Int).SetUint64(b.params.TransactionFee))
	if err := PayFee(st, payer, fee); err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			return NetCharge{}, errors.WithMessagef(ErrInsufficientBandwidth, "%v: %v bytes", payer, size)
		}
		return NetCharge{}, err
	}
	recordBurned("bandwidth", fee)
	return NetCharge{Fee: fee}, nil
}

func (b *Bandwidth) consumeForCreateAccount(st *state.State, payer meter.Address, size, slot uint64) (NetCharge, error) {
	cost := size * b.params.CreateAccountBandwidth
	switch err := b.TryCharge(st, payer, cost, slot); {
	case err == nil:
		return NetCharge{Usage: cost, Fee: new(big.Int)}, nil
	case !errors.Is(err, ErrInsufficientEntitlement):
		return NetCharge{}, err
	}

	fee := new(big.Int).SetUint64(b.params.CreateAccountFee)
	if err := PayFee(st, payer, fee); err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			return NetCharge{}, errors.WithMessagef(ErrInsufficientBandwidth, "%v: create account", payer)
		}
		return NetCharge{}, err
	}
	recordBurned("create_account", fee)
	return NetCharge{Fee: fee}, nil
}

// useFree charges the free tier of the account and the network wide pool together.
func (b *Bandwidth) useFree(st *state.State, addr meter.Address, size, slot uint64) (bool, error) {
	acc, _, err := st.GetAccount(addr)
	if err != nil {
		return false, err
	}
	freeUsage, ok := admit(acc.FreeNetUsage, acc.FreeNetSlot, b.params.FreeNetLimit, size, slot)
	if !ok {
		return false, nil
	}
	d, err := st.GetDynamic()
	if err != nil {
		return false, err
	}
	publicUsage, ok := admit(d.PublicNetUsage, d.PublicNetSlot, b.params.PublicNetLimit, size, slot)
	if !ok {
		return false, nil
	}

	acc.FreeNetUsage, acc.FreeNetSlot = freeUsage, slot
	if err := st.SetAccount(addr, acc); err != nil {
		return false, err
	}
	d.PublicNetUsage, d.PublicNetSlot = publicUsage, slot
	return true, st.SetDynamic(d)
}
