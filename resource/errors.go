// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package resource

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/state"
)

var (
	// ErrInsufficientEntitlement is returned when a charge exceeds what is left of the entitlement.
	ErrInsufficientEntitlement = errors.New("insufficient entitlement")
	// ErrInsufficientBandwidth is returned when no step of the bandwidth ladder can pay.
	ErrInsufficientBandwidth = errors.New("insufficient bandwidth")
	// ErrInsufficientBalance is returned when a fee can not be paid from balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// PayFee deducts fee from the balance of addr and burns it.
func PayFee(st *state.State, addr meter.Address, fee *big.Int) error {
	if fee.Sign() == 0 {
		return nil
	}
	balance, err := st.GetBalance(addr)
	if err != nil {
		return err
	}
	if balance.Cmp(fee) < 0 {
		return errors.WithMessagef(ErrInsufficientBalance, "%v needs %v, has %v", addr, fee, balance)
	}
	if err := st.SetBalance(addr, new(big.Int).Sub(balance, fee)); err != nil {
		return err
	}
	return st.Burn(fee)
}
