// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package params is the on-chain parameter store of the ledger.
// Parameters are read into a Values snapshot once per block and handed down explicitly.
package params

import (
	"github.com/pkg/errors"
)

// Keys of on-chain parameters.
const (
	KeyTransactionFee           = "transactionFee"           // per byte of bandwidth paid from balance
	KeyEnergyFee                = "energyFee"                // per unit of energy paid from balance
	KeyCreateAccountFee         = "createAccountFee"         // paid when bandwidth can not cover account creation
	KeyCreateAccountBandwidth   = "createAccountBandwidth"   // bandwidth ratio charged for account creation
	KeyFreeNetLimit             = "freeNetLimit"             // free tier bandwidth per account
	KeyPublicNetLimit           = "publicNetLimit"           // free tier bandwidth of the whole network
	KeyTotalNetLimit            = "totalNetLimit"            // bandwidth shared by frozen weight
	KeyTotalEnergyLimit         = "totalEnergyLimit"         // floor of the adaptive energy limit
	KeyTotalEnergyTargetLimit   = "totalEnergyTargetLimit"   // network average energy usage aimed at
	KeyAdaptiveMultiplier       = "adaptiveMultiplier"       // ceiling of the adaptive energy limit, as multiple of the floor
	KeyMultiSignFee             = "multiSignFee"             // per extra signature
	KeyUpdatePermissionFee      = "updatePermissionFee"      // paid by a permission update
	KeyMinFreezeDuration        = "minFreezeDuration"        // seconds before frozen balance can be released
	KeyMaxFeeLimit              = "maxFeeLimit"              // max fee limit of a tx
	KeyDefaultOriginEnergyLimit = "defaultOriginEnergyLimit" // origin energy limit of contracts created without one
)

// Keys all parameter keys in storage order.
var Keys = []string{
	KeyTransactionFee,
	KeyEnergyFee,
	KeyCreateAccountFee,
	KeyCreateAccountBandwidth,
	KeyFreeNetLimit,
	KeyPublicNetLimit,
	KeyTotalNetLimit,
	KeyTotalEnergyLimit,
	KeyTotalEnergyTargetLimit,
	KeyAdaptiveMultiplier,
	KeyMultiSignFee,
	KeyUpdatePermissionFee,
	KeyMinFreezeDuration,
	KeyMaxFeeLimit,
	KeyDefaultOriginEnergyLimit,
}

// Values is a snapshot of all parameters.
type Values struct {
	TransactionFee           uint64
	EnergyFee                uint64
	CreateAccountFee         uint64
	CreateAccountBandwidth   uint64
	FreeNetLimit             uint64
	PublicNetLimit           uint64
	TotalNetLimit            uint64
	TotalEnergyLimit         uint64
	TotalEnergyTargetLimit   uint64
	AdaptiveMultiplier       uint64
	MultiSignFee             uint64
	UpdatePermissionFee      uint64
	MinFreezeDuration        uint64
	MaxFeeLimit              uint64
	DefaultOriginEnergyLimit uint64
}

// Default returns the initial values of parameters.
func Default() Values {
	return Values{
		TransactionFee:           10,
		EnergyFee:                100,
		CreateAccountFee:         100_000,
		CreateAccountBandwidth:   1,
		FreeNetLimit:             5000,
		PublicNetLimit:           14_400_000_000,
		TotalNetLimit:            43_200_000_000,
		TotalEnergyLimit:         50_000_000_000,
		TotalEnergyTargetLimit:   50_000_000_000 / 1440,
		AdaptiveMultiplier:       1000,
		MultiSignFee:             1_000_000,
		UpdatePermissionFee:      100_000_000,
		MinFreezeDuration:        3 * 24 * 3600,
		MaxFeeLimit:              1_000_000_000,
		DefaultOriginEnergyLimit: 10_000_000,
	}
}

func (v *Values) field(key string) *uint64 {
	switch key {
	case KeyTransactionFee:
		return &v.TransactionFee
	case KeyEnergyFee:
		return &v.EnergyFee
	case KeyCreateAccountFee:
		return &v.CreateAccountFee
	case KeyCreateAccountBandwidth:
		return &v.CreateAccountBandwidth
	case KeyFreeNetLimit:
		return &v.FreeNetLimit
	case KeyPublicNetLimit:
		return &v.PublicNetLimit
	case KeyTotalNetLimit:
		return &v.TotalNetLimit
	case KeyTotalEnergyLimit:
		return &v.TotalEnergyLimit
	case KeyTotalEnergyTargetLimit:
		return &v.TotalEnergyTargetLimit
	case KeyAdaptiveMultiplier:
		return &v.AdaptiveMultiplier
	case KeyMultiSignFee:
		return &v.MultiSignFee
	case KeyUpdatePermissionFee:
		return &v.UpdatePermissionFee
	case KeyMinFreezeDuration:
		return &v.MinFreezeDuration
	case KeyMaxFeeLimit:
		return &v.MaxFeeLimit
	case KeyDefaultOriginEnergyLimit:
		return &v.DefaultOriginEnergyLimit
	}
	return nil
}

// Get returns the value of the parameter.
func (v *Values) Get(key string) (uint64, bool) {
	if f := v.field(key); f != nil {
		return *f, true
	}
	return 0, false
}

// Set changes the value of the parameter.
func (v *Values) Set(key string, val uint64) error {
	f := v.field(key)
	if f == nil {
		return errors.Errorf("unknown param %q", key)
	}
	*f = val
	return nil
}

// Reader reads raw parameters. Implemented by state.State.
type Reader interface {
	GetParam(name string) (uint64, bool, error)
}

// Writer writes raw parameters. Implemented by state.State.
type Writer interface {
	SetParam(name string, v uint64) error
}

// Load reads all parameters. Absent ones take default values.
func Load(r Reader) (Values, error) {
	v := Default()
	for _, key := range Keys {
		val, ok, err := r.GetParam(key)
		if err != nil {
			return Values{}, errors.WithMessagef(err, "load param %v", key)
		}
		if ok {
			*v.field(key) = val
		}
	}
	return v, nil
}

// Store writes all parameters.
func (v *Values) Store(w Writer) error {
	for _, key := range Keys {
		if err := w.SetParam(key, *v.field(key)); err != nil {
			return errors.WithMessagef(err, "store param %v", key)
		}
	}
	return nil
}
