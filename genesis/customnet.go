// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/state"
)

// CustomGenesis is user customized genesis, loaded from YAML.
type CustomGenesis struct {
	LaunchTime uint64            `yaml:"launchTime"`
	ExtraData  string            `yaml:"extraData"`
	Config     *meter.Config     `yaml:"config,omitempty"`
	ForkConfig *meter.ForkConfig `yaml:"forkConfig,omitempty"`
	Params     map[string]uint64 `yaml:"params,omitempty"`
	Accounts   []Account         `yaml:"accounts"`
}

// Account is an account allocated at genesis.
type Account struct {
	Address         meter.Address         `yaml:"address"`
	Balance         *math.HexOrDecimal256 `yaml:"balance"`
	FrozenBandwidth *math.HexOrDecimal256 `yaml:"frozenBandwidth,omitempty"`
	FrozenEnergy    *math.HexOrDecimal256 `yaml:"frozenEnergy,omitempty"`
}

// LoadCustomGenesis decodes a custom genesis.
func LoadCustomGenesis(r io.Reader) (*CustomGenesis, error) {
	var gen CustomGenesis
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &gen, nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if len(gen.ExtraData) > 28 {
		return nil, errors.New("extraData too long")
	}
	if gen.LaunchTime == 0 {
		return nil, errors.New("launchTime must be set")
	}
	for i, a := range gen.Accounts {
		if a.Balance == nil {
			return nil, errors.Errorf("accounts[%d] %v: balance must be set", i, a.Address)
		}
	}

	var extra [28]byte
	copy(extra[:], gen.ExtraData)

	builder := new(Builder).
		Timestamp(gen.LaunchTime).
		ExtraData(extra).
		State(func(st *state.State) error {
			if err := initParams(st, gen.Params); err != nil {
				return err
			}
			for _, a := range gen.Accounts {
				frozen := map[meter.ResourceKind]*big.Int{
					meter.Bandwidth: toBig(a.FrozenBandwidth),
					meter.Energy:    toBig(a.FrozenEnergy),
				}
				if err := alloc(st, gen.LaunchTime, a.Address, toBig(a.Balance), frozen); err != nil {
					return err
				}
			}
			return nil
		})

	return newGenesis(builder, "customnet")
}

func toBig(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return nil
	}
	return (*big.Int)(v)
}
