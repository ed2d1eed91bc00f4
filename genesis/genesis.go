// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds genesis blocks and their initial states.
package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/lvldb"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/params"
	"github.com/vechain/meter/resource"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/state"
)

// Genesis to build genesis block.
type Genesis struct {
	builder *Builder
	blk     *block.Block
	name    string
}

func newGenesis(builder *Builder, name string) (*Genesis, error) {
	blk, err := builder.Build(snapshot.New(lvldb.NewMem(), 1))
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, blk, name}, nil
}

// Build build the genesis block, writing the initial state into snap.
func (g *Genesis) Build(snap *snapshot.Chain) (*block.Block, error) {
	blk, err := g.builder.Build(snap)
	if err != nil {
		return nil, err
	}
	if blk.ID() != g.blk.ID() {
		panic("built genesis ID incorrect")
	}
	return blk, nil
}

// Block returns the genesis block without touching any state.
// Used when the initial state is already durable.
func (g *Genesis) Block() *block.Block {
	return g.blk
}

// ID returns genesis block ID.
func (g *Genesis) ID() meter.Bytes32 {
	return g.blk.ID()
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// alloc funds an account and freezes extra balance for its resources.
func alloc(st *state.State, launchTime uint64, addr meter.Address, balance *big.Int, frozen map[meter.ResourceKind]*big.Int) error {
	if balance == nil || balance.Sign() < 0 {
		return errors.Errorf("%v: balance must be a non-negative integer", addr)
	}
	if err := st.CreateAccount(addr, launchTime); err != nil {
		return err
	}
	if err := st.SetBalance(addr, balance); err != nil {
		return err
	}

	d, err := st.GetDynamic()
	if err != nil {
		return err
	}
	for kind, amount := range frozen {
		if amount == nil || amount.Sign() == 0 {
			continue
		}
		if amount.Sign() < 0 {
			return errors.Errorf("%v: frozen amount must be a non-negative integer", addr)
		}
		r, err := st.GetResource(addr, kind)
		if err != nil {
			return err
		}
		before := resource.WeightOf(r.Weight())
		r.Frozen = new(big.Int).Add(r.Frozen, amount)
		if err := st.SetResource(addr, kind, r); err != nil {
			return err
		}
		added := resource.WeightOf(r.Weight()) - before
		if kind == meter.Bandwidth {
			d.TotalNetWeight += added
		} else {
			d.TotalEnergyWeight += added
		}
	}
	return st.SetDynamic(d)
}

// initParams stores all parameters, defaults overridden by overrides.
func initParams(st *state.State, overrides map[string]uint64) error {
	v := params.Default()
	for key, val := range overrides {
		if err := v.Set(key, val); err != nil {
			return err
		}
	}
	d, err := st.GetDynamic()
	if err != nil {
		return err
	}
	d.TotalEnergyCurrentLimit = v.TotalEnergyLimit
	if err := st.SetDynamic(d); err != nil {
		return err
	}
	return v.Store(st)
}
