// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/state"
)

const (
	devAccountCount = 5
	devLaunchTime   = 1735689600 // 2025-01-01 00:00:00 UTC
)

// DevAccount is a funded account of the devnet whose key is public knowledge.
type DevAccount struct {
	Address    meter.Address
	PrivateKey *ecdsa.PrivateKey
}

// DevAccounts returns the devnet accounts. Keys are derived from a fixed seed so they are the same on every node.
var DevAccounts = sync.OnceValue(func() []DevAccount {
	accs := make([]DevAccount, 0, devAccountCount)
	for i := range devAccountCount {
		seed := meter.Blake2b([]byte(fmt.Sprintf("meter devnet account #%d", i)))
		key, err := crypto.ToECDSA(seed.Bytes())
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{meter.Address(crypto.PubkeyToAddress(key.PublicKey)), key})
	}
	return accs
})

// NewDevnet returns the genesis of the local development network.
// Every dev account is funded, and part of each balance is frozen for both resources.
func NewDevnet() *Genesis {
	var (
		extra   [28]byte
		unit    = new(big.Int).SetUint64(meter.WeightPrecision)
		balance = new(big.Int).Mul(big.NewInt(1_000_000), unit)
		frozen  = new(big.Int).Mul(big.NewInt(10_000), unit)
	)
	copy(extra[:], "Meter Devnet")

	builder := new(Builder).
		Timestamp(devLaunchTime).
		ExtraData(extra).
		State(func(st *state.State) error {
			if err := initParams(st, nil); err != nil {
				return err
			}
			for _, a := range DevAccounts() {
				stake := map[meter.ResourceKind]*big.Int{meter.Bandwidth: frozen, meter.Energy: frozen}
				if err := alloc(st, devLaunchTime, a.Address, balance, stake); err != nil {
					return err
				}
			}
			return nil
		})

	g, err := newGenesis(builder, "devnet")
	if err != nil {
		panic(err)
	}
	return g
}
