// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"fmt"
	"math"
	"strings"
)

// ForkConfig holds the minimum block version for each protocol feature.
// Blocks are applied with the rules selected by their header version, so historical
// blocks replay with the rules they were produced under.
type ForkConfig struct {
	MultiSign        uint32 `yaml:"multiSign"`        // multi-signature permissions and the multi-sign surcharge
	AdaptiveEnergy   uint32 `yaml:"adaptiveEnergy"`   // adaptive network energy limit
	DelegateResource uint32 `yaml:"delegateResource"` // resource delegation action
	DirectEnergyFee  uint32 `yaml:"directEnergyFee"`  // energy is billed from balance, skipping entitlement
}

func (fc ForkConfig) String() string {
	var strs []string
	push := func(name string, version uint32) {
		if version != math.MaxUint32 {
			strs = append(strs, fmt.Sprintf("%v: v%v", name, version))
		}
	}

	push("MULTISIGN", fc.MultiSign)
	push("ADAPTIVE", fc.AdaptiveEnergy)
	push("DELEGATE", fc.DelegateResource)
	push("DIRECTFEE", fc.DirectEnergyFee)

	return strings.Join(strs, ", ")
}

// NoFork a special config without any forks.
var NoFork = ForkConfig{
	MultiSign:        math.MaxUint32,
	AdaptiveEnergy:   math.MaxUint32,
	DelegateResource: math.MaxUint32,
	DirectEnergyFee:  math.MaxUint32,
}

// DefaultForkConfig is the version schedule of the main network.
var DefaultForkConfig = ForkConfig{
	MultiSign:        2,
	AdaptiveEnergy:   2,
	DelegateResource: 3,
	DirectEnergyFee:  4,
}

// BlockVersion is the version of blocks produced by this implementation.
const BlockVersion uint32 = 4

// SupportsVersion returns whether blocks of the given version can be applied.
func SupportsVersion(v uint32) bool {
	return v >= 1 && v <= BlockVersion
}
