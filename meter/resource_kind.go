// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

// ResourceKind identifies a metered resource.
type ResourceKind uint8

// Metered resources.
const (
	Bandwidth ResourceKind = iota
	Energy
)

func (k ResourceKind) String() string {
	switch k {
	case Bandwidth:
		return "bandwidth"
	case Energy:
		return "energy"
	default:
		return "unknown"
	}
}

// IsValid returns whether k is a known resource.
func (k ResourceKind) IsValid() bool {
	return k <= Energy
}
