// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

// Config is the configurable parameters of the ledger. Most of the parameters have default values and
// are 'locked' for production networks. For testing purposes or custom networks, the parameters can be updated.

var (
	blockInterval    uint64 = 3     // 3 seconds
	resourceWindow   uint64 = 28800 // 28800 slots, 1 day
	adaptiveWindow   uint64 = 20    // 20 slots, 1 minute
	confirmDepth     uint32 = 18    // blocks deeper than this below the best block are solid
	executionTimeout uint64 = 80    // 80 milliseconds

	locked bool
)

type Config struct {
	BlockInterval    uint64 `json:"blockInterval" yaml:"blockInterval"`       // time interval between two consecutive blocks.
	ResourceWindow   uint64 `json:"resourceWindow" yaml:"resourceWindow"`     // number of slots for resource usage to fully recover.
	AdaptiveWindow   uint64 `json:"adaptiveWindow" yaml:"adaptiveWindow"`     // number of slots the network average energy usage is taken over.
	ConfirmDepth     uint32 `json:"confirmDepth" yaml:"confirmDepth"`         // blocks after which a block becomes irreversible.
	ExecutionTimeout uint64 `json:"executionTimeout" yaml:"executionTimeout"` // wall clock budget of a contract execution in milliseconds.
}

// SetConfig sets the config.
// If the config is not set, the default values will be used.
// If the config is locked, will panic.
func SetConfig(cfg Config) {
	if locked {
		panic("config is locked, cannot be set")
	}

	if cfg.BlockInterval != 0 {
		blockInterval = cfg.BlockInterval
	}
	if cfg.ResourceWindow != 0 {
		resourceWindow = cfg.ResourceWindow
	}
	if cfg.AdaptiveWindow != 0 {
		adaptiveWindow = cfg.AdaptiveWindow
	}
	if cfg.ConfirmDepth != 0 {
		confirmDepth = cfg.ConfirmDepth
	}
	if cfg.ExecutionTimeout != 0 {
		executionTimeout = cfg.ExecutionTimeout
	}
}

// LockConfig locks the config, preventing any further changes.
// Required for mainnet and testnet.
func LockConfig() {
	locked = true
}

func BlockInterval() uint64 {
	return blockInterval
}

func ResourceWindow() uint64 {
	return resourceWindow
}

func AdaptiveWindow() uint64 {
	return adaptiveWindow
}

func ConfirmDepth() uint32 {
	return confirmDepth
}

func ExecutionTimeout() uint64 {
	return executionTimeout
}

// Slot converts a block timestamp into a resource slot.
func Slot(timestamp uint64) uint64 {
	return timestamp / blockInterval
}
