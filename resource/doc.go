// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package resource meters bandwidth and energy.
//
// Usage of a resource is kept as a window (usage, latest slot) decaying linearly to zero over
// the resource window. An account is entitled to a share of the network limit proportional to
// its frozen weight.
package resource
