// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package snapshot implements the revoking store: a stack of in-memory overlays in front of a
// durable kv store.
//
// Sessions are opened on top of the committed state and may be nested. A session records writes
// only into itself; reads fall through the enclosing sessions, the retained layers and finally the
// durable store. Committing a nested session merges it into its parent, committing a root session
// turns it into a retained layer that can later be popped. Retained layers beyond the configured
// bound are flushed irreversibly into the durable store.
package snapshot
