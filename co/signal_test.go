// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/meter/co"
)

func fired(w co.Waiter) bool {
	select {
	case <-w.C():
		return true
	default:
		return false
	}
}

func TestSignalBroadcastBeforeWaiter(t *testing.T) {
	var sig co.Signal
	sig.Broadcast()

	for range 10 {
		assert.False(t, fired(sig.NewWaiter()))
	}
}

func TestSignalBroadcastAfterWaiter(t *testing.T) {
	var sig co.Signal

	var ws []co.Waiter
	for range 10 {
		ws = append(ws, sig.NewWaiter())
	}
	sig.Broadcast()

	for _, w := range ws {
		<-w.C()
	}
}

func TestSignalWaiterRearms(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()

	assert.False(t, fired(w))
	sig.Broadcast()
	assert.True(t, fired(w))

	// the broadcast may be seen once more, never beyond that
	fired(w)
	assert.False(t, fired(w))

	sig.Broadcast()
	assert.True(t, fired(w))
}
