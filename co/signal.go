// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Waiter provides channel to wait for.
type Waiter interface {
	// C returns a channel that is closed by the next broadcast.
	// A waiter may observe one broadcast twice, so receivers must tolerate spurious wakeups.
	C() <-chan struct{}
}

// Signal is a channel based broadcast point. Unlike sync.Cond, waiting can be combined with select.
// The zero value is ready to use.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

// current returns the channel of the pending broadcast. Must be called with mu held.
func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all waiters.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ch != nil {
		close(s.ch)
		s.ch = nil
	}
}

// NewWaiter creates a Waiter woken by broadcasts after its creation.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &waiter{sig: s, ch: s.current()}
}

type waiter struct {
	sig *Signal
	ch  chan struct{}
}

func (w *waiter) C() <-chan struct{} {
	ch := w.ch

	w.sig.mu.Lock()
	w.ch = w.sig.current()
	w.sig.mu.Unlock()

	return ch
}
