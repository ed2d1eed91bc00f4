// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import "github.com/vechain/meter/meter"

// Session is an overlay of writes on top of its parent.
type Session struct {
	chain  *Chain
	depth  int
	tag    meter.Bytes32
	kvs    map[string]entry
	closed bool
}

// NewChild opens a nested session whose writes are invisible to s until committed.
// It panics if s is not the innermost open session.
func (s *Session) NewChild() *Session {
	s.mustBeInnermost()
	child := &Session{
		chain: s.chain,
		depth: s.depth + 1,
		tag:   s.tag,
		kvs:   make(map[string]entry),
	}
	s.chain.sessions = append(s.chain.sessions, child)
	return child
}

// Tag returns the tag of the root session this session belongs to.
func (s *Session) Tag() meter.Bytes32 {
	return s.tag
}

// Get reads key through this session and everything below it.
// The returned slice must not be modified.
func (s *Session) Get(key []byte) ([]byte, bool, error) {
	if s.closed {
		panic("snapshot: read on closed session")
	}
	k := string(key)
	for i := s.depth; i >= 0; i-- {
		if e, ok := s.chain.sessions[i].kvs[k]; ok {
			if e.deleted {
				return nil, false, nil
			}
			return e.val, true, nil
		}
	}
	return s.chain.Get(key)
}

// Put records the value of key in this session.
func (s *Session) Put(key, val []byte) {
	s.mustBeInnermost()
	s.kvs[string(key)] = entry{val: append([]byte(nil), val...)}
}

// Delete records the deletion of key in this session.
func (s *Session) Delete(key []byte) {
	s.mustBeInnermost()
	s.kvs[string(key)] = entry{deleted: true}
}

// Len returns the count of keys touched by this session.
func (s *Session) Len() int {
	return len(s.kvs)
}

// Commit merges the session into its parent and closes it.
// A root session becomes a retained layer of the chain.
func (s *Session) Commit() error {
	s.mustBeInnermost()
	s.close()

	if s.depth > 0 {
		parent := s.chain.sessions[s.depth-1]
		for k, e := range s.kvs {
			parent.kvs[k] = e
		}
		return nil
	}
	return s.chain.retain(&layer{tag: s.tag, kvs: s.kvs})
}

// Discard drops the session and all its writes. The parent is left untouched.
func (s *Session) Discard() {
	s.mustBeInnermost()
	s.close()
}

func (s *Session) close() {
	s.closed = true
	sessions := s.chain.sessions
	sessions[len(sessions)-1] = nil
	s.chain.sessions = sessions[:len(sessions)-1]
}

func (s *Session) mustBeInnermost() {
	if s.closed {
		panic("snapshot: session already closed")
	}
	if s.depth != len(s.chain.sessions)-1 {
		panic("snapshot: session has open child")
	}
}
