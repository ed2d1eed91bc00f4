// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"cmp"
	"errors"
	"slices"
	"sync"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/tx"
)

var errQuotaExceeded = errors.New("account quota exceeded")

// txObjectMap indexes pooled txs by id and counts them per owner.
type txObjectMap struct {
	lock  sync.RWMutex
	byID  map[meter.Bytes32]*txObject
	owned map[meter.Address]int
	seq   uint64 // order of insertion
}

func newTxObjectMap() *txObjectMap {
	return &txObjectMap{
		byID:  make(map[meter.Bytes32]*txObject),
		owned: make(map[meter.Address]int),
	}
}

func (m *txObjectMap) Contains(id meter.Bytes32) bool {
	return m.GetByID(id) != nil
}

// Add stores obj unless it is known, or its owner already has limitPerAccount txs. A limit of 0 is unlimited.
func (m *txObjectMap) Add(obj *txObject, limitPerAccount int) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	id, owner := obj.ID(), obj.Owner()
	if _, known := m.byID[id]; known {
		return errKnownTx
	}
	if limitPerAccount > 0 && m.owned[owner] >= limitPerAccount {
		return errQuotaExceeded
	}
	m.seq++
	obj.seq = m.seq
	m.byID[id] = obj
	m.owned[owner]++
	return nil
}

func (m *txObjectMap) GetByID(id meter.Bytes32) *txObject {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.byID[id]
}

func (m *txObjectMap) RemoveByID(id meter.Bytes32) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	obj, ok := m.byID[id]
	if !ok {
		return false
	}
	delete(m.byID, id)
	owner := obj.Owner()
	if m.owned[owner]--; m.owned[owner] <= 0 {
		delete(m.owned, owner)
	}
	return true
}

// ToTxObjects returns all objects in the order they were added.
func (m *txObjectMap) ToTxObjects() []*txObject {
	m.lock.RLock()
	objs := make([]*txObject, 0, len(m.byID))
	for _, obj := range m.byID {
		objs = append(objs, obj)
	}
	m.lock.RUnlock()

	slices.SortFunc(objs, func(a, b *txObject) int { return cmp.Compare(a.seq, b.seq) })
	return objs
}

func (m *txObjectMap) ToTxs() tx.Transactions {
	objs := m.ToTxObjects()
	txs := make(tx.Transactions, len(objs))
	for i, obj := range objs {
		txs[i] = obj.Transaction
	}
	return txs
}

func (m *txObjectMap) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.byID)
}
