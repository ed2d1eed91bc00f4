// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv is the storage engine contract the ledger is written against.
package kv

import "github.com/syndtr/goleveldb/leveldb/util"

// Getter reads keys. Get of an absent key fails with an error satisfying IsNotFound.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter writes keys.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk buffers writes until Write applies them in one atomic batch.
type Bulk interface {
	Putter
	Len() int
	Write() error
}

// Iterator walks a Range in ascending key order.
//
//	for it.Next() { ... }
//	it.Release()
//	err := it.Error()
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range is the key interval [Start, Limit). Empty bounds are open.
type Range struct {
	Start []byte
	Limit []byte
}

// PrefixRange covers every key that starts with prefix.
func PrefixRange(prefix []byte) Range {
	r := util.BytesPrefix(prefix)
	return Range{r.Start, r.Limit}
}

// Store is a full storage engine.
type Store interface {
	Getter
	Putter
	Bulk() Bulk
	Iterate(r Range) Iterator
}
