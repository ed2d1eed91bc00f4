// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"

	"github.com/vechain/meter/kv"
	"github.com/vechain/meter/meter"
)

// TxMeta locates a tx on the canonical chain.
type TxMeta struct {
	BlockID meter.Bytes32
	Index   uint64
}

// big endian so that the index iterates in number order
func numberKey(num uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, num)
}

// encode rlp encodes val, snappy compressing the result if asked.
func encode(val any, compress bool) ([]byte, error) {
	data, err := rlp.EncodeToBytes(val)
	if err != nil || !compress {
		return data, err
	}
	return snappy.Encode(nil, data), nil
}

func saveRLP(w kv.Putter, key []byte, val any) error {
	data, err := encode(val, false)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

// saveSnappy stores block bodies, whose txs repeat addresses and results a lot.
func saveSnappy(w kv.Putter, key []byte, val any) error {
	data, err := encode(val, true)
	if err != nil {
		return err
	}
	return w.Put(key, data)
}

func load[T any](r kv.Getter, key []byte, compressed bool) (*T, error) {
	data, err := r.Get(key)
	if err != nil {
		return nil, err
	}
	if compressed {
		if data, err = snappy.Decode(nil, data); err != nil {
			return nil, err
		}
	}
	v := new(T)
	if err := rlp.DecodeBytes(data, v); err != nil {
		return nil, err
	}
	return v, nil
}
