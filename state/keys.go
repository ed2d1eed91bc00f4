// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/meter/meter"

// key prefixes of ledger records.
const (
	accountPrefix    = "a|"
	resourcePrefix   = "r|"
	delegationPrefix = "g|"
	paramPrefix      = "p|"
	producerPrefix   = "w|"
	poolPrefix       = "t|"
	contractPrefix   = "c|"
	storagePrefix    = "s|"
)

var dynamicKey = []byte("d|dynamic")

func makeKey(prefix string, parts ...[]byte) []byte {
	n := len(prefix)
	for _, p := range parts {
		n += len(p)
	}
	key := make([]byte, 0, n)
	key = append(key, prefix...)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

func accountKey(addr meter.Address) []byte {
	return makeKey(accountPrefix, addr[:])
}

func resourceKey(addr meter.Address, kind meter.ResourceKind) []byte {
	return makeKey(resourcePrefix, addr[:], []byte{'|', byte(kind)})
}

func delegationKey(from, to meter.Address, kind meter.ResourceKind) []byte {
	return makeKey(delegationPrefix, from[:], to[:], []byte{byte(kind)})
}

func paramKey(name string) []byte {
	return makeKey(paramPrefix, []byte(name))
}

func producerKey(addr meter.Address) []byte {
	return makeKey(producerPrefix, addr[:])
}

func poolKey(id meter.Address) []byte {
	return makeKey(poolPrefix, id[:])
}

func contractKey(addr meter.Address) []byte {
	return makeKey(contractPrefix, addr[:])
}

func storageKey(addr meter.Address, key meter.Bytes32) []byte {
	return makeKey(storagePrefix, addr[:], key[:])
}
