// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"errors"

	"github.com/vechain/meter/meter"
)

// MaxPermissionKeys is the max count of keys a permission can hold.
const MaxPermissionKeys = 5

// PermissionKey is a weighted key of a permission.
type PermissionKey struct {
	Address meter.Address
	Weight  uint64
}

// Permission is the weighted multi-key authority over an account.
// The zero value stands for the default permission: the account itself with threshold 1.
type Permission struct {
	Threshold uint64
	Keys      []PermissionKey
}

// DefaultPermission returns the permission held by owner unless updated.
func DefaultPermission(owner meter.Address) Permission {
	return Permission{
		Threshold: 1,
		Keys:      []PermissionKey{{Address: owner, Weight: 1}},
	}
}

// IsZero returns whether the permission is unset.
func (p Permission) IsZero() bool {
	return p.Threshold == 0 && len(p.Keys) == 0
}

// Validate checks the permission is satisfiable and well formed.
func (p Permission) Validate() error {
	if len(p.Keys) == 0 {
		return errors.New("no keys")
	}
	if len(p.Keys) > MaxPermissionKeys {
		return errors.New("too many keys")
	}
	if p.Threshold == 0 {
		return errors.New("zero threshold")
	}
	seen := make(map[meter.Address]bool, len(p.Keys))
	var sum uint64
	for _, k := range p.Keys {
		if k.Weight == 0 {
			return errors.New("zero key weight")
		}
		if seen[k.Address] {
			return errors.New("duplicated key")
		}
		seen[k.Address] = true
		if sum+k.Weight < sum {
			return errors.New("weight overflow")
		}
		sum += k.Weight
	}
	if sum < p.Threshold {
		return errors.New("threshold exceeds sum of weights")
	}
	return nil
}

// Authorized returns whether the distinct signers satisfy the threshold.
func (p Permission) Authorized(signers []meter.Address) bool {
	signed := make(map[meter.Address]bool, len(signers))
	for _, s := range signers {
		signed[s] = true
	}
	var sum uint64
	for _, k := range p.Keys {
		if signed[k.Address] {
			sum += k.Weight
			if sum >= p.Threshold {
				return true
			}
		}
	}
	return false
}
