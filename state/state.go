// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state provides typed access to the ledger records kept in a snapshot session.
// Records are plain values, persisted only by explicit Set calls.
package state

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/meter/meter"
)

// Store is the overlay the state reads from and writes into.
type Store interface {
	Get(key []byte) ([]byte, bool, error)
	Put(key, val []byte)
	Delete(key []byte)
}

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// State manages the ledger records.
type State struct {
	store Store
}

// New create state object.
func New(store Store) *State {
	return &State{store: store}
}

func (s *State) get(key []byte, v any) (bool, error) {
	data, ok, err := s.store.Get(key)
	if err != nil {
		return false, &Error{err}
	}
	if !ok {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, v); err != nil {
		return false, &Error{fmt.Errorf("decode %x: %w", key, err)}
	}
	return true, nil
}

func (s *State) put(key []byte, v any) error {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		return &Error{err}
	}
	s.store.Put(key, data)
	return nil
}

// GetAccount returns the account at addr and whether it exists.
func (s *State) GetAccount(addr meter.Address) (Account, bool, error) {
	var acc Account
	ok, err := s.get(accountKey(addr), &acc)
	if err != nil {
		return Account{}, false, err
	}
	normalize(&acc.Balance)
	return acc, ok, nil
}

// SetAccount stores the account.
func (s *State) SetAccount(addr meter.Address, acc Account) error {
	normalize(&acc.Balance)
	return s.put(accountKey(addr), &acc)
}

// Exists returns whether an account was created at addr.
func (s *State) Exists(addr meter.Address) (bool, error) {
	_, ok, err := s.store.Get(accountKey(addr))
	if err != nil {
		return false, &Error{err}
	}
	return ok, nil
}

// CreateAccount stores a new empty account created at the given time.
func (s *State) CreateAccount(addr meter.Address, createTime uint64) error {
	return s.SetAccount(addr, Account{CreateTime: createTime})
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr meter.Address) (*big.Int, error) {
	acc, _, err := s.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	return acc.Balance, nil
}

// SetBalance set balance for the given address. The account is created when absent.
func (s *State) SetBalance(addr meter.Address, balance *big.Int) error {
	acc, _, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	acc.Balance = new(big.Int).Set(balance)
	return s.SetAccount(addr, acc)
}

// GetResource returns the resource record of the account.
func (s *State) GetResource(addr meter.Address, kind meter.ResourceKind) (Resource, error) {
	var r Resource
	if _, err := s.get(resourceKey(addr, kind), &r); err != nil {
		return Resource{}, err
	}
	normalize(&r.Frozen, &r.DelegatedOut, &r.Acquired)
	return r, nil
}

// SetResource stores the resource record of the account.
func (s *State) SetResource(addr meter.Address, kind meter.ResourceKind, r Resource) error {
	normalize(&r.Frozen, &r.DelegatedOut, &r.Acquired)
	return s.put(resourceKey(addr, kind), &r)
}

// GetDelegation returns the amount from delegated to to.
func (s *State) GetDelegation(from, to meter.Address, kind meter.ResourceKind) (Delegation, error) {
	var d Delegation
	if _, err := s.get(delegationKey(from, to, kind), &d); err != nil {
		return Delegation{}, err
	}
	normalize(&d.Amount)
	return d, nil
}

// SetDelegation stores the delegation. A zero amount removes it.
func (s *State) SetDelegation(from, to meter.Address, kind meter.ResourceKind, d Delegation) error {
	if d.Amount == nil || d.Amount.Sign() == 0 {
		s.store.Delete(delegationKey(from, to, kind))
		return nil
	}
	return s.put(delegationKey(from, to, kind), &d)
}

// GetDynamic returns the network wide totals.
func (s *State) GetDynamic() (Dynamic, error) {
	var d Dynamic
	if _, err := s.get(dynamicKey, &d); err != nil {
		return Dynamic{}, err
	}
	normalize(&d.Burned)
	return d, nil
}

// SetDynamic stores the network wide totals.
func (s *State) SetDynamic(d Dynamic) error {
	normalize(&d.Burned)
	return s.put(dynamicKey, &d)
}

// Burn removes amount from circulation.
func (s *State) Burn(amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	d, err := s.GetDynamic()
	if err != nil {
		return err
	}
	d.Burned = new(big.Int).Add(d.Burned, amount)
	return s.SetDynamic(d)
}

// GetProducer returns the statistics of the producer.
func (s *State) GetProducer(addr meter.Address) (Producer, error) {
	var p Producer
	if _, err := s.get(producerKey(addr), &p); err != nil {
		return Producer{}, err
	}
	normalize(&p.Fees)
	return p, nil
}

// SetProducer stores the statistics of the producer.
func (s *State) SetProducer(addr meter.Address, p Producer) error {
	normalize(&p.Fees)
	return s.put(producerKey(addr), &p)
}

// GetPool returns the pool with the given id and whether it exists.
func (s *State) GetPool(id meter.Address) (Pool, bool, error) {
	var p Pool
	ok, err := s.get(poolKey(id), &p)
	if err != nil {
		return Pool{}, false, err
	}
	normalize(&p.Balance, &p.Reserve)
	return p, ok, nil
}

// SetPool stores the pool.
func (s *State) SetPool(id meter.Address, p Pool) error {
	normalize(&p.Balance, &p.Reserve)
	return s.put(poolKey(id), &p)
}

// GetContract returns the contract at addr and whether it exists.
func (s *State) GetContract(addr meter.Address) (Contract, bool, error) {
	var c Contract
	ok, err := s.get(contractKey(addr), &c)
	if err != nil {
		return Contract{}, false, err
	}
	return c, ok, nil
}

// SetContract stores the contract.
func (s *State) SetContract(addr meter.Address, c Contract) error {
	return s.put(contractKey(addr), &c)
}

// GetParam returns the value of the on-chain parameter.
func (s *State) GetParam(name string) (uint64, bool, error) {
	var v uint64
	ok, err := s.get(paramKey(name), &v)
	return v, ok, err
}

// SetParam stores the value of the on-chain parameter.
func (s *State) SetParam(name string, v uint64) error {
	return s.put(paramKey(name), v)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr meter.Address, key meter.Bytes32) (meter.Bytes32, error) {
	data, ok, err := s.store.Get(storageKey(addr, key))
	if err != nil {
		return meter.Bytes32{}, &Error{err}
	}
	if !ok {
		return meter.Bytes32{}, nil
	}
	return meter.BytesToBytes32(data), nil
}

// SetStorage set storage value for the given address and key. A zero value removes it.
func (s *State) SetStorage(addr meter.Address, key, value meter.Bytes32) error {
	if value.IsZero() {
		s.store.Delete(storageKey(addr, key))
		return nil
	}
	s.store.Put(storageKey(addr, key), value[:])
	return nil
}
