// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package txpool keeps pending txs until they are packed or washed out.
package txpool

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/chain"
	"github.com/vechain/meter/co"
	"github.com/vechain/meter/log"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/tx"
)

var logger = log.WithContext("pkg", "txpool")

// Options bounds the pool.
type Options struct {
	Limit           int           // remote txs are refused beyond it, and washed down to it
	LimitPerAccount int           // pending txs per owner
	MaxLifetime     time.Duration // remote txs older than it are washed
}

// DefaultOptions returns the options used by the node.
func DefaultOptions() Options {
	return Options{
		Limit:           10000,
		LimitPerAccount: 128,
		MaxLifetime:     20 * time.Minute,
	}
}

// TxEvent is posted when a tx enters the pool.
type TxEvent struct {
	Tx         *tx.Transaction
	Executable *bool
}

// TxPool holds txs not yet on the canonical chain.
type TxPool struct {
	options  Options
	repo     *chain.Repository
	verifier tx.Verifier
	all      *txObjectMap

	// txs added since the last wash
	dirty atomic.Uint32

	ctx    context.Context
	cancel context.CancelFunc
	feed   event.Feed
	scope  event.SubscriptionScope
	goes   co.Goes
}

// New starts a pool over repo. Close must be called to stop its housekeeping.
func New(repo *chain.Repository, verifier tx.Verifier, options Options) *TxPool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &TxPool{
		options:  options,
		repo:     repo,
		verifier: verifier,
		all:      newTxObjectMap(),
		ctx:      ctx,
		cancel:   cancel,
	}
	p.goes.Go(p.housekeeping)
	return p
}

// Close stops housekeeping and ends all subscriptions.
func (p *TxPool) Close() {
	p.cancel()
	p.scope.Close()
	p.goes.Wait()
	logger.Debug("closed")
}

// SubscribeTxEvent delivers an event for every tx added.
func (p *TxPool) SubscribeTxEvent(ch chan *TxEvent) event.Subscription {
	return p.scope.Track(p.feed.Subscribe(ch))
}

// Add adds a tx received from a peer.
func (p *TxPool) Add(trx *tx.Transaction) error {
	return p.admit(trx, false)
}

// AddLocal adds a tx submitted to this node. Local txs bypass the pool limit and never age out.
func (p *TxPool) AddLocal(trx *tx.Transaction) error {
	return p.admit(trx, true)
}

func (p *TxPool) admit(trx *tx.Transaction, local bool) error {
	source := map[bool]string{true: "local", false: "remote"}[local]

	obj, head, err := p.check(trx, local)
	if err != nil {
		if !IsKnownTx(err) {
			metricBadTxGauge().AddWithLabel(1, map[string]string{"source": source})
		}
		return err
	}

	executable := p.executable(obj, head)
	p.goes.Go(func() {
		p.feed.Send(&TxEvent{Tx: obj.Transaction, Executable: &executable})
	})
	p.dirty.Add(1)
	metricTxPoolGauge().AddWithLabel(1, map[string]string{"source": source})
	logger.Trace("tx added", "id", trx.ID(), "executable", executable)
	return nil
}

// check validates trx against the current head and stores it.
func (p *TxPool) check(trx *tx.Transaction, local bool) (*txObject, *block.Header, error) {
	if p.all.Contains(trx.ID()) {
		return nil, nil, errKnownTx
	}
	head := p.repo.BestHeader()
	if err := p.validate(trx, head); err != nil {
		return nil, nil, err
	}
	obj, err := resolveTx(trx, p.verifier, local)
	if err != nil {
		if IsBadTx(err) {
			return nil, nil, err
		}
		return nil, nil, badTx("%v", err)
	}
	if !local && p.all.Len() >= p.options.Limit {
		return nil, nil, rejectTx("pool is full")
	}
	if err := p.all.Add(obj, p.options.LimitPerAccount); err != nil {
		if IsKnownTx(err) {
			return nil, nil, err
		}
		return nil, nil, rejectTx("%v", err)
	}
	return obj, head, nil
}

// validate runs the checks that need no state.
func (p *TxPool) validate(trx *tx.Transaction, head *block.Header) error {
	maxExpiration := head.Timestamp() + meter.BlockInterval() + meter.MaxTxExpiration
	switch {
	case trx.ChainTag() != p.repo.ChainTag():
		return badTx("chain tag mismatch")
	case trx.Size() > meter.MaxTxSize:
		return rejectTx("size too large")
	case trx.IsExpired(head.Timestamp()):
		return badTx("expired")
	case trx.Expiration() > maxExpiration:
		return badTx("expiration too far")
	}
	if _, err := trx.Action().Decode(); err != nil {
		return badTx("%v", err)
	}
	return nil
}

// Get returns the pooled tx with the id, or nil.
func (p *TxPool) Get(id meter.Bytes32) *tx.Transaction {
	if obj := p.all.GetByID(id); obj != nil {
		return obj.Transaction
	}
	return nil
}

// Remove drops a tx, returning whether it was pooled.
func (p *TxPool) Remove(id meter.Bytes32) bool {
	if !p.all.RemoveByID(id) {
		return false
	}
	metricTxPoolGauge().AddWithLabel(-1, map[string]string{"source": "n/a"})
	logger.Debug("tx removed", "id", id)
	return true
}

// Executables returns txs that can be packed on top of the current head, in the order they were added.
func (p *TxPool) Executables() tx.Transactions {
	head := p.repo.BestHeader()
	var txs tx.Transactions
	for _, obj := range p.all.ToTxObjects() {
		if p.executable(obj, head) {
			txs = append(txs, obj.Transaction)
		}
	}
	return txs
}

// executable reports whether the next block on head may include the tx.
func (p *TxPool) executable(obj *txObject, head *block.Header) bool {
	if obj.BlockRef().Number() > head.Number() {
		return false
	}
	return !obj.IsExpired(head.Timestamp() + meter.BlockInterval())
}

// Fill puts back txs of an abandoned branch. Limits are not applied and invalid txs are dropped silently.
func (p *TxPool) Fill(txs tx.Transactions) {
	for _, trx := range txs {
		obj, err := resolveTx(trx, p.verifier, false)
		if err != nil {
			continue
		}
		_ = p.all.Add(obj, 0)
	}
}

// Dump returns every pooled tx.
func (p *TxPool) Dump() tx.Transactions {
	return p.all.ToTxs()
}

// Len returns the count of pooled txs.
func (p *TxPool) Len() int {
	return p.all.Len()
}
