// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/params"
	"github.com/vechain/meter/runtime"
	"github.com/vechain/meter/snapshot"
	"github.com/vechain/meter/state"
	"github.com/vechain/meter/tx"
	"github.com/vechain/meter/vm"
)

// Applier applies txs one by one on top of a parent block.
// Each tx runs in a child session of the block session, committed only when the tx is accepted.
type Applier struct {
	c      *Consensus
	sess   *snapshot.Session
	st     *state.State
	parent *block.Header
	blk    vm.BlockContext
	params params.Values
	rt     *runtime.Runtime

	processed   map[meter.Bytes32]struct{}
	txs         tx.Transactions
	receipts    tx.Receipts
	size        uint64
	netUsage    uint64
	energyUsage uint64
	fees        *big.Int
}

// NewApplier creates an applier for a block with context blk on sess, which holds the state of parent.
func (c *Consensus) NewApplier(sess *snapshot.Session, parent *block.Header, blk vm.BlockContext) (*Applier, error) {
	st := state.New(sess)
	p, err := params.Load(st)
	if err != nil {
		return nil, err
	}
	a := &Applier{
		c:         c,
		sess:      sess,
		st:        st,
		parent:    parent,
		blk:       blk,
		params:    p,
		processed: make(map[meter.Bytes32]struct{}),
		fees:      new(big.Int),
	}
	a.rt = runtime.New(&a.params, c.fork, c.executor, blk)
	return a, nil
}

// Size returns the total size of applied txs.
func (a *Applier) Size() uint64 {
	return a.size
}

// Transactions returns the applied txs carrying their results.
func (a *Applier) Transactions() tx.Transactions {
	return append(tx.Transactions(nil), a.txs...)
}

// Apply checks and executes trx. expected is the result embedded in a received block,
// nil when producing. A rejected tx leaves the state untouched.
func (a *Applier) Apply(ctx context.Context, trx *tx.Transaction, signers []meter.Address, expected *tx.ResultCode) (*tx.Receipt, error) {
	if err := a.checkTx(trx, signers); err != nil {
		metricTxApplied().AddWithLabel(1, map[string]string{"status": "rejected"})
		return nil, err
	}

	child := a.sess.NewChild()
	receipt, err := a.rt.ExecuteTransaction(ctx, child, trx, expected)
	if err != nil {
		child.Discard()
		var stateErr *state.Error
		if errors.As(err, &stateErr) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		metricTxApplied().AddWithLabel(1, map[string]string{"status": "rejected"})
		return nil, &rejectedTxError{cause: err}
	}
	if err := child.Commit(); err != nil {
		return nil, err
	}

	id := trx.ID()
	a.processed[id] = struct{}{}
	a.txs = append(a.txs, trx.WithoutResults().WithResult(receipt.Result))
	a.receipts = append(a.receipts, receipt)
	a.size += trx.Size()
	a.netUsage += receipt.NetUsage
	a.energyUsage += receipt.EnergyUsageTotal
	a.fees.Add(a.fees, receipt.Fee())
	metricTxApplied().AddWithLabel(1, map[string]string{"status": "applied"})
	return receipt, nil
}

// checkTx runs the checks that do not change state.
func (a *Applier) checkTx(trx *tx.Transaction, signers []meter.Address) error {
	id := trx.ID()
	if tag := a.c.repo.ChainTag(); trx.ChainTag() != tag {
		return rejectTx("chain tag mismatch: want %v, have %v", tag, trx.ChainTag())
	}

	if dup, err := a.isDup(id); err != nil {
		return err
	} else if dup {
		return &rejectedTxError{cause: ErrDup}
	}

	ref := trx.BlockRef()
	switch {
	case ref.Number() > a.parent.Number():
		return rejectTx("ref future block: ref %v, parent %v", ref.Number(), a.parent.Number())
	case a.parent.Number()-ref.Number() >= meter.TaposWindow:
		return rejectTx("ref too old: ref %v, parent %v", ref.Number(), a.parent.Number())
	}
	refID, err := a.c.repo.AncestorID(a.parent.ID(), ref.Number())
	if err != nil {
		return err
	}
	if !ref.Matches(refID) {
		return rejectTx("ref mismatch: ref %v, block %v", ref, refID)
	}

	switch {
	case trx.IsExpired(a.blk.Time):
		return rejectTx("expired: expiration %v, block time %v", trx.Expiration(), a.blk.Time)
	case trx.Expiration() > a.blk.Time+meter.MaxTxExpiration:
		return rejectTx("expiration too far: expiration %v, block time %v", trx.Expiration(), a.blk.Time)
	case trx.Size() > meter.MaxTxSize:
		return rejectTx("size exceeds limit: %v", trx.Size())
	case trx.FeeLimit() > a.params.MaxFeeLimit:
		return rejectTx("fee limit exceeds %v", a.params.MaxFeeLimit)
	}

	return a.checkPermission(trx, signers)
}

func (a *Applier) checkPermission(trx *tx.Transaction, signers []meter.Address) error {
	owner := trx.Owner()
	acc, ok, err := a.st.GetAccount(owner)
	if err != nil {
		return err
	}
	if !ok {
		return &rejectedTxError{cause: errors.WithMessagef(runtime.ErrOwnerNotFound, "%v", owner)}
	}
	if a.blk.Version < a.c.fork.MultiSign {
		if len(signers) != 1 || signers[0] != owner {
			return rejectTx("signer is not the owner")
		}
		return nil
	}
	if !acc.OwnerPermission(owner).Authorized(signers) {
		return rejectTx("permission threshold not reached")
	}
	return nil
}

// isDup returns whether the tx is in this block or on the branch ending at parent.
func (a *Applier) isDup(id meter.Bytes32) (bool, error) {
	if _, ok := a.processed[id]; ok {
		return true, nil
	}
	if v, ok := a.c.recent.Get(id); ok {
		onBranch, err := a.onBranch(v)
		if err != nil || onBranch {
			return onBranch, err
		}
	}
	meta, err := a.c.repo.GetTxMeta(id)
	if err != nil {
		if a.c.repo.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return a.onBranch(meta.BlockID)
}

func (a *Applier) onBranch(blockID meter.Bytes32) (bool, error) {
	num := block.Number(blockID)
	if num > a.parent.Number() {
		return false, nil
	}
	id, err := a.c.repo.AncestorID(a.parent.ID(), num)
	if err != nil {
		return false, err
	}
	return id == blockID, nil
}

// Finish applies the block level updates after all txs, and returns the receipts.
func (a *Applier) Finish() (tx.Receipts, error) {
	d, err := a.st.GetDynamic()
	if err != nil {
		return nil, err
	}
	d.BlockNetUsage = a.netUsage
	d.BlockEnergyUsage = a.energyUsage
	if err := a.st.SetDynamic(d); err != nil {
		return nil, err
	}

	if a.blk.Version >= a.c.fork.AdaptiveEnergy {
		if err := a.rt.Energy().UpdateAdaptiveLimit(a.st, a.energyUsage, meter.Slot(a.blk.Time)); err != nil {
			return nil, err
		}
	}

	p, err := a.st.GetProducer(a.blk.Producer)
	if err != nil {
		return nil, err
	}
	p.Blocks++
	p.LatestNumber = a.blk.Number
	p.Fees = new(big.Int).Add(p.Fees, a.fees)
	if err := a.st.SetProducer(a.blk.Producer, p); err != nil {
		return nil, err
	}
	return append(tx.Receipts(nil), a.receipts...), nil
}
