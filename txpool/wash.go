// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/mclock"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/meter"
)

// housekeeping washes the pool on every new head, and every second while it is over limit or dirty.
func (p *TxPool) housekeeping() {
	logger.Debug("enter housekeeping")
	defer logger.Debug("leave housekeeping")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	heads := p.repo.NewTicker()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-heads.C():
			p.washNow("head")
		case <-ticker.C:
			if p.all.Len() > p.options.Limit || p.dirty.Load() > 0 {
				p.washNow("tick")
			}
		}
	}
}

func (p *TxPool) washNow(trigger string) {
	p.dirty.Store(0)

	start := mclock.Now()
	removed := p.wash(p.repo.BestHeader())
	if removed > 0 {
		metricTxPoolGauge().AddWithLabel(-int64(removed), map[string]string{"source": "washed"})
	}
	logger.Trace("wash done",
		"trigger", trigger,
		"len", p.all.Len(),
		"removed", removed,
		"elapsed", common.PrettyDuration(mclock.Now()-start))
}

// washReason tells why obj should leave the pool, or "" to keep it.
func (p *TxPool) washReason(obj *txObject, head *block.Header, now int64) string {
	if obj.IsExpired(head.Timestamp() + meter.BlockInterval()) {
		return "expired"
	}
	if !obj.localSubmitted && now-obj.timeAdded > int64(p.options.MaxLifetime) {
		return "out of lifetime"
	}
	switch _, err := p.repo.GetTxMeta(obj.ID()); {
	case err == nil:
		return "settled"
	case !p.repo.IsNotFound(err):
		logger.Warn("failed to look up tx", "id", obj.ID(), "err", err)
	}
	return ""
}

// wash evicts expired, aged out and settled txs, then the latest added beyond the limit.
// It returns how many were removed.
func (p *TxPool) wash(head *block.Header) int {
	now := time.Now().UnixNano()

	var kept []*txObject
	removed := 0
	for _, obj := range p.all.ToTxObjects() {
		if reason := p.washReason(obj, head, now); reason != "" {
			if p.all.RemoveByID(obj.ID()) {
				removed++
			}
			logger.Trace("tx washed out", "id", obj.ID(), "reason", reason)
			continue
		}
		kept = append(kept, obj)
	}

	if over := len(kept) - p.options.Limit; over > 0 {
		for _, obj := range kept[p.options.Limit:] {
			if p.all.RemoveByID(obj.ID()) {
				removed++
			}
			logger.Debug("tx washed out due to pool limit", "id", obj.ID())
		}
	}
	return removed
}
