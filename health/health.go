// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package health tells whether the node keeps up with the chain.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/meter"
)

type BlockIngestion struct {
	ID        *meter.Bytes32 `json:"id"`
	Number    uint32         `json:"number"`
	Timestamp *time.Time     `json:"timestamp"`
}

type Status struct {
	Healthy        bool            `json:"healthy"`
	BlockIngestion *BlockIngestion `json:"blockIngestion"`
}

// Health records when the head of the chain last moved.
// The node is healthy while the head moved within timeBetweenBlocks.
type Health struct {
	lock              sync.RWMutex
	newBestBlock      time.Time
	bestBlockID       *meter.Bytes32
	bestBlockNum      uint32
	timeBetweenBlocks time.Duration
}

func New(timeBetweenBlocks time.Duration) *Health {
	return &Health{timeBetweenBlocks: timeBetweenBlocks}
}

func (h *Health) NewBestBlock(header *block.Header) {
	h.lock.Lock()
	defer h.lock.Unlock()

	id := header.ID()
	h.newBestBlock = time.Now()
	h.bestBlockID = &id
	h.bestBlockNum = header.Number()
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	ingestion := &BlockIngestion{
		ID:        h.bestBlockID,
		Number:    h.bestBlockNum,
		Timestamp: &h.newBestBlock,
	}
	return &Status{
		Healthy:        h.bestBlockID != nil && time.Since(h.newBestBlock) <= h.timeBetweenBlocks,
		BlockIngestion: ingestion,
	}
}

// BestBlockSource feeds head changes.
type BestBlockSource interface {
	BestBlock() *block.Header
	SubscribeBestBlock(ch chan *block.Header) event.Subscription
}

// Track records every head change of src until ctx is done.
func (h *Health) Track(ctx context.Context, src BestBlockSource) {
	ch := make(chan *block.Header, 16)
	sub := src.SubscribeBestBlock(ch)
	defer sub.Unsubscribe()

	h.NewBestBlock(src.BestBlock())
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Err():
			return
		case header := <-ch:
			h.NewBestBlock(header)
		}
	}
}
