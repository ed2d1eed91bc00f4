// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/vechain/meter/block"
	"github.com/vechain/meter/cache"
	"github.com/vechain/meter/co"
	"github.com/vechain/meter/kv"
	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/tx"
)

const (
	hdrStoreName     = "chain.hdr"   // for block headers
	bodyStoreName    = "chain.body"  // for block bodies
	rcptStoreName    = "chain.rcpt"  // for receipts
	idxStoreName     = "chain.idx"   // for canonical block ids by number
	txIndexStoreName = "chain.txi"   // for canonical tx metadata
	propStoreName    = "chain.props" // for property-named blocks such as best block
)

var (
	errNotFound    = errors.New("not found")
	bestBlockIDKey = []byte("best-block-id")
)

// Repository stores every block ever applied, with receipts, and indexes the canonical chain.
// The canonical chain is the branch ending at the best block.
//
// It's thread-safe.
type Repository struct {
	db        kv.Store
	hdrStore  kv.Store
	bodyStore kv.Store
	rcptStore kv.Store
	idxStore  kv.Store
	txIndexer kv.Store
	propStore kv.Store

	genesis *block.Block
	tag     byte

	best atomic.Pointer[block.Header]
	tick co.Signal

	caches struct {
		headers  *cache.LRU[meter.Bytes32, *block.Header]
		bodies   *cache.LRU[meter.Bytes32, tx.Transactions]
		receipts *cache.LRU[meter.Bytes32, tx.Receipts]
	}
}

// NewRepository create an instance of repository.
func NewRepository(db kv.Store, genesis *block.Block) (*Repository, error) {
	if genesis.Header().Number() != 0 {
		return nil, errors.New("genesis number != 0")
	}
	if len(genesis.Transactions()) != 0 {
		return nil, errors.New("genesis block should not have transactions")
	}

	genesisID := genesis.ID()
	repo := &Repository{
		db:        db,
		hdrStore:  kv.Bucket(hdrStoreName).NewStore(db),
		bodyStore: kv.Bucket(bodyStoreName).NewStore(db),
		rcptStore: kv.Bucket(rcptStoreName).NewStore(db),
		idxStore:  kv.Bucket(idxStoreName).NewStore(db),
		txIndexer: kv.Bucket(txIndexStoreName).NewStore(db),
		propStore: kv.Bucket(propStoreName).NewStore(db),
		genesis:   genesis,
		tag:       genesisID[31],
	}
	repo.caches.headers = cache.MustNewLRU[meter.Bytes32, *block.Header](1024)
	repo.caches.bodies = cache.MustNewLRU[meter.Bytes32, tx.Transactions](256)
	repo.caches.receipts = cache.MustNewLRU[meter.Bytes32, tx.Receipts](256)

	if val, err := repo.propStore.Get(bestBlockIDKey); err != nil {
		if !repo.propStore.IsNotFound(err) {
			return nil, err
		}
		if err := repo.AddBlock(genesis, nil); err != nil {
			return nil, err
		}
		if err := repo.SetBestBlockID(genesisID); err != nil {
			return nil, err
		}
	} else {
		existingGenesisID, err := repo.GetCanonicalID(0)
		if err != nil {
			return nil, errors.Wrap(err, "get existing genesis id")
		}
		if existingGenesisID != genesisID {
			return nil, errors.New("genesis mismatch")
		}
		best, err := repo.GetHeader(meter.BytesToBytes32(val))
		if err != nil {
			return nil, errors.Wrap(err, "get best block")
		}
		repo.best.Store(best)
	}
	return repo, nil
}

// ChainTag returns chain tag, which is the last byte of genesis id.
func (r *Repository) ChainTag() byte {
	return r.tag
}

// GenesisBlock returns genesis block.
func (r *Repository) GenesisBlock() *block.Block {
	return r.genesis
}

// BestHeader returns the header of the best block, the head of the canonical chain.
func (r *Repository) BestHeader() *block.Header {
	if h := r.best.Load(); h != nil {
		return h
	}
	return r.genesis.Header()
}

// NewTicker create a signal Waiter to receive event that the best block changed.
func (r *Repository) NewTicker() co.Waiter {
	return r.tick.NewWaiter()
}

// IsNotFound returns if an error means not found.
func (r *Repository) IsNotFound(err error) bool {
	return errors.Is(err, errNotFound) || r.db.IsNotFound(err)
}

// AddBlock stores a block with its receipts. The canonical chain is unchanged.
func (r *Repository) AddBlock(blk *block.Block, receipts tx.Receipts) error {
	header := blk.Header()
	id := header.ID()
	if header.Number() > 0 {
		if ok, err := r.HasBlock(header.ParentID()); err != nil {
			return err
		} else if !ok {
			return errors.New("parent missing")
		}
	}

	bulk := r.db.Bulk()
	txs := blk.Transactions()
	if err := saveRLP(kv.Bucket(hdrStoreName).NewPutter(bulk), id[:], header); err != nil {
		return err
	}
	if err := saveSnappy(kv.Bucket(bodyStoreName).NewPutter(bulk), id[:], txs); err != nil {
		return err
	}
	if err := saveRLP(kv.Bucket(rcptStoreName).NewPutter(bulk), id[:], receipts); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return err
	}
	r.caches.headers.Add(id, header)
	r.caches.bodies.Add(id, txs)
	r.caches.receipts.Add(id, receipts)
	metricBlockCount().AddWithLabel(1, map[string]string{"type": "write"})
	return nil
}

// HasBlock returns whether the block is stored.
func (r *Repository) HasBlock(id meter.Bytes32) (bool, error) {
	if r.caches.headers.Contains(id) {
		return true, nil
	}
	return r.hdrStore.Has(id[:])
}

// GetHeader get block header by id.
func (r *Repository) GetHeader(id meter.Bytes32) (*block.Header, error) {
	h, err := r.caches.headers.GetOrLoad(id, func() (*block.Header, error) {
		return load[block.Header](r.hdrStore, id[:], false)
	})
	r.caches.headers.Stats().Report("header", metricCacheHitMiss())
	if err != nil {
		return nil, err
	}
	return h, nil
}

// GetBlock get block by id.
func (r *Repository) GetBlock(id meter.Bytes32) (*block.Block, error) {
	header, err := r.GetHeader(id)
	if err != nil {
		return nil, err
	}
	txs, err := r.caches.bodies.GetOrLoad(id, func() (tx.Transactions, error) {
		txs, err := load[tx.Transactions](r.bodyStore, id[:], true)
		if err != nil {
			return nil, err
		}
		return *txs, nil
	})
	r.caches.bodies.Stats().Report("body", metricCacheHitMiss())
	if err != nil {
		return nil, err
	}
	metricBlockCount().AddWithLabel(1, map[string]string{"type": "read"})
	return block.Compose(header, txs), nil
}

// GetReceipts get all tx receipts of the block.
func (r *Repository) GetReceipts(id meter.Bytes32) (tx.Receipts, error) {
	receipts, err := r.caches.receipts.GetOrLoad(id, func() (tx.Receipts, error) {
		receipts, err := load[tx.Receipts](r.rcptStore, id[:], false)
		if err != nil {
			return nil, err
		}
		return *receipts, nil
	})
	r.caches.receipts.Stats().Report("receipts", metricCacheHitMiss())
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// GetCanonicalID returns the id of the canonical block at num.
func (r *Repository) GetCanonicalID(num uint32) (meter.Bytes32, error) {
	if num > r.BestHeader().Number() {
		return meter.Bytes32{}, errNotFound
	}
	val, err := r.idxStore.Get(numberKey(num))
	if err != nil {
		return meter.Bytes32{}, err
	}
	return meter.BytesToBytes32(val), nil
}

// IsCanonical returns whether the block is on the canonical chain.
func (r *Repository) IsCanonical(id meter.Bytes32) (bool, error) {
	canonical, err := r.GetCanonicalID(block.Number(id))
	if err != nil {
		if r.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return canonical == id, nil
}

// AncestorID returns the id of the ancestor at num of the block, which may be the block itself.
func (r *Repository) AncestorID(id meter.Bytes32, num uint32) (meter.Bytes32, error) {
	if num > block.Number(id) {
		return meter.Bytes32{}, errNotFound
	}
	for block.Number(id) > num {
		ok, err := r.IsCanonical(id)
		if err != nil {
			return meter.Bytes32{}, err
		}
		if ok {
			return r.GetCanonicalID(num)
		}
		header, err := r.GetHeader(id)
		if err != nil {
			return meter.Bytes32{}, err
		}
		id = header.ParentID()
	}
	return id, nil
}

// GetTxMeta returns where the tx is on the canonical chain.
func (r *Repository) GetTxMeta(txID meter.Bytes32) (*TxMeta, error) {
	return load[TxMeta](r.txIndexer, txID[:], false)
}

// SetBestBlockID makes the block the head of the canonical chain.
// Canonical indexes of the abandoned branch are removed and those of the new one written
// in one batch.
func (r *Repository) SetBestBlockID(id meter.Bytes32) error {
	newBest, err := r.GetHeader(id)
	if err != nil {
		return err
	}
	oldBest := r.best.Load()

	// walk back until the canonical chain is met
	var branch []*block.Header
	cur := newBest
	for oldBest != nil {
		if ok, err := r.IsCanonical(cur.ID()); err != nil {
			return err
		} else if ok {
			break
		}
		branch = append(branch, cur)
		if cur, err = r.GetHeader(cur.ParentID()); err != nil {
			return err
		}
	}
	if oldBest == nil {
		branch = []*block.Header{newBest}
	}

	var (
		bulk       = r.db.Bulk()
		idxPutter  = kv.Bucket(idxStoreName).NewPutter(bulk)
		txiPutter  = kv.Bucket(txIndexStoreName).NewPutter(bulk)
		propPutter = kv.Bucket(propStoreName).NewPutter(bulk)
	)

	if oldBest != nil {
		for n := oldBest.Number(); n > cur.Number(); n-- {
			oldID, err := r.GetCanonicalID(n)
			if err != nil {
				return err
			}
			blk, err := r.GetBlock(oldID)
			if err != nil {
				return err
			}
			for _, trx := range blk.Transactions() {
				txID := trx.ID()
				if err := txiPutter.Delete(txID[:]); err != nil {
					return err
				}
			}
			if err := idxPutter.Delete(numberKey(n)); err != nil {
				return err
			}
		}
		if depth := oldBest.Number() - cur.Number(); depth > 0 && len(branch) > 0 {
			metricReorgDepth().Observe(int64(depth))
		}
	}

	for i := len(branch) - 1; i >= 0; i-- {
		h := branch[i]
		hid := h.ID()
		if err := idxPutter.Put(numberKey(h.Number()), hid[:]); err != nil {
			return err
		}
		blk, err := r.GetBlock(hid)
		if err != nil {
			return err
		}
		for j, trx := range blk.Transactions() {
			txID := trx.ID()
			if err := saveRLP(txiPutter, txID[:], &TxMeta{BlockID: hid, Index: uint64(j)}); err != nil {
				return err
			}
		}
	}
	if err := propPutter.Put(bestBlockIDKey, id[:]); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return err
	}
	r.best.Store(newBest)
	r.tick.Broadcast()
	return nil
}
