// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket is a key prefix partitioning one store into independent namespaces.
type Bucket string

func (b Bucket) key(k []byte) []byte {
	full := make([]byte, 0, len(b)+len(k))
	return append(append(full, b...), k...)
}

// NewGetter scopes src to the bucket.
func (b Bucket) NewGetter(src Getter) Getter { return &bucketGetter{b, src} }

// NewPutter scopes src to the bucket.
func (b Bucket) NewPutter(src Putter) Putter { return &bucketPutter{b, src} }

// NewStore scopes src to the bucket. Iterated keys come back without the prefix.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucketGetter{b, src}, bucketPutter{b, src}, src}
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.b.key(key)) }
func (g *bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.b.key(key)) }
func (g *bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p *bucketPutter) Put(key, val []byte) error { return p.src.Put(p.b.key(key), val) }
func (p *bucketPutter) Delete(key []byte) error   { return p.src.Delete(p.b.key(key)) }

type bucketBulk struct {
	bucketPutter
	bulk Bulk
}

func (bb *bucketBulk) Len() int     { return bb.bulk.Len() }
func (bb *bucketBulk) Write() error { return bb.bulk.Write() }

type bucketStore struct {
	bucketGetter
	bucketPutter
	src Store
}

func (s *bucketStore) Bulk() Bulk {
	bulk := s.src.Bulk()
	return &bucketBulk{bucketPutter{s.bucketPutter.b, bulk}, bulk}
}

func (s *bucketStore) Iterate(r Range) Iterator {
	b := s.bucketGetter.b
	scoped := Range{Start: b.key(r.Start)}
	if len(r.Limit) == 0 {
		scoped.Limit = PrefixRange([]byte(b)).Limit
	} else {
		scoped.Limit = b.key(r.Limit)
	}
	return &bucketIterator{s.src.Iterate(scoped), len(b)}
}

type bucketIterator struct {
	Iterator
	prefixLen int
}

func (it *bucketIterator) Key() []byte { return it.Iterator.Key()[it.prefixLen:] }
