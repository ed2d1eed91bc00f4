// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "github.com/vechain/meter/meter"

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// ChainTag set chain tag.
func (b *Builder) ChainTag(tag byte) *Builder {
	b.body.ChainTag = tag
	return b
}

// BlockRef set block reference.
func (b *Builder) BlockRef(br BlockRef) *Builder {
	b.body.BlockRef = br.Uint64()
	return b
}

// Expiration set expiration.
func (b *Builder) Expiration(exp uint64) *Builder {
	b.body.Expiration = exp
	return b
}

// FeeLimit set fee limit.
func (b *Builder) FeeLimit(limit uint64) *Builder {
	b.body.FeeLimit = limit
	return b
}

// Nonce set nonce.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Action set the action.
func (b *Builder) Action(a Action) *Builder {
	b.body.Action = a
	return b
}

// Payload set the action from a typed payload. It panics if the payload can not be encoded.
func (b *Builder) Payload(owner meter.Address, p Payload) *Builder {
	b.body.Action = MustNewAction(owner, p)
	return b
}

// Build builds a tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	tx.body.Action.Payload = append([]byte(nil), b.body.Action.Payload...)
	return &tx
}
