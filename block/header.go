// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/meter/meter"
)

// Header is the immutable part of a block that commits to its txs.
type Header struct {
	body headerBody

	cache struct {
		signingHash atomic.Pointer[meter.Bytes32]
		signer      atomic.Pointer[meter.Address]
		id          atomic.Pointer[meter.Bytes32]
	}
}

// headerBody is the rlp layout of a header. The number is not stored, it follows from ParentID.
type headerBody struct {
	ParentID  meter.Bytes32
	Timestamp uint64
	Version   uint32
	Producer  meter.Address
	TxsRoot   meter.Bytes32

	Signature []byte
}

// memo returns the value cached in p, computing and storing it on the first call.
func memo[T any](p *atomic.Pointer[T], compute func() T) T {
	if v := p.Load(); v != nil {
		return *v
	}
	v := compute()
	p.Store(&v)
	return v
}

func (h *Header) ParentID() meter.Bytes32 { return h.body.ParentID }
func (h *Header) Number() uint32          { return Number(h.body.ParentID) + 1 }
func (h *Header) Timestamp() uint64       { return h.body.Timestamp }
func (h *Header) Version() uint32         { return h.body.Version }
func (h *Header) Producer() meter.Address { return h.body.Producer }
func (h *Header) TxsRoot() meter.Bytes32  { return h.body.TxsRoot }

// Signature returns a copy of the producer signature.
func (h *Header) Signature() []byte {
	return append([]byte(nil), h.body.Signature...)
}

// ID is the block number in 4 big endian bytes followed by the last 28 bytes of the header hash.
func (h *Header) ID() meter.Bytes32 {
	return memo(&h.cache.id, func() meter.Bytes32 {
		id := meter.Blake2bFn(func(w io.Writer) { rlp.Encode(w, &h.body) })
		binary.BigEndian.PutUint32(id[:4], h.Number())
		return id
	})
}

// SigningHash hashes every field but the signature.
func (h *Header) SigningHash() meter.Bytes32 {
	return memo(&h.cache.signingHash, func() meter.Bytes32 {
		b := &h.body
		return meter.Blake2bFn(func(w io.Writer) {
			rlp.Encode(w, []any{b.ParentID, b.Timestamp, b.Version, b.Producer, b.TxsRoot})
		})
	})
}

func (h *Header) withSignature(sig []byte) *Header {
	signed := &Header{body: h.body}
	signed.body.Signature = append([]byte(nil), sig...)
	return signed
}

// Signer recovers the address that signed the header. Genesis is signed by nobody.
func (h *Header) Signer() (meter.Address, error) {
	if h.Number() == 0 {
		return meter.Address{}, nil
	}
	if cached := h.cache.signer.Load(); cached != nil {
		return *cached, nil
	}
	pub, err := crypto.SigToPub(h.SigningHash().Bytes(), h.body.Signature)
	if err != nil {
		return meter.Address{}, err
	}
	signer := meter.Address(crypto.PubkeyToAddress(*pub))
	h.cache.signer.Store(&signer)
	return signer, nil
}

// EncodeRLP implements rlp.Encoder.
func (h *Header) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &h.body)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var body headerBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*h = Header{body: body}
	return nil
}

func (h *Header) String() string {
	signer := "N/A"
	if addr, err := h.Signer(); err == nil {
		signer = addr.String()
	}
	return fmt.Sprintf("Header(%v): number %v parent %v time %v version %v producer %v signer %v txs %v sig 0x%x",
		h.ID(), h.Number(), h.body.ParentID, h.body.Timestamp, h.body.Version,
		h.body.Producer, signer, h.body.TxsRoot, h.body.Signature)
}

// Number extracts the block number from an id.
func Number(id meter.Bytes32) uint32 {
	return binary.BigEndian.Uint32(id[:4])
}
