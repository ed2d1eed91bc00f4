// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/meter/meter"
)

// Transaction is an immutable tx type. Results are the only part that is appended,
// by returning a new Transaction.
type Transaction struct {
	body body

	cache struct {
		id   atomic.Pointer[meter.Bytes32]
		size atomic.Uint64
	}
}

// body describes details of a tx.
type body struct {
	ChainTag   byte
	BlockRef   uint64
	Expiration uint64
	FeeLimit   uint64
	Nonce      uint64
	Action     Action
	Signatures [][]byte
	Results    []ResultCode
}

// ID returns the id of the tx, which is also its signing hash.
// Signatures and results are excluded.
func (t *Transaction) ID() meter.Bytes32 {
	if cached := t.cache.id.Load(); cached != nil {
		return *cached
	}

	id := meter.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			t.body.ChainTag,
			t.body.BlockRef,
			t.body.Expiration,
			t.body.FeeLimit,
			t.body.Nonce,
			&t.body.Action,
		})
	})
	t.cache.id.Store(&id)
	return id
}

// SigningHash returns the hash signers sign.
func (t *Transaction) SigningHash() meter.Bytes32 {
	return t.ID()
}

// ChainTag returns chain tag.
func (t *Transaction) ChainTag() byte {
	return t.body.ChainTag
}

// BlockRef returns block reference, which is the TAPOS anchor of the tx.
func (t *Transaction) BlockRef() (br BlockRef) {
	return NewBlockRefFromUint64(t.body.BlockRef)
}

// Expiration returns the unix time in seconds after which the tx can not be packed.
func (t *Transaction) Expiration() uint64 {
	return t.body.Expiration
}

// IsExpired returns whether the tx is expired at the given block time.
func (t *Transaction) IsExpired(blockTime uint64) bool {
	return t.body.Expiration <= blockTime
}

// FeeLimit returns the max amount the tx may spend on energy.
func (t *Transaction) FeeLimit() uint64 {
	return t.body.FeeLimit
}

// Nonce returns nonce value.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// Action returns the action of the tx.
func (t *Transaction) Action() Action {
	a := t.body.Action
	a.Payload = append([]byte(nil), a.Payload...)
	return a
}

// Owner returns the account declaring the action.
func (t *Transaction) Owner() meter.Address {
	return t.body.Action.Owner
}

// Signatures returns a copy of the signatures.
func (t *Transaction) Signatures() [][]byte {
	sigs := make([][]byte, 0, len(t.body.Signatures))
	for _, sig := range t.body.Signatures {
		sigs = append(sigs, append([]byte(nil), sig...))
	}
	return sigs
}

// Results returns the result codes embedded in the tx.
func (t *Transaction) Results() []ResultCode {
	return append([]ResultCode(nil), t.body.Results...)
}

// Result returns the first embedded result code.
func (t *Transaction) Result() (ResultCode, bool) {
	if len(t.body.Results) == 0 {
		return 0, false
	}
	return t.body.Results[0], true
}

// WithSignatures create a new tx with signatures set.
func (t *Transaction) WithSignatures(sigs ...[]byte) *Transaction {
	newTx := Transaction{body: t.body}
	newTx.body.Signatures = make([][]byte, 0, len(sigs))
	for _, sig := range sigs {
		newTx.body.Signatures = append(newTx.body.Signatures, append([]byte(nil), sig...))
	}
	newTx.body.Results = append([]ResultCode(nil), t.body.Results...)
	return &newTx
}

// WithResult create a new tx with the result code appended.
func (t *Transaction) WithResult(code ResultCode) *Transaction {
	newTx := Transaction{body: t.body}
	newTx.body.Results = append(append([]ResultCode(nil), t.body.Results...), code)
	return &newTx
}

// WithoutResults create a new tx with results cleared.
func (t *Transaction) WithoutResults() *Transaction {
	newTx := Transaction{body: t.body}
	newTx.body.Results = nil
	return &newTx
}

// Size returns the encoded size of the tx, results excluded.
func (t *Transaction) Size() uint64 {
	if cached := t.cache.size.Load(); cached != 0 {
		return cached
	}
	b := t.body
	b.Results = nil
	data, err := rlp.EncodeToBytes(&b)
	if err != nil {
		panic(err)
	}
	size := uint64(len(data))
	t.cache.size.Store(size)
	return size
}

// Signers recovers the addresses of all signatures.
func (t *Transaction) Signers(verifier Verifier) ([]meter.Address, error) {
	if len(t.body.Signatures) == 0 {
		return nil, errors.New("no signature")
	}
	hash := t.SigningHash()
	signers := make([]meter.Address, 0, len(t.body.Signatures))
	for i, sig := range t.body.Signatures {
		signer, err := verifier.Recover(hash, sig)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	t.body = body
	t.cache.id.Store(nil)
	t.cache.size.Store(0)
	return nil
}

func (t *Transaction) String() string {
	return fmt.Sprintf(`
	Tx(%v, %v bytes)
	ChainTag:       %v
	BlockRef:       %v
	Expiration:     %v
	FeeLimit:       %v
	Nonce:          %v
	Action:         %v
	Owner:          %v
	Signatures:     %v
	Results:        %v`, t.ID(), t.Size(), t.body.ChainTag, t.body.BlockRef, t.body.Expiration,
		t.body.FeeLimit, t.body.Nonce, t.body.Action.Kind, t.body.Action.Owner, len(t.body.Signatures), t.body.Results)
}
