// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/vechain/meter/meter"
)

// Verifier recovers the signer of a signature.
type Verifier interface {
	Recover(hash meter.Bytes32, sig []byte) (meter.Address, error)
}

// Secp256k1Verifier recovers secp256k1 signatures in [R || S || V] format.
type Secp256k1Verifier struct{}

// Recover implements Verifier.
func (Secp256k1Verifier) Recover(hash meter.Bytes32, sig []byte) (meter.Address, error) {
	pub, err := crypto.SigToPub(hash[:], sig)
	if err != nil {
		return meter.Address{}, err
	}
	return meter.Address(crypto.PubkeyToAddress(*pub)), nil
}

// Sign returns a copy of trx signed by all keys in order.
func Sign(trx *Transaction, keys ...*ecdsa.PrivateKey) (*Transaction, error) {
	hash := trx.SigningHash()
	sigs := make([][]byte, 0, len(keys))
	for _, key := range keys {
		sig, err := crypto.Sign(hash[:], key)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	return trx.WithSignatures(sigs...), nil
}

// MustSign is like Sign but panics on error.
func MustSign(trx *Transaction, keys ...*ecdsa.PrivateKey) *Transaction {
	signed, err := Sign(trx, keys...)
	if err != nil {
		panic(err)
	}
	return signed
}
