// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/meter/meter"
	"github.com/vechain/meter/tx"
)

func newTransfer(t *testing.T, owner meter.Address) *tx.Transaction {
	t.Helper()
	return new(tx.Builder).
		ChainTag(1).
		BlockRef(tx.NewBlockRef(10)).
		Expiration(1000).
		FeeLimit(1_000_000).
		Nonce(7).
		Payload(owner, &tx.Transfer{To: meter.BytesToAddress([]byte("to")), Amount: big.NewInt(100)}).
		Build()
}

func TestTransactionID(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	owner := meter.Address(crypto.PubkeyToAddress(key.PublicKey))

	trx := newTransfer(t, owner)
	id := trx.ID()
	size := trx.Size()

	signed := tx.MustSign(trx, key)
	assert.Equal(t, id, signed.ID(), "signatures excluded from id")

	withResult := signed.WithResult(tx.ResultRevert)
	assert.Equal(t, id, withResult.ID(), "results excluded from id")
	assert.Equal(t, signed.Size(), withResult.Size(), "results excluded from size")
	assert.Greater(t, signed.Size(), size)

	code, ok := withResult.Result()
	assert.True(t, ok)
	assert.Equal(t, tx.ResultRevert, code)
	_, ok = signed.Result()
	assert.False(t, ok)
	assert.Empty(t, withResult.WithoutResults().Results())

	other := new(tx.Builder).
		ChainTag(1).
		BlockRef(tx.NewBlockRef(10)).
		Expiration(1000).
		FeeLimit(1_000_000).
		Nonce(8).
		Payload(owner, &tx.Transfer{To: meter.BytesToAddress([]byte("to")), Amount: big.NewInt(100)}).
		Build()
	assert.NotEqual(t, id, other.ID())
}

func TestTransactionRLP(t *testing.T) {
	key, _ := crypto.GenerateKey()
	owner := meter.Address(crypto.PubkeyToAddress(key.PublicKey))
	trx := tx.MustSign(newTransfer(t, owner), key).WithResult(tx.ResultSuccess)

	data, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)

	var decoded tx.Transaction
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, trx.ID(), decoded.ID())
	assert.Equal(t, trx.Signatures(), decoded.Signatures())
	assert.Equal(t, trx.Results(), decoded.Results())
	assert.Equal(t, trx.BlockRef(), decoded.BlockRef())
	assert.Equal(t, uint32(10), decoded.BlockRef().Number())
}

func TestSigners(t *testing.T) {
	key1, _ := crypto.GenerateKey()
	key2, _ := crypto.GenerateKey()
	addr1 := meter.Address(crypto.PubkeyToAddress(key1.PublicKey))
	addr2 := meter.Address(crypto.PubkeyToAddress(key2.PublicKey))

	trx := tx.MustSign(newTransfer(t, addr1), key1, key2)
	signers, err := trx.Signers(tx.Secp256k1Verifier{})
	require.NoError(t, err)
	assert.Equal(t, []meter.Address{addr1, addr2}, signers)

	_, err = newTransfer(t, addr1).Signers(tx.Secp256k1Verifier{})
	assert.Error(t, err)

	_, err = trx.WithSignatures([]byte{1, 2, 3}).Signers(tx.Secp256k1Verifier{})
	assert.Error(t, err)
}

func TestActionDecode(t *testing.T) {
	owner := meter.BytesToAddress([]byte("owner"))
	trx := newTransfer(t, owner)

	action := trx.Action()
	assert.Equal(t, tx.ActionTransfer, action.Kind)
	assert.Equal(t, owner, trx.Owner())
	assert.False(t, action.Kind.RunsVM())

	p, err := action.Decode()
	require.NoError(t, err)
	transfer := p.(*tx.Transfer)
	assert.Equal(t, big.NewInt(100), transfer.Amount)

	_, err = tx.Action{Kind: 99}.Decode()
	assert.Error(t, err)

	_, err = tx.Action{Kind: tx.ActionFreeze, Payload: []byte{0xff}}.Decode()
	assert.Error(t, err)

	call := tx.MustNewAction(owner, &tx.TriggerContract{Contract: owner, Value: big.NewInt(0), Data: []byte{1}})
	assert.True(t, call.Kind.RunsVM())
}

func TestTransactionsRoot(t *testing.T) {
	owner := meter.BytesToAddress([]byte("owner"))
	trx := newTransfer(t, owner)

	assert.Equal(t, tx.EmptyRoot, tx.Transactions{}.RootHash())

	root := tx.Transactions{trx}.RootHash()
	assert.NotEqual(t, tx.EmptyRoot, root)
	assert.NotEqual(t, root, tx.Transactions{trx.WithResult(tx.ResultSuccess)}.RootHash(), "results covered by root")
}

func TestResultCode(t *testing.T) {
	assert.Equal(t, "OUT_OF_TIME", tx.ResultOutOfTime.String())
	assert.True(t, tx.ResultUnknown.IsValid())
	assert.False(t, tx.ResultCode(200).IsValid())
	assert.Equal(t, "RESULT(200)", tx.ResultCode(200).String())
	assert.False(t, tx.ResultSuccess.Failed())
}

func TestReceiptFee(t *testing.T) {
	r := &tx.Receipt{NetFee: big.NewInt(1), EnergyFee: big.NewInt(2)}
	assert.Equal(t, big.NewInt(3), r.Fee())
}
