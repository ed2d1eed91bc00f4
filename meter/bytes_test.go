// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("meter"))

	parsed, err := ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	_, err = ParseBytes32("0x1234")
	assert.EqualError(t, err, "invalid length")

	_, err = ParseBytes32("zz" + b.String()[2:])
	assert.EqualError(t, err, "invalid prefix")
}

func TestBytes32JSON(t *testing.T) {
	type doc struct {
		ID   Bytes32  `json:"id"`
		Ref  *Bytes32 `json:"ref"`
		Addr Address  `json:"addr"`
	}
	id := Blake2b([]byte("a"), []byte("b"))
	in := doc{ID: id, Ref: &id, Addr: BytesToAddress([]byte("x"))}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"`+id.String()+`"`)

	var out doc
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
	assert.False(t, out.ID.IsZero())
}

func TestBytesToFixed(t *testing.T) {
	assert.Equal(t, Address{18: 0xab, 19: 0xcd}, BytesToAddress([]byte{0xab, 0xcd}))

	long := make([]byte, 40)
	long[39] = 1
	assert.Equal(t, Bytes32{31: 1}, BytesToBytes32(long))
}

func TestParseAddress(t *testing.T) {
	addr := BytesToAddress([]byte("addr"))
	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)

	_, err = ParseAddress("0x00")
	assert.Error(t, err)
}

func TestBlake2bMultiPart(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("ab")), Blake2b([]byte("a"), []byte("b")))
}
