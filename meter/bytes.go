// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"encoding"
	"encoding/hex"
	"errors"
	"fmt"
)

// AddressLength is the byte length of an Address.
const AddressLength = 20

type (
	// Address identifies an account.
	Address [AddressLength]byte
	// Bytes32 is a 32 byte hash or id.
	Bytes32 [32]byte
)

var (
	_ encoding.TextMarshaler   = Address{}
	_ encoding.TextUnmarshaler = (*Address)(nil)
	_ encoding.TextMarshaler   = Bytes32{}
	_ encoding.TextUnmarshaler = (*Bytes32)(nil)
)

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }
func (a Address) Bytes() []byte  { return a[:] }
func (a Address) IsZero() bool   { return a == Address{} }

// MarshalText encodes the address as 0x prefixed hex, for both json and yaml.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Address) UnmarshalText(text []byte) error {
	return decodeFixedHex(a[:], string(text))
}

func (b Bytes32) String() string { return "0x" + hex.EncodeToString(b[:]) }
func (b Bytes32) Bytes() []byte  { return b[:] }
func (b Bytes32) IsZero() bool   { return b == Bytes32{} }

// AbbrevString keeps the first and last 4 bytes, for logs.
func (b Bytes32) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", b[:4], b[28:])
}

func (b Bytes32) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Bytes32) UnmarshalText(text []byte) error {
	return decodeFixedHex(b[:], string(text))
}

// ParseAddress parses hex with or without the 0x prefix.
func ParseAddress(s string) (a Address, err error) {
	err = decodeFixedHex(a[:], s)
	return
}

// MustParseAddress is like ParseAddress but panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseBytes32 parses hex with or without the 0x prefix.
func ParseBytes32(s string) (b Bytes32, err error) {
	err = decodeFixedHex(b[:], s)
	return
}

// MustParseBytes32 is like ParseBytes32 but panics on error.
func MustParseBytes32(s string) Bytes32 {
	b, err := ParseBytes32(s)
	if err != nil {
		panic(err)
	}
	return b
}

// BytesToAddress keeps the rightmost bytes of b, left padding with zeros.
func BytesToAddress(b []byte) (a Address) {
	copyRight(a[:], b)
	return
}

// BytesToBytes32 keeps the rightmost bytes of b, left padding with zeros.
func BytesToBytes32(b []byte) (h Bytes32) {
	copyRight(h[:], b)
	return
}

// CreateContractAddress derives the address of a contract created by the given tx.
func CreateContractAddress(txID Bytes32, owner Address) Address {
	return BytesToAddress(Blake2b(txID[:], owner[:]).Bytes()[12:])
}

func copyRight(dst, src []byte) {
	if len(src) > len(dst) {
		src = src[len(src)-len(dst):]
	}
	copy(dst[len(dst)-len(src):], src)
}

// decodeFixedHex fills out with exactly len(out) hex encoded bytes.
func decodeFixedHex(out []byte, s string) error {
	switch len(s) {
	case len(out) * 2:
	case len(out)*2 + 2:
		if s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
			return errors.New("invalid prefix")
		}
		s = s[2:]
	default:
		return errors.New("invalid length")
	}
	_, err := hex.Decode(out, []byte(s))
	return err
}
