// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import "github.com/pkg/errors"

// Outcomes of Flow.Adopt other than success. The first three leave the tx pending.
var (
	errBlockFull         = errors.New("block full")
	errDeadline          = errors.New("packing deadline reached")
	errTxNotAdoptableNow = errors.New("tx not adoptable now")
	errKnownTx           = errors.New("known tx")
	errBadTx             = errors.New("bad tx")
)

func badTx(reason string) error {
	return errors.WithMessage(errBadTx, reason)
}

func IsBlockFull(err error) bool         { return errors.Is(err, errBlockFull) }
func IsDeadline(err error) bool          { return errors.Is(err, errDeadline) }
func IsTxNotAdoptableNow(err error) bool { return errors.Is(err, errTxNotAdoptableNow) }
func IsKnownTx(err error) bool           { return errors.Is(err, errKnownTx) }

// IsBadTx returns whether the tx can never be packed on this branch.
func IsBadTx(err error) bool { return errors.Is(err, errBadTx) }
