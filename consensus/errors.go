// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDup is returned for a tx already included on the branch.
	ErrDup = errors.New("dup transaction")

	errFutureBlock = errors.New("block in the future")
)

// consensusError means the block can never be accepted.
type consensusError struct {
	msg   string
	cause error
}

func (e *consensusError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *consensusError) Unwrap() error {
	return e.cause
}

func newConsensusError(format string, args ...any) error {
	return &consensusError{msg: fmt.Sprintf(format, args...)}
}

// rejectedTxError means the tx can not be included on top of the current state.
type rejectedTxError struct {
	cause error
}

func (e *rejectedTxError) Error() string {
	return "tx rejected: " + e.cause.Error()
}

func (e *rejectedTxError) Unwrap() error {
	return e.cause
}

func rejectTx(format string, args ...any) error {
	return &rejectedTxError{cause: errors.Errorf(format, args...)}
}

// IsFatalBlock returns whether the error rejects the whole block.
func IsFatalBlock(err error) bool {
	var e *consensusError
	return errors.As(err, &e)
}

// IsRejectedTx returns whether the error rejects a single tx, leaving state untouched.
func IsRejectedTx(err error) bool {
	var e *rejectedTxError
	return errors.As(err, &e)
}

// IsFutureBlock returns whether the block is ahead of local time.
func IsFutureBlock(err error) bool {
	return errors.Is(err, errFutureBlock)
}
