// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/vechain/meter/resource"
)

var (
	// ErrReceiptMismatch is returned when the locally derived result differs from the embedded one.
	ErrReceiptMismatch = errors.New("receipt mismatch")
	// ErrInsufficientBalance is returned when fees can not be paid.
	ErrInsufficientBalance = resource.ErrInsufficientBalance
	// ErrOwnerNotFound is returned when the declaring account does not exist.
	ErrOwnerNotFound = errors.New("owner account does not exist")

	errBadTraceState = errors.New("bad trace state")
)

// validationError is returned by actuators refusing an action.
type validationError struct {
	msg string
}

func (e *validationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...any) error {
	return &validationError{msg: errors.Errorf(format, args...).Error()}
}

// IsValidationError returns whether the error is an action refused before any change.
func IsValidationError(err error) bool {
	var e *validationError
	return errors.As(err, &e)
}
