// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"fmt"

	"github.com/pkg/errors"
)

var errKnownTx = errors.New("known transaction")

// refusal is why the pool turned a tx away.
type refusal struct {
	invalid bool // false when the tx may be accepted later
	reason  string
}

func (r *refusal) Error() string {
	if r.invalid {
		return "bad tx: " + r.reason
	}
	return "tx rejected: " + r.reason
}

func badTx(format string, args ...any) error {
	return &refusal{invalid: true, reason: fmt.Sprintf(format, args...)}
}

func rejectTx(format string, args ...any) error {
	return &refusal{reason: fmt.Sprintf(format, args...)}
}

func asRefusal(err error) (*refusal, bool) {
	var r *refusal
	ok := errors.As(err, &r)
	return r, ok
}

// IsBadTx returns whether the tx is invalid.
func IsBadTx(err error) bool {
	r, ok := asRefusal(err)
	return ok && r.invalid
}

// IsTxRejected returns whether the tx is rejected by the pool for now.
func IsTxRejected(err error) bool {
	r, ok := asRefusal(err)
	return ok && !r.invalid
}

// IsKnownTx returns whether the tx is already in the pool.
func IsKnownTx(err error) bool {
	return errors.Is(err, errKnownTx)
}
