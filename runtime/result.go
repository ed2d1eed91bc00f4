// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/meter/tx"
	"github.com/vechain/meter/vm"
)

// ResultFromFault maps what an execution ended with to the result code recorded in receipts.
func ResultFromFault(fault vm.Fault, reverted bool) tx.ResultCode {
	switch fault {
	case vm.FaultNone:
		if reverted {
			return tx.ResultRevert
		}
		return tx.ResultSuccess
	case vm.FaultOutOfEnergy:
		return tx.ResultOutOfEnergy
	case vm.FaultOutOfTime:
		return tx.ResultOutOfTime
	case vm.FaultBadJump:
		return tx.ResultBadJump
	case vm.FaultStackUnderflow:
		return tx.ResultStackTooSmall
	case vm.FaultStackOverflow:
		return tx.ResultStackTooLarge
	case vm.FaultPrecompiled:
		return tx.ResultPrecompiledError
	case vm.FaultTransfer:
		return tx.ResultTransferFailed
	case vm.FaultIllegalOperation:
		return tx.ResultIllegalOperation
	default:
		return tx.ResultUnknown
	}
}
