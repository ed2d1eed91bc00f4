// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "fmt"

// ResultCode is the outcome of a tx recorded in its receipt and in the block.
type ResultCode uint8

// Result codes.
const (
	ResultSuccess ResultCode = iota
	ResultRevert
	ResultOutOfEnergy
	ResultOutOfTime
	ResultBadJump
	ResultStackTooSmall
	ResultStackTooLarge
	ResultPrecompiledError
	ResultTransferFailed
	ResultIllegalOperation
	ResultUnknown
)

var resultNames = [...]string{
	ResultSuccess:          "SUCCESS",
	ResultRevert:           "REVERT",
	ResultOutOfEnergy:      "OUT_OF_ENERGY",
	ResultOutOfTime:        "OUT_OF_TIME",
	ResultBadJump:          "BAD_JUMP_DESTINATION",
	ResultStackTooSmall:    "STACK_TOO_SMALL",
	ResultStackTooLarge:    "STACK_TOO_LARGE",
	ResultPrecompiledError: "PRECOMPILED_CONTRACT",
	ResultTransferFailed:   "TRANSFER_FAILED",
	ResultIllegalOperation: "ILLEGAL_OPERATION",
	ResultUnknown:          "UNKNOWN",
}

func (c ResultCode) String() string {
	if int(c) < len(resultNames) {
		return resultNames[c]
	}
	return fmt.Sprintf("RESULT(%d)", uint8(c))
}

// IsValid returns whether c is a known code.
func (c ResultCode) IsValid() bool {
	return c <= ResultUnknown
}

// Failed returns whether the code reports a failed execution.
func (c ResultCode) Failed() bool {
	return c != ResultSuccess
}
