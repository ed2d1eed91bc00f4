// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/meter/meter"
)

// ActionKind tags the payload of an action.
type ActionKind uint8

// Action kinds.
const (
	ActionTransfer ActionKind = iota + 1
	ActionCreateAccount
	ActionFreeze
	ActionUnfreeze
	ActionDelegateResource
	ActionUndelegateResource
	ActionCreateContract
	ActionTriggerContract
	ActionUpdateSetting
	ActionUpdatePermission
	ActionPoolTransfer
)

var actionNames = map[ActionKind]string{
	ActionTransfer:           "Transfer",
	ActionCreateAccount:      "CreateAccount",
	ActionFreeze:             "Freeze",
	ActionUnfreeze:           "Unfreeze",
	ActionDelegateResource:   "DelegateResource",
	ActionUndelegateResource: "UndelegateResource",
	ActionCreateContract:     "CreateContract",
	ActionTriggerContract:    "TriggerContract",
	ActionUpdateSetting:      "UpdateSetting",
	ActionUpdatePermission:   "UpdatePermission",
	ActionPoolTransfer:       "PoolTransfer",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", uint8(k))
}

// RunsVM returns whether actions of this kind invoke the contract executor.
func (k ActionKind) RunsVM() bool {
	return k == ActionCreateContract || k == ActionTriggerContract
}

// Action is the single declarative operation carried by a tx.
type Action struct {
	Kind    ActionKind
	Owner   meter.Address
	Payload []byte
}

// Payload is implemented by the typed content of every action kind.
type Payload interface {
	Kind() ActionKind
}

// NewAction encodes p into an action declared by owner.
func NewAction(owner meter.Address, p Payload) (Action, error) {
	data, err := rlp.EncodeToBytes(p)
	if err != nil {
		return Action{}, err
	}
	return Action{Kind: p.Kind(), Owner: owner, Payload: data}, nil
}

// MustNewAction is like NewAction but panics on error.
func MustNewAction(owner meter.Address, p Payload) Action {
	a, err := NewAction(owner, p)
	if err != nil {
		panic(err)
	}
	return a
}

// Decode decodes the typed payload of the action.
func (a Action) Decode() (Payload, error) {
	var p Payload
	switch a.Kind {
	case ActionTransfer:
		p = &Transfer{}
	case ActionCreateAccount:
		p = &CreateAccount{}
	case ActionFreeze:
		p = &Freeze{}
	case ActionUnfreeze:
		p = &Unfreeze{}
	case ActionDelegateResource:
		p = &DelegateResource{}
	case ActionUndelegateResource:
		p = &UndelegateResource{}
	case ActionCreateContract:
		p = &CreateContract{}
	case ActionTriggerContract:
		p = &TriggerContract{}
	case ActionUpdateSetting:
		p = &UpdateSetting{}
	case ActionUpdatePermission:
		p = &UpdatePermission{}
	case ActionPoolTransfer:
		p = &PoolTransfer{}
	default:
		return nil, errors.Errorf("unknown action kind %v", a.Kind)
	}
	if err := rlp.DecodeBytes(a.Payload, p); err != nil {
		return nil, errors.Wrapf(err, "decode %v", a.Kind)
	}
	return p, nil
}

// Transfer moves balance to another account, creating it when absent.
type Transfer struct {
	To     meter.Address
	Amount *big.Int
}

func (*Transfer) Kind() ActionKind { return ActionTransfer }

// CreateAccount registers a new account paid by the owner.
type CreateAccount struct {
	Account meter.Address
}

func (*CreateAccount) Kind() ActionKind { return ActionCreateAccount }

// Freeze locks balance to gain entitlement of a resource.
type Freeze struct {
	Resource meter.ResourceKind
	Amount   *big.Int
}

func (*Freeze) Kind() ActionKind { return ActionFreeze }

// Unfreeze releases the whole frozen amount of a resource once expired.
type Unfreeze struct {
	Resource meter.ResourceKind
}

func (*Unfreeze) Kind() ActionKind { return ActionUnfreeze }

// DelegateResource freezes balance of the owner counted for the receiver's entitlement.
type DelegateResource struct {
	Resource meter.ResourceKind
	Receiver meter.Address
	Amount   *big.Int
}

func (*DelegateResource) Kind() ActionKind { return ActionDelegateResource }

// UndelegateResource releases an expired delegation.
type UndelegateResource struct {
	Resource meter.ResourceKind
	Receiver meter.Address
}

func (*UndelegateResource) Kind() ActionKind { return ActionUndelegateResource }

// CreateContract deploys code. The owner becomes the origin of the contract.
type CreateContract struct {
	Code               []byte
	Value              *big.Int
	ConsumeUserPercent uint64
	OriginEnergyLimit  uint64
}

func (*CreateContract) Kind() ActionKind { return ActionCreateContract }

// TriggerContract calls a deployed contract.
type TriggerContract struct {
	Contract meter.Address
	Value    *big.Int
	Data     []byte
}

func (*TriggerContract) Kind() ActionKind { return ActionTriggerContract }

// UpdateSetting changes the energy sharing settings of a contract. Only the origin may do it.
type UpdateSetting struct {
	Contract           meter.Address
	ConsumeUserPercent uint64
	OriginEnergyLimit  uint64
}

func (*UpdateSetting) Kind() ActionKind { return ActionUpdateSetting }

// UpdatePermission replaces the owner permission of the account.
type UpdatePermission struct {
	Permission Permission
}

func (*UpdatePermission) Kind() ActionKind { return ActionUpdatePermission }

// PoolTransfer pays out of a token pool managed by the owner.
// The multi-sign fee of such txs is drawn from the pool reserve.
type PoolTransfer struct {
	Pool   meter.Address
	To     meter.Address
	Amount *big.Int
}

func (*PoolTransfer) Kind() ActionKind { return ActionPoolTransfer }
