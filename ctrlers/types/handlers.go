package types

import (
	"encoding/json"
	"github.com/CaCaBlocker/nve-smart-contract/types"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
	"github.com/holiman/uint256"
)

type ILedgerHandler interface {
	InitLedger(interface{}) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Query(*types.QueryData) (json.RawMessage, xerrors.XError)
	Close() xerrors.XError
}

// ICustodianHandler is the boundary to the token custody contract.
// The engine never touches token balances directly; it only instructs
// the custodian to move the staked amount in or out.
type ICustodianHandler interface {
	BalanceOf(types.Address) *uint256.Int
	TransferIn(types.Address, *uint256.Int) xerrors.XError
	TransferOut(types.Address, *uint256.Int) xerrors.XError
}

// IDaoHandler is the surface a dependent contract consumes before and
// after executing a privileged action authorized by a passed proposal.
type IDaoHandler interface {
	CheckProposalID(uint64) bool
	GetProposalTargetAddress(uint64) (types.Address, xerrors.XError)
	GetActionProposalStatus(uint64) (bool, xerrors.XError)
	AuthorizeAction(types.Address, uint64) (bool, xerrors.XError)
	ActionProposal(types.Address, uint64) xerrors.XError
}
