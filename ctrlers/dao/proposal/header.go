package proposal

import (
	"github.com/CaCaBlocker/nve-smart-contract/types"
)

const (
	PROPOSAL_OFFCHAIN = 0x0100
	PROPOSAL_ONCHAIN  = 0x0200

	// PROPOSAL_COMMON carries an off-chain decision only.
	// PROPOSAL_GOVERNANCE authorizes a privileged action on TargetAddress.
	PROPOSAL_COMMON     = PROPOSAL_OFFCHAIN | 0x00
	PROPOSAL_GOVERNANCE = PROPOSAL_ONCHAIN | 0x01
)

const (
	NOT_CHOICE int32 = -1
	CHOICE_YES int32 = 0
	CHOICE_NO  int32 = 1
)

type Voter struct {
	Addr types.Address `json:"address"`
	// Power is the voter's shares pinned at the first vote on this
	// proposal. It does not follow later stake changes.
	Power  int64 `json:"power"`
	Choice int32 `json:"choice"`
}

type Flags struct {
	Sponsored bool `json:"sponsored"`
	Processed bool `json:"processed"`
	Passed    bool `json:"passed"`
	Cancelled bool `json:"cancelled"`
}

type DaoProposalHeader struct {
	ID                  uint64        `json:"id,string"`
	Proposer            types.Address `json:"proposer"`
	StartingTime        int64         `json:"startingTime,string"`
	EndingTime          int64         `json:"endingTime,string"`
	AcceptanceThreshold int64         `json:"acceptanceThreshold,string"`
	PropType            int32         `json:"propType"`
	TargetAddress       types.Address `json:"targetAddress,omitempty"`
	Details             string        `json:"details"`
}

func (h *DaoProposalHeader) GetID() uint64 {
	return h.ID
}

func (h *DaoProposalHeader) GetProposer() types.Address {
	return h.Proposer
}

func (h *DaoProposalHeader) GetStartingTime() int64 {
	return h.StartingTime
}

func (h *DaoProposalHeader) GetEndingTime() int64 {
	return h.EndingTime
}

func (h *DaoProposalHeader) GetAcceptanceThreshold() int64 {
	return h.AcceptanceThreshold
}

func (h *DaoProposalHeader) IsGovernance() bool {
	return h.PropType == PROPOSAL_GOVERNANCE
}
