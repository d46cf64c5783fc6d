package dao

import (
	"encoding/binary"
	"encoding/json"
	"github.com/CaCaBlocker/nve-smart-contract/ctrlers/dao/proposal"
	ctrlertypes "github.com/CaCaBlocker/nve-smart-contract/ctrlers/types"
	"github.com/CaCaBlocker/nve-smart-contract/ledger"
	"github.com/CaCaBlocker/nve-smart-contract/types"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
)

func (ctrler *DaoCtrler) Query(qd *types.QueryData) (json.RawMessage, xerrors.XError) {
	switch qd.Command {
	case types.QUERY_PROPOSALS:
		if len(qd.Params) == 0 {
			propos, xerr := ctrler.ReadAllProposals()
			if xerr != nil {
				return nil, xerr
			}
			if v, err := json.Marshal(propos); err != nil {
				return nil, xerrors.ErrQuery.Wrap(err)
			} else {
				return v, nil
			}
		}
		if len(qd.Params) != 8 {
			return nil, xerrors.ErrInvalidQueryParams
		}
		prop, xerr := ctrler.ReadProposal(binary.BigEndian.Uint64(qd.Params))
		if xerr != nil {
			return nil, xerr
		}
		if v, xerr := prop.Encode(); xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		} else {
			return v, nil
		}
	case types.QUERY_MEMBERS:
		if len(qd.Params) != types.AddrSize {
			return nil, xerrors.ErrInvalidQueryParams
		}
		member, xerr := ctrler.GetMember(qd.Params)
		if xerr != nil {
			return nil, xerr
		}
		if v, xerr := member.Encode(); xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		} else {
			return v, nil
		}
	case types.QUERY_DAO_PARAMS:
		params := ctrler.GetDaoParams()
		if v, err := json.Marshal(&params); err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		} else {
			return v, nil
		}
	default:
		return nil, xerrors.ErrInvalidQueryCmd
	}
}

func (ctrler *DaoCtrler) GetDaoParams() ctrlertypes.DaoParams {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.DaoParams
}

func (ctrler *DaoCtrler) ReadAllProposals() ([]*proposal.DaoProposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	var proposals []*proposal.DaoProposal
	if xerr := ctrler.proposalLedger.IterateReadAllItems(func(prop *proposal.DaoProposal) xerrors.XError {
		proposals = append(proposals, prop)
		return nil
	}); xerr != nil {
		return nil, xerr
	}
	if proposals == nil {
		return nil, xerrors.ErrNotFoundProposal
	}
	return proposals, nil
}

// ReadProposal reads the committed proposal record, bypassing any
// staged mutations.
func (ctrler *DaoCtrler) ReadProposal(propID uint64) (*proposal.DaoProposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, xerr := ctrler.proposalLedger.Read(ledger.ToLedgerKeyUint64(propID))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrNotFoundProposal
	} else if xerr != nil {
		return nil, xerr
	}
	return prop, nil
}

func (ctrler *DaoCtrler) GetProposal(propID uint64) (*proposal.DaoProposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.getProposal(propID)
}

// GetProposalState derives the proposal phase at the current time.
func (ctrler *DaoCtrler) GetProposalState(propID uint64) (proposal.State, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return proposal.STATE_PENDING, xerr
	}
	return prop.State(ctrler.nowFn()), nil
}

func (ctrler *DaoCtrler) GetProposalQueueLength() int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.queue.len()
}

func (ctrler *DaoCtrler) ActiveProposalIDs() []uint64 {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.queue.ids()
}

func (ctrler *DaoCtrler) LastProposalID() uint64 {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.lastProposalID
}

func (ctrler *DaoCtrler) GetMember(addr types.Address) (*Member, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	member, xerr := ctrler.memberLedger.Get(ledger.ToLedgerKey(addr))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrNotFoundMember
	} else if xerr != nil {
		return nil, xerr
	}
	return member, nil
}

func (ctrler *DaoCtrler) GetMemberCount() int64 {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.memberCount
}

// GetMemberProposalVote returns the member's current choice on a
// proposal; NOT_CHOICE when the member never voted on it.
func (ctrler *DaoCtrler) GetMemberProposalVote(addr types.Address, propID uint64) (int32, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return proposal.NOT_CHOICE, xerr
	}
	return prop.ChoiceOf(addr), nil
}
