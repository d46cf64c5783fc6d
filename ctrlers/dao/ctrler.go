package dao

import (
	cfg "github.com/CaCaBlocker/nve-smart-contract/cmd/config"
	"github.com/CaCaBlocker/nve-smart-contract/ctrlers/dao/proposal"
	ctrlertypes "github.com/CaCaBlocker/nve-smart-contract/ctrlers/types"
	"github.com/CaCaBlocker/nve-smart-contract/genesis"
	"github.com/CaCaBlocker/nve-smart-contract/ledger"
	"github.com/CaCaBlocker/nve-smart-contract/types"
	abytes "github.com/CaCaBlocker/nve-smart-contract/types/bytes"
	"github.com/CaCaBlocker/nve-smart-contract/types/crypto"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"strconv"
	"sync"
	"time"
)

// DaoCtrler is the governance core: it owns the member ledger, the
// proposal store with its active queue, the voting engine and the
// lifecycle transitions, and exposes the action gate consumed by
// dependent contracts. Every exported state-changing method is
// serialized by the ctrler mutex and observes a single time snapshot.
type DaoCtrler struct {
	ctrlertypes.DaoParams

	paramsLedger   *ledger.SimpleLedger[*ctrlertypes.DaoParams]
	memberLedger   *ledger.SimpleLedger[*Member]
	proposalLedger *ledger.SimpleLedger[*proposal.DaoProposal]

	queue          *proposalQueue
	lastProposalID uint64
	memberCount    int64

	custodian ctrlertypes.ICustodianHandler

	nowFn  func() int64
	logger log.Logger
	mtx    sync.RWMutex
}

func NewDaoCtrler(config *cfg.Config, custodian ctrlertypes.ICustodianHandler, logger log.Logger) (*DaoCtrler, xerrors.XError) {
	newParamsProvider := func() *ctrlertypes.DaoParams { return &ctrlertypes.DaoParams{} }
	newMemberProvider := func() *Member { return &Member{} }
	newProposalProvider := func() *proposal.DaoProposal { return &proposal.DaoProposal{} }

	paramsLedger, xerr := ledger.NewSimpleLedger[*ctrlertypes.DaoParams]("dao_params", config.DBDir(), 1, newParamsProvider)
	if xerr != nil {
		return nil, xerr
	}

	params, xerr := paramsLedger.Get(ledger.ToLedgerKey(abytes.ZeroBytes(32)))
	// `params` could be nil on a fresh ledger
	if xerr != nil && xerr != xerrors.ErrNotFoundResult {
		return nil, xerr
	} else if params == nil {
		params = &ctrlertypes.DaoParams{}
	}

	memberLedger, xerr := ledger.NewSimpleLedger[*Member]("members", config.DBDir(), 128, newMemberProvider)
	if xerr != nil {
		return nil, xerr
	}

	proposalLedger, xerr := ledger.NewSimpleLedger[*proposal.DaoProposal]("proposals", config.DBDir(), 128, newProposalProvider)
	if xerr != nil {
		return nil, xerr
	}

	ctrler := &DaoCtrler{
		DaoParams:      *params,
		paramsLedger:   paramsLedger,
		memberLedger:   memberLedger,
		proposalLedger: proposalLedger,
		queue:          newProposalQueue(),
		custodian:      custodian,
		nowFn:          func() int64 { return time.Now().Unix() },
		logger:         logger.With("module", "nve_DaoCtrler"),
	}

	if xerr := ctrler.restore(); xerr != nil {
		return nil, xerr
	}
	return ctrler, nil
}

// restore rebuilds the in-memory queue, the id sequence and the member
// count from the persisted ledgers. Iteration is in key order, which
// equals id order for proposals.
func (ctrler *DaoCtrler) restore() xerrors.XError {
	xerr := ctrler.proposalLedger.IterateReadAllItems(func(prop *proposal.DaoProposal) xerrors.XError {
		if prop.ID > ctrler.lastProposalID {
			ctrler.lastProposalID = prop.ID
		}
		flags := prop.GetFlags()
		if !flags.Processed && !flags.Cancelled {
			ctrler.queue.push(prop.ID)
		}
		return nil
	})
	if xerr != nil {
		return xerr
	}

	return ctrler.memberLedger.IterateReadAllItems(func(m *Member) xerrors.XError {
		if m.Exists {
			ctrler.memberCount++
		}
		return nil
	})
}

func (ctrler *DaoCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong parameter: DaoCtrler::InitLedger requires *genesis.GenesisAppState")
	}

	ctrler.DaoParams = *genAppState.DaoParams
	if xerr := ctrler.paramsLedger.Set(&ctrler.DaoParams); xerr != nil {
		return xerr
	}

	for _, gm := range genAppState.Members {
		shares := ctrler.AmountToShares(gm.Stake)
		if shares <= 0 {
			return xerrors.ErrInitChain.Wrapf("genesis member %v has no voting shares", gm.Address)
		}
		member := NewMember(gm.Address, shares)
		if xerr := ctrler.memberLedger.Set(member); xerr != nil {
			return xerr
		}
		ctrler.memberCount++
	}
	return nil
}

func (ctrler *DaoCtrler) SetClock(nowFn func() int64) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	ctrler.nowFn = nowFn
}

//
// Member ledger
//

// Join admits a new member. The staked amount is pulled into the
// custodian; the voting shares are the scaled-down stake.
func (ctrler *DaoCtrler) Join(addr types.Address, amount *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	member, xerr := ctrler.memberLedger.Get(ledger.ToLedgerKey(addr))
	if xerr != nil && xerr != xerrors.ErrNotFoundResult {
		return xerr
	}
	if member != nil && member.Exists {
		return xerrors.ErrAlreadyMember
	}

	shares := ctrler.AmountToShares(amount)
	if shares <= 0 {
		return xerrors.ErrInsufficientShares
	}

	if xerr := ctrler.custodian.TransferIn(addr, amount); xerr != nil {
		return xerr
	}

	if member == nil {
		member = NewMember(addr, shares)
	} else {
		// lapsed member rejoins; voting history is retained
		member.AddShares(shares)
	}
	if xerr := ctrler.memberLedger.Set(member); xerr != nil {
		return xerr
	}

	ctrler.memberCount++
	ctrler.logger.Debug("New member joined", "address", addr, "shares", shares)
	return nil
}

// IncreaseStake adds to an existing member's shares. Power already
// committed to open proposals stays pinned.
func (ctrler *DaoCtrler) IncreaseStake(addr types.Address, amount *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	member, xerr := ctrler.memberLedger.Get(ledger.ToLedgerKey(addr))
	if xerr == xerrors.ErrNotFoundResult || (member != nil && !member.Exists) {
		return xerrors.ErrNotMember
	} else if xerr != nil {
		return xerr
	}

	shares := ctrler.AmountToShares(amount)
	if shares <= 0 {
		return xerrors.ErrInsufficientShares
	}

	if xerr := ctrler.custodian.TransferIn(addr, amount); xerr != nil {
		return xerr
	}

	member.AddShares(shares)
	return ctrler.memberLedger.Set(member)
}

// Withdraw releases staked tokens back to the member. It is refused
// while the member has a vote on any proposal whose voting window is
// still open and which is not cancelled.
func (ctrler *DaoCtrler) Withdraw(addr types.Address, amount *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	now := ctrler.nowFn()

	member, xerr := ctrler.memberLedger.Get(ledger.ToLedgerKey(addr))
	if xerr == xerrors.ErrNotFoundResult || (member != nil && !member.Exists) {
		return xerrors.ErrNotMember
	} else if xerr != nil {
		return xerr
	}

	for _, pid := range member.VotedProposalIDs() {
		prop, xerr := ctrler.proposalLedger.Get(ledger.ToLedgerKeyUint64(pid))
		if xerr == xerrors.ErrNotFoundResult {
			continue
		} else if xerr != nil {
			return xerr
		}
		if !prop.GetFlags().Cancelled && now < prop.GetEndingTime() {
			return xerrors.ErrVotesPending
		}
	}

	shares := ctrler.AmountToShares(amount)
	if shares <= 0 || shares > member.GetShares() {
		return xerrors.ErrInsufficientShares
	}

	if xerr := ctrler.custodian.TransferOut(addr, amount); xerr != nil {
		return xerr
	}

	if xerr := member.SubShares(shares); xerr != nil {
		return xerr
	}
	if !member.Exists {
		ctrler.memberCount--
		ctrler.logger.Debug("Membership lapsed", "address", addr)
	}
	return ctrler.memberLedger.Set(member)
}

//
// Proposal store
//

// SubmitProposal creates a proposal and opens its voting window at the
// current time. Ids are sequential and never reused.
func (ctrler *DaoCtrler) SubmitProposal(proposer types.Address, threshold, durationDays int64, details string, propType int32, target types.Address) (uint64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	now := ctrler.nowFn()

	member, xerr := ctrler.memberLedger.Get(ledger.ToLedgerKey(proposer))
	if xerr == xerrors.ErrNotFoundResult || (member != nil && !member.IsActive()) {
		return 0, xerrors.ErrNotMember
	} else if xerr != nil {
		return 0, xerr
	}

	if threshold < ctrler.MinAcceptanceThreshold() {
		return 0, xerrors.ErrInvalidThreshold
	}
	if durationDays < ctrler.MinVotingPeriodDays() || durationDays > ctrler.MaxVotingPeriodDays() {
		return 0, xerrors.ErrInvalidDuration
	}

	switch propType {
	case proposal.PROPOSAL_COMMON:
		target = nil
	case proposal.PROPOSAL_GOVERNANCE:
		if len(target) != types.AddrSize || types.Address(target).IsZero() {
			return 0, xerrors.ErrInvalidTarget
		}
	default:
		return 0, xerrors.ErrInvalidProposal.Wrapf("unknown proposal type: %x", propType)
	}

	id := ctrler.lastProposalID + 1
	prop := proposal.NewDaoProposal(id, proposer, threshold, now, durationDays, details, propType, target)

	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return 0, xerr
	}
	ctrler.lastProposalID = id
	ctrler.queue.push(id)

	ctrler.logger.Info("Proposal submitted", "id", id, "proposer", proposer, "endingTime", prop.EndingTime)
	return id, nil
}

// SponsorProposal lets any active member endorse a live proposal.
// The flag is informational; it does not gate the lifecycle.
func (ctrler *DaoCtrler) SponsorProposal(sponsor types.Address, propID uint64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	member, xerr := ctrler.memberLedger.Get(ledger.ToLedgerKey(sponsor))
	if xerr == xerrors.ErrNotFoundResult || (member != nil && !member.IsActive()) {
		return xerrors.ErrNotMember
	} else if xerr != nil {
		return xerr
	}

	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return xerr
	}
	if prop.State(ctrler.nowFn()) != proposal.STATE_ACTIVE {
		return xerrors.ErrNotVotingPeriod
	}

	prop.DoSponsor()
	return ctrler.proposalLedger.Set(prop)
}

func (ctrler *DaoCtrler) getProposal(propID uint64) (*proposal.DaoProposal, xerrors.XError) {
	prop, xerr := ctrler.proposalLedger.Get(ledger.ToLedgerKeyUint64(propID))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrNotFoundProposal
	} else if xerr != nil {
		return nil, xerr
	}
	return prop, nil
}

//
// Voting engine
//

// SubmitVote casts or switches a Yes/No vote. The member's power is
// pinned at the first vote; a switch moves exactly that power between
// the two tallies.
func (ctrler *DaoCtrler) SubmitVote(addr types.Address, propID uint64, choice int32) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	now := ctrler.nowFn()

	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return xerr
	}

	member, xerr := ctrler.memberLedger.Get(ledger.ToLedgerKey(addr))
	if xerr == xerrors.ErrNotFoundResult || (member != nil && !member.IsActive()) {
		return xerrors.ErrNotMember
	} else if xerr != nil {
		return xerr
	}

	if prop.State(now) != proposal.STATE_ACTIVE {
		return xerrors.ErrNotVotingPeriod
	}

	first, power, xerr := prop.DoVote(addr, member.GetShares(), choice)
	if xerr != nil {
		return xerr
	}

	if first {
		member.MarkVoted(propID, power)
		if xerr := ctrler.memberLedger.Set(member); xerr != nil {
			return xerr
		}
	}
	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return xerr
	}

	ctrler.logger.Debug("Vote submitted", "proposal", propID, "voter", addr, "choice", choice, "power", power)
	return nil
}

//
// Lifecycle
//

// ProcessProposal resolves an expired proposal. Anyone may call it; the
// processed flag makes it effective exactly once. The id leaves the
// active queue here and only here (or on cancellation).
func (ctrler *DaoCtrler) ProcessProposal(propID uint64) ([]abcitypes.Event, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	now := ctrler.nowFn()

	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return nil, xerr
	}
	if xerr := prop.DoProcess(now); xerr != nil {
		return nil, xerr
	}
	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return nil, xerr
	}
	ctrler.queue.remove(propID)

	flags := prop.GetFlags()
	ctrler.logger.Info("Proposal processed", "id", propID, "passed", flags.Passed,
		"yesScore", prop.YesScore, "noScore", prop.NoScore, "threshold", prop.AcceptanceThreshold)

	evts := []abcitypes.Event{
		{
			Type: "proposal",
			Attributes: []abcitypes.EventAttribute{
				{Key: []byte("processed"), Value: []byte(strconv.FormatUint(propID, 10)), Index: true},
				{Key: []byte("passed"), Value: []byte(strconv.FormatBool(flags.Passed)), Index: false},
			},
		},
	}
	return evts, nil
}

// ProcessAllExpired sweeps the active queue and resolves everything past
// its ending time. Intended for block-end style housekeeping.
func (ctrler *DaoCtrler) ProcessAllExpired() ([]abcitypes.Event, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	now := ctrler.nowFn()

	var evts []abcitypes.Event
	for _, pid := range ctrler.queue.ids() {
		prop, xerr := ctrler.getProposal(pid)
		if xerr != nil {
			return evts, xerr
		}
		if prop.State(now) != proposal.STATE_FINISHED {
			continue
		}
		if xerr := prop.DoProcess(now); xerr != nil {
			return evts, xerr
		}
		if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
			return evts, xerr
		}
		ctrler.queue.remove(pid)

		evts = append(evts, abcitypes.Event{
			Type: "proposal",
			Attributes: []abcitypes.EventAttribute{
				{Key: []byte("processed"), Value: []byte(strconv.FormatUint(pid, 10)), Index: true},
				{Key: []byte("passed"), Value: []byte(strconv.FormatBool(prop.GetFlags().Passed)), Index: false},
			},
		})
	}
	return evts, nil
}

// CancelProposal withdraws a still-open proposal; proposer only.
func (ctrler *DaoCtrler) CancelProposal(caller types.Address, propID uint64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	now := ctrler.nowFn()

	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return xerr
	}
	if xerr := prop.DoCancel(caller, now); xerr != nil {
		return xerr
	}
	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return xerr
	}
	ctrler.queue.remove(propID)

	ctrler.logger.Info("Proposal cancelled", "id", propID, "proposer", caller)
	return nil
}

//
// Action gate
//

func (ctrler *DaoCtrler) CheckProposalID(propID uint64) bool {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	_, xerr := ctrler.getProposal(propID)
	return xerr == nil
}

func (ctrler *DaoCtrler) GetProposalFlags(propID uint64) (proposal.Flags, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return proposal.Flags{}, xerr
	}
	return prop.GetFlags(), nil
}

func (ctrler *DaoCtrler) GetProposalTargetAddress(propID uint64) (types.Address, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return nil, xerr
	}
	return prop.TargetAddress, nil
}

func (ctrler *DaoCtrler) GetActionProposalStatus(propID uint64) (bool, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return false, xerr
	}
	return prop.IsEnacted(), nil
}

// AuthorizeAction is the read side of the check-then-confirm handshake:
// it reports whether `caller` may execute the action the proposal
// authorizes. The caller identity must be authenticated upstream; it is
// never taken from the payload.
func (ctrler *DaoCtrler) AuthorizeAction(caller types.Address, propID uint64) (bool, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return false, xerr
	}
	if xerr := prop.CheckAction(caller); xerr != nil {
		return false, xerr
	}
	return true, nil
}

// ActionProposal is the confirm side: the target reports the action as
// executed and the proposal becomes enacted, exactly once.
func (ctrler *DaoCtrler) ActionProposal(caller types.Address, propID uint64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	prop, xerr := ctrler.getProposal(propID)
	if xerr != nil {
		return xerr
	}
	if xerr := prop.DoEnact(caller); xerr != nil {
		return xerr
	}
	if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
		return xerr
	}

	ctrler.logger.Info("Proposal enacted", "id", propID, "target", caller)
	return nil
}

var _ ctrlertypes.IDaoHandler = (*DaoCtrler)(nil)

//
// Commit / Close
//

func (ctrler *DaoCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h0, v0, xerr := ctrler.paramsLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h1, v1, xerr := ctrler.memberLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h2, v2, xerr := ctrler.proposalLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}

	if v0 != v1 || v1 != v2 {
		return nil, -1, xerrors.ErrCommit.Wrapf("DaoCtrler.Commit() has wrong version number - v0:%v, v1:%v, v2:%v", v0, v1, v2)
	}

	return crypto.DefaultHash(h0, h1, h2), v0, nil
}

func (ctrler *DaoCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.paramsLedger != nil {
		if xerr := ctrler.paramsLedger.Close(); xerr != nil {
			ctrler.logger.Error("paramsLedger.Close()", "error", xerr.Error())
		}
		ctrler.paramsLedger = nil
	}
	if ctrler.memberLedger != nil {
		if xerr := ctrler.memberLedger.Close(); xerr != nil {
			ctrler.logger.Error("memberLedger.Close()", "error", xerr.Error())
		}
		ctrler.memberLedger = nil
	}
	if ctrler.proposalLedger != nil {
		if xerr := ctrler.proposalLedger.Close(); xerr != nil {
			ctrler.logger.Error("proposalLedger.Close()", "error", xerr.Error())
		}
		ctrler.proposalLedger = nil
	}
	return nil
}
