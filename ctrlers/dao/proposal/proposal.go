package proposal

import (
	"encoding/json"
	"github.com/CaCaBlocker/nve-smart-contract/ledger"
	"github.com/CaCaBlocker/nve-smart-contract/types"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
	"sync"
)

const SecondsPerDay = int64(86400)

type DaoProposal struct {
	DaoProposalHeader `json:"header"`

	YesCount int64 `json:"yesCount,string"`
	NoCount  int64 `json:"noCount,string"`
	YesScore int64 `json:"yesScore,string"`
	NoScore  int64 `json:"noScore,string"`

	Flags   Flags `json:"flags"`
	Enacted bool  `json:"enacted"`

	Voters map[string]*Voter `json:"voters"`

	mtx sync.RWMutex
}

func NewDaoProposal(id uint64, proposer types.Address, threshold, startTime, durationDays int64, details string, propType int32, target types.Address) *DaoProposal {
	return &DaoProposal{
		DaoProposalHeader: DaoProposalHeader{
			ID:                  id,
			Proposer:            proposer,
			StartingTime:        startTime,
			EndingTime:          startTime + durationDays*SecondsPerDay,
			AcceptanceThreshold: threshold,
			PropType:            propType,
			TargetAddress:       target,
			Details:             details,
		},
		Voters: make(map[string]*Voter),
	}
}

func (prop *DaoProposal) Key() ledger.LedgerKey {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return ledger.ToLedgerKeyUint64(prop.ID)
}

func (prop *DaoProposal) Encode() ([]byte, xerrors.XError) {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	if bz, err := json.Marshal(prop); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (prop *DaoProposal) Decode(bz []byte) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if err := json.Unmarshal(bz, prop); err != nil {
		return xerrors.From(err)
	}
	if prop.Voters == nil {
		prop.Voters = make(map[string]*Voter)
	}
	return nil
}

var _ ledger.ILedgerItem = (*DaoProposal)(nil)

// State derives the current phase from the stored flags and `now`.
// Cancellation and enactment take precedence over the time window.
func (prop *DaoProposal) State(now int64) State {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.state(now)
}

func (prop *DaoProposal) state(now int64) State {
	if prop.Flags.Cancelled {
		return STATE_CANCELLED
	}
	if prop.Enacted {
		return STATE_ENACTED
	}
	if now < prop.StartingTime {
		return STATE_PENDING
	}
	if now < prop.EndingTime {
		return STATE_ACTIVE
	}
	if prop.Flags.Processed {
		if prop.Flags.Passed {
			return STATE_PASSED
		}
		return STATE_REJECTED
	}
	return STATE_FINISHED
}

// DoVote applies one vote of `shares` weight. The first vote of a member
// pins its power; switching sides moves exactly that pinned power between
// the two tallies. Voting twice for the same choice fails.
// It reports whether this was the member's first vote on the proposal and
// the power committed.
func (prop *DaoProposal) DoVote(addr types.Address, shares int64, choice int32) (bool, int64, xerrors.XError) {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if choice != CHOICE_YES && choice != CHOICE_NO {
		return false, 0, xerrors.ErrInvalidChoice
	}

	first := false
	voter, ok := prop.Voters[addr.String()]
	if !ok {
		voter = &Voter{
			Addr:   addr,
			Power:  shares,
			Choice: NOT_CHOICE,
		}
		prop.Voters[addr.String()] = voter
		first = true
	} else if voter.Choice == choice {
		return false, 0, xerrors.ErrAlreadyVoted
	}

	prop.cancelVote(voter)
	prop.applyVote(voter, choice)

	return first, voter.Power, nil
}

func (prop *DaoProposal) cancelVote(voter *Voter) {
	switch voter.Choice {
	case CHOICE_YES:
		prop.YesCount--
		prop.YesScore -= voter.Power
		if prop.YesScore < 0 {
			prop.YesScore = 0
		}
	case CHOICE_NO:
		prop.NoCount--
		prop.NoScore -= voter.Power
		if prop.NoScore < 0 {
			prop.NoScore = 0
		}
	}
	voter.Choice = NOT_CHOICE
}

func (prop *DaoProposal) applyVote(voter *Voter, choice int32) {
	switch choice {
	case CHOICE_YES:
		prop.YesCount++
		prop.YesScore += voter.Power
	case CHOICE_NO:
		prop.NoCount++
		prop.NoScore += voter.Power
	}
	voter.Choice = choice
}

// DoSponsor marks the proposal as endorsed. The flag is informational
// and never gates the lifecycle.
func (prop *DaoProposal) DoSponsor() {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	prop.Flags.Sponsored = true
}

// DoProcess resolves the proposal once its voting window has expired.
// The processed flag guards idempotency; the second call fails and the
// tallies stay untouched.
func (prop *DaoProposal) DoProcess(now int64) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if prop.Flags.Processed || prop.Flags.Cancelled {
		return xerrors.ErrAlreadyProcessed
	}
	if now < prop.StartingTime {
		return xerrors.ErrNotStarted
	}
	if now < prop.EndingTime {
		return xerrors.ErrNotYetExpired
	}

	prop.Flags.Processed = true
	prop.Flags.Passed = prop.YesCount > prop.NoCount && prop.YesScore >= prop.AcceptanceThreshold
	return nil
}

// DoCancel withdraws a still-open proposal. Only the proposer may cancel,
// and only before the voting window expires.
func (prop *DaoProposal) DoCancel(caller types.Address, now int64) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if prop.Proposer.Compare(caller) != 0 {
		return xerrors.ErrNoRight
	}
	if prop.Flags.Processed || prop.Flags.Cancelled {
		return xerrors.ErrAlreadyProcessed
	}
	if now >= prop.EndingTime {
		return xerrors.ErrNotVotingPeriod
	}

	prop.Flags.Cancelled = true
	prop.Flags.Processed = true
	return nil
}

// DoEnact marks a passed governance decision as executed by its target,
// exactly once. The caller identity must equal the addressed target.
func (prop *DaoProposal) DoEnact(caller types.Address) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if xerr := prop.checkAction(caller); xerr != nil {
		return xerr
	}
	prop.Enacted = true
	return nil
}

// CheckAction reports whether `caller` may execute the action this
// proposal authorizes, without changing any state.
func (prop *DaoProposal) CheckAction(caller types.Address) xerrors.XError {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.checkAction(caller)
}

func (prop *DaoProposal) checkAction(caller types.Address) xerrors.XError {
	if prop.Enacted {
		return xerrors.ErrAlreadyEnacted
	}
	if !prop.Flags.Processed || !prop.Flags.Passed {
		return xerrors.ErrNoRight
	}
	if prop.TargetAddress.Compare(caller) != 0 {
		return xerrors.ErrNoRight
	}
	return nil
}

func (prop *DaoProposal) IsVoter(addr types.Address) bool {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	_, ok := prop.Voters[addr.String()]
	return ok
}

// ChoiceOf returns NOT_CHOICE when the address never voted.
func (prop *DaoProposal) ChoiceOf(addr types.Address) int32 {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	if voter, ok := prop.Voters[addr.String()]; ok {
		return voter.Choice
	}
	return NOT_CHOICE
}

func (prop *DaoProposal) CommittedPowerOf(addr types.Address) int64 {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	if voter, ok := prop.Voters[addr.String()]; ok {
		return voter.Power
	}
	return 0
}

func (prop *DaoProposal) GetFlags() Flags {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.Flags
}

func (prop *DaoProposal) IsEnacted() bool {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.Enacted
}

func (prop *DaoProposal) String() string {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	if bz, err := json.Marshal(prop); err != nil {
		return "{}"
	} else {
		return string(bz)
	}
}
