package dao

import (
	"github.com/CaCaBlocker/nve-smart-contract/ctrlers/dao/proposal"
	"github.com/CaCaBlocker/nve-smart-contract/types"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"testing"
)

func TestProcessProposal(t *testing.T) {
	s := newTestSuite(t)
	proposer := s.newMember(t, 10)
	addrA := s.newMember(t, 600)
	addrB := s.newMember(t, 500)
	propID := s.newProposal(t, proposer, 1000)

	require.NoError(t, s.ctrler.SubmitVote(addrA, propID, proposal.CHOICE_YES))
	require.NoError(t, s.ctrler.SubmitVote(addrB, propID, proposal.CHOICE_YES))

	// still in the window
	_, xerr := s.ctrler.ProcessProposal(propID)
	require.Equal(t, xerrors.ErrNotYetExpired, xerr)

	s.advanceDays(3)
	evts, xerr := s.ctrler.ProcessProposal(propID)
	require.NoError(t, xerr)
	require.Len(t, evts, 1)
	require.Equal(t, "proposal", evts[0].Type)

	state, xerr := s.ctrler.GetProposalState(propID)
	require.NoError(t, xerr)
	require.Equal(t, proposal.STATE_PASSED, state)
	require.Equal(t, 0, s.ctrler.GetProposalQueueLength())

	// exactly once
	_, xerr = s.ctrler.ProcessProposal(propID)
	require.Equal(t, xerrors.ErrAlreadyProcessed, xerr)
}

func TestProcessProposalRejected(t *testing.T) {
	s := newTestSuite(t)
	proposer := s.newMember(t, 10)
	addrA := s.newMember(t, 600)
	addrB := s.newMember(t, 500)
	propID := s.newProposal(t, proposer, 1000)

	require.NoError(t, s.ctrler.SubmitVote(addrA, propID, proposal.CHOICE_YES))
	require.NoError(t, s.ctrler.SubmitVote(addrB, propID, proposal.CHOICE_YES))
	require.NoError(t, s.ctrler.SubmitVote(addrA, propID, proposal.CHOICE_NO))

	s.advanceDays(3)
	_, xerr := s.ctrler.ProcessProposal(propID)
	require.NoError(t, xerr)

	state, xerr := s.ctrler.GetProposalState(propID)
	require.NoError(t, xerr)
	require.Equal(t, proposal.STATE_REJECTED, state)
}

func TestProcessProposalNoVotes(t *testing.T) {
	s := newTestSuite(t)
	proposer := s.newMember(t, 10)
	propID := s.newProposal(t, proposer, 1)

	s.advanceDays(3)
	_, xerr := s.ctrler.ProcessProposal(propID)
	require.NoError(t, xerr)

	// yesCount(0) > noCount(0) fails regardless of the threshold
	state, xerr := s.ctrler.GetProposalState(propID)
	require.NoError(t, xerr)
	require.Equal(t, proposal.STATE_REJECTED, state)
}

func TestProcessAllExpired(t *testing.T) {
	s := newTestSuite(t)
	proposer := s.newMember(t, 10)
	voter := s.newMember(t, 100)

	id0 := s.newProposal(t, proposer, 1)
	require.NoError(t, s.ctrler.SubmitVote(voter, id0, proposal.CHOICE_YES))

	s.advanceDays(1)
	id1 := s.newProposal(t, proposer, 1)
	require.NoError(t, s.ctrler.SubmitVote(voter, id1, proposal.CHOICE_YES))

	// id0 expires two days before id1
	s.advanceDays(2)
	evts, xerr := s.ctrler.ProcessAllExpired()
	require.NoError(t, xerr)
	require.Len(t, evts, 1)
	require.Equal(t, []uint64{id1}, s.ctrler.ActiveProposalIDs())

	s.advanceDays(2)
	evts, xerr = s.ctrler.ProcessAllExpired()
	require.NoError(t, xerr)
	require.Len(t, evts, 1)
	require.Equal(t, 0, s.ctrler.GetProposalQueueLength())

	// sweeping an empty queue is a no-op
	evts, xerr = s.ctrler.ProcessAllExpired()
	require.NoError(t, xerr)
	require.Len(t, evts, 0)
}

func TestCancelProposal(t *testing.T) {
	s := newTestSuite(t)
	proposer := s.newMember(t, 10)
	propID := s.newProposal(t, proposer, 1)

	require.Equal(t, xerrors.ErrNoRight, s.ctrler.CancelProposal(types.RandAddress(), propID))
	require.NoError(t, s.ctrler.CancelProposal(proposer, propID))

	state, xerr := s.ctrler.GetProposalState(propID)
	require.NoError(t, xerr)
	require.Equal(t, proposal.STATE_CANCELLED, state)
	require.Equal(t, 0, s.ctrler.GetProposalQueueLength())

	// a cancelled proposal is settled for good
	require.Equal(t, xerrors.ErrAlreadyProcessed, s.ctrler.CancelProposal(proposer, propID))
	s.advanceDays(3)
	_, xerr = s.ctrler.ProcessProposal(propID)
	require.Equal(t, xerrors.ErrAlreadyProcessed, xerr)
}

func TestCancelProposalAfterExpiry(t *testing.T) {
	s := newTestSuite(t)
	proposer := s.newMember(t, 10)
	propID := s.newProposal(t, proposer, 1)

	s.advanceDays(3)
	require.Equal(t, xerrors.ErrNotVotingPeriod, s.ctrler.CancelProposal(proposer, propID))
}

func TestCommitAndRestore(t *testing.T) {
	s := newTestSuite(t)
	proposer := s.newMember(t, 10)
	voter := s.newMember(t, 100)

	id0 := s.newProposal(t, proposer, 1)
	id1 := s.newProposal(t, proposer, 1)
	require.NoError(t, s.ctrler.SubmitVote(voter, id0, proposal.CHOICE_YES))

	s.advanceDays(3)
	_, xerr := s.ctrler.ProcessProposal(id0)
	require.NoError(t, xerr)

	appHash, ver, xerr := s.ctrler.Commit()
	require.NoError(t, xerr)
	require.NotNil(t, appHash)
	require.Equal(t, int64(1), ver)

	require.NoError(t, s.ctrler.Close())

	// reopen over the same db files
	ctrler2, xerr := NewDaoCtrler(s.config, s.custodian, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	defer func() { _ = ctrler2.Close() }()

	require.Equal(t, id1, ctrler2.LastProposalID())
	require.Equal(t, int64(2), ctrler2.GetMemberCount())

	// only the unresolved proposal is back in the queue
	require.Equal(t, []uint64{id1}, ctrler2.ActiveProposalIDs())

	prop, xerr := ctrler2.GetProposal(id0)
	require.NoError(t, xerr)
	require.True(t, prop.GetFlags().Processed)
	require.True(t, prop.GetFlags().Passed)

	member, xerr := ctrler2.GetMember(voter)
	require.NoError(t, xerr)
	require.Equal(t, int64(100), member.GetShares())
	require.True(t, member.HasVoted(id0))
}
