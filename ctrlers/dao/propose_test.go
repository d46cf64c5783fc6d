package dao

import (
	"github.com/CaCaBlocker/nve-smart-contract/ctrlers/dao/proposal"
	"github.com/CaCaBlocker/nve-smart-contract/types"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSubmitProposal(t *testing.T) {
	s := newTestSuite(t)
	proposer := s.newMember(t, 10)

	id, xerr := s.ctrler.SubmitProposal(proposer, 1000, 3, "raise the budget", proposal.PROPOSAL_COMMON, nil)
	require.NoError(t, xerr)
	require.Equal(t, uint64(1), id)

	prop, xerr := s.ctrler.GetProposal(id)
	require.NoError(t, xerr)
	require.Equal(t, proposer, prop.Proposer)
	require.Equal(t, int64(1000), prop.AcceptanceThreshold)
	require.Equal(t, s.now, prop.StartingTime)
	require.Equal(t, s.now+3*proposal.SecondsPerDay, prop.EndingTime)

	state, xerr := s.ctrler.GetProposalState(id)
	require.NoError(t, xerr)
	require.Equal(t, proposal.STATE_ACTIVE, state)
	require.Equal(t, 1, s.ctrler.GetProposalQueueLength())
}

func TestSubmitProposalValidation(t *testing.T) {
	s := newTestSuite(t)
	proposer := s.newMember(t, 10)

	// non-member
	_, xerr := s.ctrler.SubmitProposal(types.RandAddress(), 1000, 3, "x", proposal.PROPOSAL_COMMON, nil)
	require.Equal(t, xerrors.ErrNotMember, xerr)

	// threshold below the configured minimum
	_, xerr = s.ctrler.SubmitProposal(proposer, 0, 3, "x", proposal.PROPOSAL_COMMON, nil)
	require.Equal(t, xerrors.ErrInvalidThreshold, xerr)

	// duration out of range, both ends
	_, xerr = s.ctrler.SubmitProposal(proposer, 1000, 0, "x", proposal.PROPOSAL_COMMON, nil)
	require.Equal(t, xerrors.ErrInvalidDuration, xerr)
	_, xerr = s.ctrler.SubmitProposal(proposer, 1000, 91, "x", proposal.PROPOSAL_COMMON, nil)
	require.Equal(t, xerrors.ErrInvalidDuration, xerr)

	// governance proposal needs a usable target
	_, xerr = s.ctrler.SubmitProposal(proposer, 1000, 3, "x", proposal.PROPOSAL_GOVERNANCE, nil)
	require.Equal(t, xerrors.ErrInvalidTarget, xerr)
	_, xerr = s.ctrler.SubmitProposal(proposer, 1000, 3, "x", proposal.PROPOSAL_GOVERNANCE, types.ZeroAddress())
	require.Equal(t, xerrors.ErrInvalidTarget, xerr)

	// unknown proposal type
	_, xerr = s.ctrler.SubmitProposal(proposer, 1000, 3, "x", int32(0x0300), nil)
	require.Equal(t, xerrors.ErrCodeInvalidProposal, xerr.Code())

	// nothing was stored
	require.Equal(t, uint64(0), s.ctrler.LastProposalID())
	require.Equal(t, 0, s.ctrler.GetProposalQueueLength())
}

func TestProposalIDsAreSequential(t *testing.T) {
	s := newTestSuite(t)
	proposer := s.newMember(t, 10)

	require.Equal(t, uint64(1), s.newProposal(t, proposer, 1))
	require.Equal(t, uint64(2), s.newProposal(t, proposer, 1))

	// a cancelled id is never reused
	require.NoError(t, s.ctrler.CancelProposal(proposer, 2))
	require.Equal(t, uint64(3), s.newProposal(t, proposer, 1))
	require.Equal(t, []uint64{1, 3}, s.ctrler.ActiveProposalIDs())
}

func TestCommonProposalDropsTarget(t *testing.T) {
	s := newTestSuite(t)
	proposer := s.newMember(t, 10)

	id, xerr := s.ctrler.SubmitProposal(proposer, 1, 3, "x", proposal.PROPOSAL_COMMON, types.RandAddress())
	require.NoError(t, xerr)

	target, xerr := s.ctrler.GetProposalTargetAddress(id)
	require.NoError(t, xerr)
	require.Nil(t, target)
}

func TestSponsorProposal(t *testing.T) {
	s := newTestSuite(t)
	proposer := s.newMember(t, 10)
	sponsor := s.newMember(t, 5)
	propID := s.newProposal(t, proposer, 1)

	require.Equal(t, xerrors.ErrNotMember, s.ctrler.SponsorProposal(types.RandAddress(), propID))
	require.NoError(t, s.ctrler.SponsorProposal(sponsor, propID))

	flags, xerr := s.ctrler.GetProposalFlags(propID)
	require.NoError(t, xerr)
	require.True(t, flags.Sponsored)

	// sponsoring is bound to the voting window as well
	s.advanceDays(4)
	require.Equal(t, xerrors.ErrNotVotingPeriod, s.ctrler.SponsorProposal(sponsor, propID))
}
