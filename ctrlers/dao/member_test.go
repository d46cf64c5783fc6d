package dao

import (
	"github.com/CaCaBlocker/nve-smart-contract/ctrlers/dao/proposal"
	ctrlertypes "github.com/CaCaBlocker/nve-smart-contract/ctrlers/types"
	"github.com/CaCaBlocker/nve-smart-contract/genesis"
	"github.com/CaCaBlocker/nve-smart-contract/types"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestJoin(t *testing.T) {
	s := newTestSuite(t)

	// 2.5 shares worth of tokens yields floor(amount / 10^9) = 2 shares
	addr := types.RandAddress()
	amt := new(uint256.Int).Add(
		s.ctrler.SharesToAmount(2),
		new(uint256.Int).Div(s.ctrler.AmountPerShare(), uint256.NewInt(2)))
	s.custodian.deposit(addr, amt)

	require.NoError(t, s.ctrler.Join(addr, amt))

	member, xerr := s.ctrler.GetMember(addr)
	require.NoError(t, xerr)
	require.True(t, member.IsActive())
	require.Equal(t, int64(2), member.GetShares())
	require.Equal(t, int64(1), s.ctrler.GetMemberCount())

	// the whole amount moved into custody, remainder included
	require.Equal(t, uint256.NewInt(0), s.custodian.BalanceOf(addr))
	require.Equal(t, amt, s.custodian.vault)
}

func TestJoinDustAmount(t *testing.T) {
	s := newTestSuite(t)

	addr := types.RandAddress()
	amt := new(uint256.Int).Sub(s.ctrler.AmountPerShare(), uint256.NewInt(1))
	s.custodian.deposit(addr, amt)

	require.Equal(t, xerrors.ErrInsufficientShares, s.ctrler.Join(addr, amt))

	_, xerr := s.ctrler.GetMember(addr)
	require.Equal(t, xerrors.ErrNotFoundMember, xerr)
	require.Equal(t, int64(0), s.ctrler.GetMemberCount())
	require.Equal(t, amt, s.custodian.BalanceOf(addr))
}

func TestJoinTwice(t *testing.T) {
	s := newTestSuite(t)

	addr := s.newMember(t, 10)
	amt := s.ctrler.SharesToAmount(5)
	s.custodian.deposit(addr, amt)

	require.Equal(t, xerrors.ErrAlreadyMember, s.ctrler.Join(addr, amt))
}

func TestIncreaseStake(t *testing.T) {
	s := newTestSuite(t)

	addr := s.newMember(t, 10)
	amt := s.ctrler.SharesToAmount(5)
	s.custodian.deposit(addr, amt)
	require.NoError(t, s.ctrler.IncreaseStake(addr, amt))

	member, xerr := s.ctrler.GetMember(addr)
	require.NoError(t, xerr)
	require.Equal(t, int64(15), member.GetShares())
	require.Equal(t, int64(1), s.ctrler.GetMemberCount())

	require.Equal(t, xerrors.ErrNotMember, s.ctrler.IncreaseStake(types.RandAddress(), amt))
}

func TestWithdraw(t *testing.T) {
	s := newTestSuite(t)

	addr := s.newMember(t, 10)

	require.NoError(t, s.ctrler.Withdraw(addr, s.ctrler.SharesToAmount(4)))
	member, xerr := s.ctrler.GetMember(addr)
	require.NoError(t, xerr)
	require.Equal(t, int64(6), member.GetShares())
	require.Equal(t, s.ctrler.SharesToAmount(4), s.custodian.BalanceOf(addr))

	// more than held
	require.Equal(t, xerrors.ErrInsufficientShares, s.ctrler.Withdraw(addr, s.ctrler.SharesToAmount(7)))
}

func TestWithdrawAllLapsesMembership(t *testing.T) {
	s := newTestSuite(t)

	addr := s.newMember(t, 10)
	require.NoError(t, s.ctrler.Withdraw(addr, s.ctrler.SharesToAmount(10)))

	member, xerr := s.ctrler.GetMember(addr)
	require.NoError(t, xerr)
	require.False(t, member.IsActive())
	require.Equal(t, int64(0), s.ctrler.GetMemberCount())

	// a lapsed member is not a member anymore
	require.Equal(t, xerrors.ErrNotMember, s.ctrler.Withdraw(addr, s.ctrler.SharesToAmount(1)))

	// but may rejoin; the record is revived
	amt := s.ctrler.SharesToAmount(3)
	require.NoError(t, s.ctrler.Join(addr, amt))
	member, xerr = s.ctrler.GetMember(addr)
	require.NoError(t, xerr)
	require.True(t, member.IsActive())
	require.Equal(t, int64(3), member.GetShares())
	require.Equal(t, int64(1), s.ctrler.GetMemberCount())
}

func TestWithdrawWithOpenVotes(t *testing.T) {
	s := newTestSuite(t)

	addr := s.newMember(t, 10)
	propID := s.newProposal(t, addr, 1)
	require.NoError(t, s.ctrler.SubmitVote(addr, propID, proposal.CHOICE_YES))

	// refused while the voted proposal is still in its window
	require.Equal(t, xerrors.ErrVotesPending, s.ctrler.Withdraw(addr, s.ctrler.SharesToAmount(10)))

	s.advanceDays(4)
	require.NoError(t, s.ctrler.Withdraw(addr, s.ctrler.SharesToAmount(10)))
}

func TestWithdrawAfterCancelledVote(t *testing.T) {
	s := newTestSuite(t)

	proposer := s.newMember(t, 10)
	voter := s.newMember(t, 10)
	propID := s.newProposal(t, proposer, 1)
	require.NoError(t, s.ctrler.SubmitVote(voter, propID, proposal.CHOICE_NO))

	require.Equal(t, xerrors.ErrVotesPending, s.ctrler.Withdraw(voter, s.ctrler.SharesToAmount(10)))

	// cancellation frees the voter immediately
	require.NoError(t, s.ctrler.CancelProposal(proposer, propID))
	require.NoError(t, s.ctrler.Withdraw(voter, s.ctrler.SharesToAmount(10)))
}

func TestGenesisMembers(t *testing.T) {
	params := ctrlertypes.Test1DaoParams()
	addr0, addr1 := types.RandAddress(), types.RandAddress()

	s := newTestSuite(t)
	require.NoError(t, s.ctrler.InitLedger(&genesis.GenesisAppState{
		Members: []*genesis.GenesisMember{
			{Address: addr0, Stake: params.SharesToAmount(100)},
			{Address: addr1, Stake: params.SharesToAmount(50)},
		},
		DaoParams: params,
	}))

	require.Equal(t, int64(2), s.ctrler.GetMemberCount())
	member, xerr := s.ctrler.GetMember(addr0)
	require.NoError(t, xerr)
	require.Equal(t, int64(100), member.GetShares())
}
