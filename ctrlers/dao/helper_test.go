package dao

import (
	cfg "github.com/CaCaBlocker/nve-smart-contract/cmd/config"
	"github.com/CaCaBlocker/nve-smart-contract/ctrlers/dao/proposal"
	ctrlertypes "github.com/CaCaBlocker/nve-smart-contract/ctrlers/types"
	"github.com/CaCaBlocker/nve-smart-contract/genesis"
	"github.com/CaCaBlocker/nve-smart-contract/types"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"testing"
)

// custodianMock keeps token balances in memory so the engine tests do
// not depend on the account ledger.
type custodianMock struct {
	balances map[string]*uint256.Int
	vault    *uint256.Int
}

func newCustodianMock() *custodianMock {
	return &custodianMock{
		balances: make(map[string]*uint256.Int),
		vault:    uint256.NewInt(0),
	}
}

func (m *custodianMock) deposit(addr types.Address, amt *uint256.Int) {
	bal, ok := m.balances[addr.String()]
	if !ok {
		bal = uint256.NewInt(0)
		m.balances[addr.String()] = bal
	}
	bal.Add(bal, amt)
}

func (m *custodianMock) BalanceOf(addr types.Address) *uint256.Int {
	if bal, ok := m.balances[addr.String()]; ok {
		return bal.Clone()
	}
	return uint256.NewInt(0)
}

func (m *custodianMock) TransferIn(addr types.Address, amt *uint256.Int) xerrors.XError {
	bal, ok := m.balances[addr.String()]
	if !ok || bal.Lt(amt) {
		return xerrors.ErrInsufficientFund
	}
	bal.Sub(bal, amt)
	m.vault.Add(m.vault, amt)
	return nil
}

func (m *custodianMock) TransferOut(addr types.Address, amt *uint256.Int) xerrors.XError {
	if m.vault.Lt(amt) {
		return xerrors.ErrInsufficientFund
	}
	m.vault.Sub(m.vault, amt)
	m.deposit(addr, amt)
	return nil
}

var _ ctrlertypes.ICustodianHandler = (*custodianMock)(nil)

type testSuite struct {
	ctrler    *DaoCtrler
	custodian *custodianMock
	config    *cfg.Config
	now       int64
}

func newTestSuite(t *testing.T) *testSuite {
	config := cfg.DefaultConfig()
	config.SetRoot(t.TempDir())

	custodian := newCustodianMock()
	ctrler, xerr := NewDaoCtrler(config, custodian, tmlog.NewNopLogger())
	require.NoError(t, xerr)

	require.NoError(t, ctrler.InitLedger(&genesis.GenesisAppState{
		DaoParams: ctrlertypes.Test1DaoParams(),
	}))

	s := &testSuite{
		ctrler:    ctrler,
		custodian: custodian,
		config:    config,
		now:       int64(1_700_000_000),
	}
	ctrler.SetClock(func() int64 { return s.now })

	t.Cleanup(func() { _ = ctrler.Close() })
	return s
}

func (s *testSuite) advanceDays(days int64) {
	s.now += days * proposal.SecondsPerDay
}

// newMember funds a random address with exactly `shares` worth of tokens
// and joins it to the DAO.
func (s *testSuite) newMember(t *testing.T, shares int64) types.Address {
	addr := types.RandAddress()
	amt := s.ctrler.SharesToAmount(shares)
	s.custodian.deposit(addr, amt)
	require.NoError(t, s.ctrler.Join(addr, amt))
	return addr
}

func (s *testSuite) newProposal(t *testing.T, proposer types.Address, threshold int64) uint64 {
	id, xerr := s.ctrler.SubmitProposal(proposer, threshold, 3, "test proposal", proposal.PROPOSAL_COMMON, nil)
	require.NoError(t, xerr)
	return id
}

func (s *testSuite) newActionProposal(t *testing.T, proposer types.Address, threshold int64, target types.Address) uint64 {
	id, xerr := s.ctrler.SubmitProposal(proposer, threshold, 3, "test action proposal", proposal.PROPOSAL_GOVERNANCE, target)
	require.NoError(t, xerr)
	return id
}
