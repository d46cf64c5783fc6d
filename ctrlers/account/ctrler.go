package account

import (
	cfg "github.com/CaCaBlocker/nve-smart-contract/cmd/config"
	ctrlertypes "github.com/CaCaBlocker/nve-smart-contract/ctrlers/types"
	"github.com/CaCaBlocker/nve-smart-contract/genesis"
	"github.com/CaCaBlocker/nve-smart-contract/ledger"
	"github.com/CaCaBlocker/nve-smart-contract/types"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
	"github.com/holiman/uint256"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"sync"
)

// AcctCtrler is the reference Stake Custodian: token balances per
// account plus a vault account holding everything staked into the DAO.
// Real deployments may substitute any ICustodianHandler; the engine
// only sees the interface.
type AcctCtrler struct {
	acctLedger *ledger.SimpleLedger[*Account]
	vaultAddr  types.Address

	logger tmlog.Logger
	mtx    sync.RWMutex
}

func NewAcctCtrler(config *cfg.Config, vaultAddr types.Address, logger tmlog.Logger) (*AcctCtrler, xerrors.XError) {
	acctLedger, xerr := ledger.NewSimpleLedger[*Account]("accounts", config.DBDir(), 128, func() *Account { return &Account{} })
	if xerr != nil {
		return nil, xerr
	}
	return &AcctCtrler{
		acctLedger: acctLedger,
		vaultAddr:  vaultAddr,
		logger:     logger.With("module", "nve_AcctCtrler"),
	}, nil
}

func (ctrler *AcctCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong parameter: AcctCtrler::InitLedger requires *genesis.GenesisAppState")
	}

	for _, holder := range genAppState.AssetHolders {
		acct := NewAccount(holder.Address)
		acct.Balance = holder.Balance.Clone()
		if xerr := ctrler.acctLedger.Set(acct); xerr != nil {
			return xerr
		}
	}

	// the stake of every genesis member is already in custody
	vault := NewAccountWithName(ctrler.vaultAddr, "custody_vault")
	for _, gm := range genAppState.Members {
		vault.AddBalance(gm.Stake)
	}
	return ctrler.acctLedger.Set(vault)
}

func (ctrler *AcctCtrler) FindAccount(addr types.Address) *Account {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.findAccount(addr)
}

func (ctrler *AcctCtrler) findAccount(addr types.Address) *Account {
	if acct, xerr := ctrler.acctLedger.Get(ledger.ToLedgerKey(addr)); xerr != nil {
		return nil
	} else {
		return acct
	}
}

func (ctrler *AcctCtrler) FindOrNewAccount(addr types.Address) *Account {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if acct := ctrler.findAccount(addr); acct != nil {
		return acct
	}
	acct := NewAccount(addr)
	if xerr := ctrler.acctLedger.Set(acct); xerr != nil {
		return nil
	}
	return acct
}

func (ctrler *AcctCtrler) BalanceOf(addr types.Address) *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	if acct := ctrler.findAccount(addr); acct != nil {
		return acct.GetBalance()
	}
	return uint256.NewInt(0)
}

// TransferIn moves `amt` from the account into the custody vault.
func (ctrler *AcctCtrler) TransferIn(addr types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.transfer(addr, ctrler.vaultAddr, amt)
}

// TransferOut releases `amt` from the custody vault back to the account.
func (ctrler *AcctCtrler) TransferOut(addr types.Address, amt *uint256.Int) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.transfer(ctrler.vaultAddr, addr, amt)
}

func (ctrler *AcctCtrler) transfer(from, to types.Address, amt *uint256.Int) xerrors.XError {
	acctFrom := ctrler.findAccount(from)
	if acctFrom == nil {
		return xerrors.ErrNotFoundResult.Wrapf("account %v", from)
	}
	acctTo := ctrler.findAccount(to)
	if acctTo == nil {
		acctTo = NewAccount(to)
	}

	if xerr := acctFrom.SubBalance(amt); xerr != nil {
		return xerr
	}
	acctTo.AddBalance(amt)

	if xerr := ctrler.acctLedger.Set(acctFrom); xerr != nil {
		return xerr
	}
	return ctrler.acctLedger.Set(acctTo)
}

var _ ctrlertypes.ICustodianHandler = (*AcctCtrler)(nil)

func (ctrler *AcctCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.acctLedger.Commit()
}

func (ctrler *AcctCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.acctLedger != nil {
		if xerr := ctrler.acctLedger.Close(); xerr != nil {
			ctrler.logger.Error("acctLedger.Close()", "error", xerr.Error())
		}
		ctrler.acctLedger = nil
	}
	return nil
}
