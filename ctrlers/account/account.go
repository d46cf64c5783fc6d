package account

import (
	"encoding/json"
	"github.com/CaCaBlocker/nve-smart-contract/ledger"
	"github.com/CaCaBlocker/nve-smart-contract/types"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
	"github.com/holiman/uint256"
	"sync"
)

type Account struct {
	Address types.Address `json:"address"`
	Name    string        `json:"name,omitempty"`
	Balance *uint256.Int  `json:"balance"`

	mtx sync.RWMutex
}

func NewAccount(addr types.Address) *Account {
	return &Account{
		Address: addr,
		Balance: uint256.NewInt(0),
	}
}

func NewAccountWithName(addr types.Address, name string) *Account {
	acct := NewAccount(addr)
	acct.Name = name
	return acct
}

func (acct *Account) Key() ledger.LedgerKey {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return ledger.ToLedgerKey(acct.Address)
}

func (acct *Account) Encode() ([]byte, xerrors.XError) {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	if bz, err := json.Marshal(acct); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (acct *Account) Decode(bz []byte) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	if err := json.Unmarshal(bz, acct); err != nil {
		return xerrors.From(err)
	}
	if acct.Balance == nil {
		acct.Balance = uint256.NewInt(0)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Account)(nil)

func (acct *Account) GetBalance() *uint256.Int {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return acct.Balance.Clone()
}

func (acct *Account) AddBalance(amt *uint256.Int) {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	acct.Balance = new(uint256.Int).Add(acct.Balance, amt)
}

func (acct *Account) SubBalance(amt *uint256.Int) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	if acct.Balance.Lt(amt) {
		return xerrors.ErrInsufficientFund
	}
	acct.Balance = new(uint256.Int).Sub(acct.Balance, amt)
	return nil
}

func (acct *Account) CheckBalance(amt *uint256.Int) xerrors.XError {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	if acct.Balance.Lt(amt) {
		return xerrors.ErrInsufficientFund
	}
	return nil
}

func (acct *Account) String() string {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	if bz, err := json.Marshal(acct); err != nil {
		return "{}"
	} else {
		return string(bz)
	}
}
