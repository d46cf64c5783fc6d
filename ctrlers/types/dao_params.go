package types

import (
	"encoding/json"
	abytes "github.com/CaCaBlocker/nve-smart-contract/types/bytes"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
	"github.com/CaCaBlocker/nve-smart-contract/ledger"
	"github.com/holiman/uint256"
	"sync"
)

// DaoParams holds the configured minimums of the governance engine.
// The staked token has 18 decimals; one voting share corresponds to
// 10^9 base units (floor(staked / 10^9)).
type DaoParams struct {
	version                int64
	amountPerShare         *uint256.Int
	minAcceptanceThreshold int64
	minVotingPeriodDays    int64
	maxVotingPeriodDays    int64

	mtx sync.RWMutex
}

func DefaultDaoParams() *DaoParams {
	return &DaoParams{
		version:                1,
		amountPerShare:         uint256.NewInt(1_000_000_000),
		minAcceptanceThreshold: 10,
		minVotingPeriodDays:    1,
		maxVotingPeriodDays:    30,
	}
}

func Test1DaoParams() *DaoParams {
	return &DaoParams{
		version:                1,
		amountPerShare:         uint256.NewInt(1_000_000_000),
		minAcceptanceThreshold: 1,
		minVotingPeriodDays:    1,
		maxVotingPeriodDays:    90,
	}
}

func (p *DaoParams) Version() int64 {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	return p.version
}

func (p *DaoParams) AmountPerShare() *uint256.Int {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	return p.amountPerShare.Clone()
}

func (p *DaoParams) MinAcceptanceThreshold() int64 {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	return p.minAcceptanceThreshold
}

func (p *DaoParams) MinVotingPeriodDays() int64 {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	return p.minVotingPeriodDays
}

func (p *DaoParams) MaxVotingPeriodDays() int64 {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	return p.maxVotingPeriodDays
}

// AmountToShares converts a staked amount into voting shares,
// truncating any remainder below the share scale.
func (p *DaoParams) AmountToShares(amt *uint256.Int) int64 {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	q := new(uint256.Int).Div(amt, p.amountPerShare)
	return int64(q.Uint64())
}

func (p *DaoParams) SharesToAmount(shares int64) *uint256.Int {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	return new(uint256.Int).Mul(uint256.NewInt(uint64(shares)), p.amountPerShare)
}

type daoParamsMirror struct {
	Version                int64        `json:"version,string"`
	AmountPerShare         *uint256.Int `json:"amountPerShare"`
	MinAcceptanceThreshold int64        `json:"minAcceptanceThreshold,string"`
	MinVotingPeriodDays    int64        `json:"minVotingPeriodDays,string"`
	MaxVotingPeriodDays    int64        `json:"maxVotingPeriodDays,string"`
}

func (p *DaoParams) MarshalJSON() ([]byte, error) {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	return json.Marshal(&daoParamsMirror{
		Version:                p.version,
		AmountPerShare:         p.amountPerShare,
		MinAcceptanceThreshold: p.minAcceptanceThreshold,
		MinVotingPeriodDays:    p.minVotingPeriodDays,
		MaxVotingPeriodDays:    p.maxVotingPeriodDays,
	})
}

func (p *DaoParams) UnmarshalJSON(bz []byte) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	tmp := &daoParamsMirror{}
	if err := json.Unmarshal(bz, tmp); err != nil {
		return err
	}
	p.version = tmp.Version
	p.amountPerShare = tmp.AmountPerShare
	p.minAcceptanceThreshold = tmp.MinAcceptanceThreshold
	p.minVotingPeriodDays = tmp.MinVotingPeriodDays
	p.maxVotingPeriodDays = tmp.MaxVotingPeriodDays
	return nil
}

func (p *DaoParams) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(abytes.ZeroBytes(32))
}

func (p *DaoParams) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(p); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (p *DaoParams) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, p); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*DaoParams)(nil)

func (p *DaoParams) String() string {
	if bz, err := json.Marshal(p); err != nil {
		return "{}"
	} else {
		return string(bz)
	}
}
