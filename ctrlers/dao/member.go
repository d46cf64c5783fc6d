package dao

import (
	"encoding/json"
	"github.com/CaCaBlocker/nve-smart-contract/ledger"
	"github.com/CaCaBlocker/nve-smart-contract/types"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
	"sync"
)

// Member is the per-account voting record. A member whose shares reach
// zero lapses (Exists=false) but the record is kept for audit; the voted
// proposal history survives the lapse.
type Member struct {
	Addr   types.Address `json:"address"`
	Shares int64         `json:"shares,string"`
	Exists bool          `json:"exists"`

	// VotedProposals is append-only and duplicate-free.
	// CommittedPower holds one entry per voted proposal: the shares
	// value frozen at the member's first vote on it.
	VotedProposals []uint64         `json:"votedProposals"`
	CommittedPower map[uint64]int64 `json:"committedPower"`

	mtx sync.RWMutex
}

func NewMember(addr types.Address, shares int64) *Member {
	return &Member{
		Addr:           addr,
		Shares:         shares,
		Exists:         true,
		CommittedPower: make(map[uint64]int64),
	}
}

func (m *Member) Key() ledger.LedgerKey {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	return ledger.ToLedgerKey(m.Addr)
}

func (m *Member) Encode() ([]byte, xerrors.XError) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	if bz, err := json.Marshal(m); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (m *Member) Decode(bz []byte) xerrors.XError {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if err := json.Unmarshal(bz, m); err != nil {
		return xerrors.From(err)
	}
	if m.CommittedPower == nil {
		m.CommittedPower = make(map[uint64]int64)
	}
	return nil
}

var _ ledger.ILedgerItem = (*Member)(nil)

func (m *Member) GetShares() int64 {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	return m.Shares
}

func (m *Member) IsActive() bool {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	return m.Exists && m.Shares > 0
}

func (m *Member) AddShares(shares int64) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.Shares += shares
	m.Exists = true
}

// SubShares decreases the member's shares; membership lapses at zero.
func (m *Member) SubShares(shares int64) xerrors.XError {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if shares > m.Shares {
		return xerrors.ErrInsufficientShares
	}
	m.Shares -= shares
	if m.Shares == 0 {
		m.Exists = false
	}
	return nil
}

// MarkVoted records the first vote of the member on a proposal, pinning
// the given power. Re-marking an already voted proposal is a no-op.
func (m *Member) MarkVoted(propID uint64, power int64) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if _, ok := m.CommittedPower[propID]; ok {
		return
	}
	m.VotedProposals = append(m.VotedProposals, propID)
	m.CommittedPower[propID] = power
}

func (m *Member) HasVoted(propID uint64) bool {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	_, ok := m.CommittedPower[propID]
	return ok
}

func (m *Member) CommittedPowerOf(propID uint64) int64 {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	return m.CommittedPower[propID]
}

func (m *Member) VotedProposalIDs() []uint64 {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	ids := make([]uint64, len(m.VotedProposals))
	copy(ids, m.VotedProposals)
	return ids
}

func (m *Member) String() string {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	if bz, err := json.Marshal(m); err != nil {
		return "{}"
	} else {
		return string(bz)
	}
}
