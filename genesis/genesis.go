package genesis

import (
	ctrlertypes "github.com/CaCaBlocker/nve-smart-contract/ctrlers/types"
	"github.com/CaCaBlocker/nve-smart-contract/types"
	"github.com/CaCaBlocker/nve-smart-contract/types/crypto"
	"github.com/holiman/uint256"
	tmjson "github.com/tendermint/tendermint/libs/json"
)

// GenesisMember is a founding member: its stake is assumed to be already
// held by the custodian at chain start.
type GenesisMember struct {
	Address types.Address `json:"address"`
	Stake   *uint256.Int  `json:"stake"`
}

func (gm *GenesisMember) Hash() []byte {
	return crypto.DefaultHash(gm.Address, gm.Stake.Bytes())
}

// GenesisAssetHolder is an initial token balance on the custodian side.
type GenesisAssetHolder struct {
	Address types.Address `json:"address"`
	Balance *uint256.Int  `json:"balance"`
}

func (gh *GenesisAssetHolder) Hash() []byte {
	return crypto.DefaultHash(gh.Address, gh.Balance.Bytes())
}

type GenesisAppState struct {
	AssetHolders []*GenesisAssetHolder  `json:"assetHolders"`
	Members      []*GenesisMember       `json:"members"`
	DaoParams    *ctrlertypes.DaoParams `json:"daoParams"`
}

func DefaultGenesisAppState() *GenesisAppState {
	return &GenesisAppState{
		DaoParams: ctrlertypes.DefaultDaoParams(),
	}
}

func (ga *GenesisAppState) Encode() ([]byte, error) {
	return tmjson.Marshal(ga)
}

func (ga *GenesisAppState) Decode(bz []byte) error {
	return tmjson.Unmarshal(bz, ga)
}

func (ga *GenesisAppState) Hash() ([]byte, error) {
	hasher := crypto.DefaultHasher()
	if bz, err := ga.DaoParams.Encode(); err != nil {
		return nil, err
	} else if _, err := hasher.Write(bz); err != nil {
		return nil, err
	} else {
		for _, h := range ga.AssetHolders {
			if _, err := hasher.Write(h.Hash()); err != nil {
				return nil, err
			}
		}
		for _, m := range ga.Members {
			if _, err := hasher.Write(m.Hash()); err != nil {
				return nil, err
			}
		}
	}
	return hasher.Sum(nil), nil
}
