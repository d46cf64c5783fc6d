package crypto

import (
	"github.com/tendermint/tendermint/crypto/tmhash"
	"hash"
)

func DefaultHash(datas ...[]byte) []byte {
	hasher := DefaultHasher()
	for _, bz := range datas {
		hasher.Write(bz)
	}
	return hasher.Sum(nil)
}

func DefaultHasher() hash.Hash {
	return tmhash.New()
}

func DefaultHasherName() string {
	return "sha256"
}
