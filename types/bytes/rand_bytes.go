package bytes

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"
)

func RandBytes(n int) []byte {
	bz := make([]byte, n)
	_, _ = rand.Read(bz)
	return bz
}

func ZeroBytes(n int) []byte {
	return make([]byte, n)
}

func RandHexBytes(n int) HexBytes {
	return HexBytes(RandBytes(n))
}

func RandHexString(n int) string {
	return "0x" + hex.EncodeToString(RandBytes(n))
}

func RandInt63n(n int64) int64 {
	return mrand.Int63n(n)
}
