package ledger

import (
	"bytes"
	"encoding/binary"
	"github.com/CaCaBlocker/nve-smart-contract/types/xerrors"
	"sort"
)

const LEDGERKEYSIZE = 32

type LedgerKey = [LEDGERKEYSIZE]byte

func ToLedgerKey(s []byte) LedgerKey {
	var ret LedgerKey
	n := len(s)
	if n > LEDGERKEYSIZE {
		n = LEDGERKEYSIZE
	}
	copy(ret[:], s[:n])
	return ret
}

// ToLedgerKeyUint64 encodes a sequence number as a big-endian ledger key,
// so that iteration order equals numeric order.
func ToLedgerKeyUint64(n uint64) LedgerKey {
	var ret LedgerKey
	binary.BigEndian.PutUint64(ret[LEDGERKEYSIZE-8:], n)
	return ret
}

func FromLedgerKeyUint64(k LedgerKey) uint64 {
	return binary.BigEndian.Uint64(k[LEDGERKEYSIZE-8:])
}

type LedgerKeyList []LedgerKey

func (a LedgerKeyList) Len() int {
	return len(a)
}
func (a LedgerKeyList) Less(i, j int) bool {
	return bytes.Compare(a[i][:], a[j][:]) < 0
}
func (a LedgerKeyList) Swap(i, j int) {
	a[i], a[j] = a[j], a[i]
}

var _ sort.Interface = LedgerKeyList(nil)

type ILedgerItem interface {
	Key() LedgerKey
	Encode() ([]byte, xerrors.XError)
	Decode([]byte) xerrors.XError
}

type ILedger[T ILedgerItem] interface {
	Set(T) xerrors.XError
	Get(LedgerKey) (T, xerrors.XError)
	Del(LedgerKey) (T, xerrors.XError)
	Read(LedgerKey) (T, xerrors.XError)
	IterateReadAllItems(func(T) xerrors.XError) xerrors.XError
	IterateUpdatedItems(func(T) xerrors.XError) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Clone() ILedger[T]
	Close() xerrors.XError
}
