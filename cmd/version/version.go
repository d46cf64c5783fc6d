package version

import (
	"fmt"
	"strconv"
)

const (
	FMT_VERSTR = "%v.%v.%v-%x"
)

var (
	majorVer  uint64 = 0
	minorVer  uint64 = 9
	patchVer  uint64 = 2
	commitVer uint64 = 1

	// it is changed using ldflags.
	//  ex) -ldflags "... -X 'github.com/CaCaBlocker/nve-smart-contract/cmd/version.GitCommit=$(LVER)'"
	GitCommit string
)

func init() {
	if GitCommit != "" {
		commitVer, _ = strconv.ParseUint(GitCommit, 16, 64)
	}
}

func String() string {
	return fmt.Sprintf(FMT_VERSTR, majorVer, minorVer, patchVer, commitVer)
}

func Major() uint64 {
	return majorVer
}

func Minor() uint64 {
	return minorVer
}

func Patch() uint64 {
	return patchVer
}

func CommitHash() uint64 {
	return commitVer
}
