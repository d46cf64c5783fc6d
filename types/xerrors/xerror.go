package xerrors

import (
	"fmt"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ErrCodeSuccess uint32 = abcitypes.CodeTypeOK + iota
	ErrCodeGeneric
	ErrCodeInitChain
	ErrCodeCommit
	ErrCodeNotFoundResult
	ErrCodeNotFoundProposal
	ErrCodeNotFoundMember
	ErrCodeNotMember
	ErrCodeAlreadyMember
	ErrCodeInvalidProposal
	ErrCodeInvalidChoice
	ErrCodeNotVotingPeriod
	ErrCodeNotStarted
	ErrCodeNotYetExpired
	ErrCodeAlreadyProcessed
	ErrCodeAlreadyEnacted
	ErrCodeAlreadyVoted
	ErrCodeVotesPending
	ErrCodeInsufficientShares
	ErrCodeInsufficientFund
	ErrCodeNoRight
)

const (
	ErrCodeQuery uint32 = 1000 + iota
	ErrCodeInvalidQueryCmd
	ErrCodeInvalidQueryParams
)

var (
	ErrInitChain = NewWith(ErrCodeInitChain, "InitChain failed")
	ErrCommit    = NewWith(ErrCodeCommit, "Commit failed")

	ErrNotFoundResult   = NewWith(ErrCodeNotFoundResult, "not found result")
	ErrNotFoundProposal = NewWith(ErrCodeNotFoundProposal, "not found proposal")
	ErrNotFoundMember   = NewWith(ErrCodeNotFoundMember, "not found member")

	ErrNotMember     = NewWith(ErrCodeNotMember, "not a member")
	ErrAlreadyMember = NewWith(ErrCodeAlreadyMember, "already a member")

	ErrInvalidProposal  = NewWith(ErrCodeInvalidProposal, "invalid proposal")
	ErrInvalidThreshold = ErrInvalidProposal.Wrapf("acceptance threshold is too low")
	ErrInvalidDuration  = ErrInvalidProposal.Wrapf("voting period is out of range")
	ErrInvalidTarget    = ErrInvalidProposal.Wrapf("governance proposal requires a target address")
	ErrInvalidChoice    = NewWith(ErrCodeInvalidChoice, "invalid vote choice")

	ErrNotVotingPeriod  = NewWith(ErrCodeNotVotingPeriod, "not voting period")
	ErrNotStarted       = NewWith(ErrCodeNotStarted, "voting is not started")
	ErrNotYetExpired    = NewWith(ErrCodeNotYetExpired, "voting is not finished")
	ErrAlreadyProcessed = NewWith(ErrCodeAlreadyProcessed, "proposal is already processed")
	ErrAlreadyEnacted   = NewWith(ErrCodeAlreadyEnacted, "proposal is already enacted")
	ErrAlreadyVoted     = NewWith(ErrCodeAlreadyVoted, "already voted for this choice")

	ErrVotesPending       = NewWith(ErrCodeVotesPending, "votes are pending on open proposals")
	ErrInsufficientShares = NewWith(ErrCodeInsufficientShares, "insufficient shares")
	ErrInsufficientFund   = NewWith(ErrCodeInsufficientFund, "insufficient fund")
	ErrNoRight            = NewWith(ErrCodeNoRight, "no right")

	ErrQuery              = NewWith(ErrCodeQuery, "query failed")
	ErrInvalidQueryCmd    = NewWith(ErrCodeInvalidQueryCmd, "invalid query command")
	ErrInvalidQueryParams = NewWith(ErrCodeInvalidQueryParams, "invalid query parameters")
)

type XError interface {
	Code() uint32
	Error() string
	Cause() error
	Wrap(error) XError
	Wrapf(string, ...interface{}) XError
	Unwrap() error
}

type xerr struct {
	code  uint32
	msg   string
	cause error
}

func NewOrdinary(m string) XError {
	return &xerr{
		code: ErrCodeGeneric,
		msg:  m,
	}
}

func NewWith(code uint32, msg string) XError {
	return &xerr{
		code: code,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	if xe, ok := err.(XError); ok {
		return xe
	}
	return &xerr{
		code: ErrCodeGeneric,
		msg:  err.Error(),
	}
}

func (e *xerr) Code() uint32 {
	return e.code
}

func (e *xerr) Error() string {
	if e.cause != nil {
		return e.msg + "<<" + e.cause.Error()
	}
	return e.msg
}

func (e *xerr) Cause() error {
	return e.cause
}

func (e *xerr) Unwrap() error {
	return e.Cause()
}

func (e *xerr) Wrap(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrapf(format string, args ...interface{}) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: fmt.Errorf(format, args...),
	}
}
