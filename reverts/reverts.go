// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a business rule failure.
type Kind uint8

const (
	Unknown Kind = iota
	Unauthorized
	LimitExceeded
	AlreadyStaked
	NotStaked
	TimeNotElapsed
	Underflow
	Overflow
	NoRewardsToClaim
	CustodyFailure
	IssuanceFailure
	NotInitialized
	AlreadyInitialized
	InvalidConfig
)

var kindNames = map[Kind]string{
	Unknown:            "Unknown",
	Unauthorized:       "Unauthorized",
	LimitExceeded:      "LimitExceeded",
	AlreadyStaked:      "AlreadyStaked",
	NotStaked:          "NotStaked",
	TimeNotElapsed:     "TimeNotElapsed",
	Underflow:          "Underflow",
	Overflow:           "Overflow",
	NoRewardsToClaim:   "NoRewardsToClaim",
	CustodyFailure:     "CustodyFailure",
	IssuanceFailure:    "IssuanceFailure",
	NotInitialized:     "NotInitialized",
	AlreadyInitialized: "AlreadyInitialized",
	InvalidConfig:      "InvalidConfig",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

var (
	ErrUnauthorized       = New(Unauthorized, "caller is not authorized")
	ErrLimitExceeded      = New(LimitExceeded, "max stake reached")
	ErrAlreadyStaked      = New(AlreadyStaked, "asset already staked")
	ErrNotStaked          = New(NotStaked, "asset not staked")
	ErrTimeNotElapsed     = New(TimeNotElapsed, "freeze period not elapsed")
	ErrUnderflow          = New(Underflow, "arithmetic underflow")
	ErrOverflow           = New(Overflow, "arithmetic overflow")
	ErrNoRewardsToClaim   = New(NoRewardsToClaim, "no rewards to claim")
	ErrCustodyFailure     = New(CustodyFailure, "custody call failed")
	ErrIssuanceFailure    = New(IssuanceFailure, "reward issuance failed")
	ErrNotInitialized     = New(NotInitialized, "config not initialized")
	ErrAlreadyInitialized = New(AlreadyInitialized, "already initialized")
	ErrInvalidConfig      = New(InvalidConfig, "invalid config")
)

// ErrRevert aborts the running transaction. Two reverts match with errors.Is when their kinds are equal.
type ErrRevert struct {
	kind    Kind
	message string
	cause   error
}

// New creates a revert error of the kind.
func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

// Newf creates a revert error with a formatted message.
func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap creates a revert error of the kind caused by err.
func Wrap(kind Kind, err error, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
		cause:   err,
	}
}

func (e *ErrRevert) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

// Kind returns the failure kind.
func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func (e *ErrRevert) Unwrap() error {
	return e.cause
}

func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if errors.As(target, &t) {
		return t != nil && t.kind == e.kind
	}
	return false
}

// KindOf returns the kind of the revert carried by err, or Unknown.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) && ve != nil {
		return ve.kind
	}
	return Unknown
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	if errors.As(e, &ve) {
		return ve != nil
	}
	return false
}
