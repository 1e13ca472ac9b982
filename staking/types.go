// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/derive"
)

// Custodian moves assets in and out of escrow.
type Custodian interface {
	Deposit(asset common.Bytes32, from common.Address) error
	Withdraw(asset common.Bytes32, to common.Address, proof derive.Proof) error
}

// Issuer mints reward units.
type Issuer interface {
	Mint(to common.Address, amount uint64, proof derive.Proof) error
}

// EventKind identifies a state transition.
type EventKind string

const (
	EventInitialized EventKind = "Initialized"
	EventStaked      EventKind = "Staked"
	EventUnstaked    EventKind = "Unstaked"
	EventClaimed     EventKind = "Claimed"
)

// Event records a successful state transition.
type Event struct {
	Kind   EventKind
	User   common.Address
	Asset  common.Bytes32 // zero for Claimed and Initialized
	Amount uint64         // points credited or minted
	Time   int64
}
