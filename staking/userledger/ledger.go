// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package userledger

import (
	"math"

	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/reverts"
)

// Ledger is the per user staking account.
type Ledger struct {
	Owner        common.Address
	Points       uint32
	AmountStaked uint8
}

// AddStake increments the open stake count.
func (l *Ledger) AddStake() error {
	if l.AmountStaked == math.MaxUint8 {
		return reverts.ErrOverflow
	}
	l.AmountStaked++
	return nil
}

// SubStake decrements the open stake count.
func (l *Ledger) SubStake() error {
	if l.AmountStaked == 0 {
		return reverts.ErrUnderflow
	}
	l.AmountStaked--
	return nil
}

// Credit adds points.
func (l *Ledger) Credit(points uint8) error {
	if uint64(l.Points)+uint64(points) > math.MaxUint32 {
		return reverts.ErrOverflow
	}
	l.Points += uint32(points)
	return nil
}

// Drain zeroes the points and returns the amount drained.
func (l *Ledger) Drain() (uint32, error) {
	if l.Points == 0 {
		return 0, reverts.ErrNoRewardsToClaim
	}
	points := l.Points
	l.Points = 0
	return points, nil
}
