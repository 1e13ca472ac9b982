// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakerecord

import (
	"github.com/vechain/nftstake/common"
)

type body struct {
	Owner    common.Address
	Asset    common.Bytes32
	StakedAt uint64
}

// Record proves an asset is escrowed under its owner.
type Record struct {
	body *body
}

func (r *Record) Owner() common.Address { return r.body.Owner }
func (r *Record) Asset() common.Bytes32 { return r.body.Asset }
func (r *Record) StakedAt() int64       { return int64(r.body.StakedAt) }

// UnlockAt returns the first time the asset may be withdrawn.
func (r *Record) UnlockAt(freezePeriod uint32) int64 {
	return int64(r.body.StakedAt + uint64(freezePeriod))
}

// Unlocked returns whether freezePeriod seconds have passed since staking.
// A clock earlier than the staking time never unlocks.
func (r *Record) Unlocked(now int64, freezePeriod uint32) bool {
	if now < 0 || uint64(now) < r.body.StakedAt {
		return false
	}
	return uint64(now)-r.body.StakedAt >= uint64(freezePeriod)
}
