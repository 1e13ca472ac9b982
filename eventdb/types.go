// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/vechain/nftstake/common"
)

// Event is a staking transition stored in db.
type Event struct {
	Seq       uint64 // assigned on insert
	Kind      string
	User      common.Address
	Asset     common.Bytes32
	Amount    uint64
	Timestamp int64
}

type OrderType string

const (
	ASC  OrderType = "asc"
	DESC OrderType = "desc"
)

// Range limits the event timestamp, both ends included.
// A To lower than From leaves the range open ended.
type Range struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Empty fields match everything.
type Filter struct {
	User    *common.Address `json:"user"`
	Asset   *common.Bytes32 `json:"asset"`
	Kinds   []string        `json:"kinds"`
	Range   *Range          `json:"range"`
	Order   OrderType       `json:"order"` // default asc
	Options *Options        `json:"options"`
}
