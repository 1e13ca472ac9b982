// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/eventdb"
)

// FilteredEvent is an indexed staking event.
type FilteredEvent struct {
	Seq       uint64         `json:"seq"`
	Kind      string         `json:"kind"`
	User      common.Address `json:"user"`
	Asset     common.Bytes32 `json:"asset"`
	Amount    uint64         `json:"amount"`
	Timestamp int64          `json:"timestamp"`
}

// ConvertEvent converts an indexed event to its json form.
func ConvertEvent(e *eventdb.Event) *FilteredEvent {
	return &FilteredEvent{
		Seq:       e.Seq,
		Kind:      e.Kind,
		User:      e.User,
		Asset:     e.Asset,
		Amount:    e.Amount,
		Timestamp: e.Timestamp,
	}
}
