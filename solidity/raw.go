// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/vechain/nftstake/common"
)

// Raw is a single rlp encoded value stored at a fixed slot.
type Raw[V any] struct {
	context *Context
	slot    common.Bytes32
}

func NewRaw[V any](context *Context, slot common.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, slot: slot}
}

// Get decodes the value. ok is false when the slot is empty.
func (r *Raw[V]) Get() (value V, ok bool, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.slot, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		ok = true
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (r *Raw[V]) Set(value V) error {
	return r.context.state.EncodeStorage(r.context.address, r.slot, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
