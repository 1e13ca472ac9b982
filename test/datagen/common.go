// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/vechain/nftstake/common"
)

func RandBytes32() (b common.Bytes32) {
	rand.Read(b[:])
	return
}

// RandAddress returns a random non-zero address.
func RandAddress() (addr common.Address) {
	for addr.IsZero() {
		rand.Read(addr[:])
	}
	return
}
