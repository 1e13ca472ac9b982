// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/nftstake/eventdb"
	"github.com/vechain/nftstake/staking"
)

// Option configures the host.
type Option func(*Host)

// WithEventDB makes the host index committed events.
func WithEventDB(db *eventdb.EventDB) Option {
	return func(h *Host) { h.eventDB = db }
}

// WithCacheSize sets the size of the committed slot cache, 0 disables it.
func WithCacheSize(size int) Option {
	return func(h *Host) { h.cacheSize = size }
}

// WrapCustodian intercepts the custody calls made by staking operations.
func WrapCustodian(wrap func(staking.Custodian) staking.Custodian) Option {
	return func(h *Host) { h.wrapCustodian = wrap }
}

// WrapIssuer intercepts the reward mint calls made by claims.
func WrapIssuer(wrap func(staking.Issuer) staking.Issuer) Option {
	return func(h *Host) { h.wrapIssuer = wrap }
}
