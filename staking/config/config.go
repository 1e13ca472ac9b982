// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/reverts"
)

// Config holds the program wide staking parameters.
type Config struct {
	PointsPerStake uint8  // points credited per completed stake
	MaxStake       uint8  // max concurrent stakes per user
	FreezePeriod   uint32 // seconds an asset stays locked after staking
	Admin          common.Address
	RewardsMint    common.Address
	Authority      common.Address // signs custody and issuance calls
}

// Validate checks the parameters are usable.
func (c *Config) Validate() error {
	if c.MaxStake == 0 {
		return reverts.Newf(reverts.InvalidConfig, "max stake must be positive")
	}
	if c.Admin.IsZero() {
		return reverts.Newf(reverts.InvalidConfig, "admin required")
	}
	return nil
}
