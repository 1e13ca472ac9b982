// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/staking/config"
	"github.com/vechain/nftstake/staking/stakerecord"
	"github.com/vechain/nftstake/staking/userledger"
)

type Config struct {
	PointsPerStake uint8          `json:"pointsPerStake"`
	MaxStake       uint8          `json:"maxStake"`
	FreezePeriod   uint32         `json:"freezePeriod"`
	Admin          common.Address `json:"admin"`
	RewardsMint    common.Address `json:"rewardsMint"`
	Authority      common.Address `json:"authority"`
}

func convertConfig(c *config.Config) *Config {
	return &Config{
		PointsPerStake: c.PointsPerStake,
		MaxStake:       c.MaxStake,
		FreezePeriod:   c.FreezePeriod,
		Admin:          c.Admin,
		RewardsMint:    c.RewardsMint,
		Authority:      c.Authority,
	}
}

type Ledger struct {
	Owner         common.Address `json:"owner"`
	Points        uint32         `json:"points"`
	AmountStaked  uint8          `json:"amountStaked"`
	Escrowed      uint64         `json:"escrowed"`
	RewardBalance string         `json:"rewardBalance"`
}

func convertLedger(l *userledger.Ledger) *Ledger {
	return &Ledger{
		Owner:        l.Owner,
		Points:       l.Points,
		AmountStaked: l.AmountStaked,
	}
}

type Record struct {
	Owner    common.Address `json:"owner"`
	Asset    common.Bytes32 `json:"asset"`
	StakedAt int64          `json:"stakedAt"`
	UnlockAt int64          `json:"unlockAt"`
}

func convertRecord(r *stakerecord.Record, freezePeriod uint32) *Record {
	return &Record{
		Owner:    r.Owner(),
		Asset:    r.Asset(),
		StakedAt: r.StakedAt(),
		UnlockAt: r.UnlockAt(freezePeriod),
	}
}

type Asset struct {
	Asset  common.Bytes32 `json:"asset"`
	Holder common.Address `json:"holder"`
}

type InitializeRequest struct {
	PointsPerStake uint8  `json:"pointsPerStake"`
	MaxStake       uint8  `json:"maxStake"`
	FreezePeriod   uint32 `json:"freezePeriod"`
}

type AssetRequest struct {
	Asset common.Bytes32 `json:"asset"`
}

type RegisterRequest struct {
	Asset common.Bytes32 `json:"asset"`
	Owner common.Address `json:"owner"`
}

type ClaimResult struct {
	Points uint32 `json:"points"`
}
