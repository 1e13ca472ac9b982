// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/derive"
	"github.com/vechain/nftstake/reverts"
	"github.com/vechain/nftstake/solidity"
)

var slotConfig = common.BytesToBytes32(derive.Config().Bytes())

type Service struct {
	config *solidity.Raw[Config]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		config: solidity.NewRaw[Config](sctx, slotConfig),
	}
}

// Get returns the config, nil if not initialized.
func (s *Service) Get() (*Config, error) {
	c, ok, err := s.config.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	}
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// Require returns the config or ErrNotInitialized.
func (s *Service) Require() (*Config, error) {
	c, err := s.Get()
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, reverts.ErrNotInitialized
	}
	return c, nil
}

// Initialize writes the config once.
func (s *Service) Initialize(admin common.Address, pointsPerStake, maxStake uint8, freezePeriod uint32) (*Config, error) {
	existing, err := s.Get()
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, reverts.ErrAlreadyInitialized
	}

	authority := derive.Config()
	c := &Config{
		PointsPerStake: pointsPerStake,
		MaxStake:       maxStake,
		FreezePeriod:   freezePeriod,
		Admin:          admin,
		RewardsMint:    derive.Rewards(authority),
		Authority:      authority,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.config.Set(*c); err != nil {
		return nil, errors.Wrap(err, "failed to set config")
	}
	return c, nil
}
