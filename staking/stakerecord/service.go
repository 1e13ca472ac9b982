// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakerecord

import (
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/derive"
	"github.com/vechain/nftstake/reverts"
	"github.com/vechain/nftstake/solidity"
)

var slotRecords = common.BytesToBytes32([]byte("stake-records"))

type Service struct {
	records *solidity.Mapping[common.Address, *body]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		records: solidity.NewMapping[common.Address, *body](sctx, slotRecords),
	}
}

// Get returns the live record of (user, asset), nil if none.
func (s *Service) Get(user common.Address, asset common.Bytes32) (*Record, error) {
	key := derive.Stake(user, asset)
	exists, err := s.records.Exists(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check stake record")
	}
	if !exists {
		return nil, nil
	}

	b, err := s.records.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake record")
	}
	if b.Owner != user || b.Asset != asset {
		return nil, reverts.Newf(reverts.Unauthorized, "stake record %v does not match derivation", key)
	}
	return &Record{b}, nil
}

// Add creates the record for (user, asset) staked at now.
func (s *Service) Add(user common.Address, asset common.Bytes32, now int64) (*Record, error) {
	if now < 0 {
		return nil, errors.Errorf("negative timestamp %d", now)
	}
	key := derive.Stake(user, asset)
	exists, err := s.records.Exists(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check stake record")
	}
	if exists {
		return nil, reverts.ErrAlreadyStaked
	}

	b := &body{
		Owner:    user,
		Asset:    asset,
		StakedAt: uint64(now),
	}
	if err := s.records.Set(key, b); err != nil {
		return nil, errors.Wrap(err, "failed to set stake record")
	}
	return &Record{b}, nil
}

// Remove deletes the record slot, releasing its storage.
func (s *Service) Remove(user common.Address, asset common.Bytes32) {
	s.records.Delete(derive.Stake(user, asset))
}
