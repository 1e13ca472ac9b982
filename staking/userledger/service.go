// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package userledger

import (
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/derive"
	"github.com/vechain/nftstake/reverts"
	"github.com/vechain/nftstake/solidity"
)

var slotLedgers = common.BytesToBytes32([]byte("user-ledgers"))

type Service struct {
	ledgers *solidity.Mapping[common.Address, *Ledger]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		ledgers: solidity.NewMapping[common.Address, *Ledger](sctx, slotLedgers),
	}
}

// Get returns the ledger of user, nil if it does not exist.
func (s *Service) Get(user common.Address) (*Ledger, error) {
	key := derive.User(user)
	exists, err := s.ledgers.Exists(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check ledger")
	}
	if !exists {
		return nil, nil
	}

	l, err := s.ledgers.Get(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get ledger")
	}
	if l.Owner != user {
		return nil, reverts.Newf(reverts.Unauthorized, "ledger %v not owned by %v", key, user)
	}
	return l, nil
}

// GetOrNew returns the stored ledger or a fresh one, which is not persisted until Set.
func (s *Service) GetOrNew(user common.Address) (*Ledger, error) {
	l, err := s.Get(user)
	if err != nil {
		return nil, err
	}
	if l == nil {
		l = &Ledger{Owner: user}
	}
	return l, nil
}

// Create persists an empty ledger for user.
func (s *Service) Create(user common.Address) (*Ledger, error) {
	existing, err := s.Get(user)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, reverts.ErrAlreadyInitialized
	}
	l := &Ledger{Owner: user}
	if err := s.Set(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Set persists the ledger under its owner.
func (s *Service) Set(l *Ledger) error {
	if err := s.ledgers.Set(derive.User(l.Owner), l); err != nil {
		return errors.Wrap(err, "failed to set ledger")
	}
	return nil
}
