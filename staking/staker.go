// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/derive"
	"github.com/vechain/nftstake/log"
	"github.com/vechain/nftstake/reverts"
	"github.com/vechain/nftstake/solidity"
	"github.com/vechain/nftstake/staking/config"
	"github.com/vechain/nftstake/staking/stakerecord"
	"github.com/vechain/nftstake/staking/userledger"
	"github.com/vechain/nftstake/state"
)

var logger = log.WithContext("pkg", "staking")

func SetLogger(l log.Logger) {
	logger = l
}

// Staker implements the staking state machine.
// Every mutating operation is atomic: on error the state is reverted to
// where it was before the call.
type Staker struct {
	state *state.State

	configService *config.Service
	ledgerService *userledger.Service
	recordService *stakerecord.Service

	custody Custodian
	issuer  Issuer

	events []Event
}

// New create a new instance.
func New(st *state.State, custody Custodian, issuer Issuer) *Staker {
	sctx := solidity.NewContext(derive.Program, st)
	return &Staker{
		state:         st,
		configService: config.New(sctx),
		ledgerService: userledger.New(sctx),
		recordService: stakerecord.New(sctx),
		custody:       custody,
		issuer:        issuer,
	}
}

// Events returns the events emitted by successful operations.
func (s *Staker) Events() []Event {
	return s.events
}

// atomic runs fn, reverting every state change made by fn if it fails.
func (s *Staker) atomic(op string, fn func() error) error {
	chk := s.state.NewCheckpoint()
	err := fn()
	if err != nil {
		s.state.RevertTo(chk)
	}
	recordOp(op, err)
	return err
}

//
// Getters - no state change
//

// Config returns the program config, nil if not initialized.
func (s *Staker) Config() (*config.Config, error) {
	return s.configService.Get()
}

// Ledger returns the ledger of user, nil if the user has none.
func (s *Staker) Ledger(user common.Address) (*userledger.Ledger, error) {
	return s.ledgerService.Get(user)
}

// Record returns the live stake record of (user, asset), nil if not staked.
func (s *Staker) Record(user common.Address, asset common.Bytes32) (*stakerecord.Record, error) {
	return s.recordService.Get(user, asset)
}

//
// Setters - state change
//

// Initialize creates the program config with caller as admin.
func (s *Staker) Initialize(caller common.Address, pointsPerStake, maxStake uint8, freezePeriod uint32, now int64) (*config.Config, error) {
	logger.Debug("initializing", "admin", caller,
		"pointsPerStake", pointsPerStake,
		"maxStake", maxStake,
		"freezePeriod", freezePeriod,
	)

	var cfg *config.Config
	err := s.atomic("initialize", func() (err error) {
		if caller.IsZero() {
			return reverts.ErrUnauthorized
		}
		cfg, err = s.configService.Initialize(caller, pointsPerStake, maxStake, freezePeriod)
		return err
	})
	if err != nil {
		logger.Info("initialize failed", "admin", caller, "error", err)
		return nil, err
	}

	s.emit(Event{Kind: EventInitialized, User: caller, Time: now})
	logger.Info("initialized", "admin", caller, "rewardsMint", cfg.RewardsMint)
	return cfg, nil
}

// InitUser creates the ledger of user.
func (s *Staker) InitUser(user common.Address) (*userledger.Ledger, error) {
	logger.Debug("initializing user", "user", user)

	var ledger *userledger.Ledger
	err := s.atomic("init_user", func() (err error) {
		if user.IsZero() {
			return reverts.ErrUnauthorized
		}
		ledger, err = s.ledgerService.Create(user)
		return err
	})
	if err != nil {
		logger.Info("init user failed", "user", user, "error", err)
		return nil, err
	}

	logger.Info("initialized user", "user", user)
	return ledger, nil
}

// Stake escrows asset for user and opens a stake record at now.
func (s *Staker) Stake(user common.Address, asset common.Bytes32, now int64) error {
	logger.Debug("staking", "user", user, "asset", asset, "now", now)

	err := s.atomic("stake", func() error {
		if user.IsZero() {
			return reverts.ErrUnauthorized
		}
		cfg, err := s.configService.Require()
		if err != nil {
			return err
		}
		ledger, err := s.ledgerService.GetOrNew(user)
		if err != nil {
			return err
		}
		if ledger.AmountStaked >= cfg.MaxStake {
			return reverts.Newf(reverts.LimitExceeded, "max stake %d reached", cfg.MaxStake)
		}
		record, err := s.recordService.Get(user, asset)
		if err != nil {
			return err
		}
		if record != nil {
			return reverts.ErrAlreadyStaked
		}

		// effects
		if _, err := s.recordService.Add(user, asset, now); err != nil {
			return err
		}
		if err := ledger.AddStake(); err != nil {
			return err
		}
		if err := s.ledgerService.Set(ledger); err != nil {
			return err
		}

		// interaction
		if err := s.custody.Deposit(asset, user); err != nil {
			return reverts.Wrap(reverts.CustodyFailure, err, "deposit")
		}
		return nil
	})
	if err != nil {
		logger.Info("stake failed", "user", user, "asset", asset, "error", err)
		return err
	}

	s.emit(Event{Kind: EventStaked, User: user, Asset: asset, Time: now})
	logger.Info("staked", "user", user, "asset", asset)
	return nil
}

// Unstake closes the stake record of (user, asset), credits points and
// returns the asset to user.
func (s *Staker) Unstake(user common.Address, asset common.Bytes32, now int64) error {
	logger.Debug("unstaking", "user", user, "asset", asset, "now", now)

	var credited uint8
	err := s.atomic("unstake", func() error {
		if user.IsZero() {
			return reverts.ErrUnauthorized
		}
		cfg, err := s.configService.Require()
		if err != nil {
			return err
		}
		record, err := s.recordService.Get(user, asset)
		if err != nil {
			return err
		}
		if record == nil {
			return reverts.ErrNotStaked
		}
		if !record.Unlocked(now, cfg.FreezePeriod) {
			return reverts.Newf(reverts.TimeNotElapsed, "asset locked until %d", record.UnlockAt(cfg.FreezePeriod))
		}
		ledger, err := s.ledgerService.Get(user)
		if err != nil {
			return err
		}
		if ledger == nil {
			return reverts.ErrUnderflow
		}

		// effects
		if err := ledger.SubStake(); err != nil {
			return err
		}
		if err := ledger.Credit(cfg.PointsPerStake); err != nil {
			return err
		}
		if err := s.ledgerService.Set(ledger); err != nil {
			return err
		}
		s.recordService.Remove(user, asset)

		// interaction
		if err := s.custody.Withdraw(asset, user, derive.ConfigAuthority()); err != nil {
			return reverts.Wrap(reverts.CustodyFailure, err, "withdraw")
		}
		credited = cfg.PointsPerStake
		return nil
	})
	if err != nil {
		logger.Info("unstake failed", "user", user, "asset", asset, "error", err)
		return err
	}

	metricPointsCounter().AddWithLabel(int64(credited), map[string]string{"type": "credited"})
	s.emit(Event{Kind: EventUnstaked, User: user, Asset: asset, Amount: uint64(credited), Time: now})
	logger.Info("unstaked", "user", user, "asset", asset, "points", credited)
	return nil
}

// Claim mints all accrued points of user as reward tokens and zeroes them.
func (s *Staker) Claim(user common.Address, now int64) (uint32, error) {
	logger.Debug("claiming", "user", user)

	var points uint32
	err := s.atomic("claim", func() error {
		if user.IsZero() {
			return reverts.ErrUnauthorized
		}
		if _, err := s.configService.Require(); err != nil {
			return err
		}
		ledger, err := s.ledgerService.Get(user)
		if err != nil {
			return err
		}
		if ledger == nil {
			return reverts.ErrNoRewardsToClaim
		}

		if points, err = ledger.Drain(); err != nil {
			return err
		}
		if err := s.ledgerService.Set(ledger); err != nil {
			return err
		}

		if err := s.issuer.Mint(user, uint64(points), derive.ConfigAuthority()); err != nil {
			return reverts.Wrap(reverts.IssuanceFailure, err, "mint")
		}
		return nil
	})
	if err != nil {
		logger.Info("claim failed", "user", user, "error", err)
		return 0, err
	}

	metricPointsCounter().AddWithLabel(int64(points), map[string]string{"type": "minted"})
	s.emit(Event{Kind: EventClaimed, User: user, Amount: uint64(points), Time: now})
	logger.Info("claimed", "user", user, "points", points)
	return points, nil
}

func (s *Staker) emit(ev Event) {
	s.events = append(s.events, ev)
}
