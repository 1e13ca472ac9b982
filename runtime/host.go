// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime hosts the staking program. It serializes transactions,
// commits successful ones to the kv store and publishes their events.
package runtime

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/clock"
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/custody"
	"github.com/vechain/nftstake/derive"
	"github.com/vechain/nftstake/eventdb"
	"github.com/vechain/nftstake/kv"
	"github.com/vechain/nftstake/log"
	"github.com/vechain/nftstake/rewards"
	"github.com/vechain/nftstake/staking"
	"github.com/vechain/nftstake/staking/config"
	"github.com/vechain/nftstake/staking/stakerecord"
	"github.com/vechain/nftstake/staking/userledger"
	"github.com/vechain/nftstake/state"
)

var logger = log.WithContext("pkg", "runtime")

const defaultCacheSize = 4096

// Host runs staking operations as serializable transactions.
type Host struct {
	mu sync.RWMutex

	store   kv.Store
	cache   *state.Cache
	clock   clock.Clock
	eventDB *eventdb.EventDB

	cacheSize     int
	wrapCustodian func(staking.Custodian) staking.Custodian
	wrapIssuer    func(staking.Issuer) staking.Issuer

	pub *publisher
}

// New creates a host over store.
func New(store kv.Store, clk clock.Clock, opts ...Option) (*Host, error) {
	h := &Host{
		store:     store,
		clock:     clk,
		cacheSize: defaultCacheSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.cacheSize > 0 {
		c, err := state.NewCache(h.cacheSize)
		if err != nil {
			return nil, err
		}
		h.cache = c
	}
	h.pub = newPublisher()
	return h, nil
}

// Close unsubscribes all event subscribers and stops event delivery.
func (h *Host) Close() {
	h.pub.close()
}

// EventDB returns the event index, nil if not configured.
func (h *Host) EventDB() *eventdb.EventDB {
	return h.eventDB
}

// SubscribeEvents delivers committed events to ch in commit order.
// Delivery runs apart from transactions; a slow receiver only delays
// the events of other subscribers.
func (h *Host) SubscribeEvents(ch chan<- *eventdb.Event) event.Subscription {
	return h.pub.subscribe(ch)
}

// env binds the program components to one transaction's state.
type env struct {
	state  *state.State
	vault  *custody.Vault
	token  *rewards.Token
	staker *staking.Staker
	now    int64
}

func (h *Host) newEnv(st *state.State) *env {
	authority := derive.Config()
	e := &env{
		state: st,
		vault: custody.New(st, authority),
		token: rewards.New(st, derive.Rewards(authority), authority),
		now:   h.clock.Now().Unix(),
	}
	var (
		c staking.Custodian = e.vault
		i staking.Issuer    = e.token
	)
	if h.wrapCustodian != nil {
		c = h.wrapCustodian(c)
	}
	if h.wrapIssuer != nil {
		i = h.wrapIssuer(i)
	}
	e.staker = staking.New(st, c, i)
	return e
}

// execute runs fn as one transaction. The state is committed only if fn
// succeeds; a context done before the transaction starts aborts it.
func (h *Host) execute(ctx context.Context, op string, fn func(e *env) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "failed"
		}
		metricTxDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op, "result": result})
	}()

	return h.commit(ctx, fn)
}

// commit runs fn under the write lock. Events of a committed transaction
// are indexed and queued for delivery before the lock is released, so
// both follow commit order.
func (h *Host) commit(ctx context.Context, fn func(e *env) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	// a failed or panicking fn leaves nothing behind: the state is per call
	e := h.newEnv(state.New(h.store, h.cache))
	chk := e.state.NewCheckpoint()
	if err := fn(e); err != nil {
		e.state.RevertTo(chk)
		return err
	}
	if err := e.state.Stage().Commit(h.store); err != nil {
		return errors.Wrap(err, "commit")
	}
	if h.cache != nil {
		if changed, hit, miss := h.cache.Stats().Stats(); changed {
			logger.Debug("state cache stats", "hit", hit, "miss", miss)
			metricCacheStats().SetWithLabel(hit, map[string]string{"type": "hit"})
			metricCacheStats().SetWithLabel(miss, map[string]string{"type": "miss"})
		}
	}
	h.pub.enqueue(h.index(e.staker.Events()))
	return nil
}

// index records committed events in the event db, returning them for delivery.
func (h *Host) index(events []staking.Event) []*eventdb.Event {
	if len(events) == 0 {
		return nil
	}
	records := make([]*eventdb.Event, 0, len(events))
	for _, ev := range events {
		records = append(records, &eventdb.Event{
			Kind:      string(ev.Kind),
			User:      ev.User,
			Asset:     ev.Asset,
			Amount:    ev.Amount,
			Timestamp: ev.Time,
		})
		metricEventCount().AddWithLabel(1, map[string]string{"kind": string(ev.Kind)})
	}
	if h.eventDB != nil {
		// the transaction is already committed, the index lags on failure
		if err := h.eventDB.Insert(context.Background(), records); err != nil {
			logger.Warn("failed to index events", "count", len(records), "err", err)
		}
	}
	return records
}

// view runs fn against the committed state.
func (h *Host) view(fn func(e *env) error) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return fn(h.newEnv(state.New(h.store, h.cache)))
}

// Initialize creates the program config with admin as caller.
func (h *Host) Initialize(ctx context.Context, admin common.Address, pointsPerStake, maxStake uint8, freezePeriod uint32) (cfg *config.Config, err error) {
	err = h.execute(ctx, "initialize", func(e *env) error {
		cfg, err = e.staker.Initialize(admin, pointsPerStake, maxStake, freezePeriod, e.now)
		return err
	})
	return
}

// InitUser creates the ledger of user.
func (h *Host) InitUser(ctx context.Context, user common.Address) (ledger *userledger.Ledger, err error) {
	err = h.execute(ctx, "init_user", func(e *env) error {
		ledger, err = e.staker.InitUser(user)
		return err
	})
	return
}

// Stake escrows asset on behalf of user.
func (h *Host) Stake(ctx context.Context, user common.Address, asset common.Bytes32) error {
	return h.execute(ctx, "stake", func(e *env) error {
		return e.staker.Stake(user, asset, e.now)
	})
}

// Unstake returns asset to user and credits points.
func (h *Host) Unstake(ctx context.Context, user common.Address, asset common.Bytes32) error {
	return h.execute(ctx, "unstake", func(e *env) error {
		return e.staker.Unstake(user, asset, e.now)
	})
}

// Claim mints the accrued points of user, returning the minted amount.
func (h *Host) Claim(ctx context.Context, user common.Address) (points uint32, err error) {
	err = h.execute(ctx, "claim", func(e *env) error {
		points, err = e.staker.Claim(user, e.now)
		return err
	})
	return
}

// RegisterAsset records a new asset held by owner.
func (h *Host) RegisterAsset(ctx context.Context, asset common.Bytes32, owner common.Address) error {
	return h.execute(ctx, "register_asset", func(e *env) error {
		return e.vault.Register(asset, owner)
	})
}

// Config returns the program config, nil if not initialized.
func (h *Host) Config() (cfg *config.Config, err error) {
	err = h.view(func(e *env) error {
		cfg, err = e.staker.Config()
		return err
	})
	return
}

// Ledger returns the ledger of user, nil if absent.
func (h *Host) Ledger(user common.Address) (ledger *userledger.Ledger, err error) {
	err = h.view(func(e *env) error {
		ledger, err = e.staker.Ledger(user)
		return err
	})
	return
}

// Record returns the live stake record of (user, asset), nil if absent.
func (h *Host) Record(user common.Address, asset common.Bytes32) (record *stakerecord.Record, err error) {
	err = h.view(func(e *env) error {
		record, err = e.staker.Record(user, asset)
		return err
	})
	return
}

// RewardBalance returns the reward token balance of user.
func (h *Host) RewardBalance(user common.Address) (bal *big.Int, err error) {
	err = h.view(func(e *env) error {
		bal, err = e.token.BalanceOf(user)
		return err
	})
	return
}

// RewardSupply returns the total minted rewards.
func (h *Host) RewardSupply() (supply *big.Int, err error) {
	err = h.view(func(e *env) error {
		supply, err = e.token.TotalSupply()
		return err
	})
	return
}

// HolderOf returns the holder of asset, zero if unknown.
func (h *Host) HolderOf(asset common.Bytes32) (holder common.Address, err error) {
	err = h.view(func(e *env) error {
		holder, err = e.vault.HolderOf(asset)
		return err
	})
	return
}

// Escrowed returns the number of assets user has in escrow.
func (h *Host) Escrowed(user common.Address) (n uint64, err error) {
	err = h.view(func(e *env) error {
		n, err = e.vault.Escrowed(user)
		return err
	})
	return
}

// Now returns the host clock in unix seconds.
func (h *Host) Now() int64 {
	return h.clock.Now().Unix()
}
