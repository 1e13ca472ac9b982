// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/custody"
	"github.com/vechain/nftstake/derive"
	"github.com/vechain/nftstake/kv"
	"github.com/vechain/nftstake/rewards"
	"github.com/vechain/nftstake/state"
)

type testEnv struct {
	state  *state.State
	vault  *custody.Vault
	token  *rewards.Token
	staker *Staker
}

func newTestEnv() *testEnv {
	st := state.New(kv.NewMemLevelDB(), nil)
	vault := custody.New(st, derive.Config())
	token := rewards.New(st, derive.Rewards(derive.Config()), derive.Config())
	return &testEnv{
		state:  st,
		vault:  vault,
		token:  token,
		staker: New(st, vault, token),
	}
}

// newInitializedEnv returns an env with config set and assets registered to owner.
func newInitializedEnv(t *testing.T, pointsPerStake, maxStake uint8, freeze uint32, owner common.Address, assets ...common.Bytes32) *testEnv {
	env := newTestEnv()
	admin := common.BytesToAddress([]byte("admin"))
	_, err := env.staker.Initialize(admin, pointsPerStake, maxStake, freeze, 0)
	require.NoError(t, err)
	for _, a := range assets {
		require.NoError(t, env.vault.Register(a, owner))
	}
	return env
}

type failingCustody struct{ err error }

func (f *failingCustody) Deposit(common.Bytes32, common.Address) error                { return f.err }
func (f *failingCustody) Withdraw(common.Bytes32, common.Address, derive.Proof) error { return f.err }

type failingIssuer struct{ err error }

func (f *failingIssuer) Mint(common.Address, uint64, derive.Proof) error { return f.err }

var errInjected = errors.New("injected failure")

type TestFunc func(t *testing.T)

type TestSequence struct {
	env *testEnv
	now int64

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(env *testEnv) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), env: env}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) Advance(seconds int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.now += seconds
	})
}

func (st *TestSequence) Stake(user common.Address, asset common.Bytes32, expected error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.env.staker.Stake(user, asset, st.now)
		if expected == nil {
			require.NoError(t, err, "stake %v", asset)
		} else {
			require.ErrorIs(t, err, expected, "stake %v", asset)
		}
	})
}

func (st *TestSequence) Unstake(user common.Address, asset common.Bytes32, expected error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.env.staker.Unstake(user, asset, st.now)
		if expected == nil {
			require.NoError(t, err, "unstake %v", asset)
		} else {
			require.ErrorIs(t, err, expected, "unstake %v", asset)
		}
	})
}

func (st *TestSequence) Claim(user common.Address, points uint32, expected error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		claimed, err := st.env.staker.Claim(user, st.now)
		if expected == nil {
			require.NoError(t, err, "claim")
		} else {
			require.ErrorIs(t, err, expected, "claim")
		}
		assert.Equal(t, points, claimed)
	})
}

func (st *TestSequence) AssertLedger(user common.Address, points uint32, amountStaked uint8) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		ledger, err := st.env.staker.Ledger(user)
		require.NoError(t, err)
		require.NotNil(t, ledger)
		assert.Equal(t, points, ledger.Points, "points")
		assert.Equal(t, amountStaked, ledger.AmountStaked, "amount staked")
	})
}

func (st *TestSequence) AssertHolder(asset common.Bytes32, holder common.Address) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		actual, err := st.env.vault.HolderOf(asset)
		require.NoError(t, err)
		assert.Equal(t, holder, actual, "holder of %v", asset)
	})
}

func (st *TestSequence) AssertBalance(user common.Address, balance int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		actual, err := st.env.token.BalanceOf(user)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(balance), actual, "reward balance")
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}

	t.Logf("All test functions executed successfully")
}
