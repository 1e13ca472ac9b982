// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/derive"
	"github.com/vechain/nftstake/reverts"
	"github.com/vechain/nftstake/test/datagen"
)

func TestScenarioMaxStakeAndClaim(t *testing.T) {
	alice := datagen.RandAddress()
	a, b, c := datagen.RandBytes32(), datagen.RandBytes32(), datagen.RandBytes32()
	env := newInitializedEnv(t, 5, 2, 86400, alice, a, b, c)

	NewSequence(env).
		Stake(alice, a, nil).
		Stake(alice, b, nil).
		Stake(alice, c, reverts.ErrLimitExceeded).
		AssertLedger(alice, 0, 2).
		AssertHolder(a, derive.Vault(a)).
		AssertHolder(c, alice).
		Advance(86399).
		Unstake(alice, a, reverts.ErrTimeNotElapsed).
		Advance(1).
		Unstake(alice, a, nil).
		AssertLedger(alice, 5, 1).
		AssertHolder(a, alice).
		Claim(alice, 5, nil).
		AssertLedger(alice, 0, 1).
		AssertBalance(alice, 5).
		Claim(alice, 0, reverts.ErrNoRewardsToClaim).
		AssertBalance(alice, 5).
		Run(t)

	events := env.staker.Events()
	require.Len(t, events, 5)
	assert.Equal(t, EventInitialized, events[0].Kind)
	assert.Equal(t, EventStaked, events[1].Kind)
	assert.Equal(t, EventUnstaked, events[3].Kind)
	assert.Equal(t, uint64(5), events[3].Amount)
	assert.Equal(t, EventClaimed, events[4].Kind)
	assert.Equal(t, int64(86400), events[4].Time)
}

func TestPointsAcrossClaimCycles(t *testing.T) {
	alice := datagen.RandAddress()
	asset := datagen.RandBytes32()
	env := newInitializedEnv(t, 10, 5, 100, alice, asset)

	seq := NewSequence(env)
	for i := 0; i < 3; i++ {
		seq.Stake(alice, asset, nil).
			Advance(100).
			Unstake(alice, asset, nil).
			AssertLedger(alice, 10, 0).
			Claim(alice, 10, nil)
	}
	seq.AssertBalance(alice, 30).Run(t)
}

func TestRestakeAfterUnstake(t *testing.T) {
	alice := datagen.RandAddress()
	asset := datagen.RandBytes32()
	env := newInitializedEnv(t, 1, 1, 0, alice, asset)

	NewSequence(env).
		Stake(alice, asset, nil).
		Stake(alice, asset, reverts.ErrLimitExceeded).
		Unstake(alice, asset, nil).
		Stake(alice, asset, nil).
		Unstake(alice, asset, nil).
		AssertLedger(alice, 2, 0).
		Run(t)
}

func TestAlreadyStaked(t *testing.T) {
	alice := datagen.RandAddress()
	asset := datagen.RandBytes32()
	env := newInitializedEnv(t, 1, 3, 0, alice, asset)

	NewSequence(env).
		Stake(alice, asset, nil).
		Stake(alice, asset, reverts.ErrAlreadyStaked).
		AssertLedger(alice, 0, 1).
		Run(t)
}

func TestUnstakeOthersAsset(t *testing.T) {
	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	asset := datagen.RandBytes32()
	env := newInitializedEnv(t, 1, 3, 0, alice, asset)

	NewSequence(env).
		Stake(alice, asset, nil).
		// bob's canonical record does not exist
		Unstake(bob, asset, reverts.ErrNotStaked).
		Unstake(alice, datagen.RandBytes32(), reverts.ErrNotStaked).
		AssertHolder(asset, derive.Vault(asset)).
		Run(t)
}

func TestPreconditions(t *testing.T) {
	env := newTestEnv()
	alice := datagen.RandAddress()
	asset := datagen.RandBytes32()

	assert.ErrorIs(t, env.staker.Stake(alice, asset, 0), reverts.ErrNotInitialized)
	assert.ErrorIs(t, env.staker.Stake(common.Address{}, asset, 0), reverts.ErrUnauthorized)
	_, err := env.staker.Claim(alice, 0)
	assert.ErrorIs(t, err, reverts.ErrNotInitialized)

	_, err = env.staker.Initialize(common.Address{}, 1, 1, 1, 0)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	_, err = env.staker.Initialize(alice, 1, 0, 1, 0)
	assert.ErrorIs(t, err, reverts.ErrInvalidConfig)

	cfg, err := env.staker.Initialize(alice, 10, 5, 86400, 0)
	require.NoError(t, err)
	assert.Equal(t, alice, cfg.Admin)
	_, err = env.staker.Initialize(alice, 10, 5, 86400, 0)
	assert.ErrorIs(t, err, reverts.ErrAlreadyInitialized)

	_, err = env.staker.Claim(alice, 0)
	assert.ErrorIs(t, err, reverts.ErrNoRewardsToClaim)
	assert.ErrorIs(t, env.staker.Unstake(alice, asset, 0), reverts.ErrNotStaked)

	// unregistered asset: custody rejects and nothing is kept
	err = env.staker.Stake(alice, asset, 0)
	assert.ErrorIs(t, err, reverts.ErrCustodyFailure)
	ledger, err := env.staker.Ledger(alice)
	require.NoError(t, err)
	assert.Nil(t, ledger)
}

func TestInitUser(t *testing.T) {
	env := newInitializedEnv(t, 1, 1, 0, common.Address{})
	alice := datagen.RandAddress()

	ledger, err := env.staker.InitUser(alice)
	require.NoError(t, err)
	assert.Equal(t, alice, ledger.Owner)

	_, err = env.staker.InitUser(alice)
	assert.ErrorIs(t, err, reverts.ErrAlreadyInitialized)
	_, err = env.staker.InitUser(common.Address{})
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
}

func TestCustodyFailureIsAtomic(t *testing.T) {
	alice := datagen.RandAddress()
	asset := datagen.RandBytes32()
	env := newInitializedEnv(t, 5, 2, 0, alice, asset)
	staker := New(env.state, &failingCustody{errInjected}, env.token)

	err := staker.Stake(alice, asset, 10)
	assert.ErrorIs(t, err, reverts.ErrCustodyFailure)
	assert.ErrorIs(t, err, errInjected)

	ledger, err := staker.Ledger(alice)
	require.NoError(t, err)
	assert.Nil(t, ledger)
	record, err := staker.Record(alice, asset)
	require.NoError(t, err)
	assert.Nil(t, record)
	assert.Empty(t, staker.Events())

	// stake for real, then fail the withdrawal
	require.NoError(t, env.staker.Stake(alice, asset, 10))
	err = staker.Unstake(alice, asset, 10)
	assert.ErrorIs(t, err, reverts.ErrCustodyFailure)

	ledger, _ = staker.Ledger(alice)
	assert.Equal(t, uint32(0), ledger.Points)
	assert.Equal(t, uint8(1), ledger.AmountStaked)
	record, _ = staker.Record(alice, asset)
	require.NotNil(t, record)
	assert.Equal(t, int64(10), record.StakedAt())
}

func TestIssuanceFailureIsAtomic(t *testing.T) {
	alice := datagen.RandAddress()
	asset := datagen.RandBytes32()
	env := newInitializedEnv(t, 5, 2, 0, alice, asset)

	require.NoError(t, env.staker.Stake(alice, asset, 0))
	require.NoError(t, env.staker.Unstake(alice, asset, 0))

	staker := New(env.state, env.vault, &failingIssuer{errInjected})
	points, err := staker.Claim(alice, 0)
	assert.ErrorIs(t, err, reverts.ErrIssuanceFailure)
	assert.Equal(t, uint32(0), points)

	ledger, _ := staker.Ledger(alice)
	assert.Equal(t, uint32(5), ledger.Points)
}

func TestPointsOverflow(t *testing.T) {
	alice := datagen.RandAddress()
	asset := datagen.RandBytes32()
	env := newInitializedEnv(t, 200, 2, 0, alice, asset)

	require.NoError(t, env.staker.Stake(alice, asset, 0))

	ledger, _ := env.staker.Ledger(alice)
	ledger.Points = ^uint32(0) - 100
	require.NoError(t, env.staker.ledgerService.Set(ledger))

	assert.ErrorIs(t, env.staker.Unstake(alice, asset, 0), reverts.ErrOverflow)

	ledger, _ = env.staker.Ledger(alice)
	assert.Equal(t, uint8(1), ledger.AmountStaked)
	record, _ := env.staker.Record(alice, asset)
	assert.NotNil(t, record)
}
