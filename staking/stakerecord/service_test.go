// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakerecord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/derive"
	"github.com/vechain/nftstake/kv"
	"github.com/vechain/nftstake/reverts"
	"github.com/vechain/nftstake/solidity"
	"github.com/vechain/nftstake/state"
)

func newService() (*Service, *solidity.Context) {
	st := state.New(kv.NewMemLevelDB(), nil)
	sctx := solidity.NewContext(derive.Program, st)
	return New(sctx), sctx
}

func TestAddGetRemove(t *testing.T) {
	svc, _ := newService()
	alice := common.BytesToAddress([]byte("alice"))
	asset := common.BytesToBytes32([]byte("nft-1"))

	r, err := svc.Get(alice, asset)
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = svc.Add(alice, asset, 1000)
	require.NoError(t, err)
	assert.Equal(t, alice, r.Owner())
	assert.Equal(t, asset, r.Asset())
	assert.Equal(t, int64(1000), r.StakedAt())

	_, err = svc.Add(alice, asset, 2000)
	assert.ErrorIs(t, err, reverts.ErrAlreadyStaked)

	// another user has a separate record
	bob := common.BytesToAddress([]byte("bob"))
	other, err := svc.Get(bob, asset)
	require.NoError(t, err)
	assert.Nil(t, other)

	svc.Remove(alice, asset)
	r, err = svc.Get(alice, asset)
	require.NoError(t, err)
	assert.Nil(t, r)

	// re-stake after removal starts fresh
	r, err = svc.Add(alice, asset, 3000)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), r.StakedAt())
}

func TestUnlocked(t *testing.T) {
	r := &Record{&body{StakedAt: 100}}

	assert.False(t, r.Unlocked(100, 10))
	assert.False(t, r.Unlocked(109, 10))
	assert.True(t, r.Unlocked(110, 10))
	assert.True(t, r.Unlocked(100, 0))
	// clock behind staking time
	assert.False(t, r.Unlocked(50, 0))
	assert.False(t, r.Unlocked(-1, 0))
	assert.Equal(t, int64(110), r.UnlockAt(10))
}

func TestForgedRecord(t *testing.T) {
	svc, sctx := newService()
	alice := common.BytesToAddress([]byte("alice"))
	asset := common.BytesToBytes32([]byte("nft-1"))

	records := solidity.NewMapping[common.Address, *body](sctx, slotRecords)
	require.NoError(t, records.Set(derive.Stake(alice, asset), &body{
		Owner: common.BytesToAddress([]byte("mallory")),
		Asset: asset,
	}))

	_, err := svc.Get(alice, asset)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	_, err = svc.Add(alice, common.Bytes32{}, -1)
	assert.Error(t, err)
}
