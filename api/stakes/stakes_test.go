// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstake/auth"
	"github.com/vechain/nftstake/clock"
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/derive"
	"github.com/vechain/nftstake/kv"
	"github.com/vechain/nftstake/runtime"
	"github.com/vechain/nftstake/test/datagen"
)

var (
	ts  *httptest.Server
	clk *clock.Mock
)

func initStakesServer(t *testing.T) {
	clk = clock.NewMock(1_700_000_000)
	host, err := runtime.New(kv.NewMemLevelDB(), clk)
	require.NoError(t, err)

	router := mux.NewRouter()
	New(host, auth.HeaderAuthenticator{}, true).Mount(router, "/stakes")
	ts = httptest.NewServer(router)
	t.Cleanup(ts.Close)
}

func httpDo(t *testing.T, method, path string, caller *common.Address, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if caller != nil {
		req.Header.Set(auth.HeaderCaller, caller.String())
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, data
}

func TestStakes(t *testing.T) {
	initStakesServer(t)

	admin, user, other := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	a, b, c := datagen.RandBytes32(), datagen.RandBytes32(), datagen.RandBytes32()

	// order matters, run sequentially
	t.Run("notInitialized", func(t *testing.T) { testNotInitialized(t, user, a) })
	t.Run("initialize", func(t *testing.T) { testInitialize(t, admin) })
	t.Run("registerAssets", func(t *testing.T) { testRegisterAssets(t, user, a, b, c) })
	t.Run("stakeLifecycle", func(t *testing.T) { testStakeLifecycle(t, user, other, a, b, c) })
	t.Run("unauthenticated", func(t *testing.T) { testUnauthenticated(t, a) })
	t.Run("badRequests", func(t *testing.T) { testBadRequests(t, user) })
	t.Run("initUser", func(t *testing.T) { testInitUser(t, other, user) })
}

func testNotInitialized(t *testing.T, user common.Address, asset common.Bytes32) {
	code, _ := httpDo(t, http.MethodGet, "/stakes/config", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = httpDo(t, http.MethodPost, "/stakes/stake", &user, &AssetRequest{Asset: asset})
	assert.Equal(t, http.StatusNotFound, code)
}

func testInitialize(t *testing.T, admin common.Address) {
	code, body := httpDo(t, http.MethodPost, "/stakes/initialize", &admin, &InitializeRequest{PointsPerStake: 5, MaxStake: 2, FreezePeriod: 86400})
	require.Equal(t, http.StatusOK, code, string(body))

	var cfg Config
	require.NoError(t, json.Unmarshal(body, &cfg))
	assert.Equal(t, admin, cfg.Admin)
	assert.Equal(t, derive.Rewards(derive.Config()), cfg.RewardsMint)

	code, _ = httpDo(t, http.MethodPost, "/stakes/initialize", &admin, &InitializeRequest{PointsPerStake: 5, MaxStake: 2})
	assert.Equal(t, http.StatusConflict, code)

	code, body = httpDo(t, http.MethodGet, "/stakes/config", nil, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &cfg))
	assert.Equal(t, uint32(86400), cfg.FreezePeriod)
}

func testRegisterAssets(t *testing.T, owner common.Address, assets ...common.Bytes32) {
	for _, asset := range assets {
		code, body := httpDo(t, http.MethodPost, "/stakes/assets", &owner, &RegisterRequest{Asset: asset, Owner: owner})
		require.Equal(t, http.StatusOK, code, string(body))
	}
	code, body := httpDo(t, http.MethodGet, "/stakes/assets/"+assets[0].String(), nil, nil)
	require.Equal(t, http.StatusOK, code)
	var res Asset
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, owner, res.Holder)

	code, _ = httpDo(t, http.MethodGet, "/stakes/assets/"+datagen.RandBytes32().String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func testStakeLifecycle(t *testing.T, user, other common.Address, a, b, c common.Bytes32) {
	code, body := httpDo(t, http.MethodPost, "/stakes/stake", &user, &AssetRequest{Asset: a})
	require.Equal(t, http.StatusOK, code, string(body))
	var record Record
	require.NoError(t, json.Unmarshal(body, &record))
	assert.Equal(t, int64(1_700_000_000), record.StakedAt)
	assert.Equal(t, int64(1_700_086_400), record.UnlockAt)

	code, _ = httpDo(t, http.MethodPost, "/stakes/stake", &user, &AssetRequest{Asset: a})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = httpDo(t, http.MethodPost, "/stakes/stake", &user, &AssetRequest{Asset: b})
	require.Equal(t, http.StatusOK, code)

	code, _ = httpDo(t, http.MethodPost, "/stakes/stake", &user, &AssetRequest{Asset: c})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = httpDo(t, http.MethodPost, "/stakes/unstake", &user, &AssetRequest{Asset: a})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = httpDo(t, http.MethodPost, "/stakes/unstake", &other, &AssetRequest{Asset: a})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = httpDo(t, http.MethodGet, "/stakes/users/"+user.String()+"/records/"+a.String(), nil, nil)
	assert.Equal(t, http.StatusOK, code)

	clk.Advance(86400 * time.Second)
	code, body = httpDo(t, http.MethodPost, "/stakes/unstake", &user, &AssetRequest{Asset: a})
	require.Equal(t, http.StatusOK, code, string(body))
	var ledger Ledger
	require.NoError(t, json.Unmarshal(body, &ledger))
	assert.Equal(t, uint8(1), ledger.AmountStaked)
	assert.Equal(t, uint32(5), ledger.Points)

	code, _ = httpDo(t, http.MethodGet, "/stakes/users/"+user.String()+"/records/"+a.String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = httpDo(t, http.MethodPost, "/stakes/claim", &user, nil)
	require.Equal(t, http.StatusOK, code, string(body))
	var claim ClaimResult
	require.NoError(t, json.Unmarshal(body, &claim))
	assert.Equal(t, uint32(5), claim.Points)

	code, _ = httpDo(t, http.MethodPost, "/stakes/claim", &user, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, body = httpDo(t, http.MethodGet, "/stakes/users/"+user.String(), nil, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &ledger))
	assert.Equal(t, Ledger{Owner: user, AmountStaked: 1, Escrowed: 1, RewardBalance: "5"}, ledger)
}

func testUnauthenticated(t *testing.T, asset common.Bytes32) {
	code, _ := httpDo(t, http.MethodPost, "/stakes/stake", nil, &AssetRequest{Asset: asset})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = httpDo(t, http.MethodPost, "/stakes/claim", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func testBadRequests(t *testing.T, user common.Address) {
	code, _ := httpDo(t, http.MethodPost, "/stakes/stake", &user, map[string]string{"nonsense": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = httpDo(t, http.MethodGet, "/stakes/users/0xzz", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = httpDo(t, http.MethodGet, "/stakes/users/"+datagen.RandAddress().String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func testInitUser(t *testing.T, fresh, existing common.Address) {
	code, body := httpDo(t, http.MethodPost, "/stakes/users", &fresh, nil)
	require.Equal(t, http.StatusOK, code, string(body))
	var ledger Ledger
	require.NoError(t, json.Unmarshal(body, &ledger))
	assert.Equal(t, fresh, ledger.Owner)

	code, _ = httpDo(t, http.MethodPost, "/stakes/users", &existing, nil)
	assert.Equal(t, http.StatusConflict, code)
}
