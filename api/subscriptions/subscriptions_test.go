// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstake/api/events"
	"github.com/vechain/nftstake/clock"
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/eventdb"
	"github.com/vechain/nftstake/kv"
	"github.com/vechain/nftstake/runtime"
	"github.com/vechain/nftstake/test/datagen"
)

func initSubscriptionsServer(t *testing.T) (*runtime.Host, *httptest.Server) {
	host, err := runtime.New(kv.NewMemLevelDB(), clock.NewMock(1_700_000_000))
	require.NoError(t, err)

	router := mux.NewRouter()
	subs := New(host, []string{"*"})
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		subs.Close()
		host.Close()
	})
	return host, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/events" + query
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSubscribeEvents(t *testing.T) {
	host, ts := initSubscriptionsServer(t)
	ctx := context.Background()
	admin, user := datagen.RandAddress(), datagen.RandAddress()
	asset := datagen.RandBytes32()

	all := dial(t, ts, "")
	mine := dial(t, ts, "?user="+user.String())

	_, err := host.Initialize(ctx, admin, 5, 2, 0)
	require.NoError(t, err)
	require.NoError(t, host.RegisterAsset(ctx, asset, user))
	require.NoError(t, host.Stake(ctx, user, asset))

	var msg events.FilteredEvent
	all.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, all.ReadJSON(&msg))
	assert.Equal(t, "Initialized", msg.Kind)
	assert.Equal(t, admin, msg.User)
	require.NoError(t, all.ReadJSON(&msg))
	assert.Equal(t, "Staked", msg.Kind)

	mine.SetReadDeadline(time.Now().Add(5 * time.Second))
	require.NoError(t, mine.ReadJSON(&msg))
	assert.Equal(t, "Staked", msg.Kind)
	assert.Equal(t, user, msg.User)
	assert.Equal(t, asset, msg.Asset)
}

func TestSubscribeBadFilter(t *testing.T) {
	_, ts := initSubscriptionsServer(t)

	u := "ws" + strings.TrimPrefix(ts.URL, "http") + "/subscriptions/events?user=0xzz"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEventFilter(t *testing.T) {
	user := datagen.RandAddress()
	f := &eventFilter{user: &user, kind: "Claimed"}

	assert.True(t, f.match(newEvent(user, "Claimed")))
	assert.False(t, f.match(newEvent(user, "Staked")))
	assert.False(t, f.match(newEvent(datagen.RandAddress(), "Claimed")))
	assert.True(t, (&eventFilter{}).match(newEvent(common.Address{}, "Staked")))
}

func newEvent(user common.Address, kind string) *eventdb.Event {
	return &eventdb.Event{Kind: kind, User: user}
}

func TestRelayDropsLaggingSubscriber(t *testing.T) {
	var feed event.Feed
	in := make(chan *eventdb.Event)
	sub := feed.Subscribe(in)
	out := make(chan *eventdb.Event, 2)
	errc := relay(in, sub, out)

	// each send returns once the relay took the event, even with out full
	for i := range 3 {
		assert.Equal(t, 1, feed.Send(&eventdb.Event{Seq: uint64(i)}))
	}

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, errLagged)
	case <-time.After(5 * time.Second):
		t.Fatal("lagging subscriber not dropped")
	}
	assert.Len(t, out, 2)
	assert.Equal(t, 0, feed.Send(&eventdb.Event{}))
}

func TestRelayStopsOnUnsubscribe(t *testing.T) {
	var feed event.Feed
	in := make(chan *eventdb.Event)
	sub := feed.Subscribe(in)
	out := make(chan *eventdb.Event, 1)
	errc := relay(in, sub, out)

	feed.Send(&eventdb.Event{Kind: "Staked"})
	assert.Equal(t, "Staked", (<-out).Kind)

	sub.Unsubscribe()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not stop")
	}
}
