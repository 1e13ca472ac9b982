// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/nftstake/api/events"
	"github.com/vechain/nftstake/api/utils"
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/eventdb"
	"github.com/vechain/nftstake/log"
	"github.com/vechain/nftstake/metrics"
	"github.com/vechain/nftstake/runtime"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
	// Events a client may lag behind before it is dropped.
	eventBufferSize = 64
)

var (
	errLagged         = errors.New("subscriber fell behind")
	metricLaggedCount = metrics.LazyLoadCounter("api_subscription_lagged_count")
)

type Subscriptions struct {
	host     *runtime.Host
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(host *runtime.Host, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		host: host,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == strings.ToLower(origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// eventFilter matches events by user and kind, empty fields match all.
type eventFilter struct {
	user *common.Address
	kind string
}

func (f *eventFilter) match(ev *eventdb.Event) bool {
	if f.user != nil && *f.user != ev.User {
		return false
	}
	return f.kind == "" || f.kind == ev.Kind
}

func parseEventFilter(req *http.Request) (*eventFilter, error) {
	f := &eventFilter{kind: req.URL.Query().Get("kind")}
	if v := req.URL.Query().Get("user"); v != "" {
		user, err := common.ParseAddress(v)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "user"))
		}
		f.user = user
	}
	return f, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseEventFilter(req)
	if err != nil {
		return err
	}

	// subscribe before the handshake completes so no later commit is missed
	feedCh := make(chan *eventdb.Event)
	sub := s.host.SubscribeEvents(feedCh)
	defer sub.Unsubscribe()
	ch := make(chan *eventdb.Event, eventBufferSize)
	errc := relay(feedCh, sub, ch)

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	if err := s.pipe(conn, filter, ch, errc); err != nil {
		logger.Debug("error in websocket", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return nil
}

// relay moves events from the host feed into out without ever blocking the
// feed. When out is full the subscription is dropped with errLagged.
func relay(in <-chan *eventdb.Event, sub event.Subscription, out chan<- *eventdb.Event) <-chan error {
	errc := make(chan error, 1)
	go func() {
		for {
			select {
			case ev := <-in:
				select {
				case out <- ev:
				default:
					sub.Unsubscribe()
					metricLaggedCount().Add(1)
					errc <- errLagged
					return
				}
			case err := <-sub.Err():
				errc <- err
				return
			}
		}
	}()
	return errc
}

// pipe forwards matching committed events to conn until either side closes.
func (s *Subscriptions) pipe(conn *websocket.Conn, filter *eventFilter, ch <-chan *eventdb.Event, errc <-chan error) error {
	closed := make(chan struct{})
	// start read loop to handle close event
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read err", "err", err)
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case err := <-errc:
			return err
		case ev := <-ch:
			if !filter.match(ev) {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(events.ConvertEvent(ev)); err != nil {
				return err
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close closes all open subscriptions and waits for them to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
