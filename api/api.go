// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/nftstake/api/events"
	"github.com/vechain/nftstake/api/node"
	"github.com/vechain/nftstake/api/stakes"
	"github.com/vechain/nftstake/api/subscriptions"
	"github.com/vechain/nftstake/auth"
	"github.com/vechain/nftstake/log"
	"github.com/vechain/nftstake/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EventsLimit     uint64
	PprofOn         bool
	EnableReqLogger bool
	EnableMetrics   bool
	SoloMode        bool
}

// New return api router
func New(
	host *runtime.Host,
	authn auth.Authenticator,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	stakes.New(host, authn, opts.SoloMode).
		Mount(router, "/stakes")
	if db := host.EventDB(); db != nil {
		events.New(db, opts.EventsLimit).
			Mount(router, "/events")
	}
	node.New(host).
		Mount(router, "/node")
	subs := subscriptions.New(host, origins)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", auth.HeaderCaller, auth.HeaderSignature, auth.HeaderTimestamp}),
		handlers.ExposedHeaders([]string{HeaderRequestID}),
	)(handler)

	handler = RequestLoggerHandler(handler, logger, opts.EnableReqLogger)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
