// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"time"

	"github.com/pborman/uuid"

	"github.com/vechain/nftstake/api/utils"
	"github.com/vechain/nftstake/log"
)

// HeaderRequestID carries the id assigned to every request.
const HeaderRequestID = "X-Request-Id"

// RequestLoggerHandler tags requests with an id, and logs them when enabled.
func RequestLoggerHandler(handler http.Handler, logger log.Logger, enabled bool) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.New()
		}
		w.Header().Set(HeaderRequestID, id)

		if !enabled {
			handler.ServeHTTP(w, r)
			return
		}

		// the body can be read once, keep it for the handlers
		bodyBytes, err := utils.ReadBody(r)
		if err != nil {
			logger.Warn("unexpected body read error", "id", id, "err", err)
			return // don't pass bad request to the next handler
		}

		start := time.Now()
		handler.ServeHTTP(w, r)

		logger.Info("API Request",
			"id", id,
			"durationMs", time.Since(start).Milliseconds(),
			"URI", r.URL.String(),
			"Method", r.Method,
			"Body", string(bodyBytes),
		)
	}

	return http.HandlerFunc(fn)
}
