// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/nftstake/metrics"

var (
	metricTxDuration = metrics.LazyLoadHistogramVec("host_tx_duration_ms", []string{"op", "result"}, metrics.BucketHTTPReqs)
	metricEventCount = metrics.LazyLoadCounterVec("host_events_count", []string{"kind"})
	metricCacheStats = metrics.LazyLoadGaugeVec("host_state_cache", []string{"type"})
)
