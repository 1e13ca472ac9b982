// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/nftstake/metrics"
	"github.com/vechain/nftstake/reverts"
)

var (
	metricOpsCounter    = metrics.LazyLoadCounterVec("staking_ops_count", []string{"op", "result"})
	metricPointsCounter = metrics.LazyLoadCounterVec("staking_points_count", []string{"type"})
)

func recordOp(op string, err error) {
	result := "ok"
	if err != nil {
		result = reverts.KindOf(err).String()
	}
	metricOpsCounter().AddWithLabel(1, map[string]string{"op": op, "result": result})
}
