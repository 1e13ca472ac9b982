// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the wall time used for freeze enforcement.
package clock

import (
	"sync"
	"time"

	"github.com/beevik/ntp"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/vechain/nftstake/log"
)

var logger = log.WithContext("pkg", "clock")

// Clock tells the current time.
type Clock interface {
	Now() time.Time
}

type system struct{}

func (system) Now() time.Time { return time.Now() }

// System returns the local wall clock.
func System() Clock { return system{} }

// Mock is a manually driven clock.
type Mock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMock creates a mock clock starting at unix seconds.
func NewMock(unix int64) *Mock {
	return &Mock{now: time.Unix(unix, 0)}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// QueryFunc queries the clock offset against a time server.
type QueryFunc func(server string) (time.Duration, error)

// NTPQuery asks the ntp server for the local clock offset.
func NTPQuery(server string) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return 0, err
	}
	return resp.ClockOffset, nil
}

// CheckDrift warns when the local clock is off by more than tolerance.
// Unreachable servers are only logged.
func CheckDrift(query QueryFunc, server string, tolerance time.Duration) (time.Duration, bool) {
	offset, err := query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "server", server, "err", err)
		return 0, false
	}
	if offset < 0 {
		offset = -offset
	}
	if offset > tolerance {
		logger.Warn("clock offset detected, freeze periods may be misjudged", "offset", ethcommon.PrettyDuration(offset))
		return offset, true
	}
	return offset, false
}
