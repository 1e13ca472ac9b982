// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"testing"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
)

func TestLazyLogger(t *testing.T) {
	defer ethlog.SetDefault(ethlog.NewLogger(ethlog.DiscardHandler()))

	// created before the handler is installed
	logger := WithContext("pkg", "staker")

	var buf bytes.Buffer
	Setup(&buf, LvlInfo, false)

	logger.Debug("hidden")
	logger.With("user", "alice").Info("staked", "asset", "nft-1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "staked")
	assert.Contains(t, out, "pkg=staker")
	assert.Contains(t, out, "user=alice")
	assert.Contains(t, out, "asset=nft-1")
}

func TestJSONSetup(t *testing.T) {
	defer ethlog.SetDefault(ethlog.NewLogger(ethlog.DiscardHandler()))

	var buf bytes.Buffer
	Setup(&buf, LvlDebug, true)

	WithContext("pkg", "api").Debug("request", "status", 200)
	assert.Contains(t, buf.String(), `"pkg":"api"`)
	assert.Contains(t, buf.String(), `"msg":"request"`)
}
