// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nftstake/clock"
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/kv"
	nsruntime "github.com/vechain/nftstake/runtime"
	"github.com/vechain/nftstake/test/datagen"
)

func newCliContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range []cli.Flag{
		configFlag, dataDirFlag, cacheFlag, syncWriteFlag, apiAddrFlag, apiCorsFlag,
		apiEventsLimitFlag, enableAPILogsFlag, pprofFlag, enableMetricsFlag, metricsAddrFlag,
		ntpServerFlag, adminFlag, pointsPerStakeFlag, maxStakeFlag, freezePeriodFlag,
	} {
		f.Apply(set)
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolveConfig(t *testing.T) {
	admin := datagen.RandAddress()
	path := writeConfig(t, `
genesis:
  admin: `+admin.String()+`
  points_per_stake: 7
  max_stake: 3
api:
  addr: 0.0.0.0:9000
  cors: "*"
clock:
  tolerance: 2s
`)

	cfg, err := resolveConfig(newCliContext(t, "--config", path, "--max-stake", "4"))
	require.NoError(t, err)
	assert.Equal(t, admin.String(), cfg.Genesis.Admin)
	assert.Equal(t, uint(7), cfg.Genesis.PointsPerStake)
	assert.Equal(t, uint(4), cfg.Genesis.MaxStake)
	assert.Equal(t, uint(86400), cfg.Genesis.FreezePeriod)
	assert.Equal(t, "0.0.0.0:9000", cfg.API.Addr)
	assert.Equal(t, "*", cfg.API.Cors)
	assert.Equal(t, uint64(1000), cfg.API.EventsLimit)
	assert.Equal(t, 2*time.Second, cfg.Clock.Tolerance)
	assert.Equal(t, admin, cfg.Genesis.admin(common.Address{}))
}

func TestResolveConfigInvalid(t *testing.T) {
	_, err := resolveConfig(newCliContext(t, "--max-stake", "0"))
	assert.Error(t, err)

	_, err = resolveConfig(newCliContext(t, "--points-per-stake", "256"))
	assert.Error(t, err)

	_, err = resolveConfig(newCliContext(t, "--admin", "0xzz"))
	assert.Error(t, err)

	_, err = resolveConfig(newCliContext(t, "--config", writeConfig(t, "unknown: 1\n")))
	assert.Error(t, err)

	_, err = resolveConfig(newCliContext(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

func TestInitGenesisAndInspect(t *testing.T) {
	store := kv.NewMemLevelDB()
	host, err := nsruntime.New(store, clock.NewMock(0))
	require.NoError(t, err)
	defer host.Close()
	ctx := context.Background()

	gene := &genesisConfig{PointsPerStake: 5, MaxStake: 2, FreezePeriod: 60}
	assert.Error(t, initGenesis(ctx, host, gene, common.Address{}))

	_, err = inspect(store, host, nil)
	assert.Error(t, err)

	require.NoError(t, initGenesis(ctx, host, gene, soloAdmin))
	// stored config wins on restart
	require.NoError(t, initGenesis(ctx, host, &genesisConfig{PointsPerStake: 1, MaxStake: 1}, common.Address{}))

	user, asset := datagen.RandAddress(), datagen.RandBytes32()
	require.NoError(t, host.RegisterAsset(ctx, asset, user))
	require.NoError(t, host.Stake(ctx, user, asset))

	out, err := inspect(store, host, &user)
	require.NoError(t, err)
	assert.Equal(t, &configView{
		PointsPerStake: 5,
		MaxStake:       2,
		FreezePeriod:   60,
		Admin:          soloAdmin.String(),
		RewardsMint:    out.Config.RewardsMint,
	}, out.Config)
	assert.Positive(t, out.Slots)
	assert.Equal(t, &ledgerView{
		Address:       user.String(),
		AmountStaked:  1,
		Escrowed:      1,
		RewardBalance: "0",
	}, out.User)
}
