// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/nftstake/common"
)

type genesisConfig struct {
	Admin          string `yaml:"admin"`
	PointsPerStake uint   `yaml:"points_per_stake"`
	MaxStake       uint   `yaml:"max_stake"`
	FreezePeriod   uint   `yaml:"freeze_period"`
}

type apiConfig struct {
	Addr          string `yaml:"addr"`
	Cors          string `yaml:"cors"`
	EventsLimit   uint64 `yaml:"events_limit"`
	EnableLogs    bool   `yaml:"enable_logs"`
	EnablePprof   bool   `yaml:"enable_pprof"`
	EnableMetrics bool   `yaml:"enable_metrics"`
	MetricsAddr   string `yaml:"metrics_addr"`
}

type storageConfig struct {
	DataDir   string `yaml:"data_dir"`
	CacheSize int    `yaml:"cache_size"`
	SyncWrite bool   `yaml:"sync_write"`
}

type clockConfig struct {
	NTPServer string        `yaml:"ntp_server"`
	Tolerance time.Duration `yaml:"tolerance"`
}

// config is the resolved node configuration.
type config struct {
	Genesis genesisConfig `yaml:"genesis"`
	API     apiConfig     `yaml:"api"`
	Storage storageConfig `yaml:"storage"`
	Clock   clockConfig   `yaml:"clock"`
}

func defaultConfig() *config {
	return &config{
		Genesis: genesisConfig{
			PointsPerStake: pointsPerStakeFlag.Value,
			MaxStake:       maxStakeFlag.Value,
			FreezePeriod:   freezePeriodFlag.Value,
		},
		API: apiConfig{
			Addr:        apiAddrFlag.Value,
			EventsLimit: apiEventsLimitFlag.Value,
			MetricsAddr: metricsAddrFlag.Value,
		},
		Storage: storageConfig{
			DataDir:   dataDirFlag.Value,
			CacheSize: cacheFlag.Value,
		},
		Clock: clockConfig{
			NTPServer: ntpServerFlag.Value,
			Tolerance: 5 * time.Second,
		},
	}
}

// loadConfigFile overlays the yaml file at path on cfg.
func loadConfigFile(cfg *config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return errors.Wrap(err, "decode config")
	}
	return nil
}

// resolveConfig merges defaults, the config file and explicitly set flags,
// in increasing priority.
func resolveConfig(ctx *cli.Context) (*config, error) {
	cfg := defaultConfig()
	if path := ctx.String(configFlag.Name); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if ctx.IsSet(adminFlag.Name) {
		cfg.Genesis.Admin = ctx.String(adminFlag.Name)
	}
	if ctx.IsSet(pointsPerStakeFlag.Name) {
		cfg.Genesis.PointsPerStake = ctx.Uint(pointsPerStakeFlag.Name)
	}
	if ctx.IsSet(maxStakeFlag.Name) {
		cfg.Genesis.MaxStake = ctx.Uint(maxStakeFlag.Name)
	}
	if ctx.IsSet(freezePeriodFlag.Name) {
		cfg.Genesis.FreezePeriod = ctx.Uint(freezePeriodFlag.Name)
	}
	if ctx.IsSet(apiAddrFlag.Name) {
		cfg.API.Addr = ctx.String(apiAddrFlag.Name)
	}
	if ctx.IsSet(apiCorsFlag.Name) {
		cfg.API.Cors = ctx.String(apiCorsFlag.Name)
	}
	if ctx.IsSet(apiEventsLimitFlag.Name) {
		cfg.API.EventsLimit = ctx.Uint64(apiEventsLimitFlag.Name)
	}
	if ctx.IsSet(enableAPILogsFlag.Name) {
		cfg.API.EnableLogs = ctx.Bool(enableAPILogsFlag.Name)
	}
	if ctx.IsSet(pprofFlag.Name) {
		cfg.API.EnablePprof = ctx.Bool(pprofFlag.Name)
	}
	if ctx.IsSet(enableMetricsFlag.Name) {
		cfg.API.EnableMetrics = ctx.Bool(enableMetricsFlag.Name)
	}
	if ctx.IsSet(metricsAddrFlag.Name) {
		cfg.API.MetricsAddr = ctx.String(metricsAddrFlag.Name)
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.Storage.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(cacheFlag.Name) {
		cfg.Storage.CacheSize = ctx.Int(cacheFlag.Name)
	}
	if ctx.IsSet(syncWriteFlag.Name) {
		cfg.Storage.SyncWrite = ctx.Bool(syncWriteFlag.Name)
	}
	if ctx.IsSet(ntpServerFlag.Name) {
		cfg.Clock.NTPServer = ctx.String(ntpServerFlag.Name)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validate() error {
	if c.Genesis.PointsPerStake > math.MaxUint8 {
		return errors.New("genesis.points_per_stake exceeds 255")
	}
	if c.Genesis.MaxStake == 0 || c.Genesis.MaxStake > math.MaxUint8 {
		return errors.New("genesis.max_stake must be within [1, 255]")
	}
	if c.Genesis.FreezePeriod > math.MaxUint32 {
		return errors.New("genesis.freeze_period exceeds uint32")
	}
	if c.Genesis.Admin != "" {
		if _, err := common.ParseAddress(c.Genesis.Admin); err != nil {
			return errors.WithMessage(err, "genesis.admin")
		}
	}
	if c.API.EventsLimit == 0 {
		return errors.New("api.events_limit must be positive")
	}
	return nil
}

// admin returns the genesis admin, or fallback when unset.
func (g *genesisConfig) admin(fallback common.Address) common.Address {
	if g.Admin == "" {
		return fallback
	}
	return common.MustParseAddress(g.Admin)
}
