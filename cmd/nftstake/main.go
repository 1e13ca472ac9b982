// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/nftstake/api"
	"github.com/vechain/nftstake/auth"
	"github.com/vechain/nftstake/clock"
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/eventdb"
	"github.com/vechain/nftstake/kv"
	"github.com/vechain/nftstake/log"
	"github.com/vechain/nftstake/metrics"
	nsruntime "github.com/vechain/nftstake/runtime"
	"github.com/vechain/nftstake/state"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")

	// admin of solo instances when none is configured
	soloAdmin = common.MustParseAddress("0xf077b491b355e64048ce21e3a6fc4751eeea77fa")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	serviceFlags := []cli.Flag{
		configFlag,
		dataDirFlag,
		cacheFlag,
		syncWriteFlag,
		apiAddrFlag,
		apiCorsFlag,
		apiEventsLimitFlag,
		enableAPILogsFlag,
		pprofFlag,
		verbosityFlag,
		jsonLogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		ntpServerFlag,
		adminFlag,
		pointsPerStakeFlag,
		maxStakeFlag,
		freezePeriodFlag,
	}

	app := cli.App{
		Version:   fullVersion(),
		Name:      "nftstake",
		Usage:     "Custodial NFT staking ledger",
		Copyright: "2026 VeChain Foundation <https://vechain.org/>",
		Flags:     serviceFlags,
		Action:    defaultAction,
		Commands: []cli.Command{
			{
				Name:   "solo",
				Usage:  "run a local instance for test & dev, callers identified by the X-Caller header",
				Flags:  append(serviceFlags, persistFlag),
				Action: soloAction,
			},
			{
				Name:   "inspect",
				Usage:  "print the program config and optionally a user's ledger",
				Flags:  []cli.Flag{configFlag, dataDirFlag, userFlag, verbosityFlag},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	cfg, err := resolveConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.API.EnableMetrics {
		metrics.InitializePrometheusMetrics()
	}
	checkClock(&cfg.Clock)

	store, err := openMainDB(&cfg.Storage)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing state database..."); store.Close() }()

	eventDB, err := openEventDB(&cfg.Storage)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	host, err := nsruntime.New(store, clock.System(),
		nsruntime.WithEventDB(eventDB),
		nsruntime.WithCacheSize(cfg.Storage.CacheSize),
	)
	if err != nil {
		return err
	}
	defer host.Close()

	if err := initGenesis(exitSignal, host, &cfg.Genesis, cfg.Genesis.admin(common.Address{})); err != nil {
		return err
	}

	handler, closeAPI := api.New(host, auth.NewSignatureAuthenticator(clock.System()), api.Options{
		AllowedOrigins:  cfg.API.Cors,
		EventsLimit:     cfg.API.EventsLimit,
		PprofOn:         cfg.API.EnablePprof,
		EnableReqLogger: cfg.API.EnableLogs,
		EnableMetrics:   cfg.API.EnableMetrics,
	})

	printStartupMessage(host, cfg.Storage.DataDir)
	return serve(exitSignal, &cfg.API, handler, closeAPI)
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	cfg, err := resolveConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.API.EnableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	var (
		store   kv.Store
		eventDB *eventdb.EventDB
		dataDir = "Memory"
	)
	if ctx.Bool(persistFlag.Name) {
		dataDir = cfg.Storage.DataDir
		if store, err = openMainDB(&cfg.Storage); err != nil {
			return err
		}
		if eventDB, err = openEventDB(&cfg.Storage); err != nil {
			store.Close()
			return err
		}
	} else {
		store = kv.NewMemLevelDB()
		if eventDB, err = eventdb.NewMem(); err != nil {
			store.Close()
			return err
		}
	}
	defer func() { logger.Info("closing state database..."); store.Close() }()
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	host, err := nsruntime.New(store, clock.System(),
		nsruntime.WithEventDB(eventDB),
		nsruntime.WithCacheSize(cfg.Storage.CacheSize),
	)
	if err != nil {
		return err
	}
	defer host.Close()

	if err := initGenesis(exitSignal, host, &cfg.Genesis, cfg.Genesis.admin(soloAdmin)); err != nil {
		return err
	}

	handler, closeAPI := api.New(host, auth.HeaderAuthenticator{}, api.Options{
		AllowedOrigins:  cfg.API.Cors,
		EventsLimit:     cfg.API.EventsLimit,
		PprofOn:         cfg.API.EnablePprof,
		EnableReqLogger: cfg.API.EnableLogs,
		EnableMetrics:   cfg.API.EnableMetrics,
		SoloMode:        true,
	})

	printStartupMessage(host, dataDir)
	return serve(exitSignal, &cfg.API, handler, closeAPI)
}

// inspection is the printed state of the program.
type inspection struct {
	Slots  int         `yaml:"storage_slots"`
	Config *configView `yaml:"config"`
	User   *ledgerView `yaml:"user,omitempty"`
}

type configView struct {
	PointsPerStake uint8  `yaml:"points_per_stake"`
	MaxStake       uint8  `yaml:"max_stake"`
	FreezePeriod   uint32 `yaml:"freeze_period"`
	Admin          string `yaml:"admin"`
	RewardsMint    string `yaml:"rewards_mint"`
}

type ledgerView struct {
	Address       string `yaml:"address"`
	Points        uint32 `yaml:"points"`
	AmountStaked  uint8  `yaml:"amount_staked"`
	Escrowed      uint64 `yaml:"escrowed"`
	RewardBalance string `yaml:"reward_balance"`
}

func inspectAction(ctx *cli.Context) error {
	initLogger(ctx)
	cfg := defaultConfig()
	if path := ctx.String(configFlag.Name); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return err
		}
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.Storage.DataDir = ctx.String(dataDirFlag.Name)
	}

	store, err := openMainDB(&cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	host, err := nsruntime.New(store, clock.System(), nsruntime.WithCacheSize(0))
	if err != nil {
		return err
	}
	defer host.Close()

	var user *common.Address
	if v := ctx.String(userFlag.Name); v != "" {
		if user, err = common.ParseAddress(v); err != nil {
			return errors.WithMessage(err, "user")
		}
	}
	out, err := inspect(store, host, user)
	if err != nil {
		return err
	}
	return yaml.NewEncoder(os.Stdout).Encode(out)
}

func inspect(store kv.Store, host *nsruntime.Host, user *common.Address) (*inspection, error) {
	cfg, err := host.Config()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New("program not initialized")
	}
	slots, err := state.CountSlots(store)
	if err != nil {
		return nil, err
	}
	out := &inspection{Slots: slots, Config: &configView{
		PointsPerStake: cfg.PointsPerStake,
		MaxStake:       cfg.MaxStake,
		FreezePeriod:   cfg.FreezePeriod,
		Admin:          cfg.Admin.String(),
		RewardsMint:    cfg.RewardsMint.String(),
	}}
	if user == nil {
		return out, nil
	}

	ledger, err := host.Ledger(*user)
	if err != nil {
		return nil, err
	}
	view := &ledgerView{Address: user.String()}
	if ledger != nil {
		view.Points = ledger.Points
		view.AmountStaked = ledger.AmountStaked
	}
	if view.Escrowed, err = host.Escrowed(*user); err != nil {
		return nil, err
	}
	bal, err := host.RewardBalance(*user)
	if err != nil {
		return nil, err
	}
	view.RewardBalance = bal.String()
	out.User = view
	return out, nil
}

func printStartupMessage(host *nsruntime.Host, dataDir string) {
	cfg, _ := host.Config()
	fmt.Printf(`Starting %v
    Admin        [ %v ]
    Rewards mint [ %v ]
    Params       [ points per stake %v, max stake %v, freeze %vs ]
    Data dir     [ %v ]
`,
		"nftstake "+fullVersion(),
		cfg.Admin, cfg.RewardsMint,
		cfg.PointsPerStake, cfg.MaxStake, cfg.FreezePeriod,
		dataDir)
}
