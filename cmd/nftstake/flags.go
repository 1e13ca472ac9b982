// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nftstake/log"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a yaml config file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for state and event databases",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 4096,
		Usage: "number of committed storage slots kept in memory",
	}
	syncWriteFlag = cli.BoolFlag{
		Name:  "sync-write",
		Usage: "fsync every state commit",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8680",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: log.LvlInfo,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Value: "pool.ntp.org",
		Usage: "NTP server used to check the local clock, empty to skip",
	}

	// genesis params, used when the program is not initialized yet
	adminFlag = cli.StringFlag{
		Name:  "admin",
		Usage: "admin address initializing the program",
	}
	pointsPerStakeFlag = cli.UintFlag{
		Name:  "points-per-stake",
		Value: 5,
		Usage: "points credited per completed stake",
	}
	maxStakeFlag = cli.UintFlag{
		Name:  "max-stake",
		Value: 2,
		Usage: "max concurrent stakes per user",
	}
	freezePeriodFlag = cli.UintFlag{
		Name:  "freeze-period",
		Value: 86400,
		Usage: "seconds an asset stays locked after staking",
	}

	// solo and inspect
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "save solo state to data-dir instead of memory",
	}
	userFlag = cli.StringFlag{
		Name:  "user",
		Usage: "user address to inspect",
	}
)
