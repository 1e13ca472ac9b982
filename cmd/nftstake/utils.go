// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nftstake/clock"
	"github.com/vechain/nftstake/common"
	"github.com/vechain/nftstake/eventdb"
	"github.com/vechain/nftstake/kv"
	"github.com/vechain/nftstake/log"
	"github.com/vechain/nftstake/metrics"
	nsruntime "github.com/vechain/nftstake/runtime"
)

func initLogger(ctx *cli.Context) {
	log.Setup(os.Stderr, ctx.Int(verbosityFlag.Name), ctx.Bool(jsonLogsFlag.Name))
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func openMainDB(cfg *storageConfig) (kv.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir at '%v'", cfg.DataDir)
	}
	dir := filepath.Join(cfg.DataDir, "state.db")
	store, err := kv.NewLevelDB(dir, kv.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
		SyncWrite:              cfg.SyncWrite,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open state database at '%v'", dir)
	}
	return store, nil
}

func openEventDB(cfg *storageConfig) (*eventdb.EventDB, error) {
	path := filepath.Join(cfg.DataDir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database at '%v'", path)
	}
	return db, nil
}

// initGenesis initializes the program with the genesis params unless it is
// already initialized.
func initGenesis(ctx context.Context, host *nsruntime.Host, gene *genesisConfig, admin common.Address) error {
	existing, err := host.Config()
	if err != nil {
		return err
	}
	if existing != nil {
		if uint(existing.PointsPerStake) != gene.PointsPerStake ||
			uint(existing.MaxStake) != gene.MaxStake ||
			uint(existing.FreezePeriod) != gene.FreezePeriod {
			logger.Warn("genesis params differ from stored config, stored config wins",
				"pointsPerStake", existing.PointsPerStake,
				"maxStake", existing.MaxStake,
				"freezePeriod", existing.FreezePeriod,
			)
		}
		return nil
	}
	if admin.IsZero() {
		return errors.New("program not initialized, admin required (--admin or genesis.admin)")
	}
	_, err = host.Initialize(ctx, admin, uint8(gene.PointsPerStake), uint8(gene.MaxStake), uint32(gene.FreezePeriod))
	return err
}

func checkClock(cfg *clockConfig) {
	if cfg.NTPServer == "" {
		return
	}
	clock.CheckDrift(clock.NTPQuery, cfg.NTPServer, cfg.Tolerance)
}

// serve runs the api and metrics servers until ctx is done.
func serve(ctx context.Context, cfg *apiConfig, handler http.Handler, onStop func()) error {
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen API addr [%v]", cfg.Addr)
	}
	servers := []*http.Server{{Handler: handler, ReadHeaderTimeout: 10 * time.Second}}
	listeners := []net.Listener{listener}
	fmt.Printf("    API portal   [ http://%v/ ]\n", listener.Addr())

	if cfg.EnableMetrics {
		ml, err := net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			listener.Close()
			return errors.Wrapf(err, "listen metrics addr [%v]", cfg.MetricsAddr)
		}
		router := mux.NewRouter()
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		servers = append(servers, &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second})
		listeners = append(listeners, ml)
		fmt.Printf("    Metrics      [ http://%v/metrics ]\n", ml.Addr())
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, srv := range servers {
		g.Go(func() error {
			if err := srv.Serve(listeners[i]); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("stopping API server...")
		onStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, srv := range servers {
			srv.Shutdown(shutdownCtx)
		}
		return nil
	})
	return g.Wait()
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "org.vechain.nftstake")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.nftstake")
		} else {
			return filepath.Join(home, ".org.vechain.nftstake")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
