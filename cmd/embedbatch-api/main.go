package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"embedbatch/internal/core/version"
	"embedbatch/internal/modkit/module"
	"embedbatch/internal/modkit/repokit"
	"embedbatch/internal/platform/config"
	"embedbatch/internal/platform/logger"
	"embedbatch/internal/platform/metrics"
	phttp "embedbatch/internal/platform/net/http"
	"embedbatch/internal/platform/store"

	"embedbatch/internal/services/api"
	"embedbatch/internal/services/api/docs"
	bdom "embedbatch/internal/services/batcher/domain"
	batchermod "embedbatch/internal/services/batcher/module"
	ledgermod "embedbatch/internal/services/ledger/module"
)

// mustSetEnv exports a non-empty flag value so config readers see it; runs before the logger exists
func mustSetEnv(key, val string) {
	if val == "" {
		return
	}
	if err := os.Setenv(key, val); err != nil {
		panic(fmt.Sprintf("set %s: %v", key, err))
	}
}

func main() {
	var (
		fMaxBatch = flag.Int("max-batch", 0, "max records per backend call (CORE_BATCH_MAX_SIZE)")
		fMaxWait  = flag.Duration("max-wait", 0, "max time a batch waits after its first record (CORE_BATCH_MAX_WAIT)")
		fBackend  = flag.String("backend", "", "backend embed URL (CORE_BACKEND_URL)")
	)
	flag.Parse()

	// flags win over env
	if *fMaxBatch > 0 {
		mustSetEnv("CORE_BATCH_MAX_SIZE", strconv.Itoa(*fMaxBatch))
	}
	if *fMaxWait > 0 {
		mustSetEnv("CORE_BATCH_MAX_WAIT", fMaxWait.String())
	}
	mustSetEnv("CORE_BACKEND_URL", *fBackend)

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledgerOpts := ledgermod.FromConfig(root)

	// stores only open for the configured ledger sink
	var st *store.Store
	if ledgerOpts.Sink != ledgermod.SinkOff {
		cfg := store.Config{AppName: "embedbatch-api"}
		switch ledgerOpts.Sink {
		case ledgermod.SinkPG:
			cfg.PG = store.PGConfig{
				Enabled:        true,
				URL:            pgCfg.MustURL("DBURL").String(),
				MaxConns:       int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs:    pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:         pgCfg.MayBool("LOG_SQL", false),
				ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 0),
				PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 0),
			}
		case ledgermod.SinkCH:
			cfg.CH = store.CHConfig{
				Enabled:    true,
				URL:        chCfg.MustURL("DBURL").String(),
				ClientName: "embedbatch",
				ClientTag:  "api",
			}
		}
		var err error
		st, err = store.Open(ctx, cfg, store.WithLogger(*l))
		if err != nil {
			l.Panic().Err(err).Msg("store.Open failed")
		}
		repokit.MustGuard(ctx, st)
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()
	}

	if v := version.Info().Version; v != "dev" {
		docs.SwaggerInfo.Version = v
	}

	mc := metrics.New("embedbatch")

	// http server (reads CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	mounted, err := api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		Metrics:        mc,
		Batcher:        batchermod.FromConfig(root),
		Ledger:         ledgerOpts,
		SlowRequest:    apiCfg.MayDuration("SLOW", time.Second),
		MaxInFlight:    apiCfg.MayInt("MAX_INFLIGHT", 0),
		Backlog:        apiCfg.MayInt("BACKLOG", 0),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})
	if err != nil {
		l.Panic().Err(err).Msg("api mount failed")
	}

	// the ledger writer outlives the aggregator so the last batches land
	ledgerCtx, stopLedger := context.WithCancel(context.Background())
	defer stopLedger()
	if err := mounted.Ledger.Start(ledgerCtx); err != nil {
		l.Panic().Err(err).Msg("ledger start failed")
	}

	worker := module.MustPortsOf[bdom.WorkerPort](mounted.Batcher)
	go func() {
		if err := worker.Run(context.Background()); err != nil {
			l.Error().Err(err).Msg("aggregator stopped")
		}
	}()

	go func() {
		if err := srv.Run(ctx); err != nil {
			l.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	l.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("http shutdown")
	}

	// no new records after this; pending ones are dispatched before Done closes
	worker.Close()
	select {
	case <-worker.Done():
	case <-shutdownCtx.Done():
		l.Warn().Msg("aggregator did not drain in time")
	}

	stopLedger()
	select {
	case <-mounted.Ledger.Done():
	case <-shutdownCtx.Done():
		l.Warn().Msg("ledger did not flush in time")
	}
}
