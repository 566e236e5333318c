// Package main performs one ingestion run: it fetches the Akahu accounts, emits
// the daily balance snapshots and merges both into the store.
//
// It exits with 2 on a configuration error and with 1 on any other failure.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/akahu-finance/internal/accountrepo"
	"github.com/go-petr/akahu-finance/internal/akahu"
	"github.com/go-petr/akahu-finance/internal/balancerepo"
	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/go-petr/akahu-finance/internal/events"
	"github.com/go-petr/akahu-finance/internal/ingestservice"
	"github.com/go-petr/akahu-finance/internal/loader"
	"github.com/go-petr/akahu-finance/internal/middleware"
	"github.com/go-petr/akahu-finance/internal/snapshot"
	"github.com/go-petr/akahu-finance/internal/storeschema"
	"github.com/go-petr/akahu-finance/pkg/configpkg"
	"github.com/go-petr/akahu-finance/pkg/dbpkg"

	_ "github.com/lib/pq"
	_ "github.com/marcboeker/go-duckdb"
)

const (
	exitFailure = 1
	exitConfig  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Error().Err(err).Msg("cannot load config")
		return exitConfig
	}

	logger := middleware.CreateLogger(config, "ingest")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = logger.WithContext(ctx)

	loc, err := config.Location()
	if err != nil {
		logger.Error().Err(err).Str("timezone", config.SnapshotTimezone).Msg("invalid snapshot timezone")
		return exitConfig
	}

	client, err := akahu.NewClient(akahu.Options{
		BaseURL:   config.AkahuAPIURL,
		UserToken: config.AkahuUserToken,
		AppToken:  config.AkahuAppToken,
		Timeout:   config.AkahuTimeout,
	})
	if err != nil {
		logger.Error().Err(err).Msg("cannot create akahu client")
		return exitCode(err)
	}

	db, err := dbpkg.Setup(config.DBDriver, config.StoreSource())
	if err != nil {
		logger.Error().Err(err).Msg("cannot connect to database")
		return exitFailure
	}
	defer db.Close()

	tables, err := storeschema.Resolve(ctx, db, config.DatasetSchema, config.ViewSchema)
	if err != nil {
		logger.Error().Err(err).Msg("invalid store schema")
		return exitConfig
	}

	if err := storeschema.Migrate(ctx, db, tables); err != nil {
		logger.Error().Err(err).Msg("cannot migrate store")
		return exitFailure
	}

	publisher := events.New(config.Brokers(), config.KafkaTopic)
	defer publisher.Close()

	l := loader.New(accountrepo.NewRepoSQL(db, tables), balancerepo.NewRepoSQL(db, tables), nil)
	s := ingestservice.New(client, snapshot.New(loc), l, publisher, nil)

	report, err := s.Run(ctx)
	if err != nil {
		return exitCode(err)
	}

	logger.Info().
		Str("batch_id", report.BatchID).
		Int("accounts", report.Accounts).
		Int("snapshots", report.Snapshots).
		Str("db_path", dbpkg.FilePath(config.DBDriver, config.StoreSource())).
		Msg("ingestion finished")

	return 0
}

func exitCode(err error) int {
	var authErr *domain.AuthConfigurationError
	if errors.As(err, &authErr) {
		return exitConfig
	}

	return exitFailure
}
