// Package main starts the read-only report API.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/go-petr/akahu-finance/cmd/httpserver"
	"github.com/go-petr/akahu-finance/internal/middleware"
	"github.com/go-petr/akahu-finance/internal/reportservice"
	"github.com/go-petr/akahu-finance/pkg/configpkg"

	_ "github.com/lib/pq"
	_ "github.com/marcboeker/go-duckdb"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config, "server")

	store := reportservice.NewSQLStore(config.DBDriver, config.StoreSource(), config.DatasetSchema, config.ViewSchema)
	defer store.Close()

	server, err := httpserver.New(store, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Str("db_path", store.Path()).Str("address", config.ServerAddress).Msg("REPORT API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
