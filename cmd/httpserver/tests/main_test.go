//go:build integration

package tests

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/akahu-finance/cmd/httpserver"
	"github.com/go-petr/akahu-finance/internal/accountrepo"
	"github.com/go-petr/akahu-finance/internal/akahu"
	"github.com/go-petr/akahu-finance/internal/balancerepo"
	"github.com/go-petr/akahu-finance/internal/ingestservice"
	"github.com/go-petr/akahu-finance/internal/loader"
	"github.com/go-petr/akahu-finance/internal/middleware"
	"github.com/go-petr/akahu-finance/internal/reportservice"
	"github.com/go-petr/akahu-finance/internal/snapshot"
	"github.com/go-petr/akahu-finance/internal/storeschema"
	"github.com/go-petr/akahu-finance/pkg/clock"
	"github.com/go-petr/akahu-finance/pkg/configpkg"
	"github.com/go-petr/akahu-finance/pkg/dbpkg"

	// DuckDB driver registration.
	_ "github.com/marcboeker/go-duckdb"
)

var (
	server        *httpserver.Server
	missingServer *httpserver.Server
)

// Capture instants of the two seeded ingestion runs, as UTC. The March run falls on
// 2024-03-02 in Auckland.
var (
	februaryCapture = time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	marchCapture    = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
)

func akahuBody(mortgage string) string {
	return fmt.Sprintf(`{"success": true, "items": [
		{"_id": "acc_mortgage", "name": "Home Loan", "type": "LOAN", "status": "ACTIVE",
		 "connection": {"_id": "conn_1", "name": "ANZ"},
		 "balance": {"currency": "NZD", "current": %s},
		 "meta": {"loan_details": {"type": "TABLE", "interest": {"rate": 5.5, "type": "FIXED"},
		   "is_interest_only": false, "term": {"years": 25, "months": 0}}}},
		{"_id": "acc_card", "name": "Visa", "type": "CREDITCARD", "status": "ACTIVE",
		 "balance": {"currency": "NZD", "current": -1500, "available": 8500, "limit": 10000}},
		{"_id": "acc_everyday", "name": "Everyday", "type": "CHECKING", "status": "ACTIVE",
		 "balance": {"currency": "NZD", "current": 2500, "available": 2500}},
		{"name": "Pending", "type": "SAVINGS"}
	]}`, mortgage)
}

// TestMain calls testMain and passes the returned exit code to os.Exit(). The reason
// that TestMain is basically a wrapper around testMain is because os.Exit() does not
// respect deferred functions, so this configuration allows for a deferred function.
func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

// testMain returns an integer denoting an exit code to be returned and used in
// TestMain. The exit code 0 denotes success, all other codes denote failure.
func testMain(m *testing.M) int {
	config, err := configpkg.Load("../../../configs")
	if err != nil {
		log.Println("cannot load config:", err)
		return 1
	}

	dir, err := os.MkdirTemp("", "akahu-finance")
	if err != nil {
		log.Println("cannot create temp dir:", err)
		return 1
	}
	defer os.RemoveAll(dir)

	config.DBDriver = dbpkg.DriverDuckDB
	config.DBSource = filepath.Join(dir, "data", "akahu_finance.duckdb")
	config.ViewSchema = ""
	config.HouseValueRaw = ""

	zerolog.SetGlobalLevel(zerolog.FatalLevel)
	logger := middleware.CreateLogger(config, "server")

	if err := seed(logger.WithContext(context.Background()), config); err != nil {
		log.Println("cannot seed store:", err)
		return 1
	}

	gin.SetMode(gin.ReleaseMode)

	store := reportservice.NewSQLStore(config.DBDriver, config.StoreSource(), config.DatasetSchema, config.ViewSchema)
	defer store.Close()

	server, err = httpserver.New(store, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}

	missing := reportservice.NewSQLStore(dbpkg.DriverDuckDB, filepath.Join(dir, "missing.duckdb"), config.DatasetSchema, "")
	defer missing.Close()

	missingServer, err = httpserver.New(missing, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}

	return m.Run()
}

// seed runs two ingestion days against a fake Akahu API, the March day twice.
func seed(ctx context.Context, config configpkg.Config) error {
	var body atomic.Value

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body.Load().(string))
	}))
	defer api.Close()

	client, err := akahu.NewClient(akahu.Options{
		BaseURL:   api.URL,
		UserToken: "user_token",
		AppToken:  "app_token",
		Timeout:   5 * time.Second,
	})
	if err != nil {
		return err
	}

	db, err := dbpkg.Setup(config.DBDriver, config.StoreSource())
	if err != nil {
		return err
	}
	defer db.Close()

	tables, err := storeschema.New(config.DatasetSchema, "akahu")
	if err != nil {
		return err
	}

	if err := storeschema.Migrate(ctx, db, tables); err != nil {
		return err
	}

	emitter, err := snapshot.NewForZone(snapshot.DefaultTimezone)
	if err != nil {
		return err
	}

	l := loader.New(accountrepo.NewRepoSQL(db, tables), balancerepo.NewRepoSQL(db, tables), nil)

	runs := []struct {
		capture  time.Time
		mortgage string
	}{
		{capture: februaryCapture, mortgage: "-505000"},
		{capture: marchCapture, mortgage: "-500000"},
		{capture: marchCapture.Add(time.Hour), mortgage: "-500000"},
	}

	for _, run := range runs {
		body.Store(akahuBody(run.mortgage))

		s := ingestservice.New(client, emitter, l, nil, clock.FixedClock{T: run.capture})
		if _, err := s.Run(ctx); err != nil {
			return err
		}
	}

	return nil
}
