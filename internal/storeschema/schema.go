// Package storeschema creates the raw tables and derived views of the store and
// resolves where the views live.
package storeschema

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-petr/akahu-finance/pkg/dbpkg"
	"github.com/rs/zerolog"
)

// Raw table and view names.
const (
	AccountsTable        = "accounts"
	AccountBalancesTable = "account_balances"

	StgAccountsView         = "stg_akahu_accounts"
	AccountDailyBalanceView = "fct_account_daily_balances"
	MortgageOverTimeView    = "fct_mortgage_over_time"
	LoanAccountsView        = "dim_loan_accounts"
)

// ViewSchemaCandidates are the schemas probed, in order, for existing views.
var ViewSchemaCandidates = []string{"dbt", "akahu"}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Tables resolves schema qualified table and view names.
//
// It is built once when the store connection is set up and passed to every repo.
type Tables struct {
	Dataset    string
	ViewSchema string

	// ExternalViews marks a detected view schema owned by the transformation
	// layer. Migrate never replaces views there, it only fills in missing ones.
	ExternalViews bool
}

// New validates the schema names and returns Tables.
func New(dataset, viewSchema string) (Tables, error) {
	if !identRe.MatchString(dataset) {
		return Tables{}, fmt.Errorf("invalid dataset schema %q", dataset)
	}

	if viewSchema != "" && !identRe.MatchString(viewSchema) {
		return Tables{}, fmt.Errorf("invalid view schema %q", viewSchema)
	}

	return Tables{Dataset: dataset, ViewSchema: viewSchema}, nil
}

// Raw returns the qualified name of a raw table.
func (t Tables) Raw(name string) string {
	return t.Dataset + "." + name
}

// View returns the qualified name of a view.
func (t Tables) View(name string) string {
	if t.ViewSchema == "" {
		return name
	}

	return t.ViewSchema + "." + name
}

// Expand replaces {name} placeholders in query with qualified names.
func (t Tables) Expand(query string) string {
	return strings.NewReplacer(
		"{accounts}", t.Raw(AccountsTable),
		"{account_balances}", t.Raw(AccountBalancesTable),
		"{stg_akahu_accounts}", t.View(StgAccountsView),
		"{fct_account_daily_balances}", t.View(AccountDailyBalanceView),
		"{fct_mortgage_over_time}", t.View(MortgageOverTimeView),
		"{dim_loan_accounts}", t.View(LoanAccountsView),
	).Replace(query)
}

const detectViewQuery = `
SELECT count(*)
FROM information_schema.tables
WHERE table_schema = $1 AND table_name = $2
`

// DetectViewSchema returns the first candidate schema holding the views, or ""
// when the views are unqualified.
func DetectViewSchema(ctx context.Context, db dbpkg.SQLInterface) (string, error) {
	for _, schema := range ViewSchemaCandidates {
		exists, err := relationExists(ctx, db, schema, MortgageOverTimeView)
		if err != nil {
			return "", err
		}

		if exists {
			return schema, nil
		}
	}

	return "", nil
}

// Resolve returns Tables for the configured view schema, detecting it when empty.
//
// A failed detection falls back to unqualified view names.
func Resolve(ctx context.Context, db dbpkg.SQLInterface, dataset, viewSchema string) (Tables, error) {
	if viewSchema != "" {
		return New(dataset, viewSchema)
	}

	detected, err := DetectViewSchema(ctx, db)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("view schema detection failed, using unqualified names")
	}

	t, err := New(dataset, detected)
	if err != nil {
		return Tables{}, err
	}

	t.ExternalViews = detected != ""

	return t, nil
}

var views = []struct {
	name string
	ddl  string
}{
	{name: StgAccountsView, ddl: createStgAccountsView},
	{name: AccountDailyBalanceView, ddl: createAccountDailyBalancesView},
	{name: MortgageOverTimeView, ddl: createMortgageOverTimeView},
	{name: LoanAccountsView, ddl: createLoanAccountsView},
}

// Migrate creates the raw tables and the views.
//
// Views in an external schema are created only when missing; otherwise they
// are replaced so they follow the raw tables.
func Migrate(ctx context.Context, db dbpkg.SQLInterface, t Tables) error {
	stmts := []string{"CREATE SCHEMA IF NOT EXISTS " + t.Dataset}

	if t.ViewSchema != "" {
		stmts = append(stmts, "CREATE SCHEMA IF NOT EXISTS "+t.ViewSchema)
	}

	stmts = append(stmts, createAccountsTable, createAccountBalancesTable)

	for _, v := range views {
		if t.ExternalViews {
			exists, err := relationExists(ctx, db, t.ViewSchema, v.name)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			if exists {
				zerolog.Ctx(ctx).Debug().Str("view", t.View(v.name)).Msg("keeping external view")
				continue
			}
		}

		stmts = append(stmts, v.ddl)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, t.Expand(stmt)); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}

func relationExists(ctx context.Context, db dbpkg.SQLInterface, schema, name string) (bool, error) {
	var n int64
	if err := db.QueryRowContext(ctx, detectViewQuery, schema, name).Scan(&n); err != nil {
		return false, err
	}

	return n > 0, nil
}
