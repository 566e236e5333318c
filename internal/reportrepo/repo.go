// Package reportrepo manages the read-only aggregation queries over the store views.
package reportrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/go-petr/akahu-finance/internal/storeschema"
	"github.com/go-petr/akahu-finance/pkg/dbpkg"
	"github.com/rs/zerolog"
)

// Query names reported in domain.QueryError.
const (
	QueryAccounts           = "accounts"
	QueryAccountBalances    = "account_balances"
	QueryMortgageOverTime   = "mortgage_over_time"
	QueryLoanKPIs           = "loan_kpis"
	QueryLatestSnapshotDate = "latest_snapshot_date"
)

// RepoSQL facilitates report repository layer logic.
type RepoSQL struct {
	db     dbpkg.SQLInterface
	tables storeschema.Tables
}

// NewRepoSQL returns report RepoSQL.
func NewRepoSQL(db dbpkg.SQLInterface, t storeschema.Tables) *RepoSQL {
	return &RepoSQL{
		db:     db,
		tables: t,
	}
}

func queryError(ctx context.Context, name string, err error) error {
	zerolog.Ctx(ctx).Error().Err(err).Str("query", name).Msg("report query failed")
	return &domain.QueryError{Query: name, Err: err}
}

const listAccountsQuery = `
WITH latest AS (
    SELECT *,
        row_number() OVER (PARTITION BY account_id ORDER BY load_batch_id DESC) AS rn
    FROM {stg_akahu_accounts}
)
SELECT account_id, account_name, account_type, is_credit_card, status,
    loan_interest_rate, loan_interest_type, loan_interest_expires_at,
    is_interest_only, term_years, term_months,
    loan_matures_at, loan_initial_principal,
    repayment_frequency, repayment_next_date, repayment_next_amount
FROM latest
WHERE rn = 1
ORDER BY account_name, account_id
`

// ListAccounts returns the latest version of every account ordered by name.
func (r *RepoSQL) ListAccounts(ctx context.Context) ([]domain.AccountView, error) {
	rows, err := r.db.QueryContext(ctx, r.tables.Expand(listAccountsQuery))
	if err != nil {
		return nil, queryError(ctx, QueryAccounts, err)
	}
	defer rows.Close()

	items := []domain.AccountView{}

	for rows.Next() {
		var (
			v                                 domain.AccountView
			name, typ, status, rateType, freq sql.NullString
			isCredit, interestOnly            sql.NullBool
			years, months                     sql.NullInt64
			expires, matures, nextDate        sql.NullTime
		)

		err := rows.Scan(
			&v.AccountID,
			&name,
			&typ,
			&isCredit,
			&status,
			&v.LoanInterestRate,
			&rateType,
			&expires,
			&interestOnly,
			&years,
			&months,
			&matures,
			&v.LoanInitialPrincipal,
			&freq,
			&nextDate,
			&v.RepaymentNextAmount,
		)
		if err != nil {
			return nil, queryError(ctx, QueryAccounts, err)
		}

		v.AccountName = dbpkg.StringPtr(name)
		v.AccountType = dbpkg.StringPtr(typ)
		v.IsCreditCard = isCredit.Bool
		v.Status = dbpkg.StringPtr(status)
		v.LoanInterestType = dbpkg.StringPtr(rateType)
		v.LoanInterestExpiresAt = dbpkg.TimePtr(expires)
		v.IsInterestOnly = dbpkg.BoolPtr(interestOnly)
		v.TermYears = dbpkg.Int64Ptr(years)
		v.TermMonths = dbpkg.Int64Ptr(months)
		v.LoanMaturesAt = dbpkg.TimePtr(matures)
		v.RepaymentFrequency = dbpkg.StringPtr(freq)
		v.RepaymentNextDate = dbpkg.TimePtr(nextDate)

		items = append(items, v)
	}

	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, QueryAccounts, err)
	}

	return items, nil
}

const accountBalancesQuery = `
SELECT snapshot_date, current_balance, available_balance, credit_limit, currency
FROM {fct_account_daily_balances}
WHERE account_id = $1
ORDER BY snapshot_date
`

// AccountBalances returns the daily balance series of an account ordered by date.
func (r *RepoSQL) AccountBalances(ctx context.Context, accountID string) ([]domain.DailyBalance, error) {
	rows, err := r.db.QueryContext(ctx, r.tables.Expand(accountBalancesQuery), accountID)
	if err != nil {
		return nil, queryError(ctx, QueryAccountBalances, err)
	}
	defer rows.Close()

	items := []domain.DailyBalance{}

	for rows.Next() {
		var (
			b        domain.DailyBalance
			currency sql.NullString
		)

		err := rows.Scan(&b.SnapshotDate, &b.CurrentBalance, &b.AvailableBalance, &b.CreditLimit, &currency)
		if err != nil {
			return nil, queryError(ctx, QueryAccountBalances, err)
		}

		b.Currency = dbpkg.StringPtr(currency)
		items = append(items, b)
	}

	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, QueryAccountBalances, err)
	}

	return items, nil
}

const mortgageOverTimeQuery = `
SELECT snapshot_date,
    total_mortgage_balance,
    total_creditcard_balance,
    total_net_debt,
    total_available,
    total_limit
FROM {fct_mortgage_over_time}
ORDER BY snapshot_date
`

// MortgageOverTime returns the per-date totals ordered by date.
func (r *RepoSQL) MortgageOverTime(ctx context.Context) ([]domain.DailyAggregate, error) {
	rows, err := r.db.QueryContext(ctx, r.tables.Expand(mortgageOverTimeQuery))
	if err != nil {
		return nil, queryError(ctx, QueryMortgageOverTime, err)
	}
	defer rows.Close()

	items := []domain.DailyAggregate{}

	for rows.Next() {
		var a domain.DailyAggregate

		err := rows.Scan(
			&a.SnapshotDate,
			&a.TotalMortgageBalance,
			&a.TotalCreditcardBalance,
			&a.TotalNetDebt,
			&a.TotalAvailable,
			&a.TotalLimit,
		)
		if err != nil {
			return nil, queryError(ctx, QueryMortgageOverTime, err)
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, QueryMortgageOverTime, err)
	}

	return items, nil
}

// The previous value is the net debt at the last date before the calendar month
// of the latest date. Rates are weighted by the magnitude of each loan's latest
// balance; SUM skips loans without a rate in the numerator only.
const loanKPIsQuery = `
WITH latest_date AS (
    SELECT max(snapshot_date) AS d FROM {fct_mortgage_over_time}
), prev_date AS (
    SELECT max(snapshot_date) AS d
    FROM {fct_mortgage_over_time}, latest_date
    WHERE snapshot_date < date_trunc('month', latest_date.d)
), curr AS (
    SELECT total_net_debt FROM {fct_mortgage_over_time}
    WHERE snapshot_date = (SELECT d FROM latest_date)
), prev AS (
    SELECT total_net_debt FROM {fct_mortgage_over_time}
    WHERE snapshot_date = (SELECT d FROM prev_date)
), latest_bal AS (
    SELECT DISTINCT ON (account_id)
        account_id, current_balance
    FROM {fct_account_daily_balances}
    WHERE upper(coalesce(account_type, '')) = 'LOAN' AND coalesce(is_credit_card, false) = false
    ORDER BY account_id, snapshot_date DESC, load_batch_id DESC, last_snapshot_at DESC
), weighted AS (
    SELECT
        CASE WHEN sum(abs(b.current_balance)) > 0
             THEN sum(CAST(l.loan_interest_rate AS DOUBLE PRECISION) * abs(b.current_balance)) / sum(abs(b.current_balance))
             ELSE NULL END AS weighted_rate
    FROM {dim_loan_accounts} l
    JOIN latest_bal b USING (account_id)
)
SELECT
    abs(coalesce((SELECT total_net_debt FROM curr), 0)) AS total_net_debt,
    abs(coalesce((SELECT total_net_debt FROM curr), 0)) - abs(coalesce((SELECT total_net_debt FROM prev), 0)) AS monthly_change,
    (SELECT weighted_rate FROM weighted) AS weighted_interest_rate
`

// LoanKPIs returns the loan summary at the latest snapshot date.
func (r *RepoSQL) LoanKPIs(ctx context.Context) (domain.LoanKPIs, error) {
	var k domain.LoanKPIs

	row := r.db.QueryRowContext(ctx, r.tables.Expand(loanKPIsQuery))

	if err := row.Scan(&k.TotalNetDebt, &k.MonthlyChange, &k.WeightedInterestRate); err != nil {
		return domain.LoanKPIs{}, queryError(ctx, QueryLoanKPIs, err)
	}

	return k, nil
}

const latestSnapshotDateQuery = `SELECT max(snapshot_date) FROM {fct_mortgage_over_time}`

// LatestSnapshotDate returns the most recent snapshot date, false when the store is empty.
func (r *RepoSQL) LatestSnapshotDate(ctx context.Context) (domain.Date, bool, error) {
	var d sql.NullTime

	row := r.db.QueryRowContext(ctx, r.tables.Expand(latestSnapshotDateQuery))

	if err := row.Scan(&d); err != nil {
		return domain.Date{}, false, queryError(ctx, QueryLatestSnapshotDate, err)
	}

	if !d.Valid {
		return domain.Date{}, false, nil
	}

	return domain.DateOf(d.Time.UTC()), true, nil
}
