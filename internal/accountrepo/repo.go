// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/go-petr/akahu-finance/internal/storeschema"
	"github.com/go-petr/akahu-finance/pkg/dbpkg"
	"github.com/go-petr/akahu-finance/pkg/errorspkg"
	"github.com/rs/zerolog"
)

var (
	// ErrAccountNotFound indicates that no account is stored under the id.
	ErrAccountNotFound = errors.New("account not found")
	// ErrMissingAccountID is returned by Upsert for an account without _id.
	ErrMissingAccountID = errors.New("account without _id")
)

// RepoSQL facilitates account repository layer logic.
type RepoSQL struct {
	db     dbpkg.SQLInterface
	conn   dbpkg.TxStarter
	tables storeschema.Tables
}

// NewRepoSQL returns account RepoSQL with a connection to start transactions.
func NewRepoSQL(db *sql.DB, t storeschema.Tables) *RepoSQL {
	return &RepoSQL{
		db:     db,
		conn:   db,
		tables: t,
	}
}

// NewTxRepoSQL returns account RepoSQL bound to an open transaction.
func NewTxRepoSQL(db dbpkg.SQLInterface, t storeschema.Tables) *RepoSQL {
	return &RepoSQL{
		db:     db,
		tables: t,
	}
}

const upsertQuery = `
INSERT INTO {accounts} (
    _id, name, type, status, connection_name,
    meta__loan_details__purpose,
    meta__loan_details__type,
    meta__loan_details__interest__rate,
    meta__loan_details__interest__type,
    meta__loan_details__interest__expires_at,
    meta__loan_details__is_interest_only,
    meta__loan_details__term__years,
    meta__loan_details__term__months,
    meta__loan_details__matures_at,
    meta__loan_details__initial_principal,
    meta__loan_details__repayment__frequency,
    meta__loan_details__repayment__next_date,
    meta__loan_details__repayment__next_amount,
    load_batch_id
) VALUES (
    $1, $2, $3, $4, $5, $6, $7,
    CAST($8 AS DOUBLE PRECISION), $9, $10, $11, $12, $13, $14,
    CAST($15 AS DOUBLE PRECISION), $16, $17,
    CAST($18 AS DOUBLE PRECISION), $19
)
ON CONFLICT (_id) DO UPDATE SET
    name = excluded.name,
    type = excluded.type,
    status = excluded.status,
    connection_name = excluded.connection_name,
    meta__loan_details__purpose = excluded.meta__loan_details__purpose,
    meta__loan_details__type = excluded.meta__loan_details__type,
    meta__loan_details__interest__rate = excluded.meta__loan_details__interest__rate,
    meta__loan_details__interest__type = excluded.meta__loan_details__interest__type,
    meta__loan_details__interest__expires_at = excluded.meta__loan_details__interest__expires_at,
    meta__loan_details__is_interest_only = excluded.meta__loan_details__is_interest_only,
    meta__loan_details__term__years = excluded.meta__loan_details__term__years,
    meta__loan_details__term__months = excluded.meta__loan_details__term__months,
    meta__loan_details__matures_at = excluded.meta__loan_details__matures_at,
    meta__loan_details__initial_principal = excluded.meta__loan_details__initial_principal,
    meta__loan_details__repayment__frequency = excluded.meta__loan_details__repayment__frequency,
    meta__loan_details__repayment__next_date = excluded.meta__loan_details__repayment__next_date,
    meta__loan_details__repayment__next_amount = excluded.meta__loan_details__repayment__next_amount,
    load_batch_id = excluded.load_batch_id
`

// Upsert merges the accounts on _id within a single transaction.
//
// A stored account is fully replaced by the new content and tagged with batchID.
func (r *RepoSQL) Upsert(ctx context.Context, batchID string, accounts []domain.Account) error {
	l := zerolog.Ctx(ctx)

	if r.conn == nil {
		return r.upsert(ctx, r.db, batchID, accounts)
	}

	err := dbpkg.InTx(ctx, r.conn, func(tx dbpkg.SQLInterface) error {
		return r.upsert(ctx, tx, batchID, accounts)
	})
	if err != nil {
		l.Error().Err(err).Str("batch_id", batchID).Msg("accounts merge rolled back")
		return err
	}

	return nil
}

func (r *RepoSQL) upsert(ctx context.Context, db dbpkg.SQLInterface, batchID string, accounts []domain.Account) error {
	stmt, err := db.PrepareContext(ctx, r.tables.Expand(upsertQuery))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range accounts {
		if accounts[i].ID == "" {
			return ErrMissingAccountID
		}

		if _, err := stmt.ExecContext(ctx, upsertArgs(accounts[i], batchID)...); err != nil {
			return err
		}
	}

	return nil
}

func upsertArgs(a domain.Account, batchID string) []any {
	var loan domain.LoanDetails
	if a.Meta.LoanDetails != nil {
		loan = *a.Meta.LoanDetails
	}

	return []any{
		a.ID,
		dbpkg.NullString(a.Name),
		dbpkg.NullString(a.Type),
		dbpkg.NullString(a.Status),
		dbpkg.NullString(a.Connection.Name),
		dbpkg.NullString(loan.Purpose),
		dbpkg.NullString(loan.Type),
		loan.Interest.Rate,
		dbpkg.NullString(loan.Interest.Type),
		dbpkg.UTCPtr(loan.Interest.ExpiresAt),
		loan.IsInterestOnly,
		loan.Term.Years,
		loan.Term.Months,
		dbpkg.UTCPtr(loan.MaturesAt),
		loan.InitialPrincipal,
		dbpkg.NullString(loan.Repayment.Frequency),
		dbpkg.UTCPtr(loan.Repayment.NextDate),
		loan.Repayment.NextAmount,
		batchID,
	}
}

const selectColumns = `
SELECT
    _id, name, type, status, connection_name,
    meta__loan_details__purpose,
    meta__loan_details__type,
    meta__loan_details__interest__rate,
    meta__loan_details__interest__type,
    meta__loan_details__interest__expires_at,
    meta__loan_details__is_interest_only,
    meta__loan_details__term__years,
    meta__loan_details__term__months,
    meta__loan_details__matures_at,
    meta__loan_details__initial_principal,
    meta__loan_details__repayment__frequency,
    meta__loan_details__repayment__next_date,
    meta__loan_details__repayment__next_amount,
    load_batch_id
FROM {accounts}
`

const getQuery = selectColumns + `WHERE _id = $1`

// Get returns the stored account with the given id.
func (r *RepoSQL) Get(ctx context.Context, id string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, r.tables.Expand(getQuery), id)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listQuery = selectColumns + `ORDER BY _id`

// List returns all stored accounts ordered by id.
func (r *RepoSQL) List(ctx context.Context) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, r.tables.Expand(listQuery))
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (domain.Account, error) {
	var (
		a                                              domain.Account
		loan                                           domain.LoanDetails
		name, typ, status, connName                    sql.NullString
		purpose, loanType, interestType, repaymentFreq sql.NullString
		interestExpires, maturesAt, repaymentNext      sql.NullTime
		interestOnly                                   sql.NullBool
		years, months                                  sql.NullInt64
	)

	err := s.Scan(
		&a.ID,
		&name,
		&typ,
		&status,
		&connName,
		&purpose,
		&loanType,
		&loan.Interest.Rate,
		&interestType,
		&interestExpires,
		&interestOnly,
		&years,
		&months,
		&maturesAt,
		&loan.InitialPrincipal,
		&repaymentFreq,
		&repaymentNext,
		&loan.Repayment.NextAmount,
		&a.LoadBatchID,
	)
	if err != nil {
		return domain.Account{}, err
	}

	a.Name, a.Type, a.Status = name.String, typ.String, status.String
	a.Connection.Name = connName.String

	loan.Purpose = purpose.String
	loan.Type = loanType.String
	loan.Interest.Type = interestType.String
	loan.Interest.ExpiresAt = dbpkg.TimePtr(interestExpires)
	loan.IsInterestOnly = dbpkg.BoolPtr(interestOnly)
	loan.Term.Years = dbpkg.Int64Ptr(years)
	loan.Term.Months = dbpkg.Int64Ptr(months)
	loan.MaturesAt = dbpkg.TimePtr(maturesAt)
	loan.Repayment.Frequency = repaymentFreq.String
	loan.Repayment.NextDate = dbpkg.TimePtr(repaymentNext)

	if loan != (domain.LoanDetails{}) {
		a.Meta.LoanDetails = &loan
	}

	return a, nil
}
