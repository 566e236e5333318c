// Package balancerepo manages repository layer of balance snapshots.
package balancerepo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/go-petr/akahu-finance/internal/storeschema"
	"github.com/go-petr/akahu-finance/pkg/dbpkg"
	"github.com/go-petr/akahu-finance/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// RepoSQL facilitates snapshot repository layer logic.
type RepoSQL struct {
	db     dbpkg.SQLInterface
	conn   dbpkg.TxStarter
	tables storeschema.Tables
}

// NewRepoSQL returns snapshot RepoSQL with a connection to start transactions.
func NewRepoSQL(db *sql.DB, t storeschema.Tables) *RepoSQL {
	return &RepoSQL{
		db:     db,
		conn:   db,
		tables: t,
	}
}

// NewTxRepoSQL returns snapshot RepoSQL bound to an open transaction.
func NewTxRepoSQL(db dbpkg.SQLInterface, t storeschema.Tables) *RepoSQL {
	return &RepoSQL{
		db:     db,
		tables: t,
	}
}

const upsertQuery = `
INSERT INTO {account_balances} (
    account_id, snapshot_at, snapshot_date,
    account_name, account_type, connection_name, status,
    currency, current, available, "limit", overdrawn,
    refreshed_balance_at, raw_balance, load_batch_id
) VALUES (
    $1, $2, CAST($3 AS DATE), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
)
ON CONFLICT (account_id, snapshot_date) DO UPDATE SET
    snapshot_at = excluded.snapshot_at,
    account_name = excluded.account_name,
    account_type = excluded.account_type,
    connection_name = excluded.connection_name,
    status = excluded.status,
    currency = excluded.currency,
    current = excluded.current,
    available = excluded.available,
    "limit" = excluded."limit",
    overdrawn = excluded.overdrawn,
    refreshed_balance_at = excluded.refreshed_balance_at,
    raw_balance = excluded.raw_balance,
    load_batch_id = excluded.load_batch_id
`

// Upsert merges the snapshots on (account_id, snapshot_date) within a single transaction.
//
// A second load on the same local day replaces that day's row.
func (r *RepoSQL) Upsert(ctx context.Context, batchID string, snapshots []domain.BalanceSnapshot) error {
	l := zerolog.Ctx(ctx)

	if r.conn == nil {
		return r.upsert(ctx, r.db, batchID, snapshots)
	}

	err := dbpkg.InTx(ctx, r.conn, func(tx dbpkg.SQLInterface) error {
		return r.upsert(ctx, tx, batchID, snapshots)
	})
	if err != nil {
		l.Error().Err(err).Str("batch_id", batchID).Msg("snapshots merge rolled back")
		return err
	}

	return nil
}

func (r *RepoSQL) upsert(ctx context.Context, db dbpkg.SQLInterface, batchID string, snapshots []domain.BalanceSnapshot) error {
	stmt, err := db.PrepareContext(ctx, r.tables.Expand(upsertQuery))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range snapshots {
		s := snapshots[i]

		raw := string(s.RawBalance)
		if raw == "" {
			raw = "{}"
		}

		_, err := stmt.ExecContext(ctx,
			s.AccountID,
			s.SnapshotAt.UTC(),
			s.SnapshotDate,
			dbpkg.NullString(s.AccountName),
			dbpkg.NullString(s.AccountType),
			dbpkg.NullString(s.ConnectionName),
			dbpkg.NullString(s.Status),
			dbpkg.NullString(s.Currency),
			s.Current,
			s.Available,
			s.Limit,
			s.Overdrawn,
			dbpkg.UTCPtr(s.RefreshedBalanceAt),
			raw,
			batchID,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

const listByAccountQuery = `
SELECT
    account_id, snapshot_at, snapshot_date,
    account_name, account_type, connection_name, status,
    currency, current, available, "limit", overdrawn,
    refreshed_balance_at, raw_balance, load_batch_id
FROM {account_balances}
WHERE account_id = $1
ORDER BY snapshot_date
`

// ListByAccount returns the stored snapshot history of an account, oldest first.
func (r *RepoSQL) ListByAccount(ctx context.Context, accountID string) ([]domain.BalanceSnapshot, error) {
	return r.list(ctx, r.tables.Expand(listByAccountQuery), accountID)
}

const listAllQuery = `
SELECT
    account_id, snapshot_at, snapshot_date,
    account_name, account_type, connection_name, status,
    currency, current, available, "limit", overdrawn,
    refreshed_balance_at, raw_balance, load_batch_id
FROM {account_balances}
ORDER BY snapshot_date, account_id
`

// List returns every stored snapshot ordered by date and account.
func (r *RepoSQL) List(ctx context.Context) ([]domain.BalanceSnapshot, error) {
	return r.list(ctx, r.tables.Expand(listAllQuery))
}

func (r *RepoSQL) list(ctx context.Context, query string, args ...any) ([]domain.BalanceSnapshot, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.BalanceSnapshot{}

	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, s)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

func scanSnapshot(rows *sql.Rows) (domain.BalanceSnapshot, error) {
	var (
		s                                     domain.BalanceSnapshot
		name, typ, connName, status, currency sql.NullString
		current, available, limit, rawBalance sql.NullString
		overdrawn                             sql.NullBool
		refreshed                             sql.NullTime
	)

	err := rows.Scan(
		&s.AccountID,
		&s.SnapshotAt,
		&s.SnapshotDate,
		&name,
		&typ,
		&connName,
		&status,
		&currency,
		&current,
		&available,
		&limit,
		&overdrawn,
		&refreshed,
		&rawBalance,
		&s.LoadBatchID,
	)
	if err != nil {
		return s, err
	}

	s.SnapshotAt = s.SnapshotAt.UTC()
	s.AccountName, s.AccountType, s.ConnectionName = name.String, typ.String, connName.String
	s.Status, s.Currency = status.String, currency.String
	s.Overdrawn = dbpkg.BoolPtr(overdrawn)
	s.RefreshedBalanceAt = dbpkg.TimePtr(refreshed)

	if rawBalance.Valid {
		s.RawBalance = json.RawMessage(rawBalance.String)
	}

	if s.Current, err = dbpkg.DecimalFromText(current); err != nil {
		return s, err
	}

	if s.Available, err = dbpkg.DecimalFromText(available); err != nil {
		return s, err
	}

	if s.Limit, err = dbpkg.DecimalFromText(limit); err != nil {
		return s, err
	}

	return s, nil
}
