// Package memstore is an in-memory store with the same merge and report
// semantics as the SQL store.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/go-petr/akahu-finance/internal/aggregate"
	"github.com/go-petr/akahu-finance/internal/domain"
)

// Store holds merged accounts and snapshots. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]domain.Account
	snapshots map[domain.SnapshotKey]domain.BalanceSnapshot
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		accounts:  make(map[string]domain.Account),
		snapshots: make(map[domain.SnapshotKey]domain.BalanceSnapshot),
	}
}

// UpsertAccounts merges accounts on id, replacing stored content.
func (s *Store) UpsertAccounts(ctx context.Context, batchID string, accounts []domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range accounts {
		a.LoadBatchID = batchID
		a.Balance = nil
		s.accounts[a.ID] = a
	}

	return nil
}

// UpsertSnapshots merges snapshots on (account_id, snapshot_date).
func (s *Store) UpsertSnapshots(ctx context.Context, batchID string, snapshots []domain.BalanceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range snapshots {
		snap.LoadBatchID = batchID
		snap.SnapshotAt = snap.SnapshotAt.UTC()
		s.snapshots[snap.Key()] = snap
	}

	return nil
}

// Accounts returns a copy of the stored accounts ordered by id.
func (s *Store) Accounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Snapshots returns a copy of the stored snapshots ordered by date and account.
func (s *Store) Snapshots() []domain.BalanceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BalanceSnapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, snap)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SnapshotDate != out[j].SnapshotDate {
			return out[i].SnapshotDate.Before(out[j].SnapshotDate)
		}

		return out[i].AccountID < out[j].AccountID
	})

	return out
}

// ListAccounts returns the account views ordered by name.
func (s *Store) ListAccounts(ctx context.Context) ([]domain.AccountView, error) {
	return aggregate.Accounts(s.Accounts()), nil
}

// AccountBalances returns the daily balance series of an account.
func (s *Store) AccountBalances(ctx context.Context, accountID string) ([]domain.DailyBalance, error) {
	return aggregate.AccountBalances(s.Snapshots(), accountID), nil
}

// MortgageOverTime returns the per-date totals.
func (s *Store) MortgageOverTime(ctx context.Context) ([]domain.DailyAggregate, error) {
	return aggregate.MortgageOverTime(s.Snapshots()), nil
}

// LoanKPIs returns the loan summary at the latest date.
func (s *Store) LoanKPIs(ctx context.Context) (domain.LoanKPIs, error) {
	return aggregate.LoanKPIs(s.Accounts(), s.Snapshots()), nil
}

// LatestSnapshotDate returns the most recent snapshot date.
func (s *Store) LatestSnapshotDate(ctx context.Context) (domain.Date, bool, error) {
	d, ok := aggregate.LatestSnapshotDate(s.Snapshots())
	return d, ok, nil
}

// AccountRepo adapts the store to the loader's account repo.
type AccountRepo struct{ *Store }

// Upsert merges accounts.
func (r AccountRepo) Upsert(ctx context.Context, batchID string, accounts []domain.Account) error {
	return r.UpsertAccounts(ctx, batchID, accounts)
}

// BalanceRepo adapts the store to the loader's balance repo.
type BalanceRepo struct{ *Store }

// Upsert merges snapshots.
func (r BalanceRepo) Upsert(ctx context.Context, batchID string, snapshots []domain.BalanceSnapshot) error {
	return r.UpsertSnapshots(ctx, batchID, snapshots)
}
