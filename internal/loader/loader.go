// Package loader merges a fetched batch of accounts and snapshots into the store.
package loader

import (
	"context"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/go-petr/akahu-finance/pkg/clock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// AccountRepo merges accounts on _id.
//
//go:generate mockgen -source loader.go -destination loader_mock.go -package loader
type AccountRepo interface {
	Upsert(ctx context.Context, batchID string, accounts []domain.Account) error
}

// BalanceRepo merges balance snapshots on (account_id, snapshot_date).
type BalanceRepo interface {
	Upsert(ctx context.Context, batchID string, snapshots []domain.BalanceSnapshot) error
}

// Loader facilitates the merge of one load batch.
//
// Each table is merged atomically on its own. There is no transaction spanning
// both tables, so a failed snapshot merge leaves the accounts of the batch in place.
type Loader struct {
	accounts AccountRepo
	balances BalanceRepo
	clock    clock.Clock
}

// New returns a Loader.
func New(ar AccountRepo, br BalanceRepo, c clock.Clock) *Loader {
	if c == nil {
		c = clock.RealClock{}
	}

	return &Loader{
		accounts: ar,
		balances: br,
		clock:    c,
	}
}

// Load merges the batch. Accounts without an id are skipped, duplicates within
// the batch are collapsed with the last occurrence winning.
//
// On failure the returned report tells which tables were committed.
func (l *Loader) Load(ctx context.Context, batchID string, accounts []domain.Account, snapshots []domain.BalanceSnapshot) (domain.LoadReport, error) {
	log := zerolog.Ctx(ctx).With().Str("batch_id", batchID).Logger()

	report := domain.LoadReport{
		BatchID:   batchID,
		StartedAt: l.clock.Now().UTC(),
	}

	uniqAccounts, skipped := dedupAccounts(accounts)
	uniqSnapshots := dedupSnapshots(snapshots)

	report.Accounts = len(uniqAccounts)
	report.Snapshots = len(uniqSnapshots)
	report.SkippedAccounts = skipped

	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("accounts without id skipped")
	}

	if err := l.accounts.Upsert(ctx, batchID, uniqAccounts); err != nil {
		report.FinishedAt = l.clock.Now().UTC()
		return report, errors.Wrap(err, "loader: merge accounts")
	}

	report.AccountsCommitted = true
	log.Debug().Int("accounts", report.Accounts).Msg("accounts merged")

	if err := l.balances.Upsert(ctx, batchID, uniqSnapshots); err != nil {
		report.FinishedAt = l.clock.Now().UTC()
		return report, errors.Wrap(err, "loader: merge snapshots")
	}

	report.SnapshotsCommitted = true
	report.FinishedAt = l.clock.Now().UTC()
	log.Debug().Int("snapshots", report.Snapshots).Msg("snapshots merged")

	return report, nil
}

func dedupAccounts(accounts []domain.Account) ([]domain.Account, int) {
	var skipped int

	pos := make(map[string]int, len(accounts))
	out := make([]domain.Account, 0, len(accounts))

	for _, a := range accounts {
		if a.ID == "" {
			skipped++
			continue
		}

		if i, ok := pos[a.ID]; ok {
			out[i] = a
			continue
		}

		pos[a.ID] = len(out)
		out = append(out, a)
	}

	return out, skipped
}

func dedupSnapshots(snapshots []domain.BalanceSnapshot) []domain.BalanceSnapshot {
	pos := make(map[domain.SnapshotKey]int, len(snapshots))
	out := make([]domain.BalanceSnapshot, 0, len(snapshots))

	for _, s := range snapshots {
		if s.AccountID == "" {
			continue
		}

		k := s.Key()
		if i, ok := pos[k]; ok {
			out[i] = s
			continue
		}

		pos[k] = len(out)
		out = append(out, s)
	}

	return out
}
