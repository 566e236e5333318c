// Package ingestservice manages one ingestion run: fetch, snapshot, merge, notify.
package ingestservice

import (
	"context"
	"fmt"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/go-petr/akahu-finance/internal/events"
	"github.com/go-petr/akahu-finance/internal/snapshot"
	"github.com/go-petr/akahu-finance/pkg/clock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Fetcher provides the accounts of the aggregation API.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ingestservice
type Fetcher interface {
	FetchAccounts(ctx context.Context) ([]domain.Account, error)
}

// Loader merges a batch into the store.
type Loader interface {
	Load(ctx context.Context, batchID string, accounts []domain.Account, snapshots []domain.BalanceSnapshot) (domain.LoadReport, error)
}

// Service facilitates ingestion runs.
type Service struct {
	fetcher   Fetcher
	emitter   *snapshot.Emitter
	loader    Loader
	publisher events.Publisher
	clock     clock.Clock
	newID     func() (uuid.UUID, error)
}

// New returns ingestion Service. A nil publisher discards events, a nil clock uses the system time.
func New(f Fetcher, e *snapshot.Emitter, l Loader, p events.Publisher, c clock.Clock) *Service {
	if p == nil {
		p = events.Noop{}
	}

	if c == nil {
		c = clock.RealClock{}
	}

	return &Service{
		fetcher:   f,
		emitter:   e,
		loader:    l,
		publisher: p,
		clock:     c,
		newID:     uuid.NewV7,
	}
}

// Run performs one ingestion run.
//
// A failed fetch loads nothing. Snapshots are captured at a single instant so
// all accounts of a run share one snapshot date.
func (s *Service) Run(ctx context.Context) (domain.LoadReport, error) {
	id, err := s.newID()
	if err != nil {
		return domain.LoadReport{}, fmt.Errorf("new batch id: %w", err)
	}

	batchID := id.String()
	l := zerolog.Ctx(ctx).With().Str("batch_id", batchID).Logger()
	ctx = l.WithContext(ctx)

	l.Info().Msg("fetching accounts")

	accounts, err := s.fetcher.FetchAccounts(ctx)
	if err != nil {
		l.Error().Err(err).Msg("fetch failed")
		return domain.LoadReport{BatchID: batchID}, err
	}

	capture := s.clock.Now()
	snapshots := s.emitter.EmitAll(ctx, accounts, capture)

	l.Info().
		Int("accounts", len(accounts)).
		Int("snapshots", len(snapshots)).
		Str("snapshot_date", s.emitter.DateOf(capture).String()).
		Msg("snapshots emitted")

	report, err := s.loader.Load(ctx, batchID, accounts, snapshots)
	if err != nil {
		l.Error().Stack().Err(err).
			Bool("accounts_committed", report.AccountsCommitted).
			Bool("snapshots_committed", report.SnapshotsCommitted).
			Msg("load failed")

		return report, err
	}

	l.Info().
		Int("accounts", report.Accounts).
		Int("snapshots", report.Snapshots).
		Int("skipped_accounts", report.SkippedAccounts).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("load completed")

	event := events.NewLoadCompleted(report, s.emitter.DateOf(capture))
	if err := s.publisher.PublishLoadCompleted(ctx, event); err != nil {
		// The batch is committed; a lost notification does not fail the run.
		l.Warn().Err(err).Msg("load completed event not published")
	}

	return report, nil
}
