// Package reportservice manages business logic layer of the read-only reports.
package reportservice

import (
	"context"
	"errors"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/rs/zerolog"
)

// Health reasons.
const (
	ReasonNoStore     = "no_db_found"
	ReasonQueryFailed = "db_query_failed"
)

// Repo provides data access layer interface needed by report service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package reportservice
type Repo interface {
	ListAccounts(ctx context.Context) ([]domain.AccountView, error)
	AccountBalances(ctx context.Context, accountID string) ([]domain.DailyBalance, error)
	MortgageOverTime(ctx context.Context) ([]domain.DailyAggregate, error)
	LoanKPIs(ctx context.Context) (domain.LoanKPIs, error)
	LatestSnapshotDate(ctx context.Context) (domain.Date, bool, error)
}

// Store opens a Repo over the current store.
//
// Open fails with *domain.StoreUnavailableError while the store cannot be reached.
// The returned func releases the Repo and must be called once it is no longer used.
type Store interface {
	Open(ctx context.Context) (Repo, func(), error)
	Path() string
}

// Service facilitates report service layer logic.
type Service struct {
	store      Store
	houseValue float64
}

// New returns report service struct to serve the aggregates.
func New(s Store, houseValue float64) *Service {
	return &Service{
		store:      s,
		houseValue: houseValue,
	}
}

func (s *Service) open(ctx context.Context) (Repo, func(), error) {
	repo, release, err := s.store.Open(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("db_path", s.store.Path()).Msg("store unavailable")

		var unavailable *domain.StoreUnavailableError
		if !errors.As(err, &unavailable) {
			err = &domain.StoreUnavailableError{Path: s.store.Path(), Err: err}
		}

		return nil, nil, err
	}

	return repo, release, nil
}

// classify makes every repo failure a *domain.QueryError.
func classify(name string, err error) error {
	var qErr *domain.QueryError
	if errors.As(err, &qErr) {
		return err
	}

	return &domain.QueryError{Query: name, Err: err}
}

// Accounts returns the latest version of every account.
func (s *Service) Accounts(ctx context.Context) ([]domain.AccountView, error) {
	repo, release, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	items, err := repo.ListAccounts(ctx)
	if err != nil {
		return nil, classify("accounts", err)
	}

	return items, nil
}

// AccountBalances returns the daily balance series of an account.
func (s *Service) AccountBalances(ctx context.Context, accountID string) ([]domain.DailyBalance, error) {
	repo, release, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	items, err := repo.AccountBalances(ctx, accountID)
	if err != nil {
		return nil, classify("account_balances", err)
	}

	return items, nil
}

// MortgageOverTime returns the per-date totals.
func (s *Service) MortgageOverTime(ctx context.Context) ([]domain.DailyAggregate, error) {
	repo, release, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	items, err := repo.MortgageOverTime(ctx)
	if err != nil {
		return nil, classify("mortgage_over_time", err)
	}

	return items, nil
}

// LoanKPIs returns the loan summary.
func (s *Service) LoanKPIs(ctx context.Context) (domain.LoanKPIs, error) {
	repo, release, err := s.open(ctx)
	if err != nil {
		return domain.LoanKPIs{}, err
	}
	defer release()

	kpis, err := repo.LoanKPIs(ctx)
	if err != nil {
		return domain.LoanKPIs{}, classify("loan_kpis", err)
	}

	return kpis, nil
}

// Settings returns the display settings.
func (s *Service) Settings(ctx context.Context) domain.Settings {
	return domain.Settings{HouseValue: s.houseValue}
}

// Health reports whether the store can be read. It never fails.
func (s *Service) Health(ctx context.Context) domain.Health {
	path := s.store.Path()

	repo, release, err := s.store.Open(ctx)
	if err != nil {
		return domain.Health{OK: false, Reason: ReasonNoStore, Error: err.Error(), DBPath: path}
	}
	defer release()

	d, ok, err := repo.LatestSnapshotDate(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("health check query failed")
		return domain.Health{OK: false, Reason: ReasonQueryFailed, Error: err.Error(), DBPath: path}
	}

	h := domain.Health{OK: true, DBPath: path}

	if ok {
		latest := d.String()
		h.LatestSnapshotDate = &latest
	}

	return h
}
