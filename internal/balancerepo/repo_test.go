package balancerepo

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/go-petr/akahu-finance/internal/integrationtest"
	"github.com/go-petr/akahu-finance/pkg/randompkg"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func randomSnapshot(accountID string, date domain.Date) domain.BalanceSnapshot {
	current := randompkg.MoneyAmountBetween(-10_000, 10_000)
	overdrawn := false

	return domain.BalanceSnapshot{
		AccountID:      accountID,
		SnapshotAt:     date.In(time.UTC).Add(9 * time.Hour),
		SnapshotDate:   date,
		AccountName:    randompkg.NameOf("Everyday"),
		AccountType:    domain.AccountTypeChecking,
		ConnectionName: randompkg.ConnectionName(),
		Status:         "ACTIVE",
		Currency:       "NZD",
		Current:        decimal.NewNullDecimal(current),
		Overdrawn:      &overdrawn,
		RawBalance:     json.RawMessage(`{"currency":"NZD","current":` + current.String() + `}`),
	}
}

func TestUpsertAndList(t *testing.T) {
	db, tables := integrationtest.SetupDB(t)
	repo := NewRepoSQL(db, tables)
	ctx := context.Background()

	accountID := randompkg.AccountID()
	s := randomSnapshot(accountID, domain.MustParseDate("2024-03-01"))
	s.Limit = decimal.NewNullDecimal(decimal.NewFromInt(5000))
	batchID := uuid.Must(uuid.NewV7()).String()

	require.NoError(t, repo.Upsert(ctx, batchID, []domain.BalanceSnapshot{s}))

	got, err := repo.ListByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.Equal(t, s.SnapshotDate, got[0].SnapshotDate)
	require.True(t, s.SnapshotAt.Equal(got[0].SnapshotAt))
	require.Equal(t, s.AccountName, got[0].AccountName)
	require.Equal(t, "NZD", got[0].Currency)
	require.True(t, s.Current.Decimal.Equal(got[0].Current.Decimal))
	require.False(t, got[0].Available.Valid)
	require.True(t, got[0].Limit.Decimal.Equal(decimal.NewFromInt(5000)))
	require.False(t, *got[0].Overdrawn)
	require.Nil(t, got[0].RefreshedBalanceAt)
	require.JSONEq(t, string(s.RawBalance), string(got[0].RawBalance))
	require.Equal(t, batchID, got[0].LoadBatchID)
}

func TestUpsertSameDayOverwrites(t *testing.T) {
	db, tables := integrationtest.SetupDB(t)
	repo := NewRepoSQL(db, tables)
	ctx := context.Background()

	accountID := randompkg.AccountID()
	date := domain.MustParseDate("2024-03-01")

	first := randomSnapshot(accountID, date)
	require.NoError(t, repo.Upsert(ctx, uuid.Must(uuid.NewV7()).String(), []domain.BalanceSnapshot{first}))

	second := randomSnapshot(accountID, date)
	second.SnapshotAt = first.SnapshotAt.Add(3 * time.Hour)
	second.Current = decimal.NewNullDecimal(decimal.RequireFromString("-1234.56"))
	secondBatch := uuid.Must(uuid.NewV7()).String()
	require.NoError(t, repo.Upsert(ctx, secondBatch, []domain.BalanceSnapshot{second}))

	got, err := repo.ListByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "-1234.56", got[0].Current.Decimal.String())
	require.True(t, second.SnapshotAt.Equal(got[0].SnapshotAt))
	require.Equal(t, secondBatch, got[0].LoadBatchID)
}

func TestUpsertOneRowPerDay(t *testing.T) {
	db, tables := integrationtest.SetupDB(t)
	repo := NewRepoSQL(db, tables)
	ctx := context.Background()

	accountID := randompkg.AccountID()
	start := domain.MustParseDate("2024-02-27")
	days := 5

	for i := 0; i < days; i++ {
		s := randomSnapshot(accountID, start.AddDays(i))
		require.NoError(t, repo.Upsert(ctx, uuid.Must(uuid.NewV7()).String(), []domain.BalanceSnapshot{s}))
	}

	got, err := repo.ListByAccount(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, got, days)

	for i := range got {
		require.Equal(t, start.AddDays(i), got[i].SnapshotDate)
	}
}

func TestUpsertEmptyRawBalance(t *testing.T) {
	db, tables := integrationtest.SetupDB(t)
	repo := NewRepoSQL(db, tables)
	ctx := context.Background()

	s := domain.BalanceSnapshot{
		AccountID:    randompkg.AccountID(),
		SnapshotAt:   time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC),
		SnapshotDate: domain.MustParseDate("2024-03-01"),
	}

	require.NoError(t, repo.Upsert(ctx, uuid.Must(uuid.NewV7()).String(), []domain.BalanceSnapshot{s}))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "{}", string(got[0].RawBalance))
	require.False(t, got[0].Current.Valid)
	require.Nil(t, got[0].Overdrawn)
}

func TestUpsertRollsBackBatch(t *testing.T) {
	db, tables := integrationtest.SetupDB(t)
	repo := NewRepoSQL(db, tables)
	ctx := context.Background()

	accountID := randompkg.AccountID()
	valid := randomSnapshot(accountID, domain.MustParseDate("2024-03-01"))
	// The zero date is not a valid DATE for the store.
	invalid := randomSnapshot(randompkg.AccountID(), domain.Date{})

	err := repo.Upsert(ctx, uuid.Must(uuid.NewV7()).String(), []domain.BalanceSnapshot{valid, invalid})
	require.Error(t, err)

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}
