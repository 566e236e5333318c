package accountrepo

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/go-petr/akahu-finance/internal/integrationtest"
	"github.com/go-petr/akahu-finance/pkg/randompkg"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func randomLoanAccount() domain.Account {
	years := int64(25)
	interestOnly := false
	expires := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	next := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	return domain.Account{
		ID:         randompkg.AccountID(),
		Name:       randompkg.NameOf("Mortgage"),
		Type:       domain.AccountTypeLoan,
		Status:     "ACTIVE",
		Connection: domain.Connection{Name: randompkg.ConnectionName()},
		Meta: domain.Meta{LoanDetails: &domain.LoanDetails{
			Purpose: "HOME",
			Type:    "TABLE",
			Interest: domain.LoanInterest{
				Rate:      decimal.NewNullDecimal(decimal.RequireFromString("5.25")),
				Type:      "FIXED",
				ExpiresAt: &expires,
			},
			IsInterestOnly:   &interestOnly,
			Term:             domain.LoanTerm{Years: &years},
			InitialPrincipal: decimal.NewNullDecimal(decimal.NewFromInt(600_000)),
			Repayment: domain.LoanRepayment{
				Frequency:  "MONTHLY",
				NextDate:   &next,
				NextAmount: decimal.NewNullDecimal(decimal.RequireFromString("3100.5")),
			},
		}},
	}
}

func randomAccount(typ string) domain.Account {
	return domain.Account{
		ID:         randompkg.AccountID(),
		Name:       randompkg.NameOf(typ),
		Type:       typ,
		Status:     "ACTIVE",
		Connection: domain.Connection{Name: randompkg.ConnectionName()},
	}
}

func TestUpsertAndGet(t *testing.T) {
	db, tables := integrationtest.SetupDB(t)
	repo := NewRepoSQL(db, tables)
	ctx := context.Background()

	loan := randomLoanAccount()
	checking := randomAccount(domain.AccountTypeChecking)
	batchID := uuid.Must(uuid.NewV7()).String()

	err := repo.Upsert(ctx, batchID, []domain.Account{loan, checking})
	require.NoError(t, err)

	got, err := repo.Get(ctx, loan.ID)
	require.NoError(t, err)

	require.Equal(t, loan.ID, got.ID)
	require.Equal(t, loan.Name, got.Name)
	require.Equal(t, loan.Type, got.Type)
	require.Equal(t, loan.Connection.Name, got.Connection.Name)
	require.Equal(t, batchID, got.LoadBatchID)

	require.NotNil(t, got.Meta.LoanDetails)
	details := got.Meta.LoanDetails
	require.True(t, details.Interest.Rate.Decimal.Equal(decimal.RequireFromString("5.25")))
	require.Equal(t, "FIXED", details.Interest.Type)
	require.Equal(t, *loan.Meta.LoanDetails.Interest.ExpiresAt, *details.Interest.ExpiresAt)
	require.Equal(t, int64(25), *details.Term.Years)
	require.Nil(t, details.Term.Months)
	require.False(t, *details.IsInterestOnly)
	require.True(t, details.InitialPrincipal.Decimal.Equal(decimal.NewFromInt(600_000)))
	require.True(t, details.Repayment.NextAmount.Decimal.Equal(decimal.RequireFromString("3100.5")))

	got, err = repo.Get(ctx, checking.ID)
	require.NoError(t, err)
	require.Nil(t, got.Meta.LoanDetails)
}

func TestUpsertIsIdempotent(t *testing.T) {
	db, tables := integrationtest.SetupDB(t)
	repo := NewRepoSQL(db, tables)
	ctx := context.Background()

	accounts := []domain.Account{
		randomLoanAccount(),
		randomAccount(domain.AccountTypeSavings),
		randomAccount(domain.AccountTypeCreditCard),
	}

	for i := 0; i < 3; i++ {
		err := repo.Upsert(ctx, uuid.Must(uuid.NewV7()).String(), accounts)
		require.NoError(t, err)
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(accounts))
}

func TestUpsertReplacesContent(t *testing.T) {
	db, tables := integrationtest.SetupDB(t)
	repo := NewRepoSQL(db, tables)
	ctx := context.Background()

	account := randomLoanAccount()
	firstBatch := uuid.Must(uuid.NewV7()).String()
	require.NoError(t, repo.Upsert(ctx, firstBatch, []domain.Account{account}))

	account.Name = "Renamed Mortgage"
	account.Meta.LoanDetails.Interest.Rate = decimal.NewNullDecimal(decimal.RequireFromString("4.99"))
	account.Meta.LoanDetails.Repayment = domain.LoanRepayment{}

	secondBatch := uuid.Must(uuid.NewV7()).String()
	require.NoError(t, repo.Upsert(ctx, secondBatch, []domain.Account{account}))

	got, err := repo.Get(ctx, account.ID)
	require.NoError(t, err)

	require.Equal(t, "Renamed Mortgage", got.Name)
	require.Equal(t, secondBatch, got.LoadBatchID)
	require.True(t, got.Meta.LoanDetails.Interest.Rate.Decimal.Equal(decimal.RequireFromString("4.99")))
	require.False(t, got.Meta.LoanDetails.Repayment.NextAmount.Valid)
	require.Nil(t, got.Meta.LoanDetails.Repayment.NextDate)
}

func TestUpsertWithinTransaction(t *testing.T) {
	db, tables := integrationtest.SetupDB(t)
	ctx := context.Background()

	tx := integrationtest.SetupTX(t, db)
	txRepo := NewTxRepoSQL(tx, tables)

	account := randomAccount(domain.AccountTypeChecking)
	require.NoError(t, txRepo.Upsert(ctx, uuid.Must(uuid.NewV7()).String(), []domain.Account{account}))
	require.NoError(t, tx.Rollback())

	_, err := NewRepoSQL(db, tables).Get(ctx, account.ID)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestUpsertRollsBackBatch(t *testing.T) {
	db, tables := integrationtest.SetupDB(t)
	repo := NewRepoSQL(db, tables)
	ctx := context.Background()

	valid := randomAccount(domain.AccountTypeChecking)
	invalid := randomAccount(domain.AccountTypeSavings)
	invalid.ID = ""

	err := repo.Upsert(ctx, uuid.Must(uuid.NewV7()).String(), []domain.Account{valid, invalid})
	require.ErrorIs(t, err, ErrMissingAccountID)

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestGetNotFound(t *testing.T) {
	db, tables := integrationtest.SetupDB(t)

	got, err := NewRepoSQL(db, tables).Get(context.Background(), "acc_missing")
	require.ErrorIs(t, err, ErrAccountNotFound)
	require.Empty(t, got)
}

func TestListOrderedByID(t *testing.T) {
	db, tables := integrationtest.SetupDB(t)
	repo := NewRepoSQL(db, tables)
	ctx := context.Background()

	a := randomAccount(domain.AccountTypeChecking)
	a.ID = "acc_b"
	b := randomAccount(domain.AccountTypeSavings)
	b.ID = "acc_a"

	require.NoError(t, repo.Upsert(ctx, uuid.Must(uuid.NewV7()).String(), []domain.Account{a, b}))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "acc_a", got[0].ID)
	require.Equal(t, "acc_b", got[1].ID)
}
