package test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/go-petr/akahu-finance/pkg/randompkg"
)

// Amount parses s into a valid NullDecimal.
func Amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// LoanAccount returns a LOAN account with the given rate. An empty rate leaves it null.
func LoanAccount(id, name, rate string) domain.Account {
	a := domain.Account{
		ID:         id,
		Name:       name,
		Type:       domain.AccountTypeLoan,
		Status:     "ACTIVE",
		Connection: domain.Connection{Name: randompkg.ConnectionName()},
		Meta:       domain.Meta{LoanDetails: &domain.LoanDetails{Type: "TABLE"}},
	}

	if rate != "" {
		a.Meta.LoanDetails.Interest.Rate = Amount(rate)
	}

	return a
}

// RandomLoanAccount returns a LOAN account with random id, name and rate.
func RandomLoanAccount() domain.Account {
	return LoanAccount(randompkg.AccountID(), randompkg.NameOf("Loan"), randompkg.InterestRate().String())
}

// SnapshotOf returns the snapshot of a on date with the current balance, captured
// one hour after midnight UTC.
func SnapshotOf(a domain.Account, date, current string) domain.BalanceSnapshot {
	d := domain.MustParseDate(date)

	return domain.BalanceSnapshot{
		AccountID:      a.ID,
		SnapshotAt:     d.In(time.UTC).Add(time.Hour),
		SnapshotDate:   d,
		AccountName:    a.Name,
		AccountType:    a.Type,
		ConnectionName: a.Connection.Name,
		Status:         a.Status,
		Currency:       "NZD",
		Current:        Amount(current),
	}
}
