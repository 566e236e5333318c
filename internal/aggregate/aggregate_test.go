package aggregate

import (
	"testing"
	"time"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func snap(id, typ, date, current string) domain.BalanceSnapshot {
	s := domain.BalanceSnapshot{
		AccountID:    id,
		AccountType:  typ,
		SnapshotDate: domain.MustParseDate(date),
		SnapshotAt:   domain.MustParseDate(date).In(time.UTC),
		LoadBatchID:  "b-" + date,
	}

	if current != "" {
		s.Current = dec(current)
	}

	return s
}

func loan(id, rate string) domain.Account {
	a := domain.Account{ID: id, Type: domain.AccountTypeLoan, Meta: domain.Meta{LoanDetails: &domain.LoanDetails{}}}
	if rate != "" {
		a.Meta.LoanDetails.Interest.Rate = dec(rate)
	}

	return a
}

func TestMortgageOverTime(t *testing.T) {
	snapshots := []domain.BalanceSnapshot{
		snap("acc_loan", "LOAN", "2024-03-02", "-500000"),
		snap("acc_card", "CREDITCARD", "2024-03-02", "-1500"),
		snap("acc_visa", "Visa Credit", "2024-03-02", "-2500"),
		snap("acc_loan", "LOAN", "2024-03-01", "-501000"),
		snap("acc_cheq", "CHECKING", "2024-03-01", ""),
	}
	snapshots[0].Available = dec("10")
	snapshots[1].Limit = dec("5000")

	got := MortgageOverTime(snapshots)
	require.Len(t, got, 2)

	require.Equal(t, domain.MustParseDate("2024-03-01"), got[0].SnapshotDate)
	require.Equal(t, "-501000", got[0].TotalNetDebt.String())
	require.True(t, got[0].TotalCreditcardBalance.IsZero())

	day := got[1]
	require.Equal(t, domain.MustParseDate("2024-03-02"), day.SnapshotDate)
	require.Equal(t, "-500000", day.TotalMortgageBalance.String())
	require.Equal(t, "-4000", day.TotalCreditcardBalance.String())
	require.Equal(t, "-504000", day.TotalNetDebt.String())
	require.Equal(t, "10", day.TotalAvailable.String())
	require.Equal(t, "5000", day.TotalLimit.String())
}

func TestMortgageOverTimeLoanTypeExactMatch(t *testing.T) {
	got := MortgageOverTime([]domain.BalanceSnapshot{
		snap("acc_1", "loan", "2024-03-01", "-100"),
		snap("acc_2", "Home Loan", "2024-03-01", "-200"),
	})

	require.Len(t, got, 1)
	require.Equal(t, "-100", got[0].TotalMortgageBalance.String())
	require.Equal(t, "-300", got[0].TotalNetDebt.String())
}

func TestLoanKPIs(t *testing.T) {
	testCases := []struct {
		name      string
		accounts  []domain.Account
		snapshots []domain.BalanceSnapshot
		want      domain.LoanKPIs
	}{
		{
			name: "Empty",
			want: domain.LoanKPIs{},
		},
		{
			name:     "WeightedRate",
			accounts: []domain.Account{loan("acc_a", "4"), loan("acc_b", "6")},
			snapshots: []domain.BalanceSnapshot{
				snap("acc_a", "LOAN", "2024-03-10", "-300000"),
				snap("acc_b", "LOAN", "2024-03-10", "-100000"),
			},
			want: domain.LoanKPIs{
				TotalNetDebt:         decimal.NewFromInt(400000),
				MonthlyChange:        decimal.NewFromInt(400000),
				WeightedInterestRate: dec("4.5"),
			},
		},
		{
			name:     "PreviousMonth",
			accounts: []domain.Account{loan("acc_a", "5")},
			snapshots: []domain.BalanceSnapshot{
				snap("acc_a", "LOAN", "2024-01-31", "-510000"),
				snap("acc_a", "LOAN", "2024-02-28", "-505000"),
				snap("acc_a", "LOAN", "2024-03-01", "-504000"),
				snap("acc_a", "LOAN", "2024-03-20", "-500000"),
			},
			want: domain.LoanKPIs{
				TotalNetDebt:         decimal.NewFromInt(500000),
				MonthlyChange:        decimal.NewFromInt(-5000),
				WeightedInterestRate: dec("5"),
			},
		},
		{
			name:     "NullRateKeepsWeight",
			accounts: []domain.Account{loan("acc_a", "4"), loan("acc_b", "")},
			snapshots: []domain.BalanceSnapshot{
				snap("acc_a", "LOAN", "2024-03-10", "-100000"),
				snap("acc_b", "LOAN", "2024-03-10", "-100000"),
			},
			want: domain.LoanKPIs{
				TotalNetDebt:         decimal.NewFromInt(200000),
				MonthlyChange:        decimal.NewFromInt(200000),
				WeightedInterestRate: dec("2"),
			},
		},
		{
			name:     "AllRatesNull",
			accounts: []domain.Account{loan("acc_a", ""), loan("acc_b", "")},
			snapshots: []domain.BalanceSnapshot{
				snap("acc_a", "LOAN", "2024-03-10", "-100000"),
				snap("acc_b", "LOAN", "2024-03-10", "-50000"),
			},
			want: domain.LoanKPIs{
				TotalNetDebt:  decimal.NewFromInt(150000),
				MonthlyChange: decimal.NewFromInt(150000),
			},
		},
		{
			name:     "ZeroWeight",
			accounts: []domain.Account{loan("acc_a", "4")},
			snapshots: []domain.BalanceSnapshot{
				snap("acc_a", "LOAN", "2024-03-10", "0"),
				snap("acc_card", "CREDITCARD", "2024-03-10", "-250"),
			},
			want: domain.LoanKPIs{
				TotalNetDebt:  decimal.NewFromInt(250),
				MonthlyChange: decimal.NewFromInt(250),
			},
		},
		{
			name:     "LatestBalanceByDate",
			accounts: []domain.Account{loan("acc_a", "3"), loan("acc_b", "9")},
			snapshots: []domain.BalanceSnapshot{
				snap("acc_a", "LOAN", "2024-03-01", "-100"),
				snap("acc_b", "LOAN", "2024-03-01", "-100000"),
				snap("acc_a", "LOAN", "2024-03-02", "-100000"),
				snap("acc_b", "LOAN", "2024-03-02", "-100"),
			},
			want: domain.LoanKPIs{
				TotalNetDebt:         decimal.NewFromInt(100100),
				MonthlyChange:        decimal.NewFromInt(100100),
				WeightedInterestRate: decimal.NewNullDecimal(decimal.NewFromInt(300900).Div(decimal.NewFromInt(100100))),
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			got := LoanKPIs(tc.accounts, tc.snapshots)

			require.True(t, tc.want.TotalNetDebt.Equal(got.TotalNetDebt), "total_net_debt: want %s, got %s", tc.want.TotalNetDebt, got.TotalNetDebt)
			require.True(t, tc.want.MonthlyChange.Equal(got.MonthlyChange), "monthly_change: want %s, got %s", tc.want.MonthlyChange, got.MonthlyChange)
			require.Equal(t, tc.want.WeightedInterestRate.Valid, got.WeightedInterestRate.Valid)

			if tc.want.WeightedInterestRate.Valid {
				require.True(t, tc.want.WeightedInterestRate.Decimal.Equal(got.WeightedInterestRate.Decimal),
					"weighted_interest_rate: want %s, got %s", tc.want.WeightedInterestRate.Decimal, got.WeightedInterestRate.Decimal)
			}
		})
	}
}

func TestAccountBalances(t *testing.T) {
	s1 := snap("acc_a", "CHECKING", "2024-03-02", "20")
	s1.Currency = "NZD"
	s2 := snap("acc_a", "CHECKING", "2024-03-01", "10")

	got := AccountBalances([]domain.BalanceSnapshot{s1, snap("acc_b", "CHECKING", "2024-03-01", "99"), s2}, "acc_a")

	nzd := "NZD"
	want := []domain.DailyBalance{
		{SnapshotDate: domain.MustParseDate("2024-03-01"), CurrentBalance: dec("10")},
		{SnapshotDate: domain.MustParseDate("2024-03-02"), CurrentBalance: dec("20"), Currency: &nzd},
	}

	diff := cmp.Diff(want, got, cmp.Comparer(func(a, b decimal.NullDecimal) bool {
		return a.Valid == b.Valid && a.Decimal.Equal(b.Decimal)
	}))
	if diff != "" {
		t.Errorf("AccountBalances mismatch (-want +got):\n%s", diff)
	}

	require.Empty(t, AccountBalances(nil, "acc_a"))
}

func TestAccounts(t *testing.T) {
	accounts := []domain.Account{
		{ID: "acc_3"},
		{ID: "acc_2", Name: "Visa", Type: "CREDITCARD"},
		loan("acc_1", "5.5"),
	}
	accounts[2].Name = "Home"

	got := Accounts(accounts)
	require.Len(t, got, 3)

	require.Equal(t, "acc_1", got[0].AccountID)
	require.True(t, got[0].LoanInterestRate.Decimal.Equal(decimal.RequireFromString("5.5")))
	require.False(t, got[0].IsCreditCard)

	require.Equal(t, "acc_2", got[1].AccountID)
	require.True(t, got[1].IsCreditCard)

	require.Equal(t, "acc_3", got[2].AccountID)
	require.Nil(t, got[2].AccountName)
}

func TestLatestSnapshotDate(t *testing.T) {
	_, ok := LatestSnapshotDate(nil)
	require.False(t, ok)

	d, ok := LatestSnapshotDate([]domain.BalanceSnapshot{
		snap("a", "LOAN", "2024-03-01", "1"),
		snap("a", "LOAN", "2024-03-05", "1"),
		snap("b", "LOAN", "2024-02-01", "1"),
	})
	require.True(t, ok)
	require.Equal(t, domain.MustParseDate("2024-03-05"), d)
}
