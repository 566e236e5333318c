// Package aggregate derives the reporting aggregates from raw accounts and
// snapshots in memory.
//
// The functions match the store views: null amounts count as zero in sums,
// loan accounts are matched by exact type LOAN and credit cards by a
// case-insensitive "credit" or "card" substring of the type.
package aggregate

import (
	"sort"
	"strings"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/shopspring/decimal"
)

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}

	return d.Decimal
}

// MortgageOverTime returns the per-date totals ordered by date.
func MortgageOverTime(snapshots []domain.BalanceSnapshot) []domain.DailyAggregate {
	byDate := make(map[domain.Date]*domain.DailyAggregate)

	for i := range snapshots {
		s := &snapshots[i]

		agg, ok := byDate[s.SnapshotDate]
		if !ok {
			agg = &domain.DailyAggregate{SnapshotDate: s.SnapshotDate}
			byDate[s.SnapshotDate] = agg
		}

		current := orZero(s.Current)

		if domain.IsLoanType(s.AccountType) {
			agg.TotalMortgageBalance = agg.TotalMortgageBalance.Add(current)
		}

		if domain.IsCreditCardType(s.AccountType) {
			agg.TotalCreditcardBalance = agg.TotalCreditcardBalance.Add(current)
		}

		agg.TotalNetDebt = agg.TotalNetDebt.Add(current)
		agg.TotalAvailable = agg.TotalAvailable.Add(orZero(s.Available))
		agg.TotalLimit = agg.TotalLimit.Add(orZero(s.Limit))
	}

	out := make([]domain.DailyAggregate, 0, len(byDate))
	for _, agg := range byDate {
		out = append(out, *agg)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SnapshotDate.Before(out[j].SnapshotDate)
	})

	return out
}

// AccountBalances returns the daily series of one account ordered by date.
func AccountBalances(snapshots []domain.BalanceSnapshot, accountID string) []domain.DailyBalance {
	out := []domain.DailyBalance{}

	for i := range snapshots {
		s := &snapshots[i]
		if s.AccountID != accountID {
			continue
		}

		b := domain.DailyBalance{
			SnapshotDate:     s.SnapshotDate,
			CurrentBalance:   s.Current,
			AvailableBalance: s.Available,
			CreditLimit:      s.Limit,
		}

		if s.Currency != "" {
			c := s.Currency
			b.Currency = &c
		}

		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SnapshotDate.Before(out[j].SnapshotDate)
	})

	return out
}

// Accounts returns the account views ordered by name, unnamed accounts last.
func Accounts(accounts []domain.Account) []domain.AccountView {
	out := make([]domain.AccountView, 0, len(accounts))

	for i := range accounts {
		out = append(out, View(accounts[i]))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].AccountName, out[j].AccountName
		switch {
		case a == nil && b == nil:
			return out[i].AccountID < out[j].AccountID
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a < *b
		}

		return out[i].AccountID < out[j].AccountID
	})

	return out
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// View flattens an account into its served form.
func View(a domain.Account) domain.AccountView {
	v := domain.AccountView{
		AccountID:    a.ID,
		AccountName:  strPtr(a.Name),
		AccountType:  strPtr(a.Type),
		IsCreditCard: domain.IsCreditCardType(a.Type),
		Status:       strPtr(a.Status),
	}

	if l := a.Meta.LoanDetails; l != nil {
		v.LoanInterestRate = l.Interest.Rate
		v.LoanInterestType = strPtr(l.Interest.Type)
		v.LoanInterestExpiresAt = l.Interest.ExpiresAt
		v.IsInterestOnly = l.IsInterestOnly
		v.TermYears = l.Term.Years
		v.TermMonths = l.Term.Months
		v.LoanMaturesAt = l.MaturesAt
		v.LoanInitialPrincipal = l.InitialPrincipal
		v.RepaymentFrequency = strPtr(l.Repayment.Frequency)
		v.RepaymentNextDate = l.Repayment.NextDate
		v.RepaymentNextAmount = l.Repayment.NextAmount
	}

	return v
}

// LatestSnapshotDate returns the most recent snapshot date, false when there is none.
func LatestSnapshotDate(snapshots []domain.BalanceSnapshot) (domain.Date, bool) {
	var (
		latest domain.Date
		found  bool
	)

	for i := range snapshots {
		if !found || snapshots[i].SnapshotDate.After(latest) {
			latest = snapshots[i].SnapshotDate
			found = true
		}
	}

	return latest, found
}

// latestPerAccount picks each account's most recent snapshot by date, then
// load batch, then capture instant.
func latestPerAccount(snapshots []domain.BalanceSnapshot) map[string]domain.BalanceSnapshot {
	latest := make(map[string]domain.BalanceSnapshot)

	for _, s := range snapshots {
		cur, ok := latest[s.AccountID]
		if !ok || newer(s, cur) {
			latest[s.AccountID] = s
		}
	}

	return latest
}

func newer(a, b domain.BalanceSnapshot) bool {
	if a.SnapshotDate != b.SnapshotDate {
		return a.SnapshotDate.After(b.SnapshotDate)
	}

	if c := strings.Compare(a.LoadBatchID, b.LoadBatchID); c != 0 {
		return c > 0
	}

	return a.SnapshotAt.After(b.SnapshotAt)
}

// LoanKPIs returns the loan summary of the latest snapshot date.
//
// TotalNetDebt is the magnitude of the latest net debt. MonthlyChange compares it
// with the magnitude at the last date before the latest date's calendar month, or
// zero when there is none. The weighted rate weights each loan account's interest
// rate by the magnitude of its latest balance; loans without a known rate still
// add to the weight. It is null when the total weight is zero.
func LoanKPIs(accounts []domain.Account, snapshots []domain.BalanceSnapshot) domain.LoanKPIs {
	var kpis domain.LoanKPIs

	series := MortgageOverTime(snapshots)
	if len(series) == 0 {
		return kpis
	}

	curr := series[len(series)-1]
	monthStart := curr.SnapshotDate.StartOfMonth()

	prev := decimal.Zero
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].SnapshotDate.Before(monthStart) {
			prev = series[i].TotalNetDebt.Abs()
			break
		}
	}

	kpis.TotalNetDebt = curr.TotalNetDebt.Abs()
	kpis.MonthlyChange = kpis.TotalNetDebt.Sub(prev)
	kpis.WeightedInterestRate = weightedRate(accounts, snapshots)

	return kpis
}

func weightedRate(accounts []domain.Account, snapshots []domain.BalanceSnapshot) decimal.NullDecimal {
	rates := make(map[string]decimal.NullDecimal)

	for _, a := range accounts {
		if !domain.IsLoanType(a.Type) {
			continue
		}

		var rate decimal.NullDecimal
		if a.Meta.LoanDetails != nil {
			rate = a.Meta.LoanDetails.Interest.Rate
		}

		rates[a.ID] = rate
	}

	weight, weighted := decimal.Zero, decimal.Zero
	anyRate := false

	for id, s := range latestPerAccount(snapshots) {
		if !domain.IsLoanType(s.AccountType) || domain.IsCreditCardType(s.AccountType) {
			continue
		}

		rate, ok := rates[id]
		if !ok {
			continue
		}

		w := orZero(s.Current).Abs()
		weight = weight.Add(w)

		if rate.Valid {
			weighted = weighted.Add(rate.Decimal.Mul(w))
			anyRate = true
		}
	}

	// Without any rate the weighted sum is null, as SQL SUM over nulls is.
	if !anyRate || weight.IsZero() {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(weighted.Div(weight))
}
