package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountView is the latest state of an account with loan fields flattened.
type AccountView struct {
	AccountID             string              `json:"account_id"`
	AccountName           *string             `json:"account_name"`
	AccountType           *string             `json:"account_type"`
	IsCreditCard          bool                `json:"is_credit_card"`
	Status                *string             `json:"status"`
	LoanInterestRate      decimal.NullDecimal `json:"loan_interest_rate"`
	LoanInterestType      *string             `json:"loan_interest_type"`
	LoanInterestExpiresAt *time.Time          `json:"loan_interest_expires_at"`
	IsInterestOnly        *bool               `json:"is_interest_only"`
	TermYears             *int64              `json:"term_years"`
	TermMonths            *int64              `json:"term_months"`
	LoanMaturesAt         *time.Time          `json:"loan_matures_at"`
	LoanInitialPrincipal  decimal.NullDecimal `json:"loan_initial_principal"`
	RepaymentFrequency    *string             `json:"repayment_frequency"`
	RepaymentNextDate     *time.Time          `json:"repayment_next_date"`
	RepaymentNextAmount   decimal.NullDecimal `json:"repayment_next_amount"`
}

// DailyBalance is one point of an account's daily balance series.
type DailyBalance struct {
	SnapshotDate     Date                `json:"snapshot_date"`
	CurrentBalance   decimal.NullDecimal `json:"current_balance"`
	AvailableBalance decimal.NullDecimal `json:"available_balance"`
	CreditLimit      decimal.NullDecimal `json:"credit_limit"`
	Currency         *string             `json:"currency"`
}

// DailyAggregate holds the per-date totals across all accounts.
//
// TotalNetDebt sums every account, so it is not MortgageBalance+CreditcardBalance
// when other account types carry a balance.
type DailyAggregate struct {
	SnapshotDate           Date            `json:"snapshot_date"`
	TotalMortgageBalance   decimal.Decimal `json:"total_mortgage_balance"`
	TotalCreditcardBalance decimal.Decimal `json:"total_creditcard_balance"`
	TotalNetDebt           decimal.Decimal `json:"total_net_debt"`
	TotalAvailable         decimal.Decimal `json:"total_available"`
	TotalLimit             decimal.Decimal `json:"total_limit"`
}

// LoanKPIs is the loan summary at the latest snapshot date.
type LoanKPIs struct {
	TotalNetDebt         decimal.Decimal     `json:"total_net_debt"`
	MonthlyChange        decimal.Decimal     `json:"monthly_change"`
	WeightedInterestRate decimal.NullDecimal `json:"weighted_interest_rate"`
}

// Health describes the store as seen by the serving process.
type Health struct {
	OK                 bool    `json:"ok"`
	Reason             string  `json:"reason,omitempty"`
	Error              string  `json:"error,omitempty"`
	DBPath             string  `json:"db_path,omitempty"`
	LatestSnapshotDate *string `json:"latest_snapshot_date"`
}

// Settings holds display settings served to the dashboard.
type Settings struct {
	HouseValue float64 `json:"house_value"`
}
