// Package domain provides defenitions of all entities.
package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are served as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Account types reported by Akahu.
const (
	AccountTypeChecking   = "CHECKING"
	AccountTypeSavings    = "SAVINGS"
	AccountTypeCreditCard = "CREDITCARD"
	AccountTypeLoan       = "LOAN"
)

// IsLoanType reports whether t is a loan account type (case-insensitive exact match).
func IsLoanType(t string) bool {
	return strings.ToUpper(t) == AccountTypeLoan
}

// IsCreditCardType reports whether t looks like a credit card type.
func IsCreditCardType(t string) bool {
	l := strings.ToLower(t)
	return strings.Contains(l, "credit") || strings.Contains(l, "card")
}

// Account holds the account metadata returned by the aggregation API.
type Account struct {
	ID         string     `json:"_id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Status     string     `json:"status"`
	Connection Connection `json:"connection"`
	Balance    *Balance   `json:"balance,omitempty"`
	Refreshed  Refreshed  `json:"refreshed"`
	Meta       Meta       `json:"meta"`

	// LoadBatchID is set by the store, never by the upstream source.
	LoadBatchID string `json:"-"`
}

// Connection identifies the institution an account belongs to.
type Connection struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
}

// Refreshed holds the last refresh timestamps reported by the source.
type Refreshed struct {
	Balance *time.Time `json:"balance,omitempty"`
}

// Meta holds optional account metadata.
type Meta struct {
	LoanDetails *LoanDetails `json:"loan_details,omitempty"`
}

// LoanDetails holds the loan terms of a LOAN account.
type LoanDetails struct {
	Purpose          string              `json:"purpose,omitempty"`
	Type             string              `json:"type,omitempty"`
	Interest         LoanInterest        `json:"interest"`
	IsInterestOnly   *bool               `json:"is_interest_only,omitempty"`
	Term             LoanTerm            `json:"term"`
	MaturesAt        *time.Time          `json:"matures_at,omitempty"`
	InitialPrincipal decimal.NullDecimal `json:"initial_principal"`
	Repayment        LoanRepayment       `json:"repayment"`
}

// LoanInterest describes the current interest arrangement.
type LoanInterest struct {
	Rate      decimal.NullDecimal `json:"rate"`
	Type      string              `json:"type,omitempty"`
	ExpiresAt *time.Time          `json:"expires_at,omitempty"`
}

// LoanTerm is the remaining loan term.
type LoanTerm struct {
	Years  *int64 `json:"years,omitempty"`
	Months *int64 `json:"months,omitempty"`
}

// LoanRepayment is the repayment schedule.
type LoanRepayment struct {
	Frequency  string              `json:"frequency,omitempty"`
	NextDate   *time.Time          `json:"next_date,omitempty"`
	NextAmount decimal.NullDecimal `json:"next_amount"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Refreshed) UnmarshalJSON(data []byte) error {
	type alias Refreshed

	aux := struct {
		*alias
		Balance *sourceTime `json:"balance"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Balance = aux.Balance.ptr()

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *LoanDetails) UnmarshalJSON(data []byte) error {
	type alias LoanDetails

	aux := struct {
		*alias
		MaturesAt *sourceTime `json:"matures_at"`
	}{alias: (*alias)(d)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	d.MaturesAt = aux.MaturesAt.ptr()

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *LoanInterest) UnmarshalJSON(data []byte) error {
	type alias LoanInterest

	aux := struct {
		*alias
		ExpiresAt *sourceTime `json:"expires_at"`
	}{alias: (*alias)(i)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	i.ExpiresAt = aux.ExpiresAt.ptr()

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *LoanRepayment) UnmarshalJSON(data []byte) error {
	type alias LoanRepayment

	aux := struct {
		*alias
		NextDate *sourceTime `json:"next_date"`
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.NextDate = aux.NextDate.ptr()

	return nil
}
