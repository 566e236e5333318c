package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Balance holds the balance object of an account.
//
// Raw keeps the verbatim source payload so fields unknown today are not lost.
type Balance struct {
	Currency  string              `json:"currency"`
	Current   decimal.NullDecimal `json:"current"`
	Available decimal.NullDecimal `json:"available"`
	Limit     decimal.NullDecimal `json:"limit"`
	Overdrawn *bool               `json:"overdrawn,omitempty"`
	Raw       json.RawMessage     `json:"-"`
}

type balanceFields Balance

// UnmarshalJSON decodes the balance and retains the raw payload.
func (b *Balance) UnmarshalJSON(data []byte) error {
	var f balanceFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	*b = Balance(f)
	b.Raw = append(json.RawMessage(nil), data...)

	return nil
}

// MarshalJSON emits the raw payload when present.
func (b Balance) MarshalJSON() ([]byte, error) {
	if len(b.Raw) > 0 {
		return b.Raw, nil
	}

	return json.Marshal(balanceFields(b))
}

// BalanceSnapshot is one balance capture of an account for one calendar day.
type BalanceSnapshot struct {
	AccountID          string              `json:"account_id"`
	SnapshotAt         time.Time           `json:"snapshot_at"`
	SnapshotDate       Date                `json:"snapshot_date"`
	AccountName        string              `json:"account_name"`
	AccountType        string              `json:"account_type"`
	ConnectionName     string              `json:"connection_name"`
	Status             string              `json:"status"`
	Currency           string              `json:"currency"`
	Current            decimal.NullDecimal `json:"current"`
	Available          decimal.NullDecimal `json:"available"`
	Limit              decimal.NullDecimal `json:"limit"`
	Overdrawn          *bool               `json:"overdrawn"`
	RefreshedBalanceAt *time.Time          `json:"refreshed_balance_at"`
	RawBalance         json.RawMessage     `json:"raw_balance"`
	LoadBatchID        string              `json:"-"`
}

// SnapshotKey is the merge key of a BalanceSnapshot.
type SnapshotKey struct {
	AccountID string
	Date      Date
}

// Key returns the merge key of the snapshot.
func (s BalanceSnapshot) Key() SnapshotKey {
	return SnapshotKey{AccountID: s.AccountID, Date: s.SnapshotDate}
}

// LoadReport summarises one load batch.
type LoadReport struct {
	BatchID            string    `json:"batch_id"`
	Accounts           int       `json:"accounts"`
	Snapshots          int       `json:"snapshots"`
	SkippedAccounts    int       `json:"skipped_accounts"`
	AccountsCommitted  bool      `json:"accounts_committed"`
	SnapshotsCommitted bool      `json:"snapshots_committed"`
	StartedAt          time.Time `json:"started_at"`
	FinishedAt         time.Time `json:"finished_at"`
}
