package snapshot

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func mustEmitter(t *testing.T, zone string) *Emitter {
	t.Helper()

	e, err := NewForZone(zone)
	require.NoError(t, err)

	return e
}

func TestDateOfUsesLocalCalendar(t *testing.T) {
	e := mustEmitter(t, DefaultTimezone)

	testCases := []struct {
		name     string
		instant  time.Time
		wantDate string
	}{
		{
			// 2024-03-01 11:30 UTC is 2024-03-02 00:30 NZDT (UTC+13).
			name:     "AfterLocalMidnight",
			instant:  time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC),
			wantDate: "2024-03-02",
		},
		{
			name:     "BeforeLocalMidnight",
			instant:  time.Date(2024, 3, 1, 10, 59, 59, 0, time.UTC),
			wantDate: "2024-03-01",
		},
		{
			// NZST (UTC+12) in winter.
			name:     "Winter",
			instant:  time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC),
			wantDate: "2024-07-16",
		},
		{
			name:     "WinterSameDay",
			instant:  time.Date(2024, 7, 15, 11, 59, 0, 0, time.UTC),
			wantDate: "2024-07-15",
		},
		{
			name:     "NonUTCInputLocation",
			instant:  time.Date(2024, 3, 1, 20, 0, 0, 0, time.FixedZone("PST", -8*3600)),
			wantDate: "2024-03-02",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			got := e.DateOf(tc.instant)
			require.Equal(t, tc.wantDate, got.String())

			utcDate := domain.DateOf(tc.instant.UTC()).String()
			if tc.name == "AfterLocalMidnight" {
				require.NotEqual(t, utcDate, got.String())
			}
		})
	}
}

func TestEmit(t *testing.T) {
	e := mustEmitter(t, DefaultTimezone)

	capture := time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC)
	refreshed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	overdrawn := false
	raw := []byte(`{"currency":"NZD","current":-1500,"limit":5000,"overdrawn":false}`)

	account := domain.Account{
		ID:         "acc_credit_1",
		Name:       "Rewards Credit",
		Type:       domain.AccountTypeCreditCard,
		Status:     "ACTIVE",
		Connection: domain.Connection{Name: "ASB"},
		Balance: &domain.Balance{
			Currency:  "NZD",
			Current:   decimal.NewNullDecimal(decimal.NewFromInt(-1500)),
			Limit:     decimal.NewNullDecimal(decimal.NewFromInt(5000)),
			Overdrawn: &overdrawn,
			Raw:       raw,
		},
		Refreshed: domain.Refreshed{Balance: &refreshed},
	}

	got, ok := e.Emit(account, capture)
	require.True(t, ok)

	want := domain.BalanceSnapshot{
		AccountID:          "acc_credit_1",
		SnapshotAt:         capture,
		SnapshotDate:       domain.MustParseDate("2024-03-02"),
		AccountName:        "Rewards Credit",
		AccountType:        domain.AccountTypeCreditCard,
		ConnectionName:     "ASB",
		Status:             "ACTIVE",
		Currency:           "NZD",
		Current:            decimal.NewNullDecimal(decimal.NewFromInt(-1500)),
		Limit:              decimal.NewNullDecimal(decimal.NewFromInt(5000)),
		Overdrawn:          &overdrawn,
		RefreshedBalanceAt: &refreshed,
		RawBalance:         raw,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Emit() mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitWithoutBalance(t *testing.T) {
	e := New(time.UTC)

	got, ok := e.Emit(domain.Account{ID: "acc_1"}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	require.JSONEq(t, `{}`, string(got.RawBalance))
	require.False(t, got.Current.Valid)
	require.Empty(t, got.Currency)
}

func TestEmitRawBalance(t *testing.T) {
	overdrawn := true
	fields := domain.Balance{
		Currency:  "NZD",
		Current:   decimal.NewNullDecimal(decimal.NewFromInt(-20)),
		Overdrawn: &overdrawn,
	}

	testCases := []struct {
		name    string
		raw     json.RawMessage
		wantRaw string
	}{
		{
			name:    "Verbatim",
			raw:     json.RawMessage(`{"current": -20, "extra": "kept"}`),
			wantRaw: `{"current": -20, "extra": "kept"}`,
		},
		{
			name:    "Missing",
			wantRaw: `{"currency": "NZD", "current": -20, "available": null, "limit": null, "overdrawn": true}`,
		},
		{
			name:    "Truncated",
			raw:     json.RawMessage(`{"current": -2`),
			wantRaw: `{"currency": "NZD", "current": -20, "available": null, "limit": null, "overdrawn": true}`,
		},
	}

	e := New(time.UTC)

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			b := fields
			b.Raw = tc.raw

			got, ok := e.Emit(domain.Account{ID: "acc_1", Balance: &b}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
			require.True(t, ok)
			require.JSONEq(t, tc.wantRaw, string(got.RawBalance))
		})
	}
}

func TestEmitSkipsMissingID(t *testing.T) {
	e := New(time.UTC)

	_, ok := e.Emit(domain.Account{Name: "no id"}, time.Now())
	require.False(t, ok)
}

func TestEmitAll(t *testing.T) {
	e := New(time.UTC)
	capture := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	accounts := []domain.Account{
		{ID: "a1"},
		{Name: "missing id"},
		{},
		{ID: "a2"},
	}

	got := e.EmitAll(context.Background(), accounts, capture)
	require.Len(t, got, 2)
	require.Equal(t, "a1", got[0].AccountID)
	require.Equal(t, "a2", got[1].AccountID)

	for _, s := range got {
		require.Equal(t, capture, s.SnapshotAt)
		require.Equal(t, "2024-01-01", s.SnapshotDate.String())
	}
}
