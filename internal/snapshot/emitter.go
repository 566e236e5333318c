// Package snapshot derives daily balance snapshots from fetched accounts.
package snapshot

import (
	"context"
	"encoding/json"
	"time"

	// The snapshot calendar must not depend on the host's zoneinfo.
	_ "time/tzdata"

	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultTimezone is the civil calendar snapshot dates are bucketed in.
const DefaultTimezone = "Pacific/Auckland"

// Emitter turns accounts into one snapshot per account per local calendar day.
type Emitter struct {
	loc *time.Location
}

// New returns an Emitter bucketing dates in loc.
func New(loc *time.Location) *Emitter {
	if loc == nil {
		loc = time.UTC
	}

	return &Emitter{loc: loc}
}

// NewForZone returns an Emitter for the named IANA time zone.
func NewForZone(name string) (*Emitter, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}

	return New(loc), nil
}

// Location returns the calendar the Emitter buckets in.
func (e *Emitter) Location() *time.Location {
	return e.loc
}

// DateOf returns the snapshot date of an instant.
func (e *Emitter) DateOf(instant time.Time) domain.Date {
	return domain.DateOf(instant.In(e.loc))
}

// Emit derives the snapshot of a at capture. It reports false for accounts without an id.
func (e *Emitter) Emit(a domain.Account, capture time.Time) (domain.BalanceSnapshot, bool) {
	if a.ID == "" {
		return domain.BalanceSnapshot{}, false
	}

	s := domain.BalanceSnapshot{
		AccountID:          a.ID,
		SnapshotAt:         capture.UTC(),
		SnapshotDate:       e.DateOf(capture),
		AccountName:        a.Name,
		AccountType:        a.Type,
		ConnectionName:     a.Connection.Name,
		Status:             a.Status,
		RefreshedBalanceAt: a.Refreshed.Balance,
	}

	if b := a.Balance; b != nil {
		s.Currency = b.Currency
		s.Current = b.Current
		s.Available = b.Available
		s.Limit = b.Limit
		s.Overdrawn = b.Overdrawn
		s.RawBalance = rawBalance(*b)
	}

	if s.RawBalance == nil {
		s.RawBalance = []byte("{}")
	}

	return s, true
}

// rawBalance returns the verbatim source payload, or the typed fields encoded
// again when the payload is missing or not valid JSON.
func rawBalance(b domain.Balance) json.RawMessage {
	if len(b.Raw) > 0 && json.Valid(b.Raw) {
		return b.Raw
	}

	b.Raw = nil

	raw, err := json.Marshal(b)
	if err != nil {
		return json.RawMessage("{}")
	}

	return raw
}

// EmitAll emits a snapshot for each account with an id, all captured at capture.
func (e *Emitter) EmitAll(ctx context.Context, accounts []domain.Account, capture time.Time) []domain.BalanceSnapshot {
	l := zerolog.Ctx(ctx)

	snapshots := make([]domain.BalanceSnapshot, 0, len(accounts))

	for i := range accounts {
		s, ok := e.Emit(accounts[i], capture)
		if !ok {
			l.Debug().Int("index", i).Msg("account without id skipped")
			continue
		}

		snapshots = append(snapshots, s)
	}

	return snapshots
}
