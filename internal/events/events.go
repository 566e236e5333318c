// Package events publishes load batch notifications for downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/go-petr/akahu-finance/internal/domain"
)

// DefaultTopic receives LoadCompleted events.
const DefaultTopic = "akahu.load_completed"

// LoadCompleted is emitted after both tables of a batch were merged.
type LoadCompleted struct {
	BatchID            string    `json:"batch_id"`
	Accounts           int       `json:"accounts"`
	Snapshots          int       `json:"snapshots"`
	SkippedAccounts    int       `json:"skipped_accounts"`
	LatestSnapshotDate string    `json:"latest_snapshot_date,omitempty"`
	FinishedAt         time.Time `json:"finished_at"`
}

// NewLoadCompleted builds the event of a finished load.
func NewLoadCompleted(r domain.LoadReport, snapshotDate domain.Date) LoadCompleted {
	e := LoadCompleted{
		BatchID:         r.BatchID,
		Accounts:        r.Accounts,
		Snapshots:       r.Snapshots,
		SkippedAccounts: r.SkippedAccounts,
		FinishedAt:      r.FinishedAt.UTC(),
	}

	if !snapshotDate.IsZero() {
		e.LatestSnapshotDate = snapshotDate.String()
	}

	return e
}

// Publisher delivers LoadCompleted events.
type Publisher interface {
	PublishLoadCompleted(ctx context.Context, e LoadCompleted) error
	Close() error
}

// Noop discards events. It is used when no brokers are configured.
type Noop struct{}

// PublishLoadCompleted does nothing.
func (Noop) PublishLoadCompleted(context.Context, LoadCompleted) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }
