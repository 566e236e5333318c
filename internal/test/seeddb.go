// Package test provides shared test helpers.
package test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/go-petr/akahu-finance/internal/accountrepo"
	"github.com/go-petr/akahu-finance/internal/balancerepo"
	"github.com/go-petr/akahu-finance/internal/domain"
	"github.com/go-petr/akahu-finance/internal/storeschema"
)

// SeedBatch merges accounts and snapshots under one new batch id.
//
// It sets LoadBatchID on the given snapshots and returns the batch id.
func SeedBatch(t *testing.T, db *sql.DB, tables storeschema.Tables, accounts []domain.Account, snaps []domain.BalanceSnapshot) string {
	t.Helper()

	ctx := context.Background()

	id, err := uuid.NewV7()
	if err != nil {
		t.Fatalf("uuid.NewV7() returned error: %v", err)
	}

	batchID := id.String()

	if err := accountrepo.NewRepoSQL(db, tables).Upsert(ctx, batchID, accounts); err != nil {
		t.Fatalf("accountRepo.Upsert(ctx, %v, %d accounts) returned error: %v", batchID, len(accounts), err)
	}

	if err := balancerepo.NewRepoSQL(db, tables).Upsert(ctx, batchID, snaps); err != nil {
		t.Fatalf("balanceRepo.Upsert(ctx, %v, %d snapshots) returned error: %v", batchID, len(snaps), err)
	}

	for i := range snaps {
		snaps[i].LoadBatchID = batchID
	}

	return batchID
}
