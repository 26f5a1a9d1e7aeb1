//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"docinsight/internal/domain"
	"docinsight/internal/repository/postgres"
)

func newTestDB(ctx context.Context, t *testing.T) *sqlx.DB {
	t.Helper()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("docinsight_test"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		terminateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(terminateCtx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := postgres.Open(dsn, 4, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(db))
	return db
}

func TestAnalysisRecordRepo_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewAnalysisRecordRepo(newTestDB(ctx, t))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []domain.AnalysisRecord{
		{ID: uuid.New(), Tool: domain.ToolInsights, FileName: "a.pdf", Model: "gpt-4o", TokensUsed: 120, Succeeded: true, Summary: "ok", CreatedAt: base},
		{ID: uuid.New(), Tool: domain.ToolQuality, FileName: "b.docx", Model: "gpt-4o", Truncated: true, Succeeded: true, Summary: "7.5", CreatedAt: base.Add(time.Minute)},
		{ID: uuid.New(), Tool: domain.ToolInsights, FileName: "c.csv", Model: "gpt-4o", Succeeded: false, Summary: "failed", CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range records {
		require.NoError(t, repo.Create(ctx, &records[i]))
	}

	t.Run("all tools newest first", func(t *testing.T) {
		got, total, err := repo.List(ctx, "", 0, 10)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, got, 3)
		assert.Equal(t, "c.csv", got[0].FileName)
		assert.Equal(t, "a.pdf", got[2].FileName)
	})

	t.Run("filtered by tool", func(t *testing.T) {
		got, total, err := repo.List(ctx, domain.ToolInsights, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, got, 2)
		for _, r := range got {
			assert.Equal(t, domain.ToolInsights, r.Tool)
		}
	})

	t.Run("paged", func(t *testing.T) {
		got, total, err := repo.List(ctx, "", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, got, 1)
		assert.Equal(t, "b.docx", got[0].FileName)
		assert.True(t, got[0].Truncated)
	})

	t.Run("empty tool result", func(t *testing.T) {
		got, total, err := repo.List(ctx, domain.ToolAvatar, 0, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, got)
	})
}
