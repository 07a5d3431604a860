//go:build integration

package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/db"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("brackets"),
		postgres.WithUsername("brackets"),
		postgres.WithPassword("brackets"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := db.Connect(ctx, dsn, db.WithPingAttempts(3, time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.Migrate(ctx, conn))
	return conn
}

func buildBracket(t *testing.T, id string, n int, format models.Format) *models.Bracket {
	t.Helper()
	matches, err := brackets.Build(n, format)
	require.NoError(t, err)
	info, err := brackets.NormalizeByes(n)
	require.NoError(t, err)
	return &models.Bracket{
		ID:               id,
		Format:           format,
		ParticipantCount: n,
		BracketSize:      info.BracketSize,
		ByeCount:         info.ByeCount,
		Matches:          matches,
	}
}

func TestPostgresBracketRepository(t *testing.T) {
	conn := setupPostgres(t)
	repo := NewPostgresBracketRepository(conn)
	ctx := context.Background()

	bracket := buildBracket(t, "b-double", 6, models.FormatDoubleElimination)
	require.NoError(t, repo.RunInTx(ctx, func(exec SQLExecutor) error {
		return repo.Create(ctx, exec, bracket)
	}))
	assert.False(t, bracket.CreatedAt.IsZero())

	t.Run("round trip", func(t *testing.T) {
		loaded, err := repo.Load(ctx, bracket.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(bracket.Matches, loaded.Matches); diff != "" {
			t.Errorf("matches changed on round trip (-want +got):\n%s", diff)
		}
		assert.NoError(t, brackets.Validate(loaded.Matches))
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := repo.RunInTx(ctx, func(exec SQLExecutor) error {
			return repo.Create(ctx, exec, buildBracket(t, bracket.ID, 4, models.FormatSingleElimination))
		})
		assert.ErrorIs(t, err, ErrBracketConflict)
	})

	t.Run("completion and rename persist", func(t *testing.T) {
		var playable models.MatchID
		err := repo.RunInTx(ctx, func(exec SQLExecutor) error {
			current, err := repo.GetByID(ctx, exec, bracket.ID, true)
			if err != nil {
				return err
			}
			for _, m := range current.Matches {
				if m.Status == models.MatchStatusPending && m.HasBothParticipants() {
					playable = m.ID
					break
				}
			}
			next, err := brackets.ApplyTransition(current.Matches, playable, models.MatchStatusLive)
			if err != nil {
				return err
			}
			next, err = brackets.Complete(next, playable, 3, 1)
			if err != nil {
				return err
			}
			next, err = brackets.Rename(next, "p1", "Ravens")
			if err != nil {
				return err
			}
			if err := repo.UpsertParticipants(ctx, exec, bracket.ID, brackets.CollectParticipants(next)); err != nil {
				return err
			}
			if err := repo.UpdateMatches(ctx, exec, bracket.ID, next); err != nil {
				return err
			}
			_, err = repo.Touch(ctx, exec, bracket.ID)
			return err
		})
		require.NoError(t, err)

		loaded, err := repo.Load(ctx, bracket.ID)
		require.NoError(t, err)
		assert.True(t, loaded.UpdatedAt.After(bracket.UpdatedAt) || loaded.UpdatedAt.Equal(bracket.UpdatedAt))

		var completed models.Match
		for _, m := range loaded.Matches {
			if m.ID == playable {
				completed = m
			}
		}
		assert.Equal(t, models.MatchStatusCompleted, completed.Status)
		require.NotNil(t, completed.WinnerID)

		p1, err := brackets.FindParticipant(loaded.Matches, "p1")
		require.NoError(t, err)
		assert.Equal(t, "Ravens", p1.Name)
		assert.False(t, p1.IsPlaceholder)
	})

	t.Run("failed transaction rolls back", func(t *testing.T) {
		err := repo.RunInTx(ctx, func(exec SQLExecutor) error {
			if _, err := repo.Touch(ctx, exec, bracket.ID); err != nil {
				return err
			}
			return repo.UpdateMatches(ctx, exec, bracket.ID, []models.Match{{ID: "missing", Status: models.MatchStatusLive}})
		})
		assert.ErrorIs(t, err, ErrBracketNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.RunInTx(ctx, func(exec SQLExecutor) error {
			return repo.Delete(ctx, exec, bracket.ID)
		}))
		_, err := repo.Load(ctx, bracket.ID)
		assert.ErrorIs(t, err, ErrBracketNotFound)

		err = repo.RunInTx(ctx, func(exec SQLExecutor) error {
			return repo.Delete(ctx, exec, bracket.ID)
		})
		assert.ErrorIs(t, err, ErrBracketNotFound)
	})
}
