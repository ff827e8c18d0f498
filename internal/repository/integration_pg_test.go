//go:build integration

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"feedback-board-api/internal/database"
	"feedback-board-api/internal/domain"
)

func newPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("feedback"),
		postgres.WithUsername("feedback"),
		postgres.WithPassword("feedback"),
		testcontainers.WithWaitStrategy(
			// postgres restarts once after initdb
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.New(database.Config{
		Driver:          "postgres",
		DSN:             dsn,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestPostgres_ConcurrentUpvotes(t *testing.T) {
	db := newPostgres(t)
	repo := NewUpvoteRepository(db)
	ctx := context.Background()
	fr := seedRequest(t, db, seedBoard(t, db, "acme", "owner"), nil)

	t.Run("성공: 서로 다른 사용자의 동시 토글", func(t *testing.T) {
		const voters = 25
		var wg sync.WaitGroup
		errs := make(chan error, voters)
		for i := 0; i < voters; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, _, err := repo.Toggle(ctx, fr.ID, fmt.Sprintf("voter-%d", i)); err != nil {
					errs <- err
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		assert.Equal(t, int64(voters), loadRequest(t, db, fr.ID).UpvoteCount)
		assert.Equal(t, int64(voters), countRows(t, db, &domain.Upvote{}, "feature_request_id = ?", fr.ID))
	})

	t.Run("성공: 같은 사용자의 동시 추가는 한 번만 센다", func(t *testing.T) {
		before := loadRequest(t, db, fr.ID).UpvoteCount

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := insertUpvote(ctx, db, fr.ID, "eager")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, before+1, loadRequest(t, db, fr.ID).UpvoteCount)
		assert.Equal(t, int64(1), countRows(t, db, &domain.Upvote{}, "feature_request_id = ? AND user_id = ?", fr.ID, "eager"))
	})

	drift, err := NewFeatureRequestRepository(db).FindCounterDrift(ctx)
	require.NoError(t, err)
	assert.Empty(t, drift)
}

func TestPostgres_DuplicateSlug(t *testing.T) {
	db := newPostgres(t)
	seedBoard(t, db, "taken", "owner")

	err := NewBoardRepository(db).Create(context.Background(), &domain.Board{Slug: "taken", Name: "again", CreatorID: "other"})
	assert.ErrorIs(t, err, ErrDuplicate)
}
