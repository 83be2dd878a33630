package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/destipicker/internal/migrations"
	"github.com/magabrotheeeer/destipicker/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(root, "migrations")))

	return storage
}

// TestDataFactory создаёт тестовые строки.
type TestDataFactory struct {
	storage *Storage
}

func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создаёт профиль с заданными счётчиками решений и датой сброса.
func (f *TestDataFactory) CreateUser(t *testing.T, email string, premium bool, usage int, lastReset *time.Time) string {
	t.Helper()
	id := uuid.NewString()
	_, err := f.storage.DB.Exec(`INSERT INTO users (id, email, is_premium, daily_usage_count, last_reset_date, currency)
		VALUES ($1, $2, $3, $4, $5::date, 'PHP')`, id, email, premium, usage, lastReset)
	require.NoError(t, err)
	return id
}

// GetUser читает профиль напрямую.
func (f *TestDataFactory) GetUser(t *testing.T, id string) *models.User {
	t.Helper()
	u, err := f.storage.GetUser(context.Background(), id)
	require.NoError(t, err)
	return u
}

// CountDecisions возвращает число решений пользователя.
func (f *TestDataFactory) CountDecisions(t *testing.T, userID string) int {
	t.Helper()
	var n int
	require.NoError(t, f.storage.DB.QueryRow(`SELECT COUNT(*) FROM decisions WHERE user_id = $1`, userID).Scan(&n))
	return n
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
