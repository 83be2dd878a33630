package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/destipicker/internal/models"
)

func TestStorage_GetUser(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	today := day(2026, 4, 1)
	id := factory.CreateUser(t, "ana@example.com", false, 2, &today)

	u, err := storage.GetUser(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, u.UUID)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, 2, u.DailyUsageCount)
	assert.Equal(t, "PHP", u.Currency)
	require.NotNil(t, u.LastResetDate)
	assert.True(t, today.Equal(*u.LastResetDate))

	_, err = storage.GetUser(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestStorage_ResetDailyCounters(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	yesterday := day(2026, 4, 1)
	today := day(2026, 4, 2)
	id := factory.CreateUser(t, "a@example.com", false, 3, &yesterday)
	_, err := storage.DB.Exec(`UPDATE users SET daily_menu_count = 2, daily_outfit_count = 1 WHERE id = $1`, id)
	require.NoError(t, err)

	reset, err := storage.ResetDailyCounters(context.Background(), id, today)
	require.NoError(t, err)
	assert.True(t, reset)

	u := factory.GetUser(t, id)
	assert.Equal(t, 0, u.DailyUsageCount)
	assert.Equal(t, 0, u.DailyMenuCount)
	assert.Equal(t, 0, u.DailyOutfitCount)
	assert.True(t, today.Equal(*u.LastResetDate))

	reset, err = storage.ResetDailyCounters(context.Background(), id, today)
	require.NoError(t, err)
	assert.False(t, reset, "second reset on the same day is a no-op")
}

func TestStorage_IncrementUsage(t *testing.T) {
	today := day(2026, 4, 2)
	tests := []struct {
		name      string
		premium   bool
		usage     int
		date      models.QuotaCharge
		wantErr   error
		wantUsage int
	}{
		{name: "count 2 becomes 3", usage: 2, wantUsage: 3},
		{name: "count 3 stays 3", usage: 3, wantErr: models.ErrQuotaExceeded, wantUsage: 3},
		{name: "premium is never incremented", premium: true, usage: 0, wantErr: models.ErrQuotaExceeded, wantUsage: 0},
	}

	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := factory.CreateUser(t, "x@example.com", tt.premium, tt.usage, &today)
			err := storage.IncrementUsage(context.Background(), models.QuotaCharge{
				UserID: id, Tool: models.ToolDecision, Date: today, Limit: 3,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantUsage, factory.GetUser(t, id).DailyUsageCount)
		})
	}

	t.Run("stale date is rejected", func(t *testing.T) {
		yesterday := day(2026, 4, 1)
		id := factory.CreateUser(t, "y@example.com", false, 0, &yesterday)
		err := storage.IncrementUsage(context.Background(), models.QuotaCharge{
			UserID: id, Tool: models.ToolMenu, Date: today, Limit: 3,
		})
		assert.ErrorIs(t, err, models.ErrQuotaExceeded)
	})

	t.Run("unknown tool", func(t *testing.T) {
		id := factory.CreateUser(t, "z@example.com", false, 0, &today)
		err := storage.IncrementUsage(context.Background(), models.QuotaCharge{
			UserID: id, Tool: "karaoke", Date: today, Limit: 3,
		})
		require.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrQuotaExceeded)
	})
}

func TestStorage_IncrementUsage_Concurrent(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	today := day(2026, 4, 2)
	id := factory.CreateUser(t, "race@example.com", false, 0, &today)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := storage.IncrementUsage(context.Background(), models.QuotaCharge{
				UserID: id, Tool: models.ToolOutfit, Date: today, Limit: 3,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 3, factory.GetUser(t, id).DailyOutfitCount)
}

func TestStorage_Premium(t *testing.T) {
	storage := setupTestDatabase(t)
	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	byID := factory.CreateUser(t, "one@example.com", false, 0, nil)
	require.NoError(t, storage.UpgradeToPremium(ctx, byID, "cus_123"))
	u := factory.GetUser(t, byID)
	assert.True(t, u.IsPremium)
	assert.Equal(t, "cus_123", u.StripeCustomerID)

	byEmail := factory.CreateUser(t, "Two@Example.com", false, 0, nil)
	require.NoError(t, storage.UpgradeToPremiumByEmail(ctx, "two@example.com ", ""))
	assert.True(t, factory.GetUser(t, byEmail).IsPremium)

	assert.ErrorIs(t, storage.UpgradeToPremiumByEmail(ctx, "nobody@example.com", ""), models.ErrUserNotFound)
	assert.ErrorIs(t, storage.UpgradeToPremium(ctx, uuid.NewString(), ""), models.ErrUserNotFound)

	require.NoError(t, storage.CancelPremium(ctx, byID))
	assert.False(t, factory.GetUser(t, byID).IsPremium)
	assert.ErrorIs(t, storage.CancelPremium(ctx, byID), models.ErrNotPremium)
}

func TestStorage_CreateUserIsIdempotent(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, storage.CreateUser(ctx, models.User{UUID: id, Email: "dev@example.com"}))
	require.NoError(t, storage.CreateUser(ctx, models.User{UUID: id, Email: "other@example.com"}))

	u, err := storage.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", u.Email)
	assert.Equal(t, "USD", u.Currency)
}
