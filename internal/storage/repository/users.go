package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/destipicker/internal/models"
)

// CreateUser добавляет профиль, если его ещё нет. Используется при выдаче dev‑токенов.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (id, email, is_premium, location, currency)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (id) DO NOTHING`
	currency := user.Currency
	if currency == "" {
		currency = "USD"
	}
	if _, err := s.DB.ExecContext(ctx, query,
		user.UUID, user.Email, user.IsPremium, user.Location, currency); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUser возвращает профиль по идентификатору или models.ErrUserNotFound.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, is_premium, daily_usage_count, daily_menu_count,
			      daily_outfit_count, last_reset_date, location, currency,
			      COALESCE(stripe_customer_id, '')
			  FROM users
			  WHERE id = $1`
	u := &models.User{}
	var lastReset sql.NullTime
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(&u.UUID, &u.Email, &u.IsPremium,
		&u.DailyUsageCount, &u.DailyMenuCount, &u.DailyOutfitCount, &lastReset,
		&u.Location, &u.Currency, &u.StripeCustomerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if lastReset.Valid {
		day := lastReset.Time.UTC()
		u.LastResetDate = &day
	}
	return u, nil
}

// ResetDailyCounters обнуляет все счётчики и ставит дату сброса day,
// если сохранённая дата отличается от day.
func (s *Storage) ResetDailyCounters(ctx context.Context, userID string, day time.Time) (bool, error) {
	const op = "storage.ResetDailyCounters"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET daily_usage_count = 0, daily_menu_count = 0, daily_outfit_count = 0,
			      last_reset_date = $2::date, updated_at = NOW()
			  WHERE id = $1 AND (last_reset_date IS NULL OR last_reset_date <> $2::date)`
	res, err := s.DB.ExecContext(ctx, query, userID, day)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n == 1, nil
}

// IncrementUsage списывает единицу квоты условным UPDATE.
func (s *Storage) IncrementUsage(ctx context.Context, charge models.QuotaCharge) error {
	const op = "storage.IncrementUsage"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if err := incrementUsage(ctx, s.DB, charge); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func incrementUsage(ctx context.Context, db execer, charge models.QuotaCharge) error {
	col, err := counterColumn(charge.Tool)
	if err != nil {
		return err
	}
	query := `UPDATE users SET ` + col + ` = ` + col + ` + 1, updated_at = NOW()
			  WHERE id = $1 AND last_reset_date = $2::date AND ` + col + ` < $3 AND NOT is_premium`
	res, err := db.ExecContext(ctx, query, charge.UserID, charge.Date, charge.Limit)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrQuotaExceeded
	}
	return nil
}

func counterColumn(tool models.Tool) (string, error) {
	switch tool {
	case models.ToolDecision:
		return "daily_usage_count", nil
	case models.ToolMenu:
		return "daily_menu_count", nil
	case models.ToolOutfit:
		return "daily_outfit_count", nil
	default:
		return "", fmt.Errorf("unknown tool %q", tool)
	}
}

// UpgradeToPremium включает премиум по идентификатору пользователя.
func (s *Storage) UpgradeToPremium(ctx context.Context, userID, customerID string) error {
	const op = "storage.UpgradeToPremium"
	query := `UPDATE users
			  SET is_premium = TRUE,
			      stripe_customer_id = COALESCE(NULLIF($2, ''), stripe_customer_id),
			      updated_at = NOW()
			  WHERE id = $1`
	return s.execOne(ctx, op, query, userID, customerID)
}

// UpgradeToPremiumByEmail включает премиум по адресу почты без учёта регистра.
func (s *Storage) UpgradeToPremiumByEmail(ctx context.Context, email, customerID string) error {
	const op = "storage.UpgradeToPremiumByEmail"
	query := `UPDATE users
			  SET is_premium = TRUE,
			      stripe_customer_id = COALESCE(NULLIF($2, ''), stripe_customer_id),
			      updated_at = NOW()
			  WHERE lower(email) = $1`
	return s.execOne(ctx, op, query, strings.ToLower(strings.TrimSpace(email)), customerID)
}

// CancelPremium возвращает пользователя на бесплатный тариф.
// Если премиума нет, возвращается models.ErrNotPremium.
func (s *Storage) CancelPremium(ctx context.Context, userID string) error {
	const op = "storage.CancelPremium"
	query := `UPDATE users SET is_premium = FALSE, updated_at = NOW()
			  WHERE id = $1 AND is_premium`
	err := s.execOne(ctx, op, query, userID)
	if errors.Is(err, models.ErrUserNotFound) {
		return fmt.Errorf("%s: %w", op, models.ErrNotPremium)
	}
	return err
}

// DeleteAccount удаляет решения пользователя, затем профиль, в одной транзакции.
func (s *Storage) DeleteAccount(ctx context.Context, userID string) error {
	const op = "storage.DeleteAccount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM decisions WHERE user_id = $1`, userID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return models.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// execOne выполняет UPDATE и возвращает models.ErrUserNotFound, если строка не изменилась.
func (s *Storage) execOne(ctx context.Context, op, query string, args ...any) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	return nil
}
