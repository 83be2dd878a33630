package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/destipicker/internal/models"
)

// CreateDecision сохраняет решение. Если charge не nil, в той же транзакции
// списывается квота; при неудачном списании транзакция откатывается
// с models.ErrQuotaExceeded.
func (s *Storage) CreateDecision(ctx context.Context, d models.Decision, charge *models.QuotaCharge) (string, error) {
	const op = "storage.CreateDecision"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if d.VenueCount != len(d.Venues) {
		return "", fmt.Errorf("%s: venue_count %d does not match %d venues", op, d.VenueCount, len(d.Venues))
	}
	venues := d.Venues
	if venues == nil {
		venues = []models.Venue{}
	}
	payload, err := json.Marshal(venues)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}

	query := `INSERT INTO decisions (id, user_id, category, budget, currency, radius,
			      venue_count, venues, is_demo, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, id, d.UserID, d.Category, d.Budget, d.Currency,
			d.Radius, d.VenueCount, string(payload), d.IsDemo, d.CreatedAt); err != nil {
			return err
		}
		if charge != nil {
			return incrementUsage(ctx, tx, *charge)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListDecisions возвращает решения пользователя, начиная с последних.
func (s *Storage) ListDecisions(ctx context.Context, userID string, limit, offset int) ([]models.Decision, error) {
	const op = "storage.ListDecisions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, category, budget, currency, radius, venue_count,
			      venues, is_demo, created_at
			  FROM decisions
			  WHERE user_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Decision{}
	for rows.Next() {
		var d models.Decision
		var payload []byte
		if err := rows.Scan(&d.ID, &d.UserID, &d.Category, &d.Budget, &d.Currency, &d.Radius,
			&d.VenueCount, &payload, &d.IsDemo, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(payload, &d.Venues); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
