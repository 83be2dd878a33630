// Package analytics обрабатывает события decision.created из брокера.
package analytics

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/destipicker/internal/lib/metrics"
	"github.com/magabrotheeeer/destipicker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/models"
)

// Recorder превращает события решений в метрики.
type Recorder struct {
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewRecorder создаёт Recorder.
func NewRecorder(log *slog.Logger, m *metrics.Metrics) *Recorder {
	return &Recorder{log: log, metrics: m}
}

// HandleDecisionEvent разбирает событие и учитывает его. Битые сообщения
// помечаются rabbitmq.ErrDiscard, чтобы не возвращаться в очередь.
func (r *Recorder) HandleDecisionEvent(body []byte) error {
	const op = "analytics.HandleDecisionEvent"
	var event models.DecisionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%s: %w: %w", op, rabbitmq.ErrDiscard, err)
	}
	if event.DecisionID == "" || event.Tier == "" {
		return fmt.Errorf("%s: %w: incomplete event", op, rabbitmq.ErrDiscard)
	}

	r.metrics.DecisionEvent(event.Category, string(event.Tier), event.IsDemo)
	r.log.Debug("decision event recorded",
		slog.String("decision_id", event.DecisionID),
		sl.User(event.UserID),
		slog.String("category", event.Category),
		slog.Int("venue_count", event.VenueCount),
	)
	return nil
}
