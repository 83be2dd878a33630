package analytics

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/destipicker/internal/lib/metrics"
	"github.com/magabrotheeeer/destipicker/internal/lib/rabbitmq"
)

func TestRecorder_HandleDecisionEvent(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantDiscard bool
	}{
		{name: "valid event", body: `{"decision_id":"d1","user_id":"u1","category":"cafe","tier":"free","venue_count":2,"is_demo":true}`},
		{name: "broken json", body: `{"decision_id":`, wantDiscard: true},
		{name: "missing tier", body: `{"decision_id":"d1"}`, wantDiscard: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			r := NewRecorder(slog.New(slog.NewTextHandler(io.Discard, nil)), metrics.New(reg))

			err := r.HandleDecisionEvent([]byte(tt.body))
			if tt.wantDiscard {
				assert.ErrorIs(t, err, rabbitmq.ErrDiscard)
				return
			}
			require.NoError(t, err)

			expected := `
# HELP destipicker_decision_events_total decision.created events consumed by the analytics worker.
# TYPE destipicker_decision_events_total counter
destipicker_decision_events_total{category="cafe",demo="true",tier="free"} 1
`
			assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "destipicker_decision_events_total"))
		})
	}
}
