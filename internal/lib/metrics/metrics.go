// Package metrics объявляет счётчики prometheus, которые отдаются на /metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — набор счётчиков сервиса. Методы безопасно вызывать на nil.
type Metrics struct {
	decisions        *prometheus.CounterVec
	quotaRejections  *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
	assistant        *prometheus.CounterVec
	premiumChanges   *prometheus.CounterVec
	decisionEvents   *prometheus.CounterVec
}

// New создаёт счётчики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "destipicker",
			Name:      "decisions_total",
			Help:      "Completed decisions by tier and selection stage.",
		}, []string{"tier", "stage"}),
		quotaRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "destipicker",
			Name:      "quota_rejections_total",
			Help:      "Requests rejected because the daily limit was reached.",
		}, []string{"tool"}),
		providerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "destipicker",
			Name:      "provider_failures_total",
			Help:      "Places provider calls that returned no data because of an error.",
		}, []string{"call"}),
		assistant: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "destipicker",
			Name:      "assistant_requests_total",
			Help:      "Menu and outfit assistant requests by outcome.",
		}, []string{"tool", "outcome"}),
		premiumChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "destipicker",
			Name:      "premium_changes_total",
			Help:      "Premium upgrades and cancellations.",
		}, []string{"action"}),
		decisionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "destipicker",
			Name:      "decision_events_total",
			Help:      "decision.created events consumed by the analytics worker.",
		}, []string{"category", "tier", "demo"}),
	}
	reg.MustRegister(m.decisions, m.quotaRejections, m.providerFailures, m.assistant, m.premiumChanges,
		m.decisionEvents)
	return m
}

// Decision учитывает завершённый подбор.
func (m *Metrics) Decision(tier, stage string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(tier, stage).Inc()
}

// QuotaRejected учитывает отказ по дневному лимиту.
func (m *Metrics) QuotaRejected(tool string) {
	if m == nil {
		return
	}
	m.quotaRejections.WithLabelValues(tool).Inc()
}

// ProviderFailed учитывает сбой провайдера мест (geocode или nearby).
func (m *Metrics) ProviderFailed(call string) {
	if m == nil {
		return
	}
	m.providerFailures.WithLabelValues(call).Inc()
}

// Assistant учитывает запрос к ассистенту: outcome — ok, canned или fallback.
func (m *Metrics) Assistant(tool, outcome string) {
	if m == nil {
		return
	}
	m.assistant.WithLabelValues(tool, outcome).Inc()
}

// PremiumChanged учитывает смену тарифа: action — upgrade или cancel.
func (m *Metrics) PremiumChanged(action string) {
	if m == nil {
		return
	}
	m.premiumChanges.WithLabelValues(action).Inc()
}

// DecisionEvent учитывает событие о решении, полученное из брокера.
func (m *Metrics) DecisionEvent(category, tier string, demo bool) {
	if m == nil {
		return
	}
	m.decisionEvents.WithLabelValues(category, tier, strconv.FormatBool(demo)).Inc()
}
