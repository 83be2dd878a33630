// Package account управляет премиум‑доступом и удалением аккаунта.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/magabrotheeeer/destipicker/internal/lib/metrics"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/models"
)

var (
	// ErrWebhookNotConfigured возвращается, если не задан секрет подписи вебхука.
	ErrWebhookNotConfigured = errors.New("webhook secret is not configured")
	// ErrInvalidSignature возвращается при неверной подписи или повреждённом теле вебхука.
	ErrInvalidSignature = errors.New("webhook signature verification failed")
)

// Repository — изменения профиля, связанные с тарифом и удалением.
type Repository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpgradeToPremium(ctx context.Context, userID, customerID string) error
	UpgradeToPremiumByEmail(ctx context.Context, email, customerID string) error
	CancelPremium(ctx context.Context, userID string) error
	DeleteAccount(ctx context.Context, userID string) error
}

// CheckoutParams — данные для страницы оплаты.
type CheckoutParams struct {
	UserID     string
	Email      string
	SuccessURL string
	CancelURL  string
}

// CheckoutProvider создаёт страницу оплаты и возвращает её адрес.
type CheckoutProvider interface {
	CreateCheckout(ctx context.Context, p CheckoutParams) (string, error)
}

// Service — операции с аккаунтом.
type Service struct {
	repo          Repository
	checkout      CheckoutProvider
	webhookSecret string
	frontendURL   string
	log           *slog.Logger
	metrics       *metrics.Metrics
}

// NewService создаёт Service. checkout может быть nil: тогда оплата имитируется
// ссылкой на страницу успеха.
func NewService(repo Repository, checkout CheckoutProvider, webhookSecret, frontendURL string,
	log *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:          repo,
		checkout:      checkout,
		webhookSecret: webhookSecret,
		frontendURL:   strings.TrimRight(frontendURL, "/"),
		log:           log,
		metrics:       m,
	}
}

// Checkout возвращает адрес страницы оплаты премиума.
func (s *Service) Checkout(ctx context.Context, userID string) (string, error) {
	const op = "account.Checkout"
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	successURL := s.frontendURL + "/?success=true"
	if s.checkout == nil {
		s.log.Warn("stripe is not configured, returning mock checkout url", sl.User(userID))
		return successURL, nil
	}

	url, err := s.checkout.CreateCheckout(ctx, CheckoutParams{
		UserID:     user.UUID,
		Email:      user.Email,
		SuccessURL: successURL,
		CancelURL:  s.frontendURL + "/result?canceled=true",
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return url, nil
}

// HandleWebhook проверяет подпись события и включает премиум после оплаты.
// События других типов игнорируются.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	const op = "account.HandleWebhook"
	if s.webhookSecret == "" {
		return fmt.Errorf("%s: %w", op, ErrWebhookNotConfigured)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidSignature, err)
	}

	log := s.log.With(slog.String("op", op), slog.String("event_id", event.ID),
		slog.String("event_type", string(event.Type)))

	if event.Type != "checkout.session.completed" {
		log.Debug("ignoring stripe event")
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidSignature, err)
	}
	if err := s.upgrade(ctx, &sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.PremiumChanged("upgrade")
	log.Info("user upgraded to premium", slog.String("session_id", sess.ID))
	return nil
}

// upgrade ищет пользователя по client_reference_id, а если его нет, по почте покупателя.
func (s *Service) upgrade(ctx context.Context, sess *stripe.CheckoutSession) error {
	customerID := ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}

	if sess.ClientReferenceID != "" {
		err := s.repo.UpgradeToPremium(ctx, sess.ClientReferenceID, customerID)
		if err == nil || !errors.Is(err, models.ErrUserNotFound) {
			return err
		}
	}

	email := sess.CustomerEmail
	if email == "" && sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}
	if email == "" {
		return models.ErrUserNotFound
	}
	return s.repo.UpgradeToPremiumByEmail(ctx, email, customerID)
}

// CancelPremium возвращает пользователя на бесплатный тариф.
func (s *Service) CancelPremium(ctx context.Context, userID string) error {
	const op = "account.CancelPremium"
	if err := s.repo.CancelPremium(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.PremiumChanged("cancel")
	return nil
}

// DeleteAccount удаляет решения и профиль пользователя.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	const op = "account.DeleteAccount"
	if err := s.repo.DeleteAccount(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("account deleted", sl.User(userID))
	return nil
}
