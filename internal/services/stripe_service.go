package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"movie-booking/internal/config"
	"movie-booking/internal/logger"
	"movie-booking/internal/models"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

const stripeEventPaymentIntentSucceeded = "payment_intent.succeeded"

var (
	ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")
	ErrWebhookNotConfigured   = errors.New("stripe webhook secret not configured")
	ErrWebhookSignature       = errors.New("invalid stripe webhook signature")
)

// StripeService is the Stripe-backed PaymentProvider.
type StripeService struct {
	client        *client.API
	webhookSecret string
	log           *logger.Logger
}

// NewStripeService builds a client that never retries: provider failures are
// surfaced to the caller immediately.
func NewStripeService(cfg config.PaymentConfig, log *logger.Logger) (*StripeService, error) {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	})
	return newStripeService(cfg, backend, log)
}

func newStripeService(cfg config.PaymentConfig, backend stripe.Backend, log *logger.Logger) (*StripeService, error) {
	if cfg.Mode != config.ModeConfigured {
		log.Error("STRIPE", "STRIPE_SECRET_KEY not set")
		return nil, ErrStripeClientInitFailed
	}

	sc := client.New(cfg.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})
	if sc == nil {
		log.Error("STRIPE", "Failed to initialize Stripe client")
		return nil, ErrStripeClientInitFailed
	}

	log.Info("STRIPE", "Stripe client initialized successfully")
	return &StripeService{
		client:        sc,
		webhookSecret: cfg.WebhookSecret,
		log:           log,
	}, nil
}

func (s *StripeService) CreatePaymentIntent(ctx context.Context, req *models.PaymentIntentRequest) (*models.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s.log.LogPayment("STRIPE", req.BookingID, "Creating payment intent")
	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, stripeError(err)
	}
	s.log.LogPayment("STRIPE", req.BookingID, fmt.Sprintf("Payment intent created: %s", pi.ID))

	return &models.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}, nil
}

func (s *StripeService) WebhookEnabled() bool {
	return s != nil && s.webhookSecret != ""
}

// ParseWebhook verifies a Stripe webhook delivery and converts it into a
// confirmation. It returns nil, nil for event types that do not settle a
// booking.
func (s *StripeService) ParseWebhook(payload []byte, signature string) (*models.PaymentConfirmation, error) {
	if !s.WebhookEnabled() {
		return nil, ErrWebhookNotConfigured
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		s.log.LogSecurity("STRIPE_WEBHOOK", fmt.Sprintf("Rejected webhook: %v", err))
		return nil, fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}

	if string(event.Type) != stripeEventPaymentIntentSucceeded {
		s.log.Debug("STRIPE", fmt.Sprintf("Ignoring webhook event %s", event.Type))
		return nil, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent: %w", err)
	}

	bookingID, err := strconv.Atoi(pi.Metadata["booking_id"])
	if err != nil {
		return nil, fmt.Errorf("payment intent %s has no booking_id metadata", pi.ID)
	}

	return &models.PaymentConfirmation{
		BookingID:       models.BookingID(bookingID),
		PaymentIntentID: pi.ID,
		Status:          models.ConfirmationSucceeded,
	}, nil
}

func stripeError(err error) error {
	msg := err.Error()
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		msg = se.Msg
	}
	return &ProviderError{Provider: "stripe", Message: msg, Err: err}
}
