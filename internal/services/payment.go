package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"movie-booking/internal/config"
	"movie-booking/internal/logger"
	"movie-booking/internal/models"
)

var (
	ErrPaymentProvider              = errors.New("payment provider error")
	ErrPaymentProviderNotConfigured = errors.New("payment provider not configured")
)

// PaymentProvider creates provider-side payment intents.
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, req *models.PaymentIntentRequest) (*models.PaymentIntent, error)
}

type PaymentService struct {
	bookings *BookingService
	provider PaymentProvider
	cfg      config.PaymentConfig
	events   EventPublisher
	log      *logger.Logger
}

// NewPaymentService wires the payment flow. provider may be nil when cfg.Mode
// is ModeUnconfigured.
func NewPaymentService(bookings *BookingService, provider PaymentProvider, cfg config.PaymentConfig, events EventPublisher, log *logger.Logger) *PaymentService {
	return &PaymentService{
		bookings: bookings,
		provider: provider,
		cfg:      cfg,
		events:   events,
		log:      log,
	}
}

func (s *PaymentService) Mode() config.ProviderMode {
	return s.cfg.Mode
}

// ProviderAmount converts a booking amount into the provider's minor unit.
func (s *PaymentService) ProviderAmount(amount int) int64 {
	return int64(amount) * s.cfg.MinorUnitMultiplier
}

// CreateIntent asks the provider for a payment intent covering the booking.
// The booking itself is not modified.
func (s *PaymentService) CreateIntent(ctx context.Context, bookingID int) (*models.PaymentIntentResponse, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if s.cfg.Mode != config.ModeConfigured || s.provider == nil {
		s.log.LogPayment("INTENT_FAILED", bookingID, "Payment provider not configured")
		return nil, fmt.Errorf("%w: %w", ErrPaymentProvider, ErrPaymentProviderNotConfigured)
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	req := &models.PaymentIntentRequest{
		BookingID: booking.ID,
		Amount:    s.ProviderAmount(booking.Amount),
		Currency:  s.cfg.Currency,
		Metadata: map[string]string{
			"booking_id": strconv.Itoa(booking.ID),
		},
	}

	s.log.LogPayment("INTENT_INIT", booking.ID, fmt.Sprintf("Requesting intent for %d %s", req.Amount, req.Currency))
	intent, err := s.provider.CreatePaymentIntent(ctx, req)
	if err != nil {
		s.log.Error("PAYMENT", fmt.Sprintf("Payment intent for booking %d failed: %v", booking.ID, err))
		return nil, fmt.Errorf("%w: %w", ErrPaymentProvider, err)
	}

	s.log.LogPayment("INTENT_CREATED", booking.ID, fmt.Sprintf("Payment intent %s created", intent.ID))
	publishEvent(s.events, s.log, models.EventPaymentIntentCreated, booking)

	return &models.PaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
		Amount:       booking.Amount,
	}, nil
}

// ProviderMessage returns the provider's own wording for err, without the
// ErrPaymentProvider prefix.
func ProviderMessage(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Message
	}
	if errors.Is(err, ErrPaymentProviderNotConfigured) {
		return ErrPaymentProviderNotConfigured.Error()
	}
	return err.Error()
}

// ProviderError carries the message returned by an external provider.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
