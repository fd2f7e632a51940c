package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-booking/internal/logger"
	"movie-booking/internal/models"
	"movie-booking/internal/storage"
)

const defaultUserName = "Guest"

var (
	ErrMovieNotFound    = errors.New("movie not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrMissingBookingID = errors.New("booking_id required")
)

// EventPublisher receives booking lifecycle events. Publishing is best effort.
type EventPublisher interface {
	PublishBookingEvent(event *models.BookingEvent) error
}

type BookingService struct {
	store  storage.Store
	movies []models.Movie
	snacks []models.Snack
	events EventPublisher
	log    *logger.Logger
}

func NewBookingService(store storage.Store, movies []models.Movie, snacks []models.Snack, events EventPublisher, log *logger.Logger) *BookingService {
	return &BookingService{
		store:  store,
		movies: movies,
		snacks: snacks,
		events: events,
		log:    log,
	}
}

func (s *BookingService) ListMovies() []models.Movie {
	return append([]models.Movie(nil), s.movies...)
}

func (s *BookingService) ListSnacks() []models.Snack {
	return append([]models.Snack(nil), s.snacks...)
}

func (s *BookingService) findMovie(id int) (models.Movie, bool) {
	for _, m := range s.movies {
		if m.ID == id {
			return m, true
		}
	}
	return models.Movie{}, false
}

// selectSnacks returns catalog snacks whose id appears in ids, in catalog
// order. Unknown ids are ignored.
func (s *BookingService) selectSnacks(ids []int) []models.Snack {
	wanted := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var selected []models.Snack
	for _, snack := range s.snacks {
		if _, ok := wanted[snack.ID]; ok {
			selected = append(selected, snack)
		}
	}
	return selected
}

// Quote prices a request without storing anything. An empty seat list is
// charged as one ticket.
func (s *BookingService) Quote(req *models.BookRequest) (amount int, snackNames []string, err error) {
	movie, ok := s.findMovie(req.MovieID)
	if !ok {
		return 0, nil, ErrMovieNotFound
	}

	tickets := len(req.Seats)
	if tickets < 1 {
		tickets = 1
	}
	amount = movie.Price * tickets

	snackNames = []string{}
	for _, snack := range s.selectSnacks(req.SnackIDs) {
		amount += snack.Price
		snackNames = append(snackNames, snack.Name)
	}
	return amount, snackNames, nil
}

func (s *BookingService) Book(ctx context.Context, req *models.BookRequest) (*models.Booking, error) {
	amount, snackNames, err := s.Quote(req)
	if err != nil {
		s.log.Warn("BOOKING", fmt.Sprintf("Rejected booking for unknown movie %d", req.MovieID))
		return nil, err
	}

	userName := defaultUserName
	if req.UserName != nil {
		userName = *req.UserName
	}

	seats := append([]string{}, req.Seats...)

	booking, err := s.store.CreateBooking(&models.Booking{
		MovieID:  req.MovieID,
		Seats:    seats,
		Snacks:   snackNames,
		Amount:   amount,
		UserName: userName,
		Paid:     false,
	})
	if err != nil {
		s.log.Error("BOOKING", fmt.Sprintf("Failed to store booking: %v", err))
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.log.LogBooking("CREATE", booking.ID, fmt.Sprintf("Booked movie %d for %s, %d seat(s), amount %d",
		booking.MovieID, booking.UserName, len(booking.Seats), booking.Amount))

	s.publish(models.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int) (*models.Booking, error) {
	if id == 0 {
		return nil, ErrMissingBookingID
	}

	booking, err := s.store.GetBooking(id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// MarkPaid flips the paid flag without consulting the payment provider.
// Calling it again on a paid booking is a no-op.
func (s *BookingService) MarkPaid(ctx context.Context, id int) (*models.Booking, error) {
	if id == 0 {
		return nil, ErrMissingBookingID
	}

	booking, changed, err := s.store.MarkPaid(id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			s.log.LogPayment("NOT_FOUND", id, "Mark paid for unknown booking")
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to mark booking paid: %w", err)
	}

	if changed {
		s.log.LogPayment("PAID", id, "Booking marked as paid")
		s.publish(models.EventBookingPaid, booking)
	} else {
		s.log.LogPayment("ALREADY_PAID", id, "Booking was already paid")
	}
	return booking, nil
}

// HandlePaymentConfirmation applies a provider confirmation. Anything other
// than a succeeded status is logged and ignored.
func (s *BookingService) HandlePaymentConfirmation(confirmation *models.PaymentConfirmation) error {
	id := int(confirmation.BookingID)
	if confirmation.Status != models.ConfirmationSucceeded {
		s.log.LogPayment("CONFIRMATION_IGNORED", id, fmt.Sprintf("Status %q for intent %s", confirmation.Status, confirmation.PaymentIntentID))
		return nil
	}

	_, err := s.MarkPaid(context.Background(), id)
	return err
}

func (s *BookingService) publish(eventType string, booking *models.Booking) {
	publishEvent(s.events, s.log, eventType, booking)
}

func publishEvent(events EventPublisher, log *logger.Logger, eventType string, booking *models.Booking) {
	if events == nil {
		return
	}

	event := &models.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID,
		Booking:   booking,
		Timestamp: time.Now().UTC(),
	}
	if err := events.PublishBookingEvent(event); err != nil {
		log.Error("KAFKA", fmt.Sprintf("Failed to publish %s for booking %d: %v", eventType, booking.ID, err))
	}
}
