package storage

import (
	"errors"

	"movie-booking/internal/models"
)

var ErrBookingNotFound = errors.New("booking not found")

// Store owns bookings and their id sequence. Implementations must make id
// assignment and insertion a single atomic step.
type Store interface {
	// CreateBooking assigns the next id and created_at, stores the booking and
	// returns a copy of what was stored.
	CreateBooking(booking *models.Booking) (*models.Booking, error)
	GetBooking(id int) (*models.Booking, error)
	// MarkPaid sets paid=true. changed reports whether the flag flipped.
	MarkPaid(id int) (booking *models.Booking, changed bool, err error)
}
