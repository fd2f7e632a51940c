package storage

import (
	"sync"
	"time"

	"movie-booking/internal/models"
)

type InMemoryStore struct {
	bookings map[int]*models.Booking
	nextID   int
	now      func() time.Time
	mutex    sync.RWMutex
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		bookings: make(map[int]*models.Booking),
		nextID:   1,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *InMemoryStore) CreateBooking(booking *models.Booking) (*models.Booking, error) {
	stored := booking.Clone()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored.ID = s.nextID
	stored.CreatedAt = s.now()
	s.bookings[stored.ID] = stored
	s.nextID++

	return stored.Clone(), nil
}

func (s *InMemoryStore) GetBooking(id int) (*models.Booking, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	booking, exists := s.bookings[id]
	if !exists {
		return nil, ErrBookingNotFound
	}

	return booking.Clone(), nil
}

func (s *InMemoryStore) MarkPaid(id int) (*models.Booking, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	booking, exists := s.bookings[id]
	if !exists {
		return nil, false, ErrBookingNotFound
	}

	changed := !booking.Paid
	booking.Paid = true
	return booking.Clone(), changed, nil
}
