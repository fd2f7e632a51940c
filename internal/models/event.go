package models

import "time"

const (
	EventBookingCreated       = "booking.created"
	EventBookingPaid          = "booking.paid"
	EventPaymentIntentCreated = "payment_intent.created"
)

type BookingEvent struct {
	Type      string    `json:"type"`
	BookingID int       `json:"booking_id"`
	Booking   *Booking  `json:"booking"`
	Timestamp time.Time `json:"timestamp"`
}
