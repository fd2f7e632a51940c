package models

import "time"

// PaymentIntentRequest is what the booking side hands to a payment provider.
// Amount is already in the provider's minor unit.
type PaymentIntentRequest struct {
	BookingID int
	Amount    int64
	Currency  string
	Metadata  map[string]string
}

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// PaymentIntentResponse is the body returned to the browser; Amount is the
// booking amount, not the provider amount.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	Amount       int    `json:"amount"`
}

const ConfirmationSucceeded = "succeeded"

// PaymentConfirmation is a provider-side signal that a charge for a booking settled.
type PaymentConfirmation struct {
	BookingID       BookingID `json:"booking_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
}
