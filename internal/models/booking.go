package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Booking struct {
	ID        int       `json:"id"`
	MovieID   int       `json:"movie_id"`
	Seats     []string  `json:"seats"`
	Snacks    []string  `json:"snacks"`
	Amount    int       `json:"amount"`
	UserName  string    `json:"user_name"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy so callers never share slices with the store.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	c.Seats = append(make([]string, 0, len(b.Seats)), b.Seats...)
	c.Snacks = append(make([]string, 0, len(b.Snacks)), b.Snacks...)
	return &c
}

type BookRequest struct {
	MovieID  int      `json:"movie_id"`
	Seats    []string `json:"seats"`
	SnackIDs []int    `json:"snack_ids"`
	UserName *string  `json:"user_name"`
}

type BookResponse struct {
	OK      bool     `json:"ok"`
	Booking *Booking `json:"booking"`
}

// BookingID accepts either a JSON number or a numeric string. Zero means absent.
type BookingID int

func (id *BookingID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*id = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid booking_id %q", raw)
	}
	*id = BookingID(n)
	return nil
}

type BookingRefRequest struct {
	BookingID BookingID `json:"booking_id"`
}
