package utils

import (
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

func GenerateRequestID() string {
	return "req_" + uuid.NewString()
}
