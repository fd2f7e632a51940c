package handlers

import (
	"net/http"
	"time"

	"movie-booking/internal/config"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "movie-booking"
	serviceVersion = "1.0.0"
)

type HealthHandler struct {
	paymentMode config.ProviderMode
	chatMode    config.ProviderMode
}

func NewHealthHandler(paymentMode, chatMode config.ProviderMode) *HealthHandler {
	return &HealthHandler{paymentMode: paymentMode, chatMode: chatMode}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"timestamp":        time.Now().UTC(),
		"service":          serviceName,
		"version":          serviceVersion,
		"payment_provider": h.paymentMode.String(),
		"chat_provider":    h.chatMode.String(),
	})
}
