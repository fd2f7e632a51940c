package handlers

import (
	"errors"
	"net/http"

	"movie-booking/internal/services"
	"movie-booking/internal/utils"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 65536

type StripeHandler struct {
	stripeService  *services.StripeService
	bookingService *services.BookingService
}

func NewStripeHandler(stripeService *services.StripeService, bookingService *services.BookingService) *StripeHandler {
	return &StripeHandler{
		stripeService:  stripeService,
		bookingService: bookingService,
	}
}

// HandleStripeWebhook marks bookings paid when Stripe reports a succeeded
// payment intent. The signature is checked before anything is trusted.
func (h *StripeHandler) HandleStripeWebhook(c *gin.Context) {
	if !h.stripeService.WebhookEnabled() {
		c.JSON(http.StatusServiceUnavailable, utils.ErrorResponse(services.ErrWebhookNotConfigured.Error()))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("failed to read request body"))
		return
	}

	confirmation, err := h.stripeService.ParseWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}
	if confirmation == nil {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.bookingService.HandlePaymentConfirmation(confirmation); err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			// acknowledge so Stripe stops retrying an event we can never apply
			c.JSON(http.StatusOK, gin.H{"received": true, "applied": false})
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true, "applied": true})
}
