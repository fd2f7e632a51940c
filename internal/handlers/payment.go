package handlers

import (
	"errors"
	"net/http"

	"movie-booking/internal/models"
	"movie-booking/internal/services"
	"movie-booking/internal/utils"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req models.BookingRefRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(utils.BindingMessage(err)))
		return
	}

	result, err := h.paymentService.CreateIntent(c.Request.Context(), int(req.BookingID))
	if err != nil {
		if errors.Is(err, services.ErrPaymentProvider) {
			c.JSON(http.StatusInternalServerError, utils.ErrorResponse(services.ProviderMessage(err)))
			return
		}
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
