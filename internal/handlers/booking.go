package handlers

import (
	"errors"
	"net/http"

	"movie-booking/internal/models"
	"movie-booking/internal/services"
	"movie-booking/internal/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService *services.BookingService
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

func (h *BookingHandler) ListMovies(c *gin.Context) {
	c.JSON(http.StatusOK, h.bookingService.ListMovies())
}

func (h *BookingHandler) ListSnacks(c *gin.Context) {
	c.JSON(http.StatusOK, h.bookingService.ListSnacks())
}

func (h *BookingHandler) Book(c *gin.Context) {
	var req models.BookRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(utils.BindingMessage(err)))
		return
	}

	booking, err := h.bookingService.Book(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrMovieNotFound) {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, models.BookResponse{OK: true, Booking: booking})
}

// MarkPaid trusts the caller that payment went through. Provider-verified
// confirmations arrive through the Stripe webhook or Kafka instead.
func (h *BookingHandler) MarkPaid(c *gin.Context) {
	var req models.BookingRefRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(utils.BindingMessage(err)))
		return
	}

	booking, err := h.bookingService.MarkPaid(c.Request.Context(), int(req.BookingID))
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.BookResponse{OK: true, Booking: booking})
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingBookingID):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
	case errors.Is(err, services.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, utils.ErrorResponse(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse(err.Error()))
	}
}
