package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"

	"movie-booking/internal/config"
	"movie-booking/internal/logger"
	"movie-booking/internal/models"
	"movie-booking/internal/services"
	"movie-booking/internal/storage"
)

const testWebhookSecret = "whsec_handler_test"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProvider struct {
	lastReq *models.PaymentIntentRequest
	err     error
}

func (p *fakeProvider) CreatePaymentIntent(ctx context.Context, req *models.PaymentIntentRequest) (*models.PaymentIntent, error) {
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &models.PaymentIntent{ID: "pi_test", ClientSecret: "pi_test_secret", Amount: req.Amount}, nil
}

type fakeAssistant struct {
	reply string
	err   error
}

func (a *fakeAssistant) Complete(ctx context.Context, message string) (string, error) {
	return a.reply, a.err
}

type testEnv struct {
	router   *gin.Engine
	bookings *services.BookingService
	provider *fakeProvider
}

type envOptions struct {
	provider  *fakeProvider
	assistant services.ChatAssistant
	stripe    *services.StripeService
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	log := logger.NewNop()

	bookings := services.NewBookingService(storage.NewInMemoryStore(), models.DefaultMovies(), models.DefaultSnacks(), nil, log)

	paymentCfg := config.PaymentConfig{Mode: config.ModeUnconfigured, Currency: "inr", MinorUnitMultiplier: 100}
	var provider services.PaymentProvider
	if opts.provider != nil {
		paymentCfg.Mode = config.ModeConfigured
		provider = opts.provider
	}
	payments := services.NewPaymentService(bookings, provider, paymentCfg, nil, log)

	chatCfg := config.ChatConfig{Mode: config.ModeUnconfigured}
	if opts.assistant != nil {
		chatCfg.Mode = config.ModeConfigured
	}
	chat := services.NewChatService(chatCfg, opts.assistant, nil, log)

	bookingHandler := NewBookingHandler(bookings)
	paymentHandler := NewPaymentHandler(payments)
	chatHandler := NewChatHandler(chat)
	stripeHandler := NewStripeHandler(opts.stripe, bookings)
	healthHandler := NewHealthHandler(payments.Mode(), chat.Mode())

	r := gin.New()
	r.GET("/health", healthHandler.Health)
	api := r.Group("/api")
	api.GET("/movies", bookingHandler.ListMovies)
	api.GET("/snacks", bookingHandler.ListSnacks)
	api.POST("/book", bookingHandler.Book)
	api.POST("/pay", bookingHandler.MarkPaid)
	api.POST("/create-payment-intent", paymentHandler.CreatePaymentIntent)
	api.POST("/chat", chatHandler.Chat)
	api.POST("/stripe/webhook", stripeHandler.HandleStripeWebhook)

	return &testEnv{router: r, bookings: bookings, provider: opts.provider}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestListMoviesAndSnacks(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.do(http.MethodGet, "/api/movies", "")
	require.Equal(t, http.StatusOK, w.Code)
	var movies []models.Movie
	decode(t, w, &movies)
	require.Len(t, movies, 3)
	assert.Equal(t, "Kalki 2898 AD", movies[2].Title)
	assert.Equal(t, 300, movies[2].Price)

	w = env.do(http.MethodGet, "/api/snacks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"id":1,"name":"Popcorn","price":120},
		{"id":2,"name":"Samosa","price":40},
		{"id":3,"name":"Fries","price":80},
		{"id":4,"name":"Cold Drink","price":70}
	]`, w.Body.String())
}

func TestBookEndpoint(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.do(http.MethodPost, "/api/book", `{"movie_id":1,"seats":[],"snack_ids":[1]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.BookResponse
	decode(t, w, &resp)
	assert.True(t, resp.OK)
	assert.Equal(t, 1, resp.Booking.ID)
	assert.Equal(t, 370, resp.Booking.Amount)
	assert.Equal(t, "Guest", resp.Booking.UserName)
	assert.Equal(t, []string{"Popcorn"}, resp.Booking.Snacks)
	assert.False(t, resp.Booking.Paid)

	w = env.do(http.MethodPost, "/api/book", `{"movie_id":1,"seats":["A1","A2"],"user_name":"Ravi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Equal(t, 2, resp.Booking.ID)
	assert.Equal(t, 500, resp.Booking.Amount)
	assert.Equal(t, []string{}, resp.Booking.Snacks)
	assert.Equal(t, "Ravi", resp.Booking.UserName)
}

func TestBookEndpointErrors(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.do(http.MethodPost, "/api/book", `{"movie_id":999}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"movie not found"}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/book", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"movie not found"}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/book", `{"movie_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayEndpoint(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.do(http.MethodPost, "/api/book", `{"movie_id":2}`)

	w := env.do(http.MethodPost, "/api/pay", `{"booking_id":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.BookResponse
	decode(t, w, &resp)
	assert.True(t, resp.OK)
	assert.True(t, resp.Booking.Paid)
	assert.Equal(t, 220, resp.Booking.Amount)

	// idempotent, and string ids are accepted
	w = env.do(http.MethodPost, "/api/pay", `{"booking_id":"1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.True(t, resp.Booking.Paid)
}

func TestPayEndpointErrors(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"missing body", "", http.StatusBadRequest, `{"error":"booking_id required"}`},
		{"missing id", `{}`, http.StatusBadRequest, `{"error":"booking_id required"}`},
		{"null id", `{"booking_id":null}`, http.StatusBadRequest, `{"error":"booking_id required"}`},
		{"unknown id", `{"booking_id":42}`, http.StatusNotFound, `{"error":"booking not found"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/pay", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}

	w := env.do(http.MethodPost, "/api/pay", `{"booking_id":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePaymentIntentEndpoint(t *testing.T) {
	provider := &fakeProvider{}
	env := newTestEnv(t, envOptions{provider: provider})
	env.do(http.MethodPost, "/api/book", `{"movie_id":1,"seats":["A1","A2"]}`)

	w := env.do(http.MethodPost, "/api/create-payment-intent", `{"booking_id":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clientSecret":"pi_test_secret","amount":500}`, w.Body.String())

	require.NotNil(t, provider.lastReq)
	assert.Equal(t, int64(50000), provider.lastReq.Amount)
	assert.Equal(t, "inr", provider.lastReq.Currency)
	assert.Equal(t, "1", provider.lastReq.Metadata["booking_id"])

	booking, err := env.bookings.GetBooking(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, booking.Paid)
}

func TestCreatePaymentIntentErrors(t *testing.T) {
	provider := &fakeProvider{err: &services.ProviderError{Provider: "stripe", Message: "No such customer", Err: errors.New("404")}}
	env := newTestEnv(t, envOptions{provider: provider})
	env.do(http.MethodPost, "/api/book", `{"movie_id":1}`)

	w := env.do(http.MethodPost, "/api/create-payment-intent", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"booking_id required"}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/create-payment-intent", `{"booking_id":9}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"booking not found"}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/create-payment-intent", `{"booking_id":1}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"No such customer"}`, w.Body.String())
}

func TestCreatePaymentIntentUnconfigured(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.do(http.MethodPost, "/api/book", `{"movie_id":1}`)

	w := env.do(http.MethodPost, "/api/create-payment-intent", `{"booking_id":1}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"payment provider not configured"}`, w.Body.String())
}

func TestChatEndpointLocal(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	w := env.do(http.MethodPost, "/api/chat", `{"message":"What snacks do you have?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reply":"We have Popcorn, Samosa, Fries and Cold Drinks."}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/chat", `{"message":"when is the show"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reply":"Shows: 10:00,13:30,16:45,19:30"}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/chat", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "I can help with bookings and showtimes.")
}

func TestChatEndpointRejectsOversizedMessage(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	body, err := json.Marshal(models.ChatRequest{Message: strings.Repeat("a", 4001)})
	require.NoError(t, err)
	w := env.do(http.MethodPost, "/api/chat", string(body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEndpointAssistant(t *testing.T) {
	env := newTestEnv(t, envOptions{assistant: &fakeAssistant{reply: " Enjoy the show! "}})

	w := env.do(http.MethodPost, "/api/chat", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reply":"Enjoy the show!"}`, w.Body.String())

	env = newTestEnv(t, envOptions{assistant: &fakeAssistant{err: errors.New("rate limited")}})
	w = env.do(http.MethodPost, "/api/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"reply":"Chat provider error: rate limited"}`, w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t, envOptions{provider: &fakeProvider{}})

	w := env.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	decode(t, w, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "movie-booking", body["service"])
	assert.Equal(t, "configured", body["payment_provider"])
	assert.Equal(t, "unconfigured", body["chat_provider"])
}

func newWebhookStripe(t *testing.T, secret string) *services.StripeService {
	t.Helper()
	svc, err := services.NewStripeService(config.PaymentConfig{
		Mode:          config.ModeConfigured,
		SecretKey:     "sk_test_handlers",
		WebhookSecret: secret,
	}, logger.NewNop())
	require.NoError(t, err)
	return svc
}

func postWebhook(env *testEnv, payload, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", bytes.NewBufferString(payload))
	req.Header.Set("Stripe-Signature", signature)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func signed(payload string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  testWebhookSecret,
	}).Header
}

func TestStripeWebhookMarksBookingPaid(t *testing.T) {
	env := newTestEnv(t, envOptions{stripe: newWebhookStripe(t, testWebhookSecret)})
	env.do(http.MethodPost, "/api/book", `{"movie_id":3}`)

	payload := `{"id":"evt_1","object":"event","type":"payment_intent.succeeded",
		"data":{"object":{"id":"pi_1","object":"payment_intent","metadata":{"booking_id":"1"}}}}`
	w := postWebhook(env, payload, signed(payload))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true,"applied":true}`, w.Body.String())

	booking, err := env.bookings.GetBooking(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, booking.Paid)
}

func TestStripeWebhookResponses(t *testing.T) {
	env := newTestEnv(t, envOptions{stripe: newWebhookStripe(t, testWebhookSecret)})

	other := `{"id":"evt_2","object":"event","type":"charge.refunded","data":{"object":{}}}`
	w := postWebhook(env, other, signed(other))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())

	unknown := `{"id":"evt_3","object":"event","type":"payment_intent.succeeded",
		"data":{"object":{"id":"pi_3","object":"payment_intent","metadata":{"booking_id":"55"}}}}`
	w = postWebhook(env, unknown, signed(unknown))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true,"applied":false}`, w.Body.String())

	w = postWebhook(env, unknown, "t=1,v1=bad")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStripeWebhookNotConfigured(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	w := postWebhook(env, `{}`, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	env = newTestEnv(t, envOptions{stripe: newWebhookStripe(t, "")})
	w = postWebhook(env, `{}`, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
