package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventro/eventro/internal/booking"
	"github.com/eventro/eventro/internal/middleware"
	"github.com/eventro/eventro/internal/models"
	"github.com/eventro/eventro/internal/payment"
	"github.com/eventro/eventro/internal/storage"
)

type stubAuthorizer struct {
	decline bool
	timeout bool
}

func (s *stubAuthorizer) Authorize(ctx context.Context, amountCents int64, currency string) (string, error) {
	switch {
	case s.timeout:
		return "", payment.ErrTimeout
	case s.decline:
		return "", payment.ErrDeclined
	}
	return "cs_test_secret", nil
}

func (s *stubAuthorizer) Charge(ctx context.Context, amountCents int64, currency, token, description, receiptEmail string) (*payment.ChargeResult, error) {
	switch {
	case s.timeout:
		return nil, payment.ErrTimeout
	case s.decline:
		return nil, payment.ErrDeclined
	}
	return &payment.ChargeResult{Reference: "pi_test", CardBrand: "visa", CardLast4: "4242"}, nil
}

type testEnv struct {
	router     *gin.Engine
	store      *storage.MemoryStore
	authorizer *stubAuthorizer
	userID     uuid.UUID
	event      models.Event
}

// identityMiddleware stands in for JWT auth: it sets the same context
// keys the real middleware would after verifying a token.
func identityMiddleware(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("email", "ada@example.com")
		c.Set("name", "Ada Lovelace")
		c.Next()
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore()
	authorizer := &stubAuthorizer{}
	svc := booking.NewService(store, authorizer)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	holds := booking.NewHoldService(client, time.Minute)

	event := models.Event{
		ID:          uuid.New(),
		Title:       "Summer Beats Festival",
		EventDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		EventTime:   "19:00",
		TicketPrice: 45,
	}
	store.AddEvent(event)

	userID := uuid.New()

	r := gin.New()
	r.Use(middleware.BookingMiddleware(svc), middleware.HoldsMiddleware(holds))
	r.GET("/v1/tickets/event/:eventId/seats", GetBookedSeats)

	authed := r.Group("/v1", identityMiddleware(userID))
	authed.POST("/checkout", Checkout)
	authed.POST("/bookings/hold", HoldSeats)
	authed.DELETE("/bookings/hold", ReleaseSeats)
	authed.POST("/reviews/:eventId", CreateReview)

	return &testEnv{router: r, store: store, authorizer: authorizer, userID: userID, event: event}
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestGetBookedSeatsEmpty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/v1/tickets/event/%s/seats", env.event.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp booking.Availability
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.BookedSeats)
	assert.Equal(t, models.SeatCapacity, resp.Remaining)
}

func TestGetBookedSeatsUnknownEvent(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/v1/tickets/event/%s/seats", uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutCreatesTicket(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/checkout", gin.H{
		"event_id": env.event.ID,
		"quantity": 2,
		"seats":    []int{5, 6},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Ticket struct {
			SelectedSeats []int `json:"selected_seats"`
		} `json:"ticket"`
		ClientSecret string `json:"client_secret"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cs_test_secret", resp.ClientSecret)
	assert.Equal(t, []int{5, 6}, resp.Ticket.SelectedSeats)

	seats := env.do(t, http.MethodGet, fmt.Sprintf("/v1/tickets/event/%s/seats", env.event.ID), nil)
	var availability booking.Availability
	require.NoError(t, json.Unmarshal(seats.Body.Bytes(), &availability))
	assert.Equal(t, []int{5, 6}, availability.BookedSeats)
}

func TestCheckoutSeatConflictStatus(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/checkout", gin.H{
		"event_id": env.event.ID,
		"quantity": 1,
		"seats":    []int{7},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/v1/checkout", gin.H{
		"event_id": env.event.ID,
		"quantity": 2,
		"seats":    []int{7, 8},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckoutDeclinedStatus(t *testing.T) {
	env := newTestEnv(t)
	env.authorizer.decline = true

	w := env.do(t, http.MethodPost, "/v1/checkout", gin.H{
		"event_id": env.event.ID,
		"quantity": 1,
		"seats":    []int{10},
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	env.authorizer.decline = false
	seats := env.do(t, http.MethodGet, fmt.Sprintf("/v1/tickets/event/%s/seats", env.event.ID), nil)
	var availability booking.Availability
	require.NoError(t, json.Unmarshal(seats.Body.Bytes(), &availability))
	assert.Empty(t, availability.BookedSeats)
}

func TestCheckoutTimeoutStatus(t *testing.T) {
	env := newTestEnv(t)
	env.authorizer.timeout = true

	w := env.do(t, http.MethodPost, "/v1/checkout", gin.H{
		"event_id": env.event.ID,
		"quantity": 1,
		"seats":    []int{11},
	})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	env.authorizer.timeout = false
	seats := env.do(t, http.MethodGet, fmt.Sprintf("/v1/tickets/event/%s/seats", env.event.ID), nil)
	var availability booking.Availability
	require.NoError(t, json.Unmarshal(seats.Body.Bytes(), &availability))
	assert.Empty(t, availability.BookedSeats)
}

func TestCheckoutInvalidSelectionStatus(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/checkout", gin.H{
		"event_id": env.event.ID,
		"quantity": 3,
		"seats":    []int{1, 2, 3},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHoldSeatsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/bookings/hold", gin.H{
		"event_id": env.event.ID,
		"seats":    []int{3, 4},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Seats     []int     `json:"seats"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []int{3, 4}, resp.Seats)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestHoldSeatsBookedConflict(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/checkout", gin.H{
		"event_id": env.event.ID,
		"quantity": 1,
		"seats":    []int{9},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/v1/bookings/hold", gin.H{
		"event_id": env.event.ID,
		"seats":    []int{9},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHoldSeatsRangeValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/bookings/hold", gin.H{
		"event_id": env.event.ID,
		"seats":    []int{0},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/v1/bookings/hold", gin.H{
		"event_id": env.event.ID,
		"seats":    []int{1, 2, 3},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
