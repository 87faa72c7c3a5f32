//go:build integration

package integrationtests

import (
	"context"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"restobook/internal/bookings/handler"
	"restobook/pkg/client"
	"restobook/pkg/config"
	"restobook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

const ServiceName = "bookings-integration-tests"

var (
	cfg           *config.Config
	bookingClient *client.BookingClient
)

func TestMain(m *testing.M) {
	cfg = config.Load(ServiceName)
	cfg.SetMongo()

	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}
	bookingClient = client.NewBookingClient(serverURL)
	if err := bookingClient.WaitForHealthy(30 * time.Second); err != nil {
		cfg.Log.Fatal("Bookings service unavailable", "error", err)
	}

	code := m.Run()
	cleanCollection()
	cfg.GracefulShutdown()
	os.Exit(code)
}

func cleanCollection() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	coll := cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(cfg.MongoCollectionName)
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		cfg.Log.Warn("Failed to clean bookings collection", "error", err)
	}
}

func validBody(start time.Time) map[string]any {
	return map[string]any{
		"reservationDate": map[string]any{
			"startFrom": start.Format(time.RFC3339),
			"to":        start.Add(2 * time.Hour).Format(time.RFC3339),
		},
		"reservationRequest": "  window   seat ",
		"guestNumber":        4,
		"costPerPerson":      25,
		"paymentStatus":      "Unpaid",
		"bookingStatus":      "Pending",
	}
}

func createBooking(t *testing.T, userID, restaurantID string, body map[string]any) string {
	t.Helper()
	resp, err := bookingClient.Create(userID, restaurantID, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, client.GetErrorDetail(resp))

	var created handler.BookingIDResponse
	require.NoError(t, resp.DecodeJSON(&created))
	require.NotEmpty(t, created.BookingID)
	return created.BookingID
}

func getBooking(t *testing.T, bookingID string) *model.BookingView {
	t.Helper()
	resp, err := bookingClient.GetByID(bookingID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorDetail(resp))

	var got handler.BookingResponse
	require.NoError(t, resp.DecodeJSON(&got))
	return got.Booking
}

func TestBookingLifecycle(t *testing.T) {
	cleanCollection()
	start := time.Date(2031, 5, 1, 19, 0, 0, 0, time.UTC)

	id := createBooking(t, "u-life", "r-life", validBody(start))

	booking := getBooking(t, id)
	assert.Equal(t, "r-life", booking.RestaurantID)
	assert.Equal(t, "u-life", booking.CreatedBy)
	assert.Equal(t, 100, booking.TotalAmount)
	assert.Equal(t, "window seat", booking.ReservationRequest)
	assert.Len(t, string(booking.CreatedWhen), 8)

	body := validBody(start)
	body["guestNumber"] = 6
	body["paymentStatus"] = "Paid"
	resp, err := bookingClient.Update("u-editor", id, body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorDetail(resp))

	booking = getBooking(t, id)
	assert.Equal(t, 6, booking.GuestNumber)
	assert.Equal(t, 150, booking.TotalAmount)
	assert.Equal(t, model.PaymentPaid, booking.PaymentStatus)
	assert.Equal(t, "u-editor", booking.UpdatedBy)

	resp, err = bookingClient.Cancel("u-life", id)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorDetail(resp))

	resp, err = bookingClient.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Bookings not found.", client.GetErrorDetail(resp))

	resp, err = bookingClient.Cancel("u-life", id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Booking is already inactive.", client.GetErrorDetail(resp))

	resp, err = bookingClient.Update("u-life", id, validBody(start))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "cannot update booking because it is inactive.", client.GetErrorDetail(resp))
}

func TestBookingListings(t *testing.T) {
	cleanCollection()
	start := time.Date(2031, 6, 1, 18, 0, 0, 0, time.UTC)

	first := createBooking(t, "u-list", "r-list", validBody(start))
	createBooking(t, "u-list", "r-list", validBody(start.Add(24*time.Hour)))
	createBooking(t, "u-other", "r-other", validBody(start))

	resp, err := bookingClient.GetByRestaurant("r-list")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list handler.BookingListResponse
	require.NoError(t, resp.DecodeJSON(&list))
	assert.Len(t, list.Bookings, 2)

	resp, err = bookingClient.GetByUser("u-other")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = handler.BookingListResponse{}
	require.NoError(t, resp.DecodeJSON(&list))
	assert.Len(t, list.Bookings, 1)

	resp, err = bookingClient.GetByDateRange(start.Format(time.RFC3339), "2099-01-01T00:00:00Z")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = handler.BookingListResponse{}
	require.NoError(t, resp.DecodeJSON(&list))
	assert.Len(t, list.Bookings, 2)

	_, err = bookingClient.Cancel("u-list", first)
	require.NoError(t, err)

	resp, err = bookingClient.GetByDateRange(start.Format(time.RFC3339), "2099-01-01T00:00:00Z")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = handler.BookingListResponse{}
	require.NoError(t, resp.DecodeJSON(&list))
	assert.Len(t, list.Bookings, 1)

	resp, err = bookingClient.GetByRestaurant("r-none")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Bookings not found.", client.GetErrorDetail(resp))
}

func TestBookingValidation(t *testing.T) {
	cleanCollection()
	start := time.Date(2031, 7, 1, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "zero guests", mutate: func(b map[string]any) { b["guestNumber"] = 0 }},
		{name: "zero cost", mutate: func(b map[string]any) { b["costPerPerson"] = 0 }},
		{name: "unknown payment status", mutate: func(b map[string]any) { b["paymentStatus"] = "Refunded" }},
		{name: "window end before start", mutate: func(b map[string]any) {
			b["reservationDate"] = map[string]any{
				"startFrom": start.Format(time.RFC3339),
				"to":        start.Add(-time.Hour).Format(time.RFC3339),
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBody(start)
			tt.mutate(body)
			resp, err := bookingClient.Create("u-val", "r-val", body)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, client.GetErrorDetail(resp))
		})
	}

	resp, err := bookingClient.GetByRestaurant("r-val")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConcurrentCancelSucceedsOnce(t *testing.T) {
	cleanCollection()
	id := createBooking(t, "u-race", "r-race", validBody(time.Date(2031, 8, 1, 18, 0, 0, 0, time.UTC)))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := bookingClient.Cancel("u-race", id)
			if err != nil {
				return
			}
			if resp.StatusCode == http.StatusOK {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}
