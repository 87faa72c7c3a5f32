package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const bookingBasePath = "/api/booking"

// BookingClient calls the booking routes. Every call is bounded by the
// underlying HttpClient timeout.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *BookingClient) WaitForHealthy(maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(maxWait)
}

func (c *BookingClient) Create(userID, restaurantID string, body any) (*Response, error) {
	path := bookingBasePath + "/" + url.PathEscape(userID) + "/" + url.PathEscape(restaurantID) + "/create"
	return c.httpClient.send(context.Background(), http.MethodPost, path, body)
}

func (c *BookingClient) GetByRestaurant(restaurantID string) (*Response, error) {
	return c.get(bookingBasePath + "/get/restaurantId/" + url.PathEscape(restaurantID))
}

func (c *BookingClient) GetByUser(userID string) (*Response, error) {
	return c.get(bookingBasePath + "/get/userId/" + url.PathEscape(userID))
}

func (c *BookingClient) GetByID(bookingID string) (*Response, error) {
	return c.get(bookingBasePath + "/get/bookingId/" + url.PathEscape(bookingID))
}

func (c *BookingClient) GetByDateRange(startFrom, to string) (*Response, error) {
	q := url.Values{}
	q.Set("startFrom", startFrom)
	q.Set("to", to)
	return c.get(bookingBasePath + "/get/date?" + q.Encode())
}

func (c *BookingClient) Cancel(userID, bookingID string) (*Response, error) {
	path := bookingBasePath + "/" + url.PathEscape(userID) + "/cancel/" + url.PathEscape(bookingID)
	return c.httpClient.send(context.Background(), http.MethodDelete, path, nil)
}

func (c *BookingClient) Update(userID, bookingID string, body any) (*Response, error) {
	path := bookingBasePath + "/" + url.PathEscape(userID) + "/update/" + url.PathEscape(bookingID)
	return c.httpClient.send(context.Background(), http.MethodPut, path, body)
}

func (c *BookingClient) get(path string) (*Response, error) {
	return c.httpClient.send(context.Background(), http.MethodGet, path, nil)
}
