package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/naveenspark/stays/pkg/domain"
)

// defaultTimeout bounds every request made by the clients in this package.
const defaultTimeout = 30 * time.Second

// Client talks to the places/bookings document database.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new database client rooted at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// WithToken returns a copy of the client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// --- Places ---

// ListPlaces fetches every offered place, ordered by id.
func (c *Client) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	var records map[string]PlaceRecord
	if err := c.get(ctx, "/offered-places.json", nil, &records); err != nil {
		return nil, fmt.Errorf("client.ListPlaces: %w", err)
	}
	places := make([]domain.Place, 0, len(records))
	for _, id := range sortedKeys(records) {
		places = append(places, records[id].Place(id))
	}
	return places, nil
}

// GetPlace fetches a single place by id.
func (c *Client) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	var record *PlaceRecord
	if err := c.get(ctx, "/offered-places/"+url.PathEscape(id)+".json", nil, &record); err != nil {
		return nil, fmt.Errorf("client.GetPlace: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("client.GetPlace: place %s: %w", id, domain.ErrNotFound)
	}
	p := record.Place(id)
	return &p, nil
}

// CreatePlace stores a new place and returns its generated id.
func (c *Client) CreatePlace(ctx context.Context, p domain.Place) (string, error) {
	var created createdResponse
	if err := c.post(ctx, "/offered-places.json", NewPlaceRecord(p), &created); err != nil {
		return "", fmt.Errorf("client.CreatePlace: %w", err)
	}
	if created.Name == "" {
		return "", errors.New("client.CreatePlace: response carried no id")
	}
	return created.Name, nil
}

// UpdatePlace replaces the stored record of p.
func (c *Client) UpdatePlace(ctx context.Context, p domain.Place) error {
	if err := c.doRequest(ctx, http.MethodPut, "/offered-places/"+url.PathEscape(p.ID)+".json", nil, NewPlaceRecord(p), nil); err != nil {
		return fmt.Errorf("client.UpdatePlace: %w", err)
	}
	return nil
}

// --- Bookings ---

// ListBookings fetches the bookings made by userID, ordered by id.
func (c *Client) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	params := url.Values{}
	params.Set("orderBy", strconv.Quote("userId"))
	params.Set("equalTo", strconv.Quote(userID))

	var records map[string]BookingRecord
	if err := c.get(ctx, "/bookings.json", params, &records); err != nil {
		return nil, fmt.Errorf("client.ListBookings: %w", err)
	}
	bookings := make([]domain.Booking, 0, len(records))
	for _, id := range sortedKeys(records) {
		bookings = append(bookings, records[id].Booking(id))
	}
	return bookings, nil
}

// CreateBooking stores a new booking and returns its generated id.
func (c *Client) CreateBooking(ctx context.Context, b domain.Booking) (string, error) {
	var created createdResponse
	if err := c.post(ctx, "/bookings.json", NewBookingRecord(b), &created); err != nil {
		return "", fmt.Errorf("client.CreateBooking: %w", err)
	}
	if created.Name == "" {
		return "", errors.New("client.CreateBooking: response carried no id")
	}
	return created.Name, nil
}

// DeleteBooking removes a booking by id.
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(id)+".json", nil, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteBooking: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.token != "" {
		params.Set("auth", c.token)
	}
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send(c.httpClient, req, out)
}

// send executes req and decodes a successful JSON response into out.
func send(httpClient *http.Client, req *http.Request, out any) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		return readHTTPError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
