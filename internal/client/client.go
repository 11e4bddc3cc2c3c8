// Package client is the typed HTTP client for the reservation service, used
// by the command-line front end.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/AndrewChmutov/big-medicine/internal/model"
)

// Client talks to one server endpoint. The zero value is not usable; create
// it with New.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the server at host:port.
func New(host string, port int) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Reserve submits a reservation for the account.
func (c *Client) Reserve(ctx context.Context, accountName string, entries []model.MedicineEntry) (model.ResponseItem, error) {
	var item model.ResponseItem
	err := c.post(ctx, "/reserve", model.MedicineReservations{
		AccountName: accountName,
		Entries:     entries,
	}, &item)
	return item, err
}

// Update replaces the reservation identified by id with the new entries.
func (c *Client) Update(ctx context.Context, id string, entries []model.MedicineEntry) (model.ResponseItem, error) {
	var item model.ResponseItem
	err := c.post(ctx, "/update", model.UpdateReservation{
		ID:      id,
		Entries: entries,
	}, &item)
	return item, err
}

// QueryByID retrieves a single reservation.
func (c *Client) QueryByID(ctx context.Context, id string) (model.ReservationResponse, error) {
	var resp model.ReservationResponse
	err := c.get(ctx, "/query", url.Values{"id": {id}}, &resp)
	return resp, err
}

// QueryByAccount retrieves all reservations of the account.
func (c *Client) QueryByAccount(ctx context.Context, name string) (model.ReservationsResponse, error) {
	var resp model.ReservationsResponse
	err := c.get(ctx, "/query-account", url.Values{"name": {name}}, &resp)
	return resp, err
}

// QueryAll retrieves every reservation in the system.
func (c *Client) QueryAll(ctx context.Context) (model.ReservationsResponse, error) {
	var resp model.ReservationsResponse
	err := c.get(ctx, "/query-all", nil, &resp)
	return resp, err
}

// Medicine retrieves one catalog row.
func (c *Client) Medicine(ctx context.Context, name string) (model.MedicineResponse, error) {
	var resp model.MedicineResponse
	err := c.get(ctx, "/medicine", url.Values{"name": {name}}, &resp)
	return resp, err
}

// Clean drops and recreates the working keyspace.
func (c *Client) Clean(ctx context.Context) (model.ResponseItem, error) {
	var item model.ResponseItem
	err := c.get(ctx, "/clean", nil, &item)
	return item, err
}

// Direct executes a raw store query.
func (c *Client) Direct(ctx context.Context, query string) (model.DictResponse, error) {
	var resp model.DictResponse
	err := c.get(ctx, "/direct", url.Values{"query": {query}}, &resp)
	return resp, err
}

func (c *Client) post(ctx context.Context, route string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", route, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", route, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, route, out)
}

func (c *Client) get(ctx context.Context, route string, params url.Values, out interface{}) error {
	target := c.baseURL + route
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", route, err)
	}
	return c.do(req, route, out)
}

func (c *Client) do(req *http.Request, route string, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", route, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: unexpected status %d", route, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", route, err)
	}
	return nil
}
