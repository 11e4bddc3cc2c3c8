package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewChmutov/big-medicine/internal/model"
)

// newTestClient points a Client at the httptest server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	parsed, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(parsed.Port())
	require.NoError(t, err)
	return New(parsed.Hostname(), port)
}

func TestReserve(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/reserve", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.MedicineReservations
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.AccountName)
		require.Len(t, req.Entries, 1)
		assert.Equal(t, "paracetamol", req.Entries[0].Name)

		_ = json.NewEncoder(w).Encode(model.ResponseItem{
			Type: model.ResponseInfo,
			Msg:  "Reserved successfully: 00000000-0000-0000-0000-000000000001",
		})
	})

	item, err := c.Reserve(context.Background(), "alice",
		[]model.MedicineEntry{{Name: "paracetamol", Count: 4}})
	require.NoError(t, err)
	assert.Equal(t, model.ResponseInfo, item.Type)
	assert.True(t, strings.HasPrefix(item.Msg, "Reserved successfully: "))
}

func TestUpdate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/update", r.URL.Path)

		var req model.UpdateReservation
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "r1", req.ID)

		_ = json.NewEncoder(w).Encode(model.ResponseItem{Type: model.ResponseInfo, Msg: "ok"})
	})

	item, err := c.Update(context.Background(), "r1",
		[]model.MedicineEntry{{Name: "a", Count: 1}})
	require.NoError(t, err)
	assert.Equal(t, model.ResponseInfo, item.Type)
}

func TestQueryByID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "r1", r.URL.Query().Get("id"))

		_ = json.NewEncoder(w).Encode(model.ReservationResponse{
			ResponseItem: model.ResponseItem{Type: model.ResponseInfo, Msg: "-"},
			ReservationEntryItem: model.ReservationEntryItem{
				ID:          "r1",
				AccountName: "alice",
				Entries:     []model.MedicineEntry{{Name: "a", Count: 2}},
			},
		})
	})

	resp, err := c.QueryByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, "alice", resp.AccountName)
	require.Len(t, resp.Entries, 1)
}

func TestQueryByAccount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query-account", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("name"))

		_ = json.NewEncoder(w).Encode(model.ReservationsResponse{
			ResponseItem: model.ResponseItem{Type: model.ResponseInfo, Msg: "-"},
			Reservations: []model.ReservationEntryItem{{ID: "r1"}},
		})
	})

	resp, err := c.QueryByAccount(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, resp.Reservations, 1)
}

func TestQueryAll_ErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query-all", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.ResponseItem{
			Type: model.ResponseError,
			Msg:  "No reservations found",
		})
	})

	resp, err := c.QueryAll(context.Background())
	require.NoError(t, err, "error envelopes are data, not transport failures")
	assert.Equal(t, model.ResponseError, resp.Type)
	assert.Equal(t, "No reservations found", resp.Msg)
}

func TestMedicine(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/medicine", r.URL.Path)
		assert.Equal(t, "paracetamol", r.URL.Query().Get("name"))

		_ = json.NewEncoder(w).Encode(model.MedicineResponse{
			ResponseItem: model.ResponseItem{Type: model.ResponseInfo, Msg: "-"},
			Medicine:     map[string]interface{}{"name": "paracetamol", "count": 6},
		})
	})

	resp, err := c.Medicine(context.Background(), "paracetamol")
	require.NoError(t, err)
	assert.Equal(t, "paracetamol", resp.Medicine["name"])
}

func TestClean(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clean", r.URL.Path)
		_ = json.NewEncoder(w).Encode(model.ResponseItem{Type: model.ResponseInfo, Msg: "Cleaned the database"})
	})

	item, err := c.Clean(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cleaned the database", item.Msg)
}

func TestDirect(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/direct", r.URL.Path)
		assert.Equal(t, "SELECT * FROM medicines.medicine", r.URL.Query().Get("query"))

		_ = json.NewEncoder(w).Encode(model.DictResponse{
			ResponseItem: model.ResponseItem{Type: model.ResponseInfo, Msg: "-"},
			Content:      []map[string]interface{}{{"count": 6}},
		})
	})

	resp, err := c.Direct(context.Background(), "SELECT * FROM medicines.medicine")
	require.NoError(t, err)
	assert.NotNil(t, resp.Content)
}

func TestUnexpectedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.QueryAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}
