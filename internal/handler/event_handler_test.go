package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEventRequestBody() map[string]interface{} {
	return map[string]interface{}{
		"name":          "Concert",
		"total_tickets": 100,
		"price":         50000,
		"date":          1767225600,
		"metadata_uri":  "ipfs://event-meta",
	}
}

func TestCreateEventHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		req := createJSONHTTPRequest("POST", "/api/v1/events", createEventRequestBody(), "org")
		w := doRequest(router, req)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(1), body["id"])
		assert.Equal(t, "org", body["organizer"])
		assert.Equal(t, false, body["is_canceled"])
	})

	t.Run("Failed - Missing Caller Identity", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		req := createJSONHTTPRequest("POST", "/api/v1/events", createEventRequestBody(), "")
		w := doRequest(router, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failed - Price Below Floor", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		body := createEventRequestBody()
		body["price"] = 999
		req := createJSONHTTPRequest("POST", "/api/v1/events", body, "org")
		w := doRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Failed - BindingError", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		req := createJSONHTTPRequest("POST", "/api/v1/events", InvalidJSON, "org")
		w := doRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCancelEventHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		req := createJSONHTTPRequest("POST", "/api/v1/events", createEventRequestBody(), "org")
		require.Equal(t, http.StatusCreated, doRequest(router, req).Code)

		w := doRequest(router, createJSONHTTPRequest("POST", "/api/v1/events/1/cancel", nil, "org"))
		assert.Equal(t, http.StatusOK, w.Code)

		// 取消後查詢 is_canceled = true
		w = doRequest(router, createJSONHTTPRequest("GET", "/api/v1/events/1", nil, ""))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["is_canceled"])
	})

	t.Run("Failed - Not Organizer", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		req := createJSONHTTPRequest("POST", "/api/v1/events", createEventRequestBody(), "org")
		require.Equal(t, http.StatusCreated, doRequest(router, req).Code)

		w := doRequest(router, createJSONHTTPRequest("POST", "/api/v1/events/1/cancel", nil, "mallory"))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Failed - Unknown Event", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doRequest(router, createJSONHTTPRequest("POST", "/api/v1/events/9/cancel", nil, "org"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Failed - Invalid ID Param", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doRequest(router, createJSONHTTPRequest("POST", "/api/v1/events/abc/cancel", nil, "org"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetEventHandler(t *testing.T) {
	t.Run("Success - No Identity Required For Queries", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		req := createJSONHTTPRequest("POST", "/api/v1/events", createEventRequestBody(), "org")
		require.Equal(t, http.StatusCreated, doRequest(router, req).Code)

		w := doRequest(router, createJSONHTTPRequest("GET", "/api/v1/events/1", nil, ""))
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(50000), body["price"])
		assert.Equal(t, float64(100), body["total_tickets"])
	})

	t.Run("Failed - Unknown Event", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doRequest(router, createJSONHTTPRequest("GET", "/api/v1/events/1", nil, ""))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListEventTicketsHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, settlement := setupTestRouter(t)
		req := createJSONHTTPRequest("POST", "/api/v1/events", createEventRequestBody(), "org")
		require.Equal(t, http.StatusCreated, doRequest(router, req).Code)

		settlement.Deposit("alice", 200000)
		purchase := map[string]interface{}{"event_id": 1}
		require.Equal(t, http.StatusCreated, doRequest(router, createJSONHTTPRequest("POST", "/api/v1/tickets", purchase, "alice")).Code)
		require.Equal(t, http.StatusCreated, doRequest(router, createJSONHTTPRequest("POST", "/api/v1/tickets", purchase, "alice")).Code)

		w := doRequest(router, createJSONHTTPRequest("GET", "/api/v1/events/1/tickets", nil, ""))
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Len(t, body["ticket_ids"], 2)
	})
}
