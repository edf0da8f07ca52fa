package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-ticket-ledger/internal/bank"
	"go-ticket-ledger/internal/cache"
	"go-ticket-ledger/internal/handler"
	"go-ticket-ledger/internal/ledger"
	"go-ticket-ledger/internal/queue"
	"go-ticket-ledger/internal/service"

	"github.com/gin-gonic/gin"
)

var (
	InvalidJSON = `{"invalid": json}`
)

// setupTestRouter 用記憶體元件組出完整的 handler -> service -> store 測試堆疊
func setupTestRouter(t *testing.T) (*gin.Engine, *bank.MemoryBank) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := ledger.NewStore()
	settlement := bank.NewMemoryBank()
	gate := cache.NewNoopEventInventoryGate()
	journal := queue.NewJournalQueue(1024)
	svc := service.NewTicketingService(store, settlement, gate, journal)

	router := gin.New()
	router.Use(handler.CallerIdentity())
	handler.NewEventHandler(svc).RegisterRoutes(router)
	handler.NewTicketHandler(svc).RegisterRoutes(router)
	handler.NewInsuranceHandler(svc).RegisterRoutes(router)
	handler.NewAccountHandler(settlement).RegisterRoutes(router)

	return router, settlement
}

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body and caller identity header
func createJSONHTTPRequest(method, url string, data interface{}, caller string) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(handler.CallerHeader, caller)
	}
	return req
}

func doRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}
