package trust

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(repo RepositoryInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(fastService(repo, nil))

	router := gin.New()
	admin := router.Group("/api/v1/admin")
	{
		admin.GET("/trust/scores/:phone", handler.GetScore)
		admin.GET("/trust/scores/:phone/history", handler.GetHistory)
		admin.GET("/trust/suspicious", handler.ListSuspicious)
	}
	return router
}

func doGet(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestGetScoreEndpointFreshPhone(t *testing.T) {
	router := setupRouter(newMemoryRepository())

	w, body := doGet(t, router, "/api/v1/admin/trust/scores/+79001234567")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	score := data["score"].(map[string]interface{})
	assert.Equal(t, float64(100), score["trust_score"])
	assert.Equal(t, "good", score["status"])
	assert.Equal(t, []interface{}{}, data["history"])
}

func TestGetScoreEndpointInvalidPhone(t *testing.T) {
	router := setupRouter(newMemoryRepository())

	w, body := doGet(t, router, "/api/v1/admin/trust/scores/junk")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestSuspiciousEndpointRejectsUnknownTier(t *testing.T) {
	router := setupRouter(newMemoryRepository())

	w, body := doGet(t, router, "/api/v1/admin/trust/suspicious?min_tier=sketchy")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "sketchy")
}

func TestSuspiciousEndpointReturnsDegradedCustomers(t *testing.T) {
	repo := newMemoryRepository()
	service := fastService(repo, nil)

	// five cancellations: 100 -> 25, blacklisted
	for i := 0; i < 5; i++ {
		orderID := uuid.New()
		_, err := service.HandleEvent(context.Background(), &ScoreEvent{
			Phone:   "+79001234567",
			Kind:    EventOrderCancelledOrReturned,
			OrderID: &orderID,
		})
		require.NoError(t, err)
	}

	router := setupRouter(repo)
	w, body := doGet(t, router, "/api/v1/admin/trust/suspicious?min_tier=warning")

	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)

	customer := data[0].(map[string]interface{})
	assert.Equal(t, "+79001234567", customer["phone"])
	assert.Equal(t, float64(25), customer["trust_score"])
	assert.Equal(t, "blacklisted", customer["status"])
	assert.Len(t, customer["recent_returns"], 5)

	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["total"])
}

func TestHistoryEndpointPaginates(t *testing.T) {
	repo := newMemoryRepository()
	service := fastService(repo, nil)

	for i := 0; i < 7; i++ {
		orderID := uuid.New()
		_, err := service.HandleEvent(context.Background(), &ScoreEvent{
			Phone:   "+79001234567",
			Kind:    EventOrderPlaced,
			OrderID: &orderID,
		})
		require.NoError(t, err)
	}

	router := setupRouter(repo)
	w, body := doGet(t, router, "/api/v1/admin/trust/scores/+79001234567/history?limit=5")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 5)

	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(7), meta["total"])
	assert.Equal(t, float64(2), meta["total_pages"])
}
