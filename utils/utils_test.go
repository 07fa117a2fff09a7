package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	Logger = zap.NewNop()
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Message)
}

func TestJSONErrorAborts(t *testing.T) {
	r := gin.New()
	reached := false
	r.GET("/x", func(c *gin.Context) {
		JSONError(c, http.StatusNotFound, "Employee not found", "")
	}, func(c *gin.Context) { reached = true })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, reached)
	assert.JSONEq(t, `{"message":"Employee not found"}`, w.Body.String())
}

func TestHealthStatusHealthy(t *testing.T) {
	assert.True(t, HealthStatus{Mongo: true}.Healthy())
	assert.True(t, HealthStatus{Mongo: true, Redis: []bool{true, true}}.Healthy())
	assert.False(t, HealthStatus{Mongo: true, Redis: []bool{true, false}}.Healthy())
	assert.False(t, HealthStatus{Redis: []bool{true}}.Healthy())
}

func TestCheckHealthWithoutClients(t *testing.T) {
	status := CheckHealth(t.Context(), nil, nil)
	assert.False(t, status.Mongo)
	assert.Equal(t, status, GetHealthStatus())
}
