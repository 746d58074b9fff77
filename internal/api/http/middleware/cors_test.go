package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/todo-server/internal/testutil"
)

func newCORSEngine() *gin.Engine {
	engine := testutil.NewTestEngine()
	engine.Use(CORS(DefaultCORSConfig([]string{"http://localhost:3000"})))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func TestCORS_AllowedOrigin(t *testing.T) {
	rec := testutil.PerformRequest(newCORSEngine(), http.MethodGet, "/", nil,
		map[string]string{"Origin": "http://localhost:3000"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	rec := testutil.PerformRequest(newCORSEngine(), http.MethodGet, "/", nil,
		map[string]string{"Origin": "https://evil.example"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	rec := testutil.PerformRequest(newCORSEngine(), http.MethodOptions, "/", nil,
		map[string]string{"Origin": "http://localhost:3000"})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	engine := testutil.NewTestEngine()
	engine.Use(CORS(DefaultCORSConfig([]string{"*"})))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := testutil.PerformRequest(engine, http.MethodGet, "/", nil,
		map[string]string{"Origin": "https://any.example"})

	assert.Equal(t, "https://any.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
