package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("registrobo", "api")

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/bo", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bo", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.totalRequests.WithLabelValues("/bo", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.totalRequests.WithLabelValues("<unmatched>", "GET", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inflightRequest.WithLabelValues("/bo", "GET")))
}

func TestObserveCall(t *testing.T) {
	m := New("registrobo", "api")

	m.ObserveCall("Create", time.Now(), nil)
	m.ObserveCall("Create", time.Now(), errors.New("boom"))
	m.BOCreated()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.serviceCalls.WithLabelValues("Create", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.serviceCalls.WithLabelValues("Create", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.boCreated))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New("registrobo", "api")
	m.BOCreated()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "registrobo_service_bo_created_total 1"))
}
