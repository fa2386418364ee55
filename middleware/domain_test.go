package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

var testPolicy = DomainPolicy{
	CanonicalHost: "registrobo.com.br",
	PrivatePrefix: "192.168.",
	Scheme:        "https",
}

func domainRouter(calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(DomainEnforcement(testPolicy))
	r.Any("/*path", func(c *gin.Context) {
		*calls++
		c.Status(http.StatusOK)
	})
	return r
}

func TestDomainPolicyAllowed(t *testing.T) {
	allowed := []string{
		"localhost", "localhost:3000", "127.0.0.1:8080", "[::1]:3000", "::1",
		"192.168.0.15", "192.168.1.2:5173", "registrobo.com.br", "www.registrobo.com.br",
		"REGISTROBO.com.br:443", "registrobo.com.br.",
	}
	for _, host := range allowed {
		assert.True(t, testPolicy.Allowed(host), host)
	}
	denied := []string{
		"evil.example.com", "10.0.0.1", "registrobo.com.br.evil.com", "api.registrobo.com.br",
		"192.168.evil.example.com", "192.168.1.2.nip.io:8080", "192.168.1.300",
	}
	for _, host := range denied {
		assert.False(t, testPolicy.Allowed(host), host)
	}
}

func TestDomainEnforcementLocalhostPassesThrough(t *testing.T) {
	calls := 0
	r := domainRouter(&calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bo?x=1", nil)
	req.Host = "localhost"
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Equal(t, 1, calls)
}

func TestDomainEnforcementRedirectsForeignHost(t *testing.T) {
	calls := 0
	r := domainRouter(&calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bo/12/pdf?download=1&lang=pt", nil)
	req.Host = "evil.example.com"
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://registrobo.com.br/bo/12/pdf?download=1&lang=pt", w.Header().Get("Location"))
	assert.Equal(t, 0, calls)
	assert.Len(t, w.Header().Values("Location"), 1)
}

func TestDomainEnforcementRedirectsNameWithPrivatePrefix(t *testing.T) {
	calls := 0
	r := domainRouter(&calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bo?x=1", nil)
	req.Host = "192.168.evil.example.com"
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://registrobo.com.br/bo?x=1", w.Header().Get("Location"))
	assert.Equal(t, 0, calls)
}

func TestDomainEnforcementKeepsMethodForWrites(t *testing.T) {
	calls := 0
	r := domainRouter(&calls)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bo", strings.NewReader(`{}`))
	req.Host = "evil.example.com:8080"
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "https://registrobo.com.br/bo", w.Header().Get("Location"))
	assert.Equal(t, 0, calls)
}
