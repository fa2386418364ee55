package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"registrobo/config"
	"registrobo/database"
	"registrobo/dto"
	"registrobo/metrics"
	"registrobo/pdfexport"
	"registrobo/services"
)

func testRouter(t *testing.T, enforce bool) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := &config.Config{
		Domain: config.Domain{
			Enforce:       enforce,
			CanonicalHost: "registrobo.com.br",
			PrivatePrefix: "192.168.",
			Scheme:        "https",
		},
	}
	m := metrics.New("registrobo", "test")
	policiais := services.NewPolicialService(db)
	tokens := services.NewTokenService(db, "a", "r", time.Minute, time.Hour)
	exporter, err := pdfexport.NewExporter(pdfexport.DefaultFontSet(), zap.NewNop())
	require.NoError(t, err)

	p, err := policiais.Register(context.Background(), dto.CreatePolicialRequest{Nome: "Ana", Matricula: "1", Senha: "segredo1"})
	require.NoError(t, err)
	token, err := tokens.CreateAccessToken(p)
	require.NoError(t, err)

	router := NewRouter(Dependencies{
		Config:    cfg,
		Logger:    zap.NewNop(),
		Metrics:   m,
		BOs:       services.NewBOServiceWithMetrics(services.NewBOService(db), m),
		Policiais: policiais,
		Tokens:    tokens,
		Exporter:  exporter,
	})
	return router, token
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetricsSkipDomainRule(t *testing.T) {
	r, _ := testRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Host = "10.0.0.5:3000"
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Host = "10.0.0.5:3000"
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "registrobo_test_requests_total")
}

func TestForeignHostIsRedirected(t *testing.T) {
	r, token := testRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/bo?ordem=data", nil)
	req.Host = "evil.example.com"
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://registrobo.com.br/bo?ordem=data", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/bo", nil)
	req.Host = "localhost:3000"
	req.Header.Set("Authorization", "Bearer "+token)
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDomainRuleDisabled(t *testing.T) {
	r, token := testRouter(t, false)

	req := httptest.NewRequest(http.MethodPost, "/bo", strings.NewReader(`{"comunicante":"a","descricao":"b","local":"c","data":"2024-02-02"}`))
	req.Host = "evil.example.com"
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusCreated, serve(r, req).Code)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := testRouter(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/bo", nil)
	req.Host = "localhost"
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerRunStopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", http.NotFoundHandler(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
