package httpx

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}

func okRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	t.Parallel()

	r := okRouter(RequestID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID não foi gerado")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "rid-123" {
		t.Fatalf("rid=%q, esperava o valor do cliente", got)
	}
}

func TestAPIKey(t *testing.T) {
	t.Parallel()

	r := okRouter(APIKey("segredo"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("sem chave: status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("x-api-key", "errada")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("chave errada: status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("x-api-key", "segredo")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("chave certa: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestRateLimiter_BlocksAboveWindowMax(t *testing.T) {
	t.Parallel()

	r := okRouter(NewRateLimiter(3, time.Minute).Middleware())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("requisição %d: status=%d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("quarta requisição: status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "retryAfter") {
		t.Fatalf("resposta 429 sem retryAfter: %s", w.Body.String())
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 10*time.Millisecond)
	r := okRouter(rl.Middleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("primeira: status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("segunda: status=%d", w.Code)
	}

	time.Sleep(20 * time.Millisecond)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("após a janela: status=%d", w.Code)
	}
}
