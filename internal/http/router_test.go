package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/chesterOps/meetro/internal/http/middleware"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return NewRouter(Deps{Logger: logger})
}

func TestRouterPanicAnswers500(t *testing.T) {
	r := testRouter(t)
	r.POST("/boom", func(c *gin.Context) {
		panic("handler blew up")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/boom", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("panic answered HTTP %d (body %q), want 500", w.Code, w.Body.String())
	}

	var body struct {
		Error     string `json:"error"`
		RequestID string `json:"request_id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error == "" {
		t.Fatal("expected a public error message in the body")
	}
	if strings.Contains(body.Error, "blew up") {
		t.Fatalf("panic detail leaked to the client: %q", body.Error)
	}
	if body.RequestID == "" {
		t.Fatal("expected a request id in the body")
	}
}

func TestRouterFailedRequestRendersAppError(t *testing.T) {
	r := testRouter(t)
	r.GET("/fail", func(c *gin.Context) {
		middleware.Fail(c, errStub{})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

type errStub struct{}

func (errStub) Error() string { return "stub" }
