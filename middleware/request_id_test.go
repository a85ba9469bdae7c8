package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func requestIDRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		*seen = GetRequestID(c)
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequestIDPropagated(t *testing.T) {
	var seen string
	router := requestIDRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if seen != "req-abc" {
		t.Errorf("GetRequestID = %q, want the inbound header value", seen)
	}
	if got := w.Header().Get(RequestIDHeader); got != "req-abc" {
		t.Errorf("response header = %q", got)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	router := requestIDRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if seen == "" {
		t.Error("GetRequestID must return a generated id when none is supplied")
	}
	if w.Header().Get(RequestIDHeader) != seen {
		t.Error("generated id must echo back in the response header")
	}
}
