package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"pathwise-server/services/guidance-api/internal/interfaces/httpserver/middlewares"
	"pathwise-server/services/guidance-api/internal/utils/platformerrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID_PropagatesIncomingHeader(t *testing.T) {
	router := gin.New()
	router.Use(middlewares.RequestID())

	var seenInGin, seenInRequestCtx string
	router.GET("/ping", func(c *gin.Context) {
		seenInGin = middlewares.GetRequestID(c)
		seenInRequestCtx = platformerrors.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req, _ := http.NewRequest("GET", "/ping", nil)
	req.Header.Set(middlewares.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if seenInGin != "req-123" {
		t.Errorf("Expected gin context request ID req-123, got %q", seenInGin)
	}
	if seenInRequestCtx != "req-123" {
		t.Errorf("Expected request context request ID req-123, got %q", seenInRequestCtx)
	}
	if got := w.Header().Get(middlewares.RequestIDHeader); got != "req-123" {
		t.Errorf("Expected response header req-123, got %q", got)
	}
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	router := gin.New()
	router.Use(middlewares.RequestID())

	var seenInRequestCtx string
	router.GET("/ping", func(c *gin.Context) {
		seenInRequestCtx = platformerrors.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if seenInRequestCtx == "" {
		t.Error("Expected a generated request ID in the request context")
	}
	if w.Header().Get(middlewares.RequestIDHeader) != seenInRequestCtx {
		t.Errorf("Expected response header to match context ID %q, got %q",
			seenInRequestCtx, w.Header().Get(middlewares.RequestIDHeader))
	}
}

func TestRequestID_ReachesErrorsBuiltBelowHandlers(t *testing.T) {
	router := gin.New()
	router.Use(middlewares.RequestID())

	var built *platformerrors.PlatformError
	router.GET("/fail", func(c *gin.Context) {
		built = platformerrors.NewError(c.Request.Context(), platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "conversation not found", nil, "middleware-test-uuid")
		c.Status(http.StatusNotFound)
	})

	req, _ := http.NewRequest("GET", "/fail", nil)
	req.Header.Set(middlewares.RequestIDHeader, "req-456")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if built == nil {
		t.Fatal("Expected handler to build an error")
	}
	if built.GetRequestID() != "req-456" {
		t.Errorf("Expected error to carry request ID req-456, got %q", built.GetRequestID())
	}
}
