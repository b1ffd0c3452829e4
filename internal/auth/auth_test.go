package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/panelkit/panelkit/internal/testutil/testlog"
)

func TestStaticToken(t *testing.T) {
	testlog.Start(t)
	v := StaticToken{Token: "panel-secret"}

	if err := v.Validate("panel-secret"); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if err := v.Validate("wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := (StaticToken{}).Validate(""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty configured token must reject, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	testlog.Start(t)
	gin.SetMode(gin.TestMode)

	newRouter := func(v Validator) *gin.Engine {
		router := gin.New()
		router.Use(Middleware(v))
		router.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		return router
	}

	tests := []struct {
		name      string
		validator Validator
		header    string
		want      int
	}{
		{name: "nil validator allows all", validator: nil, header: "", want: http.StatusOK},
		{name: "valid bearer token", validator: StaticToken{Token: "s"}, header: "Bearer s", want: http.StatusOK},
		{name: "wrong token", validator: StaticToken{Token: "s"}, header: "Bearer x", want: http.StatusUnauthorized},
		{name: "missing header", validator: StaticToken{Token: "s"}, header: "", want: http.StatusUnauthorized},
		{name: "malformed header", validator: StaticToken{Token: "s"}, header: "s", want: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rr := httptest.NewRecorder()
		newRouter(tc.validator).ServeHTTP(rr, req)
		if rr.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, rr.Code)
		}
	}
}
