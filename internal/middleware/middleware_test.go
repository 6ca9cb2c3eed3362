package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"petcare/pkg/logger"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, userID, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return signed
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(), OptionalAuth(testSecret, logger.NewNop()))
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, CallerKey(c))
	})
	return router
}

func TestOptionalAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"anonymous", "", "ip:192.0.2.1"},
		{"valid token", "Bearer " + signedToken(t, "42", testSecret), "user:42"},
		{"wrong secret", "Bearer " + signedToken(t, "42", "other"), "ip:192.0.2.1"},
		{"not bearer", "Basic abc", "ip:192.0.2.1"},
	}

	router := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK || w.Body.String() != tt.want {
				t.Errorf("got %d %q, want %q", w.Code, w.Body.String(), tt.want)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if len(w.Header().Get(RequestIDHeader)) != 36 {
		t.Errorf("generated request id = %q", w.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("request id not propagated: %q", w.Header().Get(RequestIDHeader))
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://petcare.example"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://petcare.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "https://petcare.example" {
		t.Errorf("preflight = %d %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("unknown origin allowed")
	}
}
