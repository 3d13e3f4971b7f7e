package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"academy/internal/app/config"
	"academy/internal/app/ds"
	"academy/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

func signToken(t *testing.T, secret string, r role.Role, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: expires.Unix()},
		UserID:         7,
		Role:           r,
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestWithAuthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Token: "secret"}}
	am := NewAuthMiddleware(nil, cfg)

	r := gin.New()
	r.GET("/admin", am.WithAuthCheck(role.Admin), func(c *gin.Context) {
		u, ok := GetUserFromContext(c)
		if !ok || u.ID != 7 || u.Role != role.Admin {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", role.Admin, time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, "secret", role.Admin, time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"wrong role", "Bearer " + signToken(t, "secret", role.Staff, time.Now().Add(time.Hour)), http.StatusForbidden},
		{"ok", "Bearer " + signToken(t, "secret", role.Admin, time.Now().Add(time.Hour)), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status: got=%d want=%d", w.Code, tt.want)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}}))
	r.GET("/api/packages", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/packages", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin: got=%q", got)
	}
}
