package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-config-editor/internal/config"
	"github.com/iliyamo/hall-config-editor/internal/utils"
)

const testSecret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

// serve runs mw around a handler that echoes the stored identity.
func serve(mw echo.MiddlewareFunc, header string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/editor", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := mw(func(c echo.Context) error {
		id, ok := SubjectID(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, map[string]any{"id": id, "role": c.Get("role")})
	})
	_ = h(c)
	return rec
}

func TestJWTAuth(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name   string
		header func(t *testing.T) string
		want   int
	}{
		{"Valid owner token", func(t *testing.T) string {
			tok, err := utils.NewOwnerToken(testSecret, 7, time.Hour)
			if err != nil {
				t.Fatal(err)
			}
			return "Bearer " + tok.Token
		}, http.StatusOK},
		{"Numeric subject", func(t *testing.T) string {
			return "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": 9, "role": "OWNER", "exp": future})
		}, http.StatusOK},
		{"Missing header", func(t *testing.T) string { return "" }, http.StatusUnauthorized},
		{"Not bearer", func(t *testing.T) string { return "Basic abc" }, http.StatusUnauthorized},
		{"Wrong secret", func(t *testing.T) string {
			return "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "7", "exp": future})
		}, http.StatusUnauthorized},
		{"Expired", func(t *testing.T) string {
			tok, err := utils.NewOwnerToken(testSecret, 7, -time.Minute)
			if err != nil {
				t.Fatal(err)
			}
			return "Bearer " + tok.Token
		}, http.StatusUnauthorized},
		{"No expiry", func(t *testing.T) string {
			return "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "7"})
		}, http.StatusUnauthorized},
		{"No subject", func(t *testing.T) string {
			return "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"exp": future})
		}, http.StatusUnauthorized},
		{"Unsigned", func(t *testing.T) string {
			return "Bearer " + sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"sub": "7", "exp": future})
		}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(JWTAuth(testSecret), tt.header(t))
			if rec.Code != tt.want {
				t.Errorf("Expected status %d, got %d (%s)", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role any
		want int
	}{
		{"Exact", "OWNER", http.StatusOK},
		{"Lower case", "owner", http.StatusOK},
		{"Other role", "CUSTOMER", http.StatusForbidden},
		{"Missing", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			if tt.role != nil {
				c.Set("role", tt.role)
			}
			h := RequireRole("OWNER")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
			_ = h(c)
			if rec.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestSubjectID(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   uint64
		wantOK bool
	}{
		{"Float from JSON", float64(12), 12, true},
		{"Decimal string", "42", 42, true},
		{"uint64", uint64(3), 3, true},
		{"Zero", "0", 0, false},
		{"Garbage", "abc", 0, false},
		{"Missing", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			if tt.value != nil {
				c.Set("user_id", tt.value)
			}
			got, ok := SubjectID(c)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("Expected (%d, %v), got (%d, %v)", tt.want, tt.wantOK, got, ok)
			}
		})
	}
}

func TestRateKey(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl"}
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/v1/editor/seats", nil), httptest.NewRecorder())
	c.Request().Header.Set("X-Real-IP", "10.0.0.1")
	c.Set("user_id", "5")
	c.SetPath("/v1/editor/seats")

	tests := []struct {
		strategy string
		want     string
	}{
		{"user", "rl:user:5"},
		{"ip", "rl:ip:10.0.0.1"},
		{"user_route", "rl:user:5:route:POST /v1/editor/seats"},
		{"", "rl:ip:10.0.0.1:user:5"},
	}
	for _, tt := range tests {
		cfg.KeyStrategy = tt.strategy
		if got := rateKey(cfg, c); got != tt.want {
			t.Errorf("Expected key %q for strategy %q, got %q", tt.want, tt.strategy, got)
		}
	}
}

func TestDisabledRedisMiddlewarePassesThrough(t *testing.T) {
	cache := NewSeatMapCache(config.CacheConfig{Enabled: true, Prefix: "seatmap"}, nil)
	if cache != nil {
		t.Fatal("Expected nil cache without a Redis client")
	}
	if err := cache.InvalidateSeatMap(context.Background(), 1); err != nil {
		t.Errorf("Expected nil cache invalidation to succeed, got %v", err)
	}
	limiter := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)
	for _, mw := range []echo.MiddlewareFunc{cache.Middleware(), limiter} {
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		_ = mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })(c)
		if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "" {
			t.Errorf("Expected untouched 200, got %d with X-Cache %q", rec.Code, rec.Header().Get("X-Cache"))
		}
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"seats":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	status, gotHdr, body, ok := decodePayload(bs)
	if !ok || status != http.StatusOK || string(body) != `{"seats":[]}` || gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("Expected payload to survive, got ok=%v status=%d body=%q", ok, status, body)
	}
	if _, _, _, ok := decodePayload([]byte{1, 2}); ok {
		t.Error("Expected short payload to be rejected")
	}
}
