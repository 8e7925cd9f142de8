package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitSagaBurstThenThrottle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(coachIDKey, "coach-1")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: GroupSaga,
		Limiter:      limiter,
		Rules:        DefaultSagaRules(),
	}))
	r.POST("/api/v1/students/:id/assessments/submit", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	burst := DefaultSagaRules()[GroupSaga].Burst
	for i := 0; i < burst; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/students/student-1/assessments/submit", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("submit %d expected 200, got %d", i+1, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/student-1/assessments/submit", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", resp.Code)
	}
}

func TestRateLimitKeysPerCoach(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(coachIDKey, c.GetHeader("X-Test-Coach"))
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: GroupSaga,
		Limiter:      limiter,
		Rules: map[string]RateLimitRule{
			GroupSaga: {Rate: 0.5, Burst: 1},
		},
	}))
	r.POST("/api/v1/students/:id/assessments/submit", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	send := func(coach string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/students/student-1/assessments/submit", nil)
		req.Header.Set("X-Test-Coach", coach)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp.Code
	}

	if code := send("coach-1"); code != http.StatusOK {
		t.Fatalf("coach-1 first submit expected 200, got %d", code)
	}
	if code := send("coach-1"); code != http.StatusTooManyRequests {
		t.Fatalf("coach-1 second submit expected 429, got %d", code)
	}
	// A different coach has a fresh bucket.
	if code := send("coach-2"); code != http.StatusOK {
		t.Fatalf("coach-2 first submit expected 200, got %d", code)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(coachIDKey, "coach-1")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: GroupSaga,
		Limiter:      limiter,
		Rules: map[string]RateLimitRule{
			GroupSaga: {Rate: 0.5, Burst: 1},
		},
	}))
	r.POST("/api/v1/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req1 := httptest.NewRequest(http.MethodPost, "/api/v1/limited", nil)
	resp1 := httptest.NewRecorder()
	r.ServeHTTP(resp1, req1)
	if resp1.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/limited", nil)
	resp2 := httptest.NewRecorder()
	r.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp2.Code)
	}
	if resp2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	var payload map[string]any
	if err := json.NewDecoder(resp2.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] != "rate_limited" {
		t.Fatalf("expected error=rate_limited")
	}
	if _, ok := payload["retryAfterMs"]; !ok {
		t.Fatalf("expected retryAfterMs in response")
	}
}
