package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hurby24/Bibliobay-backend/internal/transport/http/cookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRealIP_CloudflareWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "8.8.8.8")
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	assert.Equal(t, "8.8.8.8", RealIP(req))
}

func TestRealIP_XForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	assert.Equal(t, "1.2.3.4", RealIP(req))
}

func TestRealIP_XRealIP_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-Ip", "9.10.11.12")
	assert.Equal(t, "9.10.11.12", RealIP(req))
}

func TestRealIP_RemoteAddr_Fallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:54321"
	assert.Equal(t, "192.168.1.1", RealIP(req))
}

func TestRealIP_XForwardedFor_TakesPrecedenceOverXRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.1.1.1")
	req.Header.Set("X-Real-Ip", "2.2.2.2")
	assert.Equal(t, "1.1.1.1", RealIP(req))
}

func newLimiter(t *testing.T, jar *cookie.Jar) *RateLimiter {
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	// no refill during the test
	return NewRateLimiter(rate.Every(time.Hour), 2, jar, stop)
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	h := newLimiter(t, nil).Limit(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("CF-Connecting-IP", "1.1.1.1")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
		if rr.Code == http.StatusTooManyRequests {
			assert.JSONEq(t, `{"code":429,"message":"Too many requests"}`, rr.Body.String())
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestRateLimiter_SeparateIPs(t *testing.T) {
	h := newLimiter(t, nil).Limit(http.HandlerFunc(okHandler))
	for _, ip := range []string{"1.1.1.1", "1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("CF-Connecting-IP", ip)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, ip)
	}
}

func TestRateLimiter_KeysBySessionBeforeIP(t *testing.T) {
	jar := cookie.NewJar(testSecret, true, "")
	rl := newLimiter(t, jar)

	rec := httptest.NewRecorder()
	jar.SetSession(rec, "user1:abc", false)
	withSession := httptest.NewRequest(http.MethodGet, "/", nil)
	withSession.Header.Set("CF-Connecting-IP", "1.1.1.1")
	for _, c := range rec.Result().Cookies() {
		withSession.AddCookie(c)
	}
	assert.Equal(t, "sid:user1:abc", rl.key(withSession))

	tampered := httptest.NewRequest(http.MethodGet, "/", nil)
	tampered.Header.Set("CF-Connecting-IP", "1.1.1.1")
	tampered.AddCookie(&http.Cookie{Name: cookie.SessionName, Value: "user1:abc.forged"})
	assert.Equal(t, "ip:1.1.1.1", rl.key(tampered))
}

func TestRateLimiter_SweepDropsIdleKeys(t *testing.T) {
	rl := newLimiter(t, nil)
	rl.get("ip:old")
	rl.limiters["ip:old"].lastSeen = time.Now().Add(-time.Hour)
	rl.get("ip:new")

	rl.sweep(time.Now().Add(-10 * time.Minute))
	require.NotContains(t, rl.limiters, "ip:old")
	assert.Contains(t, rl.limiters, "ip:new")
}
