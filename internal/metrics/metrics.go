// Package metrics holds the Prometheus collectors for authentication outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bibliobay",
		Name:      "sessions_created_total",
		Help:      "Sessions created, by kind (temporary|full).",
	}, []string{"kind"})

	OTPVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bibliobay",
		Name:      "otp_verifications_total",
		Help:      "OTP verification attempts, by outcome.",
	}, []string{"outcome"})

	CSRFRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bibliobay",
		Name:      "csrf_rejections_total",
		Help:      "Requests rejected by the CSRF guard, by reason (missing|invalid).",
	}, []string{"reason"})
)

// SessionKind returns the label value for a session created with the given temporary flag.
func SessionKind(temporary bool) string {
	if temporary {
		return "temporary"
	}
	return "full"
}
