// Package metrics collects and exposes Prometheus metrics for the member
// API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records the service's domain counters. All Record methods are
// nil-safe so metrics stay optional in tests.
type Collector struct {
	signUps          prometheus.Counter
	signIns          prometheus.Counter
	signOuts         prometheus.Counter
	authFailures     prometheus.Counter
	profileCreations prometheus.Counter
	checkIns         prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signUps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "member_api_sign_ups_total",
			Help: "Total successful sign-ups",
		}),
		signIns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "member_api_sign_ins_total",
			Help: "Total successful sign-ins",
		}),
		signOuts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "member_api_sign_outs_total",
			Help: "Total sign-outs",
		}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "member_api_auth_failures_total",
			Help: "Total rejected sign-up/sign-in attempts",
		}),
		profileCreations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "member_api_profile_creations_total",
			Help: "Total profiles created lazily on first sign-in",
		}),
		checkIns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "member_api_check_ins_total",
			Help: "Total check-ins submitted",
		}),
	}

	reg.MustRegister(
		c.signUps,
		c.signIns,
		c.signOuts,
		c.authFailures,
		c.profileCreations,
		c.checkIns,
	)

	return c
}

// RecordSignUp increments the sign-up counter
func (c *Collector) RecordSignUp() {
	if c == nil {
		return
	}
	c.signUps.Inc()
}

// RecordSignIn increments the sign-in counter
func (c *Collector) RecordSignIn() {
	if c == nil {
		return
	}
	c.signIns.Inc()
}

// RecordSignOut increments the sign-out counter
func (c *Collector) RecordSignOut() {
	if c == nil {
		return
	}
	c.signOuts.Inc()
}

// RecordAuthFailure increments the auth-failure counter
func (c *Collector) RecordAuthFailure() {
	if c == nil {
		return
	}
	c.authFailures.Inc()
}

// RecordProfileCreation increments the lazy-profile-creation counter
func (c *Collector) RecordProfileCreation() {
	if c == nil {
		return
	}
	c.profileCreations.Inc()
}

// RecordCheckIn increments the check-in counter
func (c *Collector) RecordCheckIn() {
	if c == nil {
		return
	}
	c.checkIns.Inc()
}

// Handler returns the /metrics HTTP handler for the given registry
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
