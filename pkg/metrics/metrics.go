package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ranw", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ranw", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	LeadsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ranw", Name: "leads_submitted_total", Help: "Contact-form leads accepted, by source."},
		[]string{"source"},
	)
	LeadsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "ranw", Name: "leads_rejected_total", Help: "Contact-form submissions rejected by validation."},
	)
	ArticlesServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ranw", Name: "articles_served_total", Help: "Published articles served, by language."},
		[]string{"lang"},
	)
	ProspectRowsImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ranw", Name: "prospect_import_rows_total", Help: "Prospect rows written by bulk import, by source format."},
		[]string{"source"},
	)
	AdminLogins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "ranw", Name: "admin_logins_total", Help: "Admin login attempts by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(LeadsSubmitted)
	reg.MustRegister(LeadsRejected)
	reg.MustRegister(ArticlesServed)
	reg.MustRegister(ProspectRowsImported)
	reg.MustRegister(AdminLogins)
}
