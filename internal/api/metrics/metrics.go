// Package metrics defines and registers all custom Prometheus metrics for the
// crowdfunding API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Registration happens at import time via promauto; the request-level metrics
// are wired separately through echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crowdfund"

// DonationsAppliedTotal counts donations accepted by the funding ledger.
var DonationsAppliedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "donations_applied_total",
		Help:      "Total number of donations successfully applied.",
	},
)

// DonationsRejectedTotal counts donations that failed a precondition.
// Label:
//   - reason: "invalid_amount", "not_approved", "already_funded",
//     "exceeds_remaining", "not_found"
var DonationsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "donations_rejected_total",
		Help:      "Total number of donations rejected, labelled by reason.",
	},
	[]string{"reason"},
)

// DonationAmount observes the size of accepted contributions.
var DonationAmount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "donation_amount",
		Help:      "Distribution of accepted donation amounts.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 10, 7), // 0.01 … 10000
	},
)

// CampaignsFundedTotal counts campaigns that reached their goal and were
// removed from the active set.
var CampaignsFundedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaigns_funded_total",
		Help:      "Total number of campaigns that reached their funding goal.",
	},
)

// CampaignsModeratedTotal counts admin moderation decisions.
// Label:
//   - decision: "approved" or "rejected"
var CampaignsModeratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaigns_moderated_total",
		Help:      "Total number of campaign moderation decisions.",
	},
	[]string{"decision"},
)

// SignupCodesIssuedTotal counts signup verification codes issued.
var SignupCodesIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signup_codes_issued_total",
		Help:      "Total number of signup verification codes issued.",
	},
)
