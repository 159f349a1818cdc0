// Package metrics defines and registers all custom Prometheus metrics
// for the accounts API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Labels:
//   - realm: "admin" or "web"
//   - result: "success", "temporary_password", "invalid", "not_active"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by realm and outcome.",
	},
	[]string{"realm", "result"},
)

// CodesIssuedTotal counts verification codes issued.
// Label:
//   - flow: "forgot_password", "verify_reissue", "invite", "approve", "resend"
var CodesIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_codes_issued_total",
		Help:      "Total number of verification codes issued, by flow.",
	},
	[]string{"flow"},
)

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - scope: the limited route group (e.g. "login")
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429, by scope.",
	},
	[]string{"scope"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailsSentTotal counts successfully delivered mails by template code.
var MailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mails_sent_total",
		Help:      "Total number of transactional mails delivered, by template.",
	},
	[]string{"template"},
)

// MailsFailedTotal counts failed mail deliveries by template code.
// Failures are terminal: the dispatcher never retries.
var MailsFailedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mails_failed_total",
		Help:      "Total number of transactional mail deliveries that failed, by template.",
	},
	[]string{"template"},
)

// MailQueueDepth tracks the number of jobs waiting in each mail worker
// channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of mail jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
