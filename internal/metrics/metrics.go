// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "super_wallet"

// Ingestion outcomes.
const (
	ResultProcessed    = "processed"
	ResultDeadLettered = "dead_lettered"
	ResultInvalid      = "invalid"
)

// Job outcomes.
const (
	ResultOK      = "ok"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

// Command error kinds.
const (
	ErrorKindBusiness = "business"
	ErrorKindFault    = "fault"
)

var (
	CommandsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_consumed_total",
		Help:      "Command messages consumed, by outcome.",
	}, []string{"result"})

	CommandErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "command_errors_total",
		Help:      "Command processing errors, by kind.",
	}, []string{"kind"})

	CommandDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "command_processing_seconds",
		Help:      "Time spent on one command message including retries.",
		Buckets:   prometheus.DefBuckets,
	})

	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_runs_total",
		Help:      "Scheduled job runs, by job and outcome.",
	}, []string{"job", "result"})

	JobItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_items_total",
		Help:      "Items handled by scheduled jobs, by job and outcome.",
	}, []string{"job", "result"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Wallet events published, by type.",
	}, []string{"type"})
)
