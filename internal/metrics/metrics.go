package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LintRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcutils_lint_runs_total",
		Help: "Total number of configuration files linted, labelled by dialect.",
	}, []string{"dialect"})

	Diagnostics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcutils_lint_diagnostics_total",
		Help: "Total number of linter findings, labelled by dialect and severity.",
	}, []string{"dialect", "severity"})

	Conversions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcutils_conversions_total",
		Help: "Total number of GAListener conversions, labelled by outcome.",
	}, []string{"outcome"})

	ConvertedRewards = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mcutils_converted_rewards",
		Help:    "Number of SuperbVote rewards produced per successful conversion.",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
	})

	RewardConditions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcutils_converted_reward_conditions_total",
		Help: "Total number of converted SuperbVote rewards, labelled by condition kind.",
	}, []string{"kind"})

	Scaffolds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcutils_scaffolds_total",
		Help: "Total number of plugin scaffolds requested, labelled by outcome.",
	}, []string{"outcome"})

	UploadsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcutils_uploads_rejected_total",
		Help: "Total number of uploads rejected before reaching a tool, labelled by reason.",
	}, []string{"reason"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mcutils_http_request_duration_ms",
		Help:    "HTTP request latency in milliseconds, labelled by route pattern.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"route"})
)
