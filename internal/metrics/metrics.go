package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobscout_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	SearchesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobscout_searches_total",
			Help: "Total number of aggregated searches performed.",
		},
	)
	CacheHitsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobscout_search_cache_hits_total",
			Help: "Total number of searches served from the result cache.",
		},
	)
	SourceRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobscout_source_requests_total",
			Help: "Total number of source fetches by source and outcome.",
		},
		[]string{"source", "status"},
	)
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobscout_search_duration_seconds",
			Help:    "Duration of each aggregated search in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)
	SearchStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "jobscout_search_step_duration_seconds",
			Help:       "Duration of each step of the search pipeline.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
	AlertChecksCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobscout_alert_checks_total",
			Help: "Total number of alert checks performed.",
		},
	)
	NotificationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobscout_notifications_total",
			Help: "Total number of generated notifications by type.",
		},
		[]string{"type"},
	)
)

func StartMetricsServer(addr string) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(SearchesCounter)
	prometheus.MustRegister(CacheHitsCounter)
	prometheus.MustRegister(SourceRequestsCounter)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchStepDuration)
	prometheus.MustRegister(AlertChecksCounter)
	prometheus.MustRegister(NotificationsCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(addr, nil))
	}()
}
