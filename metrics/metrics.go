package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Collector holds the Prometheus metrics of one scraper run.
type Collector struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Records         *prometheus.CounterVec
	LastRun         prometheus.Gauge
}

// NewCollector creates the run metrics on a private registry so that
// several collectors can coexist in tests.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of Reddit listing calls",
		},
		[]string{"kind", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Reddit listing call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Total number of post records collected",
		},
		[]string{"kind"},
	)

	lastRun := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run",
		},
	)

	registry.MustRegister(requests, requestDuration, records, lastRun)

	return &Collector{
		registry:        registry,
		Requests:        requests,
		RequestDuration: requestDuration,
		Records:         records,
		LastRun:         lastRun,
	}
}

// ObserveRequest records one listing call of the given kind ("search" or "top").
func (c *Collector) ObserveRequest(kind string, elapsed time.Duration, records int, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	c.Requests.WithLabelValues(kind, status).Inc()
	c.RequestDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	c.Records.WithLabelValues(kind).Add(float64(records))
}

// WriteTextfile writes the metrics in the text exposition format for the
// node exporter textfile collector.
func (c *Collector) WriteTextfile(path string, finishedAt time.Time) error {
	c.LastRun.Set(float64(finishedAt.Unix()))
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
