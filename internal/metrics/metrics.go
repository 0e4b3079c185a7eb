package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/blogql/internal/store"
)

const namespace = "blogql"

// Operation status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// collectTimeout bounds the store read made on each scrape.
const collectTimeout = 2 * time.Second

// StatsSource reports record counts. *store.Store implements it.
type StatsSource interface {
	Stats(ctx context.Context) (store.Stats, error)
}

// Recorder records GraphQL root operations.
// A nil *Recorder discards everything.
type Recorder struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New creates a Recorder and registers its collectors with reg.
// If st is non-nil, store record counts are exported as well.
func New(reg prometheus.Registerer, st StatsSource) (*Recorder, error) {
	r := &Recorder{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "operations_total",
				Help:      "Total number of GraphQL root operations resolved",
			},
			[]string{"operation", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "operation_duration_seconds",
				Help:      "GraphQL root operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	collectors := []prometheus.Collector{r.operations, r.duration}
	if st != nil {
		collectors = append(collectors, newStoreCollector(st))
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

// Observe records one finished operation.
func (r *Recorder) Observe(operation string, err error, took time.Duration) {
	if r == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	r.operations.WithLabelValues(operation, status).Inc()
	r.duration.WithLabelValues(operation).Observe(took.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// storeCollector reads record counts at scrape time.
type storeCollector struct {
	source StatsSource
	desc   *prometheus.Desc
}

func newStoreCollector(st StatsSource) *storeCollector {
	return &storeCollector{
		source: st,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "records"),
			"Number of records currently held, by kind",
			[]string{"kind"},
			nil,
		),
	}
}

func (c *storeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *storeCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	stats, err := c.source.Stats(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.desc, err)
		return
	}

	for kind, n := range map[string]int{
		"user":    stats.Users,
		"post":    stats.Posts,
		"comment": stats.Comments,
	} {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n), kind)
	}
}
