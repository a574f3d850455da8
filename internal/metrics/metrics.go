// Package metrics exposes prometheus counters for event publishing, event
// processing and cascading deletion.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tenant_user_sync"

// Processing outcomes recorded per event.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeFailure = "failure"
)

// Recorder is what services and workers report into.
type Recorder interface {
	RecordPublish(topic string, err error)
	RecordEventProcessed(topic, outcome string)
	RecordCascade(matched, deleted, failed int)
}

type Collector struct {
	published     *prometheus.CounterVec
	publishFailed *prometheus.CounterVec
	processed     *prometheus.CounterVec
	cascadeUsers  *prometheus.CounterVec
	cascadeSize   prometheus.Histogram
}

// NewCollector registers the collector's metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Events successfully handed to the bus.",
		}, []string{"topic"}),
		publishFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_publish_failed_total",
			Help:      "Events the bus refused. These are not retried.",
		}, []string{"topic"}),
		processed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_processed_total",
			Help:      "Delivered events by processing outcome.",
		}, []string{"topic", "outcome"}),
		cascadeUsers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascade_user_deletions_total",
			Help:      "Per-user deletions issued by tenant cascades.",
		}, []string{"result"}),
		cascadeSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cascade_matched_users",
			Help:      "Users matched by a single tenant cascade.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	reg.MustRegister(
		c.published,
		c.publishFailed,
		c.processed,
		c.cascadeUsers,
		c.cascadeSize,
	)

	return c
}

func (c *Collector) RecordPublish(topic string, err error) {
	if err != nil {
		c.publishFailed.WithLabelValues(topic).Inc()
		return
	}
	c.published.WithLabelValues(topic).Inc()
}

func (c *Collector) RecordEventProcessed(topic, outcome string) {
	c.processed.WithLabelValues(topic, outcome).Inc()
}

func (c *Collector) RecordCascade(matched, deleted, failed int) {
	c.cascadeSize.Observe(float64(matched))
	c.cascadeUsers.WithLabelValues("deleted").Add(float64(deleted))
	c.cascadeUsers.WithLabelValues("failed").Add(float64(failed))
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Noop discards everything. Used where metrics are not wired, e.g. in tests.
type Noop struct{}

func (Noop) RecordPublish(string, error)         {}
func (Noop) RecordEventProcessed(string, string) {}
func (Noop) RecordCascade(int, int, int)         {}
