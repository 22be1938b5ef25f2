// Package metrics exposes the header chain activity to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "spvchain"

// Chain records the header chain activity. It implements the state.Metrics
// interface.
type Chain struct {
	accepted   *prometheus.CounterVec
	reorgDepth prometheus.Histogram
	tipHeight  prometheus.Gauge
	windowSize prometheus.Gauge
}

// NewChain registers the chain collectors with the registerer. A nil
// registerer uses the default Prometheus registry.
func NewChain(reg prometheus.Registerer, network string) *Chain {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	labels := prometheus.Labels{"network": network}
	factory := promauto.With(reg)

	return &Chain{
		accepted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "chain",
			Name:        "headers_total",
			Help:        "Count of headers handed to the chain by outcome.",
			ConstLabels: labels,
		}, []string{"outcome"}),
		reorgDepth: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "chain",
			Name:        "reorganization_depth_blocks",
			Help:        "Number of best branch blocks replaced by a reorganization.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 12),
		}),
		tipHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "chain",
			Name:        "tip_height",
			Help:        "Height of the chain head.",
			ConstLabels: labels,
		}),
		windowSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "chain",
			Name:        "window_blocks",
			Help:        "Number of blocks indexed by height.",
			ConstLabels: labels,
		}),
	}
}

// BlockAccepted counts a header handed to the chain.
func (c *Chain) BlockAccepted(outcome string) {
	c.accepted.WithLabelValues(outcome).Inc()
}

// ChainReorganized records the number of replaced blocks.
func (c *Chain) ChainReorganized(depth int) {
	c.reorgDepth.Observe(float64(depth))
}

// ChainHeadChanged records the new chain head.
func (c *Chain) ChainHeadChanged(height uint64, windowSize int) {
	c.tipHeight.Set(float64(height))
	c.windowSize.Set(float64(windowSize))
}
