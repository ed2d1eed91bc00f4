// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "meter_metrics"

// InitializePrometheusMetrics switches the facade to prometheus, registering on the default registry.
// Calling it again keeps the meters already created.
func InitializePrometheusMetrics() {
	for {
		box := current.Load()
		if _, ok := box.provider.(*promProvider); ok {
			return
		}
		if current.CompareAndSwap(box, &providerBox{&promProvider{}}) {
			return
		}
	}
}

type promProvider struct {
	meters sync.Map // name -> meter
}

func (p *promProvider) handler() http.Handler { return promhttp.Handler() }

func (p *promProvider) meter(s desc) any {
	if m, ok := p.meters.Load(s.name); ok {
		return m
	}
	m, loaded := p.meters.LoadOrStore(s.name, p.build(s))
	if !loaded {
		if err := prometheus.Register(m.(prometheus.Collector)); err != nil {
			log.Warn("unable to register metric", "name", s.name, "err", err)
		}
	}
	return m
}

func (p *promProvider) build(s desc) any {
	switch s.kind {
	case kindCounter:
		return &promCounter{prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: s.name})}
	case kindCounterVec:
		return &promCounterVec{prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: s.name}, s.labels)}
	case kindGauge:
		return &promGauge{prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: s.name})}
	case kindGaugeVec:
		return &promGaugeVec{prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: s.name}, s.labels)}
	case kindHistogram:
		buckets := make([]float64, len(s.buckets))
		for i, b := range s.buckets {
			buckets[i] = float64(b)
		}
		return &promHistogram{prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: s.name, Buckets: buckets})}
	}
	panic("unknown meter kind")
}

type promCounter struct{ prometheus.Counter }

func (c promCounter) Add(v int64) { c.Counter.Add(float64(v)) }

type promCounterVec struct{ *prometheus.CounterVec }

func (c promCounterVec) AddWithLabel(v int64, labels map[string]string) {
	c.With(labels).Add(float64(v))
}

type promGauge struct{ prometheus.Gauge }

func (g promGauge) Add(v int64) { g.Gauge.Add(float64(v)) }
func (g promGauge) Set(v int64) { g.Gauge.Set(float64(v)) }

type promGaugeVec struct{ *prometheus.GaugeVec }

func (g promGaugeVec) AddWithLabel(v int64, labels map[string]string) {
	g.With(labels).Add(float64(v))
}

func (g promGaugeVec) SetWithLabel(v int64, labels map[string]string) {
	g.With(labels).Set(float64(v))
}

type promHistogram struct{ prometheus.Histogram }

func (h promHistogram) Observe(v int64) { h.Histogram.Observe(float64(v)) }
