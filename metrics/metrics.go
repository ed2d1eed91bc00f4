// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics is the facade every package reports through.
// Meters are no-ops until InitializePrometheusMetrics is called, so packages declare
// their meters with the LazyLoad helpers and resolve them on first use.
package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
)

// Bucket10s are histogram buckets for durations in milliseconds up to 10s.
var Bucket10s = []int64{0, 500, 1000, 2000, 3000, 4000, 5000, 7500, 10_000}

// CountMeter only goes up.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter is a CountMeter partitioned by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter goes up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

// GaugeVecMeter is a GaugeMeter partitioned by labels.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

// HistogramMeter samples observations into buckets.
type HistogramMeter interface {
	Observe(int64)
}

type kind int

const (
	kindCounter kind = iota
	kindCounterVec
	kindGauge
	kindGaugeVec
	kindHistogram
)

type desc struct {
	kind    kind
	name    string
	labels  []string
	buckets []int64
}

// provider builds meters. Implementations return a value satisfying the meter interface of desc.kind.
type provider interface {
	meter(s desc) any
	handler() http.Handler
}

var current atomic.Pointer[providerBox]

type providerBox struct{ provider }

func init() {
	current.Store(&providerBox{noop{}})
}

func get[T any](s desc) T {
	return current.Load().meter(s).(T)
}

// HTTPHandler serves the collected metrics. Nil when metrics are disabled.
func HTTPHandler() http.Handler {
	return current.Load().handler()
}

func Counter(name string) CountMeter {
	return get[CountMeter](desc{kind: kindCounter, name: name})
}

func CounterVec(name string, labels []string) CountVecMeter {
	return get[CountVecMeter](desc{kind: kindCounterVec, name: name, labels: labels})
}

func Gauge(name string) GaugeMeter {
	return get[GaugeMeter](desc{kind: kindGauge, name: name})
}

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return get[GaugeVecMeter](desc{kind: kindGaugeVec, name: name, labels: labels})
}

func Histogram(name string, buckets []int64) HistogramMeter {
	return get[HistogramMeter](desc{kind: kindHistogram, name: name, buckets: buckets})
}

// LazyLoad defers f to the first call of the returned func and caches the result.
func LazyLoad[T any](f func() T) func() T {
	return sync.OnceValue(f)
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return LazyLoad(func() GaugeMeter { return Gauge(name) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return LazyLoad(func() GaugeVecMeter { return GaugeVec(name, labels) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return LazyLoad(func() HistogramMeter { return Histogram(name, buckets) })
}

type noop struct{}

func (noop) meter(desc) any        { return noop{} }
func (noop) handler() http.Handler { return nil }

func (noop) Add(int64)                             {}
func (noop) Set(int64)                             {}
func (noop) Observe(int64)                         {}
func (noop) AddWithLabel(int64, map[string]string) {}
func (noop) SetWithLabel(int64, map[string]string) {}
