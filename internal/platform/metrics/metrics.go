// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus collectors for the HTTP surface and the
catalog consistency machinery.

Collectors are registered against an explicit [prometheus.Registerer] so tests
can use an isolated registry instead of the process-wide default.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mangaverse"

// Metrics groups every collector the services update.
type Metrics struct {
	registry prometheus.Gatherer

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	recomputes   *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
}

// New creates and registers the collectors.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		recomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregate_recomputes_total",
			Help:      "Derived-field recomputations by aggregate kind and outcome.",
		}, []string{"kind", "result"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Catalog cache lookups by outcome.",
		}, []string{"result"}),
	}

	registry.MustRegister(m.httpRequests, m.httpDuration, m.recomputes, m.cacheLookups)
	return m
}

// NewNop returns collectors bound to a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRecompute counts one aggregate re-derivation.
func (m *Metrics) RecordRecompute(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.recomputes.WithLabelValues(kind, result).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// # HTTP Instrumentation

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.status = code
	writer.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency labelled by chi route pattern,
// which keeps label cardinality bounded regardless of path parameters.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		startTime := time.Now()
		recorder := &statusWriter{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		m.httpRequests.WithLabelValues(route, request.Method, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route, request.Method).Observe(time.Since(startTime).Seconds())
	})
}
