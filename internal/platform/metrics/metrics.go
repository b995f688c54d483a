// Copyright (c) 2026 Tsundoku. All rights reserved.
// Author: haru.tokiwa.dev@gmail.com

// Package metrics provides Prometheus metric collection and exposition.
//
// The collector is injected into the HTTP layer and the domain services;
// the /metrics endpoint is mounted by the API server for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers application-level Prometheus metrics.
type Collector struct {
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	logins         prometheus.Counter
	booksCreated   prometheus.Counter
	foldersCreated prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with the registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tsundoku_http_status_total",
			Help: "Responses by HTTP status code",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tsundoku_request_latency_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tsundoku_logins_total",
			Help: "Successful login count",
		}),
		booksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tsundoku_books_created_total",
			Help: "Books added to the library",
		}),
		foldersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tsundoku_folders_created_total",
			Help: "Folders created",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.logins,
		c.booksCreated,
		c.foldersCreated,
	)

	return c
}

// RecordHTTPStatus counts a response by status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency observes one request's wall time.
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordLogin counts a successful authentication.
func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

// RecordBookCreated counts a book insertion.
func (c *Collector) RecordBookCreated() {
	c.booksCreated.Inc()
}

// RecordFolderCreated counts a folder insertion.
func (c *Collector) RecordFolderCreated() {
	c.foldersCreated.Inc()
}

// Instrument is an HTTP middleware recording status and latency for every request.
func (c *Collector) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		c.RecordHTTPStatus(recorder.status)
		c.RecordRequestLatency(time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
