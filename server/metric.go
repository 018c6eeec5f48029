package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// unit is ms
	APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geoindex_api_latency",
		Help:    "api request latency",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"api"})

	APIRequestCnt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geoindex_api_request_cnt",
		Help: "api request counter",
	}, []string{"api", "code"})

	IndexQueryCells = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geoindex_query_cells",
		Help:    "number of cells touched by an index query",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"api"})
)
