package fetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalFetches tracks the number of object fetch attempts dispatched.
	TotalFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webrank_fetches_total",
		Help: "The total number of object fetch attempts.",
	})
	// TotalFetchErrors tracks the number of fetch attempts that failed.
	TotalFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webrank_fetch_errors_total",
		Help: "The total number of failed object fetch attempts.",
	})
	// TotalRetries tracks the number of fetches that were retried.
	TotalRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webrank_fetch_retries_total",
		Help: "The total number of fetch retries.",
	})
	// TotalDegraded tracks pages that exhausted retries and were recorded
	// with zero outgoing links.
	TotalDegraded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webrank_pages_degraded_total",
		Help: "The total number of pages degraded to dangling after retry exhaustion.",
	})
	// TotalPages tracks pages that produced a parsed result.
	TotalPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "webrank_pages_total",
		Help: "The total number of pages processed by the fetch pool.",
	})
)
