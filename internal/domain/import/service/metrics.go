package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pocketledger_imports_total",
		Help: "Statement imports by final status.",
	}, []string{"status"})

	importRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pocketledger_import_rows_total",
		Help: "Parsed statement rows by outcome.",
	}, []string{"outcome"})

	importDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pocketledger_import_commit_seconds",
		Help:    "Wall time of import commits.",
		Buckets: prometheus.DefBuckets,
	})
)
