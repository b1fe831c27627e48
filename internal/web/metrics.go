package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	extractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reembolso_extractions_total",
		Help: "Receipt extraction attempts by outcome.",
	}, []string{"status"})

	reportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reembolso_reports_total",
		Help: "Report generation attempts by outcome.",
	}, []string{"status"})
)
