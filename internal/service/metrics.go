package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	versionsAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tenders",
		Name:      "versions_appended_total",
		Help:      "The total number of entity versions written",
	}, []string{"entity"})

	accessDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tenders",
		Name:      "access_denied_total",
		Help:      "The total number of requests rejected by access checks",
	}, []string{"entity", "mode"})

	bidDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tenders",
		Name:      "bid_decisions_total",
		Help:      "The total number of recorded bid decisions",
	}, []string{"decision"})
)
