package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	GamesActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clawnopoly_games_active",
			Help: "Games currently held in memory",
		},
	)
	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clawnopoly_actions_total",
			Help: "Player actions by outcome",
		},
		[]string{"action", "result"},
	)
	ChaosEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clawnopoly_chaos_events_total",
			Help: "Chaos events resolved",
		},
		[]string{"event"},
	)
	PersistenceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clawnopoly_persistence_failures_total",
			Help: "Failed or dropped persistence jobs",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(GamesActive)
	prometheus.MustRegister(ActionsTotal)
	prometheus.MustRegister(ChaosEventsTotal)
	prometheus.MustRegister(PersistenceFailures)
}
