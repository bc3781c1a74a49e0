package ws

import "github.com/prometheus/client_golang/prometheus"

var (
	WSConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "clawnopoly_ws_connections",
		Help: "Open websocket connections",
	})
	WSMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clawnopoly_ws_messages_total",
			Help: "Websocket messages received by type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(WSConnections)
	prometheus.MustRegister(WSMessages)
}
