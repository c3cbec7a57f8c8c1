package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	TicketsSoldTotal           = "tickets_sold_total"
	RaffleDrawsTotal           = "raffle_draws_total"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{}

	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "status_code"}),
		TicketsSoldTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: TicketsSoldTotal,
			Help: "Count of raffle tickets sold",
		}, []string{"raffle_id"}),
		RaffleDrawsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RaffleDrawsTotal,
			Help: "Count of raffle draws executed",
		}, []string{"outcome_type"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "status_code"}),
	}
)
