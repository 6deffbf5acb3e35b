package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	OrdersProcessed *prometheus.CounterVec
	SalesCreated    prometheus.Counter
	SalesPending    prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		OrdersProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slotline",
			Name:      "orders_processed_total",
			Help:      "Order processing attempts by outcome.",
		}, []string{"outcome"}),
		SalesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slotline",
			Name:      "sales_created_total",
			Help:      "Sales rows written by checkouts.",
		}),
		SalesPending: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "slotline",
			Name:      "sales_pending_total",
			Help:      "Sales left pending for manual fulfillment.",
		}),
	}
	prometheus.MustRegister(m.OrdersProcessed, m.SalesCreated, m.SalesPending)
	return m
}
