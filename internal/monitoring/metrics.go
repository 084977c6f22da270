package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TicketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Tickets issued per event",
		},
		[]string{"event_id"},
	)

	PurchaseRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_purchase_rejections_total",
			Help: "Rejected purchase attempts by reason",
		},
		[]string{"reason"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "User notifications created by type",
		},
		[]string{"type"},
	)

	PurchaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_purchase_duration_seconds",
			Help:    "End to end duration of the purchase transaction",
			Buckets: prometheus.DefBuckets,
		},
	)
)
