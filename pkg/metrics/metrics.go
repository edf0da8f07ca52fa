package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TicketPurchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_purchases_total",
			Help: "Successful ticket purchases, partitioned by insurance flag",
		},
		[]string{"insured"},
	)

	TicketRefunds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_refunds_total",
			Help: "Successful refunds, partitioned by kind (cancellation|insurance)",
		},
		[]string{"kind"},
	)

	OperationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operation_rejections_total",
			Help: "Ledger operations rejected by a precondition, partitioned by operation and reason",
		},
		[]string{"operation", "reason"},
	)

	InsurancePoolBalance = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "insurance_pool_balance",
			Help: "Current insurance pool aggregate in base units",
		},
	)

	ArchiveLag = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "archive_queue_depth",
			Help: "Journal entries waiting to be archived",
		},
	)
)
