package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealsub_payments_recorded_total",
		Help: "Payments recorded, by method.",
	}, []string{"method"})

	PaymentStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealsub_payment_status_changes_total",
		Help: "Payment status transitions, by resulting status.",
	}, []string{"status"})

	InvoicesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealsub_invoices_issued_total",
		Help: "Invoices issued.",
	})

	DeliveryTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealsub_delivery_transitions_total",
		Help: "Delivery occurrence status transitions, by resulting status.",
	}, []string{"status"})

	LowStockDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mealsub_low_stock_detected_total",
		Help: "Times an ingredient dropped to or below its minimum stock.",
	})

	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mealsub_reports_generated_total",
		Help: "Report snapshots generated, by type.",
	}, []string{"type"})
)
