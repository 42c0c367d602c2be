package metrics

import "github.com/prometheus/client_golang/prometheus"

// LedgerMetrics counts outcomes of stock move validations.
type LedgerMetrics struct {
	validated *prometheus.CounterVec
	rejected  *prometheus.CounterVec
}

// NewLedgerMetrics registers validation counters on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	validated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_moves_validated_total",
		Help: "Stock moves validated successfully, labeled by move type.",
	}, []string{"type"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_moves_rejected_total",
		Help: "Stock move validations rejected, labeled by reason.",
	}, []string{"reason"})
	reg.MustRegister(validated, rejected)
	return &LedgerMetrics{
		validated: validated,
		rejected:  rejected,
	}
}

// IncValidated increments the validation counter for the move type.
func (l *LedgerMetrics) IncValidated(moveType string) {
	if l == nil || l.validated == nil {
		return
	}
	l.validated.WithLabelValues(normalizeLabel(moveType)).Inc()
}

// IncRejected increments the rejection counter for the named reason.
func (l *LedgerMetrics) IncRejected(reason string) {
	if l == nil || l.rejected == nil {
		return
	}
	l.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}
