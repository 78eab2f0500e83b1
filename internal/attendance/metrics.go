package attendance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// writeOutcomes counts ledger write results: created, updated, duplicate
// and error. Exposed on /metrics.
var writeOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sundayschool",
	Name:      "attendance_writes_total",
	Help:      "Attendance ledger write outcomes.",
}, []string{"result"})
