package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Instruments exposes application-level prometheus instruments.
type Instruments struct {
	jobRuns               *prometheus.CounterVec
	jobErrors             *prometheus.CounterVec
	jobDuration           *prometheus.HistogramVec
	settlementsCalculated *prometheus.CounterVec
	claimsLinked          prometheus.Counter
	importRows            *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Instruments {
	factory := promauto.With(reg)
	return &Instruments{
		jobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "driverpay_scheduler_job_runs_total",
			Help: "Number of scheduler job executions.",
		}, []string{"job"}),
		jobErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "driverpay_scheduler_job_errors_total",
			Help: "Number of scheduler job executions that returned an error.",
		}, []string{"job"}),
		jobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "driverpay_scheduler_job_duration_seconds",
			Help:    "Scheduler job duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
		settlementsCalculated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "driverpay_settlements_calculated_total",
			Help: "Settlements calculated, labelled by outcome.",
		}, []string{"outcome"}),
		claimsLinked: factory.NewCounter(prometheus.CounterOpts{
			Name: "driverpay_claims_linked_total",
			Help: "Approved claims consumed by a settlement.",
		}),
		importRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "driverpay_daily_run_import_rows_total",
			Help: "Daily run CSV import rows, labelled by result.",
		}, []string{"result"}),
	}
}

func Default() *Instruments {
	return New(prometheus.DefaultRegisterer)
}

func (m *Instruments) IncJobRun(job string)   { m.jobRuns.WithLabelValues(job).Inc() }
func (m *Instruments) IncJobError(job string) { m.jobErrors.WithLabelValues(job).Inc() }

func (m *Instruments) ObserveJobDuration(job string, d time.Duration) {
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *Instruments) IncSettlementCalculated(outcome string) {
	m.settlementsCalculated.WithLabelValues(outcome).Inc()
}

func (m *Instruments) AddClaimsLinked(n int) {
	m.claimsLinked.Add(float64(n))
}

func (m *Instruments) AddImportRows(result string, n int) {
	m.importRows.WithLabelValues(result).Add(float64(n))
}
