package threadpool

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are labeled by pool variant ("naive", "queued", "rayon") so one
// scrape covers whichever pool the server was configured with, all
// registered once, on the first Observe call.
var (
	registerOnce sync.Once

	jobsSpawned   *prometheus.CounterVec
	jobsCompleted *prometheus.CounterVec
	jobsPanicked  *prometheus.CounterVec
)

func registerMetrics() {
	registerOnce.Do(func() {
		jobsSpawned = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kvs_threadpool_jobs_spawned_total",
			Help: "Jobs that started running on the thread pool, by variant.",
		}, []string{"pool"})
		jobsCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kvs_threadpool_jobs_completed_total",
			Help: "Jobs that returned without panicking, by variant.",
		}, []string{"pool"})
		jobsPanicked = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kvs_threadpool_jobs_panicked_total",
			Help: "Jobs that panicked during execution, by variant.",
		}, []string{"pool"})
		prometheus.MustRegister(jobsSpawned, jobsCompleted, jobsPanicked)
	})
}

// ObserveSpawn records that a job started running under the named pool
// variant.
func ObserveSpawn(pool string) {
	registerMetrics()
	jobsSpawned.WithLabelValues(pool).Inc()
}

// ObserveComplete records that a job returned normally.
func ObserveComplete(pool string) {
	registerMetrics()
	jobsCompleted.WithLabelValues(pool).Inc()
}

// ObservePanic records that a job panicked.
func ObservePanic(pool string) {
	registerMetrics()
	jobsPanicked.WithLabelValues(pool).Inc()
}
