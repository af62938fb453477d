// Package metrics exposes Prometheus counters for watch mode.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scrubexif/internal/model"
)

type sweepMetrics struct {
	once sync.Once

	sweeps            prometheus.Counter
	filesTotal        prometheus.Counter
	scrubbed          prometheus.Counter
	skipped           prometheus.Counter
	errors            prometheus.Counter
	duplicatesDeleted prometheus.Counter
	duplicatesMoved   prometheus.Counter

	sweepDuration prometheus.Histogram
}

var m sweepMetrics

func (s *sweepMetrics) init() {
	s.once.Do(func() {
		counter := func(name, help string) prometheus.Counter {
			c := prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "scrubexif",
				Name:      name,
				Help:      help,
			})
			prometheus.MustRegister(c)
			return c
		}

		s.sweeps = counter("sweeps_total", "Completed directory sweeps.")
		s.filesTotal = counter("files_total", "JPEG candidates considered.")
		s.scrubbed = counter("files_scrubbed_total", "Files successfully scrubbed.")
		s.skipped = counter("files_skipped_total", "Files skipped as temp or unstable.")
		s.errors = counter("files_errored_total", "Files the metadata tool failed on.")
		s.duplicatesDeleted = counter("duplicates_deleted_total", "Duplicate inputs deleted.")
		s.duplicatesMoved = counter("duplicates_moved_total", "Duplicate inputs quarantined.")

		s.sweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scrubexif",
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of one full sweep.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		})
		prometheus.MustRegister(s.sweepDuration)
	})
}

// ObserveSweep folds one run summary into the counters.
func ObserveSweep(s *model.Summary) {
	m.init()
	m.sweeps.Inc()
	m.filesTotal.Add(float64(s.Total))
	m.scrubbed.Add(float64(s.Scrubbed))
	m.skipped.Add(float64(s.Skipped))
	m.errors.Add(float64(s.Errors))
	m.duplicatesDeleted.Add(float64(s.DuplicatesDeleted))
	m.duplicatesMoved.Add(float64(s.DuplicatesMoved))
	m.sweepDuration.Observe(s.Duration().Seconds())
}

// Handler serves the Prometheus text exposition endpoint.
func Handler() http.Handler {
	m.init()
	return promhttp.Handler()
}
