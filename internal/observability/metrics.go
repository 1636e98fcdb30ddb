// ABOUTME: Prometheus collectors for streak computation and store changes.
// ABOUTME: Registered on the default registry; exposed by Handler on /metrics.
package observability

import (
	"errors"
	"net/http"
	"time"

	"github.com/harperreed/habits/internal/streak"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	streakComputations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "habits",
		Subsystem: "streak",
		Name:      "computations_total",
		Help:      "Number of per-habit streak computations.",
	})
	streakErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habits",
		Subsystem: "streak",
		Name:      "errors_total",
		Help:      "Per-habit streak computations that failed, by kind.",
	}, []string{"kind"})
	orphanedCompletions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "habits",
		Subsystem: "streak",
		Name:      "orphaned_completions_total",
		Help:      "Completions ignored because their habit was not in the snapshot.",
	})
	rankingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "habits",
		Subsystem: "streak",
		Name:      "ranking_duration_seconds",
		Help:      "Time spent loading a snapshot and ranking it.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	})
	storeChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habits",
		Subsystem: "store",
		Name:      "changes_total",
		Help:      "Committed writes by entity and operation.",
	}, []string{"entity", "op"})
)

func init() {
	prometheus.MustRegister(streakComputations, streakErrors, orphanedCompletions, rankingDuration, storeChanges)
}

// RecordRanking records one ranking pass over a snapshot.
func RecordRanking(entries []streak.Entry, orphans int, elapsed time.Duration) {
	streakComputations.Add(float64(len(entries)))
	for _, e := range entries {
		if e.Err != nil {
			streakErrors.WithLabelValues(errorKind(e.Err)).Inc()
		}
	}
	if orphans > 0 {
		orphanedCompletions.Add(float64(orphans))
	}
	rankingDuration.Observe(elapsed.Seconds())
}

// RecordStoreChange counts a committed write.
func RecordStoreChange(entity, op string) {
	storeChanges.WithLabelValues(entity, op).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, streak.ErrInvalidTimestamp):
		return "invalid_timestamp"
	case errors.Is(err, streak.ErrUnknownHabitReference):
		return "unknown_habit_reference"
	default:
		return "other"
	}
}
