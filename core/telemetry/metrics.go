package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Passes counts reconciliation passes by outcome (unchanged, changed, skipped).
	Passes *prometheus.CounterVec

	// RemoteCalls counts chat-platform calls by operation and result.
	RemoteCalls *prometheus.CounterVec

	// RosterFetchFailures counts roster reads that failed and were treated as empty.
	RosterFetchFailures prometheus.Counter

	// PassDuration observes the wall time of passes that found a change.
	PassDuration prometheus.Observer

	// RosterSize is the number of online users seen by the last pass.
	RosterSize prometheus.Gauge

	// OwnedChannels is the number of channels in the index.
	OwnedChannels prometheus.Gauge
)

// Init registers metrics with the default registry. It is idempotent.
func Init() {
	once.Do(func() {
		Passes = promauto.NewCounterVec(prometheus.CounterOpts{Name: "presence_passes_total", Help: "Reconciliation passes by outcome"}, []string{"outcome"})
		RemoteCalls = promauto.NewCounterVec(prometheus.CounterOpts{Name: "presence_remote_calls_total", Help: "Chat platform calls by operation and result"}, []string{"op", "result"})
		RosterFetchFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "presence_roster_fetch_failures_total", Help: "Roster fetches that failed"})
		PassDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "presence_pass_duration_seconds", Help: "Duration of passes that applied a change", Buckets: prometheus.DefBuckets})
		RosterSize = promauto.NewGauge(prometheus.GaugeOpts{Name: "presence_roster_size", Help: "Online users seen by the last pass"})
		OwnedChannels = promauto.NewGauge(prometheus.GaugeOpts{Name: "presence_owned_channels", Help: "Channels currently owned by the engine"})
	})
}

// ObservePass records one pass outcome. Duration is only observed for changed passes.
func ObservePass(outcome string, d time.Duration) {
	if Passes == nil {
		return
	}
	Passes.WithLabelValues(outcome).Inc()
	if outcome == "changed" && PassDuration != nil {
		PassDuration.Observe(d.Seconds())
	}
}

// ObserveRemoteCall counts one remote call.
func ObserveRemoteCall(op string, err error) {
	if RemoteCalls == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	RemoteCalls.WithLabelValues(op, result).Inc()
}

// ObserveRosterFailure counts one failed roster fetch.
func ObserveRosterFailure() {
	if RosterFetchFailures != nil {
		RosterFetchFailures.Inc()
	}
}

// SetRosterSize records the roster size.
func SetRosterSize(n int) {
	if RosterSize != nil {
		RosterSize.Set(float64(n))
	}
}

// SetOwnedChannels records the index size.
func SetOwnedChannels(n int) {
	if OwnedChannels != nil {
		OwnedChannels.Set(float64(n))
	}
}
