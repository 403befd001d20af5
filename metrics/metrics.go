// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	StoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catatin",
		Name:      "store_operations_total",
		Help:      "Store mutations by entity, operation and outcome.",
	}, []string{"entity", "op", "outcome"})

	Transcriptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catatin",
		Name:      "transcriptions_total",
		Help:      "Transcription attempts by engine and outcome.",
	}, []string{"engine", "outcome"})

	ValidationRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catatin",
		Name:      "audio_validation_rejections_total",
		Help:      "Audio files refused before transcription, by reason.",
	}, []string{"reason"})
)

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// ObserveStore counts one finished store mutation.
func ObserveStore(entity, op string, err error) {
	StoreOperations.WithLabelValues(entity, op, outcome(err)).Inc()
}

// ObserveTranscription counts one finished transcription.
func ObserveTranscription(engine string, err error) {
	Transcriptions.WithLabelValues(engine, outcome(err)).Inc()
}
