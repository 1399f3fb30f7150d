package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "happycity_matches_active",
		Help: "Number of matches currently registered",
	})

	gamesStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "happycity_games_started_total",
		Help: "Total games that reached the running state",
	})

	gamesOverTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "happycity_games_over_total",
		Help: "Total game-over events, labelled by final level",
	}, []string{"level"})

	instructionsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "happycity_instructions_completed_total",
		Help: "Total instructions completed across all matches",
	})

	instructionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "happycity_instructions_expired_total",
		Help: "Total instructions that expired unanswered",
	})
)

// Recorder feeds gameplay and registry events into prometheus. It satisfies
// both the match-level and lobby-level metrics contracts.
type Recorder struct{}

// NewRecorder returns the process-wide metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (*Recorder) GameStarted() {
	gamesStartedTotal.Inc()
}

func (*Recorder) GameOver(level int) {
	gamesOverTotal.WithLabelValues(levelLabel(level)).Inc()
}

func (*Recorder) InstructionCompleted() {
	instructionsCompletedTotal.Inc()
}

func (*Recorder) InstructionExpired() {
	instructionsExpiredTotal.Inc()
}

func (*Recorder) MatchCreated() {
	matchesActive.Inc()
}

func (*Recorder) MatchRemoved() {
	matchesActive.Dec()
}

func levelLabel(level int) string {
	switch {
	case level < 0:
		return "none"
	case level > 20:
		return "20+"
	}
	return levelNames[level]
}

// levelNames avoids a strconv on the hot path; levels are small.
var levelNames = []string{
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10",
	"11", "12", "13", "14", "15", "16", "17", "18", "19", "20",
}
