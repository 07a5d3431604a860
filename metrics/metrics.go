package metrics

import (
	"errors"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bracket_engine"

// Engine collects counters for bracket operations.
type Engine struct {
	BracketsBuilt    *prometheus.CounterVec
	MatchesCompleted *prometheus.CounterVec
	Transitions      *prometheus.CounterVec
	Renames          prometheus.Counter
	OperationErrors  *prometheus.CounterVec
}

// NewEngine creates the collectors and registers them with reg.
func NewEngine(reg prometheus.Registerer) (*Engine, error) {
	m := &Engine{
		BracketsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "brackets_built_total",
			Help:      "Brackets built, by format.",
		}, []string{"format"}),
		MatchesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_completed_total",
			Help:      "Matches completed, by bracket segment.",
		}, []string{"segment"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_transitions_total",
			Help:      "Accepted match status transitions, by target status.",
		}, []string{"status"}),
		Renames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "participant_renames_total",
			Help:      "Participant names bound.",
		}),
		OperationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Rejected engine operations, by operation and error kind.",
		}, []string{"operation", "kind"}),
	}

	for _, c := range []prometheus.Collector{m.BracketsBuilt, m.MatchesCompleted, m.Transitions, m.Renames, m.OperationErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Engine) BracketBuilt(format models.Format) {
	if m == nil {
		return
	}
	m.BracketsBuilt.WithLabelValues(string(format)).Inc()
}

func (m *Engine) MatchCompleted(segment models.BracketSegment) {
	if m == nil {
		return
	}
	m.MatchesCompleted.WithLabelValues(string(segment)).Inc()
}

func (m *Engine) MatchTransitioned(status models.MatchStatus) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(string(status)).Inc()
}

func (m *Engine) ParticipantRenamed() {
	if m == nil {
		return
	}
	m.Renames.Inc()
}

// OperationFailed counts a rejected operation under the engine error kind it wraps.
func (m *Engine) OperationFailed(operation string, err error) {
	if m == nil || err == nil {
		return
	}
	m.OperationErrors.WithLabelValues(operation, ErrorKind(err)).Inc()
}

// ErrorKind classifies err by the engine sentinel it wraps.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, brackets.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, brackets.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, brackets.ErrConflict):
		return "conflict"
	case errors.Is(err, brackets.ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
