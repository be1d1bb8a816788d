package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service holds the Prometheus collectors of the bracket engine.
type Service struct {
	BracketsGenerated  *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	MatchTransitions   *prometheus.CounterVec
	SlotsAdvanced      prometheus.Counter
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the collectors.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		BracketsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bracket_generated_total",
			Help: "The total number of brackets generated, by format.",
		}, []string{"format"}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bracket_generation_duration_seconds",
			Help:    "The duration of building and persisting one bracket.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		MatchTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bracket_match_transitions_total",
			Help: "The total number of match status changes, by target status.",
		}, []string{"status"}),
		SlotsAdvanced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bracket_slots_advanced_total",
			Help: "The total number of downstream slots filled by progression.",
		}),
	}

	reg.MustRegister(
		s.BracketsGenerated,
		s.GenerationDuration,
		s.MatchTransitions,
		s.SlotsAdvanced,
	)

	return s
}

func (s *Service) IncBracketsGenerated(format string) {
	s.BracketsGenerated.WithLabelValues(format).Inc()
}

func (s *Service) ObserveGenerationDuration(seconds float64) {
	s.GenerationDuration.Observe(seconds)
}

func (s *Service) IncMatchTransitions(status string) {
	s.MatchTransitions.WithLabelValues(status).Inc()
}

func (s *Service) AddSlotsAdvanced(n int) {
	s.SlotsAdvanced.Add(float64(n))
}
