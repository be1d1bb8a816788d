package metrics

// Metrics is what the services report to. The Prometheus Service and the Mock implement it.
type Metrics interface {
	IncBracketsGenerated(format string)
	ObserveGenerationDuration(seconds float64)
	IncMatchTransitions(status string)
	AddSlotsAdvanced(n int)
}
