package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock records calls in memory. It is safe for concurrent use.
type Mock struct {
	mu          sync.Mutex
	generated   map[string]int
	durations   []float64
	transitions map[string]int
	advanced    int
}

func NewMock() *Mock {
	return &Mock{
		generated:   make(map[string]int),
		durations:   make([]float64, 0),
		transitions: make(map[string]int),
	}
}

func (m *Mock) IncBracketsGenerated(format string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generated[format]++
}

func (m *Mock) ObserveGenerationDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations = append(m.durations, seconds)
}

func (m *Mock) IncMatchTransitions(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[status]++
}

func (m *Mock) AddSlotsAdvanced(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advanced += n
}

func (m *Mock) BracketsGenerated(format string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generated[format]
}

func (m *Mock) GenerationDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.durations...)
}

func (m *Mock) MatchTransitions(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitions[status]
}

func (m *Mock) SlotsAdvanced() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.advanced
}
