package searcher

import (
	"time"
)

type SearchMetrics struct {
	StartTime      time.Time
	Duration       time.Duration
	Iterations     int
	FullPlayouts   int
	CutoffPlayouts int
	TreeSize       int
}

type MetricsCollector interface {
	Start()
	AddIteration()
	AddFullPlayout()
	AddCutoffPlayout()
	Complete() SearchMetrics
}

// metricsCollector is not safe for concurrent use; a search runs on one goroutine.
type metricsCollector struct {
	startTime      time.Time
	iterations     int
	fullPlayouts   int
	cutoffPlayouts int
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

// Start resets the counters so a collector can be shared by consecutive searches.
func (m *metricsCollector) Start() {
	*m = metricsCollector{startTime: time.Now()}
}

func (m *metricsCollector) AddIteration() {
	m.iterations++
}

func (m *metricsCollector) AddFullPlayout() {
	m.fullPlayouts++
}

func (m *metricsCollector) AddCutoffPlayout() {
	m.cutoffPlayouts++
}

func (m *metricsCollector) Complete() SearchMetrics {
	return SearchMetrics{
		StartTime:      m.startTime,
		Duration:       time.Since(m.startTime),
		Iterations:     m.iterations,
		FullPlayouts:   m.fullPlayouts,
		CutoffPlayouts: m.cutoffPlayouts,
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start()                  {}
func (m *noMetricsCollector) AddIteration()           {}
func (m *noMetricsCollector) AddFullPlayout()         {}
func (m *noMetricsCollector) AddCutoffPlayout()       {}
func (m *noMetricsCollector) Complete() SearchMetrics { return SearchMetrics{} }
