package domain

import "time"

// Metrics records tool dispatch and remote request observations.
type Metrics interface {
	ObserveToolCall(tool string, outcome string, duration time.Duration)
	ObserveRemoteRequest(endpoint string, status string, duration time.Duration)
}

// NoopMetrics discards all observations.
type NoopMetrics struct{}

func (NoopMetrics) ObserveToolCall(string, string, time.Duration)      {}
func (NoopMetrics) ObserveRemoteRequest(string, string, time.Duration) {}
