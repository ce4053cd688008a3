package provisioning

import (
	metrics "github.com/rcrowley/go-metrics"
)

// Counter names kept in the run registry
const (
	MetricRecords     = "records"
	MetricAppsCreated = "apps.created"
	MetricAppsUpdated = "apps.updated"
	MetricAssignments = "assignments"
	MetricFailures    = "failures"
)

var runCounters = []string{MetricRecords, MetricAppsCreated, MetricAppsUpdated, MetricAssignments, MetricFailures}

type runMetrics struct {
	registry metrics.Registry
}

func newRunMetrics(registry metrics.Registry) *runMetrics {
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	m := &runMetrics{registry: registry}
	for _, name := range runCounters {
		m.getOrRegisterCounter(name)
	}
	return m
}

func (m *runMetrics) getOrRegisterCounter(name string) metrics.Counter {
	counter := m.registry.Get(name)
	if counter == nil {
		counter = metrics.NewCounter()
		m.registry.Register(name, counter)
	}
	return counter.(metrics.Counter)
}

func (m *runMetrics) inc(name string) {
	m.getOrRegisterCounter(name).Inc(1)
}

// fields - counter values for logging
func (m *runMetrics) fields() map[string]interface{} {
	fields := make(map[string]interface{}, len(runCounters))
	for _, name := range runCounters {
		fields[name] = m.getOrRegisterCounter(name).Count()
	}
	return fields
}
