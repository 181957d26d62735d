package diagnostics

import "context"

// Collector samples one runtime reading of the monitor process or the host
// it runs on.
type Collector interface {
	Name() string                            // Reading name (e.g., "cpu", "memory")
	Collect(ctx context.Context) interface{} // Sample the reading
	Unit() string                            // Unit of the reading (e.g., "percentage")
	Description() string                     // Description of the reading
}

// Registry holds the collectors the diagnostics service runs each sample.
type Registry struct {
	collectors map[string]Collector
}

// NewRegistry creates an empty Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]Collector),
	}
}

// Register adds a collector, replacing any previous one with the same name.
func (r *Registry) Register(collector Collector) {
	r.collectors[collector.Name()] = collector
}

// Collectors returns all registered collectors keyed by name.
func (r *Registry) Collectors() map[string]Collector {
	return r.collectors
}
