// Package metrics exposes engine activity counters. Engine packages depend only
// on the Recorder interface; the Prometheus-backed Collector is wired in by the
// host.
package metrics

// Recorder receives engine events.
type Recorder interface {
	// RouteStrategy records which ladder strategy produced a cable path.
	RouteStrategy(strategy string)
	// RouteDefect records a cable whose final path failed validation or used
	// the emergency fallback.
	RouteDefect()
	// CostEvaluation records one evaluation of the layout cost function.
	CostEvaluation()
	// OptimizerMove records an accepted optimizer move of the given kind.
	OptimizerMove(kind string)
	// OptimizerPasses records the number of passes a local search ran.
	OptimizerPasses(n int)
}

// Noop returns a recorder that drops every event.
func Noop() Recorder { return noopRecorder{} }

type noopRecorder struct{}

func (noopRecorder) RouteStrategy(string) {}
func (noopRecorder) RouteDefect()         {}
func (noopRecorder) CostEvaluation()      {}
func (noopRecorder) OptimizerMove(string) {}
func (noopRecorder) OptimizerPasses(int)  {}

// OrNoop returns r, or a no-op recorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return Noop()
	}
	return r
}
