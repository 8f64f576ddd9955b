package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is a Recorder backed by Prometheus metrics.
type Collector struct {
	RouteStrategies *prometheus.CounterVec
	RouteDefects    prometheus.Counter
	CostEvaluations prometheus.Counter
	OptimizerMoves  *prometheus.CounterVec
	Passes          prometheus.Histogram
}

var _ Recorder = (*Collector)(nil)

// NewCollector registers the engine metrics against reg, defaulting to the
// global registry when reg is nil. Registering twice against the same registry
// reuses the existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	strategies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pedalboard_route_strategy_total",
		Help: "Cable paths produced, labeled by the routing strategy that succeeded.",
	}, []string{"strategy"})
	if err := register(reg, strategies); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		strategies = are.ExistingCollector.(*prometheus.CounterVec)
	}

	moves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pedalboard_optimizer_moves_total",
		Help: "Accepted layout optimizer moves, labeled by move kind.",
	}, []string{"move"})
	if err := register(reg, moves); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		moves = are.ExistingCollector.(*prometheus.CounterVec)
	}

	defects, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pedalboard_route_defects_total",
		Help: "Cable paths that fell back to the emergency route or failed validation.",
	}))
	if err != nil {
		return nil, err
	}
	evaluations, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pedalboard_cost_evaluations_total",
		Help: "Evaluations of the layout cost function.",
	}))
	if err != nil {
		return nil, err
	}

	passes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pedalboard_optimizer_passes",
		Help:    "Local search passes run per optimization.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 30},
	})
	if err := register(reg, passes); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		passes = are.ExistingCollector.(prometheus.Histogram)
	}

	return &Collector{
		RouteStrategies: strategies,
		RouteDefects:    defects,
		CostEvaluations: evaluations,
		OptimizerMoves:  moves,
		Passes:          passes,
	}, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return err
		}
		return fmt.Errorf("register metric: %w", err)
	}
	return nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := register(reg, c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(prometheus.Counter), nil
		}
		return nil, err
	}
	return c, nil
}

func (c *Collector) RouteStrategy(strategy string) {
	if c == nil {
		return
	}
	c.RouteStrategies.WithLabelValues(strategy).Inc()
}

func (c *Collector) RouteDefect() {
	if c == nil {
		return
	}
	c.RouteDefects.Inc()
}

func (c *Collector) CostEvaluation() {
	if c == nil {
		return
	}
	c.CostEvaluations.Inc()
}

func (c *Collector) OptimizerMove(kind string) {
	if c == nil {
		return
	}
	c.OptimizerMoves.WithLabelValues(kind).Inc()
}

func (c *Collector) OptimizerPasses(n int) {
	if c == nil {
		return
	}
	c.Passes.Observe(float64(n))
}
