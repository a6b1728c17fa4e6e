package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/swing/internal/dynamo"
	"github.com/san-kum/swing/internal/integrators"
	"github.com/san-kum/swing/internal/physics"
)

// Simulation owns the pendulum state. It is not safe for concurrent use;
// the loop driver calls Step from a single frame callback at a time.
type Simulation struct {
	dyn        *physics.DoublePendulum
	integrator *integrators.SemiImplicitEuler
	damping    integrators.Damping
	state      dynamo.State
	steps      int
	metrics    []Metric
	observers  []Observer
}

func New(p dynamo.Params) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Simulation{
		dyn:        physics.NewDoublePendulum(p),
		integrator: integrators.NewSemiImplicitEuler(),
		damping:    integrators.NewDamping(p.Damping),
		state:      dynamo.InitialState(),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}, nil
}

// WithState replaces the initial state. Only meaningful before the first Step.
func (s *Simulation) WithState(x dynamo.State) *Simulation {
	s.state = x
	return s
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) State() dynamo.State               { return s.state }
func (s *Simulation) Params() dynamo.Params             { return s.dyn.Params() }
func (s *Simulation) Steps() int                        { return s.steps }
func (s *Simulation) Energy() float64                   { return s.dyn.Energy(s.state) }
func (s *Simulation) Dynamics() *physics.DoublePendulum { return s.dyn }

// Step integrates one frame and then applies damping. The whole state is
// replaced at once.
func (s *Simulation) Step() dynamo.State {
	next := s.integrator.Step(s.dyn, s.state)
	next = s.damping.Apply(next)
	s.state = next
	s.steps++

	for _, m := range s.metrics {
		m.Observe(next, s.steps)
	}
	for _, obs := range s.observers {
		obs.OnStep(next, s.steps)
	}
	return next
}

// Run advances the simulation headlessly for cfg.Steps frames.
func (s *Simulation) Run(ctx context.Context, cfg Config) (*dynamo.Result, error) {
	if cfg.Steps <= 0 {
		return nil, fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}

	result := &dynamo.Result{
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	if cfg.Record {
		result.States = make([]dynamo.State, 0, cfg.Steps+1)
		result.Energies = make([]float64, 0, cfg.Steps+1)
		result.States = append(result.States, s.state)
		result.Energies = append(result.Energies, s.Energy())
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		x := s.Step()
		result.StepsTaken++

		if cfg.ValidateState && !x.IsValid() {
			result.Errors = append(result.Errors, &dynamo.SimulationError{
				Step: s.steps, State: x, Wrapped: dynamo.ErrInvalidState,
			})
			break
		}

		if cfg.Record {
			result.States = append(result.States, x)
			result.Energies = append(result.Energies, s.Energy())
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
