package main

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flowsim/flowsim/sim"
)

// Config describes one simulation scenario.
type Config struct {
	Generators []GeneratorConfig `yaml:"generators"`
	Managers   []ManagerConfig   `yaml:"managers"`
}

// GeneratorConfig describes one arrival source.
type GeneratorConfig struct {
	Name         string  `yaml:"name"`
	Count        int     `yaml:"count"`
	Interarrival float64 `yaml:"interarrival"`
	Distribution string  `yaml:"distribution"`
	Seed         int64   `yaml:"seed"`
	Priority     int     `yaml:"priority"`
	Preemptible  int     `yaml:"preemptible"`
	Restart      bool    `yaml:"restart"`
	Monitored    bool    `yaml:"monitored"`

	Trajectory []StepConfig `yaml:"trajectory"`
}

// StepConfig describes one trajectory step. Only timed delays are supported
// by the scenario runner.
type StepConfig struct {
	Delay float64 `yaml:"delay"`
}

// ManagerConfig describes one parameter schedule.
type ManagerConfig struct {
	Name     string    `yaml:"name"`
	Param    string    `yaml:"param"`
	Duration []float64 `yaml:"duration"`
	Value    []int     `yaml:"value"`
	Period   int       `yaml:"period"`
}

// LoadConfig reads a scenario from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	for _, g := range c.Generators {
		if g.Name == "" {
			return fmt.Errorf("generator without a name")
		}
		if g.Interarrival <= 0 {
			return fmt.Errorf("generator %s: interarrival must be > 0",
				g.Name)
		}
		if g.Count <= 0 {
			return fmt.Errorf("generator %s: count must be > 0", g.Name)
		}
		switch g.Distribution {
		case "", "fixed", "exponential":
		default:
			return fmt.Errorf("generator %s: unknown distribution %q",
				g.Name, g.Distribution)
		}
	}

	for _, m := range c.Managers {
		if len(m.Duration) != len(m.Value) {
			return fmt.Errorf(
				"manager %s: duration and value must have equal length",
				m.Name)
		}
		if len(m.Duration) == 0 {
			return fmt.Errorf("manager %s: empty schedule", m.Name)
		}
	}

	return nil
}

// delayStep holds the arrival for a fixed simulated time and then advances
// it to the next step.
type delayStep struct {
	delay sim.VTimeInSec
	next  sim.Activity
}

// Execute charges the delay to the arrival and suspends it until the delay
// has elapsed.
func (s *delayStep) Execute(a *sim.Arrival) (sim.Activity, bool) {
	a.AddActivityTime(s.delay)
	a.Scheduler().Schedule(a.Self(), s.delay)
	return s.next, true
}

// BuildTrajectory chains the configured steps into a trajectory and returns
// its first activity, or nil for an empty trajectory.
func (g GeneratorConfig) BuildTrajectory() sim.Activity {
	var next sim.Activity
	for i := len(g.Trajectory) - 1; i >= 0; i-- {
		next = &delayStep{
			delay: sim.VTimeInSec(g.Trajectory[i].Delay),
			next:  next,
		}
	}
	return next
}

// BuildSampler creates the inter-arrival sampler for the generator. All
// samplers stop after Count draws.
func (g GeneratorConfig) BuildSampler() sim.Sampler {
	switch g.Distribution {
	case "exponential":
		return &exponentialSampler{
			mean:  g.Interarrival,
			seed:  g.Seed,
			limit: g.Count,
			rng:   rand.New(rand.NewSource(g.Seed)),
		}
	default:
		return &fixedSampler{
			delay: sim.VTimeInSec(g.Interarrival),
			limit: g.Count,
		}
	}
}

// fixedSampler returns a constant delay a limited number of times.
type fixedSampler struct {
	delay sim.VTimeInSec
	limit int
	drawn int
}

func (s *fixedSampler) Sample() sim.VTimeInSec {
	if s.drawn >= s.limit {
		return -1
	}
	s.drawn++
	return s.delay
}

func (s *fixedSampler) Reset() {
	s.drawn = 0
}

// exponentialSampler draws exponentially distributed delays a limited number
// of times. Reset reseeds the stream so the draw sequence repeats.
type exponentialSampler struct {
	mean  float64
	seed  int64
	limit int
	drawn int
	rng   *rand.Rand
}

func (s *exponentialSampler) Sample() sim.VTimeInSec {
	if s.drawn >= s.limit {
		return -1
	}
	s.drawn++
	return sim.VTimeInSec(s.rng.ExpFloat64() * s.mean)
}

func (s *exponentialSampler) Reset() {
	s.drawn = 0
	s.rng = rand.New(rand.NewSource(s.seed))
}
