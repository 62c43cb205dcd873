package sim

import (
	"fmt"
	"math"
)

// A Generator is a process that repeatedly spawns arrivals at sampled
// inter-arrival intervals. A negative or non-finite sample is the stop
// sentinel: the generator deactivates and produces no further arrivals.
type Generator struct {
	ProcessBase

	count         int
	firstActivity Activity
	dist          Sampler
	order         Order
}

// NewGenerator creates a Generator. Arrivals are named after the generator's
// name prefix plus a running count, and inherit the given order and
// monitoring configuration.
func NewGenerator(
	sched Scheduler,
	namePrefix string,
	monitored bool,
	firstActivity Activity,
	dist Sampler,
	order Order,
) *Generator {
	g := &Generator{
		firstActivity: firstActivity,
		dist:          dist,
		order:         order,
	}
	g.ProcessBase = MakeProcessBase(sched, namePrefix, monitored, g)
	return g
}

// Run samples the next inter-arrival delay. If the sample signals the end of
// the sequence, the generator deactivates. Otherwise it spawns an arrival
// that begins running at the current time and reschedules itself after the
// sampled delay.
func (g *Generator) Run() {
	delay := g.dist.Sample()
	if delay < 0 || math.IsNaN(float64(delay)) ||
		math.IsInf(float64(delay), 0) {
		g.Deactivate()
		return
	}

	name := fmt.Sprintf("%s%d", g.name, g.count)
	g.count++

	arrival := NewArrival(g.sched, name, g.monitored, g.order, g.firstActivity)
	g.sched.Activate(arrival)

	g.sched.Schedule(g, delay)
}

// Reset zeroes the arrival count and rewinds the distribution's internal
// state, so a fresh draw sequence begins.
func (g *Generator) Reset() {
	g.count = 0
	g.dist.Reset()
}

// NGenerated returns the number of arrivals produced so far.
func (g *Generator) NGenerated() int {
	return g.count
}

// Order returns the priority policy stamped onto new arrivals.
func (g *Generator) Order() *Order {
	return &g.order
}
