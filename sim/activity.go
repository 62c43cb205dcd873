package sim

// An Activity is one step of a trajectory. Trajectories are owned by the
// model definition layer; the core only positions arrivals within them.
type Activity interface {
	// Execute runs the step against an arrival and returns the step the
	// arrival should continue with. A nil next with suspended=false means
	// the trajectory is exhausted. suspended=true means the arrival must
	// stop consuming steps and wait for a collaborator to reschedule it
	// (for example, while queued at a resource).
	Execute(a *Arrival) (next Activity, suspended bool)
}

// A Resource is a shared capacity unit that arrivals contend for. Resources
// are owned by the resource-management layer; the core only keeps non-owning
// references to them in each arrival's selected map.
type Resource interface {
	Named

	// Seize attempts to give the arrival a server of this resource.
	Seize(a *Arrival, selectionID int) bool

	// Release returns the arrival's server to the resource.
	Release(a *Arrival)
}

// A Sampler provides inter-arrival delays for a generator. Samplers are
// stateful; Reset must make the sampler forget all prior draws.
type Sampler interface {
	Sample() VTimeInSec
	Reset()
}
