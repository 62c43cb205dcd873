package sim

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// EntityBase provides the identity fields shared by everything that lives in
// a simulation: a name, the scheduler the entity is bound to, and a flag that
// tells whether the entity should be monitored.
type EntityBase struct {
	name      string
	sched     Scheduler
	monitored bool
}

// MakeEntityBase creates an EntityBase.
func MakeEntityBase(sched Scheduler, name string, monitored bool) EntityBase {
	return EntityBase{
		name:      name,
		sched:     sched,
		monitored: monitored,
	}
}

// Name returns the name of the entity.
func (e *EntityBase) Name() string {
	return e.name
}

// IsMonitored tells if the entity should be observed by statistics
// collaborators.
func (e *EntityBase) IsMonitored() bool {
	return e.monitored
}

// Scheduler returns the scheduler the entity is bound to.
func (e *EntityBase) Scheduler() Scheduler {
	return e.sched
}
