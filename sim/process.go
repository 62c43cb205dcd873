package sim

// A Process is an active entity that does something every time the scheduler
// dispatches it.
type Process interface {
	Named

	// Run executes the process's scheduled behavior. It must be safe to
	// invoke repeatedly, as the scheduler re-dispatches the process every
	// time it is scheduled.
	Run()

	// Activate is invoked when the process is registered as live with the
	// scheduler.
	Activate()

	// Deactivate is invoked when the process stops being scheduled.
	Deactivate()
}

// ProcessBase provides the default behavior shared by all processes.
type ProcessBase struct {
	EntityBase

	// self points to the outermost process so that the default lifecycle
	// methods operate on the concrete type rather than the base.
	self Process
}

// MakeProcessBase creates a ProcessBase. The self argument must be the
// concrete process embedding this base.
func MakeProcessBase(
	sched Scheduler,
	name string,
	monitored bool,
	self Process,
) ProcessBase {
	return ProcessBase{
		EntityBase: MakeEntityBase(sched, name, monitored),
		self:       self,
	}
}

// Self returns the outermost process embedding this base. Collaborators use
// it to schedule the concrete process rather than the base.
func (p *ProcessBase) Self() Process {
	return p.self
}

// Activate does nothing by default.
func (p *ProcessBase) Activate() {}

// Deactivate unregisters the process from the scheduler.
func (p *ProcessBase) Deactivate() {
	p.sched.Deactivate(p.self)
}
