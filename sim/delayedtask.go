package sim

// A DelayedTask is a process that runs an arbitrary callable exactly once at
// its scheduled time and never reschedules itself.
type DelayedTask struct {
	ProcessBase

	task func()
}

// NewDelayedTask creates a DelayedTask.
func NewDelayedTask(sched Scheduler, name string, task func()) *DelayedTask {
	t := &DelayedTask{task: task}
	t.ProcessBase = MakeProcessBase(sched, name, false, t)
	return t
}

// Run invokes the stored task and deactivates.
func (t *DelayedTask) Run() {
	t.task()
	t.Deactivate()
}
