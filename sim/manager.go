package sim

// EveryCycle makes a Manager repeat its schedule forever.
const EveryCycle = -1

// A Manager cyclically mutates a named external parameter through a setter
// according to a fixed (duration, value) schedule.
//
// The period argument counts full passes over the schedule: period n > 0
// runs n passes and then deactivates, period 0 runs a single pass, and
// EveryCycle repeats forever.
type Manager struct {
	ProcessBase

	param    string
	duration []VTimeInSec
	value    []int
	period   int
	set      func(value int)

	index  int
	passes int
	primed bool
}

// NewManager creates a Manager. duration and value must have the same
// length.
func NewManager(
	sched Scheduler,
	name string,
	param string,
	duration []VTimeInSec,
	value []int,
	period int,
	set func(value int),
) *Manager {
	if len(duration) != len(value) {
		panic("manager duration and value schedules must have equal length")
	}
	if len(duration) == 0 {
		panic("manager schedule cannot be empty")
	}

	m := &Manager{
		param:    param,
		duration: duration,
		value:    value,
		period:   period,
		set:      set,
	}
	m.ProcessBase = MakeProcessBase(sched, name, false, m)
	return m
}

// Param returns the name of the managed parameter.
func (m *Manager) Param() string {
	return m.param
}

// Run applies the scheduled value and arms the next change. The very first
// dispatch only arms the schedule, so the first value is applied after the
// first duration has elapsed.
func (m *Manager) Run() {
	if !m.primed {
		m.primed = true
		m.sched.Schedule(m, m.duration[m.index])
		return
	}

	m.set(m.value[m.index])
	m.index++

	if m.index == len(m.duration) {
		m.passes++
		if m.period >= 0 && m.passes >= m.passLimit() {
			m.Deactivate()
			return
		}
		m.index = 0
	}

	m.sched.Schedule(m, m.duration[m.index])
}

// passLimit translates the period convention into the number of full passes
// to run. Period 0 means a single pass.
func (m *Manager) passLimit() int {
	if m.period == 0 {
		return 1
	}
	return m.period
}

// Reset rewinds the schedule to its beginning.
func (m *Manager) Reset() {
	m.index = 0
	m.passes = 0
	m.primed = false
}
