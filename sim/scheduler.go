package sim

import "sync"

// Scheduler registers processes to run at future simulated times. It is the
// only interface through which processes interact with the event engine.
type Scheduler interface {
	TimeTeller
	Hookable

	// InvokeHook triggers the hooks registered on the scheduler. Entity
	// lifecycle sites, such as arrival termination, report through here so
	// that statistics collaborators can observe them.
	InvokeHook(ctx HookCtx)

	// Schedule registers p to run after delay simulated seconds. A process
	// has at most one pending dispatch; scheduling again replaces the
	// earlier one.
	Schedule(p Process, delay VTimeInSec)

	// Unschedule cancels the pending dispatch of p, if any.
	Unschedule(p Process)

	// Activate marks p as live, invokes its Activate hook, and dispatches
	// it at the current time.
	Activate(p Process)

	// Deactivate cancels the pending dispatch of p and removes it from the
	// live set.
	Deactivate(p Process)

	// LiveProcesses returns the names of the processes currently live.
	LiveProcesses() []string
}

// processEvent carries a process dispatch through the event engine.
type processEvent struct {
	EventBase
	proc      Process
	cancelled bool
}

// ProcessScheduler implements Scheduler on top of an Engine. The engine has
// no event-removal operation, so cancelled dispatches stay in the queue and
// are skipped when they surface.
type ProcessScheduler struct {
	HookableBase

	engine Engine

	lock    sync.Mutex
	pending map[Process]*processEvent
	live    map[Process]bool
}

// NewProcessScheduler creates a ProcessScheduler that dispatches processes
// through the given engine.
func NewProcessScheduler(engine Engine) *ProcessScheduler {
	s := new(ProcessScheduler)
	s.engine = engine
	s.pending = make(map[Process]*processEvent)
	s.live = make(map[Process]bool)
	return s
}

// CurrentTime returns the current simulated time.
func (s *ProcessScheduler) CurrentTime() VTimeInSec {
	return s.engine.CurrentTime()
}

// Schedule registers p to run after delay simulated seconds.
func (s *ProcessScheduler) Schedule(p Process, delay VTimeInSec) {
	s.lock.Lock()

	if prev, ok := s.pending[p]; ok {
		prev.cancelled = true
	}

	evt := &processEvent{
		EventBase: *NewEventBase(s.engine.CurrentTime()+delay, s),
		proc:      p,
	}
	s.pending[p] = evt

	s.lock.Unlock()

	s.engine.Schedule(evt)
}

// Unschedule cancels the pending dispatch of p, if any.
func (s *ProcessScheduler) Unschedule(p Process) {
	s.lock.Lock()
	if evt, ok := s.pending[p]; ok {
		evt.cancelled = true
		delete(s.pending, p)
	}
	s.lock.Unlock()
}

// Activate marks p as live, invokes its Activate hook, and dispatches it at
// the current time.
func (s *ProcessScheduler) Activate(p Process) {
	s.lock.Lock()
	s.live[p] = true
	s.lock.Unlock()

	p.Activate()

	s.InvokeHook(HookCtx{
		Domain: s,
		Pos:    HookPosProcessActivate,
		Item:   p,
	})

	s.Schedule(p, 0)
}

// Deactivate cancels the pending dispatch of p and removes it from the live
// set.
func (s *ProcessScheduler) Deactivate(p Process) {
	s.Unschedule(p)

	s.lock.Lock()
	delete(s.live, p)
	s.lock.Unlock()

	s.InvokeHook(HookCtx{
		Domain: s,
		Pos:    HookPosProcessDeactivate,
		Item:   p,
	})
}

// LiveProcesses returns the names of the processes currently live.
func (s *ProcessScheduler) LiveProcesses() []string {
	s.lock.Lock()
	names := make([]string, 0, len(s.live))
	for p := range s.live {
		names = append(names, p.Name())
	}
	s.lock.Unlock()
	return names
}

// Handle dispatches the process carried by the event.
func (s *ProcessScheduler) Handle(e Event) error {
	evt := e.(*processEvent)

	s.lock.Lock()
	if evt.cancelled {
		s.lock.Unlock()
		return nil
	}
	if s.pending[evt.proc] == evt {
		delete(s.pending, evt.proc)
	}
	s.lock.Unlock()

	evt.proc.Run()

	return nil
}
