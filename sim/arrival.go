package sim

import "sync/atomic"

// Attr holds the user-visible scratch state of an arrival. Keys are unique;
// iteration order is not defined.
type Attr map[string]float64

// ArrTime is the time ledger an arrival keeps per resource, plus one for the
// whole trajectory. The four fields together let an arrival be paused
// mid-service and resumed later with the correct residual service time.
type ArrTime struct {
	// Start is the simulated time the arrival most recently began waiting
	// for or using the resource. -1 if never set.
	Start VTimeInSec

	// Activity is the time charged to the current activity while
	// interacting with the resource.
	Activity VTimeInSec

	// BusyUntil is the simulated time at which the service is expected to
	// complete. -1 if not currently in service.
	BusyUntil VTimeInSec

	// Remaining is the service time left if preempted before completion.
	Remaining VTimeInSec
}

func newArrTime() *ArrTime {
	return &ArrTime{Start: -1, BusyUntil: -1}
}

// terminator lets composite arrivals override termination while plain code
// dispatches through the concrete process.
type terminator interface {
	Terminate(finished bool)
}

// An Arrival is one simulated actor traversing a trajectory of activities.
//
// Arrivals are reference counted for cloning. The data of an arrival is
// never shared between clones; only the counter is, and it functions as a
// usage tally, not as shared mutable state.
type Arrival struct {
	ProcessBase

	order      Order
	lifetime   ArrTime
	restime    map[string]*ArrTime
	activity   Activity
	attributes Attr
	selected   map[int]Resource

	clones     *int32
	terminated bool
	finished   bool
}

// NewArrival creates an Arrival positioned at the given first activity.
func NewArrival(
	sched Scheduler,
	name string,
	monitored bool,
	order Order,
	firstActivity Activity,
) *Arrival {
	a := &Arrival{
		order:      order,
		lifetime:   *newArrTime(),
		restime:    make(map[string]*ArrTime),
		activity:   firstActivity,
		attributes: make(Attr),
		selected:   make(map[int]Resource),
		clones:     new(int32),
	}
	a.ProcessBase = MakeProcessBase(sched, name, monitored, a)
	*a.clones = 1
	return a
}

// Run advances the arrival along its trajectory. It stops when the
// trajectory is exhausted, which terminates the arrival as finished, or when
// an activity suspends the arrival, in which case a future dispatch resumes
// from the stored position.
func (a *Arrival) Run() {
	if a.terminated {
		return
	}

	for a.activity != nil {
		next, suspended := a.activity.Execute(a)
		a.activity = next
		if suspended {
			return
		}
	}

	if t, ok := a.self.(terminator); ok {
		t.Terminate(true)
		return
	}
	a.Terminate(true)
}

// Activate starts, or resumes, the lifetime ledger.
func (a *Arrival) Activate() {
	if a.terminated {
		return
	}

	now := a.sched.CurrentTime()
	if a.lifetime.Start < 0 {
		a.lifetime.Start = now
	}
	if a.lifetime.Remaining > 0 {
		a.lifetime.BusyUntil = now + a.lifetime.Remaining
		a.lifetime.Remaining = 0
	}
}

// Deactivate banks the unfinished lifetime work so that a later Activate can
// resume it. Preemption and suspension both land here.
func (a *Arrival) Deactivate() {
	a.ProcessBase.Deactivate()

	now := a.sched.CurrentTime()
	if a.lifetime.BusyUntil >= 0 {
		a.lifetime.Remaining = a.lifetime.BusyUntil - now
		a.lifetime.BusyUntil = -1
	}
}

// Order returns the priority policy of the arrival.
func (a *Arrival) Order() *Order {
	return &a.order
}

// Lifetime returns a copy of the whole-trajectory time ledger.
func (a *Arrival) Lifetime() ArrTime {
	return a.lifetime
}

// Remaining returns the banked lifetime service time.
func (a *Arrival) Remaining() VTimeInSec {
	return a.lifetime.Remaining
}

// AddActivityTime charges d simulated seconds of activity time to the
// whole-trajectory ledger.
func (a *Arrival) AddActivityTime(d VTimeInSec) {
	a.lifetime.Activity += d
}

// SetBusyUntil marks the simulated time at which the arrival's current piece
// of work is expected to complete. Deactivate banks the unfinished part.
func (a *Arrival) SetBusyUntil(until VTimeInSec) {
	a.lifetime.BusyUntil = until
}

// CurrentActivity returns the trajectory step the arrival is positioned at.
func (a *Arrival) CurrentActivity() Activity {
	return a.activity
}

// SetCurrentActivity repositions the arrival within its trajectory.
func (a *Arrival) SetCurrentActivity(act Activity) {
	a.activity = act
}

// resourceTime returns the ledger for the resource, creating a default one
// if the arrival has never touched it.
func (a *Arrival) resourceTime(resource string) *ArrTime {
	rec, ok := a.restime[resource]
	if !ok {
		rec = newArrTime()
		a.restime[resource] = rec
	}
	return rec
}

// ResourceTime returns a copy of the ledger for the resource.
func (a *Arrival) ResourceTime(resource string) ArrTime {
	return *a.resourceTime(resource)
}

// SetStart records when the arrival began waiting for or using the resource.
func (a *Arrival) SetStart(resource string, t VTimeInSec) {
	a.resourceTime(resource).Start = t
}

// SetActivityTime sets the time charged to the current activity at the
// resource.
func (a *Arrival) SetActivityTime(resource string, t VTimeInSec) {
	a.resourceTime(resource).Activity = t
}

// ActivityTime returns the time charged to the current activity at the
// resource.
func (a *Arrival) ActivityTime(resource string) VTimeInSec {
	return a.resourceTime(resource).Activity
}

// BeginService records that the resource started serving the arrival and
// that the service is expected to complete at until.
func (a *Arrival) BeginService(resource string, until VTimeInSec) {
	rec := a.resourceTime(resource)
	if rec.Start < 0 {
		rec.Start = a.sched.CurrentTime()
	}
	rec.BusyUntil = until
	rec.Remaining = 0
}

// Interrupt detaches the arrival from an in-progress service, banking the
// residual service time. With restart policy the residual is discarded, so
// the activity reruns from the start upon resumption. Interrupt returns the
// banked residual.
func (a *Arrival) Interrupt(resource string) VTimeInSec {
	rec := a.resourceTime(resource)
	if rec.BusyUntil < 0 {
		return rec.Remaining
	}

	rec.Remaining = rec.BusyUntil - a.sched.CurrentTime()
	rec.BusyUntil = -1
	if a.order.Restart() {
		rec.Remaining = 0
		rec.Activity = 0
	}

	return rec.Remaining
}

// Leave records that the arrival has stopped interacting with the resource.
func (a *Arrival) Leave(resource string) {
	rec := a.resourceTime(resource)
	rec.BusyUntil = -1
	rec.Remaining = 0

	a.sched.InvokeHook(HookCtx{
		Domain: a.sched,
		Pos:    HookPosArrivalLeave,
		Item:   a.self,
		Detail: resource,
	})
}

// Terminate finalizes the lifetime ledger and releases the arrival from the
// simulation. A terminated arrival never runs again; double termination is a
// no-op.
func (a *Arrival) Terminate(finished bool) {
	if a.terminated {
		return
	}

	now := a.sched.CurrentTime()
	if a.lifetime.BusyUntil >= 0 {
		a.lifetime.Remaining = a.lifetime.BusyUntil - now
		a.lifetime.BusyUntil = -1
	}
	a.finished = finished
	a.terminated = true

	a.sched.Deactivate(a.self)

	if a.IsMonitored() {
		a.sched.InvokeHook(HookCtx{
			Domain: a.sched,
			Pos:    HookPosArrivalTerminate,
			Item:   a.self,
			Detail: finished,
		})
	}

	a.release()
}

// Terminated tells if the arrival has been terminated.
func (a *Arrival) Terminated() bool {
	return a.terminated
}

// Finished tells if the arrival completed its whole trajectory.
func (a *Arrival) Finished() bool {
	return a.finished
}

// SetAttribute inserts or overwrites a user attribute.
func (a *Arrival) SetAttribute(key string, value float64) error {
	a.attributes[key] = value
	return nil
}

// Attribute looks up a user attribute.
func (a *Arrival) Attribute(key string) (float64, bool) {
	v, ok := a.attributes[key]
	return v, ok
}

// Attributes returns the attribute map of the arrival.
func (a *Arrival) Attributes() Attr {
	return a.attributes
}

// SetSelected binds a resource to a selection policy id. The arrival does
// not own the resource.
func (a *Arrival) SetSelected(id int, res Resource) {
	a.selected[id] = res
}

// Selected returns the resource bound to a selection policy id, or nil.
func (a *Arrival) Selected(id int) Resource {
	return a.selected[id]
}

// Clone produces a full structural copy of the arrival that shares only the
// clone counter with the original.
func (a *Arrival) Clone() *Arrival {
	c := &Arrival{
		order:      a.order,
		lifetime:   a.lifetime,
		restime:    make(map[string]*ArrTime, len(a.restime)),
		activity:   a.activity,
		attributes: make(Attr, len(a.attributes)),
		selected:   make(map[int]Resource, len(a.selected)),
		clones:     a.clones,
		terminated: a.terminated,
		finished:   a.finished,
	}
	c.ProcessBase = MakeProcessBase(a.sched, a.name, a.monitored, c)

	for name, rec := range a.restime {
		recCopy := *rec
		c.restime[name] = &recCopy
	}
	for k, v := range a.attributes {
		c.attributes[k] = v
	}
	for id, res := range a.selected {
		c.selected[id] = res
	}

	atomic.AddInt32(a.clones, 1)

	return c
}

// CloneCount returns the number of live references to this logical arrival.
func (a *Arrival) CloneCount() int {
	return int(atomic.LoadInt32(a.clones))
}

// release drops one reference to the logical arrival. It reports true
// exactly once, when the last reference is dropped.
func (a *Arrival) release() bool {
	return atomic.AddInt32(a.clones, -1) == 0
}
