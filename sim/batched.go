package sim

import "fmt"

// A Batched is a composite arrival that owns a set of member arrivals and
// moves them through a trajectory as one schedulable unit. The batch itself
// is an arrival: it carries its own attributes and time ledgers.
type Batched struct {
	Arrival

	members   []*Arrival
	permanent bool
}

// NewBatched creates a batch positioned at the given batching activity. A
// permanent batch can never be decomposed back into its members.
func NewBatched(
	sched Scheduler,
	name string,
	batcher Activity,
	permanent bool,
) *Batched {
	b := new(Batched)
	b.Arrival = Arrival{
		order:      NewOrder(0, 0, false),
		lifetime:   *newArrTime(),
		restime:    make(map[string]*ArrTime),
		activity:   batcher,
		attributes: make(Attr),
		selected:   make(map[int]Resource),
		clones:     new(int32),
	}
	b.ProcessBase = MakeProcessBase(sched, name, true, b)
	*b.clones = 1
	b.permanent = permanent
	return b
}

// IsPermanent tells if the batch can never be split back into its members.
func (b *Batched) IsPermanent() bool {
	return b.permanent
}

// AddMember takes ownership of an arrival as a member of the batch.
func (b *Batched) AddMember(a *Arrival) {
	b.members = append(b.members, a)
}

// Members returns the member arrivals owned by the batch.
func (b *Batched) Members() []*Arrival {
	return b.members
}

// Leave propagates to every member and then performs the batch's own
// bookkeeping, since the batch occupies the resource as a unit.
func (b *Batched) Leave(resource string) {
	for _, m := range b.members {
		m.Leave(resource)
	}
	b.Arrival.Leave(resource)
}

// Terminate finalizes the batch. A permanent batch terminates every member
// with the same finished flag. A non-permanent batch has only served as a
// temporary grouping: its members are resubmitted into the trajectory at the
// batch's current position and time instead of being terminated.
func (b *Batched) Terminate(finished bool) {
	if b.terminated {
		return
	}

	if b.permanent {
		for _, m := range b.members {
			m.Terminate(finished)
		}
	} else {
		for _, m := range b.members {
			m.SetCurrentActivity(b.activity)
			b.sched.Activate(m)
		}
	}
	b.members = nil

	b.Arrival.Terminate(finished)
}

// SetAttribute sets the attribute on the batch and broadcasts it to every
// member. The broadcast is not transactional: when a member fails, earlier
// members keep the new value.
func (b *Batched) SetAttribute(key string, value float64) error {
	if err := b.Arrival.SetAttribute(key, value); err != nil {
		return err
	}

	for _, m := range b.members {
		if err := m.SetAttribute(key, value); err != nil {
			return fmt.Errorf("propagating attribute %q to member %s: %w",
				key, m.Name(), err)
		}
	}

	return nil
}

// Clone produces an independent batch whose members are structurally equal
// but distinct arrivals. Each member's own clone operation is invoked, so
// member clone counters are incremented as usual.
func (b *Batched) Clone() *Batched {
	c := new(Batched)
	base := b.Arrival.Clone()
	c.Arrival = *base
	c.ProcessBase = MakeProcessBase(b.sched, b.name, b.monitored, c)
	c.permanent = b.permanent

	c.members = make([]*Arrival, len(b.members))
	for i, m := range b.members {
		c.members[i] = m.Clone()
	}

	return c
}
