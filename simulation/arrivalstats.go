package simulation

import (
	"github.com/flowsim/flowsim/datarecording"
	"github.com/flowsim/flowsim/sim"
)

// ArrivalRecord is one row of the arrivals output table.
type ArrivalRecord struct {
	Name      string
	StartTime float64
	EndTime   float64
	Activity  float64
	Finished  bool
}

// ReleaseRecord is one row of the releases output table, written every time
// an arrival stops interacting with a resource.
type ReleaseRecord struct {
	Name      string
	Resource  string
	StartTime float64
	EndTime   float64
	Activity  float64
}

// terminatedArrival is the view of an arrival the statistics hook needs.
// Both Arrival and Batched satisfy it.
type terminatedArrival interface {
	sim.Named
	Lifetime() sim.ArrTime
	ResourceTime(resource string) sim.ArrTime
	Finished() bool
}

// arrivalStatsHook records arrival lifecycle sites into the data recorder.
type arrivalStatsHook struct {
	timeTeller sim.TimeTeller
	recorder   datarecording.DataRecorder
}

func registerArrivalStats(
	sched *sim.ProcessScheduler,
	recorder datarecording.DataRecorder,
) {
	recorder.CreateTable("arrivals", ArrivalRecord{})
	recorder.CreateTable("releases", ReleaseRecord{})

	sched.AcceptHook(&arrivalStatsHook{
		timeTeller: sched,
		recorder:   recorder,
	})
}

// Func records terminations and resource releases.
func (h *arrivalStatsHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosArrivalTerminate:
		a, ok := ctx.Item.(terminatedArrival)
		if !ok {
			return
		}

		lifetime := a.Lifetime()
		h.recorder.InsertData("arrivals", ArrivalRecord{
			Name:      a.Name(),
			StartTime: float64(lifetime.Start),
			EndTime:   float64(h.timeTeller.CurrentTime()),
			Activity:  float64(lifetime.Activity),
			Finished:  ctx.Detail.(bool),
		})
	case sim.HookPosArrivalLeave:
		a, ok := ctx.Item.(terminatedArrival)
		if !ok {
			return
		}

		resource := ctx.Detail.(string)
		rec := a.ResourceTime(resource)
		h.recorder.InsertData("releases", ReleaseRecord{
			Name:      a.Name(),
			Resource:  resource,
			StartTime: float64(rec.Start),
			EndTime:   float64(h.timeTeller.CurrentTime()),
			Activity:  float64(rec.Activity),
		})
	}
}
