package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeProcess records every dispatch it receives.
type fakeProcess struct {
	ProcessBase

	runTimes    []VTimeInSec
	activated   int
	deactivated int
	onRun       func()
}

func newFakeProcess(sched Scheduler, name string) *fakeProcess {
	p := &fakeProcess{}
	p.ProcessBase = MakeProcessBase(sched, name, false, p)
	return p
}

func (p *fakeProcess) Run() {
	p.runTimes = append(p.runTimes, p.Scheduler().CurrentTime())
	if p.onRun != nil {
		p.onRun()
	}
}

func (p *fakeProcess) Activate() {
	p.activated++
}

func (p *fakeProcess) Deactivate() {
	p.deactivated++
	p.ProcessBase.Deactivate()
}

var _ = Describe("ProcessScheduler", func() {
	var (
		engine *SerialEngine
		sched  *ProcessScheduler
	)

	BeforeEach(func() {
		engine = NewSerialEngine()
		sched = NewProcessScheduler(engine)
	})

	It("should dispatch a process at the scheduled time", func() {
		p := newFakeProcess(sched, "p")

		sched.Schedule(p, 3.5)
		_ = engine.Run()

		Expect(p.runTimes).To(Equal([]VTimeInSec{3.5}))
	})

	It("should support self-perpetuating chains", func() {
		p := newFakeProcess(sched, "p")
		p.onRun = func() {
			if len(p.runTimes) < 3 {
				sched.Schedule(p, 2)
			}
		}

		sched.Schedule(p, 1)
		_ = engine.Run()

		Expect(p.runTimes).To(Equal([]VTimeInSec{1, 3, 5}))
	})

	It("should not dispatch an unscheduled process", func() {
		p := newFakeProcess(sched, "p")
		canceller := newFakeProcess(sched, "canceller")
		canceller.onRun = func() {
			sched.Unschedule(p)
		}

		sched.Schedule(p, 10)
		sched.Schedule(canceller, 5)
		_ = engine.Run()

		Expect(p.runTimes).To(BeEmpty())
		Expect(canceller.runTimes).To(HaveLen(1))
	})

	It("should replace an earlier pending dispatch", func() {
		p := newFakeProcess(sched, "p")

		sched.Schedule(p, 10)
		sched.Schedule(p, 4)
		_ = engine.Run()

		Expect(p.runTimes).To(Equal([]VTimeInSec{4}))
	})

	It("should track live processes through activation", func() {
		p := newFakeProcess(sched, "p")

		sched.Activate(p)

		Expect(p.activated).To(Equal(1))
		Expect(sched.LiveProcesses()).To(ContainElement("p"))

		sched.Deactivate(p)

		Expect(sched.LiveProcesses()).To(BeEmpty())
	})

	It("should dispatch an activated process at the current time", func() {
		p := newFakeProcess(sched, "p")

		sched.Activate(p)
		_ = engine.Run()

		Expect(p.runTimes).To(Equal([]VTimeInSec{0}))
	})

	It("should invoke lifecycle hooks", func() {
		var positions []string
		sched.AcceptHook(hookFunc(func(ctx HookCtx) {
			positions = append(positions, ctx.Pos.Name)
		}))

		p := newFakeProcess(sched, "p")
		sched.Activate(p)
		sched.Deactivate(p)

		Expect(positions).To(Equal(
			[]string{"ProcessActivate", "ProcessDeactivate"}))
	})
})

type hookFunc func(ctx HookCtx)

func (f hookFunc) Func(ctx HookCtx) {
	f(ctx)
}
