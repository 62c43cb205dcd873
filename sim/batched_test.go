package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("Batched", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
		sched    *ProcessScheduler
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
		sched = NewProcessScheduler(engine)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	newMember := func(name string) *Arrival {
		return NewArrival(sched, name, false, NewOrder(0, 0, false), nil)
	}

	It("should broadcast attributes to every member", func() {
		b := NewBatched(sched, "batch", nil, true)
		m1 := newMember("m1")
		m2 := newMember("m2")
		b.AddMember(m1)
		b.AddMember(m2)

		Expect(b.SetAttribute("k", 3.0)).To(Succeed())

		v, ok := b.Attribute("k")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(3.0))

		for _, m := range []*Arrival{m1, m2} {
			v, ok := m.Attribute("k")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(3.0))
		}
	})

	It("should propagate leave to members and itself", func() {
		var left []string
		sched.AcceptHook(hookFunc(func(ctx HookCtx) {
			if ctx.Pos == HookPosArrivalLeave {
				named := ctx.Item.(Named)
				left = append(left, named.Name())
			}
		}))

		b := NewBatched(sched, "batch", nil, true)
		m1 := newMember("m1")
		b.AddMember(m1)
		b.BeginService("server", 5)
		m1.BeginService("server", 5)

		b.Leave("server")

		Expect(left).To(Equal([]string{"m1", "batch"}))
		Expect(b.ResourceTime("server").BusyUntil).To(
			Equal(VTimeInSec(-1)))
		Expect(m1.ResourceTime("server").BusyUntil).To(
			Equal(VTimeInSec(-1)))
	})

	It("should terminate members of a permanent batch identically", func() {
		b := NewBatched(sched, "batch", nil, true)
		m1 := newMember("m1")
		m2 := newMember("m2")
		b.AddMember(m1)
		b.AddMember(m2)

		b.Terminate(true)

		Expect(b.Terminated()).To(BeTrue())
		Expect(m1.Terminated()).To(BeTrue())
		Expect(m1.Finished()).To(BeTrue())
		Expect(m2.Terminated()).To(BeTrue())
		Expect(m2.Finished()).To(BeTrue())
	})

	It("should resubmit members of a non-permanent batch", func() {
		splitPoint := NewMockActivity(mockCtrl)
		b := NewBatched(sched, "batch", nil, false)
		m1 := newMember("m1")
		m2 := newMember("m2")
		b.AddMember(m1)
		b.AddMember(m2)
		b.SetCurrentActivity(splitPoint)

		splitPoint.EXPECT().Execute(m1).Return(nil, false)
		splitPoint.EXPECT().Execute(m2).Return(nil, false)

		b.Terminate(true)
		_ = engine.Run()

		Expect(b.Terminated()).To(BeTrue())
		Expect(m1.Terminated()).To(BeTrue())
		Expect(m1.Finished()).To(BeTrue())
		Expect(m2.Terminated()).To(BeTrue())
	})

	It("should run itself as a process through the batching activity",
		func() {
			batcher := NewMockActivity(mockCtrl)
			b := NewBatched(sched, "batch", batcher, true)

			batcher.EXPECT().
				Execute(&b.Arrival).
				Return(nil, true)

			sched.Activate(b)
			_ = engine.Run()

			Expect(b.Terminated()).To(BeFalse())
		})

	Context("cloning", func() {
		It("should deep-clone members", func() {
			b := NewBatched(sched, "batch", nil, true)
			m1 := newMember("m1")
			Expect(m1.SetAttribute("k", 1.0)).To(Succeed())
			b.AddMember(m1)

			c := b.Clone()

			Expect(c.Members()).To(HaveLen(1))
			Expect(c.Members()[0]).NotTo(BeIdenticalTo(m1))
			Expect(m1.CloneCount()).To(Equal(2))
			Expect(b.CloneCount()).To(Equal(2))

			v, ok := c.Members()[0].Attribute("k")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(1.0))

			Expect(c.Members()[0].SetAttribute("k", 9.0)).To(Succeed())
			v, _ = m1.Attribute("k")
			Expect(v).To(Equal(1.0))
		})

		It("should keep the permanent flag", func() {
			b := NewBatched(sched, "batch", nil, false)

			c := b.Clone()

			Expect(c.IsPermanent()).To(BeFalse())
		})
	})

	It("should expose the permanent flag", func() {
		Expect(NewBatched(sched, "b", nil, true).IsPermanent()).
			To(BeTrue())
		Expect(NewBatched(sched, "b", nil, false).IsPermanent()).
			To(BeFalse())
	})
})
