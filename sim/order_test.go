package sim

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Order", func() {
	var warnings []string

	BeforeEach(func() {
		warnings = nil
		SetWarningHandler(func(format string, args ...interface{}) {
			warnings = append(warnings, fmt.Sprintf(format, args...))
		})
	})

	AfterEach(func() {
		SetWarningHandler(nil)
	})

	It("should keep defaults at zero", func() {
		o := NewOrder(0, 0, false)

		Expect(o.Priority()).To(Equal(0))
		Expect(o.Preemptible()).To(Equal(0))
		Expect(o.Restart()).To(BeFalse())
		Expect(warnings).To(BeEmpty())
	})

	It("should clamp negative priority to zero with a warning", func() {
		o := NewOrder(0, 0, false)

		o.SetPriority(-3)

		Expect(o.Priority()).To(Equal(0))
		Expect(warnings).To(HaveLen(1))
	})

	It("should raise preemptible when priority exceeds it", func() {
		o := NewOrder(0, 0, false)

		o.SetPriority(5)

		Expect(o.Priority()).To(Equal(5))
		Expect(o.Preemptible()).To(Equal(5))
		Expect(warnings).To(BeEmpty())
	})

	It("should clamp preemptible below priority with a warning", func() {
		o := NewOrder(4, 9, false)

		o.SetPreemptible(2)

		Expect(o.Preemptible()).To(Equal(4))
		Expect(warnings).To(HaveLen(1))
	})

	It("should hold the invariant under arbitrary setter sequences", func() {
		o := NewOrder(0, 0, true)
		values := []int{3, -1, 7, 0, 12, -5, 2}

		for i, v := range values {
			if i%2 == 0 {
				o.SetPriority(v)
			} else {
				o.SetPreemptible(v)
			}
			Expect(o.Priority()).To(BeNumerically(">=", 0))
			Expect(o.Preemptible()).To(
				BeNumerically(">=", o.Priority()))
		}
	})

	It("should clamp constructor arguments", func() {
		o := NewOrder(-2, -4, true)

		Expect(o.Priority()).To(Equal(0))
		Expect(o.Preemptible()).To(Equal(0))
		Expect(o.Restart()).To(BeTrue())
		Expect(warnings).NotTo(BeEmpty())
	})
})
