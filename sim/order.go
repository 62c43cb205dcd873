package sim

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var warningHandlerMutex sync.RWMutex
var warningHandler = func(format string, args ...interface{}) {
	logrus.Warnf(format, args...)
}

// SetWarningHandler replaces the sink that receives non-fatal diagnostics,
// such as clamped Order values. Passing nil restores the default logger.
func SetWarningHandler(f func(format string, args ...interface{})) {
	warningHandlerMutex.Lock()
	if f == nil {
		f = func(format string, args ...interface{}) {
			logrus.Warnf(format, args...)
		}
	}
	warningHandler = f
	warningHandlerMutex.Unlock()
}

func warn(format string, args ...interface{}) {
	warningHandlerMutex.RLock()
	f := warningHandler
	warningHandlerMutex.RUnlock()
	f(format, args...)
}

// Order is the priority policy attached to an arrival or a generator.
//
// The invariant preemptible >= priority >= 0 always holds. Values that would
// violate it are clamped and reported through the warning handler instead of
// failing.
type Order struct {
	priority    int
	preemptible int
	restart     bool
}

// NewOrder creates an Order, clamping the given values as needed.
func NewOrder(priority, preemptible int, restart bool) Order {
	o := Order{}
	o.SetPriority(priority)
	o.SetPreemptible(preemptible)
	o.SetRestart(restart)
	return o
}

// SetPriority sets the priority level. Negative values are clamped to 0. If
// the new priority exceeds the current preemptible level, preemptible is
// raised to match.
func (o *Order) SetPriority(value int) {
	if value < 0 {
		warn("`priority` level cannot be < 0, `priority` set to 0")
		value = 0
	}
	o.priority = value
	if o.preemptible < o.priority {
		o.preemptible = o.priority
	}
}

// Priority returns the priority level.
func (o *Order) Priority() int {
	return o.priority
}

// SetPreemptible sets the maximum priority that cannot cause preemption.
// Values below the current priority are clamped to the priority.
func (o *Order) SetPreemptible(value int) {
	if value < o.priority {
		warn("`preemptible` level cannot be < `priority`, "+
			"`preemptible` set to %d", o.priority)
		value = o.priority
	}
	o.preemptible = value
}

// Preemptible returns the preemptible level.
func (o *Order) Preemptible() int {
	return o.preemptible
}

// SetRestart sets whether the holder must restart its current activity from
// the beginning after being preempted.
func (o *Order) SetRestart(value bool) {
	o.restart = value
}

// Restart returns the restart flag.
func (o *Order) Restart() bool {
	return o.restart
}
