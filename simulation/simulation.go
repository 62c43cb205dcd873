// Package simulation assembles the pieces needed to define and run a
// simulation.
package simulation

import (
	"github.com/flowsim/flowsim/datarecording"
	"github.com/flowsim/flowsim/monitoring"
	"github.com/flowsim/flowsim/sim"
)

// A Simulation provides the services required to define a simulation.
type Simulation struct {
	id string

	engine       sim.Engine
	scheduler    *sim.ProcessScheduler
	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor

	processes        []sim.Process
	processNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Engine returns the engine used in the simulation.
func (s *Simulation) Engine() sim.Engine {
	return s.engine
}

// Scheduler returns the process scheduler used in the simulation.
func (s *Simulation) Scheduler() *sim.ProcessScheduler {
	return s.scheduler
}

// DataRecorder returns the data recorder used in the simulation.
func (s *Simulation) DataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// Monitor returns the monitor used in the simulation, if any.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// RegisterProcess registers a root process, such as a generator or a
// manager, with the simulation and activates it.
func (s *Simulation) RegisterProcess(p sim.Process) {
	name := p.Name()
	if _, ok := s.processNameIndex[name]; ok {
		panic("process " + name + " already registered")
	}

	s.processes = append(s.processes, p)
	s.processNameIndex[name] = len(s.processes) - 1

	s.scheduler.Activate(p)
}

// GetProcessByName returns the registered process with the given name.
func (s *Simulation) GetProcessByName(name string) sim.Process {
	return s.processes[s.processNameIndex[name]]
}

// Run processes all the scheduled events.
func (s *Simulation) Run() error {
	err := s.engine.Run()
	s.engine.Finished()
	return err
}

// Terminate terminates the simulation.
func (s *Simulation) Terminate() {
	s.dataRecorder.Close()
}
