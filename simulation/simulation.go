// Package simulation wires the services that a simulation run needs: the
// engine, the data recorder, the tracer and the monitor.
package simulation

import (
	"fmt"

	"github.com/sarchlab/ppusim/datarecording"
	"github.com/sarchlab/ppusim/monitoring"
	"github.com/sarchlab/ppusim/sim"
	"github.com/sarchlab/ppusim/tracing"
)

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	id     string
	engine sim.Engine

	outputPath   string
	dataRecorder datarecording.DataRecorder
	visTracer    *tracing.DBTracer
	monitor      *monitoring.Monitor
	monitorURL   string

	components    []sim.Component
	compNameIndex map[string]int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder, or nil if recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// OutputPath returns the database file, or "" if recording is off.
func (s *Simulation) OutputPath() string {
	return s.outputPath
}

// GetMonitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitoring server.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// GetVisTracer returns the tracer used in the simulation.
func (s *Simulation) GetVisTracer() *tracing.DBTracer {
	return s.visTracer
}

// RegisterComponent registers a component with the simulation. The component
// is traced and monitored if those services are on.
func (s *Simulation) RegisterComponent(c sim.Component) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic(fmt.Sprintf("component %s already registered", compName))
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	if s.visTracer != nil {
		if domain, ok := c.(tracing.NamedHookable); ok {
			tracing.CollectTrace(domain, s.visTracer)
		}
	}

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// Components returns all the registered components.
func (s *Simulation) Components() []sim.Component {
	comps := make([]sim.Component, len(s.components))
	copy(comps, s.components)

	return comps
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	index, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[index]
}

// Terminate flushes the traces and closes the database.
func (s *Simulation) Terminate() error {
	if s.visTracer != nil {
		s.visTracer.Terminate()
	}

	if s.dataRecorder != nil {
		return s.dataRecorder.Close()
	}

	return nil
}
