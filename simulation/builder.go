package simulation

import (
	"github.com/rs/xid"

	"github.com/sarchlab/ppusim/datarecording"
	"github.com/sarchlab/ppusim/monitoring"
	"github.com/sarchlab/ppusim/sim"
	"github.com/sarchlab/ppusim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	recordingOn    bool
	outputFileName string
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn:   true,
		recordingOn: true,
	}
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithoutRecording sets the simulation to not write a database.
func (b Builder) WithoutRecording() Builder {
	b.recordingOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordingOn && b.outputFileName != "" {
		panic("output file cannot be set when recording is disabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	s := &Simulation{
		id:            xid.New().String(),
		compNameIndex: make(map[string]int),
	}

	engine := sim.NewSerialEngine()
	s.engine = engine

	if b.recordingOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "ppusim_" + s.id
		}

		s.outputPath = outputPath + ".sqlite3"
		s.dataRecorder = datarecording.New(outputPath)
		s.visTracer = tracing.NewDBTracer(engine, s.dataRecorder)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor().WithPortNumber(b.monitorPort)
		s.monitor.RegisterEngine(engine)

		url, err := s.monitor.StartServer()
		if err != nil {
			return nil, err
		}

		s.monitorURL = url
	}

	return s, nil
}
