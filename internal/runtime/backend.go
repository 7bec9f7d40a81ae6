package runtime

// GateOp is one gate application dispatched to a backend.
type GateOp struct {
	Gate   string
	Qubits []int
	Angle  float64
}

// Engine is one isolated execution opened against a backend. Engines are
// scoped to a single run and never shared.
type Engine interface {
	ApplyGate(op GateOp) error
	Measure(qubit int) (int, error)
	// Projection renders the current state for diagnostic tracing.
	Projection() string
	Close() error
}

// ExecutionOptions tune how a backend carries out one execution.
type ExecutionOptions struct {
	Seed int64
	// Deterministic selects the heavier full-distribution strategy: collapse
	// to the most probable outcome instead of sampling.
	Deterministic bool
}

// IntegrationRuntime represents one backend, simulator or hardware
// integration. Validity is a time-varying property and is probed fresh on
// every selection attempt.
type IntegrationRuntime interface {
	Name() string
	IsValid() bool
	HasFeatures(features QuantumFeatures) bool
	Open(qubits int, opts ExecutionOptions) (Engine, error)
}
