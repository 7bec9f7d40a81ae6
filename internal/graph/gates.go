package graph

// GateSpec describes one gate family of the instruction vocabulary: how many
// qubit operands it takes and how many rotation angles precede them.
type GateSpec struct {
	Name   string
	Qubits int
	Angles int
}

var gateCatalog = map[string]GateSpec{
	"h":     {Name: "h", Qubits: 1},
	"x":     {Name: "x", Qubits: 1},
	"y":     {Name: "y", Qubits: 1},
	"z":     {Name: "z", Qubits: 1},
	"s":     {Name: "s", Qubits: 1},
	"t":     {Name: "t", Qubits: 1},
	"reset": {Name: "reset", Qubits: 1},
	"rx":    {Name: "rx", Qubits: 1, Angles: 1},
	"ry":    {Name: "ry", Qubits: 1, Angles: 1},
	"rz":    {Name: "rz", Qubits: 1, Angles: 1},
	"cnot":  {Name: "cnot", Qubits: 2},
	"cx":    {Name: "cnot", Qubits: 2},
	"cz":    {Name: "cz", Qubits: 2},
	"swap":  {Name: "swap", Qubits: 2},
}

// LookupGate resolves a gate name (aliases included) to its spec.
func LookupGate(name string) (GateSpec, bool) {
	spec, ok := gateCatalog[name]
	return spec, ok
}
