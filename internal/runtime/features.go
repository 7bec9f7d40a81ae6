package runtime

import "fmt"

// QuantumFeatures describes the capabilities a program or step requires of a
// backend. It is used purely as a matching predicate during runtime selection.
type QuantumFeatures struct {
	QubitCount int
}

func (f QuantumFeatures) IsEmpty() bool {
	return f.QubitCount == 0
}

func (f QuantumFeatures) String() string {
	return fmt.Sprintf("qubits=%d", f.QubitCount)
}
