package runtime

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"strings"
)

// probabilityTolerance absorbs the rounding error of summing squared
// amplitudes, so exact ties are recognized as ties.
const probabilityTolerance = 1e-12

// Simulator is the built-in state-vector backend. It is always valid and
// supports any request up to its qubit capacity.
type Simulator struct {
	maxQubits int
}

func NewSimulator(maxQubits int) *Simulator {
	return &Simulator{maxQubits: maxQubits}
}

func (s *Simulator) Name() string {
	return "state-vector-simulator"
}

func (s *Simulator) IsValid() bool {
	return true
}

func (s *Simulator) HasFeatures(features QuantumFeatures) bool {
	return features.QubitCount <= s.maxQubits
}

func (s *Simulator) Open(qubits int, opts ExecutionOptions) (Engine, error) {
	InitializeNativeTargets()
	if qubits > s.maxQubits {
		return nil, fmt.Errorf("simulator supports at most %d qubits, requested %d", s.maxQubits, qubits)
	}
	if qubits < 1 {
		qubits = 1
	}
	state := make([]complex128, 1<<qubits)
	state[0] = 1
	return &simEngine{
		qubits:        qubits,
		state:         state,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		deterministic: opts.Deterministic,
	}, nil
}

type simEngine struct {
	qubits        int
	state         []complex128
	rng           *rand.Rand
	deterministic bool
}

func (e *simEngine) ApplyGate(op GateOp) error {
	for _, q := range op.Qubits {
		if q < 0 || q >= e.qubits {
			return fmt.Errorf("qubit %d out of range (engine has %d)", q, e.qubits)
		}
	}

	if m, ok := singleQubitGates[op.Gate]; ok {
		e.applySingle(op.Qubits[0], m)
		return nil
	}
	if rot, ok := rotationGates[op.Gate]; ok {
		e.applySingle(op.Qubits[0], rot(op.Angle))
		return nil
	}

	switch op.Gate {
	case "cnot":
		control, target := op.Qubits[0], op.Qubits[1]
		cm, tm := uint64(1)<<control, uint64(1)<<target
		for i := range e.state {
			idx := uint64(i)
			if idx&cm != 0 && idx&tm == 0 {
				j := idx | tm
				e.state[idx], e.state[j] = e.state[j], e.state[idx]
			}
		}
	case "cz":
		cm, tm := uint64(1)<<op.Qubits[0], uint64(1)<<op.Qubits[1]
		for i := range e.state {
			if uint64(i)&cm != 0 && uint64(i)&tm != 0 {
				e.state[i] = -e.state[i]
			}
		}
	case "swap":
		am, bm := uint64(1)<<op.Qubits[0], uint64(1)<<op.Qubits[1]
		for i := range e.state {
			idx := uint64(i)
			if idx&am != 0 && idx&bm == 0 {
				j := (idx &^ am) | bm
				e.state[idx], e.state[j] = e.state[j], e.state[idx]
			}
		}
	case "reset":
		bit, err := e.Measure(op.Qubits[0])
		if err != nil {
			return err
		}
		if bit == 1 {
			e.applySingle(op.Qubits[0], singleQubitGates["x"])
		}
	default:
		return fmt.Errorf("unsupported gate %q", op.Gate)
	}
	return nil
}

func (e *simEngine) applySingle(qubit int, m [2][2]complex128) {
	mask := uint64(1) << qubit
	for i := range e.state {
		idx := uint64(i)
		if idx&mask != 0 {
			continue
		}
		j := idx | mask
		a0, a1 := e.state[idx], e.state[j]
		e.state[idx] = m[0][0]*a0 + m[0][1]*a1
		e.state[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

func (e *simEngine) Measure(qubit int) (int, error) {
	if qubit < 0 || qubit >= e.qubits {
		return 0, fmt.Errorf("qubit %d out of range (engine has %d)", qubit, e.qubits)
	}
	mask := uint64(1) << qubit

	var pOne float64
	for i, amp := range e.state {
		if uint64(i)&mask != 0 {
			pOne += real(amp)*real(amp) + imag(amp)*imag(amp)
		}
	}

	var outcome int
	if e.deterministic {
		// Full-distribution strategy: collapse to the likelier outcome,
		// ties resolve to zero. Summing amplitudes leaves an even split a
		// hair off 0.5, so the comparison needs slack.
		if pOne > 0.5+probabilityTolerance {
			outcome = 1
		}
	} else if e.rng.Float64() < pOne {
		outcome = 1
	}

	// Project and renormalize.
	var norm float64
	for i := range e.state {
		bit := 0
		if uint64(i)&mask != 0 {
			bit = 1
		}
		if bit != outcome {
			e.state[i] = 0
		} else {
			norm += real(e.state[i])*real(e.state[i]) + imag(e.state[i])*imag(e.state[i])
		}
	}
	if norm > 0 {
		scale := complex(1/math.Sqrt(norm), 0)
		for i := range e.state {
			e.state[i] *= scale
		}
	}
	return outcome, nil
}

// Projection renders the non-negligible basis states, highest weight first
// position-ordered, for diagnostic tracing.
func (e *simEngine) Projection() string {
	var parts []string
	for i, amp := range e.state {
		p := cmplx.Abs(amp)
		if p*p < 1e-9 {
			continue
		}
		parts = append(parts, fmt.Sprintf("|%0*b⟩=%.3f", e.qubits, i, p*p))
	}
	if len(parts) == 0 {
		return "<empty>"
	}
	return strings.Join(parts, " ")
}

func (e *simEngine) Close() error {
	e.state = nil
	return nil
}
