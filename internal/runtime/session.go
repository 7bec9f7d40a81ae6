package runtime

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"rasqal/internal/config"
	"rasqal/internal/graph"
)

var log = commonlog.GetLogger("rasqal.runtime")

// Session executes one analysis graph. A session is scoped to a single run:
// it is constructed fresh per execution and never reused. It enforces the
// configuration's limits and uses the runtime collection's capability
// matching to acquire a backend on first quantum use.
type Session struct {
	ID       uuid.UUID
	runtimes *RuntimeCollection
	cfg      *config.RasqalConfig

	g       *graph.ExecutableAnalysisGraph
	engine  Engine
	results map[int64]int
	steps   int64
}

func NewSession(runtimes *RuntimeCollection, cfg *config.RasqalConfig) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Session{
		ID:       uuid.New(),
		runtimes: runtimes,
		cfg:      cfg,
		results:  make(map[int64]int),
	}
}

// Execute runs the graph with the given arguments and returns the program's
// result value, which may be absent.
func (s *Session) Execute(g *graph.ExecutableAnalysisGraph, args []Value) (*Value, error) {
	entry := g.EntryFunction()
	if entry == nil {
		return nil, fmt.Errorf("graph %s has no entry function", g.Name)
	}
	if len(args) != len(entry.Params) {
		return nil, fmt.Errorf("entry point %s takes %d arguments, got %d", entry.Name, len(entry.Params), len(args))
	}

	s.g = g
	log.Infof("session %s executing %s", s.ID, g.Name)
	defer func() {
		if s.engine != nil {
			s.engine.Close()
		}
	}()
	return s.executeFunction(entry, args)
}

func (s *Session) executeFunction(fg *graph.FunctionGraph, args []Value) (*Value, error) {
	locals := make(map[string]Value, len(fg.Params))
	for i, name := range fg.Params {
		if name != "" {
			locals[name] = args[i]
		}
	}

	block := fg.Entry()
	if block == nil {
		return nil, fmt.Errorf("function %s has no blocks", fg.Name)
	}

	for {
		var next *graph.NodeBlock
		for _, node := range block.Nodes {
			if err := s.countStep(); err != nil {
				return nil, err
			}

			switch node.Kind {
			case graph.NodeGate:
				if err := s.executeGate(node, locals); err != nil {
					return nil, err
				}

			case graph.NodeMeasure:
				if err := s.executeMeasure(node, locals); err != nil {
					return nil, err
				}

			case graph.NodeReadResult:
				v, err := s.resolve(node.Args[0], locals)
				if err != nil {
					return nil, err
				}
				locals[node.Result] = Bool(v.AsBool())

			case graph.NodeConst:
				v, err := s.resolve(node.Args[0], locals)
				if err != nil {
					return nil, err
				}
				locals[node.Result] = v

			case graph.NodeBinary:
				v, err := s.executeBinary(node, locals)
				if err != nil {
					return nil, err
				}
				locals[node.Result] = v

			case graph.NodeCompare:
				v, err := s.executeCompare(node, locals)
				if err != nil {
					return nil, err
				}
				locals[node.Result] = v

			case graph.NodeCall:
				callee := s.g.Functions[node.Callee]
				if callee == nil {
					return nil, fmt.Errorf("call to unknown function %q", node.Callee)
				}
				callArgs := make([]Value, 0, len(node.Args))
				for _, arg := range node.Args {
					v, err := s.resolve(arg, locals)
					if err != nil {
						return nil, err
					}
					callArgs = append(callArgs, v)
				}
				ret, err := s.executeFunction(callee, callArgs)
				if err != nil {
					return nil, err
				}
				if node.Result != "" {
					if ret == nil {
						return nil, fmt.Errorf("call to %s expected a value, got none", node.Callee)
					}
					locals[node.Result] = *ret
				}

			case graph.NodeJump:
				next = fg.Block(node.Dest)
				if next == nil {
					return nil, fmt.Errorf("jump to unknown block %q in %s", node.Dest, fg.Name)
				}

			case graph.NodeCondJump:
				cond, err := s.resolve(node.Args[0], locals)
				if err != nil {
					return nil, err
				}
				dest := node.Dest
				if !cond.AsBool() {
					dest = node.AltDest
				}
				next = fg.Block(dest)
				if next == nil {
					return nil, fmt.Errorf("jump to unknown block %q in %s", dest, fg.Name)
				}

			case graph.NodeReturn:
				if len(node.Args) == 0 {
					return nil, nil
				}
				v, err := s.resolve(node.Args[0], locals)
				if err != nil {
					return nil, err
				}
				return &v, nil
			}

			if next != nil {
				break
			}
		}

		if next == nil {
			return nil, fmt.Errorf("block %q in %s fell through without a terminator", block.Label, fg.Name)
		}
		block = next
	}
}

func (s *Session) countStep() error {
	s.steps++
	if limit := s.cfg.StepCountLimit; limit != nil && s.steps > *limit {
		return fmt.Errorf("step count limit exceeded (limit %d)", *limit)
	}
	return nil
}

// ensureEngine acquires a backend from the collection on first quantum use.
func (s *Session) ensureEngine() error {
	if s.engine != nil {
		return nil
	}
	features := QuantumFeatures{QubitCount: s.g.RequiredQubits}
	rt := s.runtimes.FindCapable(features)
	if rt == nil {
		return fmt.Errorf("no capable runtime found for features %s", features)
	}
	log.Infof("dispatching to %s (%s)", rt.Name(), features)
	engine, err := rt.Open(features.QubitCount, ExecutionOptions{
		Seed:          s.cfg.Seed,
		Deterministic: s.cfg.ActivateSolver,
	})
	if err != nil {
		return err
	}
	s.engine = engine
	return nil
}

func (s *Session) executeGate(node *graph.Node, locals map[string]Value) error {
	if err := s.ensureEngine(); err != nil {
		return err
	}

	spec, _ := graph.LookupGate(node.Gate)
	op := GateOp{Gate: node.Gate}
	for i, arg := range node.Args {
		v, err := s.resolve(arg, locals)
		if err != nil {
			return err
		}
		if i < spec.Angles {
			op.Angle = v.AsDouble()
		} else {
			op.Qubits = append(op.Qubits, int(v.AsInt()))
		}
	}
	if err := s.engine.ApplyGate(op); err != nil {
		return err
	}
	s.trace(node.Gate)
	return nil
}

func (s *Session) executeMeasure(node *graph.Node, locals map[string]Value) error {
	if err := s.ensureEngine(); err != nil {
		return err
	}

	qubit, err := s.resolve(node.Args[0], locals)
	if err != nil {
		return err
	}
	bit, err := s.engine.Measure(int(qubit.AsInt()))
	if err != nil {
		return err
	}
	s.trace("measure")

	if len(node.Args) > 1 {
		// Two-operand form: record under the static result id.
		if node.Args[1].Kind != graph.OpResult {
			return fmt.Errorf("measurement target is not a result reference")
		}
		s.results[node.Args[1].Int] = bit
	}
	if node.Result != "" {
		locals[node.Result] = Bool(bit == 1)
	}
	return nil
}

func (s *Session) executeBinary(node *graph.Node, locals map[string]Value) (Value, error) {
	l, err := s.resolve(node.Args[0], locals)
	if err != nil {
		return Value{}, err
	}
	r, err := s.resolve(node.Args[1], locals)
	if err != nil {
		return Value{}, err
	}

	a, b := l.AsInt(), r.AsInt()
	switch node.Op {
	case "add":
		return Int(a + b), nil
	case "sub":
		return Int(a - b), nil
	case "mul":
		return Int(a * b), nil
	case "sdiv":
		if b == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return Int(a / b), nil
	case "and":
		return Int(a & b), nil
	case "or":
		return Int(a | b), nil
	case "xor":
		return Int(a ^ b), nil
	}
	return Value{}, fmt.Errorf("unsupported binary op %q", node.Op)
}

func (s *Session) executeCompare(node *graph.Node, locals map[string]Value) (Value, error) {
	l, err := s.resolve(node.Args[0], locals)
	if err != nil {
		return Value{}, err
	}
	r, err := s.resolve(node.Args[1], locals)
	if err != nil {
		return Value{}, err
	}

	switch node.Op {
	case "eq":
		return Bool(l.Equal(r)), nil
	case "ne":
		return Bool(!l.Equal(r)), nil
	case "slt":
		return Bool(l.AsInt() < r.AsInt()), nil
	case "sgt":
		return Bool(l.AsInt() > r.AsInt()), nil
	case "sle":
		return Bool(l.AsInt() <= r.AsInt()), nil
	case "sge":
		return Bool(l.AsInt() >= r.AsInt()), nil
	}
	return Value{}, fmt.Errorf("unsupported comparison %q", node.Op)
}

// resolve materializes an operand. Result references resolve to the bit
// previously recorded for that id, defaulting to zero.
func (s *Session) resolve(op graph.Operand, locals map[string]Value) (Value, error) {
	switch op.Kind {
	case graph.OpInt:
		return Int(op.Int), nil
	case graph.OpFloat:
		return Double(op.Float), nil
	case graph.OpBool:
		return Bool(op.Bool), nil
	case graph.OpNull:
		return Int(0), nil
	case graph.OpQubit:
		return Qubit(op.Int), nil
	case graph.OpResult:
		return Bool(s.results[op.Int] == 1), nil
	case graph.OpLocal:
		v, ok := locals[op.Local]
		if !ok {
			return Value{}, fmt.Errorf("use of undefined local %s", op.Local)
		}
		return v, nil
	}
	return Value{}, fmt.Errorf("unresolvable operand")
}

func (s *Session) trace(what string) {
	if s.cfg.TraceProjections && s.engine != nil {
		log.Debugf("session %s after %s: %s", s.ID, what, s.engine.Projection())
	}
}
