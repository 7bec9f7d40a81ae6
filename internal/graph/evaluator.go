package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"rasqal/internal/qir"
)

var log = commonlog.GetLogger("rasqal.graph")

const (
	qisPrefix = "__quantum__qis__"
	rtPrefix  = "__quantum__rt__"
)

// Evaluator lowers a verified module and a chosen entry function into an
// executable analysis graph. Every function reachable from the entry through
// direct calls is lowered; everything else is ignored.
type Evaluator struct {
	module    *qir.Module
	graph     *ExecutableAnalysisGraph
	nextQubit int64
	maxQubit  int64 // exclusive upper bound on static qubit ids
}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate builds the graph for entry within module.
func (e *Evaluator) Evaluate(module *qir.Module, entry *qir.Function) (*ExecutableAnalysisGraph, error) {
	e.module = module
	e.graph = &ExecutableAnalysisGraph{
		Name:      module.Name,
		EntryName: entry.Name,
		Functions: make(map[string]*FunctionGraph),
	}

	worklist := []*qir.Function{entry}
	for len(worklist) > 0 {
		fn := worklist[0]
		worklist = worklist[1:]
		if _, done := e.graph.Functions[fn.Name]; done {
			continue
		}
		log.Debugf("lowering function %s", fn.Name)
		fg, callees, err := e.lowerFunction(fn)
		if err != nil {
			return nil, err
		}
		e.graph.Functions[fn.Name] = fg
		for _, name := range callees {
			callee := module.Function(name)
			if callee == nil || callee.IsDeclaration() {
				return nil, fmt.Errorf("call to unknown function %q in %s", name, fn.Name)
			}
			worklist = append(worklist, callee)
		}
	}

	e.graph.RequiredQubits = int(e.maxQubit)
	if attr, ok := entry.GetStringAttribute("requiredQubits"); ok {
		if n, err := strconv.Atoi(attr); err == nil && n > e.graph.RequiredQubits {
			e.graph.RequiredQubits = n
		}
	}
	return e.graph, nil
}

// lowerFunction translates one function body, returning the names of defined
// functions it calls directly.
func (e *Evaluator) lowerFunction(fn *qir.Function) (*FunctionGraph, []string, error) {
	fg := &FunctionGraph{Name: fn.Name}
	for _, p := range fn.Params {
		fg.Params = append(fg.Params, p.Name)
	}

	var callees []string
	for _, block := range fn.Blocks {
		nb := &NodeBlock{Label: block.Label}
		for _, instr := range block.Instructions {
			nodes, callee, err := e.lowerInstruction(fn, instr)
			if err != nil {
				return nil, nil, err
			}
			if callee != "" {
				callees = append(callees, callee)
			}
			nb.Nodes = append(nb.Nodes, nodes...)
		}
		fg.Blocks = append(fg.Blocks, nb)
	}
	return fg, callees, nil
}

func (e *Evaluator) lowerInstruction(fn *qir.Function, instr *qir.Instruction) ([]*Node, string, error) {
	switch instr.Kind {
	case qir.InstrCall:
		return e.lowerCall(fn, instr)
	case qir.InstrBinary:
		return []*Node{{
			Kind:   NodeBinary,
			Op:     instr.Op,
			Result: instr.Result,
			Args:   []Operand{e.operand(instr.Args[0].Val), e.operand(instr.Args[1].Val)},
		}}, "", nil
	case qir.InstrICmp:
		return []*Node{{
			Kind:   NodeCompare,
			Op:     instr.Op,
			Result: instr.Result,
			Args:   []Operand{e.operand(instr.Args[0].Val), e.operand(instr.Args[1].Val)},
		}}, "", nil
	case qir.InstrBr:
		return []*Node{{Kind: NodeJump, Dest: instr.Dest}}, "", nil
	case qir.InstrCondBr:
		return []*Node{{
			Kind:    NodeCondJump,
			Args:    []Operand{e.operand(*instr.Cond)},
			Dest:    instr.Dest,
			AltDest: instr.AltDest,
		}}, "", nil
	case qir.InstrRet:
		node := &Node{Kind: NodeReturn}
		if instr.RetVal != nil {
			node.Args = []Operand{e.operand(*instr.RetVal)}
		}
		return []*Node{node}, "", nil
	}
	return nil, "", fmt.Errorf("unsupported instruction in %s", fn.Name)
}

func (e *Evaluator) lowerCall(fn *qir.Function, instr *qir.Instruction) ([]*Node, string, error) {
	callee := instr.Callee

	switch {
	case strings.HasPrefix(callee, qisPrefix):
		node, err := e.lowerIntrinsic(fn, instr)
		if err != nil {
			return nil, "", err
		}
		return []*Node{node}, "", nil

	case strings.HasPrefix(callee, rtPrefix):
		return e.lowerRuntimeCall(fn, instr)

	default:
		target := e.module.Function(callee)
		if target == nil || target.IsDeclaration() {
			return nil, "", fmt.Errorf("unknown quantum intrinsic %q in %s", callee, fn.Name)
		}
		node := &Node{Kind: NodeCall, Callee: callee, Result: instr.Result}
		for _, arg := range instr.Args {
			node.Args = append(node.Args, e.operand(arg.Val))
		}
		return []*Node{node}, callee, nil
	}
}

// lowerIntrinsic handles the quantum instruction set: gates and measurement.
func (e *Evaluator) lowerIntrinsic(fn *qir.Function, instr *qir.Instruction) (*Node, error) {
	name := strings.TrimPrefix(instr.Callee, qisPrefix)
	name = strings.TrimSuffix(strings.TrimSuffix(name, "__body"), "__adj")

	args := make([]Operand, 0, len(instr.Args))
	for _, arg := range instr.Args {
		args = append(args, e.operand(arg.Val))
	}

	switch name {
	case "m", "mz", "measure":
		// Two-operand form records into a static result id; the one-operand
		// form binds the measurement to the call's result local.
		switch len(args) {
		case 1:
			return &Node{Kind: NodeMeasure, Result: instr.Result, Args: args}, nil
		case 2:
			return &Node{Kind: NodeMeasure, Args: args}, nil
		default:
			return nil, fmt.Errorf("measurement %q takes 1 or 2 operands, got %d in %s", instr.Callee, len(args), fn.Name)
		}
	}

	spec, ok := LookupGate(name)
	if !ok {
		return nil, fmt.Errorf("unknown quantum intrinsic %q in %s", instr.Callee, fn.Name)
	}
	if len(args) != spec.Angles+spec.Qubits {
		return nil, fmt.Errorf("gate %q takes %d operands, got %d in %s", spec.Name, spec.Angles+spec.Qubits, len(args), fn.Name)
	}
	return &Node{Kind: NodeGate, Gate: spec.Name, Result: instr.Result, Args: args}, nil
}

func (e *Evaluator) lowerRuntimeCall(fn *qir.Function, instr *qir.Instruction) ([]*Node, string, error) {
	name := strings.TrimSuffix(strings.TrimPrefix(instr.Callee, rtPrefix), "__body")

	args := make([]Operand, 0, len(instr.Args))
	for _, arg := range instr.Args {
		args = append(args, e.operand(arg.Val))
	}

	switch name {
	case "initialize", "qubit_release", "tuple_record_output", "array_record_output", "result_record_output":
		return nil, "", nil
	case "read_result":
		return []*Node{{Kind: NodeReadResult, Result: instr.Result, Args: args}}, "", nil
	case "result_equal":
		return []*Node{{Kind: NodeCompare, Op: "eq", Result: instr.Result, Args: args}}, "", nil
	case "result_get_one":
		return []*Node{{Kind: NodeConst, Result: instr.Result, Args: []Operand{{Kind: OpBool, Bool: true}}}}, "", nil
	case "result_get_zero":
		return []*Node{{Kind: NodeConst, Result: instr.Result, Args: []Operand{{Kind: OpBool, Bool: false}}}}, "", nil
	case "qubit_allocate":
		id := e.nextQubit
		e.nextQubit++
		if e.nextQubit > e.maxQubit {
			e.maxQubit = e.nextQubit
		}
		return []*Node{{Kind: NodeConst, Result: instr.Result, Args: []Operand{{Kind: OpQubit, Int: id}}}}, "", nil
	}
	return nil, "", fmt.Errorf("unknown quantum intrinsic %q in %s", instr.Callee, fn.Name)
}

func (e *Evaluator) operand(v qir.Operand) Operand {
	switch v.Kind {
	case qir.OperandInt:
		return Operand{Kind: OpInt, Int: v.Int}
	case qir.OperandFloat:
		return Operand{Kind: OpFloat, Float: v.Float}
	case qir.OperandBool:
		return Operand{Kind: OpBool, Bool: v.Bool}
	case qir.OperandNull:
		return Operand{Kind: OpNull}
	case qir.OperandLocal:
		return Operand{Kind: OpLocal, Local: v.Local}
	case qir.OperandQubit:
		if v.Int+1 > e.maxQubit {
			e.maxQubit = v.Int + 1
		}
		return Operand{Kind: OpQubit, Int: v.Int}
	case qir.OperandResult:
		return Operand{Kind: OpResult, Int: v.Int}
	}
	return Operand{Kind: OpNull}
}
