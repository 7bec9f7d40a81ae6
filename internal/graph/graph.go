// Package graph holds the executable analysis graph: the backend-independent
// compiled form of one program, built once from a verified module and treated
// as opaque, ready-to-execute state by everything downstream.
package graph

import "fmt"

type NodeKind int

const (
	NodeGate NodeKind = iota
	NodeMeasure
	NodeReadResult
	NodeConst
	NodeBinary
	NodeCompare
	NodeCall
	NodeJump
	NodeCondJump
	NodeReturn
)

type Node struct {
	Kind NodeKind

	Gate   string    // gate family for NodeGate
	Op     string    // opcode for NodeBinary / predicate for NodeCompare
	Result string    // local bound to the node's value, if any
	Args   []Operand // operands; for NodeGate: angles first, then qubits
	Callee string    // subgraph name for NodeCall

	Dest    string // jump target label
	AltDest string // false target of a conditional jump
}

type OperandKind int

const (
	OpInt OperandKind = iota
	OpFloat
	OpBool
	OpNull
	OpLocal
	OpQubit
	OpResult
)

type Operand struct {
	Kind  OperandKind
	Int   int64
	Float float64
	Bool  bool
	Local string
}

func (o Operand) String() string {
	switch o.Kind {
	case OpInt:
		return fmt.Sprintf("%d", o.Int)
	case OpFloat:
		return fmt.Sprintf("%g", o.Float)
	case OpBool:
		return fmt.Sprintf("%t", o.Bool)
	case OpNull:
		return "null"
	case OpLocal:
		return o.Local
	case OpQubit:
		return fmt.Sprintf("qubit(%d)", o.Int)
	case OpResult:
		return fmt.Sprintf("result(%d)", o.Int)
	}
	return "<unknown>"
}

// NodeBlock is one straight-line run of nodes ending in a jump or return.
type NodeBlock struct {
	Label string
	Nodes []*Node
}

// FunctionGraph is the lowered form of one function.
type FunctionGraph struct {
	Name   string
	Params []string
	Blocks []*NodeBlock

	blockIndex map[string]*NodeBlock
}

// Block returns the block with the given label, or nil.
func (fg *FunctionGraph) Block(label string) *NodeBlock {
	if fg.blockIndex == nil {
		fg.blockIndex = make(map[string]*NodeBlock, len(fg.Blocks))
		for _, b := range fg.Blocks {
			fg.blockIndex[b.Label] = b
		}
	}
	return fg.blockIndex[label]
}

// Entry returns the function's entry block.
func (fg *FunctionGraph) Entry() *NodeBlock {
	if len(fg.Blocks) == 0 {
		return nil
	}
	return fg.Blocks[0]
}

// ExecutableAnalysisGraph is the unit of work handed to a runtime: every
// reachable function lowered to node blocks, plus the capability footprint a
// backend must satisfy.
type ExecutableAnalysisGraph struct {
	Name           string
	EntryName      string
	Functions      map[string]*FunctionGraph
	RequiredQubits int
}

// EntryFunction returns the graph of the program's entry point.
func (g *ExecutableAnalysisGraph) EntryFunction() *FunctionGraph {
	return g.Functions[g.EntryName]
}
