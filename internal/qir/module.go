package qir

import (
	"fmt"
	"strings"
)

// Context owns state shared by every module resolved against it: opaque type
// declarations and attribute groups. A Module borrows from its Context, so the
// Context must outlive any Module it produced.
type Context struct {
	OpaqueTypes []string
	AttrGroups  map[string]map[string]string
}

func NewContext() *Context {
	return &Context{
		AttrGroups: make(map[string]map[string]string),
	}
}

func (c *Context) declareOpaqueType(name string) {
	for _, t := range c.OpaqueTypes {
		if t == name {
			return
		}
	}
	c.OpaqueTypes = append(c.OpaqueTypes, name)
}

// Module is the parsed, resolved representation of one program. It is built
// once per load and not mutated afterwards except by the normalization passes.
type Module struct {
	Name  string
	Funcs []*Function

	ctx *Context
}

// Functions returns the module's functions in declaration order, prototypes
// included.
func (m *Module) Functions() []*Function {
	return m.Funcs
}

// Function returns the function with the given name, or nil.
func (m *Module) Function(name string) *Function {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (m *Module) Context() *Context {
	return m.ctx
}

type Function struct {
	Name    string
	Linkage string // "", "internal" or "private"
	Ret     Type
	Params  []Param
	Blocks  []*BasicBlock

	// AttrGroup is the raw attribute-group reference ("#0"), kept so the
	// verifier can check that it resolves; Attrs is the resolved view.
	AttrGroup string
	Attrs     map[string]string
}

type Param struct {
	Name string
	Type Type
}

// IsDeclaration reports whether the function is a bodyless prototype.
func (f *Function) IsDeclaration() bool {
	return len(f.Blocks) == 0
}

// GetStringAttribute returns a function-level string attribute by exact name.
func (f *Function) GetStringAttribute(name string) (string, bool) {
	v, ok := f.Attrs[name]
	return v, ok
}

type BasicBlock struct {
	Label        string
	Instructions []*Instruction
}

// Terminator returns the block's final instruction, or nil for an empty block.
func (b *BasicBlock) Terminator() *Instruction {
	if len(b.Instructions) == 0 {
		return nil
	}
	return b.Instructions[len(b.Instructions)-1]
}

type InstrKind int

const (
	InstrCall InstrKind = iota
	InstrBinary
	InstrICmp
	InstrBr
	InstrCondBr
	InstrRet
)

type Instruction struct {
	Kind InstrKind

	Result string // assigned local ("%0"), empty for void forms
	Type   Type   // result type (call/binary/icmp) or returned type (ret)

	Callee string    // call target, sigil stripped
	Op     string    // binary opcode or icmp predicate
	Args   []TypedOp // call arguments or the two binary/icmp operands

	Cond    *Operand // conditional branch condition
	Dest    string   // branch target label
	AltDest string   // false target of a conditional branch

	RetVal *Operand // nil for `ret void`
}

type TypedOp struct {
	Type Type
	Val  Operand
}

// Operand is a fully resolved instruction operand.
type Operand struct {
	Kind  OperandKind
	Int   int64
	Float float64
	Bool  bool
	Local string
}

type OperandKind int

const (
	OperandInt OperandKind = iota
	OperandFloat
	OperandBool
	OperandNull
	OperandLocal
	OperandQubit
	OperandResult
)

func (v Operand) String() string {
	switch v.Kind {
	case OperandInt:
		return fmt.Sprintf("%d", v.Int)
	case OperandFloat:
		return fmt.Sprintf("%g", v.Float)
	case OperandBool:
		return fmt.Sprintf("%t", v.Bool)
	case OperandNull:
		return "null"
	case OperandLocal:
		return v.Local
	case OperandQubit:
		return fmt.Sprintf("qubit(%d)", v.Int)
	case OperandResult:
		return fmt.Sprintf("result(%d)", v.Int)
	}
	return "<unknown>"
}

type TypeKind int

const (
	TypeVoid TypeKind = iota
	TypeInt
	TypeDouble
	TypeOpaque
)

type Type struct {
	Kind TypeKind
	Bits int    // integer width
	Name string // opaque type name, sigil stripped
	Ptr  int    // pointer depth
}

func (t Type) String() string {
	var base string
	switch t.Kind {
	case TypeVoid:
		base = "void"
	case TypeInt:
		base = fmt.Sprintf("i%d", t.Bits)
	case TypeDouble:
		base = "double"
	case TypeOpaque:
		base = "%" + t.Name
	}
	return base + strings.Repeat("*", t.Ptr)
}

func VoidType() Type          { return Type{Kind: TypeVoid} }
func IntTypeOf(bits int) Type { return Type{Kind: TypeInt, Bits: bits} }
