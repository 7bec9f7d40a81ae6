package qir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

var textParser = participle.MustBuild[File](
	participle.Lexer(QIRLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
	participle.Unquote("String"),
)

// ParseText parses textual intermediate representation into a Module bound to
// the given context.
func ParseText(ctx *Context, name string, source string) (*Module, error) {
	file, err := textParser.ParseString(name, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return resolveModule(ctx, name, file)
}

// resolveModule lowers the parse tree into the module model. Attribute groups
// are collected first since they conventionally trail the functions that
// reference them.
func resolveModule(ctx *Context, name string, file *File) (*Module, error) {
	for _, decl := range file.Decls {
		switch {
		case decl.TypeDecl != nil:
			ctx.declareOpaqueType(strings.TrimPrefix(decl.TypeDecl.Name, "%"))
		case decl.Attrs != nil:
			group := make(map[string]string, len(decl.Attrs.Attrs))
			for _, item := range decl.Attrs.Attrs {
				if item.Value != nil {
					group[item.Key] = *item.Value
				} else {
					group[item.Key] = ""
				}
			}
			ctx.AttrGroups[decl.Attrs.ID] = group
		case decl.Source != nil:
			name = decl.Source.Name
		}
	}

	m := &Module{Name: name, ctx: ctx}
	for _, decl := range file.Decls {
		switch {
		case decl.Declare != nil:
			d := decl.Declare
			fn := &Function{
				Name:   strings.TrimPrefix(d.Name, "@"),
				Ret:    resolveType(d.Ret),
				Params: resolveParams(d.Params),
			}
			attachAttrs(ctx, fn, d.AttrRef)
			m.Funcs = append(m.Funcs, fn)
		case decl.Define != nil:
			fn, err := resolveFunction(ctx, decl.Define)
			if err != nil {
				return nil, err
			}
			m.Funcs = append(m.Funcs, fn)
		}
	}
	return m, nil
}

func resolveFunction(ctx *Context, def *FuncDef) (*Function, error) {
	fn := &Function{
		Name:    strings.TrimPrefix(def.Name, "@"),
		Linkage: def.Linkage,
		Ret:     resolveType(def.Ret),
		Params:  resolveParams(def.Params),
	}
	attachAttrs(ctx, fn, def.AttrRef)

	for _, b := range def.Blocks {
		block := &BasicBlock{Label: b.Label}
		for _, in := range b.Instrs {
			instr, err := resolveInstr(fn.Name, in)
			if err != nil {
				return nil, err
			}
			block.Instructions = append(block.Instructions, instr)
		}
		fn.Blocks = append(fn.Blocks, block)
	}
	return fn, nil
}

func attachAttrs(ctx *Context, fn *Function, ref *string) {
	if ref == nil {
		return
	}
	fn.AttrGroup = *ref
	if group, ok := ctx.AttrGroups[*ref]; ok {
		fn.Attrs = group
	}
}

func resolveParams(params []*ParamDecl) []Param {
	out := make([]Param, 0, len(params))
	for _, p := range params {
		out = append(out, Param{Name: p.Name, Type: resolveType(p.Type)})
	}
	return out
}

func resolveType(t *TypeRef) Type {
	if t == nil {
		return VoidType()
	}
	out := Type{Ptr: len(t.Stars)}
	switch {
	case t.Base == "void":
		out.Kind = TypeVoid
	case t.Base == "double":
		out.Kind = TypeDouble
	case strings.HasPrefix(t.Base, "%"):
		out.Kind = TypeOpaque
		out.Name = strings.TrimPrefix(t.Base, "%")
	default:
		out.Kind = TypeInt
		bits, _ := strconv.Atoi(strings.TrimPrefix(t.Base, "i"))
		out.Bits = bits
	}
	return out
}

func resolveInstr(fnName string, in *Instr) (*Instruction, error) {
	switch {
	case in.Assign != nil:
		instr, err := resolveRHS(fnName, in.Assign.Value)
		if err != nil {
			return nil, err
		}
		instr.Result = in.Assign.Result
		return instr, nil
	case in.VoidCall != nil:
		return resolveCall(in.VoidCall), nil
	case in.CondBr != nil:
		boolTy := IntTypeOf(1)
		cond := resolveOperand(in.CondBr.Cond, &boolTy)
		return &Instruction{
			Kind:    InstrCondBr,
			Cond:    &cond,
			Dest:    strings.TrimPrefix(in.CondBr.True, "%"),
			AltDest: strings.TrimPrefix(in.CondBr.False, "%"),
		}, nil
	case in.Br != nil:
		return &Instruction{Kind: InstrBr, Dest: strings.TrimPrefix(in.Br.Dest, "%")}, nil
	case in.Ret != nil:
		ty := resolveType(in.Ret.Type)
		instr := &Instruction{Kind: InstrRet, Type: ty}
		if ty.Kind != TypeVoid {
			if in.Ret.Val == nil {
				return nil, fmt.Errorf("%s: ret of type %s is missing a value", fnName, ty)
			}
			val := resolveOperand(in.Ret.Val, &ty)
			instr.RetVal = &val
		}
		return instr, nil
	}
	return nil, fmt.Errorf("%s: unrecognized instruction form", fnName)
}

func resolveRHS(fnName string, rhs *RHSExpr) (*Instruction, error) {
	switch {
	case rhs.Call != nil:
		return resolveCall(rhs.Call), nil
	case rhs.Cmp != nil:
		ty := resolveType(rhs.Cmp.Type)
		return &Instruction{
			Kind: InstrICmp,
			Op:   rhs.Cmp.Pred,
			Type: IntTypeOf(1),
			Args: []TypedOp{
				{Type: ty, Val: resolveOperand(rhs.Cmp.L, &ty)},
				{Type: ty, Val: resolveOperand(rhs.Cmp.R, &ty)},
			},
		}, nil
	case rhs.Bin != nil:
		ty := resolveType(rhs.Bin.Type)
		return &Instruction{
			Kind: InstrBinary,
			Op:   rhs.Bin.Op,
			Type: ty,
			Args: []TypedOp{
				{Type: ty, Val: resolveOperand(rhs.Bin.L, &ty)},
				{Type: ty, Val: resolveOperand(rhs.Bin.R, &ty)},
			},
		}, nil
	}
	return nil, fmt.Errorf("%s: unrecognized assignment form", fnName)
}

func resolveCall(call *CallExpr) *Instruction {
	instr := &Instruction{
		Kind:   InstrCall,
		Callee: strings.TrimPrefix(call.Callee, "@"),
		Type:   resolveType(call.Ret),
	}
	for _, arg := range call.Args {
		ty := resolveType(arg.Type)
		instr.Args = append(instr.Args, TypedOp{Type: ty, Val: resolveOperand(arg.Val, &ty)})
	}
	return instr
}

func resolveOperand(op *OperandExpr, ty *Type) Operand {
	switch {
	case op.IntToPtr != nil:
		target := resolveType(op.IntToPtr.Target)
		kind := OperandInt
		switch target.Name {
		case "Qubit":
			kind = OperandQubit
		case "Result":
			kind = OperandResult
		}
		return Operand{Kind: kind, Int: op.IntToPtr.Value}
	case op.Bool != nil:
		return Operand{Kind: OperandBool, Bool: *op.Bool == "true"}
	case op.Null:
		return Operand{Kind: OperandNull}
	case op.Float != nil:
		return Operand{Kind: OperandFloat, Float: *op.Float}
	case op.Int != nil:
		// A plain integer in i1 position is a boolean literal.
		if ty != nil && ty.Kind == TypeInt && ty.Bits == 1 {
			return Operand{Kind: OperandBool, Bool: *op.Int != 0}
		}
		return Operand{Kind: OperandInt, Int: *op.Int}
	case op.Local != nil:
		return Operand{Kind: OperandLocal, Local: *op.Local}
	}
	return Operand{Kind: OperandNull}
}
