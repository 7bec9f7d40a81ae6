// Package analysis validates and normalizes loaded modules and resolves the
// entry point execution starts from.
package analysis

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"rasqal/internal/qir"
)

// VerifyModule checks the structural well-formedness of a module. All
// violations are accumulated and reported together. A failed verification is
// terminal for the parse attempt; nothing downstream runs on an invalid
// module.
func VerifyModule(m *qir.Module) error {
	v := &verifier{module: m}
	for _, fn := range m.Functions() {
		if fn.IsDeclaration() {
			v.checkAttrGroup(fn)
			continue
		}
		v.checkFunction(fn)
	}
	return v.errs.ErrorOrNil()
}

type verifier struct {
	module *qir.Module
	errs   *multierror.Error
}

func (v *verifier) addError(format string, args ...any) {
	v.errs = multierror.Append(v.errs, fmt.Errorf(format, args...))
}

func (v *verifier) checkAttrGroup(fn *qir.Function) {
	if fn.AttrGroup == "" {
		return
	}
	if _, ok := v.module.Context().AttrGroups[fn.AttrGroup]; !ok {
		v.addError("%s references undefined attribute group %s", fn.Name, fn.AttrGroup)
	}
}

func (v *verifier) checkFunction(fn *qir.Function) {
	v.checkAttrGroup(fn)

	if len(fn.Blocks) == 0 {
		v.addError("%s has a body with no blocks", fn.Name)
		return
	}

	labels := make(map[string]bool, len(fn.Blocks))
	for _, block := range fn.Blocks {
		if labels[block.Label] {
			v.addError("%s has duplicate block label %q", fn.Name, block.Label)
		}
		labels[block.Label] = true
	}

	// Locals are checked in linear block order; params are always defined.
	defined := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		if p.Name != "" {
			defined[p.Name] = true
		}
	}

	for _, block := range fn.Blocks {
		v.checkBlock(fn, block, labels, defined)
	}
}

func (v *verifier) checkBlock(fn *qir.Function, block *qir.BasicBlock, labels map[string]bool, defined map[string]bool) {
	if len(block.Instructions) == 0 {
		v.addError("%s: block %q is empty", fn.Name, block.Label)
		return
	}

	for i, instr := range block.Instructions {
		terminator := instr.Kind == qir.InstrBr || instr.Kind == qir.InstrCondBr || instr.Kind == qir.InstrRet
		last := i == len(block.Instructions)-1
		if terminator && !last {
			v.addError("%s: block %q has a terminator before its end", fn.Name, block.Label)
		}
		if last && !terminator {
			v.addError("%s: block %q is not terminated", fn.Name, block.Label)
		}

		v.checkInstruction(fn, block, instr, labels, defined)

		if instr.Result != "" {
			defined[instr.Result] = true
		}
	}
}

func (v *verifier) checkInstruction(fn *qir.Function, block *qir.BasicBlock, instr *qir.Instruction, labels map[string]bool, defined map[string]bool) {
	for _, arg := range instr.Args {
		v.checkOperand(fn, block, arg.Val, defined)
	}
	if instr.Cond != nil {
		v.checkOperand(fn, block, *instr.Cond, defined)
	}
	if instr.RetVal != nil {
		v.checkOperand(fn, block, *instr.RetVal, defined)
	}

	switch instr.Kind {
	case qir.InstrCall:
		callee := v.module.Function(instr.Callee)
		if callee == nil {
			v.addError("%s: call to undeclared function @%s", fn.Name, instr.Callee)
		} else if len(callee.Params) != len(instr.Args) {
			v.addError("%s: call to @%s passes %d arguments, expected %d",
				fn.Name, instr.Callee, len(instr.Args), len(callee.Params))
		}
	case qir.InstrBr:
		if !labels[instr.Dest] {
			v.addError("%s: branch to undefined label %%%s", fn.Name, instr.Dest)
		}
	case qir.InstrCondBr:
		if !labels[instr.Dest] {
			v.addError("%s: branch to undefined label %%%s", fn.Name, instr.Dest)
		}
		if !labels[instr.AltDest] {
			v.addError("%s: branch to undefined label %%%s", fn.Name, instr.AltDest)
		}
	}
}

func (v *verifier) checkOperand(fn *qir.Function, block *qir.BasicBlock, op qir.Operand, defined map[string]bool) {
	if op.Kind == qir.OperandLocal && !defined[op.Local] {
		v.addError("%s: block %q uses undefined local %s", fn.Name, block.Label, op.Local)
	}
}
