package analysis

import (
	"github.com/tliron/commonlog"

	"rasqal/internal/qir"
)

var log = commonlog.GetLogger("rasqal.analysis")

// Pass is a single module transformation.
type Pass interface {
	Name() string
	Apply(m *qir.Module) bool // reports whether anything changed
}

// Pipeline runs a fixed sequence of passes.
type Pipeline struct {
	passes []Pass
}

// NormalizeModule runs the fixed normalization pipeline over a verified
// module.
func NormalizeModule(m *qir.Module) {
	NewNormalizationPipeline().Run(m)
}

// NewNormalizationPipeline builds the fixed pipeline run after verification:
// the lowest optimization level, normalization only. It must not change
// program semantics for any well-formed module.
func NewNormalizationPipeline() *Pipeline {
	p := &Pipeline{}
	p.AddPass(&GlobalDCE{})
	p.AddPass(&StripDeadPrototypes{})
	return p
}

func (p *Pipeline) AddPass(pass Pass) {
	p.passes = append(p.passes, pass)
}

// Run executes the passes in order.
func (p *Pipeline) Run(m *qir.Module) {
	for _, pass := range p.passes {
		if pass.Apply(m) {
			log.Debugf("pass %s changed module %s", pass.Name(), m.Name)
		}
	}
}

// GlobalDCE removes internally-linked function definitions that are not
// reachable from any externally visible function. Externally visible
// definitions are always kept: they may still be selected by name.
type GlobalDCE struct{}

func (*GlobalDCE) Name() string { return "global-dce" }

func (*GlobalDCE) Apply(m *qir.Module) bool {
	reachable := make(map[string]bool)
	var visit func(fn *qir.Function)
	visit = func(fn *qir.Function) {
		if fn == nil || reachable[fn.Name] {
			return
		}
		reachable[fn.Name] = true
		for _, block := range fn.Blocks {
			for _, instr := range block.Instructions {
				if instr.Kind == qir.InstrCall {
					visit(m.Function(instr.Callee))
				}
			}
		}
	}
	for _, fn := range m.Functions() {
		if !fn.IsDeclaration() && fn.Linkage == "" {
			visit(fn)
		}
	}

	kept := m.Funcs[:0]
	changed := false
	for _, fn := range m.Funcs {
		if !fn.IsDeclaration() && fn.Linkage != "" && !reachable[fn.Name] {
			changed = true
			continue
		}
		kept = append(kept, fn)
	}
	m.Funcs = kept
	return changed
}

// StripDeadPrototypes removes declarations that no remaining body calls.
type StripDeadPrototypes struct{}

func (*StripDeadPrototypes) Name() string { return "strip-dead-prototypes" }

func (*StripDeadPrototypes) Apply(m *qir.Module) bool {
	called := make(map[string]bool)
	for _, fn := range m.Functions() {
		for _, block := range fn.Blocks {
			for _, instr := range block.Instructions {
				if instr.Kind == qir.InstrCall {
					called[instr.Callee] = true
				}
			}
		}
	}

	kept := m.Funcs[:0]
	changed := false
	for _, fn := range m.Funcs {
		if fn.IsDeclaration() && !called[fn.Name] {
			changed = true
			continue
		}
		kept = append(kept, fn)
	}
	m.Funcs = kept
	return changed
}
