// Package execution is the orchestration core: it takes a program from file
// path to result value, sequencing loading, verification, normalization,
// entry-point resolution, graph building and dispatch, with every stage
// inside a failure-containment boundary.
package execution

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/tliron/commonlog"

	"rasqal/internal/analysis"
	"rasqal/internal/config"
	"rasqal/internal/graph"
	"rasqal/internal/panics"
	"rasqal/internal/qir"
	"rasqal/internal/runtime"
)

var log = commonlog.GetLogger("rasqal.execution")

// RunFile executes the program in the given file: the full pipeline plus
// execution, in one containment scope. entryPoint may be empty to use
// auto-detection. The result value may be absent.
func RunFile(fsys afero.Fs, path string, args []runtime.Value, runtimes *runtime.RuntimeCollection, entryPoint string, cfg *config.RasqalConfig) (*runtime.Value, error) {
	return panics.Catch(func() (*runtime.Value, error) {
		g, err := ParseFile(fsys, path, entryPoint)
		if err != nil {
			return nil, err
		}
		return RunGraph(g, args, runtimes, cfg)
	})
}

// ParseFile loads a .ll/.bc file and builds its executable analysis graph.
func ParseFile(fsys afero.Fs, path string, entryPoint string) (*graph.ExecutableAnalysisGraph, error) {
	return panics.Catch(func() (*graph.ExecutableAnalysisGraph, error) {
		log.Infof("parsing from %s", path)
		ctx := qir.NewContext()
		module, err := qir.LoadFile(fsys, ctx, path)
		if err != nil {
			return nil, err
		}
		return BuildGraphFromModule(module, entryPoint)
	})
}

// BuildGraphFromModule verifies and normalizes a module, resolves its entry
// point and lowers it into an executable analysis graph.
func BuildGraphFromModule(module *qir.Module, entryPoint string) (*graph.ExecutableAnalysisGraph, error) {
	return panics.Catch(func() (*graph.ExecutableAnalysisGraph, error) {
		if err := analysis.VerifyModule(module); err != nil {
			return nil, fmt.Errorf("failed to verify module: %w", err)
		}

		analysis.NormalizeModule(module)
		runtime.InitializeNativeTargets()

		entry, err := analysis.ChooseEntryPoint(module.Functions(), entryPoint)
		if err != nil {
			return nil, err
		}
		log.Infof("%s is the entry point", entry.Name)

		return graph.NewEvaluator().Evaluate(module, entry)
	})
}

// RunGraph executes a prebuilt graph through a fresh session bound to the
// runtime collection and configuration. Session state is never reused across
// calls.
func RunGraph(g *graph.ExecutableAnalysisGraph, args []runtime.Value, runtimes *runtime.RuntimeCollection, cfg *config.RasqalConfig) (*runtime.Value, error) {
	session := runtime.NewSession(runtimes, cfg)
	return panics.Catch(func() (*runtime.Value, error) {
		return session.Execute(g, args)
	})
}
