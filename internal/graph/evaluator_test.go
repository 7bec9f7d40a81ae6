package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rasqal/internal/qir"
)

const bellSource = `source_filename = "bell"

%Qubit = type opaque
%Result = type opaque

declare void @__quantum__qis__h__body(%Qubit*)
declare void @__quantum__qis__cnot__body(%Qubit*, %Qubit*)
declare void @__quantum__qis__mz__body(%Qubit*, %Result*)
declare i1 @__quantum__rt__read_result(%Result*)

define i1 @main() #0 {
entry:
  call void @__quantum__qis__h__body(%Qubit* inttoptr (i64 0 to %Qubit*))
  call void @__quantum__qis__cnot__body(%Qubit* inttoptr (i64 0 to %Qubit*), %Qubit* inttoptr (i64 1 to %Qubit*))
  call void @__quantum__qis__mz__body(%Qubit* inttoptr (i64 0 to %Qubit*), %Result* inttoptr (i64 0 to %Result*))
  %0 = call i1 @__quantum__rt__read_result(%Result* inttoptr (i64 0 to %Result*))
  ret i1 %0
}

attributes #0 = { "entry_point" "requiredQubits"="2" }
`

func lower(t *testing.T, source string, entry string) *ExecutableAnalysisGraph {
	t.Helper()
	module, err := qir.ParseText(qir.NewContext(), "test.ll", source)
	require.NoError(t, err)
	fn := module.Function(entry)
	require.NotNil(t, fn)
	g, err := NewEvaluator().Evaluate(module, fn)
	require.NoError(t, err)
	return g
}

func TestEvaluateBell(t *testing.T) {
	g := lower(t, bellSource, "main")

	assert.Equal(t, "bell", g.Name)
	assert.Equal(t, "main", g.EntryName)
	assert.Equal(t, 2, g.RequiredQubits)

	entry := g.EntryFunction()
	require.NotNil(t, entry)
	block := entry.Entry()
	require.NotNil(t, block)
	require.Len(t, block.Nodes, 5)

	h := block.Nodes[0]
	assert.Equal(t, NodeGate, h.Kind)
	assert.Equal(t, "h", h.Gate)
	require.Len(t, h.Args, 1)
	assert.Equal(t, OpQubit, h.Args[0].Kind)

	cnot := block.Nodes[1]
	assert.Equal(t, NodeGate, cnot.Kind)
	assert.Equal(t, "cnot", cnot.Gate)
	assert.Len(t, cnot.Args, 2)

	mz := block.Nodes[2]
	assert.Equal(t, NodeMeasure, mz.Kind)
	require.Len(t, mz.Args, 2)
	assert.Equal(t, OpResult, mz.Args[1].Kind)
	assert.Empty(t, mz.Result, "two-operand measurement binds no local")

	read := block.Nodes[3]
	assert.Equal(t, NodeReadResult, read.Kind)
	assert.Equal(t, "%0", read.Result)

	ret := block.Nodes[4]
	assert.Equal(t, NodeReturn, ret.Kind)
	require.Len(t, ret.Args, 1)
	assert.Equal(t, OpLocal, ret.Args[0].Kind)
}

func TestEvaluateRequiredQubitsFromOperands(t *testing.T) {
	source := `%Qubit = type opaque

declare void @__quantum__qis__x__body(%Qubit*)

define void @main() {
entry:
  call void @__quantum__qis__x__body(%Qubit* inttoptr (i64 4 to %Qubit*))
  ret void
}
`
	g := lower(t, source, "main")
	assert.Equal(t, 5, g.RequiredQubits, "qubit ids are zero-based")
}

func TestEvaluateRequiredQubitsAttributeWins(t *testing.T) {
	source := `%Qubit = type opaque

declare void @__quantum__qis__x__body(%Qubit*)

define void @main() #0 {
entry:
  call void @__quantum__qis__x__body(%Qubit* inttoptr (i64 0 to %Qubit*))
  ret void
}

attributes #0 = { "entry_point" "requiredQubits"="7" }
`
	g := lower(t, source, "main")
	assert.Equal(t, 7, g.RequiredQubits)
}

func TestEvaluateUnknownIntrinsic(t *testing.T) {
	source := `%Qubit = type opaque

declare void @__quantum__qis__warp__body(%Qubit*)

define void @main() {
entry:
  call void @__quantum__qis__warp__body(%Qubit* inttoptr (i64 0 to %Qubit*))
  ret void
}
`
	module, err := qir.ParseText(qir.NewContext(), "test.ll", source)
	require.NoError(t, err)
	_, err = NewEvaluator().Evaluate(module, module.Function("main"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown quantum intrinsic "__quantum__qis__warp__body"`)
}

func TestEvaluateLowersReachableCallees(t *testing.T) {
	source := `%Qubit = type opaque

declare void @__quantum__qis__h__body(%Qubit*)

define internal void @prepare() {
entry:
  call void @__quantum__qis__h__body(%Qubit* inttoptr (i64 0 to %Qubit*))
  ret void
}

define internal void @ignored() {
entry:
  ret void
}

define void @main() {
entry:
  call void @prepare()
  ret void
}
`
	g := lower(t, source, "main")
	assert.Len(t, g.Functions, 2)
	assert.Contains(t, g.Functions, "prepare")
	assert.NotContains(t, g.Functions, "ignored")

	call := g.EntryFunction().Entry().Nodes[0]
	assert.Equal(t, NodeCall, call.Kind)
	assert.Equal(t, "prepare", call.Callee)
}

func TestEvaluateSkipsRuntimeBookkeeping(t *testing.T) {
	source := `declare void @__quantum__rt__initialize(i8*)
declare %Result* @__quantum__rt__result_get_one()

%Result = type opaque

define void @main() {
entry:
  call void @__quantum__rt__initialize(i8* null)
  %one = call %Result* @__quantum__rt__result_get_one()
  ret void
}
`
	g := lower(t, source, "main")
	block := g.EntryFunction().Entry()
	require.Len(t, block.Nodes, 2, "initialize lowers to nothing")

	one := block.Nodes[0]
	assert.Equal(t, NodeConst, one.Kind)
	assert.Equal(t, "%one", one.Result)
	require.Len(t, one.Args, 1)
	assert.Equal(t, OpBool, one.Args[0].Kind)
	assert.True(t, one.Args[0].Bool)
}

func TestEvaluateQubitAllocation(t *testing.T) {
	source := `%Qubit = type opaque

declare %Qubit* @__quantum__rt__qubit_allocate()
declare void @__quantum__rt__qubit_release(%Qubit*)
declare void @__quantum__qis__x__body(%Qubit*)

define void @main() {
entry:
  %q0 = call %Qubit* @__quantum__rt__qubit_allocate()
  %q1 = call %Qubit* @__quantum__rt__qubit_allocate()
  call void @__quantum__qis__x__body(%Qubit* %q1)
  call void @__quantum__rt__qubit_release(%Qubit* %q0)
  ret void
}
`
	g := lower(t, source, "main")
	assert.Equal(t, 2, g.RequiredQubits)

	block := g.EntryFunction().Entry()
	q0 := block.Nodes[0]
	assert.Equal(t, NodeConst, q0.Kind)
	assert.Equal(t, OpQubit, q0.Args[0].Kind)
	assert.Equal(t, int64(0), q0.Args[0].Int)

	q1 := block.Nodes[1]
	assert.Equal(t, int64(1), q1.Args[0].Int)
}
