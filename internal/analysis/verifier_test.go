package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rasqal/internal/qir"
)

func parseModule(t *testing.T, source string) *qir.Module {
	t.Helper()
	module, err := qir.ParseText(qir.NewContext(), "test.ll", source)
	require.NoError(t, err)
	return module
}

func TestVerifyWellFormedModule(t *testing.T) {
	module := parseModule(t, `declare void @noop()

define void @main() #0 {
entry:
  call void @noop()
  ret void
}

attributes #0 = { "entry_point" }
`)
	assert.NoError(t, VerifyModule(module))
}

func TestVerifyUndefinedAttributeGroup(t *testing.T) {
	module := parseModule(t, `define void @main() #7 {
entry:
  ret void
}
`)
	err := VerifyModule(module)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined attribute group #7")
}

func TestVerifyUnterminatedBlock(t *testing.T) {
	module := parseModule(t, `declare void @noop()

define void @main() {
entry:
  call void @noop()
}
`)
	err := VerifyModule(module)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not terminated")
}

func TestVerifyBranchToUndefinedLabel(t *testing.T) {
	module := parseModule(t, `define void @main() {
entry:
  br label %nowhere
}
`)
	err := VerifyModule(module)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `branch to undefined label %nowhere`)
}

func TestVerifyCallToUndeclaredFunction(t *testing.T) {
	module := parseModule(t, `define void @main() {
entry:
  call void @ghost()
  ret void
}
`)
	err := VerifyModule(module)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "call to undeclared function @ghost")
}

func TestVerifyCallArity(t *testing.T) {
	module := parseModule(t, `declare void @unary(i64)

define void @main() {
entry:
  call void @unary(i64 1, i64 2)
  ret void
}
`)
	err := VerifyModule(module)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passes 2 arguments, expected 1")
}

func TestVerifyUndefinedLocal(t *testing.T) {
	module := parseModule(t, `define i64 @main() {
entry:
  %sum = add i64 %missing, 1
  ret i64 %sum
}
`)
	err := VerifyModule(module)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uses undefined local %missing")
}

func TestVerifyAccumulatesViolations(t *testing.T) {
	module := parseModule(t, `define void @main() {
entry:
  br label %nowhere
}

define void @other() {
entry:
  call void @ghost()
  ret void
}
`)
	err := VerifyModule(module)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nowhere")
	assert.Contains(t, err.Error(), "ghost")
}

func TestVerifyDuplicateLabels(t *testing.T) {
	module := parseModule(t, `define void @main() {
entry:
  br label %entry
entry:
  ret void
}
`)
	err := VerifyModule(module)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate block label "entry"`)
}
