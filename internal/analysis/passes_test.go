package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalDCERemovesUnreachableInternal(t *testing.T) {
	module := parseModule(t, `define internal void @dead() {
entry:
  ret void
}

define internal void @helper() {
entry:
  ret void
}

define void @main() {
entry:
  call void @helper()
  ret void
}
`)
	changed := (&GlobalDCE{}).Apply(module)
	assert.True(t, changed)
	assert.Nil(t, module.Function("dead"))
	assert.NotNil(t, module.Function("helper"), "reachable internal functions stay")
	assert.NotNil(t, module.Function("main"))
}

func TestGlobalDCEKeepsExternallyVisible(t *testing.T) {
	module := parseModule(t, `define void @main() {
entry:
  ret void
}

define void @alternate() {
entry:
  ret void
}
`)
	changed := (&GlobalDCE{}).Apply(module)
	assert.False(t, changed, "externally visible definitions are never removed")
	assert.NotNil(t, module.Function("alternate"))
}

func TestStripDeadPrototypes(t *testing.T) {
	module := parseModule(t, `declare void @used()
declare void @unused()

define void @main() {
entry:
  call void @used()
  ret void
}
`)
	changed := (&StripDeadPrototypes{}).Apply(module)
	assert.True(t, changed)
	assert.Nil(t, module.Function("unused"))
	assert.NotNil(t, module.Function("used"))
}

func TestNormalizationPipelineIsIdempotent(t *testing.T) {
	module := parseModule(t, `declare void @unused()

define internal void @dead() {
entry:
  ret void
}

define void @main() #0 {
entry:
  ret void
}

attributes #0 = { "entry_point" }
`)
	pipeline := NewNormalizationPipeline()
	pipeline.Run(module)
	require.Len(t, module.Functions(), 1)

	// A second run must be a no-op.
	pipeline.Run(module)
	assert.Len(t, module.Functions(), 1)
	assert.NotNil(t, module.Function("main"))
}

func TestStripDeadPrototypesKeepsDanglingCallTargets(t *testing.T) {
	// A prototype called by a dead body is still stripped once DCE has
	// removed the body; order in the pipeline matters.
	module := parseModule(t, `declare void @only_called_by_dead()

define internal void @dead() {
entry:
  call void @only_called_by_dead()
  ret void
}

define void @main() {
entry:
  ret void
}
`)
	NewNormalizationPipeline().Run(module)
	assert.Nil(t, module.Function("dead"))
	assert.Nil(t, module.Function("only_called_by_dead"))
	assert.NotNil(t, module.Function("main"))
}
