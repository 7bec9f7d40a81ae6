package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseEntryPointByMarker(t *testing.T) {
	module := parseModule(t, `define void @helper() {
entry:
  ret void
}

define void @program() #0 {
entry:
  ret void
}

attributes #0 = { "entry_point" }
`)
	entry, err := ChooseEntryPoint(module.Functions(), "")
	require.NoError(t, err)
	assert.Equal(t, "program", entry.Name)
}

func TestChooseEntryPointAlternateSpelling(t *testing.T) {
	module := parseModule(t, `define void @program() #0 {
entry:
  ret void
}

attributes #0 = { "EntryPoint" }
`)
	entry, err := ChooseEntryPoint(module.Functions(), "")
	require.NoError(t, err)
	assert.Equal(t, "program", entry.Name)
}

func TestChooseEntryPointNoneFound(t *testing.T) {
	module := parseModule(t, `define void @helper() {
entry:
  ret void
}
`)
	_, err := ChooseEntryPoint(module.Functions(), "")
	require.Error(t, err)
	assert.Equal(t, "no entry points found", err.Error())
}

func TestChooseEntryPointAmbiguous(t *testing.T) {
	module := parseModule(t, `define void @first() #0 {
entry:
  ret void
}

define void @second() #0 {
entry:
  ret void
}

attributes #0 = { "entry_point" }
`)
	_, err := ChooseEntryPoint(module.Functions(), "")
	require.Error(t, err)
	assert.Equal(t, "ambiguous entry point, specify a name", err.Error())
}

func TestChooseEntryPointByName(t *testing.T) {
	module := parseModule(t, `define void @first() #0 {
entry:
  ret void
}

define void @second() #0 {
entry:
  ret void
}

attributes #0 = { "entry_point" }
`)
	entry, err := ChooseEntryPoint(module.Functions(), "second")
	require.NoError(t, err)
	assert.Equal(t, "second", entry.Name)
}

func TestChooseEntryPointByNameIgnoresMarker(t *testing.T) {
	module := parseModule(t, `define void @plain() {
entry:
  ret void
}

define void @marked() #0 {
entry:
  ret void
}

attributes #0 = { "entry_point" }
`)
	entry, err := ChooseEntryPoint(module.Functions(), "plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", entry.Name, "name selection does not require the marker")
}

func TestChooseEntryPointUnknownName(t *testing.T) {
	module := parseModule(t, `define void @main() #0 {
entry:
  ret void
}

attributes #0 = { "entry_point" }
`)
	_, err := ChooseEntryPoint(module.Functions(), "absent")
	require.Error(t, err)
	assert.Equal(t, `no function named "absent"`, err.Error())
}

func TestIsEntryPoint(t *testing.T) {
	module := parseModule(t, `define void @marked() #0 {
entry:
  ret void
}

define void @plain() {
entry:
  ret void
}

attributes #0 = { "entry_point" }
`)
	assert.True(t, IsEntryPoint(module.Function("marked")))
	assert.False(t, IsEntryPoint(module.Function("plain")))
}
