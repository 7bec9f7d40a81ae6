package qir

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileText(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "bell.ll", []byte(bellSource), 0644))

	module, err := LoadFile(fsys, NewContext(), "bell.ll")
	require.NoError(t, err)
	assert.Equal(t, "bell", module.Name)
	assert.NotNil(t, module.Function("main"))
}

func TestLoadFileBitcode(t *testing.T) {
	ctx := NewContext()
	module, err := ParseText(ctx, "bell.ll", bellSource)
	require.NoError(t, err)

	encoded, err := EncodeBitcode(module)
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "bell.bc", encoded, 0644))

	decoded, err := LoadFile(fsys, NewContext(), "bell.bc")
	require.NoError(t, err)
	assert.Equal(t, module.Name, decoded.Name)
	assert.Len(t, decoded.Functions(), len(module.Functions()))

	main := decoded.Function("main")
	require.NotNil(t, main)
	_, ok := main.GetStringAttribute("entry_point")
	assert.True(t, ok, "attributes should survive the round trip")
	require.Len(t, main.Blocks, 1)
	assert.Len(t, main.Blocks[0].Instructions, 5)
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "bell.qir", []byte(bellSource), 0644))

	_, err := LoadFile(fsys, NewContext(), "bell.qir")
	require.Error(t, err)
	assert.Equal(t, `unsupported file extension ".qir"`, err.Error())
}

func TestLoadFileMissing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_, err := LoadFile(fsys, NewContext(), "absent.ll")
	require.Error(t, err)
}

func TestDecodeBitcodeBadMagic(t *testing.T) {
	_, err := DecodeBitcode(NewContext(), "junk.bc", []byte("not a module"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad magic")
}
