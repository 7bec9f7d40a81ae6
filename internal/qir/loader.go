package qir

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// LoadFile reads a program file and produces a Module bound to ctx. The
// decoding strategy is picked from the file extension: ".ll" is textual
// intermediate representation, ".bc" is the binary module encoding. Any other
// extension is rejected before the file is opened.
func LoadFile(fsys afero.Fs, ctx *Context, path string) (*Module, error) {
	switch ext := filepath.Ext(path); ext {
	case ".ll":
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return ParseText(ctx, path, string(data))
	case ".bc":
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return DecodeBitcode(ctx, path, data)
	default:
		return nil, fmt.Errorf("unsupported file extension %q", ext)
	}
}
