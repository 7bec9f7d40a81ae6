package qir

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// The binary module encoding: a 4-byte magic followed by a msgpack payload.
// The loader keeps this codec behind LoadFile so it can be swapped without
// touching anything downstream of the Module model.
var bitcodeMagic = []byte("QBC1")

type bitcodePayload struct {
	Name       string
	Types      []string
	AttrGroups map[string]map[string]string
	Funcs      []*Function
}

// EncodeBitcode serializes a module into the binary form loaded from ".bc"
// files.
func EncodeBitcode(m *Module) ([]byte, error) {
	payload := bitcodePayload{
		Name:  m.Name,
		Funcs: m.Funcs,
	}
	if m.ctx != nil {
		payload.Types = m.ctx.OpaqueTypes
		payload.AttrGroups = m.ctx.AttrGroups
	}
	body, err := msgpack.Marshal(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode module %s: %w", m.Name, err)
	}
	return append(append([]byte{}, bitcodeMagic...), body...), nil
}

// DecodeBitcode parses the binary module encoding into a Module bound to ctx.
func DecodeBitcode(ctx *Context, name string, data []byte) (*Module, error) {
	if len(data) < len(bitcodeMagic) || !bytes.Equal(data[:len(bitcodeMagic)], bitcodeMagic) {
		return nil, fmt.Errorf("%s is not a bitcode module: bad magic", name)
	}
	var payload bitcodePayload
	if err := msgpack.Unmarshal(data[len(bitcodeMagic):], &payload); err != nil {
		return nil, fmt.Errorf("failed to decode bitcode module %s: %w", name, err)
	}

	for _, t := range payload.Types {
		ctx.declareOpaqueType(t)
	}
	for id, group := range payload.AttrGroups {
		ctx.AttrGroups[id] = group
	}

	m := &Module{Name: payload.Name, Funcs: payload.Funcs, ctx: ctx}
	for _, fn := range m.Funcs {
		if fn.AttrGroup != "" && fn.Attrs == nil {
			fn.Attrs = ctx.AttrGroups[fn.AttrGroup]
		}
	}
	return m, nil
}
