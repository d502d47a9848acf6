// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds the size of documents accepted by Unify (1MB).
const DefaultMaxFileSize int64 = 1 << 20

// Unify compiles data, unifies it with the definition named by def in
// schema and validates the result. Non-concrete values are allowed so that
// documents may leave optional fields out. Errors carry filename and the
// path of the failing field.
func Unify(schema string, data []byte, def, filename string) (cue.Value, error) {
	if err := CheckFileSize(data, DefaultMaxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(schema)
	if err := schemaValue.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", err)
	}
	root := schemaValue.LookupPath(cue.ParsePath(def))
	if err := root.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", def, err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if err := userValue.Err(); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}

	unified := root.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}
	return unified, nil
}

// DecodeMap is Unify followed by decoding into a generic map.
func DecodeMap(schema string, data []byte, def, filename string) (map[string]any, error) {
	v, err := Unify(schema, data, def, filename)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := v.Decode(&out); err != nil {
		return nil, FormatError(err, filename)
	}
	return out, nil
}
