// Package script loads YAML update scripts and compiles them into update
// parts. The script layer plays the role of the external expression
// evaluator: path expressions like ".items[0].qty" are parsed here into
// literal key/index steps, so the update engine itself never sees anything
// but resolved segments.
package script

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/constable/internal/codec"
	"github.com/roach88/constable/internal/cval"
	"github.com/roach88/constable/internal/update"
)

//go:embed schema.cue
var schemaCUE string

// Script is a parsed, schema-validated update script. Values and arguments
// stay as YAML nodes until Compile, so member order inside literal values is
// preserved all the way into construction.
type Script struct {
	Parts []PartSpec
}

// PartSpec is one raw part: either Set+Value or Call+Method+Args.
type PartSpec struct {
	Set   string     `yaml:"set,omitempty"`
	Value *yaml.Node `yaml:"value,omitempty"`

	Call   string       `yaml:"call,omitempty"`
	Method string       `yaml:"method,omitempty"`
	Args   []*yaml.Node `yaml:"args,omitempty"`
}

// ScriptError reports a script that does not satisfy the schema.
type ScriptError struct {
	File    string
	Message string
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s: invalid update script: %s", e.File, e.Message)
}

// Parse validates data against the embedded CUE schema and decodes it.
// The filename is used in diagnostics only.
func Parse(filename string, data []byte) (*Script, error) {
	if err := validateSchema(filename, data); err != nil {
		return nil, err
	}

	var raw struct {
		Parts []PartSpec `yaml:"parts"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ScriptError{File: filename, Message: err.Error()}
	}
	return &Script{Parts: raw.Parts}, nil
}

// validateSchema unifies the document with #Script and reports the first
// violation with its position.
func validateSchema(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile script schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return &ScriptError{File: filename, Message: err.Error()}
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return &ScriptError{File: filename, Message: cueerrors.Details(err, nil)}
	}

	unified := schema.LookupPath(cue.ParsePath("#Script")).Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &ScriptError{File: filename, Message: cueerrors.Details(err, nil)}
	}
	return nil
}

// Compile resolves every part against a realm: paths parse into literal
// steps and literal values construct as canonical values.
func (s *Script) Compile(r *cval.Realm) ([]update.Part, error) {
	parts := make([]update.Part, 0, len(s.Parts))
	for i, p := range s.Parts {
		switch {
		case p.Set != "" || p.Value != nil:
			path, err := ParsePath(p.Set)
			if err != nil {
				return nil, fmt.Errorf("part %d: %w", i, err)
			}
			if p.Value == nil {
				return nil, fmt.Errorf("part %d: set without value", i)
			}
			v, err := codec.FromYAMLNode(r, p.Value)
			if err != nil {
				return nil, fmt.Errorf("part %d: %w", i, err)
			}
			parts = append(parts, update.Assignment{Path: path, Value: v})
		case p.Method != "":
			path, err := ParsePath(p.Call)
			if err != nil {
				return nil, fmt.Errorf("part %d: %w", i, err)
			}
			args := make([]cval.Value, len(p.Args))
			for j, a := range p.Args {
				v, err := codec.FromYAMLNode(r, a)
				if err != nil {
					return nil, fmt.Errorf("part %d arg %d: %w", i, j, err)
				}
				args[j] = v
			}
			parts = append(parts, update.Call{Path: path, Method: p.Method, Args: args})
		default:
			return nil, fmt.Errorf("part %d: neither set nor call", i)
		}
	}
	return parts, nil
}
