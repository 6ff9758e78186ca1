// Package schema compiles embedded JSON Schemas and validates raw documents
// against them.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator checks JSON documents against one compiled schema.
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

// Compile builds a Validator from schema source. name identifies the schema in
// error messages and acts as its resource URL.
func Compile(name string, source []byte) (*Validator, error) {
	url := "mem://" + name
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(source)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Validator{name: name, schema: compiled}, nil
}

// MustCompile is Compile for embedded schemas that are known to be valid.
func MustCompile(name string, source []byte) *Validator {
	v, err := Compile(name, source)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate parses data and checks it against the schema.
func (v *Validator) Validate(data []byte) error {
	var instance interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&instance); err != nil {
		return fmt.Errorf("%s: invalid json: %w", v.name, err)
	}
	if err := v.schema.Validate(instance); err != nil {
		return fmt.Errorf("%s: %w", v.name, err)
	}
	return nil
}
