package superbvote

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed superbvote.schema.json
var schemaSource string

const schemaURL = "https://minecraftutils.local/schemas/superbvote.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
		return nil, fmt.Errorf("superbvote schema load failed: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("superbvote schema compile failed: %w", err)
	}
	return s, nil
})

// Verify checks cfg against the SuperbVote rewards schema.
func Verify(cfg *Config) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("superbvote: encode for verification: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("superbvote: decode for verification: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("superbvote: output failed schema validation: %w", err)
	}
	return nil
}

// Encode verifies cfg and serializes it as YAML.
func Encode(cfg *Config) ([]byte, error) {
	if err := Verify(cfg); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("superbvote: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("superbvote: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
