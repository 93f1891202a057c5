package mdblog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/eringen/mdblog/content"
)

const postIndexSchema = "posts.schema.json"

var indexSchema struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// renderJSONIndex serializes posts as the public JSON index. An empty
// collection renders as [].
func renderJSONIndex(posts []content.Post) ([]byte, error) {
	if posts == nil {
		posts = []content.Post{}
	}
	out, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return nil, outputError("json index", err)
	}
	return out, nil
}

func compiledIndexSchema() (*jsonschema.Schema, error) {
	indexSchema.once.Do(func() {
		raw, err := EmbeddedAssets.ReadFile("embedded/" + postIndexSchema)
		if err != nil {
			indexSchema.err = err
			return
		}
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(postIndexSchema, bytes.NewReader(raw)); err != nil {
			indexSchema.err = err
			return
		}
		indexSchema.schema, indexSchema.err = compiler.Compile(postIndexSchema)
	})
	return indexSchema.schema, indexSchema.err
}

// validateJSONIndex checks a rendered JSON index against the embedded schema.
func validateJSONIndex(data []byte) error {
	schema, err := compiledIndexSchema()
	if err != nil {
		return fmt.Errorf("mdblog: compile index schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("mdblog: decode json index: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("mdblog: json index: %w", err)
	}
	return nil
}
