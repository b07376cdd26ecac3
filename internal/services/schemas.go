package services

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

type schemaName string

const (
	schemaProfile  schemaName = "profile"
	schemaPlaylist schemaName = "playlist"
	schemaSearch   schemaName = "search"
	schemaSnapshot schemaName = "snapshot"
)

const schemaBase = "https://schemas.spotdir.local/"

var schemaSources = map[schemaName]string{
	schemaProfile: `{
		"type": "object",
		"required": ["id"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"display_name": {"type": ["string", "null"]}
		}
	}`,
	schemaPlaylist: `{
		"type": "object",
		"required": ["id", "external_urls"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"name": {"type": "string"},
			"external_urls": {
				"type": "object",
				"required": ["spotify"],
				"properties": {"spotify": {"type": "string"}}
			}
		}
	}`,
	schemaSearch: `{
		"type": "object",
		"required": ["tracks"],
		"properties": {
			"tracks": {
				"type": "object",
				"required": ["items"],
				"properties": {
					"items": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["uri"],
							"properties": {"uri": {"type": "string", "minLength": 1}}
						}
					}
				}
			}
		}
	}`,
	schemaSnapshot: `{
		"type": "object",
		"properties": {"snapshot_id": {"type": "string"}}
	}`,
}

var compiledSchemas = sync.OnceValues(func() (map[schemaName]*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	for name, src := range schemaSources {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		if err := c.AddResource(schemaBase+string(name)+".json", doc); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
	}

	out := make(map[schemaName]*jsonschema.Schema, len(schemaSources))
	for name := range schemaSources {
		sch, err := c.Compile(schemaBase + string(name) + ".json")
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		out[name] = sch
	}
	return out, nil
})

func validate(name schemaName, raw []byte) error {
	schemas, err := compiledSchemas()
	if err != nil {
		return err
	}
	sch, ok := schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %s", name)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	return sch.Validate(inst)
}
