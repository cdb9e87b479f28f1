// Package schemas embeds the JSON schemas skillbench validates against.
package schemas

import _ "embed"

// TestsSchemaJSON describes the test suite an LLM returns for a skill.
//
//go:embed tests.schema.json
var TestsSchemaJSON string

// ConfigSchemaJSON describes .skillbench.yaml.
//
//go:embed config.schema.json
var ConfigSchemaJSON string
