// Package schemas embeds the JSON Schemas for bench spec and test case
// YAML files plus exported run reports. The schemas are the single source
// of truth for what the `check` command accepts; Go struct validation
// covers run-time semantics the schemas cannot express.
package schemas

import _ "embed"

//go:embed bench.schema.json
var BenchSchemaJSON string

//go:embed case.schema.json
var CaseSchemaJSON string

//go:embed run.schema.json
var RunSchemaJSON string
