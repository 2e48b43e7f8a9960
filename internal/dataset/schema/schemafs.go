// Package schema provides the embedded sprint dataset JSON schema.
package schema

import "embed"

// SprintSchemaFS contains the embedded sprint dataset JSON schema.
//
//go:embed sprint-schema.json
var SprintSchemaFS embed.FS

// SprintSchemaFile is the schema file name within SprintSchemaFS.
const SprintSchemaFile = "sprint-schema.json"
