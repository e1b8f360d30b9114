// Where: assets/registry_embed.go
// What: Embed the stack registry document and its schema.
// Why: Ship the service table with the binary so it is fixed at build time.
package assets

import _ "embed"

//go:embed registry.yaml
var RegistryYAML []byte

//go:embed registry.schema.json
var RegistrySchemaJSON []byte
