package swagger

import _ "embed"

// OpenAPI is the embedded OpenAPI document in YAML.
//
//go:embed openapi.yaml
var OpenAPI []byte
