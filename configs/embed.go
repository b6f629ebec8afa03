// Package configs provides the embedded configuration template for
// rolodex.
//
// The template is embedded at build time with go:embed so it ships with
// every distribution of the binary. `rolodex config init` writes it as a
// starting point for a .rolodex.yaml.
package configs

import _ "embed"

// ConfigTemplate is the annotated starting configuration written by
// `rolodex config init`.
//
//go:embed config.example.yaml
var ConfigTemplate string
