// Package file provides file-based configuration adapters.
//
// Adapters:
//   - ConfigLoader: layered configuration from defaults, TOML, .env and the environment
//   - PromptStore: user-editable prompt templates
package file
