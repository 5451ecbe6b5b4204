// Package schemas embeds the JSON Schemas describing the engine's documents.
package schemas

import "embed"

// FS holds every *.schema.json file.
//
//go:embed *.schema.json
var FS embed.FS
