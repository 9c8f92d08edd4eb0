// Package schemas holds the JSON Schemas of the catalog input and the
// allocation, candidate and recommendation outputs.
package schemas

import "embed"

// Files contains every *.schema.json in this directory.
//
//go:embed *.schema.json
var Files embed.FS
