// Package schemas holds the JSON Schemas for the analysis service responses the client stores.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
