// Package migrations embeds the schema scripts so the binary can bootstrap its own database.
package migrations

import "embed"

// Files holds the *.sql scripts in this directory.
//
//go:embed *.sql
var Files embed.FS
