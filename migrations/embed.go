// Package migrations embeds the versioned SQL schema for each supported backend.
package migrations

import "embed"

// FS holds sqlite/NNN_name.sql and postgres/NNN_name.sql scripts.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
