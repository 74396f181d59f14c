// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contains the schema migrations applied at startup when
// storage.migrate is enabled.
//
//go:embed *.sql
var FS embed.FS
