// Package migrations embeds the SQL migration files so the server
// binary can create its own schema on startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
