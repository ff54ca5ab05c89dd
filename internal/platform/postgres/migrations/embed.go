// Package migrations embeds the SQL migration files applied by goose at
// startup or via the server's -migrate flag.
package migrations

import "embed"

// FS holds the embedded migration files.
//
//go:embed *.sql
var FS embed.FS
