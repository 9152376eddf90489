// Package migrations embeds the SQL schema migrations for the
// carbon14 analysis store.
package migrations

import "embed"

// FS holds the *.up.sql migration files.
//
//go:embed *.sql
var FS embed.FS
