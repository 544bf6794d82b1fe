package migrations

import "embed"

// FS contiene los scripts SQL que aplica db.RunMigrations.
//
//go:embed *.sql
var FS embed.FS
