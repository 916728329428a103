// Package migrations embeds the SQL schema migrations for both storage
// backends. Files are applied in filename order by internal/migration.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
