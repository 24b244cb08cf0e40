// Package schema contains the embedded PostgreSQL migrations.
package schema

import "embed"

// MigrationsFS holds pgmigrations/*.sql, applied in name order by
// postgresdb.Migrate.
//
//go:embed pgmigrations/*.sql
var MigrationsFS embed.FS
