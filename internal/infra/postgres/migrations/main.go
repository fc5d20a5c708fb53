package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every schema change. Each file registers itself; bun takes
// the migration name from the registering file's name.
var Migrations = migrate.NewMigrations()
