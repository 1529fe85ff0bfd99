package migrations

import "embed"

// Migrations holds the SQL migration files applied by the sqlite driver.
//
//go:embed *.sql
var Migrations embed.FS
