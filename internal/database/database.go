// Package database embeds the schema migration files.
package database

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
