// Package db embeds the SQL migrations so production builds can migrate
// without shipping the migration files separately. Built with the
// embed_migrations tag; development builds read db/migrations from disk.
package db

import "embed"

//go:embed migrations
var Migrations embed.FS
