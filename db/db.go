// Package db embeds the schema migrations so the binary is self-contained.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
