// Package postgres embeds the PostgreSQL schema migrations (goose format).
package postgres

import "embed"

//go:embed *.sql
var Migrations embed.FS
