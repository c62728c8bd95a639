// Package sqlite embeds the embedded-store schema migrations (goose format).
package sqlite

import "embed"

//go:embed *.sql
var Migrations embed.FS
