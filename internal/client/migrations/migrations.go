// Package migrations embeds the goose migrations of the local store.
// Migrations only ever add tables and indexes.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
