// Package migrations embeds the relational source schema as goose migrations,
// one directory per SQL dialect.
package migrations

import "embed"

// FS contains the embedded SQL migration files under postgres/ and sqlite/.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
