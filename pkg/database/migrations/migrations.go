// Package migrations embeds the goose SQL migrations. Statements stay in the
// subset postgres and sqlite both accept.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
