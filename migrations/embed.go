// Package migrations embeds the SQL schema files so the migrate binary can
// run them from a single deployable artifact.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
