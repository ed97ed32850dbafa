// Package migration holds the schema scripts of the activity journal.
package migration

import "embed"

//go:embed *.sql
var Scripts embed.FS
