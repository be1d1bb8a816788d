package migrations

import "embed"

// FS holds the SQL migrations so binaries and tests do not depend on the working directory.
//
//go:embed *.sql
var FS embed.FS
