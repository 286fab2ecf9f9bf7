// Package all registers every built-in storage backend. Import it for side
// effects:
//
//	import _ "verdict/internal/storage/all"
//
// after which storage.New accepts the kinds "postgres", "mysql", "mssql" and
// "sqlite".
package all

import (
	_ "verdict/internal/storage/mssql"
	_ "verdict/internal/storage/mysql"
	_ "verdict/internal/storage/postgres"
	_ "verdict/internal/storage/sqlite"
)
