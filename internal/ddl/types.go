// Package ddl models table definitions and renders them as CREATE TABLE
// statements for the SQL dialects the storage backends speak.
package ddl

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - SQLType: target SQL type (e.g., TEXT, BIGINT, TIMESTAMPTZ)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name in dotted form ("schema.table") and an
// ordered list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Dialect controls identifier quoting and how "create if missing" is spelled.
// The zero Dialect renders unquoted identifiers and a plain CREATE TABLE.
type Dialect struct {
	// Quote quotes one identifier segment. Nil leaves identifiers as-is.
	Quote func(string) string

	// IfNotExists emits CREATE TABLE IF NOT EXISTS.
	IfNotExists bool

	// Guard, when set, wraps the finished statement instead; used by
	// dialects without IF NOT EXISTS. rawFQN is the unquoted dotted name.
	Guard func(rawFQN, stmt string) string
}

// DoubleQuote quotes like Postgres and SQLite: "name", with " doubled.
func DoubleQuote(id string) string { return quoteWith(id, `"`, `"`) }

// Backtick quotes like MySQL: `name`, with ` doubled.
func Backtick(id string) string { return quoteWith(id, "`", "`") }

// Bracket quotes like SQL Server: [name], with ] doubled.
func Bracket(id string) string { return quoteWith(id, "[", "]") }

var (
	Postgres = Dialect{Quote: DoubleQuote, IfNotExists: true}
	SQLite   = Dialect{Quote: DoubleQuote, IfNotExists: true}
	MySQL    = Dialect{Quote: Backtick, IfNotExists: true}
	MSSQL    = Dialect{Quote: Bracket, Guard: mssqlGuard}
)
