package ddl

import (
	"strings"
	"testing"
)

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		def         TableDef
		dialect     Dialect
		wantSQL     string
		errContains string
	}{
		{
			name:        "empty FQN returns error",
			def:         TableDef{FQN: "", Columns: []ColumnDef{{Name: "id", SQLType: "INT"}}},
			errContains: "table FQN must not be empty",
		},
		{
			name:        "no columns returns error",
			def:         TableDef{FQN: "public.t"},
			errContains: "at least one column is required",
		},
		{
			name:        "column with empty name returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "", SQLType: "INT"}}},
			errContains: "column with empty name",
		},
		{
			name:        "column with empty type returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id"}}},
			errContains: "missing SQLType",
		},
		{
			name:    "zero dialect is plain",
			def:     TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id", SQLType: "INT", Nullable: true}}},
			wantSQL: "CREATE TABLE t (\n  id INT\n);",
		},
		{
			name: "default and primary key",
			def: TableDef{FQN: "t", Columns: []ColumnDef{
				{Name: "id", SQLType: "INT", Nullable: true, PrimaryKey: true},
				{Name: "created_at", SQLType: "TIMESTAMP", Default: "CURRENT_TIMESTAMP"},
			}},
			wantSQL: "CREATE TABLE t (\n  id INT NOT NULL,\n  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,\n  PRIMARY KEY (id)\n);",
		},
		{
			name:    "postgres quotes schema and table",
			def:     TableDef{FQN: "public.results", Columns: []ColumnDef{{Name: `we"ird`, SQLType: "TEXT", Nullable: true}}},
			dialect: Postgres,
			wantSQL: "CREATE TABLE IF NOT EXISTS \"public\".\"results\" (\n  \"we\"\"ird\" TEXT\n);",
		},
		{
			name:    "mysql uses backticks",
			def:     TableDef{FQN: "results", Columns: []ColumnDef{{Name: "passed", SQLType: "BOOLEAN"}}},
			dialect: MySQL,
			wantSQL: "CREATE TABLE IF NOT EXISTS `results` (\n  `passed` BOOLEAN NOT NULL\n);",
		},
		{
			name:    "mssql guards with OBJECT_ID",
			def:     TableDef{FQN: "dbo.results", Columns: []ColumnDef{{Name: "passed", SQLType: "BIT"}}},
			dialect: MSSQL,
			wantSQL: "IF OBJECT_ID(N'dbo.results', N'U') IS NULL\nCREATE TABLE [dbo].[results] (\n  [passed] BIT NOT NULL\n);",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := BuildCreateTableSQL(tt.def, tt.dialect)
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("BuildCreateTableSQL() error = %v, want containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildCreateTableSQL() unexpected error: %v", err)
			}
			if got != tt.wantSQL {
				t.Fatalf("BuildCreateTableSQL() SQL mismatch\n got: %q\nwant: %q", got, tt.wantSQL)
			}
		})
	}
}

func TestQuoting(t *testing.T) {
	t.Parallel()

	if got := Bracket("a]b"); got != "[a]]b]" {
		t.Fatalf("Bracket = %q", got)
	}
	if got := Backtick("a`b"); got != "`a``b`" {
		t.Fatalf("Backtick = %q", got)
	}
	if got := Postgres.FQN("s..t"); got != `"s"."t"` {
		t.Fatalf("FQN = %q", got)
	}
	if got := strings.Join(MySQL.Idents([]string{"a", "b"}), ","); got != "`a`,`b`" {
		t.Fatalf("Idents = %q", got)
	}
}
