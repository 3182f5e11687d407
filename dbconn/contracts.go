// Package dbconn defines the narrow trait-shaped contracts staging and the
// read/write commands consume to talk to an external database (spec.md
// §6), plus one concrete adapter, Neo4jConnector, grounded on
// lex00-wetwire-neo4j-go/internal/importer/neo4j.go's
// neo4j.DriverWithContext construction and session/query idiom. The
// orchestrator itself never opens a socket (spec.md §1 Non-goals); these
// contracts exist for staging and CLI commands that read/write tables the
// orchestrator then operates on in memory.
package dbconn

import "context"

// Datatype is the connector-reported column type (spec.md §6).
type Datatype int

const (
	DatatypeUnknown Datatype = iota
	DatatypeDoublePrecision
	DatatypeInteger
	DatatypeString
)

func (d Datatype) String() string {
	switch d {
	case DatatypeDoublePrecision:
		return "double_precision"
	case DatatypeInteger:
		return "integer"
	case DatatypeString:
		return "string"
	default:
		return "unknown"
	}
}

// TableContent is the paged table preview get_content returns, in the
// draw/start/length convention spec.md §6 names directly (DataTables
// server-side processing protocol: draw is echoed back so an out-of-order
// response can be discarded by the caller).
type TableContent struct {
	Draw            int
	RecordsTotal    int
	RecordsFiltered int
	Colnames        []string
	Rows            [][]string
}

// Connector is the database connector contract of spec.md §6.
type Connector interface {
	Dialect() string
	Describe() string

	Execute(ctx context.Context, sql string) error
	DropTable(ctx context.Context, name string) error

	ListTables(ctx context.Context) ([]string, error)
	GetColnamesFromTable(ctx context.Context, table string) ([]string, error)
	GetColtypesFromTable(ctx context.Context, table string, colnames []string) ([]Datatype, error)
	GetColnamesFromQuery(ctx context.Context, query string) ([]string, error)
	GetColtypesFromQuery(ctx context.Context, query string, colnames []string) ([]Datatype, error)
	GetNRows(ctx context.Context, table string) (int, error)
	GetContent(ctx context.Context, table string, draw, start, length int) (TableContent, error)

	Read(ctx context.Context, table string, skip int, reader Reader) error

	SelectTable(ctx context.Context, colnames []string, table, where string) (Iterator, error)
	SelectSQL(ctx context.Context, sql string) (Iterator, error)

	Close(ctx context.Context) error
}

// Iterator is the field-at-a-time cursor contract of spec.md §6. Iterators
// advance one field at a time, wrapping rows: calling a Get* method after
// the last column of a row advances to the first column of the next row.
type Iterator interface {
	End() bool
	Colnames() []string
	GetDouble() (float64, error)
	GetInt() (int64, error)
	GetString() (string, error)
	// GetTimeStamp parses against layouts, days-since-epoch per spec.md §6.
	GetTimeStamp(layouts []string) (float64, error)
}

// Reader is the bulk-ingest contract of spec.md §6, narrow enough that any
// delimited-text source (CSV, TSV) can implement it without pulling in a
// DataFrame.
type Reader interface {
	EOF() bool
	NextLine() ([]string, error)
	Colnames() []string
	Sep() rune
	Quotechar() rune
}
