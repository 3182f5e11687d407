package dbconn

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/relauto/engine/core"
)

// Neo4jConfig configures a Neo4jConnector, mirroring
// lex00-wetwire-neo4j-go/internal/importer/neo4j.go's Neo4jConfig shape.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

// Neo4jConnector implements Connector against a Neo4j graph database,
// treating every node label as a "table" and its sampled properties as
// columns — a demonstration adapter (spec.md §1 Non-goals scope the
// orchestrator itself away from owning any socket), grounded on the
// neo4j.DriverWithContext construction/session/query idiom.
type Neo4jConnector struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jConnector dials Neo4j and verifies connectivity, exactly as
// NewNeo4jImporter does.
func NewNeo4jConnector(ctx context.Context, cfg Neo4jConfig) (*Neo4jConnector, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("dbconn: neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("dbconn: neo4j connect: %w", err)
	}
	database := cfg.Database
	if database == "" {
		database = "neo4j"
	}
	return &Neo4jConnector{driver: driver, database: database}, nil
}

func (c *Neo4jConnector) session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database})
}

func (c *Neo4jConnector) Dialect() string  { return "neo4j" }
func (c *Neo4jConnector) Describe() string { return fmt.Sprintf("neo4j database %q", c.database) }

func (c *Neo4jConnector) Close(ctx context.Context) error { return c.driver.Close(ctx) }

// Execute runs an arbitrary Cypher statement, discarding its result.
func (c *Neo4jConnector) Execute(ctx context.Context, cypher string) error {
	session := c.session(ctx)
	defer session.Close(ctx)
	_, err := session.Run(ctx, cypher, nil)
	return err
}

// DropTable deletes every node carrying label name.
func (c *Neo4jConnector) DropTable(ctx context.Context, name string) error {
	return c.Execute(ctx, fmt.Sprintf("MATCH (n:`%s`) DETACH DELETE n", name))
}

// ListTables returns every node label, exactly as Neo4jImporter.fetchNodeLabels does.
func (c *Neo4jConnector) ListTables(ctx context.Context) ([]string, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, "CALL db.labels()", nil)
	if err != nil {
		return nil, err
	}
	var labels []string
	for result.Next(ctx) {
		if label, ok := result.Record().Values[0].(string); ok {
			labels = append(labels, label)
		}
	}
	return labels, result.Err()
}

// GetColnamesFromTable samples one node of the given label and returns its
// property keys, the same sampling strategy fetchPropertiesForLabel uses.
func (c *Neo4jConnector) GetColnamesFromTable(ctx context.Context, table string) ([]string, error) {
	props, err := c.sampleProperties(ctx, table)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	return names, nil
}

func (c *Neo4jConnector) GetColtypesFromTable(ctx context.Context, table string, colnames []string) ([]Datatype, error) {
	props, err := c.sampleProperties(ctx, table)
	if err != nil {
		return nil, err
	}
	out := make([]Datatype, len(colnames))
	for i, col := range colnames {
		out[i] = inferDatatype(props[col])
	}
	return out, nil
}

func (c *Neo4jConnector) sampleProperties(ctx context.Context, label string) (map[string]any, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf("MATCH (n:`%s`) RETURN n LIMIT 1", label)
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	props := map[string]any{}
	if result.Next(ctx) {
		if node, ok := result.Record().Values[0].(neo4j.Node); ok {
			props = node.Props
		}
	}
	return props, result.Err()
}

func inferDatatype(value any) Datatype {
	switch value.(type) {
	case int64, int:
		return DatatypeInteger
	case float64, float32:
		return DatatypeDoublePrecision
	case string:
		return DatatypeString
	default:
		return DatatypeUnknown
	}
}

// GetColnamesFromQuery runs query as given and reports the bound result's
// column names.
func (c *Neo4jConnector) GetColnamesFromQuery(ctx context.Context, query string) ([]string, error) {
	session := c.session(ctx)
	defer session.Close(ctx)
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	return result.Keys()
}

func (c *Neo4jConnector) GetColtypesFromQuery(ctx context.Context, query string, colnames []string) ([]Datatype, error) {
	session := c.session(ctx)
	defer session.Close(ctx)
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Datatype, len(colnames))
	if result.Next(ctx) {
		record := result.Record()
		for i, col := range colnames {
			v, _ := record.Get(col)
			out[i] = inferDatatype(v)
		}
	}
	return out, result.Err()
}

func (c *Neo4jConnector) GetNRows(ctx context.Context, table string) (int, error) {
	session := c.session(ctx)
	defer session.Close(ctx)
	query := fmt.Sprintf("MATCH (n:`%s`) RETURN count(n) AS n", table)
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return 0, err
	}
	if result.Next(ctx) {
		n, _ := result.Record().Get("n")
		if v, ok := n.(int64); ok {
			return int(v), nil
		}
	}
	return 0, result.Err()
}

// GetContent pages through label's nodes using the draw/start/length
// convention spec.md §6 names directly.
func (c *Neo4jConnector) GetContent(ctx context.Context, table string, draw, start, length int) (TableContent, error) {
	total, err := c.GetNRows(ctx, table)
	if err != nil {
		return TableContent{}, err
	}
	colnames, err := c.GetColnamesFromTable(ctx, table)
	if err != nil {
		return TableContent{}, err
	}

	session := c.session(ctx)
	defer session.Close(ctx)
	query := fmt.Sprintf("MATCH (n:`%s`) RETURN n SKIP $start LIMIT $length", table)
	result, err := session.Run(ctx, query, map[string]any{"start": start, "length": length})
	if err != nil {
		return TableContent{}, err
	}

	var rows [][]string
	for result.Next(ctx) {
		node, ok := result.Record().Values[0].(neo4j.Node)
		if !ok {
			continue
		}
		row := make([]string, len(colnames))
		for i, col := range colnames {
			row[i] = toString(node.Props[col])
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return TableContent{}, err
	}

	return TableContent{
		Draw:            draw,
		RecordsTotal:    total,
		RecordsFiltered: total,
		Colnames:        colnames,
		Rows:            rows,
	}, nil
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Read bulk-ingests reader's rows as nodes carrying label table, skipping
// the first skip rows.
func (c *Neo4jConnector) Read(ctx context.Context, table string, skip int, reader Reader) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	colnames := reader.Colnames()
	for i := 0; i < skip && !reader.EOF(); i++ {
		if _, err := reader.NextLine(); err != nil {
			return err
		}
	}
	for !reader.EOF() {
		line, err := reader.NextLine()
		if err != nil {
			return err
		}
		props := make(map[string]any, len(colnames))
		for i, col := range colnames {
			if i < len(line) {
				props[col] = line[i]
			}
		}
		query := fmt.Sprintf("CREATE (n:`%s`) SET n = $props", table)
		if _, err := session.Run(ctx, query, map[string]any{"props": props}); err != nil {
			return err
		}
	}
	return nil
}

// SelectTable builds a parameterized MATCH ... WHERE ... RETURN query over
// colnames and wraps the resulting cursor in a Neo4jIterator.
func (c *Neo4jConnector) SelectTable(ctx context.Context, colnames []string, table, where string) (Iterator, error) {
	projected := make([]string, len(colnames))
	for i, col := range colnames {
		projected[i] = fmt.Sprintf("n.`%s` AS `%s`", col, col)
	}
	query := fmt.Sprintf("MATCH (n:`%s`)", table)
	if where != "" {
		query += " WHERE " + where
	}
	query += " RETURN " + strings.Join(projected, ", ")
	return c.SelectSQL(ctx, query)
}

// SelectSQL runs a raw Cypher query (named SelectSQL to satisfy Connector's
// spec.md §6 "select(sql)" overload; the query language is Cypher, not SQL,
// for this adapter).
func (c *Neo4jConnector) SelectSQL(ctx context.Context, query string) (Iterator, error) {
	session := c.session(ctx)
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		session.Close(ctx)
		return nil, err
	}
	keys, err := result.Keys()
	if err != nil {
		session.Close(ctx)
		return nil, err
	}
	return &Neo4jIterator{ctx: ctx, session: session, result: result, colnames: keys}, nil
}

// Neo4jIterator implements Iterator over a neo4j.ResultWithContext,
// advancing one field at a time within the current record and pulling a new
// record once every field has been read (spec.md §6 "Iterators advance one
// field at a time, wrapping rows").
type Neo4jIterator struct {
	ctx      context.Context
	session  neo4j.SessionWithContext
	result   neo4j.ResultWithContext
	colnames []string

	record *neo4j.Record
	col    int
	done   bool
}

func (it *Neo4jIterator) Colnames() []string { return it.colnames }

func (it *Neo4jIterator) ensureRecord() bool {
	if it.record != nil && it.col < len(it.colnames) {
		return true
	}
	if !it.result.Next(it.ctx) {
		it.done = true
		it.session.Close(it.ctx)
		return false
	}
	record := it.result.Record()
	it.record = record
	it.col = 0
	return true
}

func (it *Neo4jIterator) End() bool {
	if it.done {
		return true
	}
	return !it.ensureRecord()
}

func (it *Neo4jIterator) nextValue() (any, error) {
	if it.End() {
		return nil, fmt.Errorf("dbconn: neo4j iterator: read past end: %w", core.ErrIndexOutOfBounds)
	}
	v := it.record.Values[it.col]
	it.col++
	return v, nil
}

func (it *Neo4jIterator) GetDouble() (float64, error) {
	v, err := it.nextValue()
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("dbconn: neo4j iterator: %v is not a double: %w", v, core.ErrTypeMismatch)
	}
}

func (it *Neo4jIterator) GetInt() (int64, error) {
	v, err := it.nextValue()
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case int64:
		return x, nil
	case float64:
		return int64(x), nil
	default:
		return 0, fmt.Errorf("dbconn: neo4j iterator: %v is not an int: %w", v, core.ErrTypeMismatch)
	}
}

func (it *Neo4jIterator) GetString() (string, error) {
	v, err := it.nextValue()
	if err != nil {
		return "", err
	}
	return toString(v), nil
}

// GetTimeStamp parses the field as a string against layouts and returns
// days since the Unix epoch, per spec.md §6.
func (it *Neo4jIterator) GetTimeStamp(layouts []string) (float64, error) {
	s, err := it.GetString()
	if err != nil {
		return 0, err
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return float64(t.Unix()) / 86400.0, nil
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return 0, fmt.Errorf("dbconn: neo4j iterator: %q matches none of %d layouts: %w", s, len(layouts), core.ErrDataError)
}
