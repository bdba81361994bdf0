package datarecording

import (
	"context"
	"database/sql"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ErrUnmappedTable is returned when querying a table that has no struct type
// mapped to it.
var ErrUnmappedTable = errors.New("table is not mapped")

// QueryParams narrows a Query. Where and OrderBy are SQL fragments without
// their keywords, and Args fill the placeholders of Where. A zero Limit
// returns every row.
type QueryParams struct {
	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
}

// DataReader reads the tables of a recording back into structs.
type DataReader interface {
	// MapTable tells which struct type the rows of a table are read into.
	// Columns are matched to the exported fields by name.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the mapped tables, sorted.
	ListTables() []string

	// Query returns pointers to the structs of the matching rows, and the
	// number of rows that match regardless of Limit and Offset.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	// Close closes the database.
	Close() error
}

// Open opens an existing recording for reading.
func Open(path string) (DataReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(err, "opening recording")
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, errors.Wrapf(err, "opening recording %s", path)
	}

	return NewReaderWithDB(db), nil
}

// NewReaderWithDB creates a DataReader on a database that is already open.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		db:     db,
		tables: make(map[string]mappedTable),
	}
}

type mappedTable struct {
	structType reflect.Type
	columns    []string
	fields     []int
}

type sqliteReader struct {
	db     *sql.DB
	tables map[string]mappedTable
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	typ := reflect.TypeOf(sampleEntry)
	if typ == nil || typ.Kind() != reflect.Struct {
		panic(errors.Errorf("table %s: %v is not a struct", tableName, typ))
	}

	m := mappedTable{structType: typ}

	for i := 0; i < typ.NumField(); i++ {
		if !typ.Field(i).IsExported() {
			continue
		}

		m.columns = append(m.columns, quoteIdent(typ.Field(i).Name))
		m.fields = append(m.fields, i)
	}

	r.tables[tableName] = m
}

func (r *sqliteReader) ListTables() []string {
	tables := lo.Keys(r.tables)
	sort.Strings(tables)

	return tables
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	m, ok := r.tables[tableName]
	if !ok {
		return nil, 0, errors.Wrap(ErrUnmappedTable, tableName)
	}

	from := " FROM " + quoteIdent(tableName)
	if params.Where != "" {
		from += " WHERE " + params.Where
	}

	var total int

	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*)"+from, params.Args...).
		Scan(&total)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "counting rows of %s", tableName)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+strings.Join(m.columns, ", ")+from+pageClause(params),
		params.Args...)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "querying %s", tableName)
	}
	defer rows.Close()

	results, err := m.scan(rows)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "reading %s", tableName)
	}

	return results, total, nil
}

func pageClause(params QueryParams) string {
	var b strings.Builder

	if params.OrderBy != "" {
		b.WriteString(" ORDER BY " + params.OrderBy)
	}

	switch {
	case params.Limit > 0:
		b.WriteString(" LIMIT " + strconv.Itoa(params.Limit))
	case params.Offset > 0:
		// SQLite only accepts OFFSET after a LIMIT.
		b.WriteString(" LIMIT -1")
	}

	if params.Offset > 0 {
		b.WriteString(" OFFSET " + strconv.Itoa(params.Offset))
	}

	return b.String()
}

func (m mappedTable) scan(rows *sql.Rows) ([]any, error) {
	var results []any

	for rows.Next() {
		ptr := reflect.New(m.structType)
		targets := lo.Map(m.fields, func(field int, _ int) any {
			return ptr.Elem().Field(field).Addr().Interface()
		})

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, ptr.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteReader) Close() error {
	return r.db.Close()
}
