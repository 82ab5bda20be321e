package postgres

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"sedeges/ms_hojas_ruta/internal/core/backup"
)

// Header is the first line of every dump. Restore refuses files without it.
const Header = "-- ms_hojas_ruta backup v1"

// maxLineSize bounds a single dumped row.
const maxLineSize = 16 << 20

// ErrInvalidDump is returned when a file is not a dump produced by Dump.
var ErrInvalidDump = backup.ErrInvalidDump

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Dumper writes the application tables as one SQL statement per row. Rows are
// serialized with row_to_json and replayed with json_populate_record, so column
// types round-trip without a per-table column list.
type Dumper struct {
	pool   *pgxpool.Pool
	tables []string
	log    *slog.Logger
}

// NewDumper creates a dumper over tables, given in dependency order.
func NewDumper(pool *pgxpool.Pool, tables []string, log *slog.Logger) backup.Dumper {
	return &Dumper{pool: pool, tables: tables, log: log}
}

// Dump writes every row of every table to w.
func (d *Dumper) Dump(ctx context.Context, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n-- generated %s\n", Header, time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintln(bw, truncateStatement(d.tables))

	for _, table := range d.tables {
		count, err := d.dumpTable(ctx, bw, table)
		if err != nil {
			return err
		}
		d.log.Info("table dumped", "table", table, "rows", count)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush dump: %w", err)
	}
	return nil
}

func (d *Dumper) dumpTable(ctx context.Context, w io.Writer, table string) (int, error) {
	rows, err := d.pool.Query(ctx, `SELECT row_to_json(t)::text FROM `+pq.QuoteIdentifier(table)+` t`)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var row string
		if err := rows.Scan(&row); err != nil {
			return count, fmt.Errorf("scan %s: %w", table, err)
		}
		if _, err := fmt.Fprintln(w, insertStatement(table, row)); err != nil {
			return count, fmt.Errorf("write %s: %w", table, err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("iterate %s: %w", table, err)
	}
	return count, nil
}

// Restore replaces the contents of the tables with the rows in r, in a single
// transaction.
func (d *Dumper) Restore(ctx context.Context, r io.Reader) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	count, err := replay(ctx, tx, r, d.tables)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	d.log.Info("backup restored", "statements", count)
	return nil
}

// replay validates and executes the statements of a dump. Only the statement
// shapes Dump produces are accepted, and only for the known tables.
func replay(ctx context.Context, ex execer, r io.Reader, tables []string) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != Header {
		return 0, fmt.Errorf("%w: missing header", ErrInvalidDump)
	}

	truncate := truncateStatement(tables)
	inserts := make(map[string]string, len(tables))
	for _, table := range tables {
		inserts[table] = insertPrefix(table)
	}

	count := 0
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		if line != truncate && !hasAnyPrefix(line, inserts) {
			return count, fmt.Errorf("%w: unexpected statement on line %d", ErrInvalidDump, lineNo)
		}
		if _, err := ex.Exec(ctx, line); err != nil {
			return count, fmt.Errorf("execute line %d: %w", lineNo, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("read backup: %w", err)
	}
	return count, nil
}

func truncateStatement(tables []string) string {
	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[len(tables)-1-i] = pq.QuoteIdentifier(table)
	}
	return "TRUNCATE " + strings.Join(quoted, ", ") + ";"
}

func insertPrefix(table string) string {
	id := pq.QuoteIdentifier(table)
	return "INSERT INTO " + id + " SELECT * FROM json_populate_record(NULL::" + id + ", "
}

func insertStatement(table, rowJSON string) string {
	return insertPrefix(table) + pq.QuoteLiteral(rowJSON) + ");"
}

// hasAnyPrefix reports whether line is one of the inserts: a known prefix, a
// single quoted literal, and the closing parenthesis.
func hasAnyPrefix(line string, prefixes map[string]string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) && strings.HasSuffix(line, ");") {
			return validLiteral(line[len(p) : len(line)-2])
		}
	}
	return false
}

// validLiteral accepts exactly the shapes pq.QuoteLiteral produces.
func validLiteral(s string) bool {
	escaped := strings.HasPrefix(s, " E'")
	if escaped {
		s = s[2:]
	}
	if len(s) < 2 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return false
	}
	inner := s[1 : len(s)-1]
	if escaped {
		inner = strings.ReplaceAll(inner, `\\`, "")
		if strings.Contains(inner, `\`) {
			return false
		}
	}
	return !strings.Contains(strings.ReplaceAll(inner, "''", ""), "'")
}
