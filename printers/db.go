package printers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/pouriyajamshidi/optionalize/option"
	"github.com/pouriyajamshidi/optionalize/statistics"
)

const (
	eventTypeRecord     = "record"
	eventTypeFile       = "file"
	eventTypeStatistics = "statistics"
)

const (
	dataTableSchema = `CREATE TABLE IF NOT EXISTS %s (
    id INTEGER PRIMARY KEY,
    event_type TEXT NOT NULL, -- record, file or statistics
    timestamp DATETIME,

    position TEXT,
    record TEXT,
    generated TEXT,
    fields INTEGER,
    wrapped INTEGER,
    passed_through INTEGER,
    rejected INTEGER, -- value will be 1 if the declaration was rejected
    error TEXT,

    output_file TEXT,

    inputs TEXT,
    wrapper TEXT,
    files_scanned INTEGER,
    files_written INTEGER,
    records_generated INTEGER,
    records_rejected INTEGER,
    fields_wrapped INTEGER,
    fields_passed_through INTEGER,
    start_time DATETIME,
    end_time DATETIME,
    total_duration TEXT
	);`

	recordSaveSchema = `INSERT INTO %s (
	event_type,
	timestamp,
	position,
	record,
	generated,
	fields,
	wrapped,
	passed_through,
	rejected,
	error,
	output_file) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	fileSaveSchema = `INSERT INTO %s (event_type, timestamp, output_file) VALUES (?, ?, ?);`

	statSaveSchema = `INSERT INTO %s (
	event_type,
	timestamp,
	inputs,
	wrapper,
	files_scanned,
	files_written,
	records_generated,
	records_rejected,
	fields_wrapped,
	fields_passed_through,
	start_time,
	end_time,
	total_duration) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
)

// DatabasePrinter represents a SQLite database connection for storing generation results.
type DatabasePrinter struct {
	Conn      *sqlite.Conn
	DbPath    string
	TableName string
	opt       options
}

type DatabasePrinterOption = option.Option[DatabasePrinter]

func (p *DatabasePrinter) options() *options {
	return &p.opt
}

// NewDatabasePrinter opens (or creates) the sqlite3 database at dbPath and
// creates a table named after target and the current time.
func NewDatabasePrinter(target, dbPath string, opts ...DatabasePrinterOption) (*DatabasePrinter, error) {
	filename := addDbExtension(dbPath)

	conn, err := sqlite.OpenConn(filename, sqlite.OpenCreate, sqlite.OpenReadWrite)
	if err != nil {
		return nil, fmt.Errorf("create database %q: %w", filename, err)
	}

	tableName := sanitizeTableName(target, time.Now())

	if err := sqlitex.ExecuteTransient(conn, fmt.Sprintf(dataTableSchema, tableName), nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create data table: %w", err)
	}

	p := &DatabasePrinter{
		Conn:      conn,
		DbPath:    filename,
		TableName: tableName,
	}

	option.Apply(p, opts...)

	return p, nil
}

func addDbExtension(filename string) string {
	if strings.HasSuffix(filename, ".db") {
		return filename
	}

	return filename + ".db"
}

// sanitizeTableName will return the sanitized and correctly formatted table name
// formatting the table name as "target__year_month_day_hour_minute_sec".
// Table names may only hold letters, digits and underscores and can't start with a digit.
func sanitizeTableName(target string, when time.Time) string {
	target = filepath.Base(filepath.Clean(target))
	if target == "." || target == string(filepath.Separator) {
		target = "run"
	}

	sanitize := func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}

	sanitizedTarget := strings.Map(sanitize, target)
	sanitizedTime := strings.Map(sanitize, when.Format(time.DateTime))

	tableName := fmt.Sprintf("%s__%s", sanitizedTarget, sanitizedTime)

	if unicode.IsNumber(rune(tableName[0])) {
		tableName = "_" + tableName
	}

	return tableName
}

func (p *DatabasePrinter) exec(schema string, args ...any) error {
	return sqlitex.Execute(p.Conn, fmt.Sprintf(schema, p.TableName), &sqlitex.ExecOptions{Args: args})
}

// PrintStart prints a message indicating where the results are saved.
func (p *DatabasePrinter) PrintStart(s *statistics.Statistics) {
	fmt.Fprintf(p.opt.writer(), "Generating optional records for %s - saving results to: %s\n",
		strings.Join(s.Inputs, ", "),
		p.DbPath)
}

func (p *DatabasePrinter) saveResult(r statistics.Result) {
	err := p.exec(recordSaveSchema,
		eventTypeRecord,
		r.WhenFormatted(),
		r.PositionStr(),
		r.Record,
		r.Generated,
		r.Fields,
		r.Wrapped,
		r.PassedThrough,
		r.Rejected(),
		r.ErrStr(),
		r.Output,
	)
	if err != nil {
		p.PrintError("Error while writing %s to the database %q: %v", r.Record, p.DbPath, err)
	}
}

// PrintRecordGenerated saves the latest generated record.
func (p *DatabasePrinter) PrintRecordGenerated(s *statistics.Statistics) {
	if p.opt.ShowFailuresOnly {
		return
	}

	p.saveResult(s.Latest)
}

// PrintRecordRejected saves the latest rejected declaration.
func (p *DatabasePrinter) PrintRecordRejected(s *statistics.Statistics) {
	p.saveResult(s.Latest)
}

// PrintFileWritten saves the latest written file.
func (p *DatabasePrinter) PrintFileWritten(s *statistics.Statistics) {
	if err := p.exec(fileSaveSchema, eventTypeFile, time.Now().Format(time.DateTime), s.LatestFile); err != nil {
		p.PrintError("Error while writing %s to the database %q: %v", s.LatestFile, p.DbPath, err)
	}
}

// PrintStatistics saves the run statistics to the database.
func (p *DatabasePrinter) PrintStatistics(s *statistics.Statistics) {
	// If the end time is zero the run is still in progress, leave it empty
	endTime := ""
	if !s.EndTime.IsZero() {
		endTime = s.EndTimeFormatted()
	}

	err := p.exec(statSaveSchema,
		eventTypeStatistics,
		time.Now().Format(time.DateTime),
		strings.Join(s.Inputs, " "),
		s.Wrapper,
		s.FilesScanned,
		s.FilesWritten,
		s.RecordsGenerated,
		s.RecordsRejected,
		s.FieldsWrapped,
		s.FieldsPassedThrough,
		s.StartTimeFormatted(),
		endTime,
		s.Duration().String(),
	)
	if err != nil {
		p.PrintError("Error while writing stats to the database %q: %v", p.DbPath, err)
		return
	}

	fmt.Fprintf(p.opt.writer(), "\nStatistics have been saved to %q in the table %q\n", p.DbPath, p.TableName)
}

// PrintError prints an error message to stderr.
func (p *DatabasePrinter) PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Shutdown closes the database connection.
func (p *DatabasePrinter) Shutdown(_ *statistics.Statistics) {
	if p.Conn == nil {
		return
	}

	if err := p.Conn.Close(); err != nil {
		p.PrintError("Error while closing the database %q: %v", p.DbPath, err)
	}
	p.Conn = nil
}
