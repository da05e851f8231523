package printers

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pouriyajamshidi/optionalize/option"
	"github.com/pouriyajamshidi/optionalize/statistics"
)

const (
	colTimestamp     string = "Timestamp"
	colStatus        string = "Status"
	colRecord        string = "Record"
	colGenerated     string = "Generated"
	colFields        string = "Fields"
	colWrapped       string = "Wrapped"
	colPassedThrough string = "Passed Through"
	colPosition      string = "Position"
	colError         string = "Error"
)

const (
	statusGenerated = "Generated"
	statusRejected  = "Rejected"
)

const (
	filePermission os.FileMode = 0644
	fileFlag       int         = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
)

// CSVPrinter is responsible for writing record results and statistics to CSV files.
type CSVPrinter struct {
	RecordWriter *csv.Writer
	StatsWriter  *csv.Writer
	RecordFile   *os.File
	StatsFile    *os.File
	opt          options
}

type CSVPrinterOption = option.Option[CSVPrinter]

func (p *CSVPrinter) options() *options {
	return &p.opt
}

// NewCSVPrinter creates the record and statistics files for filePath.
// The statistics file gets a `_stats` suffix.
func NewCSVPrinter(filePath string, opts ...CSVPrinterOption) (*CSVPrinter, error) {
	recordFilename := addCSVExtension(filePath, false)

	recordFile, err := os.OpenFile(recordFilename, fileFlag, filePermission)
	if err != nil {
		return nil, fmt.Errorf("create record CSV file %s: %w", recordFilename, err)
	}

	statsFilename := addCSVExtension(filePath, true)

	statsFile, err := os.OpenFile(statsFilename, fileFlag, filePermission)
	if err != nil {
		recordFile.Close()
		return nil, fmt.Errorf("create stats CSV file %s: %w", statsFilename, err)
	}

	p := &CSVPrinter{
		RecordWriter: csv.NewWriter(recordFile),
		StatsWriter:  csv.NewWriter(statsFile),
		RecordFile:   recordFile,
		StatsFile:    statsFile,
	}

	option.Apply(p, opts...)

	return p, nil
}

func addCSVExtension(filename string, withStatsExt bool) string {
	if withStatsExt {
		// Remove .csv extension if present, then add _stats.csv
		base := strings.TrimSuffix(filename, ".csv")
		return base + "_stats.csv"
	}

	if strings.HasSuffix(filename, ".csv") {
		return filename
	}

	return filename + ".csv"
}

// Done flushes the buffer of writers and closes the record and stats file
func (p *CSVPrinter) Done() {
	if p.RecordWriter != nil {
		p.RecordWriter.Flush()
	}

	if p.RecordFile != nil {
		p.RecordFile.Close()
	}

	if p.StatsWriter != nil {
		p.StatsWriter.Flush()
	}

	if p.StatsFile != nil {
		p.StatsFile.Close()
	}
}

// Shutdown performs final cleanup for the printer.
func (p *CSVPrinter) Shutdown(_ *statistics.Statistics) {
	p.Done()
}

func (p *CSVPrinter) writeRecordHeader() error {
	headers := []string{}

	if p.opt.ShowTimestamp {
		headers = append(headers, colTimestamp)
	}

	headers = append(headers, colStatus, colRecord, colGenerated, colFields, colWrapped, colPassedThrough)

	if p.opt.ShowPosition {
		headers = append(headers, colPosition)
	}

	headers = append(headers, colError)

	if err := p.RecordWriter.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	p.RecordWriter.Flush()

	return p.RecordWriter.Error()
}

func (p *CSVPrinter) writeStatsHeader() error {
	headers := []string{
		"Metric",
		"Value",
	}

	if err := p.StatsWriter.Write(headers); err != nil {
		return fmt.Errorf("write statistics headers: %w", err)
	}

	p.StatsWriter.Flush()

	return p.StatsWriter.Error()
}

// PrintStart writes the CSV headers.
func (p *CSVPrinter) PrintStart(s *statistics.Statistics) {
	if err := p.writeRecordHeader(); err != nil {
		p.PrintError("%v", err)
	}

	if err := p.writeStatsHeader(); err != nil {
		p.PrintError("%v", err)
	}

	fmt.Fprintf(p.opt.writer(), "Generating optional records for %s - saving the results to: %s\n",
		strings.Join(s.Inputs, ", "),
		p.RecordFile.Name())
}

func (p *CSVPrinter) writeResult(status string, r statistics.Result) {
	record := []string{}

	if p.opt.ShowTimestamp {
		record = append(record, r.WhenFormatted())
	}

	record = append(
		record,
		status,
		r.Record,
		r.Generated,
		strconv.Itoa(r.Fields),
		strconv.Itoa(r.Wrapped),
		strconv.Itoa(r.PassedThrough),
	)

	if p.opt.ShowPosition {
		record = append(record, r.PositionStr())
	}

	record = append(record, r.ErrStr())

	if err := p.RecordWriter.Write(record); err != nil {
		p.PrintError("Failed to write %s record: %v", strings.ToLower(status), err)
	}

	p.RecordWriter.Flush()
}

// PrintRecordGenerated writes the latest generated record.
func (p *CSVPrinter) PrintRecordGenerated(s *statistics.Statistics) {
	if p.opt.ShowFailuresOnly {
		return
	}

	p.writeResult(statusGenerated, s.Latest)
}

// PrintRecordRejected writes the latest rejected declaration.
func (p *CSVPrinter) PrintRecordRejected(s *statistics.Statistics) {
	p.writeResult(statusRejected, s.Latest)
}

// PrintFileWritten is a no-op implementation to satisfy the Printer interface.
func (p *CSVPrinter) PrintFileWritten(_ *statistics.Statistics) {}

// PrintError logs an error message to stderr.
func (p *CSVPrinter) PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "CSV Error: "+format+"\n", args...)
}

// PrintStatistics writes the run statistics to the stats CSV file.
func (p *CSVPrinter) PrintStatistics(s *statistics.Statistics) {
	timestamp := time.Now().Format(time.DateTime)

	stats := [][]string{
		{"Timestamp", timestamp},
		{"Inputs", strings.Join(s.Inputs, " ")},
		{"Wrapper", s.Wrapper},
		{"Files Scanned", fmt.Sprintf("%d", s.FilesScanned)},
		{"Files Written", fmt.Sprintf("%d", s.FilesWritten)},
		{"Records Generated", fmt.Sprintf("%d", s.RecordsGenerated)},
		{"Records Rejected", fmt.Sprintf("%d", s.RecordsRejected)},
		{"Fields Wrapped", fmt.Sprintf("%d", s.FieldsWrapped)},
		{"Fields Passed Through", fmt.Sprintf("%d", s.FieldsPassedThrough)},
		{"Wrapped Percentage", fmt.Sprintf("%.2f", s.WrappedRatio())},
		{"Total Duration", s.Duration().String()},
	}

	stats = append(stats, []string{"Start Timestamp", s.StartTimeFormatted()})

	if !s.EndTime.IsZero() {
		stats = append(stats, []string{"End Timestamp", s.EndTimeFormatted()})
	} else {
		stats = append(stats, []string{"End Timestamp", "In progress"})
	}

	for _, record := range stats {
		if err := p.StatsWriter.Write(record); err != nil {
			p.PrintError("Failed to write statistics record: %v", err)
			return
		}
	}

	p.StatsWriter.Flush()

	fmt.Fprintf(p.opt.writer(), "\nStatistics have been saved to: %s\n", p.StatsFile.Name())
}
