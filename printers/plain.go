// Package printers contains the logic for reporting generation runs
package printers

import (
	"fmt"
	"strings"

	"github.com/pouriyajamshidi/optionalize/option"
	"github.com/pouriyajamshidi/optionalize/statistics"
)

// PlainPrinter is a printer that prints the results in a simple, plain text format.
type PlainPrinter struct {
	opt options
}

type PlainPrinterOption = option.Option[PlainPrinter]

func (p *PlainPrinter) options() *options {
	return &p.opt
}

// NewPlainPrinter creates a new PlainPrinter instance.
func NewPlainPrinter(opts ...PlainPrinterOption) *PlainPrinter {
	p := &PlainPrinter{}
	option.Apply(p, opts...)

	return p
}

// Shutdown does nothing: plain output needs no cleanup.
func (p *PlainPrinter) Shutdown(_ *statistics.Statistics) {}

// PrintStart prints the inputs and the wrapping style of the run.
func (p *PlainPrinter) PrintStart(s *statistics.Statistics) {
	fmt.Fprintf(p.opt.writer(), "Generating optional records for %s using %s wrapper\n",
		strings.Join(s.Inputs, ", "),
		s.Wrapper)
}

// PrintRecordGenerated prints the latest generated record.
func (p *PlainPrinter) PrintRecordGenerated(s *statistics.Statistics) {
	if p.opt.ShowFailuresOnly {
		return
	}

	fmt.Fprintln(p.opt.writer(), generatedMessage(s.Latest, p.opt))
}

// PrintRecordRejected prints the latest rejected declaration.
func (p *PlainPrinter) PrintRecordRejected(s *statistics.Statistics) {
	fmt.Fprintln(p.opt.writer(), rejectedMessage(s.Latest, p.opt))
}

// PrintFileWritten prints the latest written file.
func (p *PlainPrinter) PrintFileWritten(s *statistics.Statistics) {
	if p.opt.ShowFailuresOnly {
		return
	}

	fmt.Fprintf(p.opt.writer(), "Wrote %s\n", s.LatestFile)
}

// PrintStatistics prints a summary of the run.
func (p *PlainPrinter) PrintStatistics(s *statistics.Statistics) {
	w := p.opt.writer()

	fmt.Fprintf(w, "\n--- optionalize statistics ---\n")
	fmt.Fprintf(w, "%d records generated | %d rejected | %d files scanned | %d files written\n",
		s.RecordsGenerated,
		s.RecordsRejected,
		s.FilesScanned,
		s.FilesWritten)
	fmt.Fprintf(w, "%d fields wrapped | %d passed through | %.2f%% wrapped\n",
		s.FieldsWrapped,
		s.FieldsPassedThrough,
		s.WrappedRatio())

	if !s.StartTime.IsZero() {
		fmt.Fprintf(w, "started at: %s ", s.StartTimeFormatted())
	}
	if !s.EndTime.IsZero() {
		fmt.Fprintf(w, "ended at: %s ", s.EndTimeFormatted())
	}
	fmt.Fprintf(w, "duration: %s\n", statistics.DurationToString(s.Duration()))
}

// PrintError prints an error message to the printer's output.
func (p *PlainPrinter) PrintError(format string, args ...any) {
	fmt.Fprintf(p.opt.writer(), format+"\n", args...)
}

// generatedMessage is shared by the plain and color printers.
func generatedMessage(r statistics.Result, opt options) string {
	var b strings.Builder

	if opt.ShowTimestamp {
		b.WriteString(r.WhenFormatted())
		b.WriteString(" ")
	}

	fmt.Fprintf(&b, "Generated %s from %s: %d fields, %d wrapped, %d passed through",
		r.Generated,
		r.Record,
		r.Fields,
		r.Wrapped,
		r.PassedThrough)

	if opt.ShowPosition {
		fmt.Fprintf(&b, " at %s", r.PositionStr())
	}

	return b.String()
}

func rejectedMessage(r statistics.Result, opt options) string {
	var b strings.Builder

	if opt.ShowTimestamp {
		b.WriteString(r.WhenFormatted())
		b.WriteString(" ")
	}

	fmt.Fprintf(&b, "Rejected %s", r.Record)

	if opt.ShowPosition {
		fmt.Fprintf(&b, " at %s", r.PositionStr())
	}

	fmt.Fprintf(&b, ": %s", r.ErrStr())

	return b.String()
}
