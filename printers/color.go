package printers

import (
	"fmt"
	"strings"

	"github.com/gookit/color"

	"github.com/pouriyajamshidi/optionalize/option"
	"github.com/pouriyajamshidi/optionalize/statistics"
)

// ColorPrinter provides functionality for printing messages with color support.
type ColorPrinter struct {
	opt options
}

type ColorPrinterOption = option.Option[ColorPrinter]

func (p *ColorPrinter) options() *options {
	return &p.opt
}

// NewColorPrinter creates a new ColorPrinter instance.
func NewColorPrinter(opts ...ColorPrinterOption) *ColorPrinter {
	p := &ColorPrinter{}
	option.Apply(p, opts...)

	return p
}

func (p *ColorPrinter) print(c color.Color, format string, args ...any) {
	fmt.Fprint(p.opt.writer(), c.Sprintf(format, args...))
}

// Shutdown does nothing: colored output needs no cleanup.
func (p *ColorPrinter) Shutdown(_ *statistics.Statistics) {}

// PrintStart prints the inputs and the wrapping style of the run in light cyan.
func (p *ColorPrinter) PrintStart(s *statistics.Statistics) {
	p.print(color.LightCyan, "Generating optional records for %s using %s wrapper\n",
		strings.Join(s.Inputs, ", "),
		s.Wrapper)
}

// PrintRecordGenerated prints the latest generated record in light green.
func (p *ColorPrinter) PrintRecordGenerated(s *statistics.Statistics) {
	if p.opt.ShowFailuresOnly {
		return
	}

	p.print(color.LightGreen, "%s\n", generatedMessage(s.Latest, p.opt))
}

// PrintRecordRejected prints the latest rejected declaration in red.
func (p *ColorPrinter) PrintRecordRejected(s *statistics.Statistics) {
	p.print(color.Red, "%s\n", rejectedMessage(s.Latest, p.opt))
}

// PrintFileWritten prints the latest written file in cyan.
func (p *ColorPrinter) PrintFileWritten(s *statistics.Statistics) {
	if p.opt.ShowFailuresOnly {
		return
	}

	p.print(color.Cyan, "Wrote %s\n", s.LatestFile)
}

// PrintStatistics prints a colored summary of the run.
func (p *ColorPrinter) PrintStatistics(s *statistics.Statistics) {
	p.print(color.Yellow, "\n--- optionalize statistics ---\n")

	p.print(color.Green, "%d", s.RecordsGenerated)
	p.print(color.Yellow, " records generated | ")

	rejectedColor := color.Green
	if s.RecordsRejected > 0 {
		rejectedColor = color.Red
	}
	p.print(rejectedColor, "%d", s.RecordsRejected)
	p.print(color.Yellow, " rejected | ")

	p.print(color.FgLightBlue, "%d", s.FilesScanned)
	p.print(color.Yellow, " files scanned | ")
	p.print(color.FgLightBlue, "%d", s.FilesWritten)
	p.print(color.Yellow, " files written\n")

	p.print(color.Green, "%d", s.FieldsWrapped)
	p.print(color.Yellow, " fields wrapped | ")
	p.print(color.Green, "%d", s.FieldsPassedThrough)
	p.print(color.Yellow, " passed through | ")
	p.print(color.LightYellow, "%.2f%%", s.WrappedRatio())
	p.print(color.Yellow, " wrapped\n")

	if !s.StartTime.IsZero() {
		p.print(color.Yellow, "started at: ")
		p.print(color.Cyan, "%s ", s.StartTimeFormatted())
	}
	if !s.EndTime.IsZero() {
		p.print(color.Yellow, "ended at: ")
		p.print(color.Cyan, "%s ", s.EndTimeFormatted())
	}
	p.print(color.Yellow, "duration: ")
	p.print(color.Cyan, "%s\n", statistics.DurationToString(s.Duration()))
}

// PrintError prints an error message in red.
func (p *ColorPrinter) PrintError(format string, args ...any) {
	p.print(color.Red, format+"\n", args...)
}
