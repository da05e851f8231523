package optionalize

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/pouriyajamshidi/optionalize/printers"
	"github.com/pouriyajamshidi/optionalize/statistics"
)

var (
	_ Printer = (*printers.ColorPrinter)(nil)
	_ Printer = (*printers.JSONPrinter)(nil)
	_ Printer = (*printers.CSVPrinter)(nil)
	_ Printer = (*printers.DatabasePrinter)(nil)
	_ Printer = (*printers.PlainPrinter)(nil)
)

// ErrPrettyWithoutJSON is returned by NewPrinter when pretty output is asked for a non JSON printer.
var ErrPrettyWithoutJSON = errors.New("--pretty has no effect without the -j flag")

// Printer defines a set of methods that any printer implementation must provide.
// Printers are responsible for outputting information, but should not modify data or perform calculations.
type Printer interface {
	// PrintStart prints the first message to indicate the inputs and the wrapping style.
	// This message is printed only once, at the very beginning.
	PrintStart(s *statistics.Statistics)

	// PrintRecordGenerated should print a message after each derived record.
	// The record is available as s.Latest.
	PrintRecordGenerated(s *statistics.Statistics)

	// PrintRecordRejected should print a message after each declaration
	// that could not be transformed. s.Latest.Err holds the reason.
	PrintRecordRejected(s *statistics.Statistics)

	// PrintFileWritten should print a message once a generated file is on disk.
	PrintFileWritten(s *statistics.Statistics)

	// PrintStatistics should print a message with
	// helpful statistics information.
	//
	// This is being called once, when the run is over.
	PrintStatistics(s *statistics.Statistics)

	// PrintError should print an error message.
	// Printer should also apply \n to the given string, if needed.
	PrintError(format string, args ...any)

	// Shutdown releases whatever the printer holds, such as files or database connections.
	Shutdown(s *statistics.Statistics)
}

// PrinterConfig holds all configuration options for Printer creation
type PrinterConfig struct {
	OutputJSON       bool
	PrettyJSON       bool
	NoColor          bool
	WithTimestamp    bool
	WithPosition     bool
	ShowFailuresOnly bool
	OutputDBPath     string
	OutputCSVPath    string
	Target           string
	// Output is where console printers write, os.Stdout when nil.
	Output io.Writer
}

// NewPrinter creates and returns an appropriate printer based on configuration.
// Colors are dropped when the output is not a terminal.
func NewPrinter(cfg PrinterConfig) (Printer, error) {
	if cfg.PrettyJSON && !cfg.OutputJSON {
		return nil, ErrPrettyWithoutJSON
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	switch {
	case cfg.OutputJSON:
		opts := []printers.JSONPrinterOption{printers.WithOutput[*printers.JSONPrinter](out)}
		if cfg.PrettyJSON {
			opts = append(opts, printers.WithPrettyJSON())
		}
		if cfg.WithTimestamp {
			opts = append(opts, printers.WithTimestamp[*printers.JSONPrinter]())
		}
		if cfg.WithPosition {
			opts = append(opts, printers.WithPosition[*printers.JSONPrinter]())
		}
		if cfg.ShowFailuresOnly {
			opts = append(opts, printers.WithFailuresOnly[*printers.JSONPrinter]())
		}
		return printers.NewJSONPrinter(opts...), nil

	case cfg.OutputDBPath != "":
		opts := []printers.DatabasePrinterOption{printers.WithOutput[*printers.DatabasePrinter](out)}
		if cfg.ShowFailuresOnly {
			opts = append(opts, printers.WithFailuresOnly[*printers.DatabasePrinter]())
		}
		return printers.NewDatabasePrinter(cfg.Target, cfg.OutputDBPath, opts...)

	case cfg.OutputCSVPath != "":
		opts := []printers.CSVPrinterOption{printers.WithOutput[*printers.CSVPrinter](out)}
		if cfg.WithTimestamp {
			opts = append(opts, printers.WithTimestamp[*printers.CSVPrinter]())
		}
		if cfg.WithPosition {
			opts = append(opts, printers.WithPosition[*printers.CSVPrinter]())
		}
		if cfg.ShowFailuresOnly {
			opts = append(opts, printers.WithFailuresOnly[*printers.CSVPrinter]())
		}
		return printers.NewCSVPrinter(cfg.OutputCSVPath, opts...)

	case cfg.NoColor || !isTerminal(out):
		opts := []printers.PlainPrinterOption{printers.WithOutput[*printers.PlainPrinter](out)}
		if cfg.WithTimestamp {
			opts = append(opts, printers.WithTimestamp[*printers.PlainPrinter]())
		}
		if cfg.WithPosition {
			opts = append(opts, printers.WithPosition[*printers.PlainPrinter]())
		}
		if cfg.ShowFailuresOnly {
			opts = append(opts, printers.WithFailuresOnly[*printers.PlainPrinter]())
		}
		return printers.NewPlainPrinter(opts...), nil

	default:
		opts := []printers.ColorPrinterOption{printers.WithOutput[*printers.ColorPrinter](out)}
		if cfg.WithTimestamp {
			opts = append(opts, printers.WithTimestamp[*printers.ColorPrinter]())
		}
		if cfg.WithPosition {
			opts = append(opts, printers.WithPosition[*printers.ColorPrinter]())
		}
		if cfg.ShowFailuresOnly {
			opts = append(opts, printers.WithFailuresOnly[*printers.ColorPrinter]())
		}
		return printers.NewColorPrinter(opts...), nil
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
