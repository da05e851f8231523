// Package app wires the command line to the generator.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pouriyajamshidi/optionalize"
)

// Run executes the optionalize application and returns an exit code
func Run(args []string) int {
	config, err := ProcessUserInput(args)
	if err != nil {
		return handleError(err)
	}

	logger, err := newLogger(config.Verbose)
	if err != nil {
		return handleError(err)
	}
	defer func() { _ = logger.Sync() }()

	wrapper, err := optionalize.NewWrapper(config.Wrapper, config.OptionalPackage, config.OptionalType)
	if err != nil {
		return handleError(err)
	}

	printer, err := optionalize.NewPrinter(config.PrinterConfig)
	if err != nil {
		return handleError(err)
	}

	generator := buildGenerator(wrapper, printer, logger, config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := generator.Generate(ctx, config.Paths...)

	if stats.FilesScanned > 0 {
		printer.PrintStatistics(&stats)
	}
	printer.Shutdown(&stats)

	if err != nil {
		// already reported by the printer
		logger.Debug("run failed", zap.Error(err))
		return 1
	}

	return 0
}

func buildGenerator(w optionalize.Wrapper, printer optionalize.Printer, logger *zap.Logger, config Config) *optionalize.Generator {
	opts := []optionalize.GeneratorOption{
		optionalize.WithPrinter(printer),
		optionalize.WithLogger(logger),
		optionalize.WithTypes(config.Types...),
		optionalize.WithAll(config.All),
		optionalize.WithConcurrency(config.Parallel),
	}

	if config.Output != "" {
		opts = append(opts, optionalize.WithOutput(config.Output))
	}

	if config.Stdout {
		opts = append(opts, optionalize.WithCodeWriter(os.Stdout))
	}

	return optionalize.NewGenerator(w, opts...)
}

func handleError(err error) int {
	return handleErrorTo(err, os.Stdout, os.Stderr)
}

func handleErrorTo(err error, stdout, stderr io.Writer) int {
	if err == nil || errors.Is(err, ErrHelpShown) {
		return 0
	}

	if errors.Is(err, ErrUsageRequested) {
		fmt.Fprintf(stderr, "error: %v\n", err)
		PrintUsage(stderr)
		return 1
	}

	if errors.Is(err, ErrVersionRequested) {
		PrintVersion(stdout)
		return 0
	}

	if errors.Is(err, ErrUpdateCheckRequested) {
		msg, checkErr := CheckForUpdates(context.Background())
		if checkErr != nil {
			fmt.Fprintf(stderr, "error: %v\n", checkErr)
			return 1
		}
		fmt.Fprintln(stdout, msg)
		return 0
	}

	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}
