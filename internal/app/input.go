package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pouriyajamshidi/optionalize"
)

var (
	// ErrUsageRequested indicates usage help was requested
	ErrUsageRequested = errors.New("usage requested")

	// ErrVersionRequested indicates version display was requested
	ErrVersionRequested = errors.New("version requested")

	// ErrUpdateCheckRequested indicates update check was requested
	ErrUpdateCheckRequested = errors.New("update check requested")

	// ErrHelpShown indicates cobra already printed the help text
	ErrHelpShown = errors.New("help shown")
)

// Config contains all configuration needed to create and run a generator.
type Config struct {
	// Inputs
	Paths []string
	Types []string
	All   bool

	// Generated code
	Output          string
	Stdout          bool
	Wrapper         string
	OptionalPackage string
	OptionalType    string

	// Runtime options
	Parallel   int
	Verbose    bool
	ConfigPath string

	// Output options
	PrinterConfig optionalize.PrinterConfig
}

// flags are bound to a fresh command on every parse so repeated calls do not
// share state.
type flags struct {
	types           []string
	all             bool
	output          string
	stdout          bool
	wrapper         string
	optionalPackage string
	optionalType    string
	parallel        int
	configPath      string
	outputJSON      bool
	prettyJSON      bool
	noColor         bool
	showTimestamp   bool
	showPosition    bool
	failuresOnly    bool
	saveToCSV       string
	saveToDB        string
	verbose         bool
	showVer         bool
	checkUpdates    bool
}

func newCommand(f *flags, run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optionalize [flags] [path ...]",
		Short: "Derive optional counterparts of Go struct types",
		Long: `optionalize reads Go source files and, for every selected struct type <Name>,
writes <Name>Optional with each field type wrapped in an optional container
unless the field is already optional.

Structs are selected with an //optionalize:generate directive in their doc
comment, by name with --type, or all at once with --all. Without a path the
file named by $GOFILE (set by go generate) or the current directory is used.`,
		Example: `  optionalize ./models
  optionalize --type User,Order --wrapper pointer user.go
  //go:generate go run github.com/pouriyajamshidi/optionalize/cmd/optionalize`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	fs := cmd.Flags()
	fs.SortFlags = false

	fs.StringSliceVarP(&f.types, "type", "t", nil, "comma separated struct names to generate, in addition to annotated ones.")
	fs.BoolVarP(&f.all, "all", "a", false, "generate for every struct type in the inputs.")
	fs.StringVarP(&f.output, "output", "o", "", "name of the generated file. Only valid with a single input file.")
	fs.BoolVar(&f.stdout, "stdout", false, "write the generated code to stdout instead of files.")
	fs.StringVarP(&f.wrapper, "wrapper", "w", "generic", "how fields are made optional: generic or pointer.")
	fs.StringVar(&f.optionalPackage, "optional-package", "", "import path of the optional container used by the generic wrapper.")
	fs.StringVar(&f.optionalType, "optional-type", "", "type name of the optional container used by the generic wrapper.")
	fs.IntVarP(&f.parallel, "parallel", "p", 0, "number of files processed at once. 0 uses every available CPU.")
	fs.StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file. Defaults to "+DefaultConfigFile+" when present.")
	fs.BoolVarP(&f.outputJSON, "json", "j", false, "output in JSON format.")
	fs.BoolVar(&f.prettyJSON, "pretty", false, "use indentation when using json output format. No effect without the '-j' flag.")
	fs.BoolVar(&f.noColor, "no-color", false, "do not colorize output.")
	fs.BoolVarP(&f.showTimestamp, "timestamp", "D", false, "show timestamp for each record in the output.")
	fs.BoolVar(&f.showPosition, "show-position", false, "show the source position of each record.")
	fs.BoolVar(&f.failuresOnly, "show-failures-only", false, "show only the rejected records.")
	fs.StringVar(&f.saveToCSV, "csv", "", "path and file name to store output to a CSV file. The stats will be saved with the same name and _stats suffix.")
	fs.StringVar(&f.saveToDB, "db", "", "path and file name to store output to a sqlite3 database.")
	fs.BoolVarP(&f.verbose, "verbose", "V", false, "log per file decisions to stderr.")
	fs.BoolVarP(&f.showVer, "version", "v", false, "show version and exit.")
	fs.BoolVarP(&f.checkUpdates, "check-updates", "u", false, "check for updates and exit.")

	return cmd
}

// ProcessUserInput parses command-line arguments and merges them with the
// config file. Returns ErrUsageRequested, ErrVersionRequested,
// ErrUpdateCheckRequested or ErrHelpShown for special control flow.
func ProcessUserInput(args []string) (Config, error) {
	return processUserInput(args, os.Stdout)
}

func processUserInput(args []string, out io.Writer) (Config, error) {
	var (
		f      flags
		config Config
		ran    bool
	)

	cmd := newCommand(&f, func(cmd *cobra.Command, args []string) error {
		ran = true

		if f.showVer {
			return ErrVersionRequested
		}

		if f.checkUpdates {
			return ErrUpdateCheckRequested
		}

		file, err := LoadConfigFile(f.configPath)
		if err != nil {
			return err
		}

		file.apply(&f, cmd.Flags().Changed)

		return setOptions(&config, f, args)
	})

	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(out)

	if err := cmd.Execute(); err != nil {
		if !ran {
			return Config{}, fmt.Errorf("%w: %v", ErrUsageRequested, err)
		}
		return Config{}, err
	}

	if !ran {
		return Config{}, ErrHelpShown
	}

	return config, nil
}

// setOptions assigns the user provided flags after sanity checks
func setOptions(config *Config, f flags, args []string) error {
	if f.stdout && f.output != "" {
		return fmt.Errorf("%w: --stdout and --output cannot be used together", ErrUsageRequested)
	}

	if f.parallel < 0 {
		return fmt.Errorf("%w: --parallel should not be negative", ErrUsageRequested)
	}

	config.Paths = defaultPaths(args)
	config.Types = f.types
	config.All = f.all
	config.Output = f.output
	config.Stdout = f.stdout
	config.Wrapper = f.wrapper
	config.OptionalPackage = f.optionalPackage
	config.OptionalType = f.optionalType
	config.Parallel = f.parallel
	config.Verbose = f.verbose
	config.ConfigPath = f.configPath

	config.PrinterConfig = optionalize.PrinterConfig{
		OutputJSON:       f.outputJSON,
		PrettyJSON:       f.prettyJSON,
		NoColor:          f.noColor,
		WithTimestamp:    f.showTimestamp,
		WithPosition:     f.showPosition,
		ShowFailuresOnly: f.failuresOnly,
		OutputDBPath:     f.saveToDB,
		OutputCSVPath:    f.saveToCSV,
		Target:           config.Paths[0],
	}

	// generated code owns stdout
	if f.stdout {
		config.PrinterConfig.Output = os.Stderr
	}

	return nil
}

// defaultPaths falls back to the file go generate runs for, then to the
// current directory.
func defaultPaths(args []string) []string {
	if len(args) > 0 {
		return args
	}

	if goFile := os.Getenv("GOFILE"); goFile != "" {
		return []string{goFile}
	}

	return []string{"."}
}
