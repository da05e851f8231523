package optionalize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pouriyajamshidi/optionalize/emit"
	"github.com/pouriyajamshidi/optionalize/option"
	"github.com/pouriyajamshidi/optionalize/printers"
	"github.com/pouriyajamshidi/optionalize/record"
	"github.com/pouriyajamshidi/optionalize/source"
	"github.com/pouriyajamshidi/optionalize/statistics"
)

const outputPermission os.FileMode = 0o644

// Generator derives optional records for the declarations it selects from a
// set of Go source files and writes one generated file per source file.
type Generator struct {
	wrapper     Wrapper
	printer     Printer
	logger      *zap.Logger
	types       []string
	all         bool
	output      string
	codeWriter  io.Writer
	concurrency int
	Statistics  statistics.Statistics
}

type GeneratorOption = option.Option[Generator]

// WithPrinter configures the printer that reports the run.
func WithPrinter(printer Printer) GeneratorOption {
	return func(g *Generator) {
		g.printer = printer
	}
}

// WithTypes selects declarations by name, in addition to annotated ones.
func WithTypes(names ...string) GeneratorOption {
	return func(g *Generator) {
		g.types = append(g.types, names...)
	}
}

// WithAll selects every struct declaration.
func WithAll(all bool) GeneratorOption {
	return func(g *Generator) {
		g.all = all
	}
}

// WithOutput names the generated file. Only valid for a single input file.
func WithOutput(path string) GeneratorOption {
	return func(g *Generator) {
		g.output = path
	}
}

// WithCodeWriter sends generated code to w instead of writing files.
func WithCodeWriter(w io.Writer) GeneratorOption {
	return func(g *Generator) {
		g.codeWriter = w
	}
}

// WithConcurrency limits how many files are processed at once.
// Values below 1 fall back to runtime.GOMAXPROCS(0).
func WithConcurrency(n int) GeneratorOption {
	return func(g *Generator) {
		g.concurrency = n
	}
}

// WithLogger configures the logger for per-file debug output.
func WithLogger(logger *zap.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a generator wrapping field types with w.
func NewGenerator(w Wrapper, opts ...GeneratorOption) *Generator {
	g := Generator{
		wrapper: w,
		printer: printers.NewColorPrinter(),
		logger:  zap.NewNop(),
	}

	option.Apply(&g, opts...)

	if g.concurrency < 1 {
		g.concurrency = runtime.GOMAXPROCS(0)
	}

	return &g
}

// fileResult is everything a worker found out about one source file.
type fileResult struct {
	path    string
	output  string
	code    []byte
	results []statistics.Result
	found   []string
	err     error
}

func (r *fileResult) rejected() bool {
	return slices.ContainsFunc(r.results, statistics.Result.Rejected)
}

// Generate processes the Go files found in paths. Files are parsed and
// transformed concurrently; results are reported and written in input order.
// The returned error joins every rejection and failure of the run; each of
// them has already been reported through the printer.
func (g *Generator) Generate(ctx context.Context, paths ...string) (stats statistics.Statistics, err error) {
	g.Statistics.Inputs = paths
	g.Statistics.Wrapper = g.wrapper.String()
	g.Statistics.StartTime = time.Now()
	defer func() {
		g.Statistics.EndTime = time.Now()
		stats = g.Statistics
	}()

	files, err := source.Collect(paths...)
	if err != nil {
		err = fmt.Errorf("collect input files: %w", err)
		g.printer.PrintError("%v", err)
		return g.Statistics, err
	}

	if g.output != "" && len(files) > 1 {
		err := fmt.Errorf("write %s for %d files: %w", g.output, len(files), ErrOutputWithMultipleFiles)
		g.printer.PrintError("%v", err)
		return g.Statistics, err
	}

	g.printer.PrintStart(&g.Statistics)

	results := make([]fileResult, len(files))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for i, path := range files {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			results[i] = g.processFile(path)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		err = fmt.Errorf("generate: %w", err)
		g.printer.PrintError("%v", err)
		return g.Statistics, err
	}

	var errs []error
	found := make(map[string]bool)

	for i := range results {
		res := &results[i]
		g.Statistics.FilesScanned++

		for _, name := range res.found {
			found[name] = true
		}

		if res.err != nil {
			g.printer.PrintError("%v", res.err)
			errs = append(errs, res.err)
			continue
		}

		for _, r := range res.results {
			g.Statistics.Add(r)

			if r.Rejected() {
				g.printer.PrintRecordRejected(&g.Statistics)
				errs = append(errs, r.Err)
				continue
			}

			g.printer.PrintRecordGenerated(&g.Statistics)
		}

		if res.code == nil {
			continue
		}

		if err := g.write(res); err != nil {
			g.printer.PrintError("%v", err)
			errs = append(errs, err)
			continue
		}

		g.Statistics.AddFile(res.output)
		g.printer.PrintFileWritten(&g.Statistics)
	}

	for _, name := range g.types {
		if !found[name] {
			err := fmt.Errorf("find %s: %w", name, ErrTypeNotFound)
			g.printer.PrintError("%v", err)
			errs = append(errs, err)
		}
	}

	return g.Statistics, errors.Join(errs...)
}

func (g *Generator) write(res *fileResult) error {
	if g.codeWriter != nil {
		if _, err := g.codeWriter.Write(res.code); err != nil {
			return fmt.Errorf("write code for %s: %w", res.path, err)
		}
		return nil
	}

	if err := os.WriteFile(res.output, res.code, outputPermission); err != nil {
		return fmt.Errorf("write %s: %w", res.output, err)
	}

	return nil
}

func (g *Generator) outputPath(src string) string {
	if g.output == "" {
		return emit.OutputPath(src)
	}

	if filepath.IsAbs(g.output) || filepath.Dir(g.output) != "." {
		return g.output
	}

	// a bare file name lands next to the source, like the default output
	return filepath.Join(filepath.Dir(src), g.output)
}

func (g *Generator) selected(d source.Decl) bool {
	return slices.Contains(g.types, d.Name) || d.Annotated || g.all && d.IsRecord()
}

func (g *Generator) processFile(path string) fileResult {
	res := fileResult{
		path:   path,
		output: g.outputPath(path),
	}

	f, err := source.ParseFile(token.NewFileSet(), path, nil)
	if err != nil {
		res.err = err
		return res
	}

	var records []record.Descriptor
	origins := make(map[string]string)

	for _, d := range f.Decls {
		if slices.Contains(g.types, d.Name) {
			res.found = append(res.found, d.Name)
		}

		if !g.selected(d) {
			continue
		}

		out, err := Transform(d.Descriptor, g.wrapper)
		wrapped, passed := CountWrapped(d.Descriptor, g.wrapper)

		r := statistics.Result{
			Pos:    d.Pos,
			Record: d.Name,
			Err:    err,
			When:   time.Now(),
		}

		if err == nil {
			r.Generated = out.Name
			r.Fields = len(out.Fields)
			r.Wrapped = wrapped
			r.PassedThrough = passed
			r.Output = res.output

			records = append(records, out)
			origins[out.Name] = d.Name
		}

		res.results = append(res.results, r)
	}

	g.logger.Debug("scanned file",
		zap.String("file", path),
		zap.Int("declarations", len(f.Decls)),
		zap.Int("selected", len(res.results)))

	if len(records) == 0 {
		return res
	}

	if res.rejected() {
		// nothing is written for a file with a rejected declaration
		for i := range res.results {
			res.results[i].Output = ""
		}
		g.logger.Debug("skipping output", zap.String("file", path))
		return res
	}

	imports, err := mergeImports(f.ImportMap(), g.wrapper.Imports())
	if err != nil {
		res.err = fmt.Errorf("generate %s: %w", path, err)
		return res
	}

	var buf bytes.Buffer
	if err := emit.Render(&buf, f.Package, imports, records, emit.WithOrigins(origins)); err != nil {
		res.err = fmt.Errorf("generate %s: %w", path, err)
		return res
	}

	res.code = buf.Bytes()

	g.logger.Debug("rendered file",
		zap.String("file", path),
		zap.String("output", res.output),
		zap.Int("records", len(records)))

	return res
}

// mergeImports adds the wrapper's imports to the source file's imports.
// A package name bound to two different paths can't be emitted.
func mergeImports(file, wrapper map[string]string) (map[string]string, error) {
	merged := make(map[string]string, len(file)+len(wrapper))
	for name, path := range file {
		merged[name] = path
	}

	for name, path := range wrapper {
		if existing, ok := merged[name]; ok && existing != path {
			return nil, fmt.Errorf("import %q as %s: already imported from %q", path, name, existing)
		}
		merged[name] = path
	}

	return merged, nil
}
