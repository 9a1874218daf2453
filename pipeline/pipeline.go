// Package pipeline runs the rewrite over a project: it discovers the files
// that import the library, rewrites each one and writes the results.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/lex00/kitsplit/discover"
	kerrors "github.com/lex00/kitsplit/errors"
	"github.com/lex00/kitsplit/parser"
	"github.com/lex00/kitsplit/report"
	"github.com/lex00/kitsplit/rewrite"
)

// Options configures a pipeline run.
type Options struct {
	// Lib is the aggregate library to rewrite.
	Lib string
	// Resolver resolves members of Lib. It is shared by all workers.
	Resolver rewrite.Resolver
	// Paths lists the files and directories to process.
	Paths []string
	// Walk configures directory traversal.
	Walk discover.WalkOptions
	// Output is a directory receiving rewritten files, mirroring their
	// path relative to Base. Empty rewrites in place.
	Output string
	// Base is the directory output paths are made relative to. It defaults
	// to the working directory.
	Base string
	// DryRun writes nothing; rewritten sources go to Stdout instead.
	DryRun bool
	// KeepGoing records failing files in the report instead of stopping
	// at the first one.
	KeepGoing bool
	// Workers bounds the number of files processed at once.
	Workers int
	// Verbose enables progress lines on Log.
	Verbose bool
	Log     io.Writer
	Stdout  io.Writer
}

// Pipeline processes files with one configuration.
type Pipeline struct {
	opts Options
	mu   sync.Mutex // guards Stdout and Log
}

// New validates opts and returns a pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Lib == "" {
		return nil, kerrors.Configuration("lib option is required")
	}
	if opts.Resolver == nil {
		return nil, kerrors.Configuration("no submodule resolver configured")
	}
	if len(opts.Paths) == 0 {
		opts.Paths = []string{"."}
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Log == nil {
		opts.Log = io.Discard
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Base == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		opts.Base = cwd
	}
	return &Pipeline{opts: opts}, nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if !p.opts.Verbose {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.opts.Log, format+"\n", args...)
}

// Discover lists the files under the configured paths that reference the
// library. Parse failures surface as errors naming the file.
func (p *Pipeline) Discover() ([]string, error) {
	result, err := discover.Discover(discover.DiscoverOptions{
		Paths:   p.opts.Paths,
		Matcher: discover.MatchLibrary(p.opts.Lib),
		Walk:    p.opts.Walk,
	})
	if err != nil {
		return nil, err
	}
	for _, err := range result.Errors {
		var perr *kerrors.Error
		if errors.As(err, &perr) && perr.Code == kerrors.ErrParse && !mentions(perr.File, p.opts.Lib) {
			// a syntax error in a file that cannot reference the library
			p.logf("skipping %s: %v", perr.File, err)
			continue
		}
		if !p.opts.KeepGoing {
			return nil, err
		}
		p.logf("%v", err)
	}
	p.logf("scanned %d file(s), %d reference %q", len(result.Files), len(result.FilesUsing(p.opts.Lib)), p.opts.Lib)
	return result.FilesUsing(p.opts.Lib), nil
}

// mentions reports whether the file at path contains lib as a quoted
// string.
func mentions(path, lib string) bool {
	src, err := os.ReadFile(path)
	if err != nil {
		return true
	}
	return bytes.Contains(src, []byte(`"`+lib+`"`)) || bytes.Contains(src, []byte(`'`+lib+`'`))
}

// Run rewrites every file that references the library. Files are
// processed concurrently; the report lists them in discovery order. Unless
// KeepGoing is set, the first failure cancels the remaining work and is
// returned along with the partial report.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	files, err := p.Discover()
	if err != nil {
		return nil, err
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		output string
		result *rewrite.Result
		err    error
		done   bool
	}
	outcomes := make([]outcome, len(files))

	jobs := make(chan int)
	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once

	workers := p.opts.Workers
	if workers > len(files) {
		workers = len(files)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				output, result, err := p.processFile(files[i])
				outcomes[i] = outcome{output: output, result: result, err: err, done: true}
				if err != nil && !p.opts.KeepGoing {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
				}
			}
		}()
	}

feed:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	rep := report.New(p.opts.Lib)
	rep.DryRun = p.opts.DryRun
	for i, o := range outcomes {
		switch {
		case !o.done:
		case o.err != nil:
			rep.AddError(files[i], o.err)
		default:
			rep.AddResult(files[i], o.output, o.result)
		}
	}

	if firstErr != nil {
		return rep, firstErr
	}
	if err := parent.Err(); err != nil {
		return rep, err
	}
	return rep, nil
}

// processFile rewrites one file and writes the result.
func (p *Pipeline) processFile(path string) (string, *rewrite.Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	out, result, err := RewriteSource(path, src, rewrite.Options{Lib: p.opts.Lib, Resolver: p.opts.Resolver})
	if err != nil {
		p.logf("%s: %v", path, err)
		return "", nil, kerrors.WithFile(err, path)
	}

	target, err := p.outputPath(path)
	if err != nil {
		return "", nil, err
	}
	p.logf("%s: %d import(s), %d rewrite(s), %d removed", path, len(result.Imports), result.Rewrites, result.Removed)
	for _, loc := range result.Dynamic {
		p.logf("%s:%d:%d: computed access on %q left unchanged; its import was removed", path, loc.Line, loc.Column, p.opts.Lib)
	}

	if p.opts.DryRun {
		p.mu.Lock()
		defer p.mu.Unlock()
		_, _ = fmt.Fprintf(p.opts.Stdout, "// %s\n%s", target, out)
		return target, result, nil
	}

	if target == path && !result.Changed() {
		return target, result, nil
	}
	if err := writeFile(target, out, path); err != nil {
		return "", nil, err
	}
	return target, result, nil
}

// outputPath maps a source path into the output directory.
func (p *Pipeline) outputPath(path string) (string, error) {
	if p.opts.Output == "" {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(p.opts.Base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside of %s", path, p.opts.Base)
	}
	return filepath.Join(p.opts.Output, rel), nil
}

// writeFile writes data to target, keeping the permissions of source.
func writeFile(target string, data []byte, source string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(source); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(target, data, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// RewriteSource parses src and rewrites it. When the rewrite changes
// nothing the source is returned as is.
func RewriteSource(name string, src []byte, opts rewrite.Options) ([]byte, *rewrite.Result, error) {
	prog, err := parser.Parse(name, src)
	if err != nil {
		return nil, nil, err
	}
	result, err := rewrite.Transform(prog, opts)
	if err != nil {
		return nil, nil, err
	}
	return result.Source, result, nil
}
