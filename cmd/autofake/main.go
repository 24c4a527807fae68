package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/autofake/config"
	"github.com/viant/autofake/inspector/cheader"
	"github.com/viant/autofake/service"
)

const version = "0.1.0"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type stringsFlag []string

func (s *stringsFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringsFlag) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("autofake", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: autofake [options] header.h|dir ...\n")
		flags.PrintDefaults()
	}
	var includeDirs stringsFlag
	flags.Var(&includeDirs, "I", "include search directory, can be repeated")
	output := flags.String("o", "", "output directory, defaults to the header directory")
	configURL := flags.String("c", "", "YAML config file")
	suffix := flags.String("suffix", "", "fake file name suffix")
	fffHeader := flags.String("fff", "", "fake framework header")
	workers := flags.Int("workers", 0, "number of parallel workers")
	verify := flags.Bool("verify", false, "cross-check headers with tree-sitter C grammar")
	verbose := flags.Bool("v", false, "verbose logging")
	debug := flags.Bool("debug", false, "debug logging")
	printVersion := flags.Bool("version", false, "print version")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if *printVersion {
		fmt.Fprintf(stdout, "autofake %s\n", version)
		return 0
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	fs := afs.New()
	cfg := config.DefaultConfig()
	if *configURL != "" {
		var err error
		if cfg, err = config.Load(ctx, fs, *configURL); err != nil {
			fmt.Fprintf(stderr, "autofake: %v\n", err)
			return 1
		}
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "I":
			cfg.IncludeDirs = append(cfg.IncludeDirs, includeDirs...)
		case "o":
			cfg.OutputDir = *output
		case "suffix":
			cfg.Suffix = *suffix
		case "fff":
			cfg.FFFHeader = *fffHeader
		case "workers":
			cfg.Workers = *workers
		case "verify":
			cfg.Verify = *verify
		}
	})
	if *debug {
		cfg.Log.Level = "debug"
	} else if *verbose {
		cfg.Log.Level = "info"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "autofake: %v\n", err)
		return 2
	}

	logger := newLogger(cfg.Log, stderr)
	srv := service.New(cfg, service.WithFs(fs), service.WithLogger(logger))
	report, err := srv.Run(ctx, flags.Args()...)
	if err != nil {
		fmt.Fprintf(stderr, "autofake: %v\n", err)
		return 1
	}
	for _, result := range report.Results {
		if result.Err != nil {
			printError(stderr, result, cfg.ErrorContext)
			continue
		}
		fmt.Fprintf(stdout, "%s: %s, %s\n", result.Path, result.Unit.HeaderName, result.Unit.SourceName)
	}
	if len(report.Failed()) > 0 {
		return 1
	}
	return 0
}

func printError(w io.Writer, result *service.Result, lines config.ErrorContext) {
	var located cheader.Located
	if !errors.As(result.Err, &located) {
		fmt.Fprintf(w, "%s: %v\n", result.Path, result.Err)
		return
	}
	fmt.Fprintf(w, "%v\n", located)
	if snippet := cheader.Context(result.Source, located.Position(), lines.Before, lines.After); snippet != "" {
		fmt.Fprint(w, snippet)
	}
}

func newLogger(cfg config.Log, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	options := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, options))
	}
	return slog.New(slog.NewTextHandler(w, options))
}
