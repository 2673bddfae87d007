// Command pascal compiles and runs a Pascal-lite source file: the
// front-end driver, grounded on original_source/p.cc's command-line
// handling and tools/godis/cmd/godis/main.go's flag-based CLI shape.
package main

import (
	"fmt"
	"os"

	"github.com/rmerkel/pascal/internal/config"
	"github.com/rmerkel/pascal/internal/interp"
	"github.com/rmerkel/pascal/internal/parser"
	"github.com/rmerkel/pascal/internal/token"

	"flag"
)

const version = "0.1"

func usage() {
	fmt.Fprintf(os.Stderr, `usage: pascal [options] [file | -]

Compiles and, if compilation reports no errors, runs a Pascal-lite
program. Reads from standard input if file is "-" or omitted.

options:
`)
	flag.PrintDefaults()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pascal", flag.ContinueOnError)
	fs.Usage = usage

	verbose := fs.Bool("v", false, "trace compilation and execution")
	fs.BoolVar(verbose, "verbose", false, "trace compilation and execution")
	showVersion := fs.Bool("V", false, "print version and exit")
	fs.BoolVar(showVersion, "version", false, "print version and exit")
	help := fs.Bool("?", false, "print usage and exit")
	fs.BoolVar(help, "help", false, "print usage and exit")
	configPath := fs.String("config", "pascal.toml", "path to an optional project config file")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *help {
		usage()
		return 0
	}
	if *showVersion {
		fmt.Printf("pascal version %s\n", version)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *verbose {
		cfg.Verbose = true
		cfg.Trace = true
	}

	filename := "-"
	rest := fs.Args()
	if len(rest) > 0 {
		filename = rest[0]
	}

	var src *os.File
	if filename == "-" {
		src = os.Stdin
		filename = "<stdin>"
	} else {
		f, err := os.Open(filename)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer f.Close()
		src = f
	}

	lex := token.New(src, filename)
	mod, errs := parser.Compile(lex, filename)
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}
	if len(errs) > 0 {
		return len(errs)
	}

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "compiled %s: build %s, %d instructions\n", filename, mod.BuildID, len(mod.Instructions))
	}

	vm := interp.New(mod, cfg.StackSize, cfg.HeapSize, os.Stdout)
	res, runErr := vm.Run(cfg.Trace)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		return 1
	}
	if res != interp.Success {
		fmt.Fprintln(os.Stderr, res)
		return 1
	}
	return 0
}
