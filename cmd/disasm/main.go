// Command disasm compiles a Pascal-lite source file and prints its
// P-machine instructions, one per line, in the "decode then print every
// field" shape of tools/godis/cmd/debug/main.go. There is no persisted
// module format in this system, so disasm compiles from source rather
// than reading an object file from disk.
package main

import (
	"fmt"
	"os"

	"github.com/rmerkel/pascal/internal/parser"
	"github.com/rmerkel/pascal/internal/token"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: disasm <file.pas>")
		os.Exit(2)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	lex := token.New(f, os.Args[1])
	mod, errs := parser.Compile(lex, os.Args[1])
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		os.Exit(1)
	}

	fmt.Printf("build: %s\n", mod.BuildID)
	fmt.Printf("entry pc: %d\n", mod.EntryPC)
	fmt.Printf("data size: %d\n", mod.DataSize)
	fmt.Printf("instructions: %d\n", len(mod.Instructions))
	for pc, in := range mod.Instructions {
		mark := " "
		if pc == mod.EntryPC {
			mark = ">"
		}
		fmt.Printf("%s[%4d] %s\n", mark, pc, in.String())
	}
}
