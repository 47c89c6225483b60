// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/napobear/sixfive/cpu"
	"github.com/napobear/sixfive/host"
	"github.com/napobear/sixfive/trace"
)

const version = "sixfive 1.0.0"

var (
	assembleFile    string
	disassembleFile string
	executeFile     string
	traceFile       string
	quiet           bool
	showVersion     bool
)

func init() {
	flag.StringVar(&assembleFile, "a", "", "assemble FILE to FILE.out")
	flag.StringVar(&disassembleFile, "d", "", "disassemble FILE to stdout")
	flag.StringVar(&executeFile, "x", "", "execute FILE")
	flag.StringVar(&traceFile, "t", "", "execute FILE under interactive trace")
	flag.BoolVar(&quiet, "q", false, "suppress status banners")
	flag.BoolVar(&showVersion, "v", false, "print version and exit")
	flag.CommandLine.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: sixfive [-a file] [-d file] [-x file] [-t file] [-q] [-v]")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if assembleFile == "" && disassembleFile == "" && executeFile == "" && traceFile == "" {
		flag.CommandLine.Usage()
		os.Exit(2)
	}

	if assembleFile != "" {
		objFile := assembleFile + ".out"
		if !quiet {
			fmt.Printf("Assembling %s to %s...\n", assembleFile, objFile)
		}
		errs, err := host.AssembleFile(assembleFile, objFile, !quiet)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(errs) > 0 {
			os.Exit(1)
		}
		// Chain the freshly assembled file into whichever of -d/-x/-t
		// was also requested, per spec 6.3 and its chaining extension
		// (see DESIGN.md).
		if disassembleFile != "" {
			disassembleFile = objFile
		}
		if executeFile != "" {
			executeFile = objFile
		}
		if traceFile != "" {
			traceFile = objFile
		}
		if disassembleFile == "" && executeFile == "" && traceFile == "" {
			os.Exit(0)
		}
	}

	if disassembleFile != "" {
		if err := host.DisassembleFile(disassembleFile, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if executeFile != "" {
		run(executeFile, false)
	}

	if traceFile != "" {
		run(traceFile, true)
	}
}

func run(objFile string, trace bool) {
	// BRK can switch the run loop into trace mode regardless of how it
	// started (cpu.CPU.Run), so the prompter must always be live, not
	// just when -t seeded trace mode.
	prompter := newTracer()
	if !quiet {
		fmt.Printf("Running %s...\n", objFile)
	}
	c, err := host.LoadAndRun(objFile, trace, prompter, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !quiet {
		fmt.Println()
		host.PrintRegisters(os.Stdout, c)
	}
}

func newTracer() cpu.Prompter {
	return trace.NewDebugger(os.Stdin, os.Stdout, cpu.DefaultBasePC)
}
