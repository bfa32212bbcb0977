/*
 * sysfmt
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"devt.de/krotik/sysfmt/cli/tool"
	"devt.de/krotik/sysfmt/config"
	"devt.de/krotik/sysfmt/parser"
	"devt.de/krotik/sysfmt/util"
)

func main() {

	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)

	flag.Usage = func() {
		fmt.Println(fmt.Sprintf("Usage of %s <source-file>", os.Args[0]))
		fmt.Println()
		fmt.Println(fmt.Sprintf("sysfmt %v - systems language formatter", config.ProductVersion))
		fmt.Println()
		fmt.Println("Available commands:")
		fmt.Println()
		fmt.Println("    fmt       Format all source files in a directory structure")
		fmt.Println()
		fmt.Println(fmt.Sprintf("Use %s <command> -help for more information about a given command.", os.Args[0]))
		fmt.Println()
	}

	if len(os.Args) > 1 && os.Args[1] == "fmt" {
		if err := tool.Format(); err != nil {
			fmt.Println(fmt.Sprintf("Error: %v", err))
			os.Exit(1)
		}
		return
	}

	loglevel := flag.String("loglevel", "error", "Log level (debug, info, error)")

	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if len(flag.Args()) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	path := flag.Args()[0]

	data, err := ioutil.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := util.NewStdOutLogger()
	llLogger, err := util.NewLogLevelLogger(logger, *loglevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "====input:====")
	fmt.Fprintln(os.Stderr, string(data))

	lex := parser.New(data)
	fmt.Fprintln(os.Stderr, "====tokenization:====")
	for {
		tok := lex.Next()
		fmt.Fprintf(os.Stderr, "%v %q\n", tok.ID, tok.Text(data))
		if tok.ID == parser.TokenEOF {
			break
		}
	}

	root, arena, err := parser.Parse(path, data, parser.Options{Logger: llLogger})
	if err != nil {
		fmt.Fprintln(os.Stderr, "====error:====")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer arena.Teardown(root)

	fmt.Fprintln(os.Stderr, "====parse:====")
	fmt.Fprint(os.Stderr, parser.Dump(data, root))

	formatted := parser.Print(data, root, config.Int(config.IndentWidth))

	fmt.Fprintln(os.Stderr, "====fmt:====")
	fmt.Fprint(os.Stderr, string(formatted))

	os.Exit(0)
}
