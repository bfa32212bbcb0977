/*
 * sysfmt
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package tool

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"devt.de/krotik/sysfmt/parser"
)

/*
Format formats a given set of source files in place. It is the
batch-oriented counterpart to cmd/sysfmt's single-file mode.
*/
func Format() error {
	var err error

	wd, _ := os.Getwd()

	dir := flag.String("dir", wd, "Root directory for source files")
	ext := flag.String("ext", ".sys", "Extension for source files")
	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output())
		fmt.Fprintln(flag.CommandLine.Output(), fmt.Sprintf("Usage of %s fmt [options]", os.Args[0]))
		fmt.Fprintln(flag.CommandLine.Output())
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output())
		fmt.Fprintln(flag.CommandLine.Output(), "This tool will format all source files in a directory structure.")
		fmt.Fprintln(flag.CommandLine.Output())
	}

	if len(osArgs) >= 2 {
		flag.CommandLine.Parse(osArgs[2:])

		if *showHelp {
			flag.Usage()
			return nil
		}
	}

	fmt.Fprintln(flag.CommandLine.Output(), fmt.Sprintf("Formatting all %v files in %v", *ext, *dir))

	err = filepath.Walk(*dir,
		func(path string, i os.FileInfo, err error) error {
			if err == nil && !i.IsDir() && strings.HasSuffix(path, *ext) {
				var data []byte

				if data, err = ioutil.ReadFile(path); err == nil {
					var ferr error
					var root *parser.Node
					var arena *parser.Arena

					if root, arena, ferr = parser.Parse(path, data, parser.Options{}); ferr == nil {
						formatted := parser.Print(data, root, 0)
						arena.Teardown(root)
						ferr = ioutil.WriteFile(path, formatted, i.Mode())
					}

					if ferr != nil {
						fmt.Fprintln(flag.CommandLine.Output(), fmt.Sprintf("Could not format %v: %v", path, ferr))
					}
				}
			}
			return err
		})

	return err
}
