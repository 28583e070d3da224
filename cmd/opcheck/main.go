// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Command opcheck validates operator declaration files and prints the
// resulting operator types.
package main

import (
	"fmt"
	"os"

	"github.com/Mauvesr/tensile/diag"
	"github.com/Mauvesr/tensile/ops"
	"github.com/Mauvesr/tensile/relations"
	"github.com/Mauvesr/tensile/types"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <ops.yaml> [ops.yaml...]\n", os.Args[0])
		os.Exit(1)
	}

	table := ops.NewTable(relations.Builtin())
	p := diag.NewPrinter(os.Stderr)
	failed := false
	for _, path := range os.Args[1:] {
		if err := table.LoadFile(path); err != nil {
			p.Print(err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}

	for _, name := range table.Names() {
		ft, _ := table.Lookup(name)
		fmt.Printf("%s : %s\n", name, types.TypeString(ft))
	}
}
