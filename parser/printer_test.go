/*
 * sysfmt
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import "testing"

func formatSource(t *testing.T, src string) string {
	t.Helper()
	root, arena, err := Parse("test", []byte(src), Options{})
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	defer arena.Teardown(root)
	return string(Print([]byte(src), root, 0))
}

func TestPrintExternFnProtoNoBody(t *testing.T) {
	src := "extern fn puts(s: &const u8) -> c_int;\n"
	if got := formatSource(t, src); got != src {
		t.Errorf("got %q, want %q", got, src)
	}
}

func TestPrintExternVarDecl(t *testing.T) {
	src := "extern var foo: c_int;\n"
	if got := formatSource(t, src); got != src {
		t.Errorf("got %q, want %q", got, src)
	}
}

func TestPrintFnDefWithNestedAddrOfAndBlock(t *testing.T) {
	src := "fn main(argc: c_int, argv: &&u8) -> c_int {\n    var x = 0;\n}\n"
	if got := formatSource(t, src); got != src {
		t.Errorf("got %q, want %q", got, src)
	}
}

func TestPrintCollapsesInsignificantWhitespace(t *testing.T) {
	got := formatSource(t, "const  a  =  b ;")
	want := "const a = b;\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintMultipleTopLevelDecls(t *testing.T) {
	src := "const a = b;\nconst c = d;\n"
	if got := formatSource(t, src); got != src {
		t.Errorf("got %q, want %q", got, src)
	}
}

func TestPrintVarDeclWithoutType(t *testing.T) {
	got := formatSource(t, "pub const a = 1;")
	want := "pub const a = 1;\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrintFnProtoCustomCallConvAndVarArgs(t *testing.T) {
	src := "extern nakedcc fn f(a: c_int, ...) -> c_int;\n"
	if got := formatSource(t, src); got != src {
		t.Errorf("got %q, want %q", got, src)
	}
}

func TestPrintFnWithoutParamsOrReturnType(t *testing.T) {
	src := "fn f() {\n}\n"
	if got := formatSource(t, src); got != src {
		t.Errorf("got %q, want %q", got, src)
	}
}

func TestPrintExpressionStatement(t *testing.T) {
	src := "fn f() {\n    foo;\n    &const bar;\n}\n"
	if got := formatSource(t, src); got != src {
		t.Errorf("got %q, want %q", got, src)
	}
}

func TestPrintBlockIndentsEveryStatement(t *testing.T) {
	// fn bodies are the only block-producing construct in this grammar
	// and a statement is never itself a block, so blocks do not nest;
	// every statement of a block gets the same one-level indent.
	src := "fn f() {\n    var a = 1;\n    var b = 2;\n}\n"
	if got := formatSource(t, src); got != src {
		t.Errorf("got %q, want %q", got, src)
	}
}

func TestPrintIsAFixedPointOverItsOwnOutput(t *testing.T) {
	src := "const  a:c_int=  1 ;\nfn  f( x : c_int ) -> c_int {\nvar y=2;\n}\n"

	once := formatSource(t, src)
	twice := formatSource(t, once)

	if once != twice {
		t.Errorf("printing is not idempotent:\nfirst:  %q\nsecond: %q", once, twice)
	}
}

func TestPrintDefaultIndentWidthIsFour(t *testing.T) {
	root, arena, err := Parse("test", []byte("fn f() {\n    var a = 1;\n}\n"), Options{})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer arena.Teardown(root)

	got := string(Print([]byte("fn f() {\n    var a = 1;\n}\n"), root, 0))
	want := "fn f() {\n    var a = 1;\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
