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

func TestNewErrorPositionAndDetail(t *testing.T) {
	src := []byte("const = 1;")

	err := newError(ErrUnexpectedToken, "input", src, 6, "identifier", "=")

	if err.Line != 1 {
		t.Errorf("Line = %d, want 1", err.Line)
	}
	if err.Column != 7 {
		t.Errorf("Column = %d, want 7", err.Column)
	}
	if err.Expected != "identifier" {
		t.Errorf("Expected = %q, want identifier", err.Expected)
	}
	if err.Found != "=" {
		t.Errorf("Found = %q, want =", err.Found)
	}

	wantDetail := "const = 1;\n      ^"
	if err.Detail != wantDetail {
		t.Errorf("Detail = %q, want %q", err.Detail, wantDetail)
	}
}

func TestErrorUnexpectedTokenFromParse(t *testing.T) {
	src := []byte("const = 1;")

	_, _, err := Parse("input", src, Options{})
	if err == nil {
		t.Fatal("expected a parse error")
	}

	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error is not *Error: %T", err)
	}

	if perr.Kind != ErrUnexpectedToken {
		t.Errorf("Kind = %v, want ErrUnexpectedToken", perr.Kind)
	}
	if perr.Line != 1 || perr.Column != 7 {
		t.Errorf("position = %d:%d, want 1:7", perr.Line, perr.Column)
	}
	if perr.Expected != "identifier" {
		t.Errorf("Expected = %q, want identifier", perr.Expected)
	}
	if perr.Found != "=" {
		t.Errorf("Found = %q, want =", perr.Found)
	}
}
