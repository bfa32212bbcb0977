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

func TestTokenIDString(t *testing.T) {
	tests := []struct {
		id   TokenID
		want string
	}{
		{TokenIdentifier, "identifier"},
		{TokenEqual, "="},
		{TokenArrow, "->"},
		{TokenEllipsis3, "..."},
		{TokenKeywordFn, "fn"},
		{TokenKeywordConst, "const"},
	}

	for _, test := range tests {
		if got := test.id.String(); got != test.want {
			t.Errorf("TokenID(%d).String() = %q, want %q", test.id, got, test.want)
		}
	}

	if got := TokenID(9999).String(); got != "TokenID(9999)" {
		t.Errorf("unknown TokenID.String() = %q", got)
	}
}

func TestKeywordMapCoversReservedWords(t *testing.T) {
	words := []string{
		"align", "and", "asm", "break", "coldcc", "comptime", "const",
		"continue", "defer", "else", "enum", "error", "export", "extern",
		"false", "fn", "for", "goto", "if", "inline", "nakedcc", "noalias",
		"null", "or", "packed", "pub", "return", "stdcallcc", "struct",
		"switch", "test", "this", "true", "undefined", "union",
		"unreachable", "use", "var", "volatile", "while",
	}

	if len(KeywordMap) != len(words) {
		t.Fatalf("KeywordMap has %d entries, want %d", len(KeywordMap), len(words))
	}

	for _, w := range words {
		if _, ok := KeywordMap[w]; !ok {
			t.Errorf("KeywordMap missing %q", w)
		}
	}
}

func TestTokenText(t *testing.T) {
	src := []byte("const a")
	tok := Token{ID: TokenKeywordConst, Start: 0, End: 5}

	if got := tok.Text(src); got != "const" {
		t.Errorf("Text() = %q, want %q", got, "const")
	}
}

func TestLocate(t *testing.T) {
	src := []byte("const = 1;")

	loc := Locate(src, 6) // the '=' at byte offset 6

	if loc.Line != 0 || loc.Column != 6 {
		t.Errorf("Locate() = %+v, want Line 0 Column 6", loc)
	}

	if string(src[loc.LineStart:loc.LineEnd]) != "const = 1;" {
		t.Errorf("Locate() line slice = %q", src[loc.LineStart:loc.LineEnd])
	}
}

func TestLocateMultiline(t *testing.T) {
	src := []byte("const a = 1;\nconst b = 2;\n")

	loc := Locate(src, 19) // somewhere on the second line

	if loc.Line != 1 {
		t.Errorf("Locate().Line = %d, want 1", loc.Line)
	}

	if string(src[loc.LineStart:loc.LineEnd]) != "const b = 2;" {
		t.Errorf("Locate() line slice = %q", src[loc.LineStart:loc.LineEnd])
	}
}
