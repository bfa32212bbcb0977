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

import (
	"bytes"

	"devt.de/krotik/common/stringutil"
)

// Printer
// =======
//
// The printer walks the AST with the same discipline the parser
// parses it: an explicit LIFO stack of render jobs, never host
// recursion. A job writes its own leading text directly, then pushes
// whatever comes after it (its "trailer") before pushing the job for
// any nested node - since the stack is LIFO, the nested node's own
// output always lands between the leading and trailing text the
// surrounding job already queued up.

/*
printJob is one unit of rendering work.
*/
type printJob func(pr *Printer)

/*
Printer renders an AST back to canonical source text. Re-running
Print over Parse's own output is required to reproduce it byte for
byte, and printing twice in a row must produce the same bytes both
times.
*/
type Printer struct {
	source      []byte
	buf         bytes.Buffer
	indent      int
	indentWidth int
	stack       []printJob
}

/*
Print renders root using source for literal text. indentWidth is the
number of spaces one block nesting level adds; a zero value here is
taken to mean "use the default" (4).
*/
func Print(source []byte, root *Node, indentWidth int) []byte {
	if indentWidth <= 0 {
		indentWidth = 4
	}

	pr := &Printer{source: source, indentWidth: indentWidth}
	pr.push(prRoot(root))

	for len(pr.stack) > 0 {
		j := pr.stack[len(pr.stack)-1]
		pr.stack = pr.stack[:len(pr.stack)-1]
		j(pr)
	}

	return pr.buf.Bytes()
}

func (pr *Printer) push(j printJob) {
	pr.stack = append(pr.stack, j)
}

func (pr *Printer) write(s string) {
	pr.buf.WriteString(s)
}

func (pr *Printer) writeIndent() {
	pr.buf.WriteString(stringutil.GenerateRollingString(" ", pr.indent))
}

// Root / TopLevelDecl
// ===================

func prRoot(root *Node) printJob {
	return func(pr *Printer) {
		for i := len(root.Decls) - 1; i >= 0; i-- {
			pr.push(prTopLevelDecl(root.Decls[i]))
		}
	}
}

func prTopLevelDecl(n *Node) printJob {
	return func(pr *Printer) {
		switch n.Kind {
		case NodeVarDecl:
			pr.push(prVarDecl(n))
		case NodeFnProto:
			pr.push(prFnProto(n))
		}
	}
}

// VarDecl
// =======

func prVarDecl(n *Node) printJob {
	return func(pr *Printer) {
		if n.Visib != nil {
			pr.write(n.Visib.ID.String())
			pr.write(" ")
		}
		if n.Extern != nil {
			pr.write("extern ")
		}
		if n.Comptime != nil {
			pr.write("comptime ")
		}
		pr.write(n.Mut.ID.String())
		pr.write(" ")
		pr.write(n.Name.Text(pr.source))

		// Pushed in reverse of execution order: the last pushed job
		// (Type, if present) runs first.
		pr.push(prVarDeclSemicolon(n))
		if n.Init != nil {
			pr.push(prVarDeclEq(n))
		}
		// VarDeclAlign: Align is never populated (GroupedExpression is
		// a deliberate stub), so there is no render state for it.
		if n.Type != nil {
			pr.push(prVarDeclColon(n))
		}
	}
}

func prVarDeclColon(n *Node) printJob {
	return func(pr *Printer) {
		pr.write(": ")
		pr.push(prExpr(n.Type))
	}
}

func prVarDeclEq(n *Node) printJob {
	return func(pr *Printer) {
		pr.write(" = ")
		pr.push(prExpr(n.Init))
	}
}

func prVarDeclSemicolon(n *Node) printJob {
	return func(pr *Printer) {
		pr.write(";\n")
	}
}

// FnProto / FnDef
// ===============

func prFnProto(n *Node) printJob {
	return func(pr *Printer) {
		if n.Visib != nil {
			pr.write(n.Visib.ID.String())
			pr.write(" ")
		}
		if n.Extern != nil {
			pr.write("extern ")
		}
		if n.Inline != nil {
			pr.write("inline ")
		}
		if n.CallConv != nil {
			pr.write(n.CallConv.ID.String())
			pr.write(" ")
		}
		pr.write("fn ")
		if n.Name != nil {
			pr.write(n.Name.Text(pr.source))
		}
		pr.write("(")

		pr.push(prFnProtoRParen(n))
		pr.push(prParamAt(n, 0))
	}
}

func prParamAt(n *Node, idx int) printJob {
	return func(pr *Printer) {
		if idx < len(n.Params) {
			if idx > 0 {
				pr.write(", ")
			}
			pr.push(prParamAt(n, idx+1))
			pr.push(prParamDecl(n.Params[idx]))
			return
		}

		if n.VarArgs != nil {
			if idx > 0 {
				pr.write(", ")
			}
			pr.write("...")
		}
	}
}

func prParamDecl(p *Node) printJob {
	return func(pr *Printer) {
		if p.Noalias != nil {
			pr.write("noalias ")
		}
		if p.Name != nil {
			pr.write(p.Name.Text(pr.source))
			pr.write(": ")
		}
		pr.push(prExpr(p.Type))
	}
}

func prFnProtoRParen(n *Node) printJob {
	return func(pr *Printer) {
		pr.write(")")

		// FnProtoAlign: Align is never populated, see prVarDecl.
		if n.ReturnType != nil {
			pr.write(" -> ")
			pr.push(prFnProtoTail(n))
			pr.push(prExpr(n.ReturnType))
			return
		}

		pr.push(prFnProtoTail(n))
	}
}

func prFnProtoTail(n *Node) printJob {
	return func(pr *Printer) {
		if n.FnBody != nil {
			pr.write(" ")
			pr.push(prBlock(n.FnBody))
			return
		}
		pr.write(";\n")
	}
}

// Block / Statement
// =================

func prBlock(n *Node) printJob {
	return func(pr *Printer) {
		pr.write("{\n")
		pr.indent += pr.indentWidth

		pr.push(prBlockClose(n))
		pr.push(prStatementAt(n, 0))
	}
}

func prStatementAt(n *Node, idx int) printJob {
	return func(pr *Printer) {
		if idx >= len(n.Stmts) {
			return
		}

		pr.writeIndent()
		pr.push(prStatementAt(n, idx+1))
		pr.push(prStatement(n.Stmts[idx]))
	}
}

/*
prStatement dispatches on the statement's own node kind: a VarDecl
renders as a declaration, anything else is an expression statement and
gets a trailing ";\n" the expression itself never supplies.
*/
func prStatement(n *Node) printJob {
	return func(pr *Printer) {
		if n.Kind == NodeVarDecl {
			pr.push(prVarDecl(n))
			return
		}

		pr.push(prExprStatementSemicolon())
		pr.push(prExpr(n))
	}
}

func prExprStatementSemicolon() printJob {
	return func(pr *Printer) {
		pr.write(";\n")
	}
}

func prBlockClose(n *Node) printJob {
	return func(pr *Printer) {
		pr.indent -= pr.indentWidth
		pr.writeIndent()
		pr.write("}\n")
	}
}

// Expression
// ==========
//
// Only the two expression-capable node kinds need rendering: a leaf
// Identifier (which also carries literals and literal keywords, see
// stPrimaryExpression) and an AddrOfExpr, whose "AddrOfExprBit" render
// state is the const/volatile modifier pair written before recursing
// into the operand.

func prExpr(n *Node) printJob {
	return func(pr *Printer) {
		switch n.Kind {

		case NodeIdentifier:
			pr.write(n.Name.Text(pr.source))

		case NodeAddrOfExpr:
			pr.write("&")
			if n.Const != nil {
				pr.write("const ")
			}
			if n.Volatile != nil {
				pr.write("volatile ")
			}
			pr.push(prExpr(n.Operand))
		}
	}
}
