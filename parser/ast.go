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
	"fmt"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/stringutil"
)

// AST nodes
// =========

/*
NodeKind is the discriminator every AST node header carries. The node
set is closed and small.
*/
type NodeKind int

const (
	NodeRoot NodeKind = iota
	NodeVarDecl
	NodeIdentifier
	NodeFnProto
	NodeParamDecl
	NodeAddrOfExpr
	NodeBlock
)

/*
nodeKindNames gives NodeKind a readable name for the tree-dump
renderer.
*/
var nodeKindNames = map[NodeKind]string{
	NodeRoot:       "Root",
	NodeVarDecl:    "VarDecl",
	NodeIdentifier: "Identifier",
	NodeFnProto:    "FnProto",
	NodeParamDecl:  "ParamDecl",
	NodeAddrOfExpr: "AddrOfExpr",
	NodeBlock:      "Block",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

/*
Node models one node in the AST. Every concrete variant is a record
sharing this one Go struct - a common header plus a union of fields,
which fields are meaningful is determined entirely by Kind. Optional
fields are nil when absent: a native optional, never a sentinel value.
*/
type Node struct {
	Kind NodeKind

	// Root
	Decls []*Node

	// VarDecl
	Visib    *Token // pub | export
	Mut      *Token // var | const (required)
	Name     *Token // VarDecl, Identifier, FnProto (optional), ParamDecl (optional)
	Eq       *Token
	Comptime *Token // VarDecl, ParamDecl (as a statement prefix)
	Extern   *Token // VarDecl, FnProto
	LibName  *Node  // VarDecl, FnProto - reserved, see Open Question (ii); always nil in this core
	Type     *Node  // VarDecl (declared type), ParamDecl (parameter type)
	Align    *Node  // VarDecl, FnProto, AddrOfExpr - see Open Question (iii); always nil, GroupedExpression is a deliberate stub
	Init     *Node  // VarDecl

	// FnProto
	Fn         *Token
	Params     []*Node
	ReturnType *Node
	VarArgs    *Token // FnProto (via its last ParamDecl), ParamDecl
	Inline     *Token
	CallConv   *Token // coldcc | nakedcc | stdcallcc
	FnBody     *Node  // Block, nil for an extern/forward declaration

	// ParamDecl
	Noalias *Token

	// AddrOfExpr
	Amp            *Token
	BitOffsetStart *Token // reserved, unreachable while Align's GroupedExpression stub errors first
	BitOffsetEnd   *Token
	Const          *Token
	Volatile       *Token
	Operand        *Node

	// Block
	LBrace *Token
	RBrace *Token
	Stmts  []*Node
}

/*
Child returns the k-th child of a node, or (nil, false) if there is no
such child. Children are returned in a stable order consistent between
teardown (§4.3) and the tree-dump renderer (§3.4): for a VarDecl that
order is LibName, Type, Align, Init; for an FnProto it is Params...,
ReturnType, LibName, Align, FnBody; for an AddrOfExpr it is Align,
Operand. Leaves (Identifier) report no children.
*/
func (n *Node) Child(k int) (*Node, bool) {
	switch n.Kind {

	case NodeRoot:
		if k < len(n.Decls) {
			return n.Decls[k], true
		}

	case NodeVarDecl:
		children := compact(n.LibName, n.Type, n.Align, n.Init)
		if k < len(children) {
			return children[k], true
		}

	case NodeIdentifier:
		// leaf

	case NodeFnProto:
		children := append(append([]*Node{}, n.Params...), compact(n.ReturnType, n.LibName, n.Align, n.FnBody)...)
		if k < len(children) {
			return children[k], true
		}

	case NodeParamDecl:
		children := compact(n.Type)
		if k < len(children) {
			return children[k], true
		}

	case NodeAddrOfExpr:
		children := compact(n.Align, n.Operand)
		if k < len(children) {
			return children[k], true
		}

	case NodeBlock:
		if k < len(n.Stmts) {
			return n.Stmts[k], true
		}
	}

	return nil, false
}

/*
NumChildren returns the number of children Child would enumerate.
*/
func (n *Node) NumChildren() int {
	count := 0
	for {
		if _, ok := n.Child(count); !ok {
			return count
		}
		count++
	}
}

func compact(nodes ...*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Arena
// =====

/*
Arena is the single allocator that owns every AST node for the
lifetime of a parse. All nodes are created through New and destroyed
together in one sweep via Teardown.
*/
type Arena struct {
	live map[*Node]bool
}

/*
NewArena creates an empty Arena.
*/
func NewArena() *Arena {
	return &Arena{live: make(map[*Node]bool)}
}

/*
New allocates a fresh node of the given kind, owned by this arena.
*/
func (a *Arena) New(kind NodeKind) *Node {
	n := &Node{Kind: kind}
	a.live[n] = true
	return n
}

/*
Live reports how many nodes this arena currently owns.
*/
func (a *Arena) Live() int {
	return len(a.live)
}

func (a *Arena) destroy(n *Node) {
	errorutil.AssertTrue(a.live[n], "teardown attempted to destroy a node twice")
	delete(a.live, n)
}

/*
Teardown performs an iterative post-order walk over root and every
node reachable through Child, destroying each node exactly once. This
uses O(depth) auxiliary space and never recurses: the work stack never
holds more than one frame per ancestor on the current path.
*/
func (a *Arena) Teardown(root *Node) {
	if root == nil {
		return
	}

	type frame struct {
		node     *Node
		nextChild int
	}

	stack := []*frame{{node: root}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		child, ok := top.node.Child(top.nextChild)
		if ok {
			top.nextChild++
			stack = append(stack, &frame{node: child})
			continue
		}

		stack = stack[:len(stack)-1]
		a.destroy(top.node)
	}
}

// Tree dump
// =========

/*
Dump renders root as an indented tree, one node per line, using the
same Child order Teardown relies on. Uses an explicit
work stack rather than recursion, in keeping with the rest of this
package.
*/
func Dump(source []byte, root *Node) string {
	var buf bytes.Buffer

	type frame struct {
		node  *Node
		depth int
	}

	stack := []frame{{node: root, depth: 0}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		buf.WriteString(stringutil.GenerateRollingString(" ", top.depth*2))
		buf.WriteString(top.node.Kind.String())

		if name := leafToken(top.node); name != nil {
			buf.WriteString(": ")
			buf.WriteString(name.Text(source))
		}
		buf.WriteString("\n")

		n := top.node.NumChildren()
		for i := n - 1; i >= 0; i-- {
			child, _ := top.node.Child(i)
			stack = append(stack, frame{node: child, depth: top.depth + 1})
		}
	}

	return buf.String()
}

func leafToken(n *Node) *Token {
	switch n.Kind {
	case NodeIdentifier:
		return n.Name
	}
	return nil
}

/*
ToJSONObject renders root (and every node Child reaches) as a nested
map suitable for json.Marshal - a machine-readable alternative to
Dump. Like Dump and Teardown it walks the tree with an explicit stack
rather than recursing: a node frame is revisited once after all of
its children have produced their objects, at which point they are
collected off a shared results stack.
*/
func ToJSONObject(source []byte, root *Node) map[string]interface{} {
	type frame struct {
		node    *Node
		visited bool
	}

	stack := []*frame{{node: root}}
	var results []map[string]interface{}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.visited {
			stack = stack[:len(stack)-1]

			count := top.node.NumChildren()
			obj := map[string]interface{}{"kind": top.node.Kind.String()}
			if name := leafToken(top.node); name != nil {
				obj["value"] = name.Text(source)
			}
			if count > 0 {
				children := results[len(results)-count:]
				obj["children"] = append([]map[string]interface{}{}, children...)
				results = results[:len(results)-count]
			}
			results = append(results, obj)
			continue
		}

		top.visited = true
		count := top.node.NumChildren()
		for i := count - 1; i >= 0; i-- {
			child, _ := top.node.Child(i)
			stack = append(stack, &frame{node: child})
		}
	}

	return results[0]
}
