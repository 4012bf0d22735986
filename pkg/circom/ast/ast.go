// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package ast defines the syntax tree produced by the circom parser.  Nodes
// carry syntactic structure only: whether a given Value names a variable or a
// signal, or whether a given Call instantiates a template or invokes a
// function, is deliberately left to downstream semantic analysis which has
// the symbol information this layer does not.
package ast

// Node is implemented by every syntax tree node.  Nodes are constructed once
// during parsing and never mutated afterwards; their source spans are held in
// a source.Map keyed on the node itself.
type Node interface {
	isNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	isExpr()
}

// Stmt is implemented by every statement (and block) node.
type Stmt interface {
	Node
	isStmt()
}

// Circuit is the root of a parsed source file: a flat, unbounded sequence of
// statements and blocks in source order, with no enclosing delimiter.
type Circuit struct {
	Stmts []Stmt
}
