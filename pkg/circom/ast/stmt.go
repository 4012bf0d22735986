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
package ast

// WireOp identifies one of the four signal-wiring operators.  The direction
// of assignment is encoded by the variant; the "safe" variants additionally
// generate a constraint.
type WireOp uint

const (
	// WIRE_LEFT signals "<--"
	WIRE_LEFT WireOp = iota
	// WIRE_LEFT_SAFE signals "<=="
	WIRE_LEFT_SAFE
	// WIRE_RIGHT signals "-->"
	WIRE_RIGHT
	// WIRE_RIGHT_SAFE signals "==>"
	WIRE_RIGHT_SAFE
)

func (op WireOp) String() string {
	return [...]string{"<--", "<==", "-->", "==>"}[op]
}

// Pragma is "pragma circom N.N.N;".  The version is retained verbatim.
type Pragma struct {
	Version string
}

// Include is `include "path";`.  Resolving and loading the included file is
// an external responsibility; only the (decoded) path is retained.
type Include struct {
	Path string
}

// Assignment is the generic "name[idx]... = expr" statement.  Ambiguous by
// design: it may assign a variable or a component; resolution belongs to the
// semantic analyser.
type Assignment struct {
	Target *Value
	Value  Expr
}

// CompoundAssignment is "target op= expr" for the arithmetic and bitwise
// compound forms (+=, -=, *=, **=, /=, \=, %=, <<=, >>=, &=, ^=, |=).
type CompoundAssignment struct {
	Op     BinOp
	Target *Value
	Value  Expr
}

// Increment is "target++".
type Increment struct {
	Target *Value
}

// Decrement is "target--".
type Decrement struct {
	Target *Value
}

// SignalWire is one of the four wiring statements ("lhs <== rhs", etc).
// Both operands are expressions; which side must reduce to a signal
// reference is a semantic question.
type SignalWire struct {
	Op    WireOp
	Left  Expr
	Right Expr
}

// ConstrainSignal is "lhs === rhs": a pure constraint between two numeric
// expressions, with no assignment direction.
type ConstrainSignal struct {
	Left  Expr
	Right Expr
}

// Assert is "assert(cond);".
type Assert struct {
	Cond Expr
}

// Log is "log(arg, ...);".  Arguments are numeric expressions or string
// literals; whether particular forms are allowed inside log is enforced by
// the external linter, not here.
type Log struct {
	Args []Expr
}

// Return is "return expr;", valid inside function bodies (and, as with all
// context restrictions, accepted anywhere by this parser).
type Return struct {
	Value Expr
}

// If is a conditional with an optional else branch.  Bodies are a single
// statement or a brace-delimited sequence; either way they are held as an
// ordered slice.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// ForLoop owns its three control clauses plus a body.  Init and Step are
// ordinary statements parsed with the normal statement machinery.
type ForLoop struct {
	Init Stmt
	Cond Expr
	Step Stmt
	Body []Stmt
}

// WhileLoop loops over a body while a boolean condition holds.
type WhileLoop struct {
	Cond Expr
	Body []Stmt
}

// TemplateDecl declares a named, parametrised circuit template, optionally
// marked parallel.
type TemplateDecl struct {
	Name     string
	Parallel bool
	Params   []string
	Body     []Stmt
}

// FunctionDecl declares a named, parametrised function.
type FunctionDecl struct {
	Name   string
	Params []string
	Body   []Stmt
}

// Error is synthesized in place of a statement which failed to parse,
// covering the offending span.  It lets tooling see that something occupied
// this position while the recorded diagnostics explain what went wrong.
type Error struct {
	// Number of tokens covered, including any consumed whilst
	// resynchronising.
	Skipped int
}

func (p *Pragma) isNode()             {}
func (p *Pragma) isStmt()             {}
func (p *Include) isNode()            {}
func (p *Include) isStmt()            {}
func (p *Assignment) isNode()         {}
func (p *Assignment) isStmt()         {}
func (p *CompoundAssignment) isNode() {}
func (p *CompoundAssignment) isStmt() {}
func (p *Increment) isNode()          {}
func (p *Increment) isStmt()          {}
func (p *Decrement) isNode()          {}
func (p *Decrement) isStmt()          {}
func (p *SignalWire) isNode()         {}
func (p *SignalWire) isStmt()         {}
func (p *ConstrainSignal) isNode()    {}
func (p *ConstrainSignal) isStmt()    {}
func (p *Assert) isNode()             {}
func (p *Assert) isStmt()             {}
func (p *Log) isNode()                {}
func (p *Log) isStmt()                {}
func (p *Return) isNode()             {}
func (p *Return) isStmt()             {}
func (p *If) isNode()                 {}
func (p *If) isStmt()                 {}
func (p *ForLoop) isNode()            {}
func (p *ForLoop) isStmt()            {}
func (p *WhileLoop) isNode()          {}
func (p *WhileLoop) isStmt()          {}
func (p *TemplateDecl) isNode()       {}
func (p *TemplateDecl) isStmt()       {}
func (p *FunctionDecl) isNode()       {}
func (p *FunctionDecl) isStmt()       {}
func (p *Error) isNode()              {}
func (p *Error) isStmt()              {}
