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

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// BinOp identifies a binary operator.
type BinOp uint

// Binary operators, in increasing order of the tier they occupy within the
// numeric precedence ladder (POW binds tightest).  Note that POW is
// left-associative, as circom declares it; this is unusual for
// exponentiation but intentional.
const (
	// POW signals "**"
	POW BinOp = iota
	// MUL signals "*"
	MUL
	// DIV signals "/"
	DIV
	// QUO signals "\" (integer quotient)
	QUO
	// REM signals "%"
	REM
	// ADD signals "+"
	ADD
	// SUB signals "-"
	SUB
	// SHL signals "<<"
	SHL
	// SHR signals ">>"
	SHR
	// BAND signals "&"
	BAND
	// BXOR signals "^"
	BXOR
	// BOR signals "|"
	BOR
	// AND signals "&&" (boolean)
	AND
	// OR signals "||" (boolean)
	OR
)

func (op BinOp) String() string {
	return [...]string{"**", "*", "/", "\\", "%", "+", "-", "<<", ">>", "&", "^", "|", "&&", "||"}[op]
}

// UnaryOp identifies a unary (prefix) operator.
type UnaryOp uint

const (
	// BNOT signals "~" (bitwise complement)
	BNOT UnaryOp = iota
	// NOT signals "!" (boolean negation)
	NOT
)

func (op UnaryOp) String() string {
	return [...]string{"~", "!"}[op]
}

// CmpOp identifies a comparison operator.
type CmpOp uint

const (
	// LT signals "<"
	LT CmpOp = iota
	// LTEQ signals "<="
	LTEQ
	// GT signals ">"
	GT
	// GTEQ signals ">="
	GTEQ
	// EQ signals "=="
	EQ
	// NEQ signals "!="
	NEQ
)

func (op CmpOp) String() string {
	return [...]string{"<", "<=", ">", ">=", "==", "!="}[op]
}

// Number is a decimal integer literal.  Values are retained at arbitrary
// precision; no folding or range checking occurs here.
type Number struct {
	Value big.Int
}

// NewNumber constructs a number literal from a given value.
func NewNumber(value *big.Int) *Number {
	return &Number{*value}
}

// FieldElement reduces this literal into circom's default prime field (the
// BN254 scalar field), as the code-generation collaborator sees it.
func (p *Number) FieldElement() fr.Element {
	var elem fr.Element
	//
	elem.SetBigInt(&p.Value)
	//
	return elem
}

// Binary applies a binary operator to exactly two operands.  For AND / OR the
// operands are boolean expressions; for every other operator they are
// numeric.
type Binary struct {
	Op    BinOp
	Left  Expr
	Right Expr
}

// Unary applies a prefix operator to exactly one operand.
type Unary struct {
	Op      UnaryOp
	Operand Expr
}

// Cmp compares two numeric expressions, producing a boolean expression.
// Comparisons sit outside the binary precedence ladder: neither operand may
// itself be a bare comparison.
type Cmp struct {
	Op    CmpOp
	Left  Expr
	Right Expr
}

// Conditional is the ternary "cond ? then : else".  The condition is a
// boolean expression and both branches are numeric; the node itself is a
// numeric expression.
type Conditional struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Call is "identifier(args...)".  Ambiguous by design: it may invoke a
// function or instantiate a template, and this parser does not decide which.
type Call struct {
	Name string
	Args []Expr
}

// Value references a named entity, optionally indexed and optionally
// narrowed to a component signal: "name[i][j].sig[k]".  Ambiguous by design:
// the name may denote a variable, a signal or a component.
type Value struct {
	Name string
	// Indexes applied to the name itself.
	Indexes []Expr
	// Component signal accessor, or "" if absent.
	Signal string
	// Indexes applied to the component signal.
	SignalIndexes []Expr
}

// Array is a (possibly nested) array literal "[a, [b, c], d]".  Nesting
// simply places one Array inside another; the node shape is the same at
// every depth.
type Array struct {
	Elements []Expr
}

// String is a double-quoted string literal using the JSON escape grammar.
// Value holds the decoded text.  Strings occur as include paths and log
// arguments only.
type String struct {
	Value string
}

func (p *Number) isNode()      {}
func (p *Number) isExpr()      {}
func (p *Binary) isNode()      {}
func (p *Binary) isExpr()      {}
func (p *Unary) isNode()       {}
func (p *Unary) isExpr()       {}
func (p *Cmp) isNode()         {}
func (p *Cmp) isExpr()         {}
func (p *Conditional) isNode() {}
func (p *Conditional) isExpr() {}
func (p *Call) isNode()        {}
func (p *Call) isExpr()        {}
func (p *Value) isNode()       {}
func (p *Value) isExpr()       {}
func (p *Array) isNode()       {}
func (p *Array) isExpr()       {}
func (p *String) isNode()      {}
func (p *String) isExpr()      {}
