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

// SignalKind distinguishes the three signal declaration variants.
type SignalKind uint

const (
	// INPUT_SIGNAL signals "signal input"
	INPUT_SIGNAL SignalKind = iota
	// OUTPUT_SIGNAL signals "signal output"
	OUTPUT_SIGNAL
	// INTERMEDIATE_SIGNAL signals a plain "signal"
	INTERMEDIATE_SIGNAL
)

func (k SignalKind) String() string {
	return [...]string{"input", "output", "intermediate"}[k]
}

// SignalDecl declares an input, output or intermediate signal, with zero or
// more array-size expressions.  Only output signals may carry an initialiser
// (via <== or <--); Init is nil otherwise.
type SignalDecl struct {
	Kind   SignalKind
	Name   string
	Sizes  []Expr
	InitOp WireOp
	Init   Expr
}

// VarDecl declares a witness-time variable with zero or more array-size
// expressions and an optional initialiser (possibly a nested array literal).
type VarDecl struct {
	Name  string
	Sizes []Expr
	Init  Expr
}

// ComponentDecl declares a component with zero or more array-size
// expressions and an optional initialiser.  The initialiser is a Call, which
// may or may not name a template; that check belongs downstream.
type ComponentDecl struct {
	Name  string
	Sizes []Expr
	Init  *Call
}

// MainComponentDecl is "component main {public [a, b]} = Call();".  The
// initialiser is mandatory and the public clause optional.
type MainComponentDecl struct {
	Public []string
	Init   *Call
}

func (p *SignalDecl) isNode()        {}
func (p *SignalDecl) isStmt()        {}
func (p *VarDecl) isNode()           {}
func (p *VarDecl) isStmt()           {}
func (p *ComponentDecl) isNode()     {}
func (p *ComponentDecl) isStmt()     {}
func (p *MainComponentDecl) isNode() {}
func (p *MainComponentDecl) isStmt() {}
