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
package circom

import (
	"math/big"
	"testing"

	"github.com/consensys/go-circom/pkg/circom/ast"
	"github.com/consensys/go-circom/pkg/util/assert"
	"github.com/consensys/go-circom/pkg/util/source"
)

// ===================================================================
// Expressions
// ===================================================================

func TestParseExpr_01(t *testing.T) {
	// Multiplication binds tighter than addition.
	expected := bin(ast.ADD, v("a"), bin(ast.MUL, v("b"), v("c")))
	assert.Equal(t, expected, parseExpr(t, "a + b * c"))
}

func TestParseExpr_02(t *testing.T) {
	// All tiers are left-associative.
	expected := bin(ast.SUB, bin(ast.SUB, v("a"), v("b")), v("c"))
	assert.Equal(t, expected, parseExpr(t, "a - b - c"))
}

func TestParseExpr_03(t *testing.T) {
	// Exponentiation included: 2**3**2 is (2**3)**2, not 2**(3**2).
	expected := bin(ast.POW, bin(ast.POW, num(2), num(3)), num(2))
	assert.Equal(t, expected, parseExpr(t, "2 ** 3 ** 2"))
}

func TestParseExpr_04(t *testing.T) {
	expected := bin(ast.MUL, bin(ast.ADD, v("a"), v("b")), v("c"))
	assert.Equal(t, expected, parseExpr(t, "(a + b) * c"))
}

func TestParseExpr_05(t *testing.T) {
	// Addition binds tighter than shifting.
	expected := bin(ast.SHL, num(1), bin(ast.ADD, num(2), num(3)))
	assert.Equal(t, expected, parseExpr(t, "1 << 2 + 3"))
}

func TestParseExpr_06(t *testing.T) {
	// Bitwise or is the loosest numeric tier.
	expected := bin(ast.BOR, v("a"), bin(ast.BXOR, v("b"), bin(ast.BAND, v("c"), v("d"))))
	assert.Equal(t, expected, parseExpr(t, "a | b ^ c & d"))
}

func TestParseExpr_07(t *testing.T) {
	// Complement binds tighter than any binary operator.
	expected := bin(ast.ADD, &ast.Unary{Op: ast.BNOT, Operand: v("a")}, num(1))
	assert.Equal(t, expected, parseExpr(t, "~a + 1"))
}

func TestParseExpr_08(t *testing.T) {
	expected := &ast.Cmp{Op: ast.LT, Left: v("a"), Right: bin(ast.ADD, v("b"), num(1))}
	assert.Equal(t, expected, parseExpr(t, "a < b + 1"))
}

func TestParseExpr_09(t *testing.T) {
	// Boolean connectives over (possibly negated) comparisons.
	expected := bin(ast.OR,
		bin(ast.AND,
			&ast.Cmp{Op: ast.LT, Left: v("a"), Right: v("b")},
			&ast.Unary{Op: ast.NOT, Operand: &ast.Cmp{Op: ast.EQ, Left: v("c"), Right: v("d")}}),
		v("e"))
	assert.Equal(t, expected, parseExpr(t, "a < b && !(c == d) || e"))
}

func TestParseExpr_10(t *testing.T) {
	expected := &ast.Conditional{
		Cond: &ast.Cmp{Op: ast.LT, Left: v("a"), Right: v("b")},
		Then: num(1),
		Else: num(2),
	}
	assert.Equal(t, expected, parseExpr(t, "a < b ? 1 : 2"))
}

func TestParseExpr_11(t *testing.T) {
	// Conditionals nest to the right through the else branch.
	expected := &ast.Conditional{
		Cond: v("a"),
		Then: num(1),
		Else: &ast.Conditional{Cond: v("b"), Then: num(2), Else: num(3)},
	}
	assert.Equal(t, expected, parseExpr(t, "a ? 1 : b ? 2 : 3"))
}

func TestParseExpr_12(t *testing.T) {
	expected := &ast.Value{
		Name:          "a",
		Indexes:       []ast.Expr{num(1), num(2)},
		Signal:        "out",
		SignalIndexes: []ast.Expr{num(3)},
	}
	assert.Equal(t, expected, parseExpr(t, "a[1][2].out[3]"))
}

func TestParseExpr_13(t *testing.T) {
	expected := &ast.Call{Name: "F", Args: []ast.Expr{num(1), bin(ast.ADD, v("x"), num(2))}}
	assert.Equal(t, expected, parseExpr(t, "F(1, x + 2)"))
}

func TestParseExpr_14(t *testing.T) {
	// No arguments still makes a call, not a value.
	expected := &ast.Call{Name: "F"}
	assert.Equal(t, expected, parseExpr(t, "F()"))
}

func TestParseExpr_15(t *testing.T) {
	expected := &ast.Array{Elements: []ast.Expr{
		num(1),
		&ast.Array{Elements: []ast.Expr{num(2), num(3)}},
		num(4),
	}}
	assert.Equal(t, expected, parseExpr(t, "[1, [2, 3], 4]"))
}

func TestParseExpr_16(t *testing.T) {
	// Reserved words remain usable as plain identifiers.
	expected := bin(ast.ADD, v("input"), num(1))
	assert.Equal(t, expected, parseExpr(t, "input + 1"))
}

func TestParseExpr_17(t *testing.T) {
	// Large literals are retained at arbitrary precision.
	var value big.Int
	//
	value.SetString("21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)
	//
	assert.Equal(t, ast.NewNumber(&value),
		parseExpr(t, "21888242871839275222246405745257275088548364400416034343698204186575808495617"))
}

// ===================================================================
// Statements
// ===================================================================

func TestParseStmt_01(t *testing.T) {
	expected := &ast.Pragma{Version: "2.0.0"}
	assert.Equal(t, expected, parseStmt(t, "pragma circom 2.0.0;"))
}

func TestParseStmt_02(t *testing.T) {
	expected := &ast.Include{Path: "circomlib/poseidon.circom"}
	assert.Equal(t, expected, parseStmt(t, `include "circomlib/poseidon.circom";`))
}

func TestParseStmt_03(t *testing.T) {
	// Include paths are decoded using the JSON escape grammar.
	expected := &ast.Include{Path: "aAb"}
	assert.Equal(t, expected, parseStmt(t, `include "aAb";`))
}

func TestParseStmt_04(t *testing.T) {
	expected := &ast.SignalDecl{Kind: ast.INPUT_SIGNAL, Name: "in", Sizes: []ast.Expr{v("n")}}
	assert.Equal(t, expected, parseStmt(t, "signal input in[n];"))
}

func TestParseStmt_05(t *testing.T) {
	expected := &ast.SignalDecl{Kind: ast.INTERMEDIATE_SIGNAL, Name: "tmp"}
	assert.Equal(t, expected, parseStmt(t, "signal tmp;"))
}

func TestParseStmt_06(t *testing.T) {
	// Output signals may be wired at declaration.
	expected := &ast.SignalDecl{
		Kind:   ast.OUTPUT_SIGNAL,
		Name:   "out",
		InitOp: ast.WIRE_LEFT_SAFE,
		Init:   bin(ast.MUL, v("a"), v("b")),
	}
	assert.Equal(t, expected, parseStmt(t, "signal output out <== a * b;"))
}

func TestParseStmt_07(t *testing.T) {
	expected := &ast.VarDecl{Name: "x", Init: num(0)}
	assert.Equal(t, expected, parseStmt(t, "var x = 0;"))
}

func TestParseStmt_08(t *testing.T) {
	expected := &ast.VarDecl{
		Name:  "x",
		Sizes: []ast.Expr{num(2)},
		Init:  &ast.Array{Elements: []ast.Expr{num(1), num(2)}},
	}
	assert.Equal(t, expected, parseStmt(t, "var x[2] = [1, 2];"))
}

func TestParseStmt_09(t *testing.T) {
	// Reserved words remain usable as declaration names.
	expected := &ast.VarDecl{Name: "signal", Init: num(1)}
	assert.Equal(t, expected, parseStmt(t, "var signal = 1;"))
}

func TestParseStmt_10(t *testing.T) {
	expected := &ast.ComponentDecl{
		Name: "h",
		Init: &ast.Call{Name: "Poseidon", Args: []ast.Expr{num(2)}},
	}
	assert.Equal(t, expected, parseStmt(t, "component h = Poseidon(2);"))
}

func TestParseStmt_11(t *testing.T) {
	expected := &ast.MainComponentDecl{
		Public: []string{"a", "b"},
		Init:   &ast.Call{Name: "Main"},
	}
	assert.Equal(t, expected, parseStmt(t, "component main {public [a, b]} = Main();"))
}

func TestParseStmt_12(t *testing.T) {
	expected := &ast.MainComponentDecl{Init: &ast.Call{Name: "Main"}}
	assert.Equal(t, expected, parseStmt(t, "component main = Main();"))
}

func TestParseStmt_13(t *testing.T) {
	expected := &ast.Assert{Cond: &ast.Cmp{Op: ast.LTEQ, Left: v("n"), Right: num(252)}}
	assert.Equal(t, expected, parseStmt(t, "assert(n <= 252);"))
}

func TestParseStmt_14(t *testing.T) {
	expected := &ast.Log{Args: []ast.Expr{
		&ast.String{Value: "x ="},
		v("x"),
		bin(ast.ADD, num(1), num(2)),
	}}
	assert.Equal(t, expected, parseStmt(t, `log("x =", x, 1 + 2);`))
}

func TestParseStmt_15(t *testing.T) {
	expected := &ast.Return{Value: bin(ast.MUL, v("a"), v("b"))}
	assert.Equal(t, expected, parseStmt(t, "return a * b;"))
}

func TestParseStmt_16(t *testing.T) {
	expected := &ast.Assignment{Target: v("x"), Value: bin(ast.ADD, num(4), num(2))}
	assert.Equal(t, expected, parseStmt(t, "x = 4 + 2;"))
}

func TestParseStmt_17(t *testing.T) {
	expected := &ast.CompoundAssignment{
		Op:     ast.SHL,
		Target: v("x"),
		Value:  num(1),
	}
	assert.Equal(t, expected, parseStmt(t, "x <<= 1;"))
}

func TestParseStmt_24(t *testing.T) {
	// Quotient-assign and division-assign stay distinct.
	assert.Equal(t,
		&ast.CompoundAssignment{Op: ast.QUO, Target: v("x"), Value: num(5)},
		parseStmt(t, `x\=5;`))
	assert.Equal(t,
		&ast.CompoundAssignment{Op: ast.DIV, Target: v("x"), Value: num(5)},
		parseStmt(t, "x/=5;"))
}

func TestParseStmt_18(t *testing.T) {
	assert.Equal(t, &ast.Increment{Target: v("i")}, parseStmt(t, "i++;"))
	assert.Equal(t, &ast.Decrement{Target: v("i")}, parseStmt(t, "i--;"))
}

func TestParseStmt_19(t *testing.T) {
	expected := &ast.SignalWire{
		Op:    ast.WIRE_LEFT_SAFE,
		Left:  v("out"),
		Right: bin(ast.MUL, v("a"), v("b")),
	}
	assert.Equal(t, expected, parseStmt(t, "out <== a * b;"))
}

func TestParseStmt_20(t *testing.T) {
	expected := &ast.SignalWire{
		Op:    ast.WIRE_RIGHT_SAFE,
		Left:  bin(ast.MUL, v("a"), v("b")),
		Right: v("out"),
	}
	assert.Equal(t, expected, parseStmt(t, "a * b ==> out;"))
}

func TestParseStmt_21(t *testing.T) {
	expected := &ast.SignalWire{Op: ast.WIRE_LEFT, Left: v("x"), Right: v("y")}
	assert.Equal(t, expected, parseStmt(t, "x <-- y;"))
}

func TestParseStmt_22(t *testing.T) {
	expected := &ast.ConstrainSignal{
		Left:  v("out"),
		Right: bin(ast.MUL, v("a"), v("b")),
	}
	assert.Equal(t, expected, parseStmt(t, "out === a * b;"))
}

func TestParseStmt_23(t *testing.T) {
	// Assignment targets must be plain references.
	checkDiagnostics(t, "a + b = 1;", 1)
}

// ===================================================================
// Blocks & structure
// ===================================================================

func TestParseBlock_01(t *testing.T) {
	expected := &ast.TemplateDecl{
		Name:   "Multiplier",
		Params: []string{"n"},
		Body: []ast.Stmt{
			&ast.SignalDecl{Kind: ast.INPUT_SIGNAL, Name: "a"},
			&ast.SignalDecl{Kind: ast.INPUT_SIGNAL, Name: "b"},
			&ast.SignalDecl{Kind: ast.OUTPUT_SIGNAL, Name: "c"},
			&ast.SignalWire{Op: ast.WIRE_LEFT_SAFE, Left: v("c"),
				Right: bin(ast.MUL, v("a"), v("b"))},
		},
	}
	//
	stmt := parseStmt(t, `template Multiplier(n) {
		signal input a;
		signal input b;
		signal output c;
		c <== a * b;
	}`)
	//
	assert.Equal(t, expected, stmt)
}

func TestParseBlock_02(t *testing.T) {
	expected := &ast.TemplateDecl{Name: "Foo", Parallel: true, Params: []string{"a", "b"}}
	assert.Equal(t, expected, parseStmt(t, "template parallel Foo(a, b) { }"))
}

func TestParseBlock_03(t *testing.T) {
	expected := &ast.FunctionDecl{
		Name:   "nbits",
		Params: []string{"a"},
		Body:   []ast.Stmt{&ast.Return{Value: v("a")}},
	}
	assert.Equal(t, expected, parseStmt(t, "function nbits(a) { return a; }"))
}

func TestParseBlock_04(t *testing.T) {
	expected := &ast.If{
		Cond: &ast.Cmp{Op: ast.LT, Left: v("a"), Right: v("b")},
		Then: []ast.Stmt{&ast.Assignment{Target: v("x"), Value: num(1)}},
		Else: []ast.Stmt{&ast.Assignment{Target: v("x"), Value: num(2)}},
	}
	assert.Equal(t, expected, parseStmt(t, "if (a < b) x = 1; else x = 2;"))
}

func TestParseBlock_05(t *testing.T) {
	expected := &ast.If{
		Cond: v("a"),
		Then: []ast.Stmt{&ast.Assignment{Target: v("x"), Value: num(1)}},
	}
	assert.Equal(t, expected, parseStmt(t, "if (a) { x = 1; }"))
}

func TestParseBlock_06(t *testing.T) {
	expected := &ast.ForLoop{
		Init: &ast.VarDecl{Name: "i", Init: num(0)},
		Cond: &ast.Cmp{Op: ast.LT, Left: v("i"), Right: v("n")},
		Step: &ast.Increment{Target: v("i")},
		Body: []ast.Stmt{
			&ast.CompoundAssignment{Op: ast.ADD, Target: v("x"), Value: v("i")},
		},
	}
	assert.Equal(t, expected, parseStmt(t, "for (var i = 0; i < n; i++) { x += i; }"))
}

func TestParseBlock_07(t *testing.T) {
	// The initialisation clause may reuse an existing variable.
	expected := &ast.ForLoop{
		Init: &ast.Assignment{Target: v("i"), Value: num(0)},
		Cond: &ast.Cmp{Op: ast.LT, Left: v("i"), Right: v("n")},
		Step: &ast.Increment{Target: v("i")},
		Body: []ast.Stmt{&ast.Increment{Target: v("x")}},
	}
	assert.Equal(t, expected, parseStmt(t, "for (i = 0; i < n; i++) x++;"))
}

func TestParseBlock_08(t *testing.T) {
	expected := &ast.WhileLoop{
		Cond: &ast.Cmp{Op: ast.GT, Left: v("n"), Right: num(0)},
		Body: []ast.Stmt{&ast.CompoundAssignment{Op: ast.SHR, Target: v("n"), Value: num(1)}},
	}
	assert.Equal(t, expected, parseStmt(t, "while (n > 0) n >>= 1;"))
}

func TestParseBlock_09(t *testing.T) {
	// Structural ambiguity is preserved: the component/assignment pair is not
	// resolved here.
	circuit := parseOk(t, "component foo; foo = 4 + 2;")
	expected := []ast.Stmt{
		&ast.ComponentDecl{Name: "foo"},
		&ast.Assignment{Target: v("foo"), Value: bin(ast.ADD, num(4), num(2))},
	}
	assert.Equal(t, expected, circuit.Stmts)
}

// ===================================================================
// Error recovery
// ===================================================================

func TestParseRecovery_01(t *testing.T) {
	// Exactly one diagnostic; the second declaration still parses.
	circuit, errs := parseAny(t, "var x = ; var y = 3;")
	//
	assert.Equal(t, 1, len(errs))
	assert.Equal(t, 2, len(circuit.Stmts))
	assert.Equal(t, &ast.VarDecl{Name: "y", Init: num(3)}, circuit.Stmts[1])
	//
	if _, ok := circuit.Stmts[0].(*ast.Error); !ok {
		t.Errorf("expected error node, got %v", circuit.Stmts[0])
	}
}

func TestParseRecovery_02(t *testing.T) {
	// Recovery within a block does not lose the rest of the block.
	circuit, errs := parseAny(t, `template T() {
		var x = ;
		signal input a;
	}`)
	//
	assert.Equal(t, 1, len(errs))
	//
	template := circuit.Stmts[0].(*ast.TemplateDecl)
	assert.Equal(t, 2, len(template.Body))
	assert.Equal(t, &ast.SignalDecl{Kind: ast.INPUT_SIGNAL, Name: "a"}, template.Body[1])
}

func TestParseRecovery_03(t *testing.T) {
	// Recovery stops before a closing brace rather than consuming it.
	circuit, errs := parseAny(t, "template T() { var = } var z = 1;")
	//
	assert.True(t, len(errs) > 0)
	assert.Equal(t, 2, len(circuit.Stmts))
	assert.Equal(t, &ast.VarDecl{Name: "z", Init: num(1)}, circuit.Stmts[1])
}

func TestParseRecovery_04(t *testing.T) {
	checkDiagnostics(t, `include "abc`, 1)
}

func TestParseRecovery_05(t *testing.T) {
	checkDiagnostics(t, "var x = 1; /* abc", 1)
}

func TestParseRecovery_06(t *testing.T) {
	checkDiagnostics(t, "x = @;", 1)
}

func TestParseRecovery_07(t *testing.T) {
	// The version literal is only accepted after "pragma circom".
	checkDiagnostics(t, "var x = 2.0.0;", 1)
}

func TestParseRecovery_08(t *testing.T) {
	// Multiple independent failures yield multiple diagnostics.
	circuit, errs := parseAny(t, "var x = ; var y = ; var z = 1;")
	//
	assert.Equal(t, 2, len(errs))
	assert.Equal(t, 3, len(circuit.Stmts))
	assert.Equal(t, &ast.VarDecl{Name: "z", Init: num(1)}, circuit.Stmts[2])
}

// ===================================================================
// Source mapping
// ===================================================================

func TestParseSrcmap_01(t *testing.T) {
	srcfile := source.NewSourceFile("test", []byte("x = 1 + 2;"))
	circuit, srcmap, errs := Parse(srcfile)
	//
	assert.Equal(t, 0, len(errs))
	// Statement span covers the terminator.
	span := srcmap.Get(circuit.Stmts[0])
	assert.Equal(t, "x = 1 + 2;", srcfile.Text(span))
	// Subexpression spans cover their operands.
	rhs := circuit.Stmts[0].(*ast.Assignment).Value
	assert.Equal(t, "1 + 2", srcfile.Text(srcmap.Get(rhs)))
}

func TestParseSrcmap_02(t *testing.T) {
	srcfile := source.NewSourceFile("test", []byte("var x = ; var y = ;"))
	circuit, srcmap, errs := Parse(srcfile)
	//
	assert.Equal(t, 2, len(errs))
	// Every synthesized error node carries its own span.
	assert.Equal(t, "var x = ;", srcfile.Text(srcmap.Get(circuit.Stmts[0])))
	assert.Equal(t, "var y = ;", srcfile.Text(srcmap.Get(circuit.Stmts[1])))
}

func TestParseSrcmap_03(t *testing.T) {
	srcfile := source.NewSourceFile("test", []byte("for (var i = 0; i < n; i++) { }"))
	circuit, srcmap, errs := Parse(srcfile)
	//
	assert.Equal(t, 0, len(errs))
	//
	loop := circuit.Stmts[0].(*ast.ForLoop)
	assert.Equal(t, "var i = 0;", srcfile.Text(srcmap.Get(loop.Init)))
	assert.Equal(t, "i++", srcfile.Text(srcmap.Get(loop.Step)))
}

// ===================================================================
// Framework
// ===================================================================

func num(value int64) *ast.Number {
	return ast.NewNumber(big.NewInt(value))
}

func v(name string) *ast.Value {
	return &ast.Value{Name: name}
}

func bin(op ast.BinOp, left ast.Expr, right ast.Expr) *ast.Binary {
	return &ast.Binary{Op: op, Left: left, Right: right}
}

// Parse a given input, expecting no diagnostics.
func parseOk(t *testing.T, input string) ast.Circuit {
	srcfile := source.NewSourceFile("test", []byte(input))
	circuit, _, errs := Parse(srcfile)
	//
	for _, err := range errs {
		t.Errorf("unexpected diagnostic: %s", err.Error())
	}
	//
	if len(errs) > 0 {
		t.FailNow()
	}
	//
	return circuit
}

// Parse a given input, returning whatever tree and diagnostics arise.
func parseAny(t *testing.T, input string) (ast.Circuit, []source.SyntaxError) {
	srcfile := source.NewSourceFile("test", []byte(input))
	circuit, _, errs := Parse(srcfile)
	//
	return circuit, errs
}

// Parse a single statement.
func parseStmt(t *testing.T, input string) ast.Stmt {
	circuit := parseOk(t, input)
	//
	if len(circuit.Stmts) != 1 {
		t.Fatalf("got %d statements, expected 1", len(circuit.Stmts))
	}
	//
	return circuit.Stmts[0]
}

// Parse a single expression by embedding it as an assignment operand.
func parseExpr(t *testing.T, input string) ast.Expr {
	stmt := parseStmt(t, "tmp = "+input+";")
	//
	return stmt.(*ast.Assignment).Value
}

// Parse a given input and check the number of diagnostics reported.
func checkDiagnostics(t *testing.T, input string, count int) {
	srcfile := source.NewSourceFile("test", []byte(input))
	_, _, errs := Parse(srcfile)
	//
	if len(errs) != count {
		t.Errorf("got %d diagnostics, expected %d: %v", len(errs), count, errs)
	}
}
