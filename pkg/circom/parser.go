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
	"encoding/json"
	"math/big"
	"slices"

	"github.com/consensys/go-circom/pkg/circom/ast"
	"github.com/consensys/go-circom/pkg/util/source"
	"github.com/consensys/go-circom/pkg/util/source/lex"
)

// Parse accepts a given circom source file and parses it into a circuit
// syntax tree.  Parsing does not stop at the first problem: diagnostics are
// accumulated whilst the parser resynchronises at statement boundaries, so a
// partial tree and all diagnostics are returned together.  A source map
// associating every node with its originating span is returned alongside.
func Parse(srcfile *source.File) (ast.Circuit, *source.Map[ast.Node], []source.SyntaxError) {
	parser := NewParser(srcfile)
	//
	circuit := parser.Parse()
	//
	return circuit, parser.srcmap, parser.errors
}

// Numeric operator tiers, tightest binding first.  All tiers are
// left-associative, including exponentiation: circom declares every
// arithmetic operator left-associative, and that quirk is reproduced here
// rather than silently corrected to the conventional right associativity.
var binops = map[uint]struct {
	op   ast.BinOp
	prec uint
}{
	POW:  {ast.POW, 7},
	MUL:  {ast.MUL, 6},
	DIV:  {ast.DIV, 6},
	QUO:  {ast.QUO, 6},
	REM:  {ast.REM, 6},
	ADD:  {ast.ADD, 5},
	SUB:  {ast.SUB, 5},
	SHL:  {ast.SHL, 4},
	SHR:  {ast.SHR, 4},
	BAND: {ast.BAND, 3},
	BXOR: {ast.BXOR, 2},
	BOR:  {ast.BOR, 1},
}

// Comparison operators, which sit outside the binary precedence ladder.
var cmpops = map[uint]ast.CmpOp{
	LESS_THAN:           ast.LT,
	LESS_THAN_EQUALS:    ast.LTEQ,
	GREATER_THAN:        ast.GT,
	GREATER_THAN_EQUALS: ast.GTEQ,
	EQUALS_EQUALS:       ast.EQ,
	NOT_EQUALS:          ast.NEQ,
}

// Compound assignment operators.
var compoundops = map[uint]ast.BinOp{
	ADD_EQUALS: ast.ADD,
	SUB_EQUALS: ast.SUB,
	MUL_EQUALS: ast.MUL,
	POW_EQUALS: ast.POW,
	DIV_EQUALS: ast.DIV,
	QUO_EQUALS: ast.QUO,
	REM_EQUALS: ast.REM,
	SHL_EQUALS: ast.SHL,
	SHR_EQUALS: ast.SHR,
	AND_EQUALS: ast.BAND,
	XOR_EQUALS: ast.BXOR,
	OR_EQUALS:  ast.BOR,
}

// Signal wiring operators.
var wireops = map[uint]ast.WireOp{
	WIRE_LEFT:       ast.WIRE_LEFT,
	WIRE_LEFT_SAFE:  ast.WIRE_LEFT_SAFE,
	WIRE_RIGHT:      ast.WIRE_RIGHT,
	WIRE_RIGHT_SAFE: ast.WIRE_RIGHT_SAFE,
}

// Parser is a parser for the circom language.
type Parser struct {
	srcfile *source.File
	tokens  []lex.Token
	// Source mapping
	srcmap *source.Map[ast.Node]
	// Accumulated diagnostics
	errors []source.SyntaxError
	// Position within the tokens
	index int
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	// Construct (initially empty) source mapping
	srcmap := source.NewSourceMap[ast.Node](*srcfile)
	//
	return &Parser{srcfile, Lex(*srcfile), srcmap, nil, 0}
}

// Parse the given source file into a circuit.  The top level is the
// degenerate block: a flat sequence of statements and blocks with no
// enclosing delimiter.
func (p *Parser) Parse() ast.Circuit {
	var circuit ast.Circuit
	// Continue going until all consumed
	for p.lookahead().Kind != END_OF {
		circuit.Stmts = append(circuit.Stmts, p.parseRecoveringStatement())
	}
	//
	return circuit
}

// Errors returns the diagnostics accumulated so far.
func (p *Parser) Errors() []source.SyntaxError {
	return p.errors
}

// Parse a single statement; should it fail, record the diagnostics,
// synthesize an error node covering the offending span and resynchronise at
// the next statement terminator (or before the next block delimiter), so
// parsing of the remainder of the file can continue.
func (p *Parser) parseRecoveringStatement() ast.Stmt {
	var (
		start      = p.index
		stmt, errs = p.parseStatement()
	)
	//
	if len(errs) == 0 {
		return stmt
	}
	//
	p.errors = append(p.errors, errs...)
	// Ensure forward progress
	if p.index == start && p.lookahead().Kind != END_OF {
		p.index++
	}
	// Resynchronise past the next terminator
	for !p.follows(END_OF, RCURLY) {
		kind := p.lookahead().Kind
		p.index++
		//
		if kind == SEMICOLON {
			break
		}
	}
	//
	last := max(start, p.index-1)
	node := &ast.Error{Skipped: p.index - start}
	//
	p.srcmap.Put(node, p.spanOf(start, last))
	//
	return node
}

func (p *Parser) parseStatement() (ast.Stmt, []source.SyntaxError) {
	var (
		start = p.index
		stmt  ast.Stmt
		errs  []source.SyntaxError
	)
	//
	lookahead := p.lookahead()
	//
	switch lookahead.Kind {
	case KEYWORD_PRAGMA:
		stmt, errs = p.parsePragma()
	case KEYWORD_INCLUDE:
		stmt, errs = p.parseInclude()
	case KEYWORD_SIGNAL:
		stmt, errs = p.parseSignalDecl()
	case KEYWORD_VAR:
		stmt, errs = p.parseVarDecl()
	case KEYWORD_COMPONENT:
		stmt, errs = p.parseComponentDecl()
	case KEYWORD_ASSERT:
		stmt, errs = p.parseAssert()
	case KEYWORD_LOG:
		stmt, errs = p.parseLog()
	case KEYWORD_RETURN:
		stmt, errs = p.parseReturn()
	case KEYWORD_TEMPLATE:
		stmt, errs = p.parseTemplate()
	case KEYWORD_FUNCTION:
		stmt, errs = p.parseFunction()
	case KEYWORD_IF:
		stmt, errs = p.parseIf()
	case KEYWORD_FOR:
		stmt, errs = p.parseFor()
	case KEYWORD_WHILE:
		stmt, errs = p.parseWhile()
	case BAD_STRING, UNCLOSED_COMMENT, UNKNOWN:
		return nil, p.lexicalErrors(lookahead)
	default:
		stmt, errs = p.parseSimpleStatement(true)
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	// Record source mapping.  Nested statements will already have been added
	// by recursive calls.
	if !p.srcmap.Has(stmt) {
		p.srcmap.Put(stmt, p.spanOf(start, p.index-1))
	}
	//
	return stmt, nil
}

func (p *Parser) parsePragma() (ast.Stmt, []source.SyntaxError) {
	var (
		version lex.Token
		errs    []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_PRAGMA); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(KEYWORD_CIRCOM); len(errs) > 0 {
		return nil, errs
	} else if version, errs = p.expect(VERSION); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.Pragma{Version: p.string(version)}, nil
}

func (p *Parser) parseInclude() (ast.Stmt, []source.SyntaxError) {
	var (
		tok  lex.Token
		errs []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_INCLUDE); len(errs) > 0 {
		return nil, errs
	} else if tok, errs = p.expect(STRING); len(errs) > 0 {
		return nil, errs
	}
	//
	path, errs := p.stringValue(tok)
	//
	if len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	// Resolving and loading the included file is an external responsibility.
	return &ast.Include{Path: path}, nil
}

func (p *Parser) parseSignalDecl() (ast.Stmt, []source.SyntaxError) {
	var (
		kind  = ast.INTERMEDIATE_SIGNAL
		name  string
		sizes []ast.Expr
		init  ast.Expr
		wire  ast.WireOp
		errs  []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_SIGNAL); len(errs) > 0 {
		return nil, errs
	}
	// Optional direction modifier
	if p.match(KEYWORD_INPUT) {
		kind = ast.INPUT_SIGNAL
	} else if p.match(KEYWORD_OUTPUT) {
		kind = ast.OUTPUT_SIGNAL
	}
	//
	if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if sizes, errs = p.parseArraySizes(); len(errs) > 0 {
		return nil, errs
	}
	// Output signals may be wired at declaration; input and intermediate
	// signals take no initialiser and no reference suffix.
	if kind == ast.OUTPUT_SIGNAL && p.follows(WIRE_LEFT, WIRE_LEFT_SAFE) {
		wire = wireops[p.lookahead().Kind]
		p.index++
		//
		if init, errs = p.parseExpression(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.SignalDecl{Kind: kind, Name: name, Sizes: sizes, InitOp: wire, Init: init}, nil
}

func (p *Parser) parseVarDecl() (ast.Stmt, []source.SyntaxError) {
	var (
		name  string
		sizes []ast.Expr
		init  ast.Expr
		errs  []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_VAR); len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if sizes, errs = p.parseArraySizes(); len(errs) > 0 {
		return nil, errs
	}
	// Optional initialiser (possibly a nested array literal)
	if p.match(EQUALS) {
		if init, errs = p.parseExpression(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.VarDecl{Name: name, Sizes: sizes, Init: init}, nil
}

func (p *Parser) parseComponentDecl() (ast.Stmt, []source.SyntaxError) {
	var (
		name  string
		sizes []ast.Expr
		init  *ast.Call
		errs  []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_COMPONENT); len(errs) > 0 {
		return nil, errs
	}
	// The main component has its own form
	if p.lookahead().Kind == KEYWORD_MAIN {
		return p.parseMainComponentDecl()
	}
	//
	if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if sizes, errs = p.parseArraySizes(); len(errs) > 0 {
		return nil, errs
	}
	// Optional instantiation
	if p.match(EQUALS) {
		if init, errs = p.parseCall(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.ComponentDecl{Name: name, Sizes: sizes, Init: init}, nil
}

// Parse "main {public [a, b]} = Call();" where "component" has already been
// consumed and "main" is the lookahead.  The initialiser is mandatory.
func (p *Parser) parseMainComponentDecl() (ast.Stmt, []source.SyntaxError) {
	var (
		public []string
		init   *ast.Call
		errs   []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_MAIN); len(errs) > 0 {
		return nil, errs
	}
	// Optional public signal clause
	if p.match(LCURLY) {
		if _, errs = p.expect(KEYWORD_PUBLIC); len(errs) > 0 {
			return nil, errs
		} else if _, errs = p.expect(LSQUARE); len(errs) > 0 {
			return nil, errs
		}
		//
		for len(public) == 0 || p.match(COMMA) {
			var name string
			//
			if name, errs = p.parseIdentifier(); len(errs) > 0 {
				return nil, errs
			}
			//
			public = append(public, name)
		}
		//
		if _, errs = p.expect(RSQUARE); len(errs) > 0 {
			return nil, errs
		} else if _, errs = p.expect(RCURLY); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	if _, errs = p.expect(EQUALS); len(errs) > 0 {
		return nil, errs
	} else if init, errs = p.parseCall(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.MainComponentDecl{Public: public, Init: init}, nil
}

func (p *Parser) parseAssert() (ast.Stmt, []source.SyntaxError) {
	var (
		cond ast.Expr
		errs []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_ASSERT); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	} else if cond, errs = p.parseExpression(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.Assert{Cond: cond}, nil
}

func (p *Parser) parseLog() (ast.Stmt, []source.SyntaxError) {
	var (
		args []ast.Expr
		errs []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_LOG); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	// Arguments are expressions or string literals.  Whether particular
	// expression forms belong inside log is for the linter to decide.
	for p.lookahead().Kind != RBRACE {
		var arg ast.Expr
		//
		if len(args) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		if tok := p.lookahead(); tok.Kind == STRING {
			var value string
			//
			p.index++
			//
			if value, errs = p.stringValue(tok); len(errs) > 0 {
				return nil, errs
			}
			//
			arg = &ast.String{Value: value}
			p.srcmap.Put(arg, tok.Span)
		} else if arg, errs = p.parseExpression(); len(errs) > 0 {
			return nil, errs
		}
		//
		args = append(args, arg)
	}
	//
	if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.Log{Args: args}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, []source.SyntaxError) {
	var (
		value ast.Expr
		errs  []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_RETURN); len(errs) > 0 {
		return nil, errs
	} else if value, errs = p.parseExpression(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.Return{Value: value}, nil
}

func (p *Parser) parseTemplate() (ast.Stmt, []source.SyntaxError) {
	var (
		name   string
		params []string
		body   []ast.Stmt
		errs   []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_TEMPLATE); len(errs) > 0 {
		return nil, errs
	}
	// Optional parallel modifier
	parallel := p.match(KEYWORD_PARALLEL)
	//
	if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if params, errs = p.parseParameters(); len(errs) > 0 {
		return nil, errs
	} else if body, errs = p.parseBlock(); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.TemplateDecl{Name: name, Parallel: parallel, Params: params, Body: body}, nil
}

func (p *Parser) parseFunction() (ast.Stmt, []source.SyntaxError) {
	var (
		name   string
		params []string
		body   []ast.Stmt
		errs   []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_FUNCTION); len(errs) > 0 {
		return nil, errs
	} else if name, errs = p.parseIdentifier(); len(errs) > 0 {
		return nil, errs
	} else if params, errs = p.parseParameters(); len(errs) > 0 {
		return nil, errs
	} else if body, errs = p.parseBlock(); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.FunctionDecl{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) parseIf() (ast.Stmt, []source.SyntaxError) {
	var (
		cond       ast.Expr
		thenBranch []ast.Stmt
		elseBranch []ast.Stmt
		errs       []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_IF); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	} else if cond, errs = p.parseExpression(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	} else if thenBranch, errs = p.parseBody(); len(errs) > 0 {
		return nil, errs
	}
	// Optional else branch
	if p.match(KEYWORD_ELSE) {
		if elseBranch, errs = p.parseBody(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return &ast.If{Cond: cond, Then: thenBranch, Else: elseBranch}, nil
}

func (p *Parser) parseFor() (ast.Stmt, []source.SyntaxError) {
	var (
		init ast.Stmt
		cond ast.Expr
		step ast.Stmt
		body []ast.Stmt
		errs []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_FOR); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	// Initialisation clause is an ordinary statement (consuming its ";")
	initStart := p.index
	//
	if p.lookahead().Kind == KEYWORD_VAR {
		init, errs = p.parseVarDecl()
	} else {
		init, errs = p.parseSimpleStatement(true)
	}
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	p.srcmap.Put(init, p.spanOf(initStart, p.index-1))
	// Condition clause
	if cond, errs = p.parseExpression(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
		return nil, errs
	}
	// Step clause is an ordinary (unterminated) statement
	stepStart := p.index
	//
	if step, errs = p.parseSimpleStatement(false); len(errs) > 0 {
		return nil, errs
	}
	//
	p.srcmap.Put(step, p.spanOf(stepStart, p.index-1))
	//
	if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	} else if body, errs = p.parseBody(); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.ForLoop{Init: init, Cond: cond, Step: step, Body: body}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, []source.SyntaxError) {
	var (
		cond ast.Expr
		body []ast.Stmt
		errs []source.SyntaxError
	)
	//
	if _, errs = p.expect(KEYWORD_WHILE); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	} else if cond, errs = p.parseExpression(); len(errs) > 0 {
		return nil, errs
	} else if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	} else if body, errs = p.parseBody(); len(errs) > 0 {
		return nil, errs
	}
	//
	return &ast.WhileLoop{Cond: cond, Body: body}, nil
}

// Parse a statement which is not introduced by a keyword: an assignment, a
// compound assignment, an increment/decrement, a signal wiring statement or
// a constraint.  Which alternative applies is decided by the operator
// following the left-hand expression; the right-hand side is never
// inspected.  The terminator is consumed only when terminated is set (the
// step clause of a for loop ends at ")" instead).
func (p *Parser) parseSimpleStatement(terminated bool) (ast.Stmt, []source.SyntaxError) {
	var (
		stmt ast.Stmt
		errs []source.SyntaxError
		lhs  ast.Expr
		rhs  ast.Expr
	)
	//
	if lhs, errs = p.parseExpression(); len(errs) > 0 {
		return nil, errs
	}
	//
	var (
		lookahead      = p.lookahead()
		compound, isCA = compoundops[lookahead.Kind]
		wire, isWire   = wireops[lookahead.Kind]
	)
	//
	switch {
	case lookahead.Kind == EQUALS:
		p.index++
		//
		target, terrs := p.target(lhs, lookahead)
		if len(terrs) > 0 {
			return nil, terrs
		}
		//
		if rhs, errs = p.parseExpression(); len(errs) > 0 {
			return nil, errs
		}
		// May assign a variable or a component; not resolved here.
		stmt = &ast.Assignment{Target: target, Value: rhs}
	case isCA:
		p.index++
		//
		target, terrs := p.target(lhs, lookahead)
		if len(terrs) > 0 {
			return nil, terrs
		}
		//
		if rhs, errs = p.parseExpression(); len(errs) > 0 {
			return nil, errs
		}
		//
		stmt = &ast.CompoundAssignment{Op: compound, Target: target, Value: rhs}
	case lookahead.Kind == PLUS_PLUS:
		p.index++
		//
		target, terrs := p.target(lhs, lookahead)
		if len(terrs) > 0 {
			return nil, terrs
		}
		//
		stmt = &ast.Increment{Target: target}
	case lookahead.Kind == MINUS_MINUS:
		p.index++
		//
		target, terrs := p.target(lhs, lookahead)
		if len(terrs) > 0 {
			return nil, terrs
		}
		//
		stmt = &ast.Decrement{Target: target}
	case isWire:
		p.index++
		//
		if rhs, errs = p.parseExpression(); len(errs) > 0 {
			return nil, errs
		}
		//
		stmt = &ast.SignalWire{Op: wire, Left: lhs, Right: rhs}
	case lookahead.Kind == CONSTRAINT:
		p.index++
		//
		if rhs, errs = p.parseExpression(); len(errs) > 0 {
			return nil, errs
		}
		// Pure constraint: no assignment direction.
		stmt = &ast.ConstrainSignal{Left: lhs, Right: rhs}
	default:
		return nil, p.syntaxErrors(lookahead, "expected statement operator")
	}
	//
	if terminated {
		if _, errs = p.expect(SEMICOLON); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	return stmt, nil
}

// Require the left-hand side of an assignment-like statement to be a plain
// reference.
func (p *Parser) target(lhs ast.Expr, at lex.Token) (*ast.Value, []source.SyntaxError) {
	if target, ok := lhs.(*ast.Value); ok {
		return target, nil
	}
	//
	return nil, p.syntaxErrors(at, "invalid assignment target")
}

// Parse a brace-delimited sequence of statements and blocks.  Statement
// failures within the block are recovered at statement boundaries, so one
// malformed statement does not lose the rest of the block.
func (p *Parser) parseBlock() ([]ast.Stmt, []source.SyntaxError) {
	var stmts []ast.Stmt
	//
	if _, errs := p.expect(LCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	for !p.follows(RCURLY, END_OF) {
		stmts = append(stmts, p.parseRecoveringStatement())
	}
	//
	if _, errs := p.expect(RCURLY); len(errs) > 0 {
		return nil, errs
	}
	//
	return stmts, nil
}

// Parse the body of a conditional or loop: either a single terminated
// statement or a brace-delimited sequence.
func (p *Parser) parseBody() ([]ast.Stmt, []source.SyntaxError) {
	if p.lookahead().Kind == LCURLY {
		return p.parseBlock()
	}
	//
	stmt, errs := p.parseStatement()
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	return []ast.Stmt{stmt}, nil
}

// Parse zero or more "[expr]" array-size suffixes.
func (p *Parser) parseArraySizes() ([]ast.Expr, []source.SyntaxError) {
	var sizes []ast.Expr
	//
	for p.match(LSQUARE) {
		size, errs := p.parseExpression()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		if _, errs = p.expect(RSQUARE); len(errs) > 0 {
			return nil, errs
		}
		//
		sizes = append(sizes, size)
	}
	//
	return sizes, nil
}

// Parse a parenthesised, comma-separated parameter name list.
func (p *Parser) parseParameters() ([]string, []source.SyntaxError) {
	var params []string
	//
	if _, errs := p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	for p.lookahead().Kind != RBRACE {
		var (
			name string
			errs []source.SyntaxError
		)
		//
		if len(params) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		if name, errs = p.parseIdentifier(); len(errs) > 0 {
			return nil, errs
		}
		//
		params = append(params, name)
	}
	//
	p.match(RBRACE)
	//
	return params, nil
}

// ============================================================================
// Expressions
// ============================================================================

// Parse an expression at the outermost (conditional) level: a boolean
// expression optionally followed by "? expr : expr".  The conditional takes
// a boolean condition and two numeric branches, producing a numeric node.
func (p *Parser) parseExpression() (ast.Expr, []source.SyntaxError) {
	var (
		start      = p.index
		cond, errs = p.parseBoolOr()
	)
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	if !p.match(QUESTION) {
		return cond, nil
	}
	//
	thenBranch, errs := p.parseBoolOr()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	if _, errs = p.expect(COLON); len(errs) > 0 {
		return nil, errs
	}
	//
	elseBranch, errs := p.parseExpression()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	expr := &ast.Conditional{Cond: cond, Then: thenBranch, Else: elseBranch}
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

// Parse a boolean disjunction.  Boolean and numeric expressions are mutually
// recursive: comparisons consume numeric operands and produce booleans.
// This layer is deliberately lenient: a bare numeric expression is accepted
// wherever a boolean is expected, since distinguishing the two requires type
// information the parser does not have.
func (p *Parser) parseBoolOr() (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lhs, errs = p.parseBoolAnd()
	)
	//
	for len(errs) == 0 && p.match(OR) {
		var rhs ast.Expr
		//
		if rhs, errs = p.parseBoolAnd(); len(errs) > 0 {
			break
		}
		//
		lhs = &ast.Binary{Op: ast.OR, Left: lhs, Right: rhs}
		p.srcmap.Put(lhs, p.spanOf(start, p.index-1))
	}
	//
	return lhs, errs
}

func (p *Parser) parseBoolAnd() (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lhs, errs = p.parseBoolUnit()
	)
	//
	for len(errs) == 0 && p.match(AND) {
		var rhs ast.Expr
		//
		if rhs, errs = p.parseBoolUnit(); len(errs) > 0 {
			break
		}
		//
		lhs = &ast.Binary{Op: ast.AND, Left: lhs, Right: rhs}
		p.srcmap.Put(lhs, p.spanOf(start, p.index-1))
	}
	//
	return lhs, errs
}

// Parse a boolean unit: a (possibly negated) comparison.  Unary "!" binds
// tighter than "&&" and "||".
func (p *Parser) parseBoolUnit() (ast.Expr, []source.SyntaxError) {
	var start = p.index
	//
	if p.match(NOT) {
		operand, errs := p.parseBoolUnit()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		expr := &ast.Unary{Op: ast.NOT, Operand: operand}
		p.srcmap.Put(expr, p.spanOf(start, p.index-1))
		//
		return expr, nil
	}
	//
	return p.parseComparison()
}

// Parse a comparison: a numeric expression optionally compared against a
// second.  Comparisons sit outside the binary precedence ladder, so neither
// operand may itself be a bare comparison.
func (p *Parser) parseComparison() (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lhs, errs = p.parseNumeric(0)
	)
	//
	if len(errs) > 0 {
		return nil, errs
	}
	//
	op, ok := cmpops[p.lookahead().Kind]
	if !ok {
		return lhs, nil
	}
	//
	p.index++
	//
	rhs, errs := p.parseNumeric(0)
	if len(errs) > 0 {
		return nil, errs
	}
	//
	expr := &ast.Cmp{Op: op, Left: lhs, Right: rhs}
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

// Parse a numeric expression by precedence climbing: parse a unary operand,
// then while the next token is a binary operator of precedence at least min,
// consume it and parse the right operand one level higher.  The strictly
// higher threshold on recursion makes every tier left-associative, building
// left-leaning trees.  This includes "**", which circom (unconventionally)
// declares left-associative.
func (p *Parser) parseNumeric(min uint) (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lhs, errs = p.parseUnary()
	)
	//
	for len(errs) == 0 {
		binop, ok := binops[p.lookahead().Kind]
		if !ok || binop.prec < min {
			break
		}
		//
		p.index++
		//
		var rhs ast.Expr
		//
		if rhs, errs = p.parseNumeric(binop.prec + 1); len(errs) > 0 {
			break
		}
		//
		lhs = &ast.Binary{Op: binop.op, Left: lhs, Right: rhs}
		p.srcmap.Put(lhs, p.spanOf(start, p.index-1))
	}
	//
	return lhs, errs
}

// Parse a unary numeric expression.  The complement "~" binds tighter than
// any binary numeric operator.
func (p *Parser) parseUnary() (ast.Expr, []source.SyntaxError) {
	var start = p.index
	//
	if p.match(BNOT) {
		operand, errs := p.parseUnary()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		expr := &ast.Unary{Op: ast.BNOT, Operand: operand}
		p.srcmap.Put(expr, p.spanOf(start, p.index-1))
		//
		return expr, nil
	}
	//
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, []source.SyntaxError) {
	var (
		start     = p.index
		lookahead = p.lookahead()
		expr      ast.Expr
		errs      []source.SyntaxError
	)
	//
	switch {
	case lookahead.Kind == NUMBER:
		p.index++
		//
		var value big.Int
		// Cannot fail since the token is a digit sequence.
		value.SetString(p.string(lookahead), 10)
		//
		expr = ast.NewNumber(&value)
	case lookahead.Kind == LBRACE:
		p.index++
		//
		if expr, errs = p.parseExpression(); len(errs) > 0 {
			return nil, errs
		}
		//
		if _, errs = p.expect(RBRACE); len(errs) > 0 {
			return nil, errs
		}
		// Already in the source map; don't re-register.
		return expr, nil
	case lookahead.Kind == LSQUARE:
		return p.parseArrayLiteral()
	case lookahead.Kind == IDENTIFIER || IsKeyword(lookahead.Kind):
		return p.parseValueOrCall()
	case lookahead.Kind == BAD_STRING || lookahead.Kind == UNCLOSED_COMMENT || lookahead.Kind == UNKNOWN:
		return nil, p.lexicalErrors(lookahead)
	default:
		return nil, p.syntaxErrors(lookahead, "expected expression")
	}
	//
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

// Parse a nested array literal.  Elements may themselves be array literals;
// the node shape is identical at every depth.
func (p *Parser) parseArrayLiteral() (ast.Expr, []source.SyntaxError) {
	var (
		start    = p.index
		elements []ast.Expr
		errs     []source.SyntaxError
	)
	//
	if _, errs = p.expect(LSQUARE); len(errs) > 0 {
		return nil, errs
	}
	//
	for p.lookahead().Kind != RSQUARE {
		var element ast.Expr
		//
		if len(elements) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		if element, errs = p.parseExpression(); len(errs) > 0 {
			return nil, errs
		}
		//
		elements = append(elements, element)
	}
	//
	if _, errs = p.expect(RSQUARE); len(errs) > 0 {
		return nil, errs
	}
	//
	expr := &ast.Array{Elements: elements}
	p.srcmap.Put(expr, p.spanOf(start, p.index-1))
	//
	return expr, nil
}

// Parse a primary beginning with an identifier: a call when immediately
// followed by "(", otherwise a value reference.  Neither form is
// disambiguated here: a call may name a function or a template, a value a
// variable or a signal.
func (p *Parser) parseValueOrCall() (ast.Expr, []source.SyntaxError) {
	var start = p.index
	//
	if p.tokens[p.index+1].Kind == LBRACE {
		call, errs := p.parseCall()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		return call, nil
	}
	//
	name, errs := p.parseIdentifier()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	value := &ast.Value{Name: name}
	// Indexes on the name itself
	if value.Indexes, errs = p.parseIndexes(); len(errs) > 0 {
		return nil, errs
	}
	// Optional component signal accessor
	if p.match(DOT) {
		if value.Signal, errs = p.parseIdentifier(); len(errs) > 0 {
			return nil, errs
		}
		//
		if value.SignalIndexes, errs = p.parseIndexes(); len(errs) > 0 {
			return nil, errs
		}
	}
	//
	p.srcmap.Put(value, p.spanOf(start, p.index-1))
	//
	return value, nil
}

// Parse "identifier(args...)" with a possibly empty argument list.
func (p *Parser) parseCall() (*ast.Call, []source.SyntaxError) {
	var (
		start = p.index
		args  []ast.Expr
	)
	//
	name, errs := p.parseIdentifier()
	if len(errs) > 0 {
		return nil, errs
	}
	//
	if _, errs = p.expect(LBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	for p.lookahead().Kind != RBRACE {
		var arg ast.Expr
		//
		if len(args) > 0 {
			if _, errs = p.expect(COMMA); len(errs) > 0 {
				return nil, errs
			}
		}
		//
		if arg, errs = p.parseExpression(); len(errs) > 0 {
			return nil, errs
		}
		//
		args = append(args, arg)
	}
	//
	if _, errs = p.expect(RBRACE); len(errs) > 0 {
		return nil, errs
	}
	//
	call := &ast.Call{Name: name, Args: args}
	p.srcmap.Put(call, p.spanOf(start, p.index-1))
	//
	return call, nil
}

// Parse zero or more "[expr]" index suffixes.
func (p *Parser) parseIndexes() ([]ast.Expr, []source.SyntaxError) {
	var indexes []ast.Expr
	//
	for p.match(LSQUARE) {
		index, errs := p.parseExpression()
		//
		if len(errs) > 0 {
			return nil, errs
		}
		//
		if _, errs = p.expect(RSQUARE); len(errs) > 0 {
			return nil, errs
		}
		//
		indexes = append(indexes, index)
	}
	//
	return indexes, nil
}

// ============================================================================
// Helpers
// ============================================================================

// Parse an identifier.  Keyword tokens are accepted here as well: keyword
// recognition is a specialization over identifiers, and the reserved words
// remain usable as plain identifiers wherever one is syntactically expected.
func (p *Parser) parseIdentifier() (string, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != IDENTIFIER && !IsKeyword(lookahead.Kind) {
		return "", p.syntaxErrors(lookahead, "expected identifier")
	}
	//
	p.index++
	//
	return p.string(lookahead), nil
}

// Get the text representing the given token as a string.
func (p *Parser) string(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

// Decode a string literal token.  The escape grammar is exactly JSON's, so
// the token text is decoded as a JSON string.
func (p *Parser) stringValue(token lex.Token) (string, []source.SyntaxError) {
	var value string
	//
	if err := json.Unmarshal([]byte(p.string(token)), &value); err != nil {
		return "", p.syntaxErrors(token, "malformed string literal")
	}
	//
	return value, nil
}

// Lookahead returns the next token.  This must exist because EOF is always
// appended at the end of the token stream.
func (p *Parser) lookahead() lex.Token {
	return p.tokens[p.index]
}

// Expect returns an error if the next token is not what was expected.
func (p *Parser) expect(kind uint) (lex.Token, []source.SyntaxError) {
	lookahead := p.lookahead()
	//
	if lookahead.Kind != kind {
		return lookahead, p.syntaxErrors(lookahead, "unexpected token")
	}
	//
	p.index++
	//
	return lookahead, nil
}

// Match attempts to match the given token.
func (p *Parser) match(kind uint) bool {
	if p.lookahead().Kind == kind {
		p.index++
		return true
	}
	//
	return false
}

// Follows checks whether one of the given token kinds is next.
func (p *Parser) follows(options ...uint) bool {
	return slices.Contains(options, p.lookahead().Kind)
}

func (p *Parser) spanOf(firstToken, lastToken int) source.Span {
	start := p.tokens[firstToken].Span.Start()
	end := p.tokens[lastToken].Span.End()
	//
	return source.NewSpan(start, end)
}

func (p *Parser) syntaxErrors(token lex.Token, msg string) []source.SyntaxError {
	return []source.SyntaxError{*p.srcfile.SyntaxError(token.Span, msg)}
}

// Report a lexical error for an error-carrying token produced by the
// tokenizer, which defers diagnosis of malformed input to this layer.
func (p *Parser) lexicalErrors(token lex.Token) []source.SyntaxError {
	switch token.Kind {
	case BAD_STRING:
		return p.syntaxErrors(token, "malformed string literal")
	case UNCLOSED_COMMENT:
		return p.syntaxErrors(token, "unterminated block comment")
	default:
		return p.syntaxErrors(token, "unrecognised character")
	}
}
