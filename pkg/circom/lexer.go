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
	"github.com/consensys/go-circom/pkg/util/collection/array"
	"github.com/consensys/go-circom/pkg/util/source"
	"github.com/consensys/go-circom/pkg/util/source/lex"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace
const WHITESPACE uint = 1

// LINE_COMMENT signals "// ... \n"
const LINE_COMMENT uint = 2

// BLOCK_COMMENT signals "/* ... */"
const BLOCK_COMMENT uint = 3

// UNCLOSED_COMMENT signals a block comment which never closes
const UNCLOSED_COMMENT uint = 4

// NUMBER signals a decimal integer literal
const NUMBER uint = 5

// VERSION signals a compiler version literal "N.N.N"
const VERSION uint = 6

// STRING signals a well-formed quoted string
const STRING uint = 7

// BAD_STRING signals a malformed or unterminated quoted string
const BAD_STRING uint = 8

// IDENTIFIER signals an identifier
const IDENTIFIER uint = 9

// UNKNOWN signals a character no rule recognises
const UNKNOWN uint = 10

// LBRACE signals "("
const LBRACE uint = 11

// RBRACE signals ")"
const RBRACE uint = 12

// LSQUARE signals "["
const LSQUARE uint = 13

// RSQUARE signals "]"
const RSQUARE uint = 14

// LCURLY signals "{"
const LCURLY uint = 15

// RCURLY signals "}"
const RCURLY uint = 16

// COMMA signals ","
const COMMA uint = 17

// SEMICOLON signals ";"
const SEMICOLON uint = 18

// DOT signals "."
const DOT uint = 19

// QUESTION signals "?"
const QUESTION uint = 20

// COLON signals ":"
const COLON uint = 21

// EQUALS signals "="
const EQUALS uint = 22

// ADD_EQUALS signals "+="
const ADD_EQUALS uint = 23

// SUB_EQUALS signals "-="
const SUB_EQUALS uint = 24

// MUL_EQUALS signals "*="
const MUL_EQUALS uint = 25

// POW_EQUALS signals "**="
const POW_EQUALS uint = 26

// DIV_EQUALS signals "/="
const DIV_EQUALS uint = 27

// QUO_EQUALS signals "\="
const QUO_EQUALS uint = 28

// REM_EQUALS signals "%="
const REM_EQUALS uint = 29

// SHL_EQUALS signals "<<="
const SHL_EQUALS uint = 30

// SHR_EQUALS signals ">>="
const SHR_EQUALS uint = 31

// AND_EQUALS signals "&="
const AND_EQUALS uint = 32

// XOR_EQUALS signals "^="
const XOR_EQUALS uint = 33

// OR_EQUALS signals "|="
const OR_EQUALS uint = 34

// PLUS_PLUS signals "++"
const PLUS_PLUS uint = 35

// MINUS_MINUS signals "--"
const MINUS_MINUS uint = 36

// WIRE_LEFT signals "<--"
const WIRE_LEFT uint = 37

// WIRE_LEFT_SAFE signals "<=="
const WIRE_LEFT_SAFE uint = 38

// WIRE_RIGHT signals "-->"
const WIRE_RIGHT uint = 39

// WIRE_RIGHT_SAFE signals "==>"
const WIRE_RIGHT_SAFE uint = 40

// CONSTRAINT signals "==="
const CONSTRAINT uint = 41

// EQUALS_EQUALS signals "=="
const EQUALS_EQUALS uint = 42

// NOT_EQUALS signals "!="
const NOT_EQUALS uint = 43

// LESS_THAN signals "<"
const LESS_THAN uint = 44

// LESS_THAN_EQUALS signals "<="
const LESS_THAN_EQUALS uint = 45

// GREATER_THAN signals ">"
const GREATER_THAN uint = 46

// GREATER_THAN_EQUALS signals ">="
const GREATER_THAN_EQUALS uint = 47

// ADD signals "+"
const ADD uint = 48

// SUB signals "-"
const SUB uint = 49

// MUL signals "*"
const MUL uint = 50

// POW signals "**"
const POW uint = 51

// DIV signals "/"
const DIV uint = 52

// QUO signals "\"
const QUO uint = 53

// REM signals "%"
const REM uint = 54

// SHL signals "<<"
const SHL uint = 55

// SHR signals ">>"
const SHR uint = 56

// BAND signals "&"
const BAND uint = 57

// BXOR signals "^"
const BXOR uint = 58

// BOR signals "|"
const BOR uint = 59

// AND signals "&&"
const AND uint = 60

// OR signals "||"
const OR uint = 61

// NOT signals "!"
const NOT uint = 62

// BNOT signals "~"
const BNOT uint = 63

// KEYWORD_PRAGMA signals "pragma"
const KEYWORD_PRAGMA uint = 70

// KEYWORD_CIRCOM signals "circom"
const KEYWORD_CIRCOM uint = 71

// KEYWORD_INCLUDE signals "include"
const KEYWORD_INCLUDE uint = 72

// KEYWORD_SIGNAL signals "signal"
const KEYWORD_SIGNAL uint = 73

// KEYWORD_INPUT signals "input"
const KEYWORD_INPUT uint = 74

// KEYWORD_OUTPUT signals "output"
const KEYWORD_OUTPUT uint = 75

// KEYWORD_VAR signals "var"
const KEYWORD_VAR uint = 76

// KEYWORD_COMPONENT signals "component"
const KEYWORD_COMPONENT uint = 77

// KEYWORD_MAIN signals "main"
const KEYWORD_MAIN uint = 78

// KEYWORD_PUBLIC signals "public"
const KEYWORD_PUBLIC uint = 79

// KEYWORD_ASSERT signals "assert"
const KEYWORD_ASSERT uint = 80

// KEYWORD_LOG signals "log"
const KEYWORD_LOG uint = 81

// KEYWORD_FUNCTION signals "function"
const KEYWORD_FUNCTION uint = 82

// KEYWORD_TEMPLATE signals "template"
const KEYWORD_TEMPLATE uint = 83

// KEYWORD_PARALLEL signals "parallel"
const KEYWORD_PARALLEL uint = 84

// KEYWORD_IF signals "if"
const KEYWORD_IF uint = 85

// KEYWORD_ELSE signals "else"
const KEYWORD_ELSE uint = 86

// KEYWORD_FOR signals "for"
const KEYWORD_FOR uint = 87

// KEYWORD_WHILE signals "while"
const KEYWORD_WHILE uint = 88

// KEYWORD_RETURN signals "return"
const KEYWORD_RETURN uint = 89

// Keywords maps the closed set of reserved words onto their token kinds.
// Keyword recognition is a specialization over identifiers: an identifier
// token whose text exactly equals one of these words carries the keyword
// kind instead.  The words are not reserved globally; the parser accepts any
// keyword token wherever a plain identifier is syntactically expected.
var keywords = map[string]uint{
	"pragma":    KEYWORD_PRAGMA,
	"circom":    KEYWORD_CIRCOM,
	"include":   KEYWORD_INCLUDE,
	"signal":    KEYWORD_SIGNAL,
	"input":     KEYWORD_INPUT,
	"output":    KEYWORD_OUTPUT,
	"var":       KEYWORD_VAR,
	"component": KEYWORD_COMPONENT,
	"main":      KEYWORD_MAIN,
	"public":    KEYWORD_PUBLIC,
	"assert":    KEYWORD_ASSERT,
	"log":       KEYWORD_LOG,
	"function":  KEYWORD_FUNCTION,
	"template":  KEYWORD_TEMPLATE,
	"parallel":  KEYWORD_PARALLEL,
	"if":        KEYWORD_IF,
	"else":      KEYWORD_ELSE,
	"for":       KEYWORD_FOR,
	"while":     KEYWORD_WHILE,
	"return":    KEYWORD_RETURN,
}

// IsKeyword checks whether a given token kind is one of the keyword kinds.
func IsKeyword(kind uint) bool {
	return kind >= KEYWORD_PRAGMA && kind <= KEYWORD_RETURN
}

var kindNames = map[uint]string{
	END_OF:              "eof",
	WHITESPACE:          "whitespace",
	LINE_COMMENT:        "line_comment",
	BLOCK_COMMENT:       "block_comment",
	UNCLOSED_COMMENT:    "unclosed_comment",
	NUMBER:              "number",
	VERSION:             "version",
	STRING:              "string",
	BAD_STRING:          "bad_string",
	IDENTIFIER:          "identifier",
	UNKNOWN:             "unknown",
	LBRACE:              "lbrace",
	RBRACE:              "rbrace",
	LSQUARE:             "lsquare",
	RSQUARE:             "rsquare",
	LCURLY:              "lcurly",
	RCURLY:              "rcurly",
	COMMA:               "comma",
	SEMICOLON:           "semicolon",
	DOT:                 "dot",
	QUESTION:            "question",
	COLON:               "colon",
	EQUALS:              "equals",
	ADD_EQUALS:          "add_equals",
	SUB_EQUALS:          "sub_equals",
	MUL_EQUALS:          "mul_equals",
	POW_EQUALS:          "pow_equals",
	DIV_EQUALS:          "div_equals",
	QUO_EQUALS:          "quo_equals",
	REM_EQUALS:          "rem_equals",
	SHL_EQUALS:          "shl_equals",
	SHR_EQUALS:          "shr_equals",
	AND_EQUALS:          "and_equals",
	XOR_EQUALS:          "xor_equals",
	OR_EQUALS:           "or_equals",
	PLUS_PLUS:           "plus_plus",
	MINUS_MINUS:         "minus_minus",
	WIRE_LEFT:           "wire_left",
	WIRE_LEFT_SAFE:      "wire_left_safe",
	WIRE_RIGHT:          "wire_right",
	WIRE_RIGHT_SAFE:     "wire_right_safe",
	CONSTRAINT:          "constraint",
	EQUALS_EQUALS:       "equals_equals",
	NOT_EQUALS:          "not_equals",
	LESS_THAN:           "less_than",
	LESS_THAN_EQUALS:    "less_than_equals",
	GREATER_THAN:        "greater_than",
	GREATER_THAN_EQUALS: "greater_than_equals",
	ADD:                 "add",
	SUB:                 "sub",
	MUL:                 "mul",
	POW:                 "pow",
	DIV:                 "div",
	QUO:                 "quo",
	REM:                 "rem",
	SHL:                 "shl",
	SHR:                 "shr",
	BAND:                "band",
	BXOR:                "bxor",
	BOR:                 "bor",
	AND:                 "and",
	OR:                  "or",
	NOT:                 "not",
	BNOT:                "bnot",
	KEYWORD_PRAGMA:      "pragma",
	KEYWORD_CIRCOM:      "circom",
	KEYWORD_INCLUDE:     "include",
	KEYWORD_SIGNAL:      "signal",
	KEYWORD_INPUT:       "input",
	KEYWORD_OUTPUT:      "output",
	KEYWORD_VAR:         "var",
	KEYWORD_COMPONENT:   "component",
	KEYWORD_MAIN:        "main",
	KEYWORD_PUBLIC:      "public",
	KEYWORD_ASSERT:      "assert",
	KEYWORD_LOG:         "log",
	KEYWORD_FUNCTION:    "function",
	KEYWORD_TEMPLATE:    "template",
	KEYWORD_PARALLEL:    "parallel",
	KEYWORD_IF:          "if",
	KEYWORD_ELSE:        "else",
	KEYWORD_FOR:         "for",
	KEYWORD_WHILE:       "while",
	KEYWORD_RETURN:      "return",
}

// KindName returns a printable name for a given token kind, primarily for
// token-stream dumps and diagnostics.
func KindName(kind uint) string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	//
	return "invalid"
}

// Rule for describing whitespace
var whitespace lex.Scanner[rune] = lex.Many(
	lex.Or(lex.Unit(' '), lex.Unit('\t'), lex.Unit('\r'), lex.Unit('\n')))

// Line comments run from "//" to the end of the line.
var lineComment lex.Scanner[rune] = lex.And(lex.String("//"), lex.Until('\n'))

// Block comments open with "/*" and close at the first "*/".  They are not
// nestable: a "/*" inside a block comment has no special meaning.  Scanning
// is an explicit two-state machine (normal / saw-star) over the characters
// following the opener; a "*" not immediately followed by "/" does not close
// the comment.
func blockComment(items []rune) uint {
	if len(items) < 2 || items[0] != '/' || items[1] != '*' {
		return 0
	}
	//
	sawStar := false
	//
	for i := 2; i < len(items); i++ {
		if sawStar && items[i] == '/' {
			// terminated
			return uint(i + 1)
		}
		//
		sawStar = items[i] == '*'
	}
	// unterminated
	return 0
}

// An unclosed block comment swallows the remainder of the input.  This rule
// sits directly below blockComment, so it only fires when no closing "*/"
// exists.
func unclosedComment(items []rune) uint {
	if len(items) < 2 || items[0] != '/' || items[1] != '*' {
		return 0
	}
	//
	return uint(len(items))
}

// Rule for decimal digit sequences
var digits lex.Scanner[rune] = lex.And(lex.Within('0', '9'), lex.Many(lex.Within('0', '9')))

// Rule for compiler version literals "N.N.N".  These are matched ahead of
// plain numbers; the parser accepts them only in the "pragma circom"
// position, which is the only position where "N.N.N" is valid (the grammar
// has no floating-point literals).
var version lex.Scanner[rune] = lex.Sequence(digits, lex.Unit('.'), digits, lex.Unit('.'), digits)

var identifierStart lex.Scanner[rune] = lex.Or(
	lex.Unit('_'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z'))

var identifierRest lex.Scanner[rune] = lex.Many(lex.Or(
	lex.Unit('_'),
	lex.Unit('$'),
	lex.Within('0', '9'),
	lex.Within('a', 'z'),
	lex.Within('A', 'Z')))

// Rule for describing identifiers
var identifier lex.Scanner[rune] = lex.And(identifierStart, identifierRest)

// Strings are double quoted and follow the JSON escape grammar: raw
// characters exclude '"', '\' and controls below U+0020; escapes are \" \\
// \/ \b \f \n \r \t and \uXXXX.  This scanner matches well-formed strings
// only; malformed ones fall through to badString below.
func strung(items []rune) uint {
	if len(items) == 0 || items[0] != '"' {
		return 0
	}
	//
	i := 1
	//
	for i < len(items) {
		switch c := items[i]; {
		case c == '"':
			// terminated
			return uint(i + 1)
		case c == '\\':
			n := stringEscape(items[i:])
			if n == 0 {
				// malformed escape
				return 0
			}
			//
			i += n
		case c < 0x20:
			// raw control character
			return 0
		default:
			i++
		}
	}
	// unterminated
	return 0
}

// stringEscape scans a single escape sequence, where items[0] is known to be
// the backslash.
func stringEscape(items []rune) int {
	if len(items) < 2 {
		return 0
	}
	//
	switch items[1] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return 2
	case 'u':
		if len(items) < 6 {
			return 0
		}
		//
		for i := 2; i < 6; i++ {
			if !isHexDigit(items[i]) {
				return 0
			}
		}
		//
		return 6
	}
	//
	return 0
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// badString produces a best-effort span for a malformed or unterminated
// string: everything from the opening quote to the closing quote, the end of
// the line or the end of the input, whichever comes first.
func badString(items []rune) uint {
	if len(items) == 0 || items[0] != '"' {
		return 0
	}
	//
	i := 1
	//
	for i < len(items) && items[i] != '\n' {
		switch {
		case items[i] == '\\' && i+1 < len(items):
			i += 2
		case items[i] == '"':
			return uint(i + 1)
		default:
			i++
		}
	}
	//
	return uint(i)
}

// Rule which accepts any single character; placed last so that unrecognised
// characters become UNKNOWN tokens rather than lexing failures.  The parser
// reports them.
var unknown lex.Scanner[rune] = lex.Any[rune]()

// Lexing rules.  Rules are attempted in order, so longer operators precede
// their prefixes; in particular BLOCK_COMMENT > LINE_COMMENT > DIV_EQUALS >
// DIV resolves the division tokenization tie.
var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(blockComment, BLOCK_COMMENT),
	lex.Rule(unclosedComment, UNCLOSED_COMMENT),
	lex.Rule(lineComment, LINE_COMMENT),
	lex.Rule(whitespace, WHITESPACE),
	lex.Rule(lex.String("<=="), WIRE_LEFT_SAFE),
	lex.Rule(lex.String("<--"), WIRE_LEFT),
	lex.Rule(lex.String("<<="), SHL_EQUALS),
	lex.Rule(lex.String("<<"), SHL),
	lex.Rule(lex.String("<="), LESS_THAN_EQUALS),
	lex.Rule(lex.Unit('<'), LESS_THAN),
	lex.Rule(lex.String("==>"), WIRE_RIGHT_SAFE),
	lex.Rule(lex.String("==="), CONSTRAINT),
	lex.Rule(lex.String("=="), EQUALS_EQUALS),
	lex.Rule(lex.Unit('='), EQUALS),
	lex.Rule(lex.String("-->"), WIRE_RIGHT),
	lex.Rule(lex.String("--"), MINUS_MINUS),
	lex.Rule(lex.String("-="), SUB_EQUALS),
	lex.Rule(lex.Unit('-'), SUB),
	lex.Rule(lex.String(">>="), SHR_EQUALS),
	lex.Rule(lex.String(">>"), SHR),
	lex.Rule(lex.String(">="), GREATER_THAN_EQUALS),
	lex.Rule(lex.Unit('>'), GREATER_THAN),
	lex.Rule(lex.String("**="), POW_EQUALS),
	lex.Rule(lex.String("**"), POW),
	lex.Rule(lex.String("*="), MUL_EQUALS),
	lex.Rule(lex.Unit('*'), MUL),
	lex.Rule(lex.String("/="), DIV_EQUALS),
	lex.Rule(lex.Unit('/'), DIV),
	lex.Rule(lex.String("\\="), QUO_EQUALS),
	lex.Rule(lex.Unit('\\'), QUO),
	lex.Rule(lex.String("%="), REM_EQUALS),
	lex.Rule(lex.String("++"), PLUS_PLUS),
	lex.Rule(lex.String("+="), ADD_EQUALS),
	lex.Rule(lex.Unit('+'), ADD),
	lex.Rule(lex.Unit('%'), REM),
	lex.Rule(lex.String("&&"), AND),
	lex.Rule(lex.String("&="), AND_EQUALS),
	lex.Rule(lex.Unit('&'), BAND),
	lex.Rule(lex.String("||"), OR),
	lex.Rule(lex.String("|="), OR_EQUALS),
	lex.Rule(lex.Unit('|'), BOR),
	lex.Rule(lex.String("^="), XOR_EQUALS),
	lex.Rule(lex.Unit('^'), BXOR),
	lex.Rule(lex.String("!="), NOT_EQUALS),
	lex.Rule(lex.Unit('!'), NOT),
	lex.Rule(lex.Unit('~'), BNOT),
	lex.Rule(lex.Unit('('), LBRACE),
	lex.Rule(lex.Unit(')'), RBRACE),
	lex.Rule(lex.Unit('['), LSQUARE),
	lex.Rule(lex.Unit(']'), RSQUARE),
	lex.Rule(lex.Unit('{'), LCURLY),
	lex.Rule(lex.Unit('}'), RCURLY),
	lex.Rule(lex.Unit(','), COMMA),
	lex.Rule(lex.Unit(';'), SEMICOLON),
	lex.Rule(lex.Unit('.'), DOT),
	lex.Rule(lex.Unit('?'), QUESTION),
	lex.Rule(lex.Unit(':'), COLON),
	lex.Rule(version, VERSION),
	lex.Rule(digits, NUMBER),
	lex.Rule(strung, STRING),
	lex.Rule(badString, BAD_STRING),
	lex.Rule(identifier, IDENTIFIER),
	lex.Rule(lex.Eof[rune](), END_OF),
	lex.Rule(unknown, UNKNOWN),
}

// LexAll lexes a given source file into the complete token sequence,
// including whitespace and comment tokens.  The union of the spans of the
// returned tokens exactly covers the input buffer.  LexAll never fails:
// unrecognised characters become UNKNOWN tokens.
func LexAll(srcfile source.File) []lex.Token {
	lexer := lex.NewLexer(srcfile.Contents(), rules...)
	tokens := lexer.Collect()
	// Specialise identifiers against the keyword set
	for i, t := range tokens {
		if t.Kind == IDENTIFIER {
			if kw, ok := keywords[srcfile.Text(t.Span)]; ok {
				tokens[i].Kind = kw
			}
		}
	}
	//
	return tokens
}

// Lex a given source file into the token sequence seen by the parser, with
// whitespace and comments filtered out (at this layer, not the grammar
// layer).  Unterminated block comments are retained so the parser can report
// them.
func Lex(srcfile source.File) []lex.Token {
	tokens := LexAll(srcfile)
	// Remove whitespace and comments
	tokens = array.RemoveMatching(tokens, func(t lex.Token) bool {
		return t.Kind == WHITESPACE || t.Kind == LINE_COMMENT || t.Kind == BLOCK_COMMENT
	})
	//
	return tokens
}
