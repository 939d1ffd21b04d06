// Package parser implements a Pratt (top-down operator precedence) parser
// that turns JSONata source into an *ast.Node tree, then statically
// resolves every `%` (parent) reference via ast.ResolveAncestry.
//
// Grounded on the teacher's pkg/parser/parser_impl.go recursive-descent
// Pratt implementation, restructured around this project's unified
// ast.Node / ast.Arena rather than teacher's ASTNode, with its
// precedence table replaced by the one in the governing specification
// (notably: range and the conditional family bind looser than the
// teacher's table has them, and object-grouping/dot/filter/call/sort
// bind tighter), and extended with the Focus (@) and IndexBind (#)
// operators and the transform triad (|...|...|), neither of which the
// teacher implements.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/secondlayerco/jsonata/pkg/ast"
	"github.com/secondlayerco/jsonata/pkg/token"
)

// Parse tokenizes and parses source, resolves ancestry, and returns a
// compiled Expression.
func Parse(source string) (*ast.Expression, error) {
	p := newParser(source)
	return p.parse()
}

type parser struct {
	lexer   *token.Lexer
	current token.Token
	arena   *ast.Arena
}

func newParser(source string) *parser {
	p := &parser{lexer: token.NewLexer(source), arena: ast.NewArena()}
	p.advance()
	return p
}

func (p *parser) parse() (*ast.Expression, error) {
	if p.current.Kind == token.Error {
		return nil, p.lexer.Error()
	}
	if p.current.Kind == token.EOF {
		return nil, ast.NewErrorAt(ast.ErrEmptyExpression, "empty expression", p.current.Position)
	}

	root, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if p.current.Kind != token.EOF {
		return nil, p.errf(ast.ErrSyntaxError, "unexpected token: %s", p.current.Value)
	}

	resolved, err := ast.ResolveAncestry(root)
	if err != nil {
		return nil, err
	}

	return ast.NewExpression(resolved, p.lexer.Source(), p.arena), nil
}

// precedence is the binding-power table (higher binds tighter).
var precedence = map[token.Kind]int{
	token.Assign: 10,

	token.Coalesce: 20,
	token.Elvis:    20,
	token.Condition: 20,
	token.Pipe:     0, // transform is prefix-only; never dispatched as infix
	token.Range:    20,

	token.Or: 25,

	token.And: 30,

	token.Equal:        40,
	token.NotEqual:     40,
	token.Less:         40,
	token.LessEqual:    40,
	token.Greater:      40,
	token.GreaterEqual: 40,
	token.In:           40,
	token.Apply:        40,

	token.Concat: 50,
	token.Plus:   50,
	token.Minus:  50,

	token.Mult:       60,
	token.Div:        60,
	token.Mod:        60,
	token.Descendent: 60,

	token.BraceOpen: 70,

	token.Dot: 75,

	token.BracketOpen: 80,
	token.ParenOpen:   80,
	token.At:          80,
	token.Hash:        80,
	token.Sort:        80,
}

const unaryMinusPrecedence = 70

func (p *parser) prec(k token.Kind) int {
	return precedence[k]
}

func (p *parser) advance() {
	p.current = p.lexer.Next(p.regexAllowed())
}

// regexAllowed reports whether a '/' seen right now should be read as a
// regex literal: true only right after one of the token kinds listed
// below, each of which leaves an operand expected (spec §4.1); after any
// other token a '/' is division.
func (p *parser) regexAllowed() bool {
	switch p.current.Kind {
	case token.Equal, token.NotEqual, token.Apply, token.Comma,
		token.ParenOpen, token.BracketOpen, token.Colon, token.EOF:
		return true
	default:
		return false
	}
}

func (p *parser) errf(code ast.ErrorCode, format string, args ...interface{}) error {
	return ast.NewErrorAt(code, fmt.Sprintf(format, args...), p.current.Position).WithToken(p.current.Value)
}

func (p *parser) expect(k token.Kind) error {
	if p.current.Kind != k {
		return p.errf(ast.ErrExpectedToken, "expected %s but got %s", k.String(), p.current.Kind.String())
	}
	p.advance()
	return nil
}

func (p *parser) alloc(kind ast.NodeKind, pos int) *ast.Node {
	return p.arena.Alloc(kind, pos)
}

// parseExpression implements the Pratt loop: parse one prefix (nud),
// then consume infix operators (led) while their precedence exceeds rbp.
func (p *parser) parseExpression(rbp int) (*ast.Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for rbp < p.prec(p.current.Kind) {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) parsePrefix() (*ast.Node, error) {
	tok := p.current
	switch tok.Kind {
	case token.String:
		return p.parseString()
	case token.Number:
		return p.parseNumber()
	case token.Boolean:
		return p.parseBoolean()
	case token.Null:
		return p.parseNull()
	case token.Name, token.NameEsc:
		if tok.Value == "function" || tok.Value == "λ" {
			return p.parseLambda()
		}
		return p.parseName()
	case token.Variable:
		return p.parseVariable()
	case token.Minus:
		return p.parseUnaryMinus()
	case token.Mod:
		return p.parseParent()
	case token.ParenOpen:
		return p.parseGrouping()
	case token.BracketOpen:
		return p.parseArrayConstructor()
	case token.BraceOpen:
		return p.parseObjectConstructor(nil)
	case token.Descendent:
		return p.parseDescendentPrefix()
	case token.Mult:
		return p.parseWildcard()
	case token.Pipe:
		return p.parseTransform()
	case token.Regex:
		return p.parseRegex()
	case token.And, token.Or, token.In:
		return p.parseNameFromKeyword()
	default:
		return nil, p.errf(ast.ErrSyntaxError, "unexpected token: %s", tok.Kind.String())
	}
}

func (p *parser) parseInfix(left *ast.Node) (*ast.Node, error) {
	switch p.current.Kind {
	case token.Dot:
		return p.parsePath(left)
	case token.Descendent:
		return p.parseDescendentInfix(left)
	case token.BracketOpen:
		return p.parseFilter(left)
	case token.BraceOpen:
		return p.parseObjectConstructor(left)
	case token.ParenOpen:
		return p.parseFunctionCall(left)
	case token.Condition:
		return p.parseConditional(left)
	case token.Range:
		n, err := p.parseBinary(left, "..", 0)
		if err != nil {
			return nil, err
		}
		n.Kind = ast.NodeRange
		return n, nil
	case token.Apply:
		return p.parseApply(left)
	case token.Sort:
		return p.parseSort(left)
	case token.Assign:
		return p.parseAssignment(left)
	case token.At:
		return p.parseFocus(left)
	case token.Hash:
		return p.parseIndexBind(left)
	case token.Plus, token.Minus, token.Mult, token.Div, token.Mod,
		token.Equal, token.NotEqual, token.Less, token.LessEqual,
		token.Greater, token.GreaterEqual, token.Concat,
		token.And, token.Or, token.In, token.Coalesce, token.Elvis:
		return p.parseOperator(left)
	default:
		return nil, p.errf(ast.ErrSyntaxError, "unexpected token: %s", p.current.Kind.String())
	}
}

func unescapeString(s string) (string, error) {
	if !strings.Contains(s, "\\") {
		return s, nil
	}
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			out.WriteByte(s[i])
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("invalid escape sequence at end of string")
		}
		switch s[i] {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case '\\':
			out.WriteByte('\\')
		case '"':
			out.WriteByte('"')
		case '\'':
			out.WriteByte('\'')
		case '/':
			out.WriteByte('/')
		case 'u':
			if i+4 >= len(s) {
				return "", fmt.Errorf("invalid \\u escape: not enough characters")
			}
			hex := s[i+1 : i+5]
			code, err := strconv.ParseUint(hex, 16, 16)
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape: %s", hex)
			}
			i += 4
			r := rune(code)
			if r >= 0xD800 && r <= 0xDBFF && i+6 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				lowHex := s[i+3 : i+7]
				low, err := strconv.ParseUint(lowHex, 16, 16)
				if err == nil && low >= 0xDC00 && low <= 0xDFFF {
					decoded := utf16.Decode([]uint16{uint16(r), uint16(low)})
					if len(decoded) > 0 {
						out.WriteRune(decoded[0])
						i += 6
						continue
					}
				}
			}
			out.WriteRune(r)
		default:
			return "", fmt.Errorf("invalid escape sequence: \\%c", s[i])
		}
	}
	return out.String(), nil
}

func (p *parser) parseString() (*ast.Node, error) {
	unescaped, err := unescapeString(p.current.Value)
	if err != nil {
		return nil, ast.NewErrorAt(ast.ErrUnsupportedEscape, err.Error(), p.current.Position)
	}
	n := p.alloc(ast.NodeString, p.current.Position)
	n.Str = unescaped
	p.advance()
	return n, nil
}

func (p *parser) parseNumber() (*ast.Node, error) {
	v, err := strconv.ParseFloat(p.current.Value, 64)
	if err != nil {
		return nil, ast.NewErrorAt(ast.ErrNumberOutOfRange, "invalid number: "+p.current.Value, p.current.Position)
	}
	n := p.alloc(ast.NodeNumber, p.current.Position)
	n.Num = v
	p.advance()
	return n, nil
}

func (p *parser) parseBoolean() (*ast.Node, error) {
	n := p.alloc(ast.NodeBool, p.current.Position)
	n.Bool = p.current.Value == "true"
	p.advance()
	return n, nil
}

func (p *parser) parseNull() (*ast.Node, error) {
	n := p.alloc(ast.NodeNull, p.current.Position)
	p.advance()
	return n, nil
}

func (p *parser) parseName() (*ast.Node, error) {
	n := p.alloc(ast.NodeName, p.current.Position)
	n.Str = p.current.Value
	p.advance()
	return n, nil
}

func (p *parser) parseNameFromKeyword() (*ast.Node, error) {
	n := p.alloc(ast.NodeName, p.current.Position)
	n.Str = p.current.Kind.String()
	p.advance()
	return n, nil
}

func (p *parser) parseVariable() (*ast.Node, error) {
	var kind ast.NodeKind
	switch p.current.Value {
	case "":
		kind = ast.NodeContext
	case "$":
		kind = ast.NodeRootContext
	default:
		kind = ast.NodeVariable
	}
	n := p.alloc(kind, p.current.Position)
	n.Str = p.current.Value
	p.advance()
	return n, nil
}

func (p *parser) parseUnaryMinus() (*ast.Node, error) {
	pos := p.current.Position
	p.advance()
	expr, err := p.parseExpression(unaryMinusPrecedence)
	if err != nil {
		return nil, err
	}
	n := p.alloc(ast.NodeUnary, pos)
	n.Ident = "-"
	n.LHS = expr
	return n, nil
}

// parseParent parses `%`, in prefix position.
func (p *parser) parseParent() (*ast.Node, error) {
	n := p.alloc(ast.NodeParent, p.current.Position)
	p.advance()
	return n, nil
}

// parseGrouping parses `(` … `)`: a `;`-separated block, or a bare
// parenthesized expression. Always returned wrapped in a Block so `:=`
// introduces its own scope (spec §4.2).
func (p *parser) parseGrouping() (*ast.Node, error) {
	startPos := p.current.Position
	p.advance()

	if p.current.Kind == token.ParenClose {
		p.advance()
		return p.alloc(ast.NodeBlock, startPos), nil
	}

	var exprs []*ast.Node
	for p.current.Kind != token.ParenClose {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if p.current.Kind != token.Semicolon {
			break
		}
		p.advance()
	}
	if err := p.expect(token.ParenClose); err != nil {
		return nil, err
	}

	block := p.alloc(ast.NodeBlock, startPos)
	block.Body = exprs
	return block, nil
}

func (p *parser) parseArrayConstructor() (*ast.Node, error) {
	pos := p.current.Position
	p.advance()
	n := p.alloc(ast.NodeArray, pos)
	if p.current.Kind == token.BracketClose {
		p.advance()
		return n, nil
	}
	for {
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		n.Body = append(n.Body, expr)
		if p.current.Kind == token.BracketClose {
			p.advance()
			break
		}
		if err := p.expect(token.Comma); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// parseObjectConstructor parses `{ k:v, ... }`, either as a standalone
// literal (left == nil) or as object-grouping applied to left.
func (p *parser) parseObjectConstructor(left *ast.Node) (*ast.Node, error) {
	pos := p.current.Position
	p.advance()

	n := p.alloc(ast.NodeObject, pos)
	if left != nil {
		n.LHS = left
		n.IsGrouping = true
	}

	if p.current.Kind == token.BraceClose {
		p.advance()
		return n, nil
	}
	for {
		key, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		n.Pairs = append(n.Pairs, ast.ObjectPair{Key: key, Value: value})
		if p.current.Kind == token.BraceClose {
			p.advance()
			break
		}
		if err := p.expect(token.Comma); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (p *parser) parsePath(left *ast.Node) (*ast.Node, error) {
	pos := p.current.Position
	p.advance()
	right, err := p.parseExpression(precedence[token.Dot])
	if err != nil {
		return nil, err
	}
	n := p.alloc(ast.NodePath, pos)
	n.LHS, n.RHS = left, right
	n.KeepArray = left.KeepArray
	return n, nil
}

// parseDescendentInfix parses infix `**`: `A ** B` finds B anywhere among
// A's descendants. Represented as Path(Path(A, Descendant), B).
func (p *parser) parseDescendentInfix(left *ast.Node) (*ast.Node, error) {
	pos := p.current.Position
	p.advance()
	if p.current.Kind == token.Dot {
		p.advance()
	}
	right, err := p.parseExpression(precedence[token.Descendent])
	if err != nil {
		return nil, err
	}
	descStep := p.alloc(ast.NodePath, pos)
	descStep.LHS = left
	descStep.RHS = p.alloc(ast.NodeDescendant, pos)

	full := p.alloc(ast.NodePath, pos)
	full.LHS = descStep
	full.RHS = right
	full.KeepArray = left.KeepArray
	return full, nil
}

func (p *parser) parseDescendentPrefix() (*ast.Node, error) {
	pos := p.current.Position
	p.advance()
	if p.current.Kind == token.Dot {
		p.advance()
	}
	n := p.alloc(ast.NodeDescendant, pos)
	switch p.current.Kind {
	case token.EOF, token.Semicolon, token.ParenClose, token.BracketClose,
		token.BracketOpen, token.BraceClose, token.Comma, token.Dot:
		return n, nil
	}
	right, err := p.parseExpression(precedence[token.Descendent])
	if err != nil {
		return nil, err
	}
	full := p.alloc(ast.NodePath, pos)
	full.LHS, full.RHS = n, right
	return full, nil
}

func (p *parser) parseWildcard() (*ast.Node, error) {
	n := p.alloc(ast.NodeWildcard, p.current.Position)
	p.advance()
	return n, nil
}

func (p *parser) parseRegex() (*ast.Node, error) {
	n := p.alloc(ast.NodeRegex, p.current.Position)
	n.Str = p.current.Value
	p.advance()
	return n, nil
}

// parseFilter parses infix `[`: both forms build a Filter; `left[]` sets
// KeepArray and has no predicate, `left[pred]` carries pred as RHS.
func (p *parser) parseFilter(left *ast.Node) (*ast.Node, error) {
	pos := p.current.Position
	p.advance()
	if p.current.Kind == token.BracketClose {
		p.advance()
		n := p.alloc(ast.NodeFilter, pos)
		n.LHS = left
		n.KeepArray = true
		return n, nil
	}
	pred, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.BracketClose); err != nil {
		return nil, err
	}
	n := p.alloc(ast.NodeFilter, pos)
	n.LHS, n.RHS = left, pred
	return n, nil
}

func (p *parser) parseOperator(left *ast.Node) (*ast.Node, error) {
	op := p.current
	prec := p.prec(op.Kind)
	p.advance()
	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}
	n := p.alloc(ast.NodeBinary, op.Position)
	n.Ident = operatorString(op.Kind)
	n.LHS, n.RHS = left, right
	return n, nil
}

func (p *parser) parseBinary(left *ast.Node, op string, extraRBP int) (*ast.Node, error) {
	pos := p.current.Position
	prec := p.prec(p.current.Kind) + extraRBP
	p.advance()
	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}
	n := p.alloc(ast.NodeBinary, pos)
	n.Ident = op
	n.LHS, n.RHS = left, right
	return n, nil
}

func (p *parser) parseFunctionCall(callee *ast.Node) (*ast.Node, error) {
	pos := p.current.Position
	p.advance()

	n := p.alloc(ast.NodeFunctionCall, pos)
	if callee.Kind == ast.NodeName {
		n.CalleeStr = callee.Str
	} else {
		n.Callee = callee
	}

	hasPlaceholder := false
	if p.current.Kind != token.ParenClose {
		for {
			if p.current.Kind == token.Condition {
				ph := p.alloc(ast.NodePlaceholder, p.current.Position)
				n.Body = append(n.Body, ph)
				hasPlaceholder = true
				p.advance()
			} else {
				arg, err := p.parseExpression(0)
				if err != nil {
					return nil, err
				}
				n.Body = append(n.Body, arg)
			}
			if p.current.Kind == token.ParenClose {
				break
			}
			if err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
	}
	if err := p.expect(token.ParenClose); err != nil {
		return nil, err
	}
	if hasPlaceholder {
		n.Kind = ast.NodePartial
	}
	return n, nil
}

func (p *parser) parseConditional(cond *ast.Node) (*ast.Node, error) {
	pos := p.current.Position
	p.advance()
	then, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	n := p.alloc(ast.NodeConditional, pos)
	n.LHS, n.RHS = cond, then
	if p.current.Kind == token.Colon {
		p.advance()
		elseExpr, err := p.parseExpression(precedence[token.Condition] - 1)
		if err != nil {
			return nil, err
		}
		n.Else = elseExpr
	}
	return n, nil
}

// parseLambda parses `function($a, $b) <sig> { body }`.
func (p *parser) parseLambda() (*ast.Node, error) {
	pos := p.current.Position
	p.advance()
	n := p.alloc(ast.NodeLambda, pos)

	if err := p.expect(token.ParenOpen); err != nil {
		return nil, err
	}
	if p.current.Kind != token.ParenClose {
		for {
			if p.current.Kind != token.Variable {
				return nil, p.errf(ast.ErrBadParamList, "expected variable in lambda parameter list")
			}
			n.Params = append(n.Params, p.current.Value)
			p.advance()
			if p.current.Kind == token.ParenClose {
				break
			}
			if err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
	}
	p.advance() // skip ')'

	if p.current.Kind == token.Less {
		var sig strings.Builder
		sig.WriteByte('<')
		p.advance()
		depth := 1
		for depth > 0 && p.current.Kind != token.EOF {
			switch p.current.Kind {
			case token.Less:
				depth++
				sig.WriteByte('<')
			case token.Greater:
				depth--
				if depth > 0 {
					sig.WriteByte('>')
				}
			default:
				sig.WriteString(p.current.Value)
			}
			if depth > 0 {
				p.advance()
			}
		}
		if p.current.Kind != token.Greater {
			return nil, p.errf(ast.ErrExpectedToken, "expected '>' to close function signature")
		}
		sig.WriteByte('>')
		n.Signature = sig.String()
		p.advance()
	}

	if err := p.expect(token.BraceOpen); err != nil {
		return nil, err
	}
	body, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	n.RHS = body
	if err := p.expect(token.BraceClose); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) parseApply(left *ast.Node) (*ast.Node, error) {
	return p.parseBinary(left, "~>", 0)
}

// parseSort parses infix `^(term, term, ...)`.
func (p *parser) parseSort(left *ast.Node) (*ast.Node, error) {
	pos := p.current.Position
	p.advance()
	if p.current.Kind != token.ParenOpen {
		return nil, p.errf(ast.ErrSyntaxError, "expected '(' after '^' operator")
	}
	p.advance()

	n := p.alloc(ast.NodeSort, pos)
	n.LHS = left
	for {
		ascending := true
		if p.current.Kind == token.Less {
			p.advance()
		} else if p.current.Kind == token.Greater {
			ascending = false
			p.advance()
		}
		term, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		n.Terms = append(n.Terms, ast.SortTerm{Expr: term, Ascending: ascending})
		if p.current.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	if p.current.Kind != token.ParenClose {
		return nil, p.errf(ast.ErrSyntaxError, "expected ')' in sort expression")
	}
	p.advance()
	return n, nil
}

// parseFocus parses infix `left@$name`.
func (p *parser) parseFocus(left *ast.Node) (*ast.Node, error) {
	pos := p.current.Position
	p.advance()
	if p.current.Kind != token.Variable || p.current.Value == "" {
		return nil, p.errf(ast.ErrBadFocusTarget, "expected a variable after '@'")
	}
	n := p.alloc(ast.NodeFocus, pos)
	n.LHS = left
	n.Str = p.current.Value
	p.advance()
	return n, nil
}

// parseIndexBind parses infix `left#$name`.
func (p *parser) parseIndexBind(left *ast.Node) (*ast.Node, error) {
	pos := p.current.Position
	p.advance()
	if p.current.Kind != token.Variable || p.current.Value == "" {
		return nil, p.errf(ast.ErrBadIndexTarget, "expected a variable after '#'")
	}
	n := p.alloc(ast.NodeIndexBind, pos)
	n.LHS = left
	n.Str = p.current.Value
	p.advance()
	return n, nil
}

// parseTransform parses the transform triad `|target|update[,delete]|`.
func (p *parser) parseTransform() (*ast.Node, error) {
	pos := p.current.Position
	p.advance() // first '|'

	target, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.Pipe); err != nil {
		return nil, err
	}
	update, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	n := p.alloc(ast.NodeTransform, pos)
	n.LHS, n.RHS = target, update

	if p.current.Kind == token.Comma {
		p.advance()
		del, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		n.Else = del
	}
	if err := p.expect(token.Pipe); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) parseAssignment(left *ast.Node) (*ast.Node, error) {
	if left.Kind != ast.NodeVariable {
		return nil, p.errf(ast.ErrBadAssignmentLHS, "left-hand side of assignment must be a variable")
	}
	pos := p.current.Position
	prec := p.prec(token.Assign)
	p.advance()
	right, err := p.parseExpression(prec - 1)
	if err != nil {
		return nil, err
	}
	n := p.alloc(ast.NodeAssignment, pos)
	n.Str = left.Str
	n.LHS, n.RHS = left, right
	return n, nil
}

func operatorString(k token.Kind) string {
	switch k {
	case token.Plus:
		return "+"
	case token.Minus:
		return "-"
	case token.Mult:
		return "*"
	case token.Div:
		return "/"
	case token.Mod:
		return "%"
	case token.Equal:
		return "="
	case token.NotEqual:
		return "!="
	case token.Less:
		return "<"
	case token.LessEqual:
		return "<="
	case token.Greater:
		return ">"
	case token.GreaterEqual:
		return ">="
	case token.Concat:
		return "&"
	case token.And:
		return "and"
	case token.Or:
		return "or"
	case token.In:
		return "in"
	case token.Coalesce:
		return "??"
	case token.Elvis:
		return "?:"
	default:
		return k.String()
	}
}
