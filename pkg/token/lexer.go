package token

import (
	"fmt"
	"unicode/utf8"

	"github.com/smasher164/xid"

	"github.com/secondlayerco/jsonata/pkg/ast"
)

const eof = -1

// Lexer converts a JSONata expression into a sequence of tokens. The
// implementation follows Rob Pike's "Lexical Scanning in Go" technique.
type Lexer struct {
	input   string
	length  int
	start   int
	current int
	width   int
	err     error
}

// NewLexer creates a lexer over input. Tokens are produced by successive
// calls to Next; once the input is exhausted, Next returns EOF forever.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, length: len(input)}
}

// Next scans and returns the next token.
//
// allowRegex tells the lexer how to interpret a leading '/': as the start
// of a regular expression literal, or as the division operator. The
// parser tracks this from grammatical position (a regex can only start
// where an operand is expected).
func (l *Lexer) Next(allowRegex bool) Token {
	l.skipWhitespace()
	if l.err != nil {
		return l.error(ast.ErrCommentNotClosed, l.err.Error())
	}

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	if allowRegex && ch == '/' {
		l.ignore()
		return l.scanRegex(ch)
	}

	if rts := LookupSymbol2(ch); rts != nil {
		for _, rt := range rts {
			if l.acceptRune(rt.r) {
				return l.newToken(rt.k)
			}
		}
	}

	if k := LookupSymbol1(ch); k > 0 {
		return l.newToken(k)
	}

	if ch == '"' || ch == '\'' {
		l.ignore()
		return l.scanString(ch)
	}

	if ch >= '0' && ch <= '9' {
		l.backup()
		return l.scanNumber()
	}

	if ch == '`' {
		l.ignore()
		return l.scanEscapedName(ch)
	}

	l.backup()
	return l.scanName()
}

// Error returns the first lexical error encountered, if any.
func (l *Lexer) Error() error {
	return l.err
}

// Source returns the full input string being scanned.
func (l *Lexer) Source() string {
	return l.input
}

// scanRegex reads /pattern/flags. The opening delimiter is already consumed.
func (l *Lexer) scanRegex(delim rune) Token {
	var depth int

Loop:
	for {
		switch l.nextRune() {
		case delim:
			if depth == 0 {
				break Loop
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '\\':
			if r := l.nextRune(); r != eof && r != '\n' {
				break
			}
			fallthrough
		case eof, '\n':
			return l.error(ast.ErrRegexNotClosed, "unterminated regular expression")
		}
	}

	l.backup()
	t := l.newToken(Regex)
	l.acceptRune(delim)
	l.ignore()

	// JavaScript-style regex flags (i, m, s) become a Go (?ims) prefix.
	if l.acceptAll(isRegexFlag) {
		flags := l.newToken(Kind(0))
		t.Value = fmt.Sprintf("(?%s)%s", flags.Value, t.Value)
	}

	return t
}

// scanString reads a quoted string literal. The opening quote is consumed.
func (l *Lexer) scanString(quote rune) Token {
Loop:
	for {
		switch l.nextRune() {
		case quote:
			break Loop
		case '\\':
			if r := l.nextRune(); r != eof {
				break
			}
			fallthrough
		case eof:
			return l.error(ast.ErrStringNotClosed, "unterminated string literal")
		}
	}

	l.backup()
	t := l.newToken(String)
	l.acceptRune(quote)
	l.ignore()
	return t
}

// scanNumber reads [0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?. JSON forbids
// leading zeroes, so "0" is accepted alone but "01" is not.
func (l *Lexer) scanNumber() Token {
	if !l.acceptRune('0') {
		l.accept(isNonZeroDigit)
		l.acceptAll(isDigit)
	}

	if l.acceptRune('.') {
		if !l.acceptAll(isDigit) {
			// No digits after '.': it belongs to the range operator (1..5),
			// not this number.
			l.backup()
			return l.newToken(Number)
		}
	}

	if l.acceptRunes2('e', 'E') {
		l.acceptRunes2('+', '-')
		l.acceptAll(isDigit)
	}

	return l.newToken(Number)
}

// scanEscapedName reads `a field name`. The opening backtick is consumed.
func (l *Lexer) scanEscapedName(quote rune) Token {
Loop:
	for {
		switch l.nextRune() {
		case quote:
			break Loop
		case eof, '\n':
			return l.error(ast.ErrNameNotClosed, "unterminated escaped name")
		}
	}

	l.backup()
	t := l.newToken(NameEsc)
	l.acceptRune(quote)
	l.ignore()
	return t
}

// scanName reads a name, variable, or keyword. Identifier characters are
// classified with Unicode XID_Start/XID_Continue (plus '_', which
// Unicode itself puts in ID_Continue but which JSONata also allows to
// start a name) rather than the "stop at anything that looks like an
// operator" heuristic a pure-ASCII scanner would need — this lets
// non-Latin field names (e.g. "名前", "città") tokenize as one name
// instead of fragmenting on bytes that happen to collide with operator
// runes.
func (l *Lexer) scanName() Token {
	isVar := l.acceptRune('$')
	if isVar {
		l.ignore()
	}

	first := true
	for {
		ch := l.nextRune()
		if ch == eof {
			break
		}
		var valid bool
		if first {
			valid = ch == '_' || xid.Start(ch)
		} else {
			valid = ch == '_' || xid.Continue(ch)
		}
		// `$$` (root context) is the one case where a second '$' is part
		// of the variable name itself.
		if isVar && first && ch == '$' {
			valid = true
		}
		if !valid {
			l.backup()
			break
		}
		first = false
	}

	t := l.newToken(Name)
	if isVar {
		t.Kind = Variable
	} else if k := LookupKeyword(t.Value); k > 0 {
		t.Kind = k
	}
	return t
}

// Helper methods.

func (l *Lexer) eof() Token {
	return Token{Kind: EOF, Position: l.current}
}

func (l *Lexer) error(code ast.ErrorCode, message string) Token {
	t := l.newToken(Error)
	l.err = ast.NewErrorAt(code, message, t.Position).WithToken(t.Value)
	return t
}

func (l *Lexer) newToken(k Kind) Token {
	t := Token{Kind: k, Value: l.input[l.start:l.current], Position: l.start}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool { return c == r })
}

func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool { return c == r1 || c == r2 })
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

func (l *Lexer) skipWhitespace() {
	for {
		if l.err != nil {
			return
		}

		l.acceptAll(isWhitespace)
		l.ignore()

		if l.acceptRune('/') {
			if l.acceptRune('*') {
				for {
					ch := l.nextRune()
					if ch == eof {
						l.err = ast.NewErrorAt(ast.ErrCommentNotClosed, "unclosed comment", l.current)
						return
					}
					if ch == '*' && l.acceptRune('/') {
						break
					}
				}
				l.ignore()
			} else {
				l.backup()
				break
			}
		} else {
			break
		}
	}
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v':
		return true
	default:
		return false
	}
}

func isRegexFlag(r rune) bool {
	switch r {
	case 'i', 'm', 's':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNonZeroDigit(r rune) bool {
	return r >= '1' && r <= '9'
}
