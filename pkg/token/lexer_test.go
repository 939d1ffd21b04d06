package token_test

import (
	"testing"

	"github.com/secondlayerco/jsonata/pkg/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := token.NewLexer(src)
	var out []token.Token
	for {
		tok := l.Next(len(out) == 0 || isOperandPosition(out))
		out = append(out, tok)
		if tok.Kind == token.EOF || tok.Kind == token.Error {
			break
		}
	}
	return out
}

// isOperandPosition is a crude stand-in for the parser's real
// regex-vs-division tracking: good enough for these lexer-only tests,
// which never mix a trailing expression with a following regex.
func isOperandPosition(tokens []token.Token) bool {
	if len(tokens) == 0 {
		return true
	}
	switch tokens[len(tokens)-1].Kind {
	case token.Name, token.Variable, token.Number, token.String, token.ParenClose, token.BracketClose:
		return false
	default:
		return true
	}
}

func TestLexerSymbols(t *testing.T) {
	tests := []struct {
		src  string
		want token.Kind
	}{
		{"[", token.BracketOpen},
		{"]", token.BracketClose},
		{"{", token.BraceOpen},
		{"}", token.BraceClose},
		{"(", token.ParenOpen},
		{")", token.ParenClose},
		{".", token.Dot},
		{"..", token.Range},
		{"~>", token.Apply},
		{":=", token.Assign},
		{"**", token.Descendent},
		{"??", token.Coalesce},
		{"?:", token.Elvis},
		{"!=", token.NotEqual},
		{"<=", token.LessEqual},
		{">=", token.GreaterEqual},
		{"<", token.Less},
		{">", token.Greater},
		{"=", token.Equal},
		{"^", token.Sort},
		{"&", token.Concat},
		{"@", token.At},
		{"#", token.Hash},
		{"?", token.Condition},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			l := token.NewLexer(tt.src)
			got := l.Next(true)
			if got.Kind != tt.want {
				t.Errorf("Next(%q) kind = %v, want %v", tt.src, got.Kind, tt.want)
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	for _, src := range []string{`"hello"`, `'hello'`} {
		l := token.NewLexer(src)
		got := l.Next(true)
		if got.Kind != token.String || got.Value != "hello" {
			t.Errorf("Next(%q) = %v %q, want String hello", src, got.Kind, got.Value)
		}
	}
}

func TestLexerUnterminatedStringIsError(t *testing.T) {
	l := token.NewLexer(`"hello`)
	got := l.Next(true)
	if got.Kind != token.Error {
		t.Fatalf("got %v, want Error", got.Kind)
	}
	if l.Error() == nil {
		t.Error("Error() returned nil after an Error token")
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"123", "123"},
		{"3.14", "3.14"},
		{"0", "0"},
		{"1e-10", "1e-10"},
		{"1E+5", "1E+5"},
	}
	for _, tt := range tests {
		l := token.NewLexer(tt.src)
		got := l.Next(true)
		if got.Kind != token.Number || got.Value != tt.want {
			t.Errorf("Next(%q) = %v %q, want Number %q", tt.src, got.Kind, got.Value, tt.want)
		}
	}
}

func TestLexerNumberRangeBoundary(t *testing.T) {
	// "1..5" must scan as Number(1), Range, Number(5), not Number("1.") + ...
	toks := scanAll(t, "1..5")
	want := []token.Kind{token.Number, token.Range, token.Number, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
	if toks[0].Value != "1" || toks[2].Value != "5" {
		t.Errorf("got values %q, %q, want 1, 5", toks[0].Value, toks[2].Value)
	}
}

func TestLexerVariablesAndNames(t *testing.T) {
	tests := []struct {
		src      string
		wantKind token.Kind
		wantVal  string
	}{
		{"$foo", token.Variable, "foo"},
		{"$$", token.Variable, "$"},
		{"fieldName", token.Name, "fieldName"},
		{"città", token.Name, "città"},
	}
	for _, tt := range tests {
		l := token.NewLexer(tt.src)
		got := l.Next(true)
		if got.Kind != tt.wantKind || got.Value != tt.wantVal {
			t.Errorf("Next(%q) = %v %q, want %v %q", tt.src, got.Kind, got.Value, tt.wantKind, tt.wantVal)
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		src  string
		want token.Kind
	}{
		{"and", token.And},
		{"or", token.Or},
		{"in", token.In},
		{"true", token.Boolean},
		{"false", token.Boolean},
		{"null", token.Null},
	}
	for _, tt := range tests {
		l := token.NewLexer(tt.src)
		got := l.Next(true)
		if got.Kind != tt.want {
			t.Errorf("Next(%q) kind = %v, want %v", tt.src, got.Kind, tt.want)
		}
	}
}

func TestLexerEscapedName(t *testing.T) {
	l := token.NewLexer("`a field`")
	got := l.Next(true)
	if got.Kind != token.NameEsc || got.Value != "a field" {
		t.Errorf("got %v %q, want NameEsc \"a field\"", got.Kind, got.Value)
	}
}

func TestLexerRegexVsDivision(t *testing.T) {
	l := token.NewLexer("/abc/i")
	got := l.Next(true)
	if got.Kind != token.Regex {
		t.Fatalf("got %v, want Regex", got.Kind)
	}

	l2 := token.NewLexer("/")
	got2 := l2.Next(false)
	if got2.Kind != token.Div {
		t.Fatalf("got %v, want Div", got2.Kind)
	}
}

func TestLexerCommentsAreSkipped(t *testing.T) {
	l := token.NewLexer("/* a comment */ 42")
	got := l.Next(true)
	if got.Kind != token.Number || got.Value != "42" {
		t.Errorf("got %v %q, want Number 42", got.Kind, got.Value)
	}
}

func TestLexerUnclosedCommentIsError(t *testing.T) {
	l := token.NewLexer("/* never closed")
	got := l.Next(true)
	if got.Kind != token.Error {
		t.Fatalf("got %v, want Error", got.Kind)
	}
}

func TestLexerEOF(t *testing.T) {
	l := token.NewLexer("")
	got := l.Next(true)
	if got.Kind != token.EOF {
		t.Fatalf("got %v, want EOF", got.Kind)
	}
	// Subsequent calls keep returning EOF.
	if got2 := l.Next(true); got2.Kind != token.EOF {
		t.Fatalf("second call got %v, want EOF", got2.Kind)
	}
}

func TestKindStringCoversKnownKinds(t *testing.T) {
	if s := token.Apply.String(); s != "~>" {
		t.Errorf("Apply.String() = %q, want ~>", s)
	}
	if s := token.EOF.String(); s == "" {
		t.Error("EOF.String() returned empty string")
	}
}
