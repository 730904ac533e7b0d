package lexer

import (
	"testing"

	"amai/token"
)

func kinds(t *testing.T, toks []token.Token) []token.Kind {
	t.Helper()
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func assertKinds(t *testing.T, src string, want []token.Kind) []token.Token {
	t.Helper()
	toks, err := New(src).Scan()
	if err != nil {
		t.Fatalf("Scan(%q): %v", src, err)
	}
	got := kinds(t, toks)
	if len(got) != len(want) {
		t.Fatalf("Scan(%q) kinds = %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Scan(%q) token %d = %s, want %s", src, i, got[i], want[i])
		}
	}
	return toks
}

func TestKeywordsAndDelimiters(t *testing.T) {
	assertKinds(t, "func add(a: int, b: int) -> int {}", []token.Kind{
		token.FUNC_KW, token.IDENT, token.LPAREN, token.IDENT, token.COLON, token.IDENT,
		token.COMMA, token.IDENT, token.COLON, token.IDENT, token.RPAREN, token.ARROW,
		token.IDENT, token.LBRACE, token.RBRACE, token.EOF,
	})
}

func TestOperators(t *testing.T) {
	assertKinds(t, "+ - * / % += -= *= /= %= ++ .. ..= | & ^ ~ << >> and or ! == != < <= > >= =", []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ, token.PERCENT_EQ,
		token.CONCAT, token.RANGE, token.RANGE_INCL, token.PIPE, token.AMP, token.CARET,
		token.TILDE, token.SHL, token.SHR,
		token.AND_KW, token.OR_KW, token.BANG, token.EQ, token.NE, token.LT, token.LE,
		token.GT, token.GE, token.ASSIGN, token.EOF,
	})
}

func TestIntegerLiteralBases(t *testing.T) {
	toks := assertKinds(t, "10 0b101 0o17 0xFF 1_000_000", []token.Kind{
		token.INT, token.INT, token.INT, token.INT, token.INT, token.EOF,
	})
	want := []int64{10, 5, 15, 255, 1000000}
	for i, w := range want {
		if got := toks[i].Literal.(int64); got != w {
			t.Errorf("token %d literal = %d, want %d", i, got, w)
		}
	}
}

func TestFloatLiteral(t *testing.T) {
	toks := assertKinds(t, "3.14 0.5", []token.Kind{token.FLOAT, token.FLOAT, token.EOF})
	if toks[0].Literal.(float64) != 3.14 {
		t.Errorf("literal = %v, want 3.14", toks[0].Literal)
	}
}

func TestStringLiteralWithEscapes(t *testing.T) {
	toks := assertKinds(t, `"hello\nworld"`, []token.Kind{token.STRING, token.EOF})
	if toks[0].Literal.(string) != "hello\nworld" {
		t.Errorf("literal = %q, want %q", toks[0].Literal, "hello\nworld")
	}
}

func TestLineCommentSkipped(t *testing.T) {
	assertKinds(t, "1 // this is a comment\n2", []token.Kind{token.INT, token.INT, token.EOF})
}

func TestUnterminatedStringIsError(t *testing.T) {
	if _, err := New(`"abc`).Scan(); err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestSpansAreByteRanges(t *testing.T) {
	toks, err := New("ab + cd").Scan()
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Span.Start != 0 || toks[0].Span.End != 2 {
		t.Errorf("first token span = %v, want 0..2", toks[0].Span)
	}
	if toks[1].Span.Start != 3 || toks[1].Span.End != 4 {
		t.Errorf("second token span = %v, want 3..4", toks[1].Span)
	}
}
