package syntax

import (
	"minic/logging"
	"strings"
	"testing"

	"github.com/kr/pretty"
)

func scanAll(t *testing.T, src string) ([]*Token, bool) {
	t.Helper()

	sc := NewScannerFromReader(strings.NewReader(src), &logging.LogContext{FilePath: "test.mc"})
	return Tokenize(sc)
}

func reprs(tokens []*Token) []string {
	var out []string
	for _, tok := range tokens {
		out = append(out, tok.Repr())
	}

	return out
}

func TestScanStatements(t *testing.T) {
	tokens, ok := scanAll(t, "int a;\na = (a_1 + 42) * 3 - b;\n\treturn a;")
	if !ok {
		t.Fatal("scanning failed")
	}

	want := []string{
		"(int,)", "(IDENTIFIER,a)", "(;,)",
		"(IDENTIFIER,a)", "(=,)", "((,)", "(IDENTIFIER,a_1)", "(+,)", "(INTLIT,42)", "(),)",
		"(*,)", "(INTLIT,3)", "(-,)", "(IDENTIFIER,b)", "(;,)",
		"(return,)", "(IDENTIFIER,a)", "(;,)",
		"($,)",
	}

	if diff := pretty.Diff(reprs(tokens), want); len(diff) > 0 {
		t.Errorf("token stream differs: %v", diff)
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	tokens, ok := scanAll(t, "integer int_ returns _int int return")
	if !ok {
		t.Fatal("scanning failed")
	}

	kinds := []int{IDENTIFIER, IDENTIFIER, IDENTIFIER, IDENTIFIER, INT, RETURN, EOF}
	for i, tok := range tokens {
		if tok.Kind != kinds[i] {
			t.Errorf("token %d (%q): got kind %s, want %s", i, tok.Value, KindName(tok.Kind), KindName(kinds[i]))
		}
	}
}

func TestScanPositions(t *testing.T) {
	tokens, ok := scanAll(t, "int a;\n  a = 10;")
	if !ok {
		t.Fatal("scanning failed")
	}

	ten := tokens[5]
	if ten.Value != "10" || ten.Line != 2 {
		t.Fatalf("unexpected token %+v", ten)
	}

	pos := TextPositionOfToken(ten)
	if pos.StartCol != 6 || pos.EndCol != 8 {
		t.Errorf("got columns %d-%d, want 6-8", pos.StartCol, pos.EndCol)
	}
}

func TestScanMalformedToken(t *testing.T) {
	before := logging.ErrorCount()

	tokens, ok := scanAll(t, "int a;\na = 3 # 4;")
	if ok {
		t.Fatal("expected scanning to fail on `#`")
	}

	if len(tokens) != 6 {
		t.Errorf("expected the tokens before the malformed one, got %q", reprs(tokens))
	}

	if logging.ErrorCount() != before+1 {
		t.Error("expected a token error to be logged")
	}
}

func TestScanEOFRepeats(t *testing.T) {
	sc := NewScannerFromReader(strings.NewReader("  "), nil)

	for i := 0; i < 2; i++ {
		if tok, ok := sc.ReadToken(); !ok || tok.Kind != EOF {
			t.Fatalf("read %d: expected EOF", i)
		}
	}
}
