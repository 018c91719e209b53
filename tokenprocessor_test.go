package natsuzora

import "testing"

func mustLex(t *testing.T, src string) []Token {
	t.Helper()
	toks, err := lex("t", src)
	if err != nil {
		t.Fatalf("lex(%q): %v", src, err)
	}
	return toks
}

func TestTokenProcessorCommentIsRemoved(t *testing.T) {
	toks, err := processTokens(mustLex(t, "a{[% hidden %]}b"))
	if err != nil {
		t.Fatalf("processTokens: %v", err)
	}
	if len(toks) != 3 || toks[0].Lexeme != "a" || toks[1].Lexeme != "b" || toks[2].Kind != TokEOF {
		t.Fatalf("got %#v", toks)
	}
}

func TestTokenProcessorUnclosedCommentErrors(t *testing.T) {
	_, err := processTokens(mustLex(t, "x{[% never closed"))
	if err == nil {
		t.Fatal("expected error")
	}
	if kind, ok := AsKind(err); !ok || kind != KindUnclosedComment {
		t.Fatalf("kind = %v, ok = %v", kind, ok)
	}
}

func TestTokenProcessorLeftTrimWholeLineBlank(t *testing.T) {
	// The line "  " before the tag is entirely horizontal whitespace,
	// so the leading dash strips it, keeping the newline; the trailing
	// dash then strips the newline that follows the tag.
	toks, err := processTokens(mustLex(t, "line1\n  {[- x -]}\nafter"))
	if err != nil {
		t.Fatalf("processTokens: %v", err)
	}
	var texts []string
	for _, tok := range toks {
		if tok.Kind == TokText {
			texts = append(texts, tok.Lexeme)
		}
	}
	if len(texts) != 2 || texts[0] != "line1\n" || texts[1] != "after" {
		t.Fatalf("texts = %#v, want [\"line1\\n\" \"after\"]", texts)
	}
}

func TestTokenProcessorLeftTrimNotWholeLine(t *testing.T) {
	// "keep  " is not entirely horizontal whitespace on its line, so
	// the leading dash must not touch it.
	toks, err := processTokens(mustLex(t, "keep  {[- x ]}"))
	if err != nil {
		t.Fatalf("processTokens: %v", err)
	}
	if toks[0].Kind != TokText || toks[0].Lexeme != "keep  " {
		t.Fatalf("got %#v", toks[0])
	}
}

func TestTokenProcessorRightTrimLeadingBlankLine(t *testing.T) {
	toks, err := processTokens(mustLex(t, "{[ x -]}  \nafter"))
	if err != nil {
		t.Fatalf("processTokens: %v", err)
	}
	var last Token
	for _, tok := range toks {
		if tok.Kind == TokText {
			last = tok
		}
	}
	if last.Lexeme != "after" {
		t.Fatalf("trailing text = %q, want %q", last.Lexeme, "after")
	}
}

func TestTokenProcessorRightTrimNotFollowedByNewlineKeepsText(t *testing.T) {
	toks, err := processTokens(mustLex(t, "{[ x -]}  stay"))
	if err != nil {
		t.Fatalf("processTokens: %v", err)
	}
	var last Token
	for _, tok := range toks {
		if tok.Kind == TokText {
			last = tok
		}
	}
	if last.Lexeme != "  stay" {
		t.Fatalf("trailing text = %q, want unchanged %q", last.Lexeme, "  stay")
	}
}

func TestTokenProcessorRightTrimWhitespaceRunsToTokenEnd(t *testing.T) {
	// Nothing follows the trailing-dash tag but trailing whitespace and
	// end of input: "the token end" satisfies the rule on its own, with
	// no line terminator required.
	toks, err := processTokens(mustLex(t, "{[ x -]}   "))
	if err != nil {
		t.Fatalf("processTokens: %v", err)
	}
	for _, tok := range toks {
		if tok.Kind == TokText {
			t.Fatalf("expected the trailing whitespace-only text to vanish, got %#v", tok)
		}
	}
}

func TestTokenProcessorDashNeverEmitted(t *testing.T) {
	toks, err := processTokens(mustLex(t, "{[- x -]}"))
	if err != nil {
		t.Fatalf("processTokens: %v", err)
	}
	for _, tok := range toks {
		if tok.Kind == TokDash {
			t.Fatalf("TokDash leaked into processed stream: %#v", toks)
		}
	}
}

func TestTokenProcessorScenario5FromSpec(t *testing.T) {
	toks, err := processTokens(mustLex(t, "line1\n  {[- name -]}\nafter"))
	if err != nil {
		t.Fatalf("processTokens: %v", err)
	}
	tmpl, err := parse("t", toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := tmpl.Render(map[string]interface{}{"name": "X"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "line1\nXafter" {
		t.Fatalf("out = %q, want %q", out, "line1\nXafter")
	}
}
