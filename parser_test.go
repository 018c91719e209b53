package natsuzora

import (
	"testing"

	"github.com/kr/pretty"
)

func mustParse(t *testing.T, src string) *Template {
	t.Helper()
	tmpl, err := ParseString("t", src)
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}
	return tmpl
}

func TestParseVariableModifiers(t *testing.T) {
	tmpl := mustParse(t, "{[ a.b ]}{[ a.b? ]}{[ a.b! ]}")
	if len(tmpl.Nodes) != 3 {
		t.Fatalf("got %d nodes: %# v", len(tmpl.Nodes), pretty.Formatter(tmpl.Nodes))
	}
	mods := []Modifier{ModNone, ModNullable, ModRequired}
	for i, want := range mods {
		v, ok := tmpl.Nodes[i].(*VariableNode)
		if !ok {
			t.Fatalf("node %d is %T, want *VariableNode", i, tmpl.Nodes[i])
		}
		if v.Modifier != want {
			t.Errorf("node %d modifier = %v, want %v", i, v.Modifier, want)
		}
		if len(v.Path) != 2 || v.Path[0] != "a" || v.Path[1] != "b" {
			t.Errorf("node %d path = %v", i, v.Path)
		}
	}
}

func TestParseIfElse(t *testing.T) {
	tmpl := mustParse(t, "{[#if v]}yes{[#else]}no{[/if]}")
	n, ok := tmpl.Nodes[0].(*IfNode)
	if !ok {
		t.Fatalf("got %T", tmpl.Nodes[0])
	}
	if len(n.Then) != 1 || n.Then[0].(*TextNode).Content != "yes" {
		t.Errorf("then = %#v", n.Then)
	}
	if len(n.Else) != 1 || n.Else[0].(*TextNode).Content != "no" {
		t.Errorf("else = %#v", n.Else)
	}
}

func TestParseUnless(t *testing.T) {
	tmpl := mustParse(t, "{[#unless v]}body{[/unless]}")
	n, ok := tmpl.Nodes[0].(*UnlessNode)
	if !ok {
		t.Fatalf("got %T", tmpl.Nodes[0])
	}
	if len(n.Body) != 1 || n.Body[0].(*TextNode).Content != "body" {
		t.Errorf("body = %#v", n.Body)
	}
}

func TestParseEach(t *testing.T) {
	tmpl := mustParse(t, "{[#each xs as x]}{[ x ]}-{[/each]}")
	n, ok := tmpl.Nodes[0].(*EachNode)
	if !ok {
		t.Fatalf("got %T", tmpl.Nodes[0])
	}
	if n.ItemName != "x" || len(n.CollectionPath) != 1 || n.CollectionPath[0] != "xs" {
		t.Errorf("each node = %#v", n)
	}
	if len(n.Body) != 2 {
		t.Fatalf("body = %#v", n.Body)
	}
}

func TestParseInclude(t *testing.T) {
	tmpl := mustParse(t, "{[!include /greeting name=other ]}")
	n, ok := tmpl.Nodes[0].(*IncludeNode)
	if !ok {
		t.Fatalf("got %T", tmpl.Nodes[0])
	}
	if n.Name != "/greeting" {
		t.Errorf("name = %q", n.Name)
	}
	if len(n.Args) != 1 || n.Args[0].Key != "name" || len(n.Args[0].Value) != 1 || n.Args[0].Value[0] != "other" {
		t.Errorf("args = %#v", n.Args)
	}
}

func TestParseIncludeDuplicateArgKeyFails(t *testing.T) {
	_, err := ParseString("t", "{[!include /a k=x k=y ]}")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseUnsecure(t *testing.T) {
	tmpl := mustParse(t, "{[!unsecure raw]}")
	n, ok := tmpl.Nodes[0].(*UnsecureNode)
	if !ok {
		t.Fatalf("got %T", tmpl.Nodes[0])
	}
	if len(n.Path) != 1 || n.Path[0] != "raw" {
		t.Errorf("path = %v", n.Path)
	}
}

func TestParseWhitespaceForbiddenAfterTagOpen(t *testing.T) {
	_, err := ParseString("t", "{[ #if v]}x{[/if]}")
	if err == nil {
		t.Fatal("expected error")
	}
	if kind, ok := AsKind(err); !ok || kind != KindUnexpectedToken {
		t.Fatalf("kind = %v, ok = %v", kind, ok)
	}
}

func TestParseReservedWordAsIdentifier(t *testing.T) {
	// "true"/"null"/etc. are reserved but not lexer keywords (those
	// are only if/unless/else/each/as, which lex as distinct token
	// kinds and so fail earlier, as UnexpectedToken); these lex as
	// plain Ident and are rejected by identifier validation instead.
	_, err := ParseString("t", "{[ true ]}")
	if err == nil {
		t.Fatal("expected error")
	}
	if kind, ok := AsKind(err); !ok || kind != KindReservedWord {
		t.Fatalf("kind = %v, ok = %v", kind, ok)
	}
}

func TestParseUnderscoreIdentifierInvalid(t *testing.T) {
	_, err := ParseString("t", "{[ _x ]}")
	if err == nil {
		t.Fatal("expected error")
	}
	if kind, ok := AsKind(err); !ok || kind != KindInvalidIdentifier {
		t.Fatalf("kind = %v, ok = %v", kind, ok)
	}
}

func TestParseMismatchedBlockClose(t *testing.T) {
	_, err := ParseString("t", "{[#if v]}x{[/unless]}")
	if err == nil {
		t.Fatal("expected error")
	}
	if kind, ok := AsKind(err); !ok || kind != KindUnexpectedToken {
		t.Fatalf("kind = %v, ok = %v", kind, ok)
	}
}

func TestParseMissingBlockCloseIsParseError(t *testing.T) {
	_, err := ParseString("t", "{[#if v]}x")
	if err == nil {
		t.Fatal("expected error")
	}
	if kind, ok := AsKind(err); !ok || kind != KindUnexpectedToken {
		t.Fatalf("kind = %v, ok = %v", kind, ok)
	}
}

func TestParseUnmatchedBlockClose(t *testing.T) {
	_, err := ParseString("t", "{[/if]}")
	if err == nil {
		t.Fatal("expected error")
	}
	if kind, ok := AsKind(err); !ok || kind != KindUnexpectedToken {
		t.Fatalf("kind = %v, ok = %v", kind, ok)
	}
}

func TestParseNestedBlocks(t *testing.T) {
	tmpl := mustParse(t, "{[#if a]}{[#each xs as x]}{[ x ]}{[/each]}{[/if]}")
	ifNode := tmpl.Nodes[0].(*IfNode)
	if len(ifNode.Then) != 1 {
		t.Fatalf("then = %#v", ifNode.Then)
	}
	if _, ok := ifNode.Then[0].(*EachNode); !ok {
		t.Fatalf("nested node is %T", ifNode.Then[0])
	}
}
