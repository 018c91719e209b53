package natsuzora

import "strings"

// ParseString lexes, token-processes, and parses src into an
// immutable Template named name (used only for diagnostics and, via
// the loader, cache keys). This is the engine's sole entry point for
// turning source text into a tree: the three passes always run
// together, never individually, from outside this package.
func ParseString(name, src string) (*Template, error) {
	tokens, err := lex(name, src)
	if err != nil {
		return nil, err
	}
	processed, err := processTokens(tokens)
	if err != nil {
		return nil, err
	}
	return parse(name, processed)
}

// Render renders t against data (a JSON-equivalent tree: the nested
// map[string]any/[]any/string/bool/float64/nil shapes encoding/json
// produces, or this package's own Value types) with no partial
// loader. An Include node encountered with no loader configured fails
// with KindInclude.
func (t *Template) Render(data interface{}) (string, error) {
	return t.RenderWithLoader(data, nil)
}

// RenderWithLoader renders t against data, resolving any Include
// nodes through loader. loader may be nil if t contains no includes;
// a non-nil loader must not be shared with a concurrent render
// (§5/§7: a *Loader's cache and include-stack are mutable, per-call
// state, not safe for concurrent use by distinct renders).
func (t *Template) RenderWithLoader(data interface{}, loader *Loader) (string, error) {
	val, err := FromJSON(data)
	if err != nil {
		return "", err
	}
	ctx, err := newContext(val)
	if err != nil {
		return "", err
	}
	rd := &renderer{loader: loader}
	var b strings.Builder
	if err := rd.renderNodes(&b, t.Nodes, ctx); err != nil {
		return "", err
	}
	return b.String(), nil
}
