package natsuzora

// parser is a recursive-descent cursor over a processed token stream,
// built for a closed grammar with no pluggable tag set.
type parser struct {
	name   string
	tokens []Token
	pos    int
}

// parse is the parser's one public operation: tokens (already run
// through the lexer and token processor) in, an immutable Template or
// a ParseError-classified *Error out.
func parse(name string, tokens []Token) (*Template, error) {
	p := &parser{name: name, tokens: tokens}
	loc := Location{Line: 1, Column: 1}
	if len(tokens) > 0 {
		loc = tokens[0].Loc
	}
	var nodes []Node
	for !p.atEOF() {
		n, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return &Template{Name: name, Nodes: nodes, Loc: loc}, nil
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) peekKind() TokenKind {
	return p.tokens[p.pos].Kind
}

func (p *parser) atEOF() bool {
	return p.peekKind() == TokEOF
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokEOF {
		p.pos++
	}
	return tok
}

// skipWS consumes zero or more Whitespace tokens. The lexer coalesces
// a whole run into one token, so this is usually zero-or-one, but the
// loop costs nothing and stays correct regardless.
func (p *parser) skipWS() {
	for p.peekKind() == TokWhitespace {
		p.advance()
	}
}

// requireWS consumes one required Whitespace token (the grammar's
// `ws` non-terminal between a keyword and its operand), failing if
// none is present.
func (p *parser) requireWS() error {
	if p.peekKind() != TokWhitespace {
		return newErr(KindUnexpectedToken, p.peek().Loc, "expected whitespace, found %s", p.peekKind())
	}
	p.skipWS()
	return nil
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	if p.peekKind() != kind {
		return Token{}, newErr(KindUnexpectedToken, p.peek().Loc, "expected %s, found %s", kind, p.peekKind())
	}
	return p.advance(), nil
}

// lookAheadTagBody reports the kind of the first non-whitespace token
// following the TagOpen at tagOpenIdx, without moving the cursor.
func (p *parser) lookAheadTagBody(tagOpenIdx int) TokenKind {
	i := tagOpenIdx + 1
	if i < len(p.tokens) && p.tokens[i].Kind == TokWhitespace {
		i++
	}
	if i >= len(p.tokens) {
		return TokEOF
	}
	return p.tokens[i].Kind
}

// parseNode parses exactly one top-level node: Text, or a full tag.
func (p *parser) parseNode() (Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokText:
		p.advance()
		return &TextNode{Content: tok.Lexeme, Loc: tok.Loc}, nil
	case TokTagOpen:
		return p.parseTag()
	default:
		return nil, newErr(KindUnexpectedToken, tok.Loc, "unexpected token %s", tok.Kind)
	}
}

// parseTag consumes TagOpen tag_body TagClose for every tag_body
// variant except block_close and the else_tag, which are only valid
// while parseBlockBody is looking for them.
func (p *parser) parseTag() (Node, error) {
	openTok, err := p.expect(TokTagOpen)
	if err != nil {
		return nil, err
	}

	// "no whitespace after TagOpen before #, /, !unsecure, !include".
	if p.peekKind() == TokWhitespace {
		after := p.lookAheadTagBody(p.pos - 1)
		switch after {
		case TokHash, TokSlash, TokBangUnsecure, TokBangInclude:
			return nil, newErr(KindUnexpectedToken, p.peek().Loc, "whitespace not allowed before %s", after)
		}
	}
	p.skipWS()

	switch p.peekKind() {
	case TokHash:
		return p.parseBlockOpen(openTok.Loc)
	case TokSlash:
		return nil, newErr(KindUnexpectedToken, p.peek().Loc, "unmatched block close")
	case TokBangUnsecure:
		return p.parseUnsecure(openTok.Loc)
	case TokBangInclude:
		return p.parseInclude(openTok.Loc)
	case TokEOF:
		return nil, newErr(KindUnexpectedToken, p.peek().Loc, "unexpected end of input inside tag")
	default:
		return p.parseVariable(openTok.Loc)
	}
}

// parseIdentSegment consumes one Ident token and validates it against
// the §3 identifier invariant, rejecting reserved words and
// underscore-leading spellings with their specific error kinds.
func (p *parser) parseIdentSegment() (string, error) {
	tok, err := p.expect(TokIdent)
	if err != nil {
		return "", err
	}
	return validateIdentifier(tok)
}

func validateIdentifier(tok Token) (string, error) {
	name := tok.Lexeme
	if reservedWords[name] {
		return "", newErr(KindReservedWord, tok.Loc, "%q is a reserved word and cannot be used as an identifier", name)
	}
	if len(name) == 0 || name[0] == '_' {
		return "", newErr(KindInvalidIdentifier, tok.Loc, "identifier %q must not begin with '_'", name)
	}
	return name, nil
}

// parsePath reads `Ident (Dot Ident)*`. Dot must immediately follow
// the preceding segment: whitespace between segments ends the path.
func (p *parser) parsePath() ([]string, Location, error) {
	startLoc := p.peek().Loc
	first, err := p.parseIdentSegment()
	if err != nil {
		return nil, startLoc, err
	}
	path := []string{first}
	for p.peekKind() == TokDot {
		p.advance()
		seg, err := p.parseIdentSegment()
		if err != nil {
			return nil, startLoc, err
		}
		path = append(path, seg)
	}
	return path, startLoc, nil
}

// parseVariable parses `path modifier?` followed by TagClose.
func (p *parser) parseVariable(loc Location) (Node, error) {
	path, _, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	mod := ModNone
	switch p.peekKind() {
	case TokQuestion:
		p.advance()
		mod = ModNullable
	case TokBang:
		p.advance()
		mod = ModRequired
	}
	p.skipWS()
	if _, err := p.expect(TokTagClose); err != nil {
		return nil, err
	}
	return &VariableNode{Path: path, Modifier: mod, Loc: loc}, nil
}

// parseUnsecure parses `BangUnsecure ws path` followed by TagClose.
func (p *parser) parseUnsecure(loc Location) (Node, error) {
	p.advance() // BangUnsecure
	if err := p.requireWS(); err != nil {
		return nil, err
	}
	path, pathLoc, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if _, err := p.expect(TokTagClose); err != nil {
		return nil, err
	}
	return &UnsecureNode{Path: path, Loc: pathLoc}, nil
}

// parseBlockOpen parses the `#(if_open|unless_open|each_open)` family,
// including their bodies and matching close tags.
func (p *parser) parseBlockOpen(loc Location) (Node, error) {
	p.advance() // Hash
	switch p.peekKind() {
	case TokIf:
		return p.parseIf(loc)
	case TokUnless:
		return p.parseUnless(loc)
	case TokEach:
		return p.parseEach(loc)
	default:
		return nil, newErr(KindUnexpectedToken, p.peek().Loc, "expected if, unless, or each after '#', found %s", p.peekKind())
	}
}

func (p *parser) parseIf(loc Location) (Node, error) {
	p.advance() // If
	if err := p.requireWS(); err != nil {
		return nil, err
	}
	condPath, _, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if _, err := p.expect(TokTagClose); err != nil {
		return nil, err
	}
	then, elseBody, err := p.parseBlockBody(TokIf, true)
	if err != nil {
		return nil, err
	}
	return &IfNode{ConditionPath: condPath, Then: then, Else: elseBody, Loc: loc}, nil
}

func (p *parser) parseUnless(loc Location) (Node, error) {
	p.advance() // Unless
	if err := p.requireWS(); err != nil {
		return nil, err
	}
	condPath, _, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if _, err := p.expect(TokTagClose); err != nil {
		return nil, err
	}
	body, _, err := p.parseBlockBody(TokUnless, false)
	if err != nil {
		return nil, err
	}
	return &UnlessNode{ConditionPath: condPath, Body: body, Loc: loc}, nil
}

func (p *parser) parseEach(loc Location) (Node, error) {
	p.advance() // Each
	if err := p.requireWS(); err != nil {
		return nil, err
	}
	collPath, _, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if err := p.requireWS(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokAs); err != nil {
		return nil, err
	}
	if err := p.requireWS(); err != nil {
		return nil, err
	}
	itemTok, err := p.expect(TokIdent)
	if err != nil {
		return nil, err
	}
	itemName, err := validateIdentifier(itemTok)
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if _, err := p.expect(TokTagClose); err != nil {
		return nil, err
	}
	body, _, err := p.parseBlockBody(TokEach, false)
	if err != nil {
		return nil, err
	}
	return &EachNode{CollectionPath: collPath, ItemName: itemName, Body: body, Loc: loc}, nil
}

// parseBlockBody collects nodes until the matching `{[/closeKw]}` is
// found, optionally splitting into a then/else pair when allowElse is
// set (only `#if` allows this, and only once).
func (p *parser) parseBlockBody(closeKw TokenKind, allowElse bool) (body []Node, elseBody []Node, err error) {
	sawElse := false
	cur := &body
	for {
		if p.atEOF() {
			return nil, nil, newErr(KindUnexpectedToken, p.peek().Loc, "missing block close for %s", closeKw)
		}
		if p.peekKind() == TokTagOpen {
			tagOpenIdx := p.pos
			switch p.lookAheadTagBody(tagOpenIdx) {
			case TokSlash:
				if err := p.consumeBlockClose(closeKw); err != nil {
					return nil, nil, err
				}
				return body, elseBody, nil
			case TokHash:
				if allowElse && !sawElse && p.isElseAhead(tagOpenIdx) {
					if err := p.consumeElse(); err != nil {
						return nil, nil, err
					}
					sawElse = true
					cur = &elseBody
					continue
				}
			}
		}
		n, err := p.parseNode()
		if err != nil {
			return nil, nil, err
		}
		*cur = append(*cur, n)
	}
}

// isElseAhead reports whether the tag starting at tagOpenIdx (already
// known to open with Hash) is `{[#else]}` specifically.
func (p *parser) isElseAhead(tagOpenIdx int) bool {
	i := tagOpenIdx + 1
	if i < len(p.tokens) && p.tokens[i].Kind == TokWhitespace {
		i++
	}
	if i >= len(p.tokens) || p.tokens[i].Kind != TokHash {
		return false
	}
	i++
	if i < len(p.tokens) && p.tokens[i].Kind == TokWhitespace {
		i++
	}
	return i < len(p.tokens) && p.tokens[i].Kind == TokElse
}

// consumeBlockClose consumes `{[/keyword]}`, failing if the keyword
// after Slash does not match closeKw.
func (p *parser) consumeBlockClose(closeKw TokenKind) error {
	if _, err := p.expect(TokTagOpen); err != nil {
		return err
	}
	p.skipWS()
	if _, err := p.expect(TokSlash); err != nil {
		return err
	}
	p.skipWS()
	tok := p.peek()
	if tok.Kind != closeKw {
		return newErr(KindUnexpectedToken, tok.Loc, "mismatched block close: expected /%s, found /%s", closeKw, tok.Kind)
	}
	p.advance()
	p.skipWS()
	_, err := p.expect(TokTagClose)
	return err
}

// consumeElse consumes `{[#else]}`.
func (p *parser) consumeElse() error {
	if _, err := p.expect(TokTagOpen); err != nil {
		return err
	}
	p.skipWS()
	if _, err := p.expect(TokHash); err != nil {
		return err
	}
	p.skipWS()
	if _, err := p.expect(TokElse); err != nil {
		return err
	}
	p.skipWS()
	_, err := p.expect(TokTagClose)
	return err
}

// parseInclude parses `BangInclude ws include_name include_args`
// followed by TagClose.
func (p *parser) parseInclude(loc Location) (Node, error) {
	p.advance() // BangInclude
	if err := p.requireWS(); err != nil {
		return nil, err
	}
	name, err := p.parseIncludeName()
	if err != nil {
		return nil, err
	}

	var args []IncludeArg
	seen := map[string]bool{}
	for p.peekKind() == TokWhitespace {
		savedPos := p.pos
		p.skipWS()
		if p.peekKind() != TokIdent {
			// Trailing whitespace before TagClose: not an argument.
			p.pos = savedPos
			break
		}
		argLoc := p.peek().Loc
		keyTok := p.advance()
		key, err := validateIdentifier(keyTok)
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if _, err := p.expect(TokEqual); err != nil {
			return nil, err
		}
		p.skipWS()
		valPath, _, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		if seen[key] {
			return nil, newErr(KindUnexpectedToken, argLoc, "duplicate include argument %q", key)
		}
		seen[key] = true
		args = append(args, IncludeArg{Key: key, Value: valPath, Loc: argLoc})
	}

	p.skipWS()
	if _, err := p.expect(TokTagClose); err != nil {
		return nil, err
	}
	return &IncludeNode{Name: name, Args: args, Loc: loc}, nil
}

// parseIncludeName parses `(Slash Ident)+` into a "/a/b/c" string,
// validating each segment against the identifier rule. The loader
// re-validates independently at load time as a defensive check.
func (p *parser) parseIncludeName() (string, error) {
	startLoc := p.peek().Loc
	if p.peekKind() != TokSlash {
		return "", newErr(KindUnexpectedToken, startLoc, "expected include path beginning with '/', found %s", p.peekKind())
	}
	var segs []string
	for p.peekKind() == TokSlash {
		p.advance()
		tok, err := p.expect(TokIdent)
		if err != nil {
			return "", err
		}
		seg, err := validateIdentifier(tok)
		if err != nil {
			return "", err
		}
		segs = append(segs, seg)
	}
	name := ""
	for _, s := range segs {
		name += "/" + s
	}
	return name, nil
}

