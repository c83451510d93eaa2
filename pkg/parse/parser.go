package parse

import (
	"fmt"

	"github.com/pell-lang/pell/pkg/defn"
	"github.com/pell-lang/pell/pkg/term"
)

// ParseError reports a syntax error with its source position.
type ParseError struct {
	Name string
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Line, e.Col, e.Msg)
}

// Parser builds declarations and terms from a token stream. It tracks which
// names are lexically bound, so an identifier resolves to a variable when a
// binder or parameter introduced it and to a reference otherwise.
type Parser struct {
	name  string
	toks  []Token
	pos   int
	bound []string
}

// NewParser lexes src and returns a parser over its tokens.
func NewParser(name, src string) (*Parser, error) {
	toks, err := NewLexer(name, src).Lex()
	if err != nil {
		return nil, err
	}
	return &Parser{name: name, toks: toks}, nil
}

// ParseFile parses a sequence of declarations.
func ParseFile(name, src string) ([]Decl, error) {
	p, err := NewParser(name, src)
	if err != nil {
		return nil, err
	}
	var decls []Decl
	for !p.atEnd() {
		d, err := p.parseDecl(false)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

// ParseInput parses interactive input. It accepts the same declarations as
// ParseFile, plus a bare term, which is wrapped as an eval.
func ParseInput(src string) ([]Decl, error) {
	p, err := NewParser("repl", src)
	if err != nil {
		return nil, err
	}
	var decls []Decl
	for !p.atEnd() {
		d, err := p.parseDecl(true)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

// ParseTerm parses a single term spanning the whole input.
func ParseTerm(src string) (term.Term, error) {
	p, err := NewParser("term", src)
	if err != nil {
		return nil, err
	}
	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, p.errAt(p.cur(), fmt.Sprintf("unexpected %q after term", p.cur().Lexeme))
	}
	return t, nil
}

func (p *Parser) atEnd() bool { return p.cur().Type == EOF }

// cur returns the token at the cursor. Lex always ends the stream with an
// EOF token, which doubles as the sentinel once the cursor runs past it.
func (p *Parser) cur() Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *Parser) next() Token {
	t := p.cur()
	p.pos++
	return t
}

func (p *Parser) match(tt TokenType) bool {
	if p.cur().Type == tt {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	t := p.cur()
	if t.Type != tt {
		if t.Type == EOF {
			return Token{}, p.errAt(t, fmt.Sprintf("expected %s, got end of input", what))
		}
		return Token{}, p.errAt(t, fmt.Sprintf("expected %s, got %q", what, t.Lexeme))
	}
	p.pos++
	return t, nil
}

func (p *Parser) errAt(t Token, msg string) error {
	return &ParseError{Name: p.name, Line: t.Line, Col: t.Col, Msg: msg}
}

func (p *Parser) pushBound(name string) { p.bound = append(p.bound, name) }

func (p *Parser) popBound(n int) { p.bound = p.bound[:len(p.bound)-n] }

func (p *Parser) isBound(name string) bool {
	for i := len(p.bound) - 1; i >= 0; i-- {
		if p.bound[i] == name {
			return true
		}
	}
	return false
}

func (p *Parser) parseDecl(allowTerm bool) (Decl, error) {
	t := p.cur()
	switch t.Type {
	case DEF:
		return p.parseDef()
	case AXIOM:
		return p.parseAxiom()
	case THEOREM:
		return p.parseTheorem()
	case EVAL:
		p.pos++
		tm, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return &EvalDecl{Term: tm, Line: t.Line}, nil
	case EQUIV:
		p.pos++
		left, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(EQEQ, "'=='"); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return &EquivDecl{Left: left, Right: right, Line: t.Line}, nil
	default:
		if allowTerm {
			tm, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			return &EvalDecl{Term: tm, Line: t.Line}, nil
		}
		return nil, p.errAt(t, fmt.Sprintf("expected a declaration, got %q", t.Lexeme))
	}
}

func (p *Parser) parseDef() (Decl, error) {
	kw := p.next()
	name, err := p.expect(IDENT, "definition name")
	if err != nil {
		return nil, err
	}
	params, pushed, err := p.parseParams()
	defer func() { p.popBound(pushed) }()
	if err != nil {
		return nil, err
	}
	var anno term.Term
	if p.match(COLON) {
		anno, err = p.parseTerm()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(WALRUS, "':='"); err != nil {
		return nil, err
	}
	body, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return &DefDecl{Name: name.Lexeme, Params: params, Anno: anno, Body: body, Line: kw.Line}, nil
}

func (p *Parser) parseAxiom() (Decl, error) {
	kw := p.next()
	name, err := p.expect(IDENT, "axiom name")
	if err != nil {
		return nil, err
	}
	params, pushed, err := p.parseParams()
	defer func() { p.popBound(pushed) }()
	if err != nil {
		return nil, err
	}
	var anno term.Term
	if p.match(COLON) {
		anno, err = p.parseTerm()
		if err != nil {
			return nil, err
		}
	}
	if p.cur().Type == WALRUS {
		return nil, p.errAt(p.cur(), "axiom cannot have a body")
	}
	return &AxiomDecl{Name: name.Lexeme, Params: params, Anno: anno, Line: kw.Line}, nil
}

func (p *Parser) parseTheorem() (Decl, error) {
	kw := p.next()
	name, err := p.expect(IDENT, "theorem name")
	if err != nil {
		return nil, err
	}
	params, pushed, err := p.parseParams()
	defer func() { p.popBound(pushed) }()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(COLON, "':'"); err != nil {
		return nil, err
	}
	statement, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	var proof term.Term
	if p.match(WALRUS) {
		proof, err = p.parseTerm()
		if err != nil {
			return nil, err
		}
	}
	return &TheoremDecl{Name: name.Lexeme, Params: params, Statement: statement, Proof: proof, Line: kw.Line}, nil
}

// parseParams parses an optional parenthesized parameter list attached to a
// declaration name. Each parameter is in scope as soon as it is parsed, so
// later annotations can depend on earlier parameters. The caller pops the
// reported number of bindings.
func (p *Parser) parseParams() ([]defn.Param, int, error) {
	if t := p.cur().Type; t != CLROUND && t != LROUND {
		return nil, 0, nil
	}
	p.pos++
	var params []defn.Param
	pushed := 0
	if p.match(RROUND) {
		return params, pushed, nil
	}
	for {
		name, err := p.expect(IDENT, "parameter name")
		if err != nil {
			return params, pushed, err
		}
		var anno term.Term
		if p.match(COLON) {
			anno, err = p.parseTerm()
			if err != nil {
				return params, pushed, err
			}
		}
		params = append(params, defn.Param{Name: name.Lexeme, Anno: anno})
		p.pushBound(name.Lexeme)
		pushed++
		if p.match(COMMA) {
			continue
		}
		if _, err := p.expect(RROUND, "')'"); err != nil {
			return params, pushed, err
		}
		return params, pushed, nil
	}
}

func (p *Parser) parseTerm() (term.Term, error) {
	switch p.cur().Type {
	case LAMBDA:
		return p.parseBinder(term.BindLambda)
	case PI:
		return p.parseBinder(term.BindPi)
	default:
		return p.parseArrow()
	}
}

// parseBinder parses λ or Π followed by one or more binders and a dotted
// body: λx. b, λx:T. b, λ(x:T) (y:U). b, λx y z. b. An unparenthesized
// annotation binds a single variable, with the annotation running to the dot.
func (p *Parser) parseBinder(kind term.BindKind) (term.Term, error) {
	p.pos++
	type bnd struct {
		name string
		anno term.Term
	}
	var binders []bnd
	pushed := 0
	defer func() { p.popBound(pushed) }()
	for {
		t := p.cur()
		if t.Type == IDENT {
			p.pos++
			if p.match(COLON) {
				anno, err := p.parseTerm()
				if err != nil {
					return nil, err
				}
				binders = append(binders, bnd{t.Lexeme, anno})
				p.pushBound(t.Lexeme)
				pushed++
				break
			}
			binders = append(binders, bnd{t.Lexeme, nil})
			p.pushBound(t.Lexeme)
			pushed++
			continue
		}
		if t.Type == LROUND || t.Type == CLROUND {
			p.pos++
			name, err := p.expect(IDENT, "bound variable")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(COLON, "':'"); err != nil {
				return nil, err
			}
			anno, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RROUND, "')'"); err != nil {
				return nil, err
			}
			binders = append(binders, bnd{name.Lexeme, anno})
			p.pushBound(name.Lexeme)
			pushed++
			continue
		}
		if len(binders) == 0 {
			return nil, p.errAt(t, "expected a bound variable")
		}
		break
	}
	if _, err := p.expect(DOT, "'.'"); err != nil {
		return nil, err
	}
	body, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	out := body
	for i := len(binders) - 1; i >= 0; i-- {
		out = &term.Binder{Kind: kind, Bound: binders[i].name, Anno: binders[i].anno, Body: out}
	}
	return out, nil
}

// parseArrow parses application chains and the function-type arrow. An
// ascription of a bare name on the arrow's left side binds that name in the
// right side: (x : T) -> U is the dependent product.
func (p *Parser) parseArrow() (term.Term, error) {
	lhs, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	if !p.match(ARROW) {
		return lhs, nil
	}
	if asc, ok := lhs.(*term.Ascription); ok {
		if name, ok := ascribedName(asc.Body); ok {
			p.pushBound(name)
			rhs, err := p.parseTerm()
			p.popBound(1)
			if err != nil {
				return nil, err
			}
			return term.Pi(name, asc.Anno, rhs), nil
		}
	}
	rhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return term.Pi("_", lhs, rhs), nil
}

// ascribedName extracts the variable name from the left side of a dependent
// arrow, whether it resolved to a variable or to an unapplied reference.
func ascribedName(t term.Term) (string, bool) {
	switch t := t.(type) {
	case *term.Variable:
		return t.Name, true
	case *term.Reference:
		if len(t.Args) == 0 {
			return t.Name, true
		}
	}
	return "", false
}

func (p *Parser) parseApp() (term.Term, error) {
	out, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.startsPrimary() {
		arg, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		out = term.App(out, arg)
	}
	return out, nil
}

func (p *Parser) startsPrimary() bool {
	switch p.cur().Type {
	case IDENT, LROUND:
		return true
	default:
		return false
	}
}

// parsePrimary parses an atom followed by any number of attached argument
// lists. The first list on an unapplied reference becomes the reference's
// own arguments; anything else folds into applications.
func (p *Parser) parsePrimary() (term.Term, error) {
	out, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == CLROUND {
		p.pos++
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if ref, ok := out.(*term.Reference); ok && len(ref.Args) == 0 {
			out = term.Ref(ref.Name, args...)
			continue
		}
		out = term.App(out, args...)
	}
	return out, nil
}

func (p *Parser) parseArgs() ([]term.Term, error) {
	var args []term.Term
	if p.match(RROUND) {
		return args, nil
	}
	for {
		arg, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.match(COMMA) {
			continue
		}
		if _, err := p.expect(RROUND, "')'"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func (p *Parser) parseAtom() (term.Term, error) {
	t := p.cur()
	switch t.Type {
	case IDENT:
		p.pos++
		if p.isBound(t.Lexeme) {
			return term.Var(t.Lexeme), nil
		}
		return term.Ref(t.Lexeme), nil
	case LROUND, CLROUND:
		p.pos++
		inner, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if p.match(COLON) {
			anno, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RROUND, "')'"); err != nil {
				return nil, err
			}
			return term.Ascribe(inner, anno), nil
		}
		if _, err := p.expect(RROUND, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		if t.Type == EOF {
			return nil, p.errAt(t, "expected a term, got end of input")
		}
		return nil, p.errAt(t, fmt.Sprintf("expected a term, got %q", t.Lexeme))
	}
}
