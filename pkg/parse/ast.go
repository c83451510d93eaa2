package parse

import (
	"github.com/pell-lang/pell/pkg/defn"
	"github.com/pell-lang/pell/pkg/term"
)

// Decl is a top-level declaration in a source file.
type Decl interface {
	decl()
}

// DefDecl introduces an unfoldable definition: def name(params) : Anno := Body.
type DefDecl struct {
	Name   string
	Params []defn.Param
	Anno   term.Term // declared result type, optional
	Body   term.Term
	Line   int
}

// AxiomDecl introduces an opaque constant: axiom name(params) : Anno.
type AxiomDecl struct {
	Name   string
	Params []defn.Param
	Anno   term.Term
	Line   int
}

// TheoremDecl introduces a theorem: theorem name(params) : Statement := Proof.
// A theorem without the := part is pending.
type TheoremDecl struct {
	Name      string
	Params    []defn.Param
	Statement term.Term
	Proof     term.Term
	Line      int
}

// EvalDecl asks for a term's normal form: eval Term.
type EvalDecl struct {
	Term term.Term
	Line int
}

// EquivDecl asks whether two terms share a normal form: equiv Left == Right.
type EquivDecl struct {
	Left  term.Term
	Right term.Term
	Line  int
}

func (*DefDecl) decl()     {}
func (*AxiomDecl) decl()   {}
func (*TheoremDecl) decl() {}
func (*EvalDecl) decl()    {}
func (*EquivDecl) decl()   {}

// DeclName returns the name a declaration introduces. Eval and equiv
// directives introduce nothing.
func DeclName(decl Decl) (string, bool) {
	switch d := decl.(type) {
	case *DefDecl:
		return d.Name, true
	case *AxiomDecl:
		return d.Name, true
	case *TheoremDecl:
		return d.Name, true
	default:
		return "", false
	}
}

// DeclLine returns the source line a declaration starts on.
func DeclLine(decl Decl) int {
	switch d := decl.(type) {
	case *DefDecl:
		return d.Line
	case *AxiomDecl:
		return d.Line
	case *TheoremDecl:
		return d.Line
	case *EvalDecl:
		return d.Line
	case *EquivDecl:
		return d.Line
	default:
		return 0
	}
}
