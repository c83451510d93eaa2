package defn

import (
	"context"
	"fmt"
	"strings"

	"github.com/pell-lang/pell/pkg/term"
	"github.com/samber/lo"
)

// Kind classifies a definition. The kind decides how a reference to the
// definition behaves under reduction.
type Kind int

const (
	// Regular definitions unfold to their body.
	Regular Kind = iota
	// Theorem definitions are proof-irrelevant: a proven theorem never
	// unfolds, an unproven one is an error to reduce.
	Theorem
	// Axiom definitions are opaque and never unfold.
	Axiom
	// Special definitions are implemented by the host.
	Special
)

func (k Kind) String() string {
	switch k {
	case Regular:
		return "def"
	case Theorem:
		return "theorem"
	case Axiom:
		return "axiom"
	case Special:
		return "special"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Param is a named parameter with an optional type annotation. Annotations
// of later parameters may mention earlier ones.
type Param struct {
	Name string
	Anno term.Term
}

// SpecialFn computes the replacement term for a special reference. It
// receives the environment the reduction runs in, the ambient binding scope
// at the reference site, and the un-normalized argument terms. Returning an
// error aborts normalization.
type SpecialFn func(ctx context.Context, env *Env, sc Scope, args []term.Term) (term.Term, error)

// Definition is a named entry in an environment.
type Definition struct {
	Name   string
	Doc    string
	Kind   Kind
	Params []Param

	// Anno is the declared result type, kept for display and tooling.
	// Reduction never consults it.
	Anno term.Term

	// Body is the unfolding of a Regular definition. nil means the
	// definition was declared but never given a body.
	Body term.Term

	// Proof is the proof term of a Theorem. nil marks the theorem
	// unproven.
	Proof term.Term

	// Fn is the host implementation of a Special definition.
	Fn SpecialFn
}

// Arity returns the number of declared parameters.
func (d *Definition) Arity() int {
	return len(d.Params)
}

// Signature renders the definition head the way it was declared, for
// listings and diagnostics.
func (d *Definition) Signature() string {
	var sb strings.Builder
	sb.WriteString(d.Kind.String())
	sb.WriteString(" ")
	sb.WriteString(d.Name)
	if len(d.Params) > 0 {
		params := lo.Map(d.Params, func(p Param, _ int) string {
			if p.Anno == nil {
				return p.Name
			}
			return fmt.Sprintf("%s : %s", p.Name, p.Anno)
		})
		fmt.Fprintf(&sb, "(%s)", strings.Join(params, ", "))
	}
	if d.Anno != nil {
		fmt.Fprintf(&sb, " : %s", d.Anno)
	}
	return sb.String()
}

// NewRegular constructs an unfoldable definition.
func NewRegular(name string, params []Param, body term.Term) *Definition {
	return &Definition{Name: name, Kind: Regular, Params: params, Body: body}
}

// NewTheorem constructs a theorem. proof may be nil, leaving the theorem
// unproven.
func NewTheorem(name string, params []Param, proof term.Term) *Definition {
	return &Definition{Name: name, Kind: Theorem, Params: params, Proof: proof}
}

// NewAxiom constructs an opaque definition.
func NewAxiom(name string, params ...Param) *Definition {
	return &Definition{Name: name, Kind: Axiom, Params: params}
}
